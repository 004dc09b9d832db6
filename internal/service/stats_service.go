package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/okral/habitboard/internal/repository"
	"github.com/okral/habitboard/pkg/entity"
)

const dateLayout = "2006-01-02"

// completionRateWindow is the fixed denominator for the trailing
// completion rate. The window starts 30 days before today, so a fresh
// habit reports a low rate by convention, not by accident.
const completionRateWindow = 30

type StatsService struct {
	habitsRepo      repository.HabitsRepositoryI
	completionsRepo repository.CompletionsRepositoryI
	now             func() time.Time
}

func NewStatsService(habitsRepo repository.HabitsRepositoryI, completionsRepo repository.CompletionsRepositoryI) *StatsService {
	return NewStatsServiceWithClock(habitsRepo, completionsRepo, time.Now)
}

// NewStatsServiceWithClock pins "today" for streak and window math.
func NewStatsServiceWithClock(habitsRepo repository.HabitsRepositoryI, completionsRepo repository.CompletionsRepositoryI, now func() time.Time) *StatsService {
	if habitsRepo == nil || completionsRepo == nil {
		log.Fatal("on stats service provided nil repos")
	}
	if now == nil {
		now = time.Now
	}
	return &StatsService{
		habitsRepo:      habitsRepo,
		completionsRepo: completionsRepo,
		now:             now,
	}
}

// CurrentStreak walks backward one day at a time counting consecutive
// completed records. The walk anchors at today when today's record
// exists and is completed, otherwise at yesterday: an unfinished day
// neither breaks nor extends a streak before the user is done with it.
func (serv *StatsService) CurrentStreak(ctx context.Context, habitID int64) (int, error) {
	completions, err := serv.completionsRepo.GetByHabit(ctx, habitID)
	if err != nil {
		return 0, errors.New("repository error: " + err.Error())
	}
	if len(completions) == 0 {
		return 0, nil
	}
	byDate := make(map[string]entity.HabitCompletion, len(completions))
	for _, completion := range completions {
		byDate[completion.Date] = completion
	}

	day := serv.now()
	today, ok := byDate[day.Format(dateLayout)]
	if !ok || !today.Completed {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		completion, ok := byDate[day.Format(dateLayout)]
		if !ok || !completion.Completed {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}

func (serv *StatsService) GetHabitStats(ctx context.Context, habitID int64) (*entity.HabitStats, error) {
	streak, err := serv.CurrentStreak(ctx, habitID)
	if err != nil {
		return nil, err
	}
	today := serv.now()
	from := today.AddDate(0, 0, -completionRateWindow).Format(dateLayout)
	to := today.Format(dateLayout)
	window, err := serv.completionsRepo.GetByHabitAndRange(ctx, habitID, from, to)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	completedDays := 0
	for _, completion := range window {
		if completion.Completed {
			completedDays++
		}
	}
	return &entity.HabitStats{
		Streak:         streak,
		CompletionRate: float64(completedDays) / completionRateWindow * 100,
	}, nil
}

func (serv *StatsService) HabitSummaries(ctx context.Context, userID int64) ([]entity.HabitStatSummary, error) {
	habits, err := serv.habitsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	summaries := make([]entity.HabitStatSummary, 0, len(habits))
	for _, habit := range habits {
		stats, err := serv.GetHabitStats(ctx, habit.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, entity.HabitStatSummary{
			HabitID:        habit.ID,
			Name:           habit.Name,
			Category:       habit.Category,
			Streak:         stats.Streak,
			CompletionRate: stats.CompletionRate,
		})
	}
	return summaries, nil
}

// GetOverallStats aggregates across every habit of the user. With zero
// habits every field is 0, never NaN.
func (serv *StatsService) GetOverallStats(ctx context.Context, userID int64) (*entity.OverallStats, error) {
	summaries, err := serv.HabitSummaries(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return &entity.OverallStats{}, nil
	}
	var rateSum, streakSum float64
	longest := 0
	for _, summary := range summaries {
		rateSum += summary.CompletionRate
		streakSum += float64(summary.Streak)
		if summary.Streak > longest {
			longest = summary.Streak
		}
	}
	return &entity.OverallStats{
		TotalCompletionRate: rateSum / float64(len(summaries)),
		LongestStreak:       longest,
		AverageStreak:       streakSum / float64(len(summaries)),
	}, nil
}

// GetCategoryStats groups habits by their exact category string. Groups
// appear in first-seen order.
func (serv *StatsService) GetCategoryStats(ctx context.Context, userID int64) ([]entity.CategoryStats, error) {
	summaries, err := serv.HabitSummaries(ctx, userID)
	if err != nil {
		return nil, err
	}
	order := make([]string, 0)
	grouped := make(map[string][]entity.HabitStatSummary)
	for _, summary := range summaries {
		if _, ok := grouped[summary.Category]; !ok {
			order = append(order, summary.Category)
		}
		grouped[summary.Category] = append(grouped[summary.Category], summary)
	}
	result := make([]entity.CategoryStats, 0, len(order))
	for _, category := range order {
		members := grouped[category]
		var rateSum float64
		for _, member := range members {
			rateSum += member.CompletionRate
		}
		result = append(result, entity.CategoryStats{
			Category:              category,
			Habits:                members,
			AverageCompletionRate: rateSum / float64(len(members)),
		})
	}
	return result, nil
}

// GetTopHabits returns the n best habits by completion rate. The sort
// is stable, so ties keep habit insertion order.
func (serv *StatsService) GetTopHabits(ctx context.Context, userID int64, n int) ([]entity.HabitStatSummary, error) {
	summaries, err := serv.HabitSummaries(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CompletionRate > summaries[j].CompletionRate
	})
	if n < 0 {
		n = 0
	}
	if n > len(summaries) {
		n = len(summaries)
	}
	return summaries[:n], nil
}
