package service

import (
	"context"

	"github.com/okral/habitboard/pkg/entity"
)

type CreateHabitRequest struct {
	Name         string  `validate:"required,min=1,max=100"`
	Category     string  `validate:"required,min=1,max=100"`
	Frequency    string  `validate:"required,oneof=daily weekly custom"`
	DaysOfWeek   []int   `validate:"omitempty,max=7,dive,min=0,max=6"`
	ReminderTime *string `validate:"omitempty,reminder_time"`
	Notes        *string
}

// Nil fields are left untouched on the stored habit.
type UpdateHabitRequest struct {
	Name         *string `validate:"omitempty,min=1,max=100"`
	Category     *string `validate:"omitempty,min=1,max=100"`
	Frequency    *string `validate:"omitempty,oneof=daily weekly custom"`
	DaysOfWeek   []int   `validate:"omitempty,max=7,dive,min=0,max=6"`
	ReminderTime *string `validate:"omitempty,reminder_time"`
	Notes        *string
}

type TrackCompletionRequest struct {
	Date                 string `validate:"required,date_ymd"`
	Completed            bool
	CompletionPercentage int `validate:"min=0,max=100"`
}

type UserServiceI interface {
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// Creates the demo user when absent, returns it either way
	EnsureSeedUser(ctx context.Context, username, password string) (*entity.User, error)
}

type HabitsServiceI interface {
	// Validates the request and creates a habit owned by userID
	CreateHabit(ctx context.Context, userID int64, req *CreateHabitRequest) (*entity.Habit, error)
	// Lists habits of userID in insertion order
	GetUserHabits(ctx context.Context, userID int64) ([]*entity.Habit, error)
	// Returns the habit if it exists and belongs to userID
	GetHabit(ctx context.Context, habitID, userID int64) (*entity.Habit, error)
	// Merges non-nil request fields into the stored habit
	UpdateHabit(ctx context.Context, habitID, userID int64, req *UpdateHabitRequest) (*entity.Habit, error)
	// Deletes the habit and all its completions
	DeleteHabit(ctx context.Context, habitID, userID int64) error
}

type CompletionsServiceI interface {
	// Upserts the single completion record for (habitID, req.Date)
	TrackCompletion(ctx context.Context, habitID, userID int64, req *TrackCompletionRequest) (*entity.HabitCompletion, error)
	GetCompletions(ctx context.Context, habitID, userID int64) ([]entity.HabitCompletion, error)
	GetCompletionsInRange(ctx context.Context, habitID, userID int64, from, to string) ([]entity.HabitCompletion, error)
	GetCompletionByDate(ctx context.Context, habitID, userID int64, date string) (*entity.HabitCompletion, error)
}

type StatsServiceI interface {
	// Consecutive completed days counting back from today (or yesterday
	// when today is not yet completed)
	CurrentStreak(ctx context.Context, habitID int64) (int, error)
	GetHabitStats(ctx context.Context, habitID int64) (*entity.HabitStats, error)
	// Per-habit summaries for all habits of userID, in habit order
	HabitSummaries(ctx context.Context, userID int64) ([]entity.HabitStatSummary, error)
	GetOverallStats(ctx context.Context, userID int64) (*entity.OverallStats, error)
	GetCategoryStats(ctx context.Context, userID int64) ([]entity.CategoryStats, error)
	GetTopHabits(ctx context.Context, userID int64, n int) ([]entity.HabitStatSummary, error)
}
