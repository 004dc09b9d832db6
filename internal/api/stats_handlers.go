package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/okral/habitboard/pkg/entity"
	"github.com/okral/habitboard/pkg/httputil"
)

type CalendarHabitResponse struct {
	HabitID     int64                    `json:"habitId"`
	Name        string                   `json:"name"`
	Category    string                   `json:"category"`
	Completions []entity.HabitCompletion `json:"completions"`
}

type StatsResponse struct {
	OverallStats  *entity.OverallStats      `json:"overallStats"`
	CategoryStats []entity.CategoryStats    `json:"categoryStats"`
	TopHabits     []entity.HabitStatSummary `json:"topHabits"`
}

// topHabitsCount matches the dashboard's "top performing" panel size.
const topHabitsCount = 3

func (s *Server) Calendar(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("calendar error: no user in context")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "no user provided", nil)
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		logger.Error("calendar error: invalid month")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "month and year are required", nil)
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1 {
		logger.Error("calendar error: invalid year")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "month and year are required", nil)
		return
	}
	startDate := fmt.Sprintf("%04d-%02d-01", year, month)
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	endDate := fmt.Sprintf("%04d-%02d-%02d", year, month, lastDay)

	ctx, cancel := context.WithTimeout(r.Context(), time.Second*15)
	defer cancel()
	habits, err := s.habitsService.GetUserHabits(ctx, uid)
	if err != nil {
		logger.Error("calendar error: habits error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting habits list", nil)
		return
	}
	calendar := make([]CalendarHabitResponse, 0, len(habits))
	for _, habit := range habits {
		completions, err := s.completionsService.GetCompletionsInRange(ctx, habit.ID, uid, startDate, endDate)
		if err != nil {
			logger.Error("calendar error: completions error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting completions", nil)
			return
		}
		calendar = append(calendar, CalendarHabitResponse{
			HabitID:     habit.ID,
			Name:        habit.Name,
			Category:    habit.Category,
			Completions: completions,
		})
	}
	httputil.WriteJSONResponse(w, http.StatusOK, calendar)
	logger.Info("calendar provided")
}

func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("stats error: no user in context")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "no user provided", nil)
		return
	}
	// period is accepted for the dashboard selector but the aggregates
	// are defined over fixed windows
	_ = r.URL.Query().Get("period")

	ctx, cancel := context.WithTimeout(r.Context(), time.Second*15)
	defer cancel()
	overall, err := s.statsService.GetOverallStats(ctx, uid)
	if err != nil {
		logger.Error("stats error: overall stats error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting stats", nil)
		return
	}
	categories, err := s.statsService.GetCategoryStats(ctx, uid)
	if err != nil {
		logger.Error("stats error: category stats error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting stats", nil)
		return
	}
	top, err := s.statsService.GetTopHabits(ctx, uid, topHabitsCount)
	if err != nil {
		logger.Error("stats error: top habits error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting stats", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, StatsResponse{
		OverallStats:  overall,
		CategoryStats: categories,
		TopHabits:     top,
	})
	logger.Info("stats provided")
}
