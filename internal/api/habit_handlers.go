package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	errorvalues "github.com/okral/habitboard/internal/error_values"
	"github.com/okral/habitboard/internal/service"
	"github.com/okral/habitboard/pkg/entity"
	"github.com/okral/habitboard/pkg/httputil"
)

type CreateHabitRequest struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Frequency    string  `json:"frequency"`
	DaysOfWeek   []int   `json:"daysOfWeek"`
	ReminderTime *string `json:"reminderTime"`
	Notes        *string `json:"notes"`
}

type UpdateHabitRequest struct {
	Name         *string `json:"name"`
	Category     *string `json:"category"`
	Frequency    *string `json:"frequency"`
	DaysOfWeek   []int   `json:"daysOfWeek"`
	ReminderTime *string `json:"reminderTime"`
	Notes        *string `json:"notes"`
}

// Habit card payload: the habit plus its last-7-day rows and streak
// values for the dots on the board.
type HabitCardResponse struct {
	*entity.Habit
	Completions   []entity.HabitCompletion `json:"completions"`
	Streak        int                      `json:"streak"`
	CurrentStreak int                      `json:"currentStreak"`
	LongestStreak int                      `json:"longestStreak"`
}

type HabitDetailResponse struct {
	*entity.Habit
	Completions []entity.HabitCompletion `json:"completions"`
	Streak      int                      `json:"streak"`
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id in path value")
	}
	return id, nil
}

func (s *Server) ListHabits(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("list habits error: no user in context")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "no user provided", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*15)
	defer cancel()
	habits, err := s.habitsService.GetUserHabits(ctx, uid)
	if err != nil {
		logger.Error("getting habits list error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting habits list", nil)
		return
	}
	today := time.Now()
	cards := make([]HabitCardResponse, 0, len(habits))
	for _, habit := range habits {
		week := make([]entity.HabitCompletion, 0, 7)
		for i := 6; i >= 0; i-- {
			date := today.AddDate(0, 0, -i).Format("2006-01-02")
			completion, err := s.completionsService.GetCompletionByDate(ctx, habit.ID, uid, date)
			switch {
			case err == nil:
				week = append(week, *completion)
			case errors.Is(err, errorvalues.ErrCompletionNotFound):
				// Untracked days render as empty rows
				week = append(week, entity.HabitCompletion{HabitID: habit.ID, Date: date})
			default:
				logger.Error("getting week completions error", slog.String("error", err.Error()))
				httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting completions", nil)
				return
			}
		}
		streak, err := s.statsService.CurrentStreak(ctx, habit.ID)
		if err != nil {
			logger.Error("getting streak error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting streak", nil)
			return
		}
		cards = append(cards, HabitCardResponse{
			Habit:         habit,
			Completions:   week,
			Streak:        streak,
			CurrentStreak: streak,
			LongestStreak: streak,
		})
	}
	httputil.WriteJSONResponse(w, http.StatusOK, cards)
	logger.Info("habits provided")
}

func (s *Server) CreateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create habit error: no user in context")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "no user provided", nil)
		return
	}
	var req CreateHabitRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create habit error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.Frequency == "" {
		req.Frequency = "daily"
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	habit, err := s.habitsService.CreateHabit(ctx, uid, &service.CreateHabitRequest{
		Name:         req.Name,
		Category:     req.Category,
		Frequency:    req.Frequency,
		DaysOfWeek:   req.DaysOfWeek,
		ReminderTime: req.ReminderTime,
		Notes:        req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("create habit error: invalid habit data")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit data", err)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("create habit error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "couldn't create habit: user doesn't exists", nil)
		default:
			logger.Error("create habit error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating habit", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, habit)
	logger.Info("habit created")
}

func (s *Server) GetHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get habit error: no user in context")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "no user provided", nil)
		return
	}
	id, err := parseIDParam(r, "id")
	if err != nil {
		logger.Error("get habit error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	habit, err := s.habitsService.GetHabit(ctx, id, uid)
	if err != nil {
		writeHabitLookupError(w, logger, "get habit", err)
		return
	}
	completions, err := s.completionsService.GetCompletions(ctx, id, uid)
	if err != nil {
		logger.Error("get habit error: completions error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting completions", nil)
		return
	}
	streak, err := s.statsService.CurrentStreak(ctx, id)
	if err != nil {
		logger.Error("get habit error: streak error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting streak", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, HabitDetailResponse{
		Habit:       habit,
		Completions: completions,
		Streak:      streak,
	})
	logger.Info("habit provided")
}

func (s *Server) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update habit error: no user in context")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "no user provided", nil)
		return
	}
	id, err := parseIDParam(r, "id")
	if err != nil {
		logger.Error("update habit error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	var req UpdateHabitRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update habit error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	habit, err := s.habitsService.UpdateHabit(ctx, id, uid, &service.UpdateHabitRequest{
		Name:         req.Name,
		Category:     req.Category,
		Frequency:    req.Frequency,
		DaysOfWeek:   req.DaysOfWeek,
		ReminderTime: req.ReminderTime,
		Notes:        req.Notes,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrValidation) {
			logger.Error("update habit error: invalid habit data")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit data", err)
			return
		}
		writeHabitLookupError(w, logger, "update habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
	logger.Info("habit updated")
}

func (s *Server) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("habit deletion error: no user in context")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "no user provided", nil)
		return
	}
	id, err := parseIDParam(r, "id")
	if err != nil {
		logger.Error("habit deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	err = s.habitsService.DeleteHabit(ctx, id, uid)
	if err != nil {
		writeHabitLookupError(w, logger, "habit deletion", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("habit deleted")
}

// Foreign habits read as not-found so user ids cannot be probed.
func writeHabitLookupError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, errorvalues.ErrHabitNotFound):
		logger.Error(op + " error: unexist habit")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrWrongOwner):
		logger.Error(op + " error: habit has different owner")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
	default:
		logger.Error(op+" error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal service error", nil)
	}
}
