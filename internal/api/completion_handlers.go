package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/okral/habitboard/internal/error_values"
	"github.com/okral/habitboard/internal/service"
	"github.com/okral/habitboard/pkg/httputil"
)

type TrackCompletionRequest struct {
	Date                 string `json:"date"`
	Completed            bool   `json:"completed"`
	CompletionPercentage int    `json:"completionPercentage"`
}

func (s *Server) TrackCompletion(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("track completion error: no user in context")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "no user provided", nil)
		return
	}
	habitID, err := parseIDParam(r, "habitID")
	if err != nil {
		logger.Error("track completion error: invalid habit id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	var req TrackCompletionRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("track completion error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	completion, err := s.completionsService.TrackCompletion(ctx, habitID, uid, &service.TrackCompletionRequest{
		Date:                 req.Date,
		Completed:            req.Completed,
		CompletionPercentage: req.CompletionPercentage,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrValidation) {
			logger.Error("track completion error: invalid completion data")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid completion data", err)
			return
		}
		writeHabitLookupError(w, logger, "track completion", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, completion)
	logger.Info("completion tracked")
}

func (s *Server) GetCompletions(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get completions error: no user in context")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "no user provided", nil)
		return
	}
	habitID, err := parseIDParam(r, "habitID")
	if err != nil {
		logger.Error("get completions error: invalid habit id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	if startDate != "" && endDate != "" {
		result, err := s.completionsService.GetCompletionsInRange(ctx, habitID, uid, startDate, endDate)
		if err != nil {
			writeHabitLookupError(w, logger, "get completions", err)
			return
		}
		httputil.WriteJSONResponse(w, http.StatusOK, result)
		logger.Info("completions provided")
		return
	}
	result, err := s.completionsService.GetCompletions(ctx, habitID, uid)
	if err != nil {
		writeHabitLookupError(w, logger, "get completions", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, result)
	logger.Info("completions provided")
}
