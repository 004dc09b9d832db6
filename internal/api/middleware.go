package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/okral/habitboard/internal/error_values"
	"github.com/okral/habitboard/pkg/httputil"
)

type contextKey string

var (
	requestIDContextKey contextKey = "Request-ID"
	loggerContextKey    contextKey = "Logger"
	uidContextKey       contextKey = "User-ID"
)

func (s *Server) RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.New()
		ctx := context.WithValue(r.Context(), requestIDContextKey, reqID.String())
		r = r.WithContext(ctx)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) SettingUpLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.Default()
		reqID, ok := r.Context().Value(requestIDContextKey).(string)
		if ok && reqID != "" {
			logger = logger.With(slog.String("request_id", reqID))
		}
		logger = logger.With(slog.String("from", r.RemoteAddr))
		ctx := context.WithValue(r.Context(), loggerContextKey, logger)
		r = r.WithContext(ctx)
		next.ServeHTTP(w, r)
	})
}

// UserMiddleware resolves the calling user from the X-User-ID header
// (or the userId query param) and verifies the user exists. There is no
// authentication in this deployment, only explicit user selection.
func (s *Server) UserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLoggerFromCtx(r.Context())
		raw := r.Header.Get("X-User-ID")
		if raw == "" {
			raw = r.URL.Query().Get("userId")
		}
		if raw == "" {
			logger.Error("user resolution failed: no user id provided")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "user id is required (X-User-ID header or userId query param)", nil)
			return
		}
		uid, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || uid < 1 {
			logger.Error("user resolution failed: invalid user id")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid user id", nil)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), time.Second*5)
		defer cancel()
		_, err = s.userService.GetByID(ctx, uid)
		if err != nil {
			if errors.Is(err, errorvalues.ErrUserNotFound) {
				logger.Error("user doesn't exist")
				httputil.WriteErrorResponse(w, http.StatusNotFound, "user not found", nil)
				return
			}
			logger.Error("error while searching for user", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while searching for user", nil)
			return
		}
		ctx = context.WithValue(r.Context(), uidContextKey, uid)
		logger = logger.With(slog.Int64("uid", uid))
		ctx = context.WithValue(ctx, loggerContextKey, logger)
		r = r.WithContext(ctx)
		next.ServeHTTP(w, r)
	})
}

func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerContextKey).(*slog.Logger)
	if ok {
		return logger
	}
	return slog.Default()
}

func GetUIDFromContext(r *http.Request) (int64, error) {
	uid, ok := r.Context().Value(uidContextKey).(int64)
	if !ok {
		return 0, errors.New("uid invalid or doesn't exists")
	}
	return uid, nil
}
