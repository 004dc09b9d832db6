package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/okral/habitboard/internal/service"
	"github.com/okral/habitboard/pkg/httputil"
)

type Server struct {
	mx                 *chi.Mux
	userService        service.UserServiceI
	habitsService      service.HabitsServiceI
	completionsService service.CompletionsServiceI
	statsService       service.StatsServiceI
}

type ServicesList struct {
	UserService        service.UserServiceI
	HabitsService      service.HabitsServiceI
	CompletionsService service.CompletionsServiceI
	StatsService       service.StatsServiceI
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:                 chi.NewMux(),
		userService:        servicesOptions.UserService,
		habitsService:      servicesOptions.HabitsService,
		completionsService: servicesOptions.CompletionsService,
		statsService:       servicesOptions.StatsService,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Route("/api", func(r chi.Router) {
		r.Get("/health", s.Health)
		r.Group(func(r chi.Router) {
			r.Use(s.UserMiddleware)
			r.Get("/habits", s.ListHabits)
			r.Post("/habits", s.CreateHabit)
			r.Get("/habits/{id}", s.GetHabit)
			r.Put("/habits/{id}", s.UpdateHabit)
			r.Delete("/habits/{id}", s.DeleteHabit)
			r.Post("/habits/{habitID}/completions", s.TrackCompletion)
			r.Get("/habits/{habitID}/completions", s.GetCompletions)
			r.Get("/calendar", s.Calendar)
			r.Get("/stats", s.Stats)
		})
	})
}

func (s *Server) Run(address string) error {
	return http.ListenAndServe(address, s.mx)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mx
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
