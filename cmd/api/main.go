package main

import (
	"context"
	"log"
	"time"

	"github.com/okral/habitboard/internal/api"
	"github.com/okral/habitboard/internal/repository"
	"github.com/okral/habitboard/internal/service"
	"github.com/okral/habitboard/pkg/cleanup"
	"github.com/okral/habitboard/pkg/config"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()

	var (
		usersRepo       repository.UsersRepositoryI
		habitsRepo      repository.HabitsRepositoryI
		completionsRepo repository.CompletionsRepositoryI
	)
	switch cfg.GetStringOrDefault("STORAGE_BACKEND", "memory") {
	case "postgres":
		dbCfg := repository.PGCfg{
			Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
			Username: cfg.GetString("POSTGRES_USER"),
			Password: cfg.GetString("POSTGRES_PASSWORD"),
			DB:       cfg.GetString("POSTGRES_DB"),
		}
		usersRepo, habitsRepo, completionsRepo = repository.NewPostgresRepositories(&dbCfg)
	default:
		usersRepo, habitsRepo, completionsRepo = repository.NewMemoryRepositories()
	}

	userService := service.NewUserService(usersRepo)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	seedUser, err := userService.EnsureSeedUser(ctx,
		cfg.GetStringOrDefault("SEED_USER", "demo"),
		cfg.GetStringOrDefault("SEED_PASSWORD", "demo123"),
	)
	cancel()
	if err != nil {
		log.Fatal("seeding demo user error: " + err.Error())
	}
	log.Printf("demo user %q ready with id %d", seedUser.Username, seedUser.ID)

	serv := api.New(&api.ServicesList{
		UserService:        userService,
		HabitsService:      service.NewHabitsService(habitsRepo),
		CompletionsService: service.NewCompletionsService(habitsRepo, completionsRepo),
		StatsService:       service.NewStatsService(habitsRepo, completionsRepo),
	})
	err = serv.Run(cfg.GetStringOrDefault("API_ADDRESS", ":8080"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
	cleanup.CleanUp()
}
