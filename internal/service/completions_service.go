package service

import (
	"context"
	"errors"
	"log"
	"sync"

	errorvalues "github.com/okral/habitboard/internal/error_values"
	"github.com/okral/habitboard/internal/repository"
	"github.com/okral/habitboard/pkg/entity"
)

type CompletionsService struct {
	habitsRepo      repository.HabitsRepositoryI
	completionsRepo repository.CompletionsRepositoryI

	// serializes tracking per habit so two requests for the same day
	// cannot race into two rows
	trackMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

func NewCompletionsService(habitsRepo repository.HabitsRepositoryI, completionsRepo repository.CompletionsRepositoryI) *CompletionsService {
	if habitsRepo == nil || completionsRepo == nil {
		log.Fatal("on completions service provided nil repos")
	}
	return &CompletionsService{
		habitsRepo:      habitsRepo,
		completionsRepo: completionsRepo,
		locks:           make(map[int64]*sync.Mutex),
	}
}

func (serv *CompletionsService) habitLock(habitID int64) *sync.Mutex {
	serv.trackMu.Lock()
	defer serv.trackMu.Unlock()
	mu, ok := serv.locks[habitID]
	if !ok {
		mu = &sync.Mutex{}
		serv.locks[habitID] = mu
	}
	return mu
}

func (serv *CompletionsService) ownedHabit(ctx context.Context, habitID, userID int64) error {
	habit, err := serv.habitsRepo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("repository error: " + err.Error())
	}
	if habit.UserID != userID {
		return errorvalues.ErrWrongOwner
	}
	return nil
}

// TrackCompletion records the observation for (habitID, req.Date).
// Repeated calls for the same day overwrite the existing record in
// place, so the three-state toggle 0% -> 50% -> 100% -> 0% never
// produces a second row.
func (serv *CompletionsService) TrackCompletion(ctx context.Context, habitID, userID int64, req *TrackCompletionRequest) (*entity.HabitCompletion, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	if err := serv.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}
	mu := serv.habitLock(habitID)
	mu.Lock()
	defer mu.Unlock()
	completion, err := serv.completionsRepo.Upsert(ctx, &entity.HabitCompletion{
		HabitID:              habitID,
		Date:                 req.Date,
		Completed:            req.Completed,
		CompletionPercentage: req.CompletionPercentage,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	return completion, nil
}

func (serv *CompletionsService) GetCompletions(ctx context.Context, habitID, userID int64) ([]entity.HabitCompletion, error) {
	if err := serv.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}
	completions, err := serv.completionsRepo.GetByHabit(ctx, habitID)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return completions, nil
}

func (serv *CompletionsService) GetCompletionsInRange(ctx context.Context, habitID, userID int64, from, to string) ([]entity.HabitCompletion, error) {
	if err := serv.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}
	completions, err := serv.completionsRepo.GetByHabitAndRange(ctx, habitID, from, to)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return completions, nil
}

func (serv *CompletionsService) GetCompletionByDate(ctx context.Context, habitID, userID int64, date string) (*entity.HabitCompletion, error) {
	if err := serv.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}
	completion, err := serv.completionsRepo.GetByHabitAndDate(ctx, habitID, date)
	if err != nil {
		if errors.Is(err, errorvalues.ErrCompletionNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	return completion, nil
}
