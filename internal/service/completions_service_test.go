package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	errorvalues "github.com/okral/habitboard/internal/error_values"
	"github.com/okral/habitboard/internal/repository"
	"github.com/okral/habitboard/internal/service"
	"github.com/okral/habitboard/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completionsRepoMock struct {
	state mockState
}

var testCompletion = entity.HabitCompletion{
	ID:                   7,
	HabitID:              habitID,
	Date:                 "2024-01-01",
	Completed:            true,
	CompletionPercentage: 100,
}

func (crmock *completionsRepoMock) Upsert(ctx context.Context, completion *entity.HabitCompletion) (*entity.HabitCompletion, error) {
	switch crmock.state {
	case stateHabitNotFoundError:
		return nil, errorvalues.ErrHabitNotFound
	case stateDBError:
		return nil, errors.New("db error")
	default:
		stored := *completion
		stored.ID = testCompletion.ID
		return &stored, nil
	}
}

func (crmock *completionsRepoMock) GetByHabitAndDate(ctx context.Context, habitID int64, date string) (*entity.HabitCompletion, error) {
	switch crmock.state {
	case stateDBError:
		return nil, errors.New("db error")
	default:
		completion := testCompletion
		return &completion, nil
	}
}

func (crmock *completionsRepoMock) GetByHabit(ctx context.Context, habitID int64) ([]entity.HabitCompletion, error) {
	switch crmock.state {
	case stateDBError:
		return nil, errors.New("db error")
	default:
		return []entity.HabitCompletion{testCompletion}, nil
	}
}

func (crmock *completionsRepoMock) GetByHabitAndRange(ctx context.Context, habitID int64, from, to string) ([]entity.HabitCompletion, error) {
	switch crmock.state {
	case stateDBError:
		return nil, errors.New("db error")
	default:
		return []entity.HabitCompletion{testCompletion}, nil
	}
}

func TestTrackCompletion(t *testing.T) {
	habitsMock := &habitsRepoMock{state: stateSuccess}
	completionsMock := &completionsRepoMock{state: stateSuccess}
	s := service.NewCompletionsService(habitsMock, completionsMock)
	ctx := context.Background()
	req := service.TrackCompletionRequest{
		Date:                 "2024-01-01",
		Completed:            true,
		CompletionPercentage: 100,
	}
	t.Run("success", func(t *testing.T) {
		completion, err := s.TrackCompletion(ctx, habitID, userID, &req)
		assert.NoError(t, err)
		assert.Equal(t, testCompletion.ID, completion.ID)
		assert.Equal(t, req.Date, completion.Date)
	})
	t.Run("malformed date", func(t *testing.T) {
		bad := req
		bad.Date = "01-02-2024"
		_, err := s.TrackCompletion(ctx, habitID, userID, &bad)
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("percentage out of range", func(t *testing.T) {
		bad := req
		bad.CompletionPercentage = 150
		_, err := s.TrackCompletion(ctx, habitID, userID, &bad)
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("habit not found", func(t *testing.T) {
		habitsMock.state = stateHabitNotFoundError
		_, err := s.TrackCompletion(ctx, habitID, userID, &req)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
		habitsMock.state = stateSuccess
	})
	t.Run("wrong owner", func(t *testing.T) {
		habitsMock.state = stateWrongOwner
		_, err := s.TrackCompletion(ctx, habitID, userID, &req)
		assert.ErrorIs(t, err, errorvalues.ErrWrongOwner)
		habitsMock.state = stateSuccess
	})
	t.Run("db error", func(t *testing.T) {
		completionsMock.state = stateDBError
		_, err := s.TrackCompletion(ctx, habitID, userID, &req)
		assert.Error(t, err)
		completionsMock.state = stateSuccess
	})
}

// Concurrent tracking of the same day must still produce one record.
func TestTrackCompletionConcurrent(t *testing.T) {
	store := repository.NewMemoryStore()
	user, err := store.Create(context.Background(), &entity.User{Username: "demo", Password: "demo123"})
	require.NoError(t, err)
	habitsRepo := store.Habits()
	habit, err := habitsRepo.Create(context.Background(), &entity.Habit{Name: "Run", Category: "Health", UserID: user.ID, Frequency: "daily"})
	require.NoError(t, err)
	s := service.NewCompletionsService(habitsRepo, store.Completions())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.TrackCompletion(context.Background(), habit.ID, user.ID, &service.TrackCompletionRequest{
				Date:                 "2024-01-01",
				Completed:            true,
				CompletionPercentage: 100,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	completions, err := s.GetCompletions(context.Background(), habit.ID, user.ID)
	assert.NoError(t, err)
	assert.Len(t, completions, 1)
}

func TestGetCompletions(t *testing.T) {
	habitsMock := &habitsRepoMock{state: stateSuccess}
	completionsMock := &completionsRepoMock{state: stateSuccess}
	s := service.NewCompletionsService(habitsMock, completionsMock)
	ctx := context.Background()
	t.Run("all", func(t *testing.T) {
		completions, err := s.GetCompletions(ctx, habitID, userID)
		assert.NoError(t, err)
		assert.Len(t, completions, 1)
	})
	t.Run("range", func(t *testing.T) {
		completions, err := s.GetCompletionsInRange(ctx, habitID, userID, "2024-01-01", "2024-01-31")
		assert.NoError(t, err)
		assert.Len(t, completions, 1)
	})
	t.Run("by date", func(t *testing.T) {
		completion, err := s.GetCompletionByDate(ctx, habitID, userID, "2024-01-01")
		assert.NoError(t, err)
		assert.Equal(t, testCompletion, *completion)
	})
	t.Run("habit not found", func(t *testing.T) {
		habitsMock.state = stateHabitNotFoundError
		_, err := s.GetCompletions(ctx, habitID, userID)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
		habitsMock.state = stateSuccess
	})
	t.Run("wrong owner", func(t *testing.T) {
		habitsMock.state = stateWrongOwner
		_, err := s.GetCompletionsInRange(ctx, habitID, userID, "2024-01-01", "2024-01-31")
		assert.ErrorIs(t, err, errorvalues.ErrWrongOwner)
		habitsMock.state = stateSuccess
	})
}
