package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	errorvalues "github.com/okral/habitboard/internal/error_values"
	"github.com/okral/habitboard/pkg/entity"
)

// MemoryStore keeps every entity in process memory, keyed by
// monotonically increasing ids. It backs all three repositories and is
// the default storage when no postgres address is configured.
type MemoryStore struct {
	mu sync.RWMutex

	users       map[int64]*entity.User
	habits      map[int64]*entity.Habit
	completions map[int64]*entity.HabitCompletion

	userIDCounter       int64
	habitIDCounter      int64
	completionIDCounter int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[int64]*entity.User),
		habits:      make(map[int64]*entity.Habit),
		completions: make(map[int64]*entity.HabitCompletion),
	}
}

func (ms *MemoryStore) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, u := range ms.users {
		if u.Username == user.Username {
			return nil, errorvalues.ErrUserExists
		}
	}
	ms.userIDCounter++
	stored := *user
	stored.ID = ms.userIDCounter
	ms.users[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (ms *MemoryStore) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	user, ok := ms.users[id]
	if !ok {
		return nil, errorvalues.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (ms *MemoryStore) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	for _, user := range ms.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errorvalues.ErrUserNotFound
}

// Habits returns the habits repository view of the store.
func (ms *MemoryStore) Habits() *MemoryHabitsRepo {
	return &MemoryHabitsRepo{store: ms}
}

// Completions returns the completions repository view of the store.
func (ms *MemoryStore) Completions() *MemoryCompletionsRepo {
	return &MemoryCompletionsRepo{store: ms}
}

type MemoryHabitsRepo struct {
	store *MemoryStore
}

func (repo *MemoryHabitsRepo) Create(ctx context.Context, habit *entity.Habit) (*entity.Habit, error) {
	if habit == nil {
		return nil, errors.New("habit is nil")
	}
	ms := repo.store
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if _, ok := ms.users[habit.UserID]; !ok {
		return nil, errorvalues.ErrOwnerNotFound
	}
	ms.habitIDCounter++
	stored := *habit
	stored.ID = ms.habitIDCounter
	stored.CreatedAt = time.Now()
	if stored.DaysOfWeek == nil {
		stored.DaysOfWeek = []int{0, 1, 2, 3, 4, 5, 6}
	}
	ms.habits[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (repo *MemoryHabitsRepo) GetByID(ctx context.Context, id int64) (*entity.Habit, error) {
	ms := repo.store
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	habit, ok := ms.habits[id]
	if !ok {
		return nil, errorvalues.ErrHabitNotFound
	}
	copied := *habit
	return &copied, nil
}

func (repo *MemoryHabitsRepo) GetByUserID(ctx context.Context, userID int64) ([]*entity.Habit, error) {
	ms := repo.store
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	habits := make([]*entity.Habit, 0)
	for _, habit := range ms.habits {
		if habit.UserID == userID {
			copied := *habit
			habits = append(habits, &copied)
		}
	}
	// ids grow monotonically, so ascending id equals insertion order
	sort.Slice(habits, func(i, j int) bool { return habits[i].ID < habits[j].ID })
	return habits, nil
}

func (repo *MemoryHabitsRepo) Update(ctx context.Context, habit *entity.Habit) error {
	if habit == nil {
		return errors.New("habit is nil")
	}
	ms := repo.store
	ms.mu.Lock()
	defer ms.mu.Unlock()
	existing, ok := ms.habits[habit.ID]
	if !ok {
		return errorvalues.ErrHabitNotFound
	}
	stored := *habit
	stored.CreatedAt = existing.CreatedAt
	ms.habits[stored.ID] = &stored
	return nil
}

func (repo *MemoryHabitsRepo) Delete(ctx context.Context, id int64) error {
	ms := repo.store
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if _, ok := ms.habits[id]; !ok {
		return errorvalues.ErrHabitNotFound
	}
	delete(ms.habits, id)
	for completionID, completion := range ms.completions {
		if completion.HabitID == id {
			delete(ms.completions, completionID)
		}
	}
	return nil
}

type MemoryCompletionsRepo struct {
	store *MemoryStore
}

func (repo *MemoryCompletionsRepo) Upsert(ctx context.Context, completion *entity.HabitCompletion) (*entity.HabitCompletion, error) {
	if completion == nil {
		return nil, errors.New("completion is nil")
	}
	ms := repo.store
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, existing := range ms.completions {
		if existing.HabitID == completion.HabitID && existing.Date == completion.Date {
			existing.Completed = completion.Completed
			existing.CompletionPercentage = completion.CompletionPercentage
			copied := *existing
			return &copied, nil
		}
	}
	ms.completionIDCounter++
	stored := *completion
	stored.ID = ms.completionIDCounter
	ms.completions[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (repo *MemoryCompletionsRepo) GetByHabitAndDate(ctx context.Context, habitID int64, date string) (*entity.HabitCompletion, error) {
	ms := repo.store
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	for _, completion := range ms.completions {
		if completion.HabitID == habitID && completion.Date == date {
			copied := *completion
			return &copied, nil
		}
	}
	return nil, errorvalues.ErrCompletionNotFound
}

func (repo *MemoryCompletionsRepo) GetByHabit(ctx context.Context, habitID int64) ([]entity.HabitCompletion, error) {
	ms := repo.store
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	result := make([]entity.HabitCompletion, 0)
	for _, completion := range ms.completions {
		if completion.HabitID == habitID {
			result = append(result, *completion)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

func (repo *MemoryCompletionsRepo) GetByHabitAndRange(ctx context.Context, habitID int64, from, to string) ([]entity.HabitCompletion, error) {
	ms := repo.store
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	result := make([]entity.HabitCompletion, 0)
	for _, completion := range ms.completions {
		if completion.HabitID == habitID && completion.Date >= from && completion.Date <= to {
			result = append(result, *completion)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}
