package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/okral/habitboard/internal/error_values"
	"github.com/okral/habitboard/internal/repository"
	"github.com/okral/habitboard/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
)

var (
	testUserID = int64(1)
)

func TestPgCreateHabit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	habit := entity.Habit{
		UserID:     testUserID,
		Name:       "Meditate",
		Category:   "Health",
		Frequency:  "daily",
		DaysOfWeek: []int{1, 2, 3},
	}
	createdAt := time.Now()
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO habits (name, category, user_id, frequency, days_of_week, reminder_time, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at;`)
	t.Run("successfully created", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.Name, habit.Category, habit.UserID, habit.Frequency, habit.DaysOfWeek, habit.ReminderTime, habit.Notes).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), createdAt))
		created, err := repo.Create(ctx, &habit)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), created.ID)
		assert.Equal(t, createdAt, created.CreatedAt)
	})
	t.Run("FK violation", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.Name, habit.Category, habit.UserID, habit.Frequency, habit.DaysOfWeek, habit.ReminderTime, habit.Notes).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		_, err := repo.Create(ctx, &habit)
		assert.ErrorIs(t, err, errorvalues.ErrOwnerNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.Name, habit.Category, habit.UserID, habit.Frequency, habit.DaysOfWeek, habit.ReminderTime, habit.Notes).
			WillReturnError(errors.New("db error"))
		_, err := repo.Create(ctx, &habit)
		assert.Error(t, err)
	})
	t.Run("nil days of week default", func(t *testing.T) {
		noDays := habit
		noDays.DaysOfWeek = nil
		mock.ExpectQuery(query).
			WithArgs(habit.Name, habit.Category, habit.UserID, habit.Frequency, []int{0, 1, 2, 3, 4, 5, 6}, habit.ReminderTime, habit.Notes).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(6), createdAt))
		created, err := repo.Create(ctx, &noDays)
		assert.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, created.DaysOfWeek)
	})
}

func TestPgGetHabitByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	habit := entity.Habit{
		ID:         3,
		UserID:     testUserID,
		Name:       "Meditate",
		Category:   "Health",
		Frequency:  "daily",
		DaysOfWeek: []int{0, 1, 2, 3, 4, 5, 6},
		CreatedAt:  time.Now(),
	}
	query := regexp.QuoteMeta(`SELECT name, category, user_id, frequency, days_of_week, reminder_time, notes, created_at FROM habits WHERE id = $1;`)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.ID).
			WillReturnRows(pgxmock.NewRows([]string{"name", "category", "user_id", "frequency", "days_of_week", "reminder_time", "notes", "created_at"}).
				AddRow(habit.Name, habit.Category, habit.UserID, habit.Frequency, habit.DaysOfWeek, habit.ReminderTime, habit.Notes, habit.CreatedAt),
			)
		result, err := repo.GetByID(ctx, habit.ID)
		assert.NoError(t, err)
		assert.Equal(t, habit, *result)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.ID).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetByID(ctx, habit.ID)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
}

func TestPgGetHabitsByUserID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	query := regexp.QuoteMeta(`SELECT id, name, category, user_id, frequency, days_of_week, reminder_time, notes, created_at
		FROM habits WHERE user_id = $1 ORDER BY id;`)
	ctx := context.Background()
	createdAt := time.Now()
	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(testUserID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "category", "user_id", "frequency", "days_of_week", "reminder_time", "notes", "created_at"}).
				AddRow(int64(1), "Meditate", "Health", testUserID, "daily", []int{0, 1, 2}, (*string)(nil), (*string)(nil), createdAt).
				AddRow(int64(2), "Read", "Learning", testUserID, "daily", []int{0, 1, 2}, (*string)(nil), (*string)(nil), createdAt),
			)
		habits, err := repo.GetByUserID(ctx, testUserID)
		assert.NoError(t, err)
		assert.Len(t, habits, 2)
		assert.Equal(t, int64(1), habits[0].ID)
		assert.Equal(t, int64(2), habits[1].ID)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(testUserID).
			WillReturnError(errors.New("db error"))
		_, err := repo.GetByUserID(ctx, testUserID)
		assert.Error(t, err)
	})
}

func TestPgUpdateHabit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	habit := entity.Habit{
		ID:         3,
		UserID:     testUserID,
		Name:       "Meditate",
		Category:   "Health",
		Frequency:  "daily",
		DaysOfWeek: []int{0, 1},
	}
	query := regexp.QuoteMeta(`UPDATE habits SET name = $1, category = $2, frequency = $3, days_of_week = $4, reminder_time = $5, notes = $6 WHERE id = $7;`)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(habit.Name, habit.Category, habit.Frequency, habit.DaysOfWeek, habit.ReminderTime, habit.Notes, habit.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		err := repo.Update(ctx, &habit)
		assert.NoError(t, err)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(habit.Name, habit.Category, habit.Frequency, habit.DaysOfWeek, habit.ReminderTime, habit.Notes, habit.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		err := repo.Update(ctx, &habit)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
}

func TestPgDeleteHabit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	completionsQuery := regexp.QuoteMeta(`DELETE FROM habit_completions WHERE habit_id = $1;`)
	habitsQuery := regexp.QuoteMeta(`DELETE FROM habits WHERE id = $1;`)
	ctx := context.Background()
	habitID := int64(3)
	t.Run("cascade in one tx", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(completionsQuery).
			WithArgs(habitID).
			WillReturnResult(pgxmock.NewResult("DELETE", 4))
		mock.ExpectExec(habitsQuery).
			WithArgs(habitID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()
		err := repo.Delete(ctx, habitID)
		assert.NoError(t, err)
	})
	t.Run("not found rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(completionsQuery).
			WithArgs(habitID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec(habitsQuery).
			WithArgs(habitID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectRollback()
		err := repo.Delete(ctx, habitID)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(completionsQuery).
			WithArgs(habitID).
			WillReturnError(errors.New("db error"))
		mock.ExpectRollback()
		err := repo.Delete(ctx, habitID)
		assert.Error(t, err)
	})
}
