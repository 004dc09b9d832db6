package repository

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/okral/habitboard/internal/error_values"
	"github.com/okral/habitboard/pkg/cleanup"
	"github.com/okral/habitboard/pkg/entity"
)

type HabitsRepository struct {
	conn PgConnection
}

func NewHabitsRepo(cfg DBConfig) *HabitsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for habitsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing habitsRepo pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &HabitsRepository{
		conn: pool,
	}
}

func NewHabitsRepoWithConn(conn PgConnection) *HabitsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	return &HabitsRepository{
		conn: conn,
	}
}

func (hr *HabitsRepository) Create(ctx context.Context, habit *entity.Habit) (*entity.Habit, error) {
	if habit == nil {
		return nil, errors.New("habit is nil")
	}
	stored := *habit
	if stored.DaysOfWeek == nil {
		stored.DaysOfWeek = []int{0, 1, 2, 3, 4, 5, 6}
	}
	row := hr.conn.QueryRow(ctx, `INSERT INTO habits (name, category, user_id, frequency, days_of_week, reminder_time, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at;`,
		stored.Name,
		stored.Category,
		stored.UserID,
		stored.Frequency,
		stored.DaysOfWeek,
		stored.ReminderTime,
		stored.Notes,
	)
	if err := row.Scan(&stored.ID, &stored.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return nil, errorvalues.ErrOwnerNotFound
			}
		}
		return nil, errors.New("creating habit db error: " + err.Error())
	}
	return &stored, nil
}

func (hr *HabitsRepository) GetByID(ctx context.Context, id int64) (*entity.Habit, error) {
	var habit entity.Habit
	habit.ID = id
	row := hr.conn.QueryRow(ctx, `SELECT name, category, user_id, frequency, days_of_week, reminder_time, notes, created_at FROM habits WHERE id = $1;`, id)
	if err := row.Scan(&habit.Name, &habit.Category, &habit.UserID, &habit.Frequency, &habit.DaysOfWeek, &habit.ReminderTime, &habit.Notes, &habit.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrHabitNotFound
		}
		return nil, errors.New("getting habit by id error: " + err.Error())
	}
	return &habit, nil
}

func (hr *HabitsRepository) GetByUserID(ctx context.Context, userID int64) ([]*entity.Habit, error) {
	habits := make([]*entity.Habit, 0)
	rows, err := hr.conn.Query(ctx, `SELECT id, name, category, user_id, frequency, days_of_week, reminder_time, notes, created_at
		FROM habits WHERE user_id = $1 ORDER BY id;`, userID)
	if err != nil {
		return nil, errors.New("getting habits by user id error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		h := entity.Habit{}
		err = rows.Scan(&h.ID, &h.Name, &h.Category, &h.UserID, &h.Frequency, &h.DaysOfWeek, &h.ReminderTime, &h.Notes, &h.CreatedAt)
		if err != nil {
			return nil, errors.New("unmarhalling habit error: " + err.Error())
		}
		habits = append(habits, &h)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return habits, nil
}

func (hr *HabitsRepository) Update(ctx context.Context, habit *entity.Habit) error {
	if habit == nil {
		return errors.New("habit is nil")
	}
	ct, err := hr.conn.Exec(ctx, `UPDATE habits SET name = $1, category = $2, frequency = $3, days_of_week = $4, reminder_time = $5, notes = $6 WHERE id = $7;`,
		habit.Name, habit.Category, habit.Frequency, habit.DaysOfWeek, habit.ReminderTime, habit.Notes, habit.ID,
	)
	if err != nil {
		return errors.New("error updating habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

// Delete removes the habit and its completions in one transaction.
func (hr *HabitsRepository) Delete(ctx context.Context, id int64) error {
	tx, err := hr.conn.Begin(ctx)
	if err != nil {
		return errors.New("starting habit deletion tx error: " + err.Error())
	}
	defer tx.Rollback(ctx)
	_, err = tx.Exec(ctx, `DELETE FROM habit_completions WHERE habit_id = $1;`, id)
	if err != nil {
		return errors.New("error deleting habit completions: " + err.Error())
	}
	ct, err := tx.Exec(ctx, `DELETE FROM habits WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	if err = tx.Commit(ctx); err != nil {
		return errors.New("committing habit deletion tx error: " + err.Error())
	}
	return nil
}
