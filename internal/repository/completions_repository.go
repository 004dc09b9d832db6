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

type CompletionsRepository struct {
	conn PgConnection
}

func NewCompletionsRepo(cfg DBConfig) *CompletionsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for completionsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for completionsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing completionsRepo pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &CompletionsRepository{
		conn: pool,
	}
}

func NewCompletionsRepoWithConn(conn PgConnection) *CompletionsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for completionsRepo: " + err.Error())
	}
	return &CompletionsRepository{
		conn: conn,
	}
}

// Upsert relies on the (habit_id, date) unique index: a second track of
// the same day overwrites the row instead of inserting another one.
func (cr *CompletionsRepository) Upsert(ctx context.Context, completion *entity.HabitCompletion) (*entity.HabitCompletion, error) {
	if completion == nil {
		return nil, errors.New("completion is nil")
	}
	stored := *completion
	row := cr.conn.QueryRow(ctx, `INSERT INTO habit_completions (habit_id, date, completed, completion_percentage)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (habit_id, date) DO UPDATE SET completed = EXCLUDED.completed, completion_percentage = EXCLUDED.completion_percentage
		RETURNING id;`,
		stored.HabitID,
		stored.Date,
		stored.Completed,
		stored.CompletionPercentage,
	)
	if err := row.Scan(&stored.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return nil, errorvalues.ErrHabitNotFound
			}
		}
		return nil, errors.New("upserting completion error: " + err.Error())
	}
	return &stored, nil
}

func (cr *CompletionsRepository) GetByHabitAndDate(ctx context.Context, habitID int64, date string) (*entity.HabitCompletion, error) {
	var completion entity.HabitCompletion
	row := cr.conn.QueryRow(
		ctx,
		`SELECT id, habit_id, date, completed, completion_percentage FROM habit_completions WHERE habit_id = $1 AND date = $2;`,
		habitID,
		date,
	)
	if err := row.Scan(&completion.ID, &completion.HabitID, &completion.Date, &completion.Completed, &completion.CompletionPercentage); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrCompletionNotFound
		}
		return nil, errors.New("getting completion by date error: " + err.Error())
	}
	return &completion, nil
}

func (cr *CompletionsRepository) GetByHabit(ctx context.Context, habitID int64) ([]entity.HabitCompletion, error) {
	rows, err := cr.conn.Query(
		ctx,
		`SELECT id, habit_id, date, completed, completion_percentage FROM habit_completions WHERE habit_id = $1 ORDER BY date;`,
		habitID,
	)
	if err != nil {
		return nil, errors.New("getting completions error: " + err.Error())
	}
	defer rows.Close()
	return scanCompletions(rows)
}

func (cr *CompletionsRepository) GetByHabitAndRange(ctx context.Context, habitID int64, from, to string) ([]entity.HabitCompletion, error) {
	rows, err := cr.conn.Query(
		ctx,
		`SELECT id, habit_id, date, completed, completion_percentage FROM habit_completions WHERE habit_id = $1 AND date >= $2 AND date <= $3 ORDER BY date;`,
		habitID,
		from,
		to,
	)
	if err != nil {
		return nil, errors.New("getting completions for period error: " + err.Error())
	}
	defer rows.Close()
	return scanCompletions(rows)
}

func scanCompletions(rows pgx.Rows) ([]entity.HabitCompletion, error) {
	result := make([]entity.HabitCompletion, 0)
	for rows.Next() {
		completion := entity.HabitCompletion{}
		err := rows.Scan(&completion.ID, &completion.HabitID, &completion.Date, &completion.Completed, &completion.CompletionPercentage)
		if err != nil {
			return nil, errors.New("completion row parsing error: " + err.Error())
		}
		result = append(result, completion)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected completion rows error: " + rows.Err().Error())
	}
	return result, nil
}
