package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/okral/habitboard/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user, assigns next id. Returns stored record
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	// Looks up user by id
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	// Looks up user by username. Used by the seed bootstrap
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}

type HabitsRepositoryI interface {
	// Creates new habit, assigns id and stamps CreatedAt. Returns stored record
	Create(ctx context.Context, habit *entity.Habit) (*entity.Habit, error)
	// Searches habit with given id
	GetByID(ctx context.Context, id int64) (*entity.Habit, error)
	// Lists habits owned by user in insertion order
	GetByUserID(ctx context.Context, userID int64) ([]*entity.Habit, error)
	// Replaces habit fields by ID. ID and CreatedAt never change
	Update(ctx context.Context, habit *entity.Habit) error
	// Deletes habit with id and every completion referencing it
	Delete(ctx context.Context, id int64) error
}

type CompletionsRepositoryI interface {
	// Inserts or overwrites the single record for (HabitID, Date).
	// An existing record keeps its id, only Completed and
	// CompletionPercentage change. Returns stored record
	Upsert(ctx context.Context, completion *entity.HabitCompletion) (*entity.HabitCompletion, error)
	// Returns the record for (habitID, date), if any
	GetByHabitAndDate(ctx context.Context, habitID int64, date string) (*entity.HabitCompletion, error)
	// Provides all completions of habitID, ascending by date
	GetByHabit(ctx context.Context, habitID int64) ([]entity.HabitCompletion, error)
	// Provides completions of habitID with from <= date <= to, ascending by date
	GetByHabitAndRange(ctx context.Context, habitID int64, from, to string) ([]entity.HabitCompletion, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
