package service

import (
	"context"
	"errors"

	errorvalues "github.com/okral/habitboard/internal/error_values"
	"github.com/okral/habitboard/internal/repository"
	"github.com/okral/habitboard/pkg/entity"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo repository.UsersRepositoryI
}

func NewUserService(usersRepo repository.UsersRepositoryI) *UserService {
	return &UserService{
		repo: usersRepo,
	}
}

func (us *UserService) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	user, err := us.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return user, nil
}

func (us *UserService) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := us.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return user, nil
}

// EnsureSeedUser bootstraps the single demo account on startup. The
// stored password is a bcrypt hash even though nothing authenticates
// against it in this deployment.
func (us *UserService) EnsureSeedUser(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := us.repo.FindByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, errorvalues.ErrUserNotFound) {
		return nil, errors.New("repository searching error: " + err.Error())
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("hashing password error: " + err.Error())
	}
	user, err = us.repo.Create(ctx, &entity.User{
		Username: username,
		Password: string(passwordHash),
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserExists) {
			return us.repo.FindByUsername(ctx, username)
		}
		return nil, errors.New("repository creating error: " + err.Error())
	}
	return user, nil
}
