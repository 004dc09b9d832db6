package errorvalues

import "errors"

var (
	ErrUserExists         = errors.New("such user already exists")
	ErrUserNotFound       = errors.New("user doesn't exists")
	ErrHabitNotFound      = errors.New("habit doesn't exists")
	ErrOwnerNotFound      = errors.New("habit owner doesn't exists")
	ErrWrongOwner         = errors.New("habit belongs to another user")
	ErrCompletionNotFound = errors.New("completion record doesn't exists")
	ErrValidation         = errors.New("validation error")
)
