package service

import (
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	errorvalues "github.com/okral/habitboard/internal/error_values"
	"github.com/okral/habitboard/internal/repository"
	"github.com/okral/habitboard/pkg/entity"
)

type HabitsService struct {
	repo repository.HabitsRepositoryI
}

func NewHabitsService(habitsRepo repository.HabitsRepositoryI) *HabitsService {
	if habitsRepo == nil {
		log.Fatal("provided nil habitsRepo")
	}
	return &HabitsService{
		repo: habitsRepo,
	}
}

func validateStruct(req any) error {
	err := validate.Struct(req)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			err = errorvalues.ErrValidation
			for _, fieldErr := range validationErrors {
				err = errors.Join(err, fieldErr)
			}
			return err
		}
		return errors.New("validation unexpected error: " + err.Error())
	}
	return nil
}

func (hs *HabitsService) CreateHabit(ctx context.Context, userID int64, req *CreateHabitRequest) (*entity.Habit, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	h := entity.Habit{
		UserID:       userID,
		Name:         req.Name,
		Category:     req.Category,
		Frequency:    req.Frequency,
		DaysOfWeek:   req.DaysOfWeek,
		ReminderTime: req.ReminderTime,
		Notes:        req.Notes,
	}
	habit, err := hs.repo.Create(ctx, &h)
	if err != nil {
		if errors.Is(err, errorvalues.ErrOwnerNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habit, nil
}

func (hs *HabitsService) GetUserHabits(ctx context.Context, userID int64) ([]*entity.Habit, error) {
	habits, err := hs.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habits, nil
}

func (hs *HabitsService) GetHabit(ctx context.Context, habitID, userID int64) (*entity.Habit, error) {
	habit, err := hs.repo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	if habit.UserID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	return habit, nil
}

func (hs *HabitsService) UpdateHabit(ctx context.Context, habitID, userID int64, req *UpdateHabitRequest) (*entity.Habit, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	habit, err := hs.GetHabit(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		habit.Name = *req.Name
	}
	if req.Category != nil {
		habit.Category = *req.Category
	}
	if req.Frequency != nil {
		habit.Frequency = *req.Frequency
	}
	if req.DaysOfWeek != nil {
		habit.DaysOfWeek = req.DaysOfWeek
	}
	if req.ReminderTime != nil {
		habit.ReminderTime = req.ReminderTime
	}
	if req.Notes != nil {
		habit.Notes = req.Notes
	}
	err = hs.repo.Update(ctx, habit)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habit, nil
}

func (hs *HabitsService) DeleteHabit(ctx context.Context, habitID, userID int64) error {
	habit, err := hs.repo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	if habit.UserID != userID {
		return errorvalues.ErrWrongOwner
	}
	err = hs.repo.Delete(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	return nil
}
