package service

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		// Calendar day in YYYY-MM-DD form
		validate.RegisterValidation("date_ymd", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if len(value) != len("2006-01-02") {
				return false
			}
			_, err := time.Parse("2006-01-02", value)
			return err == nil
		})
		// Reminder clock time in HH:MM form
		validate.RegisterValidation("reminder_time", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if len(value) != len("15:04") {
				return false
			}
			_, err := time.Parse("15:04", value)
			return err == nil
		})
	})
}
