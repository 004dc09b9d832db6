package entity

import (
	"time"
)

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type Habit struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	UserID       int64     `json:"userId"`
	Frequency    string    `json:"frequency"`
	DaysOfWeek   []int     `json:"daysOfWeek"`
	ReminderTime *string   `json:"reminderTime"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Date is a calendar day in YYYY-MM-DD form, so lexicographic order
// on Date matches chronological order.
type HabitCompletion struct {
	ID                   int64  `json:"id"`
	HabitID              int64  `json:"habitId"`
	Date                 string `json:"date"`
	Completed            bool   `json:"completed"`
	CompletionPercentage int    `json:"completionPercentage"`
}

type HabitStats struct {
	Streak         int     `json:"streak"`
	CompletionRate float64 `json:"completionRate"`
}

type HabitStatSummary struct {
	HabitID        int64   `json:"habitId"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Streak         int     `json:"streak"`
	CompletionRate float64 `json:"completionRate"`
}

type OverallStats struct {
	TotalCompletionRate float64 `json:"totalCompletionRate"`
	LongestStreak       int     `json:"longestStreak"`
	AverageStreak       float64 `json:"averageStreak"`
}

type CategoryStats struct {
	Category              string             `json:"category"`
	Habits                []HabitStatSummary `json:"habits"`
	AverageCompletionRate float64            `json:"averageCompletionRate"`
}
