package models

import (
	"strings"
	"time"
)

type Booking struct {
	ID        int64     `json:"id"`
	CourtID   int64     `json:"court_id"`
	CourtName string    `json:"court_name"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"` // pending, completed, cancelled
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeStatus maps the loose status vocabulary seen in imported data
// onto the three canonical values. Unknown statuses pass through lowercased.
func NormalizeStatus(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case StatusPending:
		return StatusPending
	case "successful", "completed", "approved", "success":
		return StatusCompleted
	case "cancelled", "canceled", "rejected":
		return StatusCancelled
	default:
		return strings.ToLower(strings.TrimSpace(raw))
	}
}

func (b *Booking) DurationMinutes() int {
	return int(b.EndTime.Sub(b.StartTime) / time.Minute)
}

// HourOfDay returns the starting hour in [0,23].
func (b *Booking) HourOfDay() int {
	return b.StartTime.Hour()
}

// DayOfWeek returns the starting weekday with 0=Sunday.
func (b *Booking) DayOfWeek() int {
	return int(b.StartTime.Weekday())
}

func (b *Booking) DayOfMonth() int {
	return b.StartTime.Day()
}

// MonthIndex returns the zero-based month of the start instant.
func (b *Booking) MonthIndex() int {
	return int(b.StartTime.Month()) - 1
}

func (b *Booking) Year() int {
	return b.StartTime.Year()
}
