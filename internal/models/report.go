package models

import "time"

// ReportTask asks the background worker to build one owner report.
type ReportTask struct {
	ID          string    `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	PeriodMode  string    `json:"period_mode"` // monthly or yearly
	MonthIndex  int       `json:"month_index"` // zero-based
	Year        int       `json:"year"`
	RequestedAt time.Time `json:"requested_at"`
	Attempts    int       `json:"attempts"`
}
