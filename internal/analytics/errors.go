package analytics

import "errors"

var (
	// ErrIncompleteCourtConfig means the court is missing slot duration or
	// slot price; the booking stays in counts but carries no revenue.
	ErrIncompleteCourtConfig = errors.New("court slot configuration is incomplete")

	// ErrInvalidDateRange means the booking ends at or before its start.
	ErrInvalidDateRange = errors.New("booking end must be after start")

	// ErrBadOptions marks a structurally invalid query configuration.
	// Unlike malformed records it is fatal and returned to the caller.
	ErrBadOptions = errors.New("invalid analytics options")
)

// Quality tallies malformed records skipped during one computation.
// The engine never aborts on bad data; it skips, counts and reports.
type Quality struct {
	UnresolvedCourt  int `json:"unresolved_court"`
	IncompleteConfig int `json:"incomplete_config"`
	InvalidRange     int `json:"invalid_range"`
}

func (q Quality) Total() int {
	return q.UnresolvedCourt + q.IncompleteConfig + q.InvalidRange
}

func (q *Quality) merge(other Quality) {
	q.UnresolvedCourt += other.UnresolvedCourt
	q.IncompleteConfig += other.IncompleteConfig
	q.InvalidRange += other.InvalidRange
}
