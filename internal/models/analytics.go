package models

// Computed analytics entities. All of them are rebuilt from the raw
// booking/court snapshot on every request and never persisted.

// PricedBooking is a booking joined with its court attributes and the
// computed slot price.
type PricedBooking struct {
	Booking
	Field     string  `json:"field"`
	CourtType string  `json:"court_type"`
	Amount    float64 `json:"amount"`
}

// Bucket is one pre-seeded slot of a chart series.
type Bucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// MetricCard pairs a current-period value with its percent change
// against the previous period.
type MetricCard struct {
	Name          string  `json:"name"`
	Value         float64 `json:"value"`
	Previous      float64 `json:"previous"`
	PercentChange int     `json:"percent_change"`
}

// ProportionSlice is one category's share of total revenue.
type ProportionSlice struct {
	Label      string  `json:"label"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
	ColorIndex int     `json:"color_index"`
}

// HistoryPage is one page of the booking-history listing.
type HistoryPage struct {
	Bookings    []PricedBooking `json:"bookings"`
	Page        int             `json:"page"`
	PageSize    int             `json:"page_size"`
	TotalCount  int             `json:"total_count"`
	TotalPages  int             `json:"total_pages"`
	PageButtons []int           `json:"page_buttons"`
}

// Snapshot is the raw input collection pair handed to the engine.
type Snapshot struct {
	Bookings  []Booking `json:"bookings"`
	Courts    []Court   `json:"courts"`
	FetchedAt int64     `json:"fetched_at"`
}
