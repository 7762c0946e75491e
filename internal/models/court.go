package models

import "time"

type Court struct {
	ID           int64     `json:"id" yaml:"id"`
	OwnerID      int64     `json:"owner_id" yaml:"owner_id"`
	Field        string    `json:"field" yaml:"field"`
	CourtType    string    `json:"court_type" yaml:"court_type"`
	SlotMinutes  int       `json:"slot_minutes" yaml:"slot_minutes"`
	PricePerSlot float64   `json:"price_per_slot" yaml:"price_per_slot"`
	IsActive     bool      `json:"is_active" yaml:"is_active"`
	SortOrder    int64     `json:"sort_order" yaml:"sort_order"`
	CreatedAt    time.Time `json:"created_at" yaml:"-"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"-"`
}

// Priceable reports whether the court carries enough configuration to
// price a booking. Courts failing this are kept in counts but excluded
// from revenue sums.
func (c *Court) Priceable() bool {
	return c.SlotMinutes > 0 && c.PricePerSlot > 0
}
