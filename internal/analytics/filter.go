package analytics

import "courtpulse/internal/models"

// CourtIndex is an id->Court lookup built once per snapshot instead of
// resolving courts per booking.
type CourtIndex map[int64]models.Court

func NewCourtIndex(courts []models.Court) CourtIndex {
	idx := make(CourtIndex, len(courts))
	for _, c := range courts {
		idx[c.ID] = c
	}
	return idx
}

// OwnedBy returns the set of court ids whose owner reference matches the
// principal. Ownership is by owner id, not by record identity.
func (idx CourtIndex) OwnedBy(ownerID int64) map[int64]struct{} {
	owned := make(map[int64]struct{})
	for id, c := range idx {
		if c.OwnerID == ownerID {
			owned[id] = struct{}{}
		}
	}
	return owned
}

// Filter narrows a booking collection. Nil month/year and empty sets mean
// "no restriction on that dimension", never "match nothing". All present
// predicates must hold at once.
type Filter struct {
	MonthIndex *int
	Year       *int
	Fields     map[string]struct{}
	CourtTypes map[string]struct{}
}

func monthOf(m int) *int { return &m }
func yearOf(y int) *int  { return &y }

// Apply keeps bookings that belong to one of the owned courts and match
// every set predicate. Bookings referencing a court absent from the index
// are dropped and tallied as a data-integrity event.
func (f Filter) Apply(bookings []models.Booking, owned map[int64]struct{}, idx CourtIndex) ([]models.Booking, Quality) {
	out := make([]models.Booking, 0, len(bookings))
	var quality Quality

	for _, b := range bookings {
		if _, ok := owned[b.CourtID]; !ok {
			continue
		}
		court, ok := idx[b.CourtID]
		if !ok {
			quality.UnresolvedCourt++
			continue
		}
		if f.MonthIndex != nil && b.MonthIndex() != *f.MonthIndex {
			continue
		}
		if f.Year != nil && b.Year() != *f.Year {
			continue
		}
		if len(f.Fields) > 0 {
			if _, ok := f.Fields[court.Field]; !ok {
				continue
			}
		}
		if len(f.CourtTypes) > 0 {
			if _, ok := f.CourtTypes[court.CourtType]; !ok {
				continue
			}
		}
		out = append(out, b)
	}

	return out, quality
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}
