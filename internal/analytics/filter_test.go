package analytics

import (
	"testing"
	"time"

	"courtpulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCourts() []models.Court {
	return []models.Court{
		{ID: 1, OwnerID: 10, Field: "Arena A", CourtType: "futsal", SlotMinutes: 60, PricePerSlot: 100},
		{ID: 2, OwnerID: 10, Field: "Arena B", CourtType: "badminton", SlotMinutes: 30, PricePerSlot: 40},
		{ID: 3, OwnerID: 77, Field: "Arena C", CourtType: "futsal", SlotMinutes: 60, PricePerSlot: 90},
	}
}

func TestCourtIndexOwnedBy(t *testing.T) {
	idx := NewCourtIndex(testCourts())

	owned := idx.OwnedBy(10)
	assert.Len(t, owned, 2)
	assert.Contains(t, owned, int64(1))
	assert.Contains(t, owned, int64(2))

	assert.Empty(t, idx.OwnedBy(999))
}

func TestFilterApply(t *testing.T) {
	idx := NewCourtIndex(testCourts())
	owned := idx.OwnedBy(10)

	june := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	july := time.Date(2025, 7, 10, 14, 0, 0, 0, time.UTC)
	bookings := []models.Booking{
		{ID: 1, CourtID: 1, StartTime: june, EndTime: june.Add(time.Hour)},
		{ID: 2, CourtID: 2, StartTime: june, EndTime: june.Add(time.Hour)},
		{ID: 3, CourtID: 3, StartTime: june, EndTime: june.Add(time.Hour)}, // other owner
		{ID: 4, CourtID: 1, StartTime: july, EndTime: july.Add(time.Hour)},
	}

	t.Run("ownership only", func(t *testing.T) {
		out, quality := Filter{}.Apply(bookings, owned, idx)
		require.Len(t, out, 3)
		assert.Zero(t, quality.Total())
	})

	t.Run("empty sets mean no restriction", func(t *testing.T) {
		f := Filter{Fields: map[string]struct{}{}, CourtTypes: map[string]struct{}{}}
		out, _ := f.Apply(bookings, owned, idx)
		assert.Len(t, out, 3)
	})

	t.Run("month and year predicate", func(t *testing.T) {
		f := Filter{MonthIndex: monthOf(5), Year: yearOf(2025)} // June
		out, _ := f.Apply(bookings, owned, idx)
		require.Len(t, out, 2)
		assert.Equal(t, int64(1), out[0].ID)
		assert.Equal(t, int64(2), out[1].ID)
	})

	t.Run("field set", func(t *testing.T) {
		f := Filter{Fields: map[string]struct{}{"Arena B": {}}}
		out, _ := f.Apply(bookings, owned, idx)
		require.Len(t, out, 1)
		assert.Equal(t, int64(2), out[0].ID)
	})

	t.Run("conjunctive predicates", func(t *testing.T) {
		f := Filter{
			MonthIndex: monthOf(5),
			Year:       yearOf(2025),
			Fields:     map[string]struct{}{"Arena A": {}},
			CourtTypes: map[string]struct{}{"futsal": {}},
		}
		out, _ := f.Apply(bookings, owned, idx)
		require.Len(t, out, 1)
		assert.Equal(t, int64(1), out[0].ID)
	})

	t.Run("court type excludes", func(t *testing.T) {
		f := Filter{CourtTypes: map[string]struct{}{"tennis": {}}}
		out, _ := f.Apply(bookings, owned, idx)
		assert.Empty(t, out)
	})
}

func TestFilterUnresolvedCourt(t *testing.T) {
	idx := NewCourtIndex(testCourts())
	// Owned set references a court missing from the index.
	owned := map[int64]struct{}{1: {}, 42: {}}

	june := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	bookings := []models.Booking{
		{ID: 1, CourtID: 1, StartTime: june, EndTime: june.Add(time.Hour)},
		{ID: 2, CourtID: 42, StartTime: june, EndTime: june.Add(time.Hour)},
	}

	out, quality := Filter{}.Apply(bookings, owned, idx)
	require.Len(t, out, 1)
	assert.Equal(t, 1, quality.UnresolvedCourt)
}

func TestToSet(t *testing.T) {
	assert.Nil(t, toSet(nil))
	assert.Nil(t, toSet([]string{}))

	set := toSet([]string{"a", "", "b", "a"})
	assert.Len(t, set, 2)
	assert.Contains(t, set, "a")
	assert.Contains(t, set, "b")
}
