package analytics

import (
	"testing"
	"time"

	"courtpulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotPrice(t *testing.T) {
	base := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		minutes int
		slot    int
		price   float64
		want    float64
		wantErr error
	}{
		{name: "exact one slot", minutes: 60, slot: 60, price: 100, want: 100},
		{name: "one minute over rounds up", minutes: 61, slot: 60, price: 100, want: 200},
		{name: "two full slots", minutes: 120, slot: 60, price: 100, want: 200},
		{name: "partial slot billed whole", minutes: 30, slot: 60, price: 100, want: 100},
		{name: "zero duration refused", minutes: 0, slot: 60, price: 100, wantErr: ErrInvalidDateRange},
		{name: "negative duration refused", minutes: -30, slot: 60, price: 100, wantErr: ErrInvalidDateRange},
		{name: "missing slot minutes", minutes: 60, slot: 0, price: 100, wantErr: ErrIncompleteCourtConfig},
		{name: "missing price", minutes: 60, slot: 60, price: 0, wantErr: ErrIncompleteCourtConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SlotPrice(base, base.Add(time.Duration(tt.minutes)*time.Minute), tt.slot, tt.price)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}

func TestPriceAllScenario(t *testing.T) {
	// 3 bookings on one court (slot=60, price=100) spanning 61, 120 and
	// 30 minutes must price as 200+200+100 = 500.
	idx := NewCourtIndex([]models.Court{
		{ID: 1, OwnerID: 9, Field: "Arena A", CourtType: "futsal", SlotMinutes: 60, PricePerSlot: 100},
	})
	base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	bookings := []models.Booking{
		{ID: 1, CourtID: 1, StartTime: base, EndTime: base.Add(61 * time.Minute)},
		{ID: 2, CourtID: 1, StartTime: base, EndTime: base.Add(120 * time.Minute)},
		{ID: 3, CourtID: 1, StartTime: base, EndTime: base.Add(30 * time.Minute)},
	}

	priced, quality := PriceAll(bookings, idx)
	require.Len(t, priced, 3)
	assert.Zero(t, quality.Total())

	var revenue float64
	for _, pb := range priced {
		revenue += pb.Amount
	}
	assert.Equal(t, 500.0, revenue)
}

func TestPriceAllMalformedRecords(t *testing.T) {
	idx := NewCourtIndex([]models.Court{
		{ID: 1, SlotMinutes: 60, PricePerSlot: 100},
		{ID: 2}, // no slot config
	})
	base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	bookings := []models.Booking{
		{ID: 1, CourtID: 1, StartTime: base, EndTime: base.Add(time.Hour)},
		{ID: 2, CourtID: 2, StartTime: base, EndTime: base.Add(time.Hour)},
		{ID: 3, CourtID: 99, StartTime: base, EndTime: base.Add(time.Hour)},
		{ID: 4, CourtID: 1, StartTime: base, EndTime: base}, // inverted interval
	}

	priced, quality := PriceAll(bookings, idx)

	// Unknown court is dropped entirely; the rest stay in counts.
	require.Len(t, priced, 3)
	assert.Equal(t, 1, quality.UnresolvedCourt)
	assert.Equal(t, 1, quality.IncompleteConfig)
	assert.Equal(t, 1, quality.InvalidRange)

	assert.Equal(t, 100.0, priced[0].Amount)
	assert.Zero(t, priced[1].Amount)
	assert.Zero(t, priced[2].Amount)
}
