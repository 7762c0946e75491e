package analytics

import (
	"testing"
	"time"

	"courtpulse/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engineFixture() (*Engine, []models.Booking) {
	courts := []models.Court{
		{ID: 1, OwnerID: 10, Field: "Arena A", CourtType: "futsal", SlotMinutes: 60, PricePerSlot: 100},
		{ID: 2, OwnerID: 10, Field: "Arena B", CourtType: "badminton", SlotMinutes: 30, PricePerSlot: 50},
		{ID: 3, OwnerID: 77, Field: "Arena C", CourtType: "futsal", SlotMinutes: 60, PricePerSlot: 80},
	}

	logger := zerolog.Nop()
	engine := New(courts, 10, &logger)

	mk := func(id, courtID, userID int64, start time.Time, minutes int) models.Booking {
		return models.Booking{
			ID: id, CourtID: courtID, UserID: userID,
			StartTime: start,
			EndTime:   start.Add(time.Duration(minutes) * time.Minute),
			Status:    models.StatusCompleted,
		}
	}

	june := func(day, hour int) time.Time {
		return time.Date(2025, 6, day, hour, 0, 0, 0, time.UTC)
	}
	may := func(day, hour int) time.Time {
		return time.Date(2025, 5, day, hour, 0, 0, 0, time.UTC)
	}

	bookings := []models.Booking{
		mk(1, 1, 100, june(2, 9), 61),   // 200
		mk(2, 1, 100, june(3, 10), 120), // 200
		mk(3, 2, 101, june(3, 18), 30),  // 50
		mk(4, 2, 102, june(10, 23), 60), // 100, outside hourly range
		mk(5, 1, 100, may(20, 9), 60),   // previous period, 100
		mk(6, 3, 103, june(5, 9), 60),   // other owner's court
	}
	return engine, bookings
}

func baseOpts() Options {
	return Options{
		PeriodMode:    PeriodMonthly,
		SelectedMonth: 5, // June
		SelectedYear:  2025,
		BucketMode:    BucketHourly,
		GroupBy:       GroupByField,
		Page:          1,
		PageSize:      10,
	}
}

func TestEngineBucketSeries(t *testing.T) {
	engine, bookings := engineFixture()

	series, quality, err := engine.BucketSeries(bookings, baseOpts())
	require.NoError(t, err)
	assert.Zero(t, quality.Total())
	require.Len(t, series, 15)

	var total int64
	for _, b := range series {
		total += b.Count
	}
	// 4 bookings fall in June for this owner, one at 23:00 is dropped.
	assert.Equal(t, int64(3), total)
}

func TestEngineBucketSeriesYearly(t *testing.T) {
	engine, bookings := engineFixture()

	opts := baseOpts()
	opts.BucketMode = BucketYearly

	series, _, err := engine.BucketSeries(bookings, opts)
	require.NoError(t, err)
	require.Len(t, series, 12)
	assert.Equal(t, int64(1), series[4].Count)  // May
	assert.Equal(t, int64(4), series[5].Count)  // June
	assert.Equal(t, int64(0), series[11].Count) // December
}

func TestEnginePeriodMetrics(t *testing.T) {
	engine, bookings := engineFixture()

	cards, quality, err := engine.PeriodMetrics(bookings, baseOpts())
	require.NoError(t, err)
	assert.Zero(t, quality.Total())
	require.Len(t, cards, 4)

	assert.Equal(t, 550.0, cards[0].Value)    // June revenue
	assert.Equal(t, 100.0, cards[0].Previous) // May revenue
	assert.Equal(t, 450, cards[0].PercentChange)

	assert.Equal(t, 4.0, cards[1].Value)
	assert.Equal(t, 1.0, cards[1].Previous)

	// Users 101 and 102 are new in June; 100 booked in May already.
	assert.Equal(t, 2.0, cards[3].Value)
}

func TestEngineProportionSeries(t *testing.T) {
	engine, bookings := engineFixture()

	slices, _, err := engine.ProportionSeries(bookings, baseOpts())
	require.NoError(t, err)
	require.Len(t, slices, 2)

	assert.Equal(t, "Arena A", slices[0].Label)
	assert.Equal(t, 400.0, slices[0].Amount)
	assert.Equal(t, "Arena B", slices[1].Label)
	assert.Equal(t, 150.0, slices[1].Amount)
	assert.InDelta(t, 72.7, slices[0].Percentage, 0.01)
	assert.InDelta(t, 27.3, slices[1].Percentage, 0.01)
}

func TestEngineHistoryPage(t *testing.T) {
	engine, bookings := engineFixture()

	page, _, err := engine.HistoryPage(bookings, baseOpts())
	require.NoError(t, err)
	assert.Equal(t, 4, page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Bookings, 4)
	assert.Equal(t, int64(4), page.Bookings[0].ID) // newest first
	assert.Equal(t, []int{1}, page.PageButtons)
}

func TestEngineEmptyOwnership(t *testing.T) {
	logger := zerolog.Nop()
	engine := New([]models.Court{{ID: 1, OwnerID: 99}}, 10, &logger)
	assert.False(t, engine.OwnsCourts())

	_, bookings := engineFixture()
	opts := baseOpts()

	cards, _, err := engine.PeriodMetrics(bookings, opts)
	require.NoError(t, err)
	for _, c := range cards {
		assert.Zero(t, c.Value)
		assert.Zero(t, c.PercentChange)
	}

	page, _, err := engine.HistoryPage(bookings, opts)
	require.NoError(t, err)
	assert.Empty(t, page.Bookings)
	assert.Zero(t, page.TotalPages)
	assert.Equal(t, 1, page.Page)
}

func TestEngineOptionDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, PeriodMonthly, opts.PeriodMode)
	assert.Equal(t, BucketDaily, opts.BucketMode)
	assert.Equal(t, GroupByField, opts.GroupBy)
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, models.DefaultPageSize, opts.PageSize)
}

func TestEngineBadOptionsAreFatal(t *testing.T) {
	engine, bookings := engineFixture()

	opts := baseOpts()
	opts.Page = -1
	_, _, err := engine.HistoryPage(bookings, opts)
	assert.ErrorIs(t, err, ErrBadOptions)

	opts = baseOpts()
	opts.BucketMode = BucketMode("weekly")
	_, _, err = engine.BucketSeries(bookings, opts)
	assert.ErrorIs(t, err, ErrBadOptions)
}
