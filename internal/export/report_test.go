package export

import (
	"io"
	"testing"
	"time"

	"courtpulse/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteRevenueReport(t *testing.T) {
	logger := zerolog.New(io.Discard)
	exporter := NewExporter(t.TempDir(), &logger)

	task := models.ReportTask{
		ID:          "task-1",
		OwnerID:     10,
		PeriodMode:  "monthly",
		MonthIndex:  5,
		Year:        2025,
		RequestedAt: time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC),
	}
	cards := []models.MetricCard{
		{Name: "Revenue", Value: 550, Previous: 100, PercentChange: 450},
		{Name: "Total Bookings", Value: 3, Previous: 1, PercentChange: 200},
	}
	slices := []models.ProportionSlice{
		{Label: "North Arena", Amount: 450, Percentage: 81.8, ColorIndex: 0},
		{Label: "South Arena", Amount: 100, Percentage: 18.2, ColorIndex: 1},
	}
	series := []models.Bucket{{Label: "8:00", Count: 0}, {Label: "9:00", Count: 2}}
	start := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	history := models.HistoryPage{
		Bookings: []models.PricedBooking{
			{
				Booking: models.Booking{ID: 1, CourtName: "North Arena", UserName: "Dana",
					StartTime: start, EndTime: start.Add(time.Hour), Status: models.StatusCompleted},
				Amount: 100,
			},
		},
		Page: 1, PageSize: 10, TotalCount: 1, TotalPages: 1,
	}

	path, err := exporter.WriteRevenueReport(task, cards, slices, series, history)
	require.NoError(t, err)
	require.FileExists(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Сводка", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Отчет по выручке за 06.2025", title)

	revenue, err := f.GetCellValue("Сводка", "B4")
	require.NoError(t, err)
	assert.Equal(t, "550", revenue)

	courtName, err := f.GetCellValue("Бронирования", "B2")
	require.NoError(t, err)
	assert.Equal(t, "North Arena", courtName)
}
