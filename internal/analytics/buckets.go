package analytics

import (
	"fmt"
	"strconv"
	"time"

	"courtpulse/internal/models"
)

type BucketMode string

const (
	BucketHourly  BucketMode = "hourly"
	BucketDaily   BucketMode = "daily"
	BucketMonthly BucketMode = "monthly"
	BucketYearly  BucketMode = "yearly"
)

var weekdayLabels = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

var monthLabels = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// DaysInMonth returns the number of days in the given year/month pair.
// monthIndex is zero-based. Day 0 of the next month is the last day of
// this one, which handles leap years for free.
func DaysInMonth(year, monthIndex int) int {
	return time.Date(year, time.Month(monthIndex+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// CountSeries distributes bookings over a fixed, ordered set of buckets
// and counts them. Every bucket of the mode is always present, zero or
// not, so charts keep a stable axis. Each booking lands in at most one
// bucket; hourly bookings outside the open hours are dropped.
func CountSeries(bookings []models.Booking, opts Options) ([]models.Bucket, error) {
	open, close := opts.OpenHour, opts.CloseHour
	if open == 0 && close == 0 {
		open, close = models.OpenHour, models.CloseHour
	}

	switch opts.BucketMode {
	case BucketHourly:
		if open < 0 || close > 24 || open >= close {
			return nil, fmt.Errorf("%w: invalid open hours %d..%d", ErrBadOptions, open, close)
		}
		return hourlySeries(bookings, open, close), nil
	case BucketDaily:
		return dailySeries(bookings), nil
	case BucketMonthly:
		if opts.SelectedMonth < 0 || opts.SelectedMonth > 11 || opts.SelectedYear <= 0 {
			return nil, fmt.Errorf("%w: monthly buckets need a valid month/year", ErrBadOptions)
		}
		return monthlySeries(bookings, opts.SelectedMonth, opts.SelectedYear), nil
	case BucketYearly:
		return yearlySeries(bookings), nil
	default:
		return nil, fmt.Errorf("%w: unknown bucket mode %q", ErrBadOptions, opts.BucketMode)
	}
}

func hourlySeries(bookings []models.Booking, open, close int) []models.Bucket {
	buckets := make([]models.Bucket, 0, close-open+1)
	for h := open; h <= close; h++ {
		buckets = append(buckets, models.Bucket{Label: fmt.Sprintf("%d:00", h)})
	}
	for _, b := range bookings {
		h := b.HourOfDay()
		if h < open || h > close {
			continue
		}
		buckets[h-open].Count++
	}
	return buckets
}

func dailySeries(bookings []models.Booking) []models.Bucket {
	buckets := make([]models.Bucket, 7)
	for i := range buckets {
		buckets[i].Label = weekdayLabels[i]
	}
	for _, b := range bookings {
		buckets[b.DayOfWeek()].Count++
	}
	return buckets
}

func monthlySeries(bookings []models.Booking, monthIndex, year int) []models.Bucket {
	days := DaysInMonth(year, monthIndex)
	buckets := make([]models.Bucket, days)
	for i := range buckets {
		buckets[i].Label = strconv.Itoa(i + 1)
	}
	for _, b := range bookings {
		d := b.DayOfMonth()
		if b.MonthIndex() != monthIndex || b.Year() != year || d < 1 || d > days {
			continue
		}
		buckets[d-1].Count++
	}
	return buckets
}

func yearlySeries(bookings []models.Booking) []models.Bucket {
	buckets := make([]models.Bucket, 12)
	for i := range buckets {
		buckets[i].Label = monthLabels[i]
	}
	for _, b := range bookings {
		buckets[b.MonthIndex()].Count++
	}
	return buckets
}
