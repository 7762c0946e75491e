package analytics

import (
	"fmt"
	"math"
	"time"

	"courtpulse/internal/models"
)

type PeriodMode string

const (
	PeriodMonthly PeriodMode = "monthly"
	PeriodYearly  PeriodMode = "yearly"
)

// DateRange is an inclusive calendar range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the instant falls inside the range, bounds
// included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// PeriodRanges derives the current and immediately preceding period for
// the comparison cards. January rolls the previous month back into
// December of the prior year; the ranges never overlap.
func PeriodRanges(mode PeriodMode, monthIndex, year int) (current, previous DateRange, err error) {
	switch mode {
	case PeriodMonthly:
		if monthIndex < 0 || monthIndex > 11 || year <= 0 {
			return current, previous, fmt.Errorf("%w: month %d year %d", ErrBadOptions, monthIndex, year)
		}
		current = monthRange(year, monthIndex)
		prevMonth, prevYear := monthIndex-1, year
		if prevMonth < 0 {
			prevMonth, prevYear = 11, year-1
		}
		previous = monthRange(prevYear, prevMonth)
		return current, previous, nil
	case PeriodYearly:
		if year <= 0 {
			return current, previous, fmt.Errorf("%w: year %d", ErrBadOptions, year)
		}
		current = yearRange(year)
		previous = yearRange(year - 1)
		return current, previous, nil
	default:
		return current, previous, fmt.Errorf("%w: unknown period mode %q", ErrBadOptions, mode)
	}
}

func monthRange(year, monthIndex int) DateRange {
	start := time.Date(year, time.Month(monthIndex+1), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return DateRange{Start: start, End: end}
}

func yearRange(year int) DateRange {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0).Add(-time.Nanosecond)
	return DateRange{Start: start, End: end}
}

// PercentChange returns the whole-percent change from previous to
// current. A zero previous value yields 0 so the cards never show NaN
// or infinity.
func PercentChange(current, previous float64) int {
	if previous == 0 {
		return 0
	}
	return int(math.Round((current - previous) / previous * 100))
}

// periodTotals are the raw sums for one period.
type periodTotals struct {
	revenue float64
	count   int
	hours   float64
	users   map[int64]struct{}
}

func totalsFor(priced []models.PricedBooking, r DateRange) periodTotals {
	t := periodTotals{users: make(map[int64]struct{})}
	for _, b := range priced {
		if !r.Contains(b.StartTime) {
			continue
		}
		t.count++
		t.users[b.UserID] = struct{}{}
		if d := b.DurationMinutes(); d > 0 {
			t.hours += float64(d) / 60
		}
		t.revenue += b.Amount
	}
	return t
}

// newCustomers counts users seen in the current period but not in the
// previous one. Set difference keeps this O(n).
func newCustomers(current, previous map[int64]struct{}) int {
	n := 0
	for id := range current {
		if _, seen := previous[id]; !seen {
			n++
		}
	}
	return n
}

// PeriodMetrics builds the four comparison cards for the selected period.
// The new-customer delta compares against the previous period's own new
// customers, which needs one extra range looking further back.
func PeriodMetrics(priced []models.PricedBooking, mode PeriodMode, monthIndex, year int) ([]models.MetricCard, error) {
	current, previous, err := PeriodRanges(mode, monthIndex, year)
	if err != nil {
		return nil, err
	}

	// The period before the previous one, for the new-customer baseline.
	var prePrevious DateRange
	switch mode {
	case PeriodMonthly:
		pm, py := monthIndex-1, year
		if pm < 0 {
			pm, py = 11, year-1
		}
		_, prePrevious, _ = PeriodRanges(mode, pm, py)
	default:
		_, prePrevious, _ = PeriodRanges(mode, monthIndex, year-1)
	}

	cur := totalsFor(priced, current)
	prev := totalsFor(priced, previous)
	prePrev := totalsFor(priced, prePrevious)

	curNew := newCustomers(cur.users, prev.users)
	prevNew := newCustomers(prev.users, prePrev.users)

	cards := []models.MetricCard{
		{Name: "Revenue", Value: cur.revenue, Previous: prev.revenue},
		{Name: "Total Bookings", Value: float64(cur.count), Previous: float64(prev.count)},
		{Name: "Total Booking Hours", Value: cur.hours, Previous: prev.hours},
		{Name: "Total New Customers", Value: float64(curNew), Previous: float64(prevNew)},
	}
	for i := range cards {
		cards[i].PercentChange = PercentChange(cards[i].Value, cards[i].Previous)
	}
	return cards, nil
}
