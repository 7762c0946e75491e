package analytics

import (
	"fmt"
	"sort"

	"courtpulse/internal/models"
)

// BuildHistoryPage slices the booking history into one fixed-size page.
// Input order does not matter; the listing is always date-descending.
// A page past the end comes back empty rather than erroring.
func BuildHistoryPage(priced []models.PricedBooking, page, pageSize int) (models.HistoryPage, error) {
	if page < 1 {
		return models.HistoryPage{}, fmt.Errorf("%w: page %d", ErrBadOptions, page)
	}
	if pageSize <= 0 {
		return models.HistoryPage{}, fmt.Errorf("%w: page size %d", ErrBadOptions, pageSize)
	}

	sorted := make([]models.PricedBooking, len(priced))
	copy(sorted, priced)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.After(sorted[j].StartTime)
	})

	total := len(sorted)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return models.HistoryPage{
		Bookings:    sorted[start:end],
		Page:        page,
		PageSize:    pageSize,
		TotalCount:  total,
		TotalPages:  totalPages,
		PageButtons: PageWindow(page, totalPages),
	}, nil
}

// PageWindow returns up to five consecutive page numbers centered on the
// current page, shifted inward at either boundary so the window never
// leaves [1, totalPages].
func PageWindow(current, totalPages int) []int {
	if totalPages <= 0 {
		return []int{}
	}

	size := models.PageWindowSize
	if totalPages < size {
		size = totalPages
	}

	start := current - size/2
	if start < 1 {
		start = 1
	}
	if start+size-1 > totalPages {
		start = totalPages - size + 1
	}

	window := make([]int, size)
	for i := range window {
		window[i] = start + i
	}
	return window
}
