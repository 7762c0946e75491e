package analytics

import (
	"fmt"
	"math"
	"sort"

	"courtpulse/internal/models"
)

type GroupDim string

const (
	GroupByField     GroupDim = "field"
	GroupByCourtType GroupDim = "court_type"
)

// ProportionSeries sums revenue per category of the grouping dimension
// and normalizes to percentages of the grand total. Slices come back in
// descending revenue order; ties keep their encounter order. Color
// indexes cycle a fixed palette in sorted order.
func ProportionSeries(priced []models.PricedBooking, dim GroupDim) ([]models.ProportionSlice, error) {
	if dim != GroupByField && dim != GroupByCourtType {
		return nil, fmt.Errorf("%w: unknown group dimension %q", ErrBadOptions, dim)
	}

	sums := make(map[string]float64)
	order := make([]string, 0)
	for _, b := range priced {
		label := b.Field
		if dim == GroupByCourtType {
			label = b.CourtType
		}
		if _, seen := sums[label]; !seen {
			order = append(order, label)
		}
		sums[label] += b.Amount
	}
	if len(order) == 0 {
		return []models.ProportionSlice{}, nil
	}

	slices := make([]models.ProportionSlice, 0, len(order))
	var total float64
	for _, label := range order {
		slices = append(slices, models.ProportionSlice{Label: label, Amount: sums[label]})
		total += sums[label]
	}

	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Amount > slices[j].Amount
	})

	for i := range slices {
		if total > 0 {
			slices[i].Percentage = math.Round(slices[i].Amount/total*1000) / 10
		}
		slices[i].ColorIndex = i % models.PaletteSize
	}

	return slices, nil
}
