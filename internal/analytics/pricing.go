package analytics

import (
	"time"

	"courtpulse/internal/models"
)

// SlotPrice computes the price of one booking interval on a court billed
// in fixed slots: ceil(duration/slot) * pricePerSlot. Partial slots are
// billed as whole ones.
func SlotPrice(start, end time.Time, slotMinutes int, pricePerSlot float64) (float64, error) {
	if slotMinutes <= 0 || pricePerSlot <= 0 {
		return 0, ErrIncompleteCourtConfig
	}

	minutes := int(end.Sub(start) / time.Minute)
	if minutes <= 0 {
		// Zero slots, never a negative price.
		return 0, ErrInvalidDateRange
	}

	slots := (minutes + slotMinutes - 1) / slotMinutes
	return float64(slots) * pricePerSlot, nil
}

// PriceAll joins bookings with their courts and computes slot prices.
// Bookings on unknown courts are dropped; bookings on unpriceable courts
// or with inverted intervals are kept with a zero amount so they still
// show up in counts and listings.
func PriceAll(bookings []models.Booking, idx CourtIndex) ([]models.PricedBooking, Quality) {
	priced := make([]models.PricedBooking, 0, len(bookings))
	var quality Quality

	for _, b := range bookings {
		court, ok := idx[b.CourtID]
		if !ok {
			quality.UnresolvedCourt++
			continue
		}

		pb := models.PricedBooking{
			Booking:   b,
			Field:     court.Field,
			CourtType: court.CourtType,
		}

		if !court.Priceable() {
			quality.IncompleteConfig++
			priced = append(priced, pb)
			continue
		}

		amount, err := SlotPrice(b.StartTime, b.EndTime, court.SlotMinutes, court.PricePerSlot)
		switch err {
		case nil:
			pb.Amount = amount
		case ErrInvalidDateRange:
			quality.InvalidRange++
		}

		priced = append(priced, pb)
	}

	return priced, quality
}
