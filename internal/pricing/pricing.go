package pricing

import (
	"math"
	"time"

	"github.com/utkarsh9600/zyvo-backend/internal/domain"
)

const (
	defaultWeekendMultiplier = 1.1

	highOccupancySurge   = 1.35
	midOccupancySurge    = 1.2
	lowOccupancyDiscount = 0.85

	earlyBookingDiscount = 0.9
	lastMinuteSurge      = 1.25
	earlyBookingDays     = 15
	lastMinuteDays       = 1

	minPriceFactor = 0.7
	maxPriceFactor = 2.5
)

// Quote is an immutable price breakdown for one reservation attempt.
type Quote struct {
	PricePerNight     int64
	Nights            int
	Subtotal          int64
	CommissionPercent float64
	CommissionAmount  int64
	OwnerAmount       int64
	OccupancyPercent  float64
}

// Price computes the dynamic per-night price for a stay given the hotel's
// current inventory snapshot. It is pure: identical inputs always produce
// identical output.
//
// The adjustments apply in a fixed order, each multiplying a running
// per-night price: weekend check-in, occupancy band, early-booking discount,
// last-minute surge, manual surge multiplier, festival multiplier. The
// result is clamped to [0.7x, 2.5x] of the base price and rounded to whole
// currency units.
func Price(h domain.Hotel, checkIn, checkOut time.Time, rooms int, now time.Time) (Quote, error) {
	if !checkOut.After(checkIn) {
		return Quote{}, domain.ErrInvalidDateRange
	}
	if rooms < 1 {
		return Quote{}, domain.ErrInvalidRoomCount
	}
	if h.BasePrice <= 0 || h.TotalRooms < 1 {
		return Quote{}, domain.ErrHotelUnavailable
	}

	nights := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
	if nights < 1 {
		nights = 1
	}

	base := float64(h.BasePrice)
	price := base

	if wd := checkIn.Weekday(); wd == time.Friday || wd == time.Saturday {
		wm := h.WeekendMultiplier
		if wm <= 0 {
			wm = defaultWeekendMultiplier
		}
		price *= wm
	}

	occupancy := float64(h.TotalRooms-h.AvailableRooms) / float64(h.TotalRooms) * 100
	switch {
	case occupancy > 80:
		price *= highOccupancySurge
	case occupancy > 60:
		price *= midOccupancySurge
	case occupancy < 30:
		price *= lowOccupancyDiscount
	}

	// The two time-based steps are evaluated independently; the current
	// thresholds make them mutually exclusive.
	daysUntilCheckIn := checkIn.Sub(now).Hours() / 24
	if daysUntilCheckIn >= earlyBookingDays {
		price *= earlyBookingDiscount
	}
	if daysUntilCheckIn <= lastMinuteDays {
		price *= lastMinuteSurge
	}

	if h.SurgeMultiplier > 0 {
		price *= h.SurgeMultiplier
	}
	if h.FestivalMultiplier > 0 {
		price *= h.FestivalMultiplier
	}

	price = math.Max(base*minPriceFactor, math.Min(base*maxPriceFactor, price))

	perNight := int64(math.Round(price))
	subtotal := perNight * int64(nights) * int64(rooms)
	commission := int64(math.Round(float64(subtotal) * h.CommissionPercent / 100))

	return Quote{
		PricePerNight:     perNight,
		Nights:            nights,
		Subtotal:          subtotal,
		CommissionPercent: h.CommissionPercent,
		CommissionAmount:  commission,
		OwnerAmount:       subtotal - commission,
		OccupancyPercent:  occupancy,
	}, nil
}
