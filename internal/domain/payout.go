package domain

import "time"

type PayoutStatus string

const (
	PayoutUnpaid PayoutStatus = "UNPAID"
	PayoutPaid   PayoutStatus = "PAID"
)

// PayoutEntry records the commission/owner split for one confirmed
// reservation. Created exactly once at confirmation time; only the payout
// status, reference and timestamp change afterwards.
type PayoutEntry struct {
	ID                string
	ReservationID     string
	HotelID           string
	TotalAmount       int64
	CommissionAmount  int64
	GatewayFee        int64
	OwnerPayoutAmount int64
	PayoutStatus      PayoutStatus
	PayoutReference   string
	PayoutAt          *time.Time
	CreatedAt         time.Time
}
