package domain

import "time"

type ReservationStatus string

const (
	ReservationLocked    ReservationStatus = "LOCKED"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationExpired   ReservationStatus = "EXPIRED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationCompleted ReservationStatus = "COMPLETED"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// Payment is the gateway-facing sub-record of a reservation.
type Payment struct {
	Method           string
	Status           PaymentStatus
	GatewayOrderID   string
	GatewayPaymentID string
	GatewaySignature string
	RefundID         string
	PaidAt           *time.Time
}

// Reservation is a time-boxed claim on hotel inventory. The price fields are
// an immutable snapshot taken at reservation time; LockExpiresAt is set only
// while the reservation is LOCKED.
type Reservation struct {
	ID                string
	HotelID           string
	UserID            string
	CheckIn           time.Time
	CheckOut          time.Time
	Rooms             int
	Nights            int
	PricePerNight     int64
	Subtotal          int64
	CommissionAmount  int64
	OwnerPayoutAmount int64
	Status            ReservationStatus
	LockExpiresAt     *time.Time
	Payment           Payment
	CreatedAt         time.Time
}

// HoldsInventory reports whether the reservation currently accounts for
// rooms subtracted from its hotel's availability.
func (r Reservation) HoldsInventory() bool {
	return r.Status == ReservationLocked || r.Status == ReservationConfirmed
}
