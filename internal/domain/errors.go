package domain

import "errors"

var (
	ErrInvalidDateRange      = errors.New("invalid date range")
	ErrInvalidRoomCount      = errors.New("invalid room count")
	ErrHotelNotFound         = errors.New("hotel not found")
	ErrHotelUnavailable      = errors.New("hotel unavailable")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrRateLimited           = errors.New("daily reservation limit exceeded")

	ErrInvalidSignature        = errors.New("invalid signature")
	ErrReservationNotFound     = errors.New("reservation not found")
	ErrReservationNotLocked    = errors.New("reservation not locked")
	ErrReservationNotConfirmed = errors.New("reservation not confirmed")
	ErrStayNotEnded            = errors.New("stay not ended")
	ErrOrderAlreadyCreated     = errors.New("gateway order already created")
	ErrRefundNotAllowed        = errors.New("refund not allowed")

	ErrPayoutExists            = errors.New("payout entry already exists")
	ErrPayoutNotFound          = errors.New("payout entry not found")
	ErrPayoutAlreadyPaid       = errors.New("payout already paid")
	ErrPayoutReferenceRequired = errors.New("payout reference required")

	ErrHotelNameRequired = errors.New("hotel name required")
	ErrInvalidTotalRooms = errors.New("total rooms must be at least 1")
	ErrInvalidBasePrice  = errors.New("base price must be positive")
	ErrInvalidCommission = errors.New("commission percent out of range")

	ErrInvalidID = errors.New("invalid id")
	ErrForbidden = errors.New("forbidden")
)
