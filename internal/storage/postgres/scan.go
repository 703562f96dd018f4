package postgres

import (
	"github.com/jackc/pgx/v5"

	"github.com/utkarsh9600/zyvo-backend/internal/domain"
)

// reservationColumns is the canonical column list matched by scanReservation.
const reservationColumns = `
id, hotel_id, user_id, check_in, check_out, rooms, nights,
price_per_night, subtotal, commission_amount, owner_payout_amount,
status, lock_expires_at,
payment_method, payment_status,
COALESCE(gateway_order_id, ''), COALESCE(gateway_payment_id, ''),
COALESCE(gateway_signature, ''), COALESCE(refund_id, ''),
paid_at, created_at`

func scanReservation(row pgx.Row) (domain.Reservation, error) {
	var r domain.Reservation
	var status string
	var paymentStatus string
	err := row.Scan(
		&r.ID, &r.HotelID, &r.UserID, &r.CheckIn, &r.CheckOut, &r.Rooms, &r.Nights,
		&r.PricePerNight, &r.Subtotal, &r.CommissionAmount, &r.OwnerPayoutAmount,
		&status, &r.LockExpiresAt,
		&r.Payment.Method, &paymentStatus,
		&r.Payment.GatewayOrderID, &r.Payment.GatewayPaymentID,
		&r.Payment.GatewaySignature, &r.Payment.RefundID,
		&r.Payment.PaidAt, &r.CreatedAt,
	)
	if err != nil {
		return domain.Reservation{}, err
	}
	r.Status = domain.ReservationStatus(status)
	r.Payment.Status = domain.PaymentStatus(paymentStatus)
	return r, nil
}

const hotelColumns = `
id, name, city, owner_id, active, total_rooms, available_rooms,
base_price, weekend_multiplier, surge_multiplier, festival_multiplier,
commission_percent, total_bookings, total_revenue, created_at`

func scanHotel(row pgx.Row) (domain.Hotel, error) {
	var h domain.Hotel
	err := row.Scan(
		&h.ID, &h.Name, &h.City, &h.OwnerID, &h.Active, &h.TotalRooms, &h.AvailableRooms,
		&h.BasePrice, &h.WeekendMultiplier, &h.SurgeMultiplier, &h.FestivalMultiplier,
		&h.CommissionPercent, &h.TotalBookings, &h.TotalRevenue, &h.CreatedAt,
	)
	if err != nil {
		return domain.Hotel{}, err
	}
	return h, nil
}
