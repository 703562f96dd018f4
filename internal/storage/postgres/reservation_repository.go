package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/utkarsh9600/zyvo-backend/internal/domain"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

func (r *ReservationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *ReservationRepository) GetHotelForUpdate(ctx context.Context, hotelID string) (domain.Hotel, error) {
	query := `SELECT ` + hotelColumns + ` FROM hotels WHERE id = $1 FOR UPDATE`
	h, err := scanHotel(r.queryRow(ctx, query, hotelID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Hotel{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Hotel{}, domain.ErrHotelNotFound
		}
		return domain.Hotel{}, fmt.Errorf("get hotel: %w", err)
	}
	return h, nil
}

// DecrementRooms reserves inventory with a conditional update: the decrement
// succeeds only while enough rooms remain, so concurrent attempts can never
// drive available_rooms below zero.
func (r *ReservationRepository) DecrementRooms(ctx context.Context, hotelID string, rooms int) error {
	const stmt = `
UPDATE hotels
SET available_rooms = available_rooms - $2
WHERE id = $1 AND available_rooms >= $2`

	tag, err := r.exec(ctx, stmt, hotelID, rooms)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("decrement rooms: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientInventory
	}
	return nil
}

// IncrementRooms releases inventory. The table CHECK constraint rejects an
// increment past total_rooms, which would indicate a double release.
func (r *ReservationRepository) IncrementRooms(ctx context.Context, hotelID string, rooms int) error {
	const stmt = `UPDATE hotels SET available_rooms = available_rooms + $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, hotelID, rooms)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("increment rooms past total for hotel %s: %w", hotelID, err)
		}
		return fmt.Errorf("increment rooms: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrHotelNotFound
	}
	return nil
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, res domain.Reservation) error {
	const stmt = `
INSERT INTO reservations (
	id, hotel_id, user_id, check_in, check_out, rooms, nights,
	price_per_night, subtotal, commission_amount, owner_payout_amount,
	status, lock_expires_at, payment_method, payment_status, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.exec(ctx, stmt,
		res.ID, res.HotelID, res.UserID, res.CheckIn, res.CheckOut, res.Rooms, res.Nights,
		res.PricePerNight, res.Subtotal, res.CommissionAmount, res.OwnerPayoutAmount,
		res.Status, res.LockExpiresAt, res.Payment.Method, res.Payment.Status, res.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return r.getReservation(ctx, query, id)
}

func (r *ReservationRepository) GetReservationForUpdate(ctx context.Context, id string) (domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	return r.getReservation(ctx, query, id)
}

func (r *ReservationRepository) getReservation(ctx context.Context, query, id string) (domain.Reservation, error) {
	res, err := scanReservation(r.queryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Reservation{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Reservation{}, domain.ErrReservationNotFound
		}
		return domain.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

// SetGatewayOrder attaches the gateway order id, guarded so an existing order
// is never overwritten.
func (r *ReservationRepository) SetGatewayOrder(ctx context.Context, id, orderID string) (bool, error) {
	const stmt = `
UPDATE reservations
SET gateway_order_id = $2
WHERE id = $1 AND gateway_order_id IS NULL`

	tag, err := r.exec(ctx, stmt, id, orderID)
	if err != nil {
		return false, fmt.Errorf("set gateway order: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ReservationRepository) MarkCancelled(ctx context.Context, id string) (bool, error) {
	const stmt = `
UPDATE reservations
SET status = 'CANCELLED'
WHERE id = $1 AND status = 'CONFIRMED'`

	tag, err := r.exec(ctx, stmt, id)
	if err != nil {
		return false, fmt.Errorf("mark cancelled: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ReservationRepository) MarkCompleted(ctx context.Context, id string) (bool, error) {
	const stmt = `
UPDATE reservations
SET status = 'COMPLETED'
WHERE id = $1 AND status = 'CONFIRMED'`

	tag, err := r.exec(ctx, stmt, id)
	if err != nil {
		return false, fmt.Errorf("mark completed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
FROM reservations
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`

	rows, err := r.query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *ReservationRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *ReservationRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *ReservationRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
