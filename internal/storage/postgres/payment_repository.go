package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/utkarsh9600/zyvo-backend/internal/domain"
)

// PaymentRepository backs the payment reconciler and the lock reaper: both
// drive the same guarded transitions out of the LOCKED state.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *PaymentRepository) GetByGatewayOrderForUpdate(ctx context.Context, orderID string) (domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE gateway_order_id = $1 FOR UPDATE`
	res, err := scanReservation(r.queryRow(ctx, query, orderID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Reservation{}, domain.ErrReservationNotFound
		}
		return domain.Reservation{}, fmt.Errorf("get reservation by order: %w", err)
	}
	return res, nil
}

func (r *PaymentRepository) GetReservation(ctx context.Context, id string) (domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return r.get(ctx, query, id)
}

func (r *PaymentRepository) GetReservationForUpdate(ctx context.Context, id string) (domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	return r.get(ctx, query, id)
}

func (r *PaymentRepository) get(ctx context.Context, query, id string) (domain.Reservation, error) {
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

// MarkConfirmed applies the LOCKED -> CONFIRMED transition. The status guard
// makes retries and the race against the reaper resolve to exactly one
// winner; false means the reservation was no longer LOCKED.
func (r *PaymentRepository) MarkConfirmed(ctx context.Context, id, paymentID, signature string, paidAt time.Time) (bool, error) {
	const stmt = `
UPDATE reservations
SET status = 'CONFIRMED',
    payment_status = 'PAID',
    gateway_payment_id = NULLIF($2, ''),
    gateway_signature = NULLIF($3, ''),
    paid_at = $4,
    lock_expires_at = NULL
WHERE id = $1 AND status = 'LOCKED'`

	tag, err := r.exec(ctx, stmt, id, paymentID, signature, paidAt)
	if err != nil {
		return false, fmt.Errorf("mark confirmed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkExpiredIfLocked applies the LOCKED -> EXPIRED transition used by both
// the reaper and the payment.failed path.
func (r *PaymentRepository) MarkExpiredIfLocked(ctx context.Context, id string) (bool, error) {
	const stmt = `
UPDATE reservations
SET status = 'EXPIRED',
    payment_status = 'FAILED',
    lock_expires_at = NULL
WHERE id = $1 AND status = 'LOCKED'`

	tag, err := r.exec(ctx, stmt, id)
	if err != nil {
		return false, fmt.Errorf("mark expired: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PaymentRepository) MarkRefunded(ctx context.Context, id, refundID string) (bool, error) {
	const stmt = `
UPDATE reservations
SET status = 'CANCELLED',
    payment_status = 'REFUNDED',
    refund_id = NULLIF($2, '')
WHERE id = $1 AND status = 'CONFIRMED' AND payment_status = 'PAID'`

	tag, err := r.exec(ctx, stmt, id, refundID)
	if err != nil {
		return false, fmt.Errorf("mark refunded: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PaymentRepository) IncrementRooms(ctx context.Context, hotelID string, rooms int) error {
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

func (r *PaymentRepository) RecordConfirmedBooking(ctx context.Context, hotelID string, revenue int64) error {
	const stmt = `
UPDATE hotels
SET total_bookings = total_bookings + 1,
    total_revenue = total_revenue + $2
WHERE id = $1`

	tag, err := r.exec(ctx, stmt, hotelID, revenue)
	if err != nil {
		return fmt.Errorf("record confirmed booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrHotelNotFound
	}
	return nil
}

func (r *PaymentRepository) CreatePayout(ctx context.Context, e domain.PayoutEntry) error {
	const stmt = `
INSERT INTO payout_ledger (
	id, reservation_id, hotel_id, total_amount, commission_amount,
	gateway_fee, owner_payout_amount, payout_status, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.exec(ctx, stmt,
		e.ID, e.ReservationID, e.HotelID, e.TotalAmount, e.CommissionAmount,
		e.GatewayFee, e.OwnerPayoutAmount, e.PayoutStatus, e.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrPayoutExists
		}
		return fmt.Errorf("create payout entry: %w", err)
	}
	return nil
}

func (r *PaymentRepository) ListExpiredLockIDs(ctx context.Context, now time.Time, limit int) ([]string, error) {
	const query = `
SELECT id
FROM reservations
WHERE status = 'LOCKED' AND lock_expires_at < $1
ORDER BY lock_expires_at
LIMIT $2`

	rows, err := r.query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired locks: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan expired lock id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PaymentRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *PaymentRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *PaymentRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
