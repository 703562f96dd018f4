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

type PayoutRepository struct {
	pool *pgxpool.Pool
}

func NewPayoutRepository(pool *pgxpool.Pool) *PayoutRepository {
	return &PayoutRepository{pool: pool}
}

const payoutColumns = `
id, reservation_id, hotel_id, total_amount, commission_amount,
gateway_fee, owner_payout_amount, payout_status,
COALESCE(payout_reference, ''), payout_at, created_at`

func scanPayout(row pgx.Row) (domain.PayoutEntry, error) {
	var e domain.PayoutEntry
	var status string
	err := row.Scan(
		&e.ID, &e.ReservationID, &e.HotelID, &e.TotalAmount, &e.CommissionAmount,
		&e.GatewayFee, &e.OwnerPayoutAmount, &status,
		&e.PayoutReference, &e.PayoutAt, &e.CreatedAt,
	)
	if err != nil {
		return domain.PayoutEntry{}, err
	}
	e.PayoutStatus = domain.PayoutStatus(status)
	return e, nil
}

func (r *PayoutRepository) GetByReservation(ctx context.Context, reservationID string) (*domain.PayoutEntry, error) {
	query := `SELECT ` + payoutColumns + ` FROM payout_ledger WHERE reservation_id = $1`
	e, err := scanPayout(r.queryRow(ctx, query, reservationID))
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get payout entry: %w", err)
	}
	return &e, nil
}

// MarkPaid applies the UNPAID -> PAID transition; false means no UNPAID
// entry exists for the reservation.
func (r *PayoutRepository) MarkPaid(ctx context.Context, reservationID, reference string, at time.Time) (bool, error) {
	const stmt = `
UPDATE payout_ledger
SET payout_status = 'PAID', payout_reference = $2, payout_at = $3
WHERE reservation_id = $1 AND payout_status = 'UNPAID'`

	tag, err := r.exec(ctx, stmt, reservationID, reference, at)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("mark payout paid: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PayoutRepository) ListByHotel(ctx context.Context, hotelID string) ([]domain.PayoutEntry, error) {
	query := `SELECT ` + payoutColumns + `
FROM payout_ledger
WHERE hotel_id = $1
ORDER BY created_at DESC`

	rows, err := r.query(ctx, query, hotelID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list payout entries: %w", err)
	}
	defer rows.Close()

	out := make([]domain.PayoutEntry, 0)
	for rows.Next() {
		e, err := scanPayout(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payout entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PayoutRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *PayoutRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *PayoutRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
