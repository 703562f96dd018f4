package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/utkarsh9600/zyvo-backend/internal/domain"
)

type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func (r *AdminRepository) CreateHotel(ctx context.Context, h domain.Hotel) error {
	const stmt = `
INSERT INTO hotels (
	id, name, city, owner_id, active, total_rooms, available_rooms,
	base_price, weekend_multiplier, surge_multiplier, festival_multiplier,
	commission_percent, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.exec(ctx, stmt,
		h.ID, h.Name, h.City, h.OwnerID, h.Active, h.TotalRooms, h.AvailableRooms,
		h.BasePrice, h.WeekendMultiplier, h.SurgeMultiplier, h.FestivalMultiplier,
		h.CommissionPercent, h.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create hotel: %w", err)
	}
	return nil
}

func (r *AdminRepository) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	query := `SELECT ` + hotelColumns + ` FROM hotels WHERE id = $1`
	h, err := scanHotel(r.queryRow(ctx, query, id))
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

func (r *AdminRepository) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	query := `SELECT ` + hotelColumns + ` FROM hotels ORDER BY created_at DESC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Hotel, 0)
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hotel: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *AdminRepository) SetHotelActive(ctx context.Context, id string, active bool) error {
	const stmt = `UPDATE hotels SET active = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, id, active)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("set hotel active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrHotelNotFound
	}
	return nil
}

func (r *AdminRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *AdminRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *AdminRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
