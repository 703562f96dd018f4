package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/utkarsh9600/zyvo-backend/internal/clock"
	"github.com/utkarsh9600/zyvo-backend/internal/domain"
)

type ReaperStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	ListExpiredLockIDs(ctx context.Context, now time.Time, limit int) ([]string, error)
	GetReservationForUpdate(ctx context.Context, id string) (domain.Reservation, error)
	MarkExpiredIfLocked(ctx context.Context, id string) (bool, error)
	IncrementRooms(ctx context.Context, hotelID string, rooms int) error
}

const (
	defaultReapInterval = time.Minute
	reapBatchSize       = 100
)

// Reaper expires reservations whose payment lock ran out and returns their
// rooms to the pool. Each reservation is handled in its own transaction so
// one poisoned row cannot stall the whole sweep.
type Reaper struct {
	store    ReaperStore
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger
}

func NewReaper(store ReaperStore, clk clock.Clock, interval time.Duration, logger *slog.Logger) *Reaper {
	if interval <= 0 {
		interval = defaultReapInterval
	}
	return &Reaper{
		store:    store,
		clock:    clk,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps on a fixed interval until the context is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired, err := r.SweepOnce(ctx, r.clock.Now())
			if err != nil {
				r.logger.Error("lock sweep failed", "error", err)
				continue
			}
			if expired > 0 {
				r.logger.Info("expired stale locks", "count", expired)
			}
		}
	}
}

// SweepOnce expires every reservation whose lock deadline passed before now
// and reports how many it transitioned. A reservation confirmed between the
// listing and the row lock is skipped, not an error.
func (r *Reaper) SweepOnce(ctx context.Context, now time.Time) (int, error) {
	ids, err := r.store.ListExpiredLockIDs(ctx, now, reapBatchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range ids {
		err := r.store.WithTx(ctx, func(txCtx context.Context) error {
			res, err := r.store.GetReservationForUpdate(txCtx, id)
			if err != nil {
				return err
			}

			ok, err := r.store.MarkExpiredIfLocked(txCtx, res.ID)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			if err := r.store.IncrementRooms(txCtx, res.HotelID, res.Rooms); err != nil {
				return err
			}
			expired++
			return nil
		})
		if err != nil {
			r.logger.Error("failed to expire reservation", "reservation_id", id, "error", err)
		}
	}
	return expired, nil
}
