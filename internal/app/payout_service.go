package app

import (
	"context"
	"time"

	"github.com/utkarsh9600/zyvo-backend/internal/clock"
	"github.com/utkarsh9600/zyvo-backend/internal/domain"
)

type PayoutRepository interface {
	GetByReservation(ctx context.Context, reservationID string) (*domain.PayoutEntry, error)
	MarkPaid(ctx context.Context, reservationID, reference string, at time.Time) (bool, error)
	ListByHotel(ctx context.Context, hotelID string) ([]domain.PayoutEntry, error)
}

type PayoutService struct {
	repo  PayoutRepository
	clock clock.Clock
}

func NewPayoutService(repo PayoutRepository, clk clock.Clock) *PayoutService {
	return &PayoutService{repo: repo, clock: clk}
}

// MarkPaid settles an owner payout. The reference identifies the bank
// transfer and is required; paying twice is rejected by the status guard.
func (s *PayoutService) MarkPaid(ctx context.Context, reservationID, reference string) (domain.PayoutEntry, error) {
	if reference == "" {
		return domain.PayoutEntry{}, domain.ErrPayoutReferenceRequired
	}

	entry, err := s.repo.GetByReservation(ctx, reservationID)
	if err != nil {
		return domain.PayoutEntry{}, err
	}
	if entry == nil {
		return domain.PayoutEntry{}, domain.ErrPayoutNotFound
	}

	now := s.clock.Now()
	ok, err := s.repo.MarkPaid(ctx, reservationID, reference, now)
	if err != nil {
		return domain.PayoutEntry{}, err
	}
	if !ok {
		// The guard loses either to a concurrent settlement or to the row
		// disappearing; re-read to report the right one.
		current, err := s.repo.GetByReservation(ctx, reservationID)
		if err != nil {
			return domain.PayoutEntry{}, err
		}
		if current == nil {
			return domain.PayoutEntry{}, domain.ErrPayoutNotFound
		}
		return domain.PayoutEntry{}, domain.ErrPayoutAlreadyPaid
	}

	entry.PayoutStatus = domain.PayoutPaid
	entry.PayoutReference = reference
	entry.PayoutAt = &now
	return *entry, nil
}

func (s *PayoutService) ListByHotel(ctx context.Context, hotelID string) ([]domain.PayoutEntry, error) {
	if hotelID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListByHotel(ctx, hotelID)
}
