package app

import (
	"context"
	"testing"
	"time"

	"github.com/utkarsh9600/zyvo-backend/internal/clock"
	"github.com/utkarsh9600/zyvo-backend/internal/domain"
)

func TestPayoutService_MarkPaid(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	unpaid := domain.PayoutEntry{
		ID:                "payout-1",
		ReservationID:     "res-1",
		HotelID:           "hotel-1",
		TotalAmount:       6120,
		CommissionAmount:  918,
		OwnerPayoutAmount: 5202,
		PayoutStatus:      domain.PayoutUnpaid,
	}

	t.Run("settles unpaid entry", func(t *testing.T) {
		repo := newFakePayoutRepo(unpaid)
		svc := NewPayoutService(repo, clock.NewFixed(now))

		entry, err := svc.MarkPaid(context.Background(), "res-1", "utr-12345")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if entry.PayoutStatus != domain.PayoutPaid {
			t.Fatalf("expected PAID, got %s", entry.PayoutStatus)
		}
		if entry.PayoutReference != "utr-12345" {
			t.Fatalf("expected reference set, got %q", entry.PayoutReference)
		}
		if entry.PayoutAt == nil || !entry.PayoutAt.Equal(now) {
			t.Fatalf("expected payout_at %v, got %v", now, entry.PayoutAt)
		}
		if repo.entries["res-1"].PayoutStatus != domain.PayoutPaid {
			t.Fatalf("expected stored entry PAID")
		}
	})

	t.Run("requires reference", func(t *testing.T) {
		repo := newFakePayoutRepo(unpaid)
		svc := NewPayoutService(repo, clock.NewFixed(now))

		_, err := svc.MarkPaid(context.Background(), "res-1", "")
		if err != domain.ErrPayoutReferenceRequired {
			t.Fatalf("expected ErrPayoutReferenceRequired, got %v", err)
		}
	})

	t.Run("unknown reservation", func(t *testing.T) {
		repo := newFakePayoutRepo()
		svc := NewPayoutService(repo, clock.NewFixed(now))

		_, err := svc.MarkPaid(context.Background(), "res-missing", "utr-1")
		if err != domain.ErrPayoutNotFound {
			t.Fatalf("expected ErrPayoutNotFound, got %v", err)
		}
	})

	t.Run("rejects double settlement", func(t *testing.T) {
		paid := unpaid
		paid.PayoutStatus = domain.PayoutPaid
		repo := newFakePayoutRepo(paid)
		svc := NewPayoutService(repo, clock.NewFixed(now))

		_, err := svc.MarkPaid(context.Background(), "res-1", "utr-2")
		if err != domain.ErrPayoutAlreadyPaid {
			t.Fatalf("expected ErrPayoutAlreadyPaid, got %v", err)
		}
	})

	t.Run("entry removed mid-settlement reports not found", func(t *testing.T) {
		repo := newFakePayoutRepo(unpaid)
		repo.dropOnMarkPaid = true
		svc := NewPayoutService(repo, clock.NewFixed(now))

		_, err := svc.MarkPaid(context.Background(), "res-1", "utr-3")
		if err != domain.ErrPayoutNotFound {
			t.Fatalf("expected ErrPayoutNotFound, got %v", err)
		}
	})
}

func TestPayoutService_ListByHotel(t *testing.T) {
	t.Parallel()

	repo := newFakePayoutRepo(
		domain.PayoutEntry{ID: "p1", ReservationID: "r1", HotelID: "hotel-1"},
		domain.PayoutEntry{ID: "p2", ReservationID: "r2", HotelID: "hotel-2"},
	)
	svc := NewPayoutService(repo, clock.NewFixed(time.Now()))

	entries, err := svc.ListByHotel(context.Background(), "hotel-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "p1" {
		t.Fatalf("expected only hotel-1 entries, got %+v", entries)
	}

	if _, err := svc.ListByHotel(context.Background(), ""); err != domain.ErrInvalidID {
		t.Fatalf("expected ErrInvalidID for empty hotel id, got %v", err)
	}
}

type fakePayoutRepo struct {
	entries        map[string]domain.PayoutEntry
	dropOnMarkPaid bool
}

func newFakePayoutRepo(entries ...domain.PayoutEntry) *fakePayoutRepo {
	repo := &fakePayoutRepo{entries: make(map[string]domain.PayoutEntry)}
	for _, e := range entries {
		repo.entries[e.ReservationID] = e
	}
	return repo
}

func (f *fakePayoutRepo) GetByReservation(_ context.Context, reservationID string) (*domain.PayoutEntry, error) {
	e, ok := f.entries[reservationID]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (f *fakePayoutRepo) MarkPaid(_ context.Context, reservationID, reference string, at time.Time) (bool, error) {
	if f.dropOnMarkPaid {
		delete(f.entries, reservationID)
		return false, nil
	}
	e, ok := f.entries[reservationID]
	if !ok || e.PayoutStatus != domain.PayoutUnpaid {
		return false, nil
	}
	e.PayoutStatus = domain.PayoutPaid
	e.PayoutReference = reference
	e.PayoutAt = &at
	f.entries[reservationID] = e
	return true, nil
}

func (f *fakePayoutRepo) ListByHotel(_ context.Context, hotelID string) ([]domain.PayoutEntry, error) {
	out := make([]domain.PayoutEntry, 0)
	for _, e := range f.entries {
		if e.HotelID == hotelID {
			out = append(out, e)
		}
	}
	return out, nil
}
