package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/utkarsh9600/zyvo-backend/internal/clock"
	"github.com/utkarsh9600/zyvo-backend/internal/domain"
	"github.com/utkarsh9600/zyvo-backend/internal/pricing"
)

type ReservationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetHotelForUpdate(ctx context.Context, hotelID string) (domain.Hotel, error)
	DecrementRooms(ctx context.Context, hotelID string, rooms int) error
	IncrementRooms(ctx context.Context, hotelID string, rooms int) error
	CreateReservation(ctx context.Context, res domain.Reservation) error
	GetReservation(ctx context.Context, id string) (domain.Reservation, error)
	GetReservationForUpdate(ctx context.Context, id string) (domain.Reservation, error)
	SetGatewayOrder(ctx context.Context, id, orderID string) (bool, error)
	MarkCancelled(ctx context.Context, id string) (bool, error)
	MarkCompleted(ctx context.Context, id string) (bool, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Reservation, error)
}

// ReservationLimiter gates reservation creation per user.
type ReservationLimiter interface {
	Allow(ctx context.Context, userID string, now time.Time) error
}

// OrderGateway creates pending charges at the external payment processor.
type OrderGateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error)
}

type ReservationService struct {
	repo    ReservationRepository
	limiter ReservationLimiter
	gateway OrderGateway
	clock   clock.Clock
	lockTTL time.Duration
}

const (
	defaultLockTTL  = 10 * time.Minute
	listLimit       = 50
	orderCurrency   = "INR"
	receiptIDSuffix = 10
)

func NewReservationService(repo ReservationRepository, limiter ReservationLimiter, gw OrderGateway, clk clock.Clock, opts ...ReservationServiceOption) *ReservationService {
	svc := &ReservationService{
		repo:    repo,
		limiter: limiter,
		gateway: gw,
		clock:   clk,
		lockTTL: defaultLockTTL,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ReservationServiceOption func(*ReservationService)

// WithLockTTL overrides how long new reservations hold inventory unpaid.
func WithLockTTL(d time.Duration) ReservationServiceOption {
	return func(s *ReservationService) {
		if d > 0 {
			s.lockTTL = d
		}
	}
}

type ReserveInput struct {
	UserID   string
	HotelID  string
	CheckIn  time.Time
	CheckOut time.Time
	Rooms    int
}

type ReserveResult struct {
	Reservation domain.Reservation
	Quote       pricing.Quote
}

// Reserve prices the stay against the hotel's current snapshot and claims
// inventory, all inside one transaction: the conditional decrement and the
// reservation insert commit together or not at all.
func (s *ReservationService) Reserve(ctx context.Context, in ReserveInput) (ReserveResult, error) {
	if in.Rooms < 1 {
		return ReserveResult{}, domain.ErrInvalidRoomCount
	}
	if !in.CheckOut.After(in.CheckIn) {
		return ReserveResult{}, domain.ErrInvalidDateRange
	}

	now := s.clock.Now()
	if err := s.limiter.Allow(ctx, in.UserID, now); err != nil {
		return ReserveResult{}, err
	}

	var result ReserveResult
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		hotel, err := s.repo.GetHotelForUpdate(txCtx, in.HotelID)
		if err != nil {
			return err
		}
		if !hotel.Active {
			return domain.ErrHotelUnavailable
		}
		if hotel.AvailableRooms < in.Rooms {
			return domain.ErrInsufficientInventory
		}

		quote, err := pricing.Price(hotel, in.CheckIn, in.CheckOut, in.Rooms, now)
		if err != nil {
			return err
		}

		if err := s.repo.DecrementRooms(txCtx, hotel.ID, in.Rooms); err != nil {
			return err
		}

		lockExpiresAt := now.Add(s.lockTTL)
		res := domain.Reservation{
			ID:                uuid.NewString(),
			HotelID:           hotel.ID,
			UserID:            in.UserID,
			CheckIn:           in.CheckIn,
			CheckOut:          in.CheckOut,
			Rooms:             in.Rooms,
			Nights:            quote.Nights,
			PricePerNight:     quote.PricePerNight,
			Subtotal:          quote.Subtotal,
			CommissionAmount:  quote.CommissionAmount,
			OwnerPayoutAmount: quote.OwnerAmount,
			Status:            domain.ReservationLocked,
			LockExpiresAt:     &lockExpiresAt,
			Payment: domain.Payment{
				Method: "ONLINE",
				Status: domain.PaymentPending,
			},
			CreatedAt: now,
		}

		if err := s.repo.CreateReservation(txCtx, res); err != nil {
			return err
		}

		result = ReserveResult{Reservation: res, Quote: quote}
		return nil
	})
	if err != nil {
		return ReserveResult{}, err
	}
	return result, nil
}

// CreateGatewayOrder registers the pending charge with the payment gateway
// and persists the returned order id. The gateway call happens outside any
// transaction; a guarded update keeps an existing order id from being
// overwritten if two calls race.
func (s *ReservationService) CreateGatewayOrder(ctx context.Context, reservationID, userID string) (domain.Reservation, error) {
	res, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return domain.Reservation{}, err
	}
	if res.UserID != userID {
		return domain.Reservation{}, domain.ErrForbidden
	}
	if res.Status != domain.ReservationLocked {
		return domain.Reservation{}, domain.ErrReservationNotLocked
	}
	if res.Payment.GatewayOrderID != "" {
		return domain.Reservation{}, domain.ErrOrderAlreadyCreated
	}

	receipt := "rcpt_" + tail(res.ID, receiptIDSuffix)
	orderID, err := s.gateway.CreateOrder(ctx, res.Subtotal*100, orderCurrency, receipt)
	if err != nil {
		return domain.Reservation{}, err
	}

	ok, err := s.repo.SetGatewayOrder(ctx, res.ID, orderID)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !ok {
		return domain.Reservation{}, domain.ErrOrderAlreadyCreated
	}

	res.Payment.GatewayOrderID = orderID
	return res, nil
}

// Cancel releases a confirmed reservation's inventory claim. LOCKED
// reservations are never cancelled manually; the reaper owns that path.
func (s *ReservationService) Cancel(ctx context.Context, reservationID, userID string) (domain.Reservation, error) {
	var result domain.Reservation
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.repo.GetReservationForUpdate(txCtx, reservationID)
		if err != nil {
			return err
		}
		if res.UserID != userID {
			return domain.ErrForbidden
		}

		ok, err := s.repo.MarkCancelled(txCtx, res.ID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrReservationNotConfirmed
		}
		if err := s.repo.IncrementRooms(txCtx, res.HotelID, res.Rooms); err != nil {
			return err
		}

		res.Status = domain.ReservationCancelled
		result = res
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return result, nil
}

// Complete closes out a confirmed reservation after the stay has ended and
// releases its inventory claim.
func (s *ReservationService) Complete(ctx context.Context, reservationID string) (domain.Reservation, error) {
	now := s.clock.Now()

	var result domain.Reservation
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.repo.GetReservationForUpdate(txCtx, reservationID)
		if err != nil {
			return err
		}
		if res.Status != domain.ReservationConfirmed {
			return domain.ErrReservationNotConfirmed
		}
		if now.Before(res.CheckOut) {
			return domain.ErrStayNotEnded
		}

		ok, err := s.repo.MarkCompleted(txCtx, res.ID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrReservationNotConfirmed
		}
		if err := s.repo.IncrementRooms(txCtx, res.HotelID, res.Rooms); err != nil {
			return err
		}

		res.Status = domain.ReservationCompleted
		result = res
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return result, nil
}

func (s *ReservationService) ListByUser(ctx context.Context, userID string) ([]domain.Reservation, error) {
	return s.repo.ListByUser(ctx, userID, listLimit)
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
