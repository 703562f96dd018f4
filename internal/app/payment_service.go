package app

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utkarsh9600/zyvo-backend/internal/clock"
	"github.com/utkarsh9600/zyvo-backend/internal/domain"
)

type PaymentStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetByGatewayOrderForUpdate(ctx context.Context, orderID string) (domain.Reservation, error)
	GetReservation(ctx context.Context, id string) (domain.Reservation, error)
	GetReservationForUpdate(ctx context.Context, id string) (domain.Reservation, error)
	MarkConfirmed(ctx context.Context, id, paymentID, signature string, paidAt time.Time) (bool, error)
	MarkExpiredIfLocked(ctx context.Context, id string) (bool, error)
	MarkRefunded(ctx context.Context, id, refundID string) (bool, error)
	IncrementRooms(ctx context.Context, hotelID string, rooms int) error
	RecordConfirmedBooking(ctx context.Context, hotelID string, revenue int64) error
	CreatePayout(ctx context.Context, entry domain.PayoutEntry) error
}

// RefundGateway reverses a captured payment at the external processor.
type RefundGateway interface {
	RefundPayment(ctx context.Context, paymentID string, amountMinor int64) (string, error)
}

type PaymentService struct {
	store         PaymentStore
	refunds       RefundGateway
	clock         clock.Clock
	keySecret     []byte
	webhookSecret []byte
	logger        *slog.Logger
}

func NewPaymentService(store PaymentStore, refunds RefundGateway, clk clock.Clock, keySecret, webhookSecret []byte, logger *slog.Logger) *PaymentService {
	return &PaymentService{
		store:         store,
		refunds:       refunds,
		clock:         clk,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

type VerifyInput struct {
	OrderID   string
	PaymentID string
	Signature string
}

// VerifyAndConfirm checks the client-supplied signature against the key
// secret and confirms the reservation. Replaying the same verified payment
// acks without touching state.
func (s *PaymentService) VerifyAndConfirm(ctx context.Context, in VerifyInput) (domain.Reservation, error) {
	if !s.validSignature(s.keySecret, []byte(in.OrderID+"|"+in.PaymentID), in.Signature) {
		return domain.Reservation{}, domain.ErrInvalidSignature
	}
	return s.confirm(ctx, in.OrderID, in.PaymentID, in.Signature)
}

type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook authenticates the raw body against the webhook secret and
// dispatches on the event name. Unknown events are acked so the gateway
// stops retrying them.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.validSignature(s.webhookSecret, body, signature) {
		return domain.ErrInvalidSignature
	}

	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode webhook: %w", err)
	}

	entity := env.Payload.Payment.Entity
	switch env.Event {
	case "payment.captured":
		_, err := s.confirm(ctx, entity.OrderID, entity.ID, signature)
		if err != nil {
			s.logger.Error("webhook capture failed",
				"order_id", entity.OrderID,
				"payment_id", entity.ID,
				"error", err,
			)
		}
		return err
	case "payment.failed":
		return s.releaseFailed(ctx, entity.OrderID)
	default:
		s.logger.Info("webhook event ignored", "event", env.Event)
		return nil
	}
}

// confirm flips a LOCKED reservation to CONFIRMED and records the booking
// and payout inside one transaction. A reservation already CONFIRMED for
// this order is a duplicate delivery and succeeds without side effects.
func (s *PaymentService) confirm(ctx context.Context, orderID, paymentID, signature string) (domain.Reservation, error) {
	now := s.clock.Now()

	var result domain.Reservation
	err := s.store.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.store.GetByGatewayOrderForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if res.Status == domain.ReservationConfirmed {
			result = res
			return nil
		}

		ok, err := s.store.MarkConfirmed(txCtx, res.ID, paymentID, signature, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrReservationNotLocked
		}

		if err := s.store.RecordConfirmedBooking(txCtx, res.HotelID, res.Subtotal); err != nil {
			return err
		}

		entry := domain.PayoutEntry{
			ID:                uuid.NewString(),
			ReservationID:     res.ID,
			HotelID:           res.HotelID,
			TotalAmount:       res.Subtotal,
			CommissionAmount:  res.CommissionAmount,
			OwnerPayoutAmount: res.OwnerPayoutAmount,
			PayoutStatus:      domain.PayoutUnpaid,
			CreatedAt:         now,
		}
		if err := s.store.CreatePayout(txCtx, entry); err != nil {
			return err
		}

		res.Status = domain.ReservationConfirmed
		res.Payment.Status = domain.PaymentPaid
		res.Payment.GatewayPaymentID = paymentID
		res.Payment.GatewaySignature = signature
		res.Payment.PaidAt = &now
		result = res
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return result, nil
}

// releaseFailed expires the reservation behind a failed charge and returns
// its rooms. The reaper may have beaten us to it; the guarded update makes
// that a no-op here.
func (s *PaymentService) releaseFailed(ctx context.Context, orderID string) error {
	err := s.store.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.store.GetByGatewayOrderForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}

		ok, err := s.store.MarkExpiredIfLocked(txCtx, res.ID)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return s.store.IncrementRooms(txCtx, res.HotelID, res.Rooms)
	})
	if err == domain.ErrReservationNotFound {
		// Ack deliveries for orders we never created instead of forcing
		// the gateway into a retry loop.
		s.logger.Warn("webhook failure for unknown order", "order_id", orderID)
		return nil
	}
	return err
}

type RefundInput struct {
	ReservationID string
}

// Refund reverses the captured payment of a confirmed reservation and
// cancels it. The gateway call happens first; the guarded update then
// records the refund and releases the rooms exactly once.
func (s *PaymentService) Refund(ctx context.Context, in RefundInput) (domain.Reservation, error) {
	res, err := s.store.GetReservation(ctx, in.ReservationID)
	if err != nil {
		return domain.Reservation{}, err
	}
	if res.Status != domain.ReservationConfirmed || res.Payment.Status != domain.PaymentPaid {
		return domain.Reservation{}, domain.ErrRefundNotAllowed
	}
	if res.Payment.GatewayPaymentID == "" {
		return domain.Reservation{}, domain.ErrRefundNotAllowed
	}

	refundID, err := s.refunds.RefundPayment(ctx, res.Payment.GatewayPaymentID, res.Subtotal*100)
	if err != nil {
		return domain.Reservation{}, err
	}

	err = s.store.WithTx(ctx, func(txCtx context.Context) error {
		ok, err := s.store.MarkRefunded(txCtx, res.ID, refundID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrRefundNotAllowed
		}
		return s.store.IncrementRooms(txCtx, res.HotelID, res.Rooms)
	})
	if err != nil {
		return domain.Reservation{}, err
	}

	res.Status = domain.ReservationCancelled
	res.Payment.Status = domain.PaymentRefunded
	res.Payment.RefundID = refundID
	return res, nil
}

func (s *PaymentService) validSignature(secret, message []byte, signature string) bool {
	want, err := hex.DecodeString(signature)
	if err != nil || len(want) != sha256.Size {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(message)
	return hmac.Equal(mac.Sum(nil), want)
}
