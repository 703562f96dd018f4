package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/utkarsh9600/zyvo-backend/internal/app"
	"github.com/utkarsh9600/zyvo-backend/internal/domain"
)

const (
	gatewaySignatureHeader = "X-Gateway-Signature"
	maxWebhookBody         = 1 << 20
)

// PaymentVerifier is the minimal interface needed to verify a client-side
// payment callback.
type PaymentVerifier interface {
	VerifyAndConfirm(ctx context.Context, in app.VerifyInput) (domain.Reservation, error)
}

// WebhookProcessor is the minimal interface needed to process gateway
// webhook deliveries.
type WebhookProcessor interface {
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

// Refunder is the minimal interface needed to refund a reservation.
type Refunder interface {
	Refund(ctx context.Context, in app.RefundInput) (domain.Reservation, error)
}

// HandleVerifyPayment returns an HTTP handler for the browser checkout
// callback. The client posts the gateway's order id, payment id and
// signature after a successful charge.
func HandleVerifyPayment(svc PaymentVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req verifyPaymentRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "order_id, payment_id and signature are required")
			return
		}

		res, err := svc.VerifyAndConfirm(r.Context(), app.VerifyInput{
			OrderID:   req.OrderID,
			PaymentID: req.PaymentID,
			Signature: req.Signature,
		})
		if err != nil {
			switch err {
			case domain.ErrInvalidSignature:
				writeError(w, http.StatusBadRequest, codeInvalidSignature, err.Error())
			case domain.ErrReservationNotFound:
				writeError(w, http.StatusNotFound, codeReservationNotFound, err.Error())
			case domain.ErrReservationNotLocked:
				writeError(w, http.StatusConflict, codeReservationNotLocked, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toReservationResponse(res))
	}
}

// HandleWebhook returns an HTTP handler for gateway webhook deliveries. The
// signature covers the raw body, so the body is read before any decoding.
func HandleWebhook(svc WebhookProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		err = svc.HandleWebhook(r.Context(), body, r.Header.Get(gatewaySignatureHeader))
		if err != nil {
			switch err {
			case domain.ErrInvalidSignature:
				writeError(w, http.StatusUnauthorized, codeInvalidSignature, err.Error())
			case domain.ErrReservationNotFound:
				writeError(w, http.StatusNotFound, codeReservationNotFound, err.Error())
			case domain.ErrReservationNotLocked:
				writeError(w, http.StatusConflict, codeReservationNotLocked, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// HandleRefund returns an HTTP handler for refunding a paid reservation.
// Mounted behind the admin token.
func HandleRefund(svc Refunder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		reservationID, ok := parseRefundPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		res, err := svc.Refund(r.Context(), app.RefundInput{ReservationID: reservationID})
		if err != nil {
			switch err {
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrReservationNotFound:
				writeError(w, http.StatusNotFound, codeReservationNotFound, err.Error())
			case domain.ErrRefundNotAllowed:
				writeError(w, http.StatusConflict, codeRefundNotAllowed, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toReservationResponse(res))
	}
}

func parseRefundPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return "", false
	}
	if parts[0] != "payments" || parts[1] != "refund" || parts[2] == "" {
		return "", false
	}
	return parts[2], true
}

type verifyPaymentRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}
