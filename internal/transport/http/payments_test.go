package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/utkarsh9600/zyvo-backend/internal/app"
	"github.com/utkarsh9600/zyvo-backend/internal/domain"
)

type stubPaymentService struct {
	verifyResult domain.Reservation
	verifyErr    error
	gotVerify    app.VerifyInput

	webhookErr   error
	gotBody      []byte
	gotSignature string

	refundResult domain.Reservation
	refundErr    error
	gotRefundID  string
}

func (s *stubPaymentService) VerifyAndConfirm(_ context.Context, in app.VerifyInput) (domain.Reservation, error) {
	s.gotVerify = in
	return s.verifyResult, s.verifyErr
}

func (s *stubPaymentService) HandleWebhook(_ context.Context, body []byte, signature string) error {
	s.gotBody = body
	s.gotSignature = signature
	return s.webhookErr
}

func (s *stubPaymentService) Refund(_ context.Context, in app.RefundInput) (domain.Reservation, error) {
	s.gotRefundID = in.ReservationID
	return s.refundResult, s.refundErr
}

func TestHandleVerifyPayment(t *testing.T) {
	t.Parallel()

	t.Run("confirms on valid payload", func(t *testing.T) {
		svc := &stubPaymentService{
			verifyResult: domain.Reservation{ID: "res-1", Status: domain.ReservationConfirmed},
		}

		body := `{"order_id":"order_1","payment_id":"pay_1","signature":"abc"}`
		req := httptest.NewRequest(http.MethodPost, "/payments/verify", strings.NewReader(body))
		rec := httptest.NewRecorder()

		HandleVerifyPayment(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.gotVerify.OrderID != "order_1" || svc.gotVerify.PaymentID != "pay_1" || svc.gotVerify.Signature != "abc" {
			t.Fatalf("unexpected verify input: %+v", svc.gotVerify)
		}
		var resp reservationResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Status != "CONFIRMED" {
			t.Fatalf("expected CONFIRMED, got %s", resp.Status)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		body := `{"order_id":"order_1"}`
		req := httptest.NewRequest(http.MethodPost, "/payments/verify", strings.NewReader(body))
		rec := httptest.NewRecorder()

		HandleVerifyPayment(&stubPaymentService{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("invalid signature", func(t *testing.T) {
		svc := &stubPaymentService{verifyErr: domain.ErrInvalidSignature}
		body := `{"order_id":"order_1","payment_id":"pay_1","signature":"bad"}`
		req := httptest.NewRequest(http.MethodPost, "/payments/verify", strings.NewReader(body))
		rec := httptest.NewRecorder()

		HandleVerifyPayment(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		var resp errorResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode error response: %v", err)
		}
		if resp.Code != codeInvalidSignature {
			t.Fatalf("expected code %s, got %s", codeInvalidSignature, resp.Code)
		}
	})

	t.Run("expired reservation conflicts", func(t *testing.T) {
		svc := &stubPaymentService{verifyErr: domain.ErrReservationNotLocked}
		body := `{"order_id":"order_1","payment_id":"pay_1","signature":"abc"}`
		req := httptest.NewRequest(http.MethodPost, "/payments/verify", strings.NewReader(body))
		rec := httptest.NewRecorder()

		HandleVerifyPayment(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

func TestHandleWebhook(t *testing.T) {
	t.Parallel()

	t.Run("passes raw body and signature header through", func(t *testing.T) {
		svc := &stubPaymentService{}
		body := `{"event":"payment.captured","payload":{}}`
		req := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(body))
		req.Header.Set(gatewaySignatureHeader, "sig-1")
		rec := httptest.NewRecorder()

		HandleWebhook(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if string(svc.gotBody) != body {
			t.Fatalf("expected raw body passed through, got %q", svc.gotBody)
		}
		if svc.gotSignature != "sig-1" {
			t.Fatalf("expected signature header, got %q", svc.gotSignature)
		}
	})

	t.Run("invalid signature is 401", func(t *testing.T) {
		svc := &stubPaymentService{webhookErr: domain.ErrInvalidSignature}
		req := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		HandleWebhook(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/payments/webhook", nil)
		rec := httptest.NewRecorder()

		HandleWebhook(&stubPaymentService{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

func TestHandleRefund(t *testing.T) {
	t.Parallel()

	t.Run("refunds by reservation id from path", func(t *testing.T) {
		svc := &stubPaymentService{
			refundResult: domain.Reservation{
				ID:      "res-1",
				Status:  domain.ReservationCancelled,
				Payment: domain.Payment{Status: domain.PaymentRefunded, RefundID: "rfnd_1"},
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/payments/refund/res-1", nil)
		rec := httptest.NewRecorder()

		HandleRefund(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.gotRefundID != "res-1" {
			t.Fatalf("expected res-1, got %q", svc.gotRefundID)
		}
	})

	t.Run("refund not allowed conflicts", func(t *testing.T) {
		svc := &stubPaymentService{refundErr: domain.ErrRefundNotAllowed}
		req := httptest.NewRequest(http.MethodPost, "/payments/refund/res-1", nil)
		rec := httptest.NewRecorder()

		HandleRefund(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("bad path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/payments/refund/", nil)
		rec := httptest.NewRecorder()

		HandleRefund(&stubPaymentService{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
