package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/utkarsh9600/zyvo-backend/internal/app"
	"github.com/utkarsh9600/zyvo-backend/internal/domain"
)

type stubAdminService struct {
	createResult domain.Hotel
	createErr    error
	gotCreate    app.CreateHotelInput

	hotel    domain.Hotel
	hotelErr error

	list    []domain.Hotel
	listErr error

	activeErr error
	gotActive bool
	gotID     string
}

func (s *stubAdminService) CreateHotel(_ context.Context, in app.CreateHotelInput) (domain.Hotel, error) {
	s.gotCreate = in
	return s.createResult, s.createErr
}

func (s *stubAdminService) GetHotel(_ context.Context, id string) (domain.Hotel, error) {
	s.gotID = id
	return s.hotel, s.hotelErr
}

func (s *stubAdminService) ListHotels(_ context.Context) ([]domain.Hotel, error) {
	return s.list, s.listErr
}

func (s *stubAdminService) SetHotelActive(_ context.Context, id string, active bool) error {
	s.gotID = id
	s.gotActive = active
	return s.activeErr
}

type stubPayoutService struct {
	markResult domain.PayoutEntry
	markErr    error
	gotID      string
	gotRef     string

	list    []domain.PayoutEntry
	listErr error
}

func (s *stubPayoutService) MarkPaid(_ context.Context, reservationID, reference string) (domain.PayoutEntry, error) {
	s.gotID = reservationID
	s.gotRef = reference
	return s.markResult, s.markErr
}

func (s *stubPayoutService) ListByHotel(_ context.Context, _ string) ([]domain.PayoutEntry, error) {
	return s.list, s.listErr
}

func TestHandleAdminHotels(t *testing.T) {
	t.Parallel()

	t.Run("creates hotel", func(t *testing.T) {
		svc := &stubAdminService{
			createResult: domain.Hotel{
				ID:                "hotel-1",
				Name:              "Seaside Inn",
				Active:            true,
				TotalRooms:        12,
				AvailableRooms:    12,
				BasePrice:         3500,
				CommissionPercent: 15,
			},
		}

		body := `{"name":"Seaside Inn","city":"Goa","owner_id":"owner-1","total_rooms":12,"base_price":3500}`
		req := httptest.NewRequest(http.MethodPost, "/admin/hotels", strings.NewReader(body))
		rec := httptest.NewRecorder()

		HandleAdminHotels(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.gotCreate.Name != "Seaside Inn" || svc.gotCreate.TotalRooms != 12 {
			t.Fatalf("unexpected input: %+v", svc.gotCreate)
		}
		var resp hotelResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.AvailableRooms != 12 || !resp.Active {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("validation errors map to 400", func(t *testing.T) {
		cases := []struct {
			err  error
			code string
		}{
			{domain.ErrHotelNameRequired, codeHotelNameRequired},
			{domain.ErrInvalidTotalRooms, codeInvalidTotalRooms},
			{domain.ErrInvalidBasePrice, codeInvalidBasePrice},
			{domain.ErrInvalidCommission, codeInvalidCommission},
		}
		for _, tc := range cases {
			svc := &stubAdminService{createErr: tc.err}
			req := httptest.NewRequest(http.MethodPost, "/admin/hotels", strings.NewReader(`{}`))
			rec := httptest.NewRecorder()

			HandleAdminHotels(svc).ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("%v: expected 400, got %d", tc.err, rec.Code)
			}
			var resp errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if resp.Code != tc.code {
				t.Fatalf("%v: expected code %s, got %s", tc.err, tc.code, resp.Code)
			}
		}
	})

	t.Run("lists hotels", func(t *testing.T) {
		svc := &stubAdminService{
			list: []domain.Hotel{{ID: "hotel-1"}, {ID: "hotel-2"}},
		}

		req := httptest.NewRequest(http.MethodGet, "/admin/hotels", nil)
		rec := httptest.NewRecorder()

		HandleAdminHotels(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp []hotelResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(resp) != 2 {
			t.Fatalf("expected 2 hotels, got %d", len(resp))
		}
	})
}

func TestHandleAdminHotel(t *testing.T) {
	t.Parallel()

	t.Run("fetches hotel", func(t *testing.T) {
		hotels := &stubAdminService{hotel: domain.Hotel{ID: "hotel-1", Name: "Seaside Inn"}}
		req := httptest.NewRequest(http.MethodGet, "/admin/hotels/hotel-1", nil)
		rec := httptest.NewRecorder()

		HandleAdminHotel(hotels, &stubPayoutService{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if hotels.gotID != "hotel-1" {
			t.Fatalf("expected hotel-1, got %q", hotels.gotID)
		}
	})

	t.Run("toggles active", func(t *testing.T) {
		hotels := &stubAdminService{}
		req := httptest.NewRequest(http.MethodPost, "/admin/hotels/hotel-1/active", strings.NewReader(`{"active":false}`))
		rec := httptest.NewRecorder()

		HandleAdminHotel(hotels, &stubPayoutService{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if hotels.gotID != "hotel-1" || hotels.gotActive {
			t.Fatalf("expected deactivation of hotel-1, got %q %v", hotels.gotID, hotels.gotActive)
		}
	})

	t.Run("lists payouts", func(t *testing.T) {
		payouts := &stubPayoutService{
			list: []domain.PayoutEntry{{ReservationID: "res-1", OwnerPayoutAmount: 5202}},
		}
		req := httptest.NewRequest(http.MethodGet, "/admin/hotels/hotel-1/payouts", nil)
		rec := httptest.NewRecorder()

		HandleAdminHotel(&stubAdminService{}, payouts).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp []payoutResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(resp) != 1 || resp[0].OwnerPayoutAmount != 5202 {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("unknown hotel is 404", func(t *testing.T) {
		hotels := &stubAdminService{hotelErr: domain.ErrHotelNotFound}
		req := httptest.NewRequest(http.MethodGet, "/admin/hotels/missing", nil)
		rec := httptest.NewRecorder()

		HandleAdminHotel(hotels, &stubPayoutService{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestHandleAdminPayoutPaid(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	t.Run("settles payout", func(t *testing.T) {
		svc := &stubPayoutService{
			markResult: domain.PayoutEntry{
				ReservationID:   "res-1",
				PayoutStatus:    domain.PayoutPaid,
				PayoutReference: "utr-1",
				PayoutAt:        &now,
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/admin/payouts/res-1/paid", strings.NewReader(`{"reference":"utr-1"}`))
		rec := httptest.NewRecorder()

		HandleAdminPayoutPaid(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.gotID != "res-1" || svc.gotRef != "utr-1" {
			t.Fatalf("unexpected dispatch: %q %q", svc.gotID, svc.gotRef)
		}
	})

	t.Run("already paid conflicts", func(t *testing.T) {
		svc := &stubPayoutService{markErr: domain.ErrPayoutAlreadyPaid}
		req := httptest.NewRequest(http.MethodPost, "/admin/payouts/res-1/paid", strings.NewReader(`{"reference":"utr-2"}`))
		rec := httptest.NewRecorder()

		HandleAdminPayoutPaid(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("missing reference", func(t *testing.T) {
		svc := &stubPayoutService{markErr: domain.ErrPayoutReferenceRequired}
		req := httptest.NewRequest(http.MethodPost, "/admin/payouts/res-1/paid", strings.NewReader(`{"reference":""}`))
		rec := httptest.NewRecorder()

		HandleAdminPayoutPaid(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

type stubCompleter struct {
	result domain.Reservation
	err    error
	gotID  string
}

func (s *stubCompleter) Complete(_ context.Context, reservationID string) (domain.Reservation, error) {
	s.gotID = reservationID
	return s.result, s.err
}

func TestHandleAdminCompleteReservation(t *testing.T) {
	t.Parallel()

	t.Run("completes stay", func(t *testing.T) {
		svc := &stubCompleter{result: domain.Reservation{ID: "res-1", Status: domain.ReservationCompleted}}
		req := httptest.NewRequest(http.MethodPost, "/admin/reservations/res-1/complete", nil)
		rec := httptest.NewRecorder()

		HandleAdminCompleteReservation(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if svc.gotID != "res-1" {
			t.Fatalf("expected res-1, got %q", svc.gotID)
		}
	})

	t.Run("stay not ended conflicts", func(t *testing.T) {
		svc := &stubCompleter{err: domain.ErrStayNotEnded}
		req := httptest.NewRequest(http.MethodPost, "/admin/reservations/res-1/complete", nil)
		rec := httptest.NewRecorder()

		HandleAdminCompleteReservation(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}
