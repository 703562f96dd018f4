package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/utkarsh9600/zyvo-backend/internal/app"
	"github.com/utkarsh9600/zyvo-backend/internal/domain"
)

// ReservationCreator is the minimal interface needed for the reservation
// collection endpoints.
type ReservationCreator interface {
	Reserve(ctx context.Context, in app.ReserveInput) (app.ReserveResult, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Reservation, error)
}

// ReservationActor is the minimal interface needed for per-reservation
// actions.
type ReservationActor interface {
	CreateGatewayOrder(ctx context.Context, reservationID, userID string) (domain.Reservation, error)
	Cancel(ctx context.Context, reservationID, userID string) (domain.Reservation, error)
}

// HandleReservations returns an HTTP handler for creating and listing the
// caller's reservations.
func HandleReservations(svc ReservationCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized")
			return
		}

		switch r.Method {
		case http.MethodGet:
			reservations, err := svc.ListByUser(r.Context(), userID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			resp := make([]reservationResponse, 0, len(reservations))
			for _, res := range reservations {
				resp = append(resp, toReservationResponse(res))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		case http.MethodPost:
			var req createReservationRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			checkIn, err := time.Parse(time.RFC3339, req.CheckIn)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidDateRange, "invalid check_in format")
				return
			}
			checkOut, err := time.Parse(time.RFC3339, req.CheckOut)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidDateRange, "invalid check_out format")
				return
			}

			result, err := svc.Reserve(r.Context(), app.ReserveInput{
				UserID:   userID,
				HotelID:  req.HotelID,
				CheckIn:  checkIn,
				CheckOut: checkOut,
				Rooms:    req.Rooms,
			})
			if err != nil {
				writeReserveError(w, err)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(toReservationResponse(result.Reservation))
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

func writeReserveError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidDateRange:
		writeError(w, http.StatusBadRequest, codeInvalidDateRange, err.Error())
	case domain.ErrInvalidRoomCount:
		writeError(w, http.StatusBadRequest, codeInvalidRoomCount, err.Error())
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrHotelNotFound:
		writeError(w, http.StatusNotFound, codeHotelNotFound, err.Error())
	case domain.ErrHotelUnavailable:
		writeError(w, http.StatusConflict, codeHotelUnavailable, err.Error())
	case domain.ErrInsufficientInventory:
		writeError(w, http.StatusConflict, codeInsufficientInventory, err.Error())
	case domain.ErrRateLimited:
		writeError(w, http.StatusTooManyRequests, codeRateLimited, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

// HandleReservationActions returns an HTTP handler for the per-reservation
// action endpoints: creating a gateway order and cancelling.
func HandleReservationActions(svc ReservationActor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		userID, ok := UserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized")
			return
		}

		reservationID, action, ok := parseReservationActionPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		var res domain.Reservation
		var err error
		switch action {
		case "order":
			res, err = svc.CreateGatewayOrder(r.Context(), reservationID, userID)
		case "cancel":
			res, err = svc.Cancel(r.Context(), reservationID, userID)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if err != nil {
			writeReservationActionError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toReservationResponse(res))
	}
}

func writeReservationActionError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrReservationNotFound:
		writeError(w, http.StatusNotFound, codeReservationNotFound, err.Error())
	case domain.ErrForbidden:
		writeError(w, http.StatusForbidden, codeForbidden, err.Error())
	case domain.ErrReservationNotLocked:
		writeError(w, http.StatusConflict, codeReservationNotLocked, err.Error())
	case domain.ErrReservationNotConfirmed:
		writeError(w, http.StatusConflict, codeReservationNotConfirmed, err.Error())
	case domain.ErrOrderAlreadyCreated:
		writeError(w, http.StatusConflict, codeOrderAlreadyCreated, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func parseReservationActionPath(path string) (string, string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return "", "", false
	}
	if parts[0] != "reservations" || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

type createReservationRequest struct {
	HotelID  string `json:"hotel_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Rooms    int    `json:"rooms"`
}

type reservationResponse struct {
	ID                string     `json:"id"`
	HotelID           string     `json:"hotel_id"`
	Status            string     `json:"status"`
	CheckIn           time.Time  `json:"check_in"`
	CheckOut          time.Time  `json:"check_out"`
	Rooms             int        `json:"rooms"`
	Nights            int        `json:"nights"`
	PricePerNight     int64      `json:"price_per_night"`
	Subtotal          int64      `json:"subtotal"`
	CommissionAmount  int64      `json:"commission_amount"`
	OwnerPayoutAmount int64      `json:"owner_payout_amount"`
	LockExpiresAt     *time.Time `json:"lock_expires_at,omitempty"`
	PaymentStatus     string     `json:"payment_status"`
	GatewayOrderID    string     `json:"gateway_order_id,omitempty"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func toReservationResponse(res domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:                res.ID,
		HotelID:           res.HotelID,
		Status:            string(res.Status),
		CheckIn:           res.CheckIn,
		CheckOut:          res.CheckOut,
		Rooms:             res.Rooms,
		Nights:            res.Nights,
		PricePerNight:     res.PricePerNight,
		Subtotal:          res.Subtotal,
		CommissionAmount:  res.CommissionAmount,
		OwnerPayoutAmount: res.OwnerPayoutAmount,
		LockExpiresAt:     res.LockExpiresAt,
		PaymentStatus:     string(res.Payment.Status),
		GatewayOrderID:    res.Payment.GatewayOrderID,
		PaidAt:            res.Payment.PaidAt,
		CreatedAt:         res.CreatedAt,
	}
}
