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

// AdminHotelService is the minimal interface needed for the hotel admin
// endpoints.
type AdminHotelService interface {
	CreateHotel(ctx context.Context, in app.CreateHotelInput) (domain.Hotel, error)
	GetHotel(ctx context.Context, id string) (domain.Hotel, error)
	ListHotels(ctx context.Context) ([]domain.Hotel, error)
	SetHotelActive(ctx context.Context, id string, active bool) error
}

// AdminPayoutService is the minimal interface needed for the payout admin
// endpoints.
type AdminPayoutService interface {
	MarkPaid(ctx context.Context, reservationID, reference string) (domain.PayoutEntry, error)
	ListByHotel(ctx context.Context, hotelID string) ([]domain.PayoutEntry, error)
}

// ReservationCompleter is the minimal interface needed to close out stays.
type ReservationCompleter interface {
	Complete(ctx context.Context, reservationID string) (domain.Reservation, error)
}

// HandleAdminHotels returns an HTTP handler for hotel creation and listing.
func HandleAdminHotels(svc AdminHotelService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			hotels, err := svc.ListHotels(r.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			resp := make([]hotelResponse, 0, len(hotels))
			for _, h := range hotels {
				resp = append(resp, toHotelResponse(h))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		case http.MethodPost:
			var req createHotelRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			hotel, err := svc.CreateHotel(r.Context(), app.CreateHotelInput{
				Name:              req.Name,
				City:              req.City,
				OwnerID:           req.OwnerID,
				TotalRooms:        req.TotalRooms,
				BasePrice:         req.BasePrice,
				WeekendMultiplier: req.WeekendMultiplier,
				CommissionPercent: req.CommissionPercent,
			})
			if err != nil {
				switch err {
				case domain.ErrHotelNameRequired:
					writeError(w, http.StatusBadRequest, codeHotelNameRequired, err.Error())
				case domain.ErrInvalidTotalRooms:
					writeError(w, http.StatusBadRequest, codeInvalidTotalRooms, err.Error())
				case domain.ErrInvalidBasePrice:
					writeError(w, http.StatusBadRequest, codeInvalidBasePrice, err.Error())
				case domain.ErrInvalidCommission:
					writeError(w, http.StatusBadRequest, codeInvalidCommission, err.Error())
				default:
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				}
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(toHotelResponse(hotel))
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

// HandleAdminHotel returns an HTTP handler for the per-hotel admin
// endpoints: fetching, toggling availability and listing payouts.
func HandleAdminHotel(hotels AdminHotelService, payouts AdminPayoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hotelID, action, ok := parseAdminHotelPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch {
		case action == "" && r.Method == http.MethodGet:
			hotel, err := hotels.GetHotel(r.Context(), hotelID)
			if err != nil {
				writeHotelError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toHotelResponse(hotel))
		case action == "active" && r.Method == http.MethodPost:
			var req setActiveRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if err := hotels.SetHotelActive(r.Context(), hotelID, req.Active); err != nil {
				writeHotelError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"id": hotelID, "active": req.Active})
		case action == "payouts" && r.Method == http.MethodGet:
			entries, err := payouts.ListByHotel(r.Context(), hotelID)
			if err != nil {
				writeHotelError(w, err)
				return
			}
			resp := make([]payoutResponse, 0, len(entries))
			for _, e := range entries {
				resp = append(resp, toPayoutResponse(e))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func writeHotelError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrHotelNotFound:
		writeError(w, http.StatusNotFound, codeHotelNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

// HandleAdminPayoutPaid returns an HTTP handler for settling an owner
// payout.
func HandleAdminPayoutPaid(svc AdminPayoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		reservationID, ok := parseAdminPayoutPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		var req markPaidRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		entry, err := svc.MarkPaid(r.Context(), reservationID, req.Reference)
		if err != nil {
			switch err {
			case domain.ErrPayoutReferenceRequired:
				writeError(w, http.StatusBadRequest, codePayoutReferenceRequired, err.Error())
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrPayoutNotFound:
				writeError(w, http.StatusNotFound, codePayoutNotFound, err.Error())
			case domain.ErrPayoutAlreadyPaid:
				writeError(w, http.StatusConflict, codePayoutAlreadyPaid, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toPayoutResponse(entry))
	}
}

// HandleAdminCompleteReservation returns an HTTP handler for closing out a
// stay after checkout.
func HandleAdminCompleteReservation(svc ReservationCompleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		reservationID, ok := parseAdminCompletePath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		res, err := svc.Complete(r.Context(), reservationID)
		if err != nil {
			switch err {
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrReservationNotFound:
				writeError(w, http.StatusNotFound, codeReservationNotFound, err.Error())
			case domain.ErrReservationNotConfirmed:
				writeError(w, http.StatusConflict, codeReservationNotConfirmed, err.Error())
			case domain.ErrStayNotEnded:
				writeError(w, http.StatusConflict, codeStayNotEnded, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toReservationResponse(res))
	}
}

func parseAdminHotelPath(path string) (string, string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 3 || len(parts) > 4 {
		return "", "", false
	}
	if parts[0] != "admin" || parts[1] != "hotels" || parts[2] == "" {
		return "", "", false
	}
	if len(parts) == 3 {
		return parts[2], "", true
	}
	return parts[2], parts[3], true
}

func parseAdminPayoutPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 {
		return "", false
	}
	if parts[0] != "admin" || parts[1] != "payouts" || parts[2] == "" || parts[3] != "paid" {
		return "", false
	}
	return parts[2], true
}

func parseAdminCompletePath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 {
		return "", false
	}
	if parts[0] != "admin" || parts[1] != "reservations" || parts[2] == "" || parts[3] != "complete" {
		return "", false
	}
	return parts[2], true
}

type createHotelRequest struct {
	Name              string  `json:"name"`
	City              string  `json:"city"`
	OwnerID           string  `json:"owner_id"`
	TotalRooms        int     `json:"total_rooms"`
	BasePrice         int64   `json:"base_price"`
	WeekendMultiplier float64 `json:"weekend_multiplier,omitempty"`
	CommissionPercent float64 `json:"commission_percent,omitempty"`
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

type markPaidRequest struct {
	Reference string `json:"reference"`
}

type hotelResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	City              string    `json:"city"`
	OwnerID           string    `json:"owner_id"`
	Active            bool      `json:"active"`
	TotalRooms        int       `json:"total_rooms"`
	AvailableRooms    int       `json:"available_rooms"`
	BasePrice         int64     `json:"base_price"`
	WeekendMultiplier float64   `json:"weekend_multiplier"`
	CommissionPercent float64   `json:"commission_percent"`
	TotalBookings     int64     `json:"total_bookings"`
	TotalRevenue      int64     `json:"total_revenue"`
	CreatedAt         time.Time `json:"created_at"`
}

func toHotelResponse(h domain.Hotel) hotelResponse {
	return hotelResponse{
		ID:                h.ID,
		Name:              h.Name,
		City:              h.City,
		OwnerID:           h.OwnerID,
		Active:            h.Active,
		TotalRooms:        h.TotalRooms,
		AvailableRooms:    h.AvailableRooms,
		BasePrice:         h.BasePrice,
		WeekendMultiplier: h.WeekendMultiplier,
		CommissionPercent: h.CommissionPercent,
		TotalBookings:     h.TotalBookings,
		TotalRevenue:      h.TotalRevenue,
		CreatedAt:         h.CreatedAt,
	}
}

type payoutResponse struct {
	ReservationID     string     `json:"reservation_id"`
	HotelID           string     `json:"hotel_id"`
	TotalAmount       int64      `json:"total_amount"`
	CommissionAmount  int64      `json:"commission_amount"`
	GatewayFee        int64      `json:"gateway_fee"`
	OwnerPayoutAmount int64      `json:"owner_payout_amount"`
	PayoutStatus      string     `json:"payout_status"`
	PayoutReference   string     `json:"payout_reference,omitempty"`
	PayoutAt          *time.Time `json:"payout_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func toPayoutResponse(e domain.PayoutEntry) payoutResponse {
	return payoutResponse{
		ReservationID:     e.ReservationID,
		HotelID:           e.HotelID,
		TotalAmount:       e.TotalAmount,
		CommissionAmount:  e.CommissionAmount,
		GatewayFee:        e.GatewayFee,
		OwnerPayoutAmount: e.OwnerPayoutAmount,
		PayoutStatus:      string(e.PayoutStatus),
		PayoutReference:   e.PayoutReference,
		PayoutAt:          e.PayoutAt,
		CreatedAt:         e.CreatedAt,
	}
}
