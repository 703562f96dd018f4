package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeMethodNotAllowed        = "method_not_allowed"
	codeNotFound                = "not_found"
	codeInvalidRequestBody      = "invalid_request_body"
	codeInvalidDateRange        = "invalid_date_range"
	codeInvalidRoomCount        = "invalid_room_count"
	codeInvalidID               = "invalid_id"
	codeHotelNotFound           = "hotel_not_found"
	codeHotelUnavailable        = "hotel_unavailable"
	codeInsufficientInventory   = "insufficient_inventory"
	codeRateLimited             = "rate_limited"
	codeReservationNotFound     = "reservation_not_found"
	codeReservationNotLocked    = "reservation_not_locked"
	codeReservationNotConfirmed = "reservation_not_confirmed"
	codeStayNotEnded            = "stay_not_ended"
	codeOrderAlreadyCreated     = "order_already_created"
	codeInvalidSignature        = "invalid_signature"
	codeRefundNotAllowed        = "refund_not_allowed"
	codePayoutNotFound          = "payout_not_found"
	codePayoutAlreadyPaid       = "payout_already_paid"
	codePayoutReferenceRequired = "payout_reference_required"
	codeHotelNameRequired       = "hotel_name_required"
	codeInvalidTotalRooms       = "invalid_total_rooms"
	codeInvalidBasePrice        = "invalid_base_price"
	codeInvalidCommission       = "invalid_commission"
	codeUnauthorized            = "unauthorized"
	codeForbidden               = "forbidden"
	codeInternalError           = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}
