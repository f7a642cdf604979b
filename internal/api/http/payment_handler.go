package http

import (
	"net/http"

	"renthub-backend/internal/service"
)

// PaymentHandler ingests capture events from the payment gateway.
type PaymentHandler struct {
	payments service.PaymentService
}

func NewPaymentHandler(payments service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type captureEventRequest struct {
	RentalID   int32  `json:"rental_id"`
	Status     string `json:"status"` // "captured" or "failed"
	GatewayRef string `json:"gateway_ref"`
}

func (h *PaymentHandler) HandleCaptureEvent(w http.ResponseWriter, r *http.Request) {
	var req captureEventRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RentalID <= 0 {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid rental id")
		return
	}
	if req.Status != "captured" && req.Status != "failed" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "status must be captured or failed")
		return
	}
	err := h.payments.HandleCaptureResult(r.Context(), req.RentalID, req.Status == "captured", req.GatewayRef)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"processed": true})
}
