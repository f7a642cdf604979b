package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"renthub-backend/internal/service"

	"github.com/gorilla/mux"
)

// RentalHandler serves rental reads and the handover confirmations.
type RentalHandler struct {
	rentals   service.RentalService
	handovers service.HandoverService
}

func NewRentalHandler(rentals service.RentalService, handovers service.HandoverService) *RentalHandler {
	return &RentalHandler{rentals: rentals, handovers: handovers}
}

func pathID(r *http.Request, name string) (int32, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}

type createRentalRequest struct {
	OwnerID              int32  `json:"owner_id"`
	ItemID               int32  `json:"item_id"`
	Start                string `json:"start"` // yyyy-mm-dd
	End                  string `json:"end"`   // yyyy-mm-dd
	DailyRateCents       int32  `json:"daily_rate_cents"`
	SecurityDepositCents int32  `json:"security_deposit_cents"`
}

func (h *RentalHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	start, err := time.Parse("2006-01-02", req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid start date")
		return
	}
	end, err := time.Parse("2006-01-02", req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid end date")
		return
	}
	rental, err := h.rentals.CreateRental(r.Context(), userIDFromContext(r.Context()), service.CreateRentalInput{
		OwnerID:              req.OwnerID,
		ItemID:               req.ItemID,
		Start:                start,
		End:                  end,
		DailyRateCents:       req.DailyRateCents,
		SecurityDepositCents: req.SecurityDepositCents,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, rental)
}

func (h *RentalHandler) ConfirmHandoverByRenter(w http.ResponseWriter, r *http.Request) {
	h.confirmHandover(w, r, h.handovers.ConfirmByRenter)
}

func (h *RentalHandler) ConfirmHandoverByOwner(w http.ResponseWriter, r *http.Request) {
	h.confirmHandover(w, r, h.handovers.ConfirmByOwner)
}

type confirmFunc func(ctx context.Context, rentalID, userID int32) (*service.HandoverResult, error)

func (h *RentalHandler) confirmHandover(w http.ResponseWriter, r *http.Request, confirm confirmFunc) {
	rentalID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid rental id")
		return
	}
	result, err := confirm(r.Context(), rentalID, userIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"rental":         result.Rental,
		"both_confirmed": result.BothConfirmed,
	})
}

func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid rental id")
		return
	}
	rental, err := h.rentals.GetRental(r.Context(), userIDFromContext(r.Context()), rentalID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, rental)
}

func (h *RentalHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid rental id")
		return
	}
	events, err := h.rentals.GetTimeline(r.Context(), userIDFromContext(r.Context()), rentalID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"events": events})
}

func (h *RentalHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	status := r.URL.Query().Get("status")
	page, pageSize := pagination(r)

	list := h.rentals.ListRentals
	if r.URL.Query().Get("role") == "owner" {
		list = h.rentals.ListLendings
	}

	rentals, total, err := list(r.Context(), userID, status, page, pageSize)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"rentals":   rentals,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
