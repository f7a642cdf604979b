package http

import (
	"net/http"

	"renthub-backend/internal/service"
)

// DepositHandler serves the admin-facing deposit custody operations.
type DepositHandler struct {
	deposits service.DepositService
}

func NewDepositHandler(deposits service.DepositService) *DepositHandler {
	return &DepositHandler{deposits: deposits}
}

type depositActionRequest struct {
	Reason      string `json:"reason"`
	AmountCents int32  `json:"amount_cents,omitempty"`
}

func (h *DepositHandler) HoldDeposit(w http.ResponseWriter, r *http.Request) {
	depositID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid deposit id")
		return
	}
	var req depositActionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.deposits.HoldDeposit(r.Context(), depositID, req.Reason); err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"held": true})
}

func (h *DepositHandler) ReleaseDeposit(w http.ResponseWriter, r *http.Request) {
	depositID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid deposit id")
		return
	}
	var req depositActionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.deposits.ReleaseDeposit(r.Context(), depositID, req.Reason); err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"released": true})
}

func (h *DepositHandler) ReleasePartialDeposit(w http.ResponseWriter, r *http.Request) {
	depositID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid deposit id")
		return
	}
	var req depositActionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.deposits.ReleasePartialDeposit(r.Context(), depositID, req.AmountCents, req.Reason); err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"released": true, "amount_cents": req.AmountCents})
}

func (h *DepositHandler) GetDeposit(w http.ResponseWriter, r *http.Request) {
	depositID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid deposit id")
		return
	}
	deposit, err := h.deposits.GetDeposit(r.Context(), depositID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, deposit)
}
