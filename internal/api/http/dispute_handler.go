package http

import (
	"net/http"

	"renthub-backend/internal/service"
)

// DisputeHandler serves dispute intake and moderator resolution.
type DisputeHandler struct {
	disputes service.DisputeService
}

func NewDisputeHandler(disputes service.DisputeService) *DisputeHandler {
	return &DisputeHandler{disputes: disputes}
}

type raiseDisputeRequest struct {
	Reason   string   `json:"reason"`
	Evidence []string `json:"evidence,omitempty"`
}

type resolveDisputeRequest struct {
	Decision               string `json:"decision"`
	RefundCents            int32  `json:"refund_cents"`
	OwnerCompensationCents int32  `json:"owner_compensation_cents"`
}

func (h *DisputeHandler) RaiseDispute(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid rental id")
		return
	}
	var req raiseDisputeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	dispute, err := h.disputes.RaiseDispute(r.Context(), rentalID, userIDFromContext(r.Context()), req.Reason, req.Evidence)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, dispute)
}

func (h *DisputeHandler) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid rental id")
		return
	}
	var req resolveDisputeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.disputes.ResolveDispute(r.Context(), rentalID, userIDFromContext(r.Context()),
		req.Decision, req.RefundCents, req.OwnerCompensationCents)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"resolved": true})
}

func (h *DisputeHandler) GetDispute(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid rental id")
		return
	}
	dispute, err := h.disputes.GetDispute(r.Context(), rentalID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, dispute)
}
