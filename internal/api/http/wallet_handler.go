package http

import (
	"net/http"

	"renthub-backend/internal/service"
)

// WalletHandler serves the ledger read model.
type WalletHandler struct {
	wallet service.WalletService
}

func NewWalletHandler(wallet service.WalletService) *WalletHandler {
	return &WalletHandler{wallet: wallet}
}

func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.wallet.GetWalletBalance(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, balance)
}

func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	transactions, total, err := h.wallet.GetTransactions(r.Context(), userIDFromContext(r.Context()), page, pageSize)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"transactions": transactions,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
	})
}
