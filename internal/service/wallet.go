package service

import (
	"context"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/repository"
)

type walletService struct {
	ledgerRepo      repository.LedgerRepository
	defaultCurrency string
}

func NewWalletService(ledgerRepo repository.LedgerRepository, defaultCurrency string) WalletService {
	return &walletService{ledgerRepo: ledgerRepo, defaultCurrency: defaultCurrency}
}

// GetWalletBalance recomputes the breakdown from the ledger on every
// call. The cached users.balance_cents counter is never read here.
func (s *walletService) GetWalletBalance(ctx context.Context, userID int32) (*domain.WalletBalance, error) {
	bal, err := s.ledgerRepo.GetWalletBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bal.Currency == "" {
		bal.Currency = s.defaultCurrency
	}
	return bal, nil
}

func (s *walletService) GetTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	return s.ledgerRepo.ListTransactions(ctx, userID, page, pageSize)
}
