package postgres

import (
	"database/sql"

	"renthub-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.TxManager
	repository.RentalRepository
	repository.LedgerRepository
	repository.DisputeRepository
	repository.DepositRepository
	repository.TimelineRepository
	repository.NotificationRepository
	repository.UserRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		TxManager:              NewTxManager(db),
		RentalRepository:       NewRentalRepository(db),
		LedgerRepository:       NewLedgerRepository(db),
		DisputeRepository:      NewDisputeRepository(db),
		DepositRepository:      NewDepositRepository(db),
		TimelineRepository:     NewTimelineRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		UserRepository:         NewUserRepository(db),
	}
}
