package postgres

import (
	"context"
	"database/sql"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
)

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) CreateTransaction(ctx context.Context, tx *domain.WalletTransaction) error {
	logger.EnterMethod("ledgerRepository.CreateTransaction", "userID", tx.UserID, "type", tx.Type, "amountCents", tx.AmountCents)

	query := `INSERT INTO ledger_transactions (reference, user_id, type, amount_cents, currency, status,
	            availability_status, related_rental_id, related_item_id, net_amount_cents, description,
	            created_on, processed_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	now := time.Now()
	if tx.CreatedOn.IsZero() {
		tx.CreatedOn = now
	}
	if tx.Status == domain.TransactionStatusCompleted && tx.ProcessedOn == nil {
		tx.ProcessedOn = &now
	}
	err := run(ctx, r.db).QueryRowContext(ctx, query,
		tx.Reference, tx.UserID, tx.Type, tx.AmountCents, tx.Currency, tx.Status,
		tx.Availability, tx.RelatedRentalID, tx.RelatedItemID, tx.NetAmountCents, tx.Description,
		tx.CreatedOn, tx.ProcessedOn,
	).Scan(&tx.ID)

	if err != nil {
		logger.ExitMethodWithError("ledgerRepository.CreateTransaction", err, "userID", tx.UserID)
		return err
	}
	logger.ExitMethod("ledgerRepository.CreateTransaction", "transactionID", tx.ID)
	return nil
}

// GetWalletBalance recomputes the balance buckets from the ledger on every
// call. Only completed credits count; a missing availability status is
// treated as AVAILABLE for entries that predate the custody buckets.
func (r *ledgerRepository) GetWalletBalance(ctx context.Context, userID int32) (*domain.WalletBalance, error) {
	query := `SELECT
	            COALESCE(SUM(amount_cents) FILTER (WHERE COALESCE(availability_status, 'AVAILABLE') = 'AVAILABLE'), 0),
	            COALESCE(SUM(amount_cents) FILTER (WHERE availability_status = 'PENDING'), 0),
	            COALESCE(SUM(amount_cents) FILTER (WHERE availability_status = 'LOCKED'), 0),
	            COALESCE(MAX(currency), '')
	          FROM ledger_transactions
	          WHERE user_id = $1 AND status = $2 AND amount_cents > 0`

	bal := &domain.WalletBalance{}
	err := run(ctx, r.db).QueryRowContext(ctx, query, userID, domain.TransactionStatusCompleted).
		Scan(&bal.AvailableCents, &bal.PendingCents, &bal.LockedCents, &bal.Currency)
	if err != nil {
		return nil, err
	}
	bal.TotalCents = bal.AvailableCents + bal.PendingCents + bal.LockedCents
	return bal, nil
}

func (r *ledgerRepository) ListTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, reference, user_id, type, amount_cents, currency, status, availability_status,
	            related_rental_id, related_item_id, net_amount_cents, COALESCE(description, ''),
	            created_on, processed_on
	          FROM ledger_transactions WHERE user_id = $1
	          ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := run(ctx, r.db).QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var count int32
	countQuery := `SELECT count(*) FROM ledger_transactions WHERE user_id = $1`
	if err := run(ctx, r.db).QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	var txs []domain.WalletTransaction
	for rows.Next() {
		var tx domain.WalletTransaction
		if err := rows.Scan(&tx.ID, &tx.Reference, &tx.UserID, &tx.Type, &tx.AmountCents, &tx.Currency,
			&tx.Status, &tx.Availability, &tx.RelatedRentalID, &tx.RelatedItemID, &tx.NetAmountCents,
			&tx.Description, &tx.CreatedOn, &tx.ProcessedOn); err != nil {
			return nil, 0, err
		}
		txs = append(txs, tx)
	}
	return txs, count, rows.Err()
}

// ReleasePending is forward-only: PENDING -> AVAILABLE, never backward.
func (r *ledgerRepository) ReleasePending(ctx context.Context, before time.Time) ([]int32, error) {
	logger.EnterMethod("ledgerRepository.ReleasePending", "before", before)

	query := `UPDATE ledger_transactions
	          SET availability_status = $1, processed_on = COALESCE(processed_on, $2)
	          WHERE availability_status = $3 AND status = $4 AND amount_cents > 0 AND created_on < $5
	          RETURNING user_id`
	rows, err := run(ctx, r.db).QueryContext(ctx, query,
		domain.AvailabilityAvailable, time.Now(), domain.AvailabilityPending,
		domain.TransactionStatusCompleted, before)
	if err != nil {
		logger.ExitMethodWithError("ledgerRepository.ReleasePending", err)
		return nil, err
	}
	defer rows.Close()

	var userIDs []int32
	for rows.Next() {
		var userID int32
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.ExitMethod("ledgerRepository.ReleasePending", "released", len(userIDs))
	return userIDs, nil
}

func (r *ledgerRepository) IncrementBalance(ctx context.Context, userID int32, deltaCents int64) error {
	query := `UPDATE users SET balance_cents = balance_cents + $2, last_balance_update_on = $3
	          WHERE id = $1`
	res, err := run(ctx, r.db).ExecContext(ctx, query, userID, deltaCents, time.Now())
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
