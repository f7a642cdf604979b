package postgres

import (
	"context"
	"database/sql"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
)

type depositRepository struct {
	db *sql.DB
}

func NewDepositRepository(db *sql.DB) repository.DepositRepository {
	return &depositRepository{db: db}
}

func (r *depositRepository) Create(ctx context.Context, d *domain.Deposit) error {
	query := `INSERT INTO deposits (rental_id, user_id, amount_cents, currency, status, reason, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id`
	now := time.Now()
	return run(ctx, r.db).QueryRowContext(ctx, query,
		d.RentalID, d.UserID, d.AmountCents, d.Currency, d.Status, d.Reason, now,
	).Scan(&d.ID)
}

func (r *depositRepository) GetByID(ctx context.Context, id int32) (*domain.Deposit, error) {
	query := `SELECT id, rental_id, user_id, amount_cents, currency, status, COALESCE(reason, ''), created_on, updated_on
	          FROM deposits WHERE id = $1`
	d := &domain.Deposit{}
	err := run(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.RentalID, &d.UserID, &d.AmountCents, &d.Currency, &d.Status, &d.Reason,
		&d.CreatedOn, &d.UpdatedOn)
	if err == sql.ErrNoRows {
		return nil, domain.ErrDepositNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Hold has no prior-state precondition: an admin can (re)hold a deposit
// in any state. No funds move here.
func (r *depositRepository) Hold(ctx context.Context, depositID int32, reason string) error {
	logger.EnterMethod("depositRepository.Hold", "depositID", depositID)

	query := `UPDATE deposits SET status = $2, reason = $3, updated_on = $4 WHERE id = $1`
	res, err := run(ctx, r.db).ExecContext(ctx, query, depositID, domain.DepositStatusHeld, reason, time.Now())
	if err != nil {
		logger.ExitMethodWithError("depositRepository.Hold", err, "depositID", depositID)
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrDepositNotFound
	}
	logger.ExitMethod("depositRepository.Hold", "depositID", depositID)
	return nil
}

// Transition moves a deposit out of custody exactly once: the WHERE
// clause demands the HELD state, so concurrent releases cannot both win.
func (r *depositRepository) Transition(ctx context.Context, depositID int32, to domain.DepositStatus, reason string) error {
	logger.EnterMethod("depositRepository.Transition", "depositID", depositID, "to", to)

	query := `UPDATE deposits SET status = $2, reason = $3, updated_on = $4
	          WHERE id = $1 AND status = $5`
	res, err := run(ctx, r.db).ExecContext(ctx, query, depositID, to, reason, time.Now(), domain.DepositStatusHeld)
	if err != nil {
		logger.ExitMethodWithError("depositRepository.Transition", err, "depositID", depositID)
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var exists bool
		if err := run(ctx, r.db).QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM deposits WHERE id = $1)`, depositID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrDepositNotFound
		}
		return domain.ErrInvalidState
	}
	logger.ExitMethod("depositRepository.Transition", "depositID", depositID, "to", to)
	return nil
}
