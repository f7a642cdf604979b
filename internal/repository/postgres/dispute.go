package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
)

type disputeRepository struct {
	db *sql.DB
}

func NewDisputeRepository(db *sql.DB) repository.DisputeRepository {
	return &disputeRepository{db: db}
}

const disputeColumns = `id, rental_id, status, initiated_by, initiator_id, reason, evidence, initiated_at,
	moderator_id, COALESCE(decision, ''), refund_amount_cents, owner_compensation_cents, resolved_at`

func scanDispute(row interface{ Scan(...any) error }) (*domain.Dispute, error) {
	d := &domain.Dispute{}
	var evidence pq.StringArray
	err := row.Scan(&d.ID, &d.RentalID, &d.Status, &d.InitiatedBy, &d.InitiatorID, &d.Reason, &evidence,
		&d.InitiatedAt, &d.ModeratorID, &d.Decision, &d.RefundAmountCents, &d.OwnerCompensationCents,
		&d.ResolvedAt)
	if err != nil {
		return nil, err
	}
	d.Evidence = []string(evidence)
	return d, nil
}

// Create relies on the partial unique index on rentals with a non-resolved
// dispute; a second open dispute surfaces as ErrDisputeAlreadyOpen even
// when two writers race.
func (r *disputeRepository) Create(ctx context.Context, d *domain.Dispute) error {
	logger.EnterMethod("disputeRepository.Create", "rentalID", d.RentalID, "initiatedBy", d.InitiatedBy)

	query := `INSERT INTO disputes (rental_id, status, initiated_by, initiator_id, reason, evidence, initiated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if d.InitiatedAt.IsZero() {
		d.InitiatedAt = time.Now()
	}
	err := run(ctx, r.db).QueryRowContext(ctx, query,
		d.RentalID, d.Status, d.InitiatedBy, d.InitiatorID, d.Reason, pq.Array(d.Evidence), d.InitiatedAt,
	).Scan(&d.ID)

	if err != nil {
		if isUniqueViolation(err) {
			logger.ExitMethodWithError("disputeRepository.Create", domain.ErrDisputeAlreadyOpen, "rentalID", d.RentalID)
			return domain.ErrDisputeAlreadyOpen
		}
		logger.ExitMethodWithError("disputeRepository.Create", err, "rentalID", d.RentalID)
		return err
	}
	logger.ExitMethod("disputeRepository.Create", "disputeID", d.ID)
	return nil
}

func (r *disputeRepository) GetByID(ctx context.Context, id int32) (*domain.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE id = $1`
	d, err := scanDispute(run(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrDisputeNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *disputeRepository) GetOpenByRental(ctx context.Context, rentalID int32) (*domain.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE rental_id = $1 AND status <> $2`
	d, err := scanDispute(run(ctx, r.db).QueryRowContext(ctx, query, rentalID, domain.DisputeStatusResolved))
	if err == sql.ErrNoRows {
		return nil, domain.ErrDisputeNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Resolve is a compare-and-swap on the non-resolved status so a dispute
// can be resolved exactly once.
func (r *disputeRepository) Resolve(ctx context.Context, disputeID, moderatorID int32, decision string, refundCents, ownerCompCents int32, now time.Time) error {
	logger.EnterMethod("disputeRepository.Resolve", "disputeID", disputeID, "moderatorID", moderatorID)

	query := `UPDATE disputes SET status = $2, moderator_id = $3, decision = $4,
	            refund_amount_cents = $5, owner_compensation_cents = $6, resolved_at = $7
	          WHERE id = $1 AND status <> $2`
	res, err := run(ctx, r.db).ExecContext(ctx, query,
		disputeID, domain.DisputeStatusResolved, moderatorID, decision, refundCents, ownerCompCents, now)
	if err != nil {
		logger.ExitMethodWithError("disputeRepository.Resolve", err, "disputeID", disputeID)
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		logger.ExitMethodWithError("disputeRepository.Resolve", domain.ErrInvalidState, "disputeID", disputeID)
		return domain.ErrInvalidState
	}
	logger.ExitMethod("disputeRepository.Resolve", "disputeID", disputeID)
	return nil
}

func (r *disputeRepository) ListByRental(ctx context.Context, rentalID int32) ([]domain.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE rental_id = $1 ORDER BY initiated_at ASC`
	rows, err := run(ctx, r.db).QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var disputes []domain.Dispute
	for rows.Next() {
		d, err := scanDispute(rows)
		if err != nil {
			return nil, err
		}
		disputes = append(disputes, *d)
	}
	return disputes, rows.Err()
}
