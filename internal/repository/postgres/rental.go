package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, owner_id, renter_id, item_id, status,
	requested_start, requested_end, confirmed_start, confirmed_end, actual_start, actual_end,
	daily_rate_cents, subtotal_cents, platform_fee_cents, security_deposit_cents, total_cents, currency,
	renter_confirmed, renter_confirmed_at, owner_confirmed, owner_confirmed_at,
	created_on, updated_on`

func scanRental(row interface{ Scan(...any) error }) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := row.Scan(
		&rt.ID, &rt.OwnerID, &rt.RenterID, &rt.ItemID, &rt.Status,
		&rt.RequestedStart, &rt.RequestedEnd, &rt.ConfirmedStart, &rt.ConfirmedEnd, &rt.ActualStart, &rt.ActualEnd,
		&rt.Pricing.DailyRateCents, &rt.Pricing.SubtotalCents, &rt.Pricing.PlatformFeeCents,
		&rt.Pricing.SecurityDepositCents, &rt.Pricing.TotalCents, &rt.Pricing.Currency,
		&rt.Handover.RenterConfirmed, &rt.Handover.RenterConfirmedAt,
		&rt.Handover.OwnerConfirmed, &rt.Handover.OwnerConfirmedAt,
		&rt.CreatedOn, &rt.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (owner_id, renter_id, item_id, status,
	            requested_start, requested_end,
	            daily_rate_cents, subtotal_cents, platform_fee_cents, security_deposit_cents, total_cents, currency,
	            created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13) RETURNING id`
	now := time.Now()
	return run(ctx, r.db).QueryRowContext(ctx, query,
		rt.OwnerID, rt.RenterID, rt.ItemID, rt.Status,
		rt.RequestedStart, rt.RequestedEnd,
		rt.Pricing.DailyRateCents, rt.Pricing.SubtotalCents, rt.Pricing.PlatformFeeCents,
		rt.Pricing.SecurityDepositCents, rt.Pricing.TotalCents, rt.Pricing.Currency,
		now,
	).Scan(&rt.ID)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(run(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrRentalNotFound
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func handoverColumns(party domain.RentalParty) (own, other string) {
	if party == domain.RentalPartyRenter {
		return "renter_confirmed", "owner_confirmed"
	}
	return "owner_confirmed", "renter_confirmed"
}

func (r *rentalRepository) ConfirmHandover(ctx context.Context, rentalID int32, party domain.RentalParty, now time.Time) (bool, error) {
	own, other := handoverColumns(party)

	// Single compare-and-swap: the WHERE clause is the precondition, and
	// activation happens in the same statement when the other party has
	// already confirmed. Two racing confirmations from the same party can
	// never both match the flag check.
	query := fmt.Sprintf(`UPDATE rentals SET
	            %[1]s = TRUE,
	            %[1]s_at = $2,
	            status = CASE WHEN %[2]s THEN '%[3]s' ELSE status END,
	            actual_start = CASE WHEN %[2]s THEN $2 ELSE actual_start END,
	            updated_on = $2
	          WHERE id = $1 AND status = '%[4]s' AND %[1]s = FALSE
	          RETURNING %[2]s`,
		own, other, domain.RentalStatusActive, domain.RentalStatusAwaitingHandover)

	var bothConfirmed bool
	err := run(ctx, r.db).QueryRowContext(ctx, query, rentalID, now).Scan(&bothConfirmed)
	if err == sql.ErrNoRows {
		return false, r.classifyConfirmMiss(ctx, rentalID, own)
	}
	if err != nil {
		return false, err
	}
	return bothConfirmed, nil
}

// classifyConfirmMiss maps a failed handover CAS to the precise domain
// error by re-reading the row inside the same transaction.
func (r *rentalRepository) classifyConfirmMiss(ctx context.Context, rentalID int32, ownColumn string) error {
	query := fmt.Sprintf(`SELECT status, %s FROM rentals WHERE id = $1`, ownColumn)
	var status domain.RentalStatus
	var confirmed bool
	err := run(ctx, r.db).QueryRowContext(ctx, query, rentalID).Scan(&status, &confirmed)
	if err == sql.ErrNoRows {
		return domain.ErrRentalNotFound
	}
	if err != nil {
		return err
	}
	if confirmed {
		return domain.ErrAlreadyConfirmed
	}
	return domain.ErrInvalidState
}

func (r *rentalRepository) MarkAwaitingHandover(ctx context.Context, rentalID int32) error {
	query := `UPDATE rentals SET status = $2,
	            confirmed_start = requested_start, confirmed_end = requested_end,
	            updated_on = $3
	          WHERE id = $1 AND status = $4`
	return r.casStatus(ctx, query, rentalID, domain.RentalStatusAwaitingHandover)
}

func (r *rentalRepository) MarkCancelled(ctx context.Context, rentalID int32) error {
	query := `UPDATE rentals SET status = $2, updated_on = $3 WHERE id = $1 AND status = $4`
	return r.casStatus(ctx, query, rentalID, domain.RentalStatusCancelled)
}

// casStatus runs an APPROVED-gated status update and maps a zero-row
// result to the right domain error.
func (r *rentalRepository) casStatus(ctx context.Context, query string, rentalID int32, to domain.RentalStatus) error {
	res, err := run(ctx, r.db).ExecContext(ctx, query, rentalID, to, time.Now(), domain.RentalStatusApproved)
	if err != nil {
		return err
	}
	return r.mapNoRows(ctx, res, rentalID)
}

func (r *rentalRepository) MarkDisputed(ctx context.Context, rentalID int32) error {
	query := `UPDATE rentals SET status = $2, updated_on = $3
	          WHERE id = $1 AND status IN ($4, $5)`
	res, err := run(ctx, r.db).ExecContext(ctx, query, rentalID, domain.RentalStatusDisputed, time.Now(),
		domain.RentalStatusActive, domain.RentalStatusCompleted)
	if err != nil {
		return err
	}
	return r.mapNoRows(ctx, res, rentalID)
}

func (r *rentalRepository) CompleteFromDispute(ctx context.Context, rentalID int32, now time.Time) error {
	query := `UPDATE rentals SET status = $2,
	            actual_end = COALESCE(actual_end, $3), updated_on = $3
	          WHERE id = $1 AND status = $4`
	res, err := run(ctx, r.db).ExecContext(ctx, query, rentalID, domain.RentalStatusCompleted, now,
		domain.RentalStatusDisputed)
	if err != nil {
		return err
	}
	return r.mapNoRows(ctx, res, rentalID)
}

func (r *rentalRepository) mapNoRows(ctx context.Context, res sql.Result, rentalID int32) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}
	var exists bool
	if err := run(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM rentals WHERE id = $1)`, rentalID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrRentalNotFound
	}
	return domain.ErrInvalidState
}

func (r *rentalRepository) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return r.list(ctx, "renter_id", renterID, status, page, pageSize)
}

func (r *rentalRepository) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return r.list(ctx, "owner_id", ownerID, status, page, pageSize)
}

func (r *rentalRepository) list(ctx context.Context, partyColumn string, userID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE ` + partyColumn + ` = $1`

	args := []any{userID}
	argIdx := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := run(ctx, r.db).QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := run(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, 0, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, count, rows.Err()
}

func (r *rentalRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	logger.DatabaseCall("SELECT", "rentals overdue", "asOf", asOf)
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE status = $1 AND confirmed_end IS NOT NULL AND confirmed_end < $2
	          ORDER BY confirmed_end ASC`
	rows, err := run(ctx, r.db).QueryContext(ctx, query, domain.RentalStatusActive, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}
