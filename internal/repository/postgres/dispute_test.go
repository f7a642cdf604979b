package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"renthub-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDisputeRepo(t *testing.T) (*disputeRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &disputeRepository{db: db}, mock
}

func TestDisputeRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock := newDisputeRepo(t)

		mock.ExpectQuery("INSERT INTO disputes").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int32(4)))

		d := &domain.Dispute{
			RentalID:    1,
			Status:      domain.DisputeStatusOpen,
			InitiatedBy: domain.RentalPartyRenter,
			InitiatorID: 10,
			Reason:      "item returned damaged",
			Evidence:    []string{"photo-1.jpg"},
		}
		err := repo.Create(ctx, d)
		assert.NoError(t, err)
		assert.Equal(t, int32(4), d.ID)
		assert.False(t, d.InitiatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SecondOpenDisputeMapsUniqueViolation", func(t *testing.T) {
		repo, mock := newDisputeRepo(t)

		mock.ExpectQuery("INSERT INTO disputes").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "idx_disputes_one_open"})

		d := &domain.Dispute{RentalID: 1, Status: domain.DisputeStatusOpen, InitiatorID: 10, Reason: "again"}
		err := repo.Create(ctx, d)
		assert.ErrorIs(t, err, domain.ErrDisputeAlreadyOpen)
	})
}

func TestDisputeRepository_GetOpenByRental(t *testing.T) {
	ctx := context.Background()

	t.Run("NoneOpen", func(t *testing.T) {
		repo, mock := newDisputeRepo(t)

		mock.ExpectQuery("FROM disputes WHERE rental_id").
			WithArgs(int32(1), string(domain.DisputeStatusResolved)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetOpenByRental(ctx, 1)
		assert.ErrorIs(t, err, domain.ErrDisputeNotFound)
	})

	t.Run("ScansEvidenceArray", func(t *testing.T) {
		repo, mock := newDisputeRepo(t)
		now := time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)

		cols := []string{"id", "rental_id", "status", "initiated_by", "initiator_id", "reason", "evidence",
			"initiated_at", "moderator_id", "decision", "refund_amount_cents", "owner_compensation_cents", "resolved_at"}
		mock.ExpectQuery("FROM disputes WHERE rental_id").
			WithArgs(int32(1), string(domain.DisputeStatusResolved)).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(
				int32(4), int32(1), string(domain.DisputeStatusOpen), string(domain.RentalPartyRenter), int32(10),
				"item returned damaged", `{"photo-1.jpg","photo-2.jpg"}`,
				now, nil, "", int32(0), int32(0), nil))

		d, err := repo.GetOpenByRental(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, []string{"photo-1.jpg", "photo-2.jpg"}, d.Evidence)
		assert.Equal(t, domain.DisputeStatusOpen, d.Status)
	})
}

func TestDisputeRepository_Resolve(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		repo, mock := newDisputeRepo(t)

		mock.ExpectExec("UPDATE disputes SET status").
			WithArgs(int32(4), string(domain.DisputeStatusResolved), int32(30), "partial refund",
				int32(3000), int32(2000), now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Resolve(ctx, 4, 30, "partial refund", 3000, 2000, now)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AlreadyResolved", func(t *testing.T) {
		repo, mock := newDisputeRepo(t)

		mock.ExpectExec("UPDATE disputes SET status").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Resolve(ctx, 4, 30, "partial refund", 3000, 2000, now)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}
