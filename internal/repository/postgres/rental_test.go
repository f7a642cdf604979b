package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"renthub-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRentalRepo(t *testing.T) (*rentalRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &rentalRepository{db: db}, mock
}

func TestRentalRepository_ConfirmHandover(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("FirstConfirmation", func(t *testing.T) {
		repo, mock := newRentalRepo(t)

		mock.ExpectQuery("UPDATE rentals SET").
			WithArgs(int32(1), now).
			WillReturnRows(sqlmock.NewRows([]string{"owner_confirmed"}).AddRow(false))

		both, err := repo.ConfirmHandover(ctx, 1, domain.RentalPartyRenter, now)
		assert.NoError(t, err)
		assert.False(t, both)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SecondConfirmationReportsActivation", func(t *testing.T) {
		repo, mock := newRentalRepo(t)

		mock.ExpectQuery("UPDATE rentals SET").
			WithArgs(int32(1), now).
			WillReturnRows(sqlmock.NewRows([]string{"renter_confirmed"}).AddRow(true))

		both, err := repo.ConfirmHandover(ctx, 1, domain.RentalPartyOwner, now)
		assert.NoError(t, err)
		assert.True(t, both)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateConfirmation", func(t *testing.T) {
		repo, mock := newRentalRepo(t)

		mock.ExpectQuery("UPDATE rentals SET").
			WithArgs(int32(1), now).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT status, renter_confirmed FROM rentals").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"status", "renter_confirmed"}).
				AddRow(string(domain.RentalStatusAwaitingHandover), true))

		_, err := repo.ConfirmHandover(ctx, 1, domain.RentalPartyRenter, now)
		assert.ErrorIs(t, err, domain.ErrAlreadyConfirmed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("WrongStatus", func(t *testing.T) {
		repo, mock := newRentalRepo(t)

		mock.ExpectQuery("UPDATE rentals SET").
			WithArgs(int32(1), now).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT status, owner_confirmed FROM rentals").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"status", "owner_confirmed"}).
				AddRow(string(domain.RentalStatusCompleted), false))

		_, err := repo.ConfirmHandover(ctx, 1, domain.RentalPartyOwner, now)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MissingRental", func(t *testing.T) {
		repo, mock := newRentalRepo(t)

		mock.ExpectQuery("UPDATE rentals SET").
			WithArgs(int32(99), now).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT status, renter_confirmed FROM rentals").
			WithArgs(int32(99)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.ConfirmHandover(ctx, 99, domain.RentalPartyRenter, now)
		assert.ErrorIs(t, err, domain.ErrRentalNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentalRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("ScansFullRow", func(t *testing.T) {
		repo, mock := newRentalRepo(t)

		cols := []string{"id", "owner_id", "renter_id", "item_id", "status",
			"requested_start", "requested_end", "confirmed_start", "confirmed_end", "actual_start", "actual_end",
			"daily_rate_cents", "subtotal_cents", "platform_fee_cents", "security_deposit_cents", "total_cents", "currency",
			"renter_confirmed", "renter_confirmed_at", "owner_confirmed", "owner_confirmed_at",
			"created_on", "updated_on"}
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(
				int32(1), int32(20), int32(10), int32(5), string(domain.RentalStatusAwaitingHandover),
				now, now.AddDate(0, 0, 4), now, now.AddDate(0, 0, 4), nil, nil,
				int32(1000), int32(5000), int32(500), int32(5000), int32(10500), "USD",
				true, now, false, nil,
				now, now))

		rt, err := repo.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, int32(20), rt.OwnerID)
		assert.Equal(t, domain.RentalStatusAwaitingHandover, rt.Status)
		assert.True(t, rt.Handover.RenterConfirmed)
		assert.Nil(t, rt.Handover.OwnerConfirmedAt)
		assert.Equal(t, int32(10500), rt.Pricing.TotalCents)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mock := newRentalRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id").
			WithArgs(int32(99)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrRentalNotFound)
	})
}

func TestRentalRepository_StatusTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("MarkAwaitingHandover", func(t *testing.T) {
		repo, mock := newRentalRepo(t)

		mock.ExpectExec("UPDATE rentals SET status").
			WithArgs(int32(1), string(domain.RentalStatusAwaitingHandover), sqlmock.AnyArg(), string(domain.RentalStatusApproved)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkAwaitingHandover(ctx, 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MarkDisputedWrongState", func(t *testing.T) {
		repo, mock := newRentalRepo(t)

		mock.ExpectExec("UPDATE rentals SET status").
			WithArgs(int32(1), string(domain.RentalStatusDisputed), sqlmock.AnyArg(),
				string(domain.RentalStatusActive), string(domain.RentalStatusCompleted)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		assert.ErrorIs(t, repo.MarkDisputed(ctx, 1), domain.ErrInvalidState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MarkCancelledMissingRental", func(t *testing.T) {
		repo, mock := newRentalRepo(t)

		mock.ExpectExec("UPDATE rentals SET status").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		assert.ErrorIs(t, repo.MarkCancelled(ctx, 99), domain.ErrRentalNotFound)
	})

	t.Run("CompleteFromDispute", func(t *testing.T) {
		repo, mock := newRentalRepo(t)
		now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

		mock.ExpectExec("UPDATE rentals SET status").
			WithArgs(int32(1), string(domain.RentalStatusCompleted), now, string(domain.RentalStatusDisputed)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.CompleteFromDispute(ctx, 1, now))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
