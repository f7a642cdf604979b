package postgres

import (
	"context"
	"testing"

	"renthub-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDepositRepo(t *testing.T) (*depositRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &depositRepository{db: db}, mock
}

func TestDepositRepository_Transition(t *testing.T) {
	ctx := context.Background()

	t.Run("ReleasesHeldDeposit", func(t *testing.T) {
		repo, mock := newDepositRepo(t)

		mock.ExpectExec("UPDATE deposits SET status").
			WithArgs(int32(3), string(domain.DepositStatusReleased), "rental completed", sqlmock.AnyArg(),
				string(domain.DepositStatusHeld)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Transition(ctx, 3, domain.DepositStatusReleased, "rental completed")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SecondReleaseLosesCAS", func(t *testing.T) {
		repo, mock := newDepositRepo(t)

		mock.ExpectExec("UPDATE deposits SET status").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int32(3)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := repo.Transition(ctx, 3, domain.DepositStatusReleased, "again")
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MissingDeposit", func(t *testing.T) {
		repo, mock := newDepositRepo(t)

		mock.ExpectExec("UPDATE deposits SET status").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := repo.Transition(ctx, 99, domain.DepositStatusReleased, "done")
		assert.ErrorIs(t, err, domain.ErrDepositNotFound)
	})
}

func TestDepositRepository_Hold(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock := newDepositRepo(t)

		mock.ExpectExec("UPDATE deposits SET status").
			WithArgs(int32(3), string(domain.DepositStatusHeld), "damage claim pending", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Hold(ctx, 3, "damage claim pending"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MissingDeposit", func(t *testing.T) {
		repo, mock := newDepositRepo(t)

		mock.ExpectExec("UPDATE deposits SET status").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Hold(ctx, 99, "hold"), domain.ErrDepositNotFound)
	})
}

func TestDepositRepository_Create(t *testing.T) {
	ctx := context.Background()

	repo, mock := newDepositRepo(t)

	mock.ExpectQuery("INSERT INTO deposits").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int32(3)))

	d := &domain.Deposit{RentalID: 1, UserID: 10, AmountCents: 5000, Currency: "USD", Status: domain.DepositStatusHeld}
	err := repo.Create(ctx, d)
	assert.NoError(t, err)
	assert.Equal(t, int32(3), d.ID)
}
