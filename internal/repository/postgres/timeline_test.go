package postgres

import (
	"context"
	"testing"
	"time"

	"renthub-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTimelineRepo(t *testing.T) (*timelineRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &timelineRepository{db: db}, mock
}

func TestTimelineRepository_Append(t *testing.T) {
	ctx := context.Background()

	t.Run("WithDetails", func(t *testing.T) {
		repo, mock := newTimelineRepo(t)

		mock.ExpectExec("INSERT INTO rental_timeline").
			WithArgs(int32(1), domain.EventHandoverConfirmedByRenter, int32(10),
				[]byte(`{"gateway_ref":"gw-123"}`), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Append(ctx, 1, domain.EventHandoverConfirmedByRenter, 10, map[string]string{"gateway_ref": "gw-123"})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoDetailsInsertsNull", func(t *testing.T) {
		repo, mock := newTimelineRepo(t)

		mock.ExpectExec("INSERT INTO rental_timeline").
			WithArgs(int32(1), domain.EventRentalActivated, int32(20), nil, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(2, 1))

		err := repo.Append(ctx, 1, domain.EventRentalActivated, 20, nil)
		assert.NoError(t, err)
	})
}

func TestTimelineRepository_ListByRental(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	repo, mock := newTimelineRepo(t)

	cols := []string{"id", "rental_id", "seq", "event", "actor_id", "details", "created_on"}
	mock.ExpectQuery("FROM rental_timeline WHERE rental_id").
		WithArgs(int32(1)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int32(1), int32(1), int32(1), domain.EventPaymentCaptured, int32(10), []byte(`{"gateway_ref":"gw-123"}`), now).
			AddRow(int32(2), int32(1), int32(2), domain.EventHandoverConfirmedByRenter, int32(10), nil, now))

	events, err := repo.ListByRental(ctx, 1)
	assert.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, int32(1), events[0].Seq)
	assert.Equal(t, "gw-123", events[0].Details["gateway_ref"])
	assert.Nil(t, events[1].Details)
	assert.NoError(t, mock.ExpectationsWereMet())
}
