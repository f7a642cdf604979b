package service

import (
	"context"
	"time"

	"renthub-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// fakeTxManager runs the callback inline so service tests exercise the
// same code path as a committed transaction.
type fakeTxManager struct {
	err error
}

func (f *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ConfirmHandover(ctx context.Context, rentalID int32, party domain.RentalParty, now time.Time) (bool, error) {
	args := m.Called(ctx, rentalID, party, now)
	return args.Bool(0), args.Error(1)
}
func (m *MockRentalRepo) MarkAwaitingHandover(ctx context.Context, rentalID int32) error {
	args := m.Called(ctx, rentalID)
	return args.Error(0)
}
func (m *MockRentalRepo) MarkCancelled(ctx context.Context, rentalID int32) error {
	args := m.Called(ctx, rentalID)
	return args.Error(0)
}
func (m *MockRentalRepo) MarkDisputed(ctx context.Context, rentalID int32) error {
	args := m.Called(ctx, rentalID)
	return args.Error(0)
}
func (m *MockRentalRepo) CompleteFromDispute(ctx context.Context, rentalID int32, now time.Time) error {
	args := m.Called(ctx, rentalID, now)
	return args.Error(0)
}
func (m *MockRentalRepo) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, renterID, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, ownerID, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

// MockLedgerRepo
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) CreateTransaction(ctx context.Context, tx *domain.WalletTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockLedgerRepo) GetWalletBalance(ctx context.Context, userID int32) (*domain.WalletBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletBalance), args.Error(1)
}
func (m *MockLedgerRepo) ListTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.WalletTransaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockLedgerRepo) ReleasePending(ctx context.Context, before time.Time) ([]int32, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]int32), args.Error(1)
}
func (m *MockLedgerRepo) IncrementBalance(ctx context.Context, userID int32, deltaCents int64) error {
	args := m.Called(ctx, userID, deltaCents)
	return args.Error(0)
}

// MockDisputeRepo
type MockDisputeRepo struct {
	mock.Mock
}

func (m *MockDisputeRepo) Create(ctx context.Context, d *domain.Dispute) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDisputeRepo) GetByID(ctx context.Context, id int32) (*domain.Dispute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dispute), args.Error(1)
}
func (m *MockDisputeRepo) GetOpenByRental(ctx context.Context, rentalID int32) (*domain.Dispute, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dispute), args.Error(1)
}
func (m *MockDisputeRepo) Resolve(ctx context.Context, disputeID, moderatorID int32, decision string, refundCents, ownerCompCents int32, now time.Time) error {
	args := m.Called(ctx, disputeID, moderatorID, decision, refundCents, ownerCompCents, now)
	return args.Error(0)
}
func (m *MockDisputeRepo) ListByRental(ctx context.Context, rentalID int32) ([]domain.Dispute, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.Dispute), args.Error(1)
}

// MockDepositRepo
type MockDepositRepo struct {
	mock.Mock
}

func (m *MockDepositRepo) Create(ctx context.Context, d *domain.Deposit) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDepositRepo) GetByID(ctx context.Context, id int32) (*domain.Deposit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deposit), args.Error(1)
}
func (m *MockDepositRepo) Hold(ctx context.Context, depositID int32, reason string) error {
	args := m.Called(ctx, depositID, reason)
	return args.Error(0)
}
func (m *MockDepositRepo) Transition(ctx context.Context, depositID int32, to domain.DepositStatus, reason string) error {
	args := m.Called(ctx, depositID, to, reason)
	return args.Error(0)
}

// MockTimelineRepo
type MockTimelineRepo struct {
	mock.Mock
}

func (m *MockTimelineRepo) Append(ctx context.Context, rentalID int32, event string, actorID int32, details map[string]string) error {
	args := m.Called(ctx, rentalID, event, actorID, details)
	return args.Error(0)
}
func (m *MockTimelineRepo) ListByRental(ctx context.Context, rentalID int32) ([]domain.TimelineEvent, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.TimelineEvent), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// recordingNotifier captures dispatches synchronously for assertions.
type recordingNotifier struct {
	calls []dispatchCall
}

type dispatchCall struct {
	userID    int32
	eventKind string
	payload   map[string]string
}

func (r *recordingNotifier) Dispatch(userID int32, eventKind string, payload map[string]string) {
	r.calls = append(r.calls, dispatchCall{userID: userID, eventKind: eventKind, payload: payload})
}

func (r *recordingNotifier) kinds() []string {
	var out []string
	for _, c := range r.calls {
		out = append(out, c.eventKind)
	}
	return out
}
