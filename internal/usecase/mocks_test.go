//go:build unit

package usecase_test

import (
	"context"
	"time"

	"vialmedia/internal/domain/notification"
	"vialmedia/internal/domain/pricing"
	"vialmedia/internal/domain/quotation"
	"vialmedia/internal/domain/rental"
	"vialmedia/internal/domain/support"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// stubTxRunner executes the transactional section directly with a nil tx, so
// repository mocks see exactly the calls the real transaction would make.
type stubTxRunner struct{}

func (stubTxRunner) RunInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type mockQuotationRepo struct {
	mock.Mock
}

func (m *mockQuotationRepo) FindByID(ctx context.Context, id uuid.UUID) (*quotation.Quotation, error) {
	args := m.Called(ctx, id)
	if q := args.Get(0); q != nil {
		return q.(*quotation.Quotation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockQuotationRepo) ListLines(ctx context.Context, quotationID uuid.UUID) ([]quotation.Line, error) {
	args := m.Called(ctx, quotationID)
	if l := args.Get(0); l != nil {
		return l.([]quotation.Line), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSupportRepo struct {
	mock.Mock
}

func (m *mockSupportRepo) FindByID(ctx context.Context, id uuid.UUID) (*support.Support, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*support.Support), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSupportRepo) FindByCode(ctx context.Context, code string) (*support.Support, error) {
	args := m.Called(ctx, code)
	if s := args.Get(0); s != nil {
		return s.(*support.Support), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSupportRepo) ListAll(ctx context.Context) ([]support.Support, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.([]support.Support), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSupportRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status support.Status) error {
	args := m.Called(ctx, tx, id, status)
	return args.Error(0)
}

type mockRentalRepo struct {
	mock.Mock
}

func (m *mockRentalRepo) FindByID(ctx context.Context, id uuid.UUID) (*rental.Rental, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*rental.Rental), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRentalRepo) NextCode(ctx context.Context, tx pgx.Tx) (string, error) {
	args := m.Called(ctx, tx)
	return args.String(0), args.Error(1)
}

func (m *mockRentalRepo) Create(ctx context.Context, tx pgx.Tx, r *rental.Rental) error {
	args := m.Called(ctx, tx, r)
	return args.Error(0)
}

func (m *mockRentalRepo) Cancel(ctx context.Context, tx pgx.Tx, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, tx, id, at)
	return args.Error(0)
}

func (m *mockRentalRepo) ListActiveBySupportForUpdate(ctx context.Context, tx pgx.Tx, supportID uuid.UUID) ([]rental.Rental, error) {
	args := m.Called(ctx, tx, supportID)
	if r := args.Get(0); r != nil {
		return r.([]rental.Rental), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRentalRepo) ListActiveBySupport(ctx context.Context, supportID uuid.UUID) ([]rental.Rental, error) {
	args := m.Called(ctx, supportID)
	if r := args.Get(0); r != nil {
		return r.([]rental.Rental), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRentalRepo) ListByQuotation(ctx context.Context, quotationID uuid.UUID) ([]rental.Rental, error) {
	args := m.Called(ctx, quotationID)
	if r := args.Get(0); r != nil {
		return r.([]rental.Rental), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRentalRepo) ListActive(ctx context.Context) ([]rental.Rental, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.([]rental.Rental), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRentalRepo) List(ctx context.Context, status rental.Status, supportCode string) ([]rental.Rental, error) {
	args := m.Called(ctx, status, supportCode)
	if r := args.Get(0); r != nil {
		return r.([]rental.Rental), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRentalRepo) ListEndingBetween(ctx context.Context, from, to time.Time) ([]rental.Rental, error) {
	args := m.Called(ctx, from, to)
	if r := args.Get(0); r != nil {
		return r.([]rental.Rental), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRentalRepo) ActiveDateRange(ctx context.Context) (time.Time, time.Time, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Time), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockRentalRepo) AppendHistory(ctx context.Context, tx pgx.Tx, event rental.HistoryEvent) error {
	args := m.Called(ctx, tx, event)
	return args.Error(0)
}

func (m *mockRentalRepo) ListHistory(ctx context.Context, rentalID uuid.UUID) ([]rental.HistoryEvent, error) {
	args := m.Called(ctx, rentalID)
	if e := args.Get(0); e != nil {
		return e.([]rental.HistoryEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) ListRecipe(ctx context.Context, productCode string) ([]pricing.RecipeItem, error) {
	args := m.Called(ctx, productCode)
	if r := args.Get(0); r != nil {
		return r.([]pricing.RecipeItem), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNotificationRepo struct {
	mock.Mock
}

func (m *mockNotificationRepo) ListEnabledCronTypes(ctx context.Context) ([]notification.Type, error) {
	args := m.Called(ctx)
	if t := args.Get(0); t != nil {
		return t.([]notification.Type), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationRepo) Exists(ctx context.Context, entityType string, entityID uuid.UUID, typeCode string) (bool, error) {
	args := m.Called(ctx, entityType, entityID, typeCode)
	return args.Bool(0), args.Error(1)
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
