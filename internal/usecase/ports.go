package usecase

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
)

type QuotationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*quotation.Quotation, error)
	ListLines(ctx context.Context, quotationID uuid.UUID) ([]quotation.Line, error)
}

type SupportRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*support.Support, error)
	FindByCode(ctx context.Context, code string) (*support.Support, error)
	ListAll(ctx context.Context) ([]support.Support, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status support.Status) error
}

type RentalRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*rental.Rental, error)
	NextCode(ctx context.Context, tx pgx.Tx) (string, error)
	Create(ctx context.Context, tx pgx.Tx, r *rental.Rental) error
	Cancel(ctx context.Context, tx pgx.Tx, id uuid.UUID, at time.Time) error

	// ListActiveBySupportForUpdate locks the support's active rentals for
	// the duration of the transaction so two conversions cannot race past
	// the overlap check.
	ListActiveBySupportForUpdate(ctx context.Context, tx pgx.Tx, supportID uuid.UUID) ([]rental.Rental, error)
	ListActiveBySupport(ctx context.Context, supportID uuid.UUID) ([]rental.Rental, error)
	ListByQuotation(ctx context.Context, quotationID uuid.UUID) ([]rental.Rental, error)
	ListActive(ctx context.Context) ([]rental.Rental, error)

	// List filters by status and support code; zero values mean no filter.
	List(ctx context.Context, status rental.Status, supportCode string) ([]rental.Rental, error)
	ListEndingBetween(ctx context.Context, from, to time.Time) ([]rental.Rental, error)
	ActiveDateRange(ctx context.Context) (start, end time.Time, err error)

	AppendHistory(ctx context.Context, tx pgx.Tx, event rental.HistoryEvent) error
	ListHistory(ctx context.Context, rentalID uuid.UUID) ([]rental.HistoryEvent, error)
}

type ProductRepository interface {
	// ListRecipe returns the recipe components of the catalog product with
	// the given code, empty when the product has no recipe.
	ListRecipe(ctx context.Context, productCode string) ([]pricing.RecipeItem, error)
}

type NotificationRepository interface {
	ListEnabledCronTypes(ctx context.Context) ([]notification.Type, error)
	Exists(ctx context.Context, entityType string, entityID uuid.UUID, typeCode string) (bool, error)
	Create(ctx context.Context, n *notification.Notification) error
}
