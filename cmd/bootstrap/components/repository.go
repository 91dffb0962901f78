package components

import (
	"vialmedia/internal/infra/cache"
	"vialmedia/internal/infra/repository"
	"vialmedia/internal/pkg/config"
	"vialmedia/internal/usecase"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repository.NewQuotationRepository,
			fx.As(new(usecase.QuotationRepository)),
		),
		fx.Annotate(
			repository.NewRentalRepository,
			fx.As(new(usecase.RentalRepository)),
		),
		fx.Annotate(
			repository.NewNotificationRepository,
			fx.As(new(usecase.NotificationRepository)),
		),
		fx.Annotate(
			repository.NewProductRepository,
			fx.As(new(usecase.ProductRepository)),
		),
		repository.NewSupportRepository,
		fx.Annotate(
			newSupportCache,
			fx.As(new(usecase.SupportRepository)),
		),
	),
)

func newSupportCache(inner *repository.SupportRepository, rdb *redis.Client, cfg config.Config) *cache.SupportCache {
	return cache.NewSupportCache(inner, rdb, cfg.Redis.SupportTTL)
}
