package components

import (
	"vialmedia/internal/pkg/clock"
	"vialmedia/internal/usecase"
	"vialmedia/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		fx.Annotate(
			shared.NewPoolTxRunner,
			fx.As(new(shared.TxRunner)),
		),
		usecase.NewConvertUseCase,
		usecase.NewExpiryUseCase,
		usecase.NewStatusUseCase,
		usecase.NewRentalQueries,
		usecase.NewReportQueries,
	),
)
