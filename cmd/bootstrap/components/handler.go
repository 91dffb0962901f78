package components

import (
	"vialmedia/internal/handler"
	"vialmedia/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewRentalHandler,
		api.NewReportHandler,
		api.NewJobHandler,
	),
	fx.Invoke(
		handler.NewRouter,
	),
)
