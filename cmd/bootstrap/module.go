package bootstrap

import (
	"vialmedia/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	RedisModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
	SchedulerModule,
)
