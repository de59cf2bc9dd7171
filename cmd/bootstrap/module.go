package bootstrap

import (
	"rental-booking/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	JWTModule,
	CacheModule,
	PaymentModule,
	KafkaModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.WorkerModule,
	components.HandlerModule,
)
