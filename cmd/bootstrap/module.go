package bootstrap

import (
	"go.uber.org/fx"

	"hospital-ops/cmd/bootstrap/components"
)

var Module = fx.Options(
	ConfigModule,
	PersistenceModule,
	JWTModule,
	components.UseCaseModule,
	components.HandlerModule,
)
