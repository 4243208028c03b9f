package bootstrap

import (
	"go.uber.org/fx"

	"hospital-ops/internal/pkg/config"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
)
