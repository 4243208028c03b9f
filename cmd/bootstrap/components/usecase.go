package components

import (
	"go.uber.org/fx"

	"hospital-ops/internal/pkg/clock"
	"hospital-ops/internal/usecase/commands"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
	),
	usecaseCommandsModule,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewAppointmentCommands,
		commands.NewPrescriptionCommands,
		commands.NewExaminationCommands,
		commands.NewPaymentCommands,
		commands.NewMedicalRecordCommands,
		commands.NewCatalogCommands,
	),
)
