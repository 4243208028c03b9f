package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"hospital-ops/internal/infra/db"
	"hospital-ops/internal/infra/readstore"
	"hospital-ops/internal/infra/uow"
	"hospital-ops/internal/pkg/config"
	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/usecase/queries"
	"hospital-ops/internal/usecase/shared"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewStores,
	),
)

// Stores bundles the write-side unit of work with every read-side port.
// Both come from the same driver so reads and writes see the same data.
type Stores struct {
	fx.Out

	UoW            shared.UnitOfWork
	Schedules      queries.ScheduleQueries
	Appointments   queries.AppointmentQueries
	Prescriptions  queries.PrescriptionQueries
	Examinations   queries.ExaminationQueries
	Payments       queries.PaymentQueries
	Patients       queries.PatientQueries
	Catalog        queries.CatalogQueries
	MedicalRecords queries.MedicalRecordQueries
}

func NewStores(lc fx.Lifecycle, cfg config.Config) (Stores, error) {
	switch cfg.DB.Driver {
	case "memory":
		return newMemoryStores(), nil
	case "postgres":
		return newPostgresStores(lc, cfg)
	default:
		return Stores{}, errs.New("unknown DB_DRIVER: " + cfg.DB.Driver)
	}
}

func newMemoryStores() Stores {
	slog.Info("using in-memory storage driver")
	mem := uow.NewMemoryUoW()
	return Stores{
		UoW:            mem,
		Schedules:      uow.NewMemoryScheduleQueries(mem),
		Appointments:   uow.NewMemoryAppointmentQueries(mem),
		Prescriptions:  uow.NewMemoryPrescriptionQueries(mem),
		Examinations:   uow.NewMemoryExaminationQueries(mem),
		Payments:       uow.NewMemoryPaymentQueries(mem),
		Patients:       uow.NewMemoryPatientQueries(mem),
		Catalog:        uow.NewMemoryCatalogQueries(mem),
		MedicalRecords: uow.NewMemoryMedicalRecordQueries(mem),
	}
}

func newPostgresStores(lc fx.Lifecycle, cfg config.Config) (Stores, error) {
	ctx := context.Background()

	pool, cleanup, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return Stores{}, err
	}

	if err := db.Migrate(ctx, pool); err != nil {
		cleanup()
		return Stores{}, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return Stores{
		UoW:            uow.NewPostgresUoW(pool),
		Schedules:      readstore.NewScheduleReadStore(pool),
		Appointments:   readstore.NewAppointmentReadStore(pool),
		Prescriptions:  readstore.NewPrescriptionReadStore(pool),
		Examinations:   readstore.NewExaminationReadStore(pool),
		Payments:       readstore.NewPaymentReadStore(pool),
		Patients:       readstore.NewPatientReadStore(pool),
		Catalog:        readstore.NewCatalogReadStore(pool),
		MedicalRecords: readstore.NewMedicalRecordReadStore(pool),
	}, nil
}
