package components

import (
	"go.uber.org/fx"

	"hospital-ops/internal/handler"
	"hospital-ops/internal/handler/api"
	"hospital-ops/internal/handler/middleware"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewAppointmentHandler,
		api.NewPrescriptionHandler,
		api.NewExaminationHandler,
		api.NewPaymentHandler,
		api.NewMedicalRecordHandler,
		api.NewCatalogHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	auth *api.AuthHandler,
	appointment *api.AppointmentHandler,
	prescription *api.PrescriptionHandler,
	examination *api.ExaminationHandler,
	payment *api.PaymentHandler,
	record *api.MedicalRecordHandler,
	catalog *api.CatalogHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:          auth,
		Appointment:   appointment,
		Prescription:  prescription,
		Examination:   examination,
		Payment:       payment,
		MedicalRecord: record,
		Catalog:       catalog,
	}
}
