package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"hospital-ops/internal/domain/user"
	"hospital-ops/internal/handler/api"
	"hospital-ops/internal/handler/middleware"
	"hospital-ops/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth          *api.AuthHandler
	Appointment   *api.AppointmentHandler
	Prescription  *api.PrescriptionHandler
	Examination   *api.ExaminationHandler
	Payment       *api.PaymentHandler
	MedicalRecord *api.MedicalRecordHandler
	Catalog       *api.CatalogHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	adminOnly := []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleAdmin)}
	doctorOnly := []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleDoctor)}
	staffOnly := []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleAdmin, user.RoleDoctor)}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: h.Auth.Register},
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
			})
		}

		protected := apiGroup.Group("")
		protected.Use(authMiddleware.RequireAuth())
		{
			addRoutes(protected.Group("/schedules"), []route{
				{Method: http.MethodGet, Path: "", Handler: h.Catalog.ListSchedules},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Catalog.GetSchedule},
				{Method: http.MethodPost, Path: "", Handler: h.Catalog.CreateSchedule, Mw: adminOnly},
				{Method: http.MethodPatch, Path: "/:id/active", Handler: h.Catalog.SetScheduleActive, Mw: adminOnly},
			})

			addRoutes(protected.Group("/appointments"), []route{
				{Method: http.MethodPost, Path: "", Handler: h.Appointment.Create},
				{Method: http.MethodGet, Path: "", Handler: h.Appointment.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Appointment.Get},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Appointment.Cancel},
			})

			addRoutes(protected.Group("/records"), []route{
				{Method: http.MethodPost, Path: "", Handler: h.MedicalRecord.Create, Mw: doctorOnly},
				{Method: http.MethodGet, Path: "", Handler: h.MedicalRecord.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.MedicalRecord.Get},
				{Method: http.MethodPut, Path: "/:id", Handler: h.MedicalRecord.Update, Mw: doctorOnly},
			})

			addRoutes(protected.Group("/prescriptions"), []route{
				{Method: http.MethodPost, Path: "", Handler: h.Prescription.Create, Mw: doctorOnly},
				{Method: http.MethodGet, Path: "", Handler: h.Prescription.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Prescription.Get},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Prescription.Cancel},
				{Method: http.MethodPost, Path: "/:id/dispense", Handler: h.Prescription.Dispense, Mw: staffOnly},
			})

			addRoutes(protected.Group("/examinations"), []route{
				{Method: http.MethodPost, Path: "", Handler: h.Examination.Create, Mw: doctorOnly},
				{Method: http.MethodGet, Path: "", Handler: h.Examination.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Examination.Get},
				{Method: http.MethodPost, Path: "/:id/results", Handler: h.Examination.RecordResult, Mw: doctorOnly},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: h.Examination.Complete, Mw: doctorOnly},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Examination.Cancel},
			})

			addRoutes(protected.Group("/payments"), []route{
				{Method: http.MethodPost, Path: "", Handler: h.Payment.Create},
				{Method: http.MethodGet, Path: "", Handler: h.Payment.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Payment.Get},
				{Method: http.MethodPost, Path: "/:id/settle", Handler: h.Payment.Settle},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Payment.Cancel},
			})

			addRoutes(protected.Group("/recharges"), []route{
				{Method: http.MethodPost, Path: "", Handler: h.Payment.CreateRecharge},
				{Method: http.MethodGet, Path: "", Handler: h.Payment.ListRecharges},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Payment.GetRecharge},
				{Method: http.MethodPost, Path: "/:id/settle", Handler: h.Payment.SettleRecharge, Mw: adminOnly},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Payment.CancelRecharge},
			})

			addRoutes(protected.Group("/me"), []route{
				{Method: http.MethodGet, Path: "/balance", Handler: h.Payment.MyBalance},
			})

			addRoutes(protected.Group("/departments"), []route{
				{Method: http.MethodGet, Path: "", Handler: h.Catalog.ListDepartments},
				{Method: http.MethodPost, Path: "", Handler: h.Catalog.CreateDepartment, Mw: adminOnly},
			})

			addRoutes(protected.Group("/doctors"), []route{
				{Method: http.MethodGet, Path: "", Handler: h.Catalog.ListDoctors},
				{Method: http.MethodPost, Path: "", Handler: h.Catalog.CreateDoctor, Mw: adminOnly},
			})

			addRoutes(protected.Group("/medicines"), []route{
				{Method: http.MethodGet, Path: "", Handler: h.Catalog.ListMedicines},
				{Method: http.MethodPost, Path: "", Handler: h.Catalog.CreateMedicine, Mw: adminOnly},
				{Method: http.MethodPost, Path: "/:id/restock", Handler: h.Catalog.RestockMedicine, Mw: adminOnly},
			})

			addRoutes(protected.Group("/exam-items"), []route{
				{Method: http.MethodGet, Path: "", Handler: h.Catalog.ListExamItems},
				{Method: http.MethodPost, Path: "", Handler: h.Catalog.CreateExamItem, Mw: adminOnly},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
