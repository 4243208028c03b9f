package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	reqdto "hospital-ops/internal/handler/dto/request"
	resdto "hospital-ops/internal/handler/dto/response"
	"hospital-ops/internal/handler/httperr"
	"hospital-ops/internal/usecase/commands"
	"hospital-ops/internal/usecase/queries"
)

type AppointmentHandler struct {
	appointments commands.AppointmentCommands
	views        queries.AppointmentQueries
}

func NewAppointmentHandler(appointments commands.AppointmentCommands, views queries.AppointmentQueries) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments, views: views}
}

// @Summary Book an appointment
// @Description Reserve one slot on a doctor's schedule
// @Tags appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateAppointmentRequest true "Booking request"
// @Success 201 {object} resdto.AppointmentResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /appointments [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req reqdto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	created, err := h.appointments.ReserveSlot(c.Request.Context(), req.ScheduleID, actor)
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromAppointment(created))
}

// @Summary Cancel an appointment
// @Tags appointments
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /appointments/{id}/cancel [post]
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.appointments.CancelAppointment(c.Request.Context(), id, actor); err != nil {
		httperr.Domain(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Get an appointment
// @Tags appointments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} queries.AppointmentView
// @Failure 404 {object} httperr.Response
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.views.FindByID(c.Request.Context(), id)
	if err != nil {
		httperr.Domain(c, err)
		return
	}
	if !actor.CanActFor(view.PatientID) {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions",
		})
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary List my appointments
// @Description Patients list their own bookings; doctors list bookings on their schedules
// @Tags appointments
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {array} queries.AppointmentView
// @Router /appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	page := parsePage(c)

	var (
		views []*queries.AppointmentView
		err   error
	)
	if actor.IsDoctor() {
		views, err = h.views.ListByDoctor(c.Request.Context(), actor.ID, page)
	} else {
		views, err = h.views.ListByPatient(c.Request.Context(), actor.ID, page)
	}
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}
