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

type PrescriptionHandler struct {
	prescriptions commands.PrescriptionCommands
	views         queries.PrescriptionQueries
}

func NewPrescriptionHandler(prescriptions commands.PrescriptionCommands, views queries.PrescriptionQueries) *PrescriptionHandler {
	return &PrescriptionHandler{prescriptions: prescriptions, views: views}
}

// @Summary Issue a prescription
// @Description Create a prescription against a medical record and reserve stock for every line
// @Tags prescriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreatePrescriptionRequest true "Prescription request"
// @Success 201 {object} resdto.PrescriptionResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /prescriptions [post]
func (h *PrescriptionHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req reqdto.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	created, err := h.prescriptions.CreatePrescription(c.Request.Context(), req.MedicalRecordID, req.ToLines(), actor)
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromPrescription(created))
}

// @Summary Cancel a prescription
// @Description Cancel an unpaid prescription and restore its stock
// @Tags prescriptions
// @Security BearerAuth
// @Param id path string true "Prescription ID"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /prescriptions/{id}/cancel [post]
func (h *PrescriptionHandler) Cancel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.prescriptions.CancelPrescription(c.Request.Context(), id, actor); err != nil {
		httperr.Domain(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Dispense a prescription
// @Description Hand out a paid prescription
// @Tags prescriptions
// @Security BearerAuth
// @Param id path string true "Prescription ID"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /prescriptions/{id}/dispense [post]
func (h *PrescriptionHandler) Dispense(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.prescriptions.Dispense(c.Request.Context(), id, actor); err != nil {
		httperr.Domain(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Get a prescription
// @Tags prescriptions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Prescription ID"
// @Success 200 {object} queries.PrescriptionView
// @Failure 404 {object} httperr.Response
// @Router /prescriptions/{id} [get]
func (h *PrescriptionHandler) Get(c *gin.Context) {
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

// @Summary List my prescriptions
// @Tags prescriptions
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {array} queries.PrescriptionView
// @Router /prescriptions [get]
func (h *PrescriptionHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	views, err := h.views.ListByPatient(c.Request.Context(), actor.ID, parsePage(c))
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}
