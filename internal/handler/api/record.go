package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	reqdto "hospital-ops/internal/handler/dto/request"
	resdto "hospital-ops/internal/handler/dto/response"
	"hospital-ops/internal/handler/httperr"
	"hospital-ops/internal/usecase/commands"
	"hospital-ops/internal/usecase/queries"
)

type MedicalRecordHandler struct {
	records commands.MedicalRecordCommands
	views   queries.MedicalRecordQueries
}

func NewMedicalRecordHandler(records commands.MedicalRecordCommands, views queries.MedicalRecordQueries) *MedicalRecordHandler {
	return &MedicalRecordHandler{records: records, views: views}
}

// @Summary Write a medical record
// @Description Record a visit; marks the appointment as visited in the same unit
// @Tags records
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateMedicalRecordRequest true "Record request"
// @Success 201 {object} resdto.MedicalRecordResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} httperr.Response
// @Router /records [post]
func (h *MedicalRecordHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req reqdto.CreateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	created, err := h.records.CreateMedicalRecord(c.Request.Context(), req.AppointmentID, req.Diagnosis, req.Advice, actor)
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromMedicalRecord(created))
}

// @Summary Update a medical record
// @Tags records
// @Security BearerAuth
// @Accept json
// @Param id path string true "Record ID"
// @Param request body reqdto.UpdateMedicalRecordRequest true "Record update"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Router /records/{id} [put]
func (h *MedicalRecordHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.records.UpdateMedicalRecord(c.Request.Context(), id, req.Diagnosis, req.Advice, actor); err != nil {
		httperr.Domain(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Get a medical record
// @Tags records
// @Security BearerAuth
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} queries.MedicalRecordView
// @Failure 404 {object} httperr.Response
// @Router /records/{id} [get]
func (h *MedicalRecordHandler) Get(c *gin.Context) {
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

// @Summary List medical records
// @Description Patients list their own records; doctors and admins pass patient_id
// @Tags records
// @Security BearerAuth
// @Produce json
// @Param patient_id query string false "Patient ID"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {array} queries.MedicalRecordView
// @Router /records [get]
func (h *MedicalRecordHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	patientID := actor.ID
	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid patient_id format",
			})
			return
		}
		if !actor.CanActFor(id) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}
		patientID = id
	}

	views, err := h.views.ListByPatient(c.Request.Context(), patientID, parsePage(c))
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}
