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

type ExaminationHandler struct {
	examinations commands.ExaminationCommands
	views        queries.ExaminationQueries
}

func NewExaminationHandler(examinations commands.ExaminationCommands, views queries.ExaminationQueries) *ExaminationHandler {
	return &ExaminationHandler{examinations: examinations, views: views}
}

// @Summary Order an examination
// @Description Create an examination with one item per ordered exam type
// @Tags examinations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateExaminationRequest true "Examination request"
// @Success 201 {object} resdto.ExaminationResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} httperr.Response
// @Router /examinations [post]
func (h *ExaminationHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req reqdto.CreateExaminationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	created, err := h.examinations.CreateExamination(c.Request.Context(), req.PatientID, req.ExamItemIDs, actor)
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromExamination(created))
}

// @Summary Record an exam item result
// @Description Write the result for one item of a paid examination
// @Tags examinations
// @Security BearerAuth
// @Accept json
// @Param id path string true "Examination ID"
// @Param request body reqdto.RecordExamResultRequest true "Result request"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /examinations/{id}/results [post]
func (h *ExaminationHandler) RecordResult(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.RecordExamResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.examinations.RecordExamResult(c.Request.Context(), id, req.ItemID, req.Result, actor); err != nil {
		httperr.Domain(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Complete an examination
// @Description Close an examination once every item carries a result
// @Tags examinations
// @Security BearerAuth
// @Param id path string true "Examination ID"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /examinations/{id}/complete [post]
func (h *ExaminationHandler) Complete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.examinations.CompleteExamination(c.Request.Context(), id, actor); err != nil {
		httperr.Domain(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Cancel an examination
// @Tags examinations
// @Security BearerAuth
// @Param id path string true "Examination ID"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /examinations/{id}/cancel [post]
func (h *ExaminationHandler) Cancel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.examinations.CancelExamination(c.Request.Context(), id, actor); err != nil {
		httperr.Domain(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Get an examination
// @Tags examinations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Examination ID"
// @Success 200 {object} queries.ExaminationView
// @Failure 404 {object} httperr.Response
// @Router /examinations/{id} [get]
func (h *ExaminationHandler) Get(c *gin.Context) {
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

// @Summary List my examinations
// @Tags examinations
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {array} queries.ExaminationView
// @Router /examinations [get]
func (h *ExaminationHandler) List(c *gin.Context) {
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
