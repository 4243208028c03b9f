package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	reqdto "hospital-ops/internal/handler/dto/request"
	resdto "hospital-ops/internal/handler/dto/response"
	"hospital-ops/internal/handler/httperr"
	"hospital-ops/internal/usecase/commands"
	"hospital-ops/internal/usecase/queries"
)

type CatalogHandler struct {
	catalog   commands.CatalogCommands
	views     queries.CatalogQueries
	schedules queries.ScheduleQueries
}

func NewCatalogHandler(catalog commands.CatalogCommands, views queries.CatalogQueries, schedules queries.ScheduleQueries) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, views: views, schedules: schedules}
}

// @Summary Create a department
// @Tags catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateDepartmentRequest true "Department request"
// @Success 201 {object} resdto.DepartmentResponse
// @Failure 403 {object} httperr.Response
// @Router /departments [post]
func (h *CatalogHandler) CreateDepartment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req reqdto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	created, err := h.catalog.CreateDepartment(c.Request.Context(), req.Name, req.Description, actor)
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromDepartment(created))
}

// @Summary List departments
// @Tags catalog
// @Security BearerAuth
// @Produce json
// @Success 200 {array} queries.DepartmentView
// @Router /departments [get]
func (h *CatalogHandler) ListDepartments(c *gin.Context) {
	views, err := h.views.ListDepartments(c.Request.Context(), parsePage(c))
	if err != nil {
		httperr.Domain(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary Create a doctor account
// @Tags catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateDoctorRequest true "Doctor request"
// @Success 201 {object} resdto.DoctorResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /doctors [post]
func (h *CatalogHandler) CreateDoctor(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req reqdto.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	created, err := h.catalog.CreateDoctor(c.Request.Context(), req.ToInput(), actor)
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromDoctor(created))
}

// @Summary List doctors
// @Tags catalog
// @Security BearerAuth
// @Produce json
// @Param department_id query string false "Department ID"
// @Success 200 {array} queries.DoctorView
// @Router /doctors [get]
func (h *CatalogHandler) ListDoctors(c *gin.Context) {
	var departmentID *uuid.UUID
	if raw := c.Query("department_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid department_id format",
			})
			return
		}
		departmentID = &id
	}

	views, err := h.views.ListDoctors(c.Request.Context(), departmentID, parsePage(c))
	if err != nil {
		httperr.Domain(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary Publish a schedule
// @Description Open a bookable slot block on a doctor's calendar
// @Tags schedules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateScheduleRequest true "Schedule request"
// @Success 201 {object} resdto.ScheduleResponse
// @Failure 403 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /schedules [post]
func (h *CatalogHandler) CreateSchedule(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req reqdto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	created, err := h.catalog.CreateSchedule(c.Request.Context(), req.ToInput(), actor)
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromSchedule(created))
}

// @Summary Open or close a schedule
// @Description Closing is refused while live bookings remain
// @Tags schedules
// @Security BearerAuth
// @Accept json
// @Param id path string true "Schedule ID"
// @Param request body reqdto.SetScheduleActiveRequest true "Active flag"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /schedules/{id}/active [patch]
func (h *CatalogHandler) SetScheduleActive(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.SetScheduleActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.catalog.SetScheduleActive(c.Request.Context(), id, *req.Active, actor); err != nil {
		httperr.Domain(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Get a schedule
// @Tags schedules
// @Security BearerAuth
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} queries.ScheduleView
// @Failure 404 {object} httperr.Response
// @Router /schedules/{id} [get]
func (h *CatalogHandler) GetSchedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.schedules.FindByID(c.Request.Context(), id)
	if err != nil {
		httperr.Domain(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary List schedules
// @Description Browse bookable slot blocks with remaining capacity
// @Tags schedules
// @Security BearerAuth
// @Produce json
// @Param department_id query string false "Department ID"
// @Param visit_date query string false "Visit date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {array} queries.ScheduleView
// @Router /schedules [get]
func (h *CatalogHandler) ListSchedules(c *gin.Context) {
	var departmentID *uuid.UUID
	if raw := c.Query("department_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid department_id format",
			})
			return
		}
		departmentID = &id
	}

	var visitDate *time.Time
	if raw := c.Query("visit_date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid visit_date format",
			})
			return
		}
		visitDate = &d
	}

	views, err := h.schedules.List(c.Request.Context(), departmentID, visitDate, parsePage(c))
	if err != nil {
		httperr.Domain(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary Create a medicine
// @Tags catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateMedicineRequest true "Medicine request"
// @Success 201 {object} resdto.MedicineResponse
// @Failure 403 {object} httperr.Response
// @Router /medicines [post]
func (h *CatalogHandler) CreateMedicine(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req reqdto.CreateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	created, err := h.catalog.CreateMedicine(c.Request.Context(), req.ToInput(), actor)
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromMedicine(created))
}

// @Summary Adjust medicine stock
// @Description Positive quantities add stock, negative quantities write it down
// @Tags catalog
// @Security BearerAuth
// @Accept json
// @Param id path string true "Medicine ID"
// @Param request body reqdto.RestockMedicineRequest true "Stock adjustment"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /medicines/{id}/restock [post]
func (h *CatalogHandler) RestockMedicine(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.RestockMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.catalog.RestockMedicine(c.Request.Context(), id, req.Quantity, actor); err != nil {
		httperr.Domain(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary List medicines
// @Tags catalog
// @Security BearerAuth
// @Produce json
// @Success 200 {array} queries.MedicineView
// @Router /medicines [get]
func (h *CatalogHandler) ListMedicines(c *gin.Context) {
	views, err := h.views.ListMedicines(c.Request.Context(), parsePage(c))
	if err != nil {
		httperr.Domain(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary Create an examination item
// @Tags catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateExamItemRequest true "Exam item request"
// @Success 201 {object} resdto.ExamItemResponse
// @Failure 403 {object} httperr.Response
// @Router /exam-items [post]
func (h *CatalogHandler) CreateExamItem(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req reqdto.CreateExamItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	created, err := h.catalog.CreateExamItem(c.Request.Context(), req.ToInput(), actor)
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromExamItem(created))
}

// @Summary List examination items
// @Tags catalog
// @Security BearerAuth
// @Produce json
// @Success 200 {array} queries.ExamItemView
// @Router /exam-items [get]
func (h *CatalogHandler) ListExamItems(c *gin.Context) {
	views, err := h.views.ListExamItems(c.Request.Context(), parsePage(c))
	if err != nil {
		httperr.Domain(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}
