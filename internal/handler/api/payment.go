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

type PaymentHandler struct {
	payments commands.PaymentCommands
	views    queries.PaymentQueries
	balances queries.PatientQueries
}

func NewPaymentHandler(payments commands.PaymentCommands, views queries.PaymentQueries, balances queries.PatientQueries) *PaymentHandler {
	return &PaymentHandler{payments: payments, views: views, balances: balances}
}

// @Summary Create a payment
// @Description Open a pending payment for an appointment, prescription or examination
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreatePaymentRequest true "Payment request"
// @Success 201 {object} resdto.PaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} httperr.Response
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req reqdto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	created, err := h.payments.CreatePayment(c.Request.Context(), req.GetPaymentType(), req.RefID, actor)
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromPayment(created))
}

// @Summary Settle a payment
// @Description Settle a pending payment; the balance method debits the patient account
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param request body reqdto.SettleRequest true "Settlement request"
// @Success 200 {object} resdto.SettleResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /payments/{id}/settle [post]
func (h *PaymentHandler) Settle(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.payments.SettlePayment(c.Request.Context(), id, req.GetPayMethod(), actor)
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSettleResult(result))
}

// @Summary Cancel a payment
// @Tags payments
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /payments/{id}/cancel [post]
func (h *PaymentHandler) Cancel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.payments.CancelPayment(c.Request.Context(), id, actor); err != nil {
		httperr.Domain(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Get a payment
// @Tags payments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} queries.PaymentView
// @Failure 404 {object} httperr.Response
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
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

// @Summary List my payments
// @Tags payments
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {array} queries.PaymentView
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
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

// @Summary Create a recharge
// @Description Open a pending top-up of the caller's account balance
// @Tags recharges
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateRechargeRequest true "Recharge request"
// @Success 201 {object} resdto.RechargeResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} httperr.Response
// @Router /recharges [post]
func (h *PaymentHandler) CreateRecharge(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req reqdto.CreateRechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	created, err := h.payments.CreateRecharge(c.Request.Context(), req.Amount, actor)
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromRecharge(created))
}

// @Summary Settle a recharge
// @Description Confirm an externally paid recharge and credit the account
// @Tags recharges
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Recharge ID"
// @Param request body reqdto.SettleRequest true "Settlement request"
// @Success 200 {object} resdto.SettleResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /recharges/{id}/settle [post]
func (h *PaymentHandler) SettleRecharge(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.payments.SettleRecharge(c.Request.Context(), id, req.GetPayMethod(), actor)
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSettleResult(result))
}

// @Summary Cancel a recharge
// @Tags recharges
// @Security BearerAuth
// @Param id path string true "Recharge ID"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /recharges/{id}/cancel [post]
func (h *PaymentHandler) CancelRecharge(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.payments.CancelRecharge(c.Request.Context(), id, actor); err != nil {
		httperr.Domain(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Get a recharge
// @Tags recharges
// @Security BearerAuth
// @Produce json
// @Param id path string true "Recharge ID"
// @Success 200 {object} queries.RechargeView
// @Failure 404 {object} httperr.Response
// @Router /recharges/{id} [get]
func (h *PaymentHandler) GetRecharge(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.views.FindRechargeByID(c.Request.Context(), id)
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

// @Summary List my recharges
// @Tags recharges
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {array} queries.RechargeView
// @Router /recharges [get]
func (h *PaymentHandler) ListRecharges(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	views, err := h.views.ListRechargesByPatient(c.Request.Context(), actor.ID, parsePage(c))
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary Get my balance
// @Tags patients
// @Security BearerAuth
// @Produce json
// @Success 200 {object} queries.BalanceView
// @Router /me/balance [get]
func (h *PaymentHandler) MyBalance(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	view, err := h.balances.Balance(c.Request.Context(), actor.ID)
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
