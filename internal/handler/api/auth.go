package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	reqdto "hospital-ops/internal/handler/dto/request"
	resdto "hospital-ops/internal/handler/dto/response"
	"hospital-ops/internal/handler/httperr"
	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/usecase/commands"
)

type AuthHandler struct {
	auth commands.AuthCommands
}

func NewAuthHandler(auth commands.AuthCommands) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// @Summary Register a patient account
// @Description Create a patient account with a fresh medical card number
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RegisterPatientRequest true "Registration request"
// @Success 201 {object} resdto.RegisteredPatientResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} httperr.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req reqdto.RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	patient, err := h.auth.RegisterPatient(c.Request.Context(), req.ToInput())
	if err != nil {
		if errors.Is(err, errs.ErrConflict) {
			httperr.AbortWithError(c, http.StatusConflict, err, "Username already taken", nil)
			return
		}
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromRegisteredPatient(patient))
}

// @Summary Login
// @Description Login with username, password and role
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password, req.GetRole())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid username or password",
			})
		case errors.Is(err, errs.ErrInactive):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Account is inactive",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromLoginResult(result))
}

// @Summary Logout
// @Description Logout current user session
// @Tags auth
// @Security BearerAuth
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// Stateless JWT auth; the client discards its token.
	c.Status(http.StatusNoContent)
}
