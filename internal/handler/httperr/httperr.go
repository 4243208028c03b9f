package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hospital-ops/internal/pkg/errs"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Domain translates engine sentinels into HTTP responses. Handlers deal with
// their own endpoint-specific errors first and fall through to this.
func Domain(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		AbortWithError(c, http.StatusNotFound, err, "Resource not found", nil)
	case errors.Is(err, errs.ErrForbidden):
		AbortWithError(c, http.StatusForbidden, err, "Operation not permitted", nil)
	case errors.Is(err, errs.ErrInactive):
		AbortWithError(c, http.StatusUnprocessableEntity, err, "Resource is inactive", nil)
	case errors.Is(err, errs.ErrInvalidTransition):
		AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid state transition", nil)
	case errors.Is(err, errs.ErrIncompleteChildren):
		AbortWithError(c, http.StatusUnprocessableEntity, err, "Not all items are completed", nil)
	case errors.Is(err, errs.ErrStaleReference):
		AbortWithError(c, http.StatusUnprocessableEntity, err, "Referenced record is no longer usable", nil)
	case errors.Is(err, errs.ErrInvalidAmount):
		AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid amount", nil)
	case errors.Is(err, errs.ErrCapacityExceeded):
		AbortWithError(c, http.StatusConflict, err, "No capacity left", nil)
	case errors.Is(err, errs.ErrInsufficientStock):
		AbortWithError(c, http.StatusConflict, err, "Insufficient stock", nil)
	case errors.Is(err, errs.ErrInsufficientFunds):
		AbortWithError(c, http.StatusConflict, err, "Insufficient balance", nil)
	case errors.Is(err, errs.ErrAlreadyReserved):
		AbortWithError(c, http.StatusConflict, err, "Already reserved", nil)
	case errors.Is(err, errs.ErrConflict):
		AbortWithError(c, http.StatusConflict, err, "Conflicting update, please retry", nil)
	case errors.Is(err, errs.ErrBusy):
		AbortWithError(c, http.StatusServiceUnavailable, err, "Service busy, please retry", nil)
	default:
		AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
