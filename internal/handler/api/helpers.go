package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hospital-ops/internal/handler/middleware"
	"hospital-ops/internal/usecase/queries"
	"hospital-ops/internal/usecase/shared"
)

// currentActor pulls the authenticated caller out of the request context.
// Routes behind RequireAuth always have one; a miss means a wiring bug.
func currentActor(c *gin.Context) (shared.Actor, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
	}
	return actor, ok
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name + " format",
		})
		return uuid.Nil, false
	}
	return id, true
}

func parsePage(c *gin.Context) queries.Page {
	page := queries.Page{}
	if v, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 32); err == nil {
		page.Number = int32(v)
	}
	if v, err := strconv.ParseInt(c.DefaultQuery("size", "20"), 10, 32); err == nil {
		page.Size = int32(v)
	}
	return page.Normalize()
}
