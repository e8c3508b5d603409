package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskapi/internal/core/model/response"
	"taskapi/internal/core/port"
)

type HealthHandler struct {
	svc port.TaskService
}

func NewHealthHandler(svc port.TaskService) *HealthHandler {
	return &HealthHandler{svc: svc}
}

func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.svc.CheckStore(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, response.HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})

		return
	}

	c.JSON(http.StatusOK, response.HealthResponse{
		Status:   "healthy",
		Database: "connected",
	})
}
