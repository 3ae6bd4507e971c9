package api

import (
	"net/http"

	"github.com/Domenick1991/flightdata/internal/logging"
	"github.com/Domenick1991/flightdata/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	service flights.FlightUseCase
}

func NewHealthHandler(service flights.FlightUseCase) *HealthHandler {
	return &HealthHandler{service: service}
}

func (h *HealthHandler) Register(router *gin.RouterGroup) {
	router.GET("/health", h.health)
}

func (h *HealthHandler) health(c *gin.Context) {
	if err := h.service.Health(c.Request.Context()); err != nil {
		logging.Ctx(c.Request.Context()).Warn().Err(err).Msg("health check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
