package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/szlakly/trailrec/internal/services"
)

type HealthHandler struct {
	logger        *logrus.Logger
	healthService *services.HealthService
}

func NewHealthHandler(logger *logrus.Logger, healthService *services.HealthService) *HealthHandler {
	return &HealthHandler{
		logger:        logger,
		healthService: healthService,
	}
}

// Check reports the aggregate service health. Degraded still answers
// 200: the recommender works without the weather upstream.
func (h *HealthHandler) Check(c *gin.Context) {
	status := h.healthService.CheckHealth()

	code := http.StatusOK
	switch status.Status {
	case "healthy", "degraded":
	case "unhealthy":
		code = http.StatusServiceUnavailable
	default:
		code = http.StatusInternalServerError
	}

	c.JSON(code, status)
}
