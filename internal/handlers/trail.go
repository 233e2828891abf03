package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/szlakly/trailrec/internal/services"
	"github.com/szlakly/trailrec/pkg/models"
)

type TrailHandler struct {
	catalog *services.TrailCatalogService
	logger  *logrus.Logger
}

func NewTrailHandler(catalog *services.TrailCatalogService, logger *logrus.Logger) *TrailHandler {
	return &TrailHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// List serves GET /trails. Returns the raw catalog entries for a city
// with per-trail time estimates, no weather or scoring involved.
func (h *TrailHandler) List(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "MISSING_PARAMETER",
				"message": "city query parameter is required",
			},
		})
		return
	}

	trails, err := h.catalog.GetTrailsForCity(c.Request.Context(), city)
	if err != nil {
		h.logger.WithError(err).WithField("city", city).Error("Failed to list trails")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "CATALOG_UNAVAILABLE",
				"message": "Failed to fetch trails",
			},
		})
		return
	}

	type trailWithEstimate struct {
		models.Trail
		EstimatedTime float64 `json:"estimated_time_h"`
	}

	out := make([]trailWithEstimate, 0, len(trails))
	for _, t := range trails {
		out = append(out, trailWithEstimate{
			Trail:         t,
			EstimatedTime: services.EstimateHikingTime(t.Difficulty, t.TerrainType, t.LengthKm),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"city":   city,
		"count":  len(out),
		"trails": out,
	})
}
