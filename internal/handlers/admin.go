package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/szlakly/trailrec/internal/config"
	"github.com/szlakly/trailrec/internal/services"
)

// AdminHandler handles operational endpoints: catalog seeding and
// configuration inspection.
type AdminHandler struct {
	logger  *logrus.Logger
	config  *config.Config
	catalog *services.TrailCatalogService
}

func NewAdminHandler(logger *logrus.Logger, cfg *config.Config, catalog *services.TrailCatalogService) *AdminHandler {
	return &AdminHandler{
		logger:  logger,
		config:  cfg,
		catalog: catalog,
	}
}

type seedRequest struct {
	Path string `json:"path"`
}

// SeedCatalog loads trail definitions from a JSON file on disk into the
// catalog table. Defaults to the configured seed file when no path is
// given.
func (h *AdminHandler) SeedCatalog(c *gin.Context) {
	var req seedRequest
	// Body is optional.
	_ = c.ShouldBindJSON(&req)

	path := req.Path
	if path == "" {
		path = h.config.Catalog.SeedFile
	}
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "MISSING_SEED_FILE",
				"message": "No seed file path given and none configured",
			},
		})
		return
	}

	inserted, err := h.catalog.LoadFromFile(c.Request.Context(), path)
	if err != nil {
		h.logger.WithError(err).WithField("path", path).Error("Catalog seeding failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": gin.H{
				"code":    "SEED_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "seeded",
		"path":     path,
		"inserted": inserted,
	})
}

// GetScoringConfiguration exposes the active comfort and scoring
// parameters for inspection.
func (h *AdminHandler) GetScoringConfiguration(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"comfort": gin.H{
			"temperature_weight":   h.config.Comfort.TemperatureWeight,
			"precipitation_weight": h.config.Comfort.PrecipitationWeight,
			"cloud_cover_weight":   h.config.Comfort.CloudCoverWeight,
			"wind_weight":          h.config.Comfort.WindWeight,
			"sunshine_weight":      h.config.Comfort.SunshineWeight,
			"optimal_temp_min":     h.config.Comfort.OptimalTempMin,
			"optimal_temp_max":     h.config.Comfort.OptimalTempMax,
		},
		"scoring": gin.H{
			"cache_ttl": h.config.Scoring.CacheTTL.String(),
		},
		"weather": gin.H{
			"cities":    cityNames(h.config.Weather.Cities),
			"cache_ttl": h.config.Weather.CacheTTL.String(),
		},
	})
}

func cityNames(cities map[string]config.CityLoc) []string {
	names := make([]string, 0, len(cities))
	for name := range cities {
		names = append(names, name)
	}
	return names
}
