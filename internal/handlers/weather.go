package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/szlakly/trailrec/internal/services"
	"github.com/szlakly/trailrec/pkg/models"
)

type WeatherHandler struct {
	weather *services.WeatherService
	comfort *services.ComfortService
	logger  *logrus.Logger
}

func NewWeatherHandler(weather *services.WeatherService, comfort *services.ComfortService, logger *logrus.Logger) *WeatherHandler {
	return &WeatherHandler{
		weather: weather,
		comfort: comfort,
		logger:  logger,
	}
}

// Get serves GET /weather. Returns one day's conditions for a city with
// the comfort breakdown.
func (h *WeatherHandler) Get(c *gin.Context) {
	city := c.Query("city")
	date := c.Query("date")
	if city == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "MISSING_PARAMETER",
				"message": "city and date query parameters are required",
			},
		})
		return
	}

	record, err := h.weather.GetWeather(c.Request.Context(), city, date)
	if err != nil {
		h.respondError(c, err, city)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"weather":   record,
		"condition": record.Condition(),
		"comfort":   h.comfort.Breakdown(record),
	})
}

// GetRange serves GET /weather/range. Returns daily records for a date
// window plus aggregate statistics over the window.
func (h *WeatherHandler) GetRange(c *gin.Context) {
	city := c.Query("city")
	start := c.Query("start")
	end := c.Query("end")
	if city == "" || start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "MISSING_PARAMETER",
				"message": "city, start and end query parameters are required",
			},
		})
		return
	}

	records, err := h.weather.GetWeatherRange(c.Request.Context(), city, start, end)
	if err != nil {
		h.respondError(c, err, city)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"city":    city,
		"start":   start,
		"end":     end,
		"records": records,
		"stats":   services.ComputeWeatherStats(records),
	})
}

func (h *WeatherHandler) respondError(c *gin.Context, err error, city string) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_QUERY",
				"message": validationErr.Error(),
				"field":   validationErr.Field,
			},
		})
		return
	}

	if errors.Is(err, services.ErrUnknownCity) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "UNKNOWN_CITY",
				"message": "No weather coverage for the requested city",
			},
		})
		return
	}

	h.logger.WithError(err).WithField("city", city).Error("Failed to fetch weather")
	c.JSON(http.StatusBadGateway, gin.H{
		"error": gin.H{
			"code":    "WEATHER_UNAVAILABLE",
			"message": "Failed to fetch weather data",
		},
	})
}
