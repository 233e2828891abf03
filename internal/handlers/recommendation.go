package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/szlakly/trailrec/internal/services"
	"github.com/szlakly/trailrec/pkg/models"
)

type RecommendationHandler struct {
	recommender services.RecommenderInterface
	logger      *logrus.Logger
}

func NewRecommendationHandler(
	recommender services.RecommenderInterface,
	logger *logrus.Logger,
) *RecommendationHandler {
	return &RecommendationHandler{
		recommender: recommender,
		logger:      logger,
	}
}

// Get serves GET /recommendations. City, date, criteria and weights all
// arrive as query parameters.
func (h *RecommendationHandler) Get(c *gin.Context) {
	var req models.RecommendationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_QUERY",
				"message": err.Error(),
			},
		})
		return
	}

	if req.City == "" || req.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "MISSING_PARAMETER",
				"message": "city and date query parameters are required",
			},
		})
		return
	}

	var criteria models.CriteriaSet
	if err := c.ShouldBindQuery(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_CRITERIA",
				"message": err.Error(),
			},
		})
		return
	}
	req.Criteria = criteria

	var weights models.WeightSpec
	if err := c.ShouldBindQuery(&weights); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_WEIGHTS",
				"message": err.Error(),
			},
		})
		return
	}
	if !weights.Empty() {
		req.Weights = &weights
	}

	result, err := h.recommender.Recommend(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, req.City)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Multi serves POST /recommendations/multi with a JSON body naming the
// cities.
func (h *RecommendationHandler) Multi(c *gin.Context) {
	var req models.MultiCityRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": err.Error(),
			},
		})
		return
	}

	if len(req.Cities) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "MISSING_PARAMETER",
				"message": "at least one city is required",
			},
		})
		return
	}

	result, err := h.recommender.RecommendMulti(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *RecommendationHandler) respondError(c *gin.Context, err error, city string) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_CRITERIA",
				"message": validationErr.Error(),
				"field":   validationErr.Field,
			},
		})
		return
	}

	h.logger.WithError(err).WithField("city", city).Error("Failed to generate recommendations")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    "RECOMMENDATION_FAILED",
			"message": "Failed to generate recommendations",
		},
	})
}
