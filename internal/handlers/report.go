package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/szlakly/trailrec/internal/services"
	"github.com/szlakly/trailrec/pkg/models"
)

// ReportHandler renders recommendation results in non-JSON formats for
// download or terminal use.
type ReportHandler struct {
	recommender services.RecommenderInterface
	logger      *logrus.Logger
}

func NewReportHandler(recommender services.RecommenderInterface, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{
		recommender: recommender,
		logger:      logger,
	}
}

// Text serves GET /recommendations/report as plain text.
func (h *ReportHandler) Text(c *gin.Context) {
	result, ok := h.run(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, services.RenderTextReport(result))
}

// CSV serves GET /recommendations/export as a CSV attachment.
func (h *ReportHandler) CSV(c *gin.Context) {
	result, ok := h.run(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("trails_%s_%s.csv", models.NormalizeCity(result.City), result.Date)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	if err := services.WriteCSV(c.Writer, result.Trails); err != nil {
		h.logger.WithError(err).Error("Failed to write csv export")
	}
}

func (h *ReportHandler) run(c *gin.Context) (*models.RecommendationResponse, bool) {
	var req models.RecommendationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "INVALID_QUERY", "message": err.Error()},
		})
		return nil, false
	}

	if req.City == "" || req.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "MISSING_PARAMETER",
				"message": "city and date query parameters are required",
			},
		})
		return nil, false
	}

	var criteria models.CriteriaSet
	if err := c.ShouldBindQuery(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "INVALID_CRITERIA", "message": err.Error()},
		})
		return nil, false
	}
	req.Criteria = criteria

	var weights models.WeightSpec
	if err := c.ShouldBindQuery(&weights); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "INVALID_WEIGHTS", "message": err.Error()},
		})
		return nil, false
	}
	if !weights.Empty() {
		req.Weights = &weights
	}

	result, err := h.recommender.Recommend(c.Request.Context(), &req)
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{
					"code":    "INVALID_CRITERIA",
					"message": validationErr.Error(),
					"field":   validationErr.Field,
				},
			})
			return nil, false
		}

		h.logger.WithError(err).WithField("city", req.City).Error("Failed to generate report")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "RECOMMENDATION_FAILED", "message": "Failed to generate recommendations"},
		})
		return nil, false
	}

	return result, true
}
