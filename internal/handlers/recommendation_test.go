package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/szlakly/trailrec/pkg/models"
)

// MockRecommender is a mock implementation of services.RecommenderInterface.
type MockRecommender struct {
	mock.Mock
}

func (m *MockRecommender) Recommend(ctx context.Context, req *models.RecommendationRequest) (*models.RecommendationResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecommendationResponse), args.Error(1)
}

func (m *MockRecommender) RecommendMulti(ctx context.Context, req *models.MultiCityRecommendationRequest) (*models.MultiCityRecommendationResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MultiCityRecommendationResponse), args.Error(1)
}

func sampleRanked(city string) []models.RankedTrail {
	return []models.RankedTrail{
		{
			Trail: models.Trail{
				ID:          uuid.New(),
				Name:        "Park Oliwski",
				City:        city,
				LengthKm:    5,
				Difficulty:  1,
				TerrainType: "miejski",
				Category:    "family",
			},
			Position:      1,
			EstimatedTime: 1.25,
		},
		{
			Trail: models.Trail{
				ID:          uuid.New(),
				Name:        "Wzgórza Szymbarskie",
				City:        city,
				LengthKm:    10,
				Difficulty:  3,
				TerrainType: "górski",
				Category:    "scenic",
			},
			Position:      2,
			EstimatedTime: 5.95,
		},
	}
}

func TestRecommendationHandler_Get(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	mockRecommender := new(MockRecommender)
	handler := NewRecommendationHandler(mockRecommender, logger)

	mockResult := &models.RecommendationResponse{
		RequestID:   uuid.New(),
		City:        "gdańsk",
		Date:        "2025-07-12",
		Trails:      sampleRanked("Gdańsk"),
		Condition:   "sunny",
		GeneratedAt: time.Now(),
	}

	mockRecommender.On("Recommend", mock.Anything, mock.MatchedBy(func(req *models.RecommendationRequest) bool {
		return req.City == "Gdańsk" && req.Date == "2025-07-12"
	})).Return(mockResult, nil)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedCount  int
	}{
		{
			name:           "Valid request",
			query:          "?city=Gda%C5%84sk&date=2025-07-12",
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name:           "Valid request with criteria and weights",
			query:          "?city=Gda%C5%84sk&date=2025-07-12&difficulty=1&weight_terrain=1.0",
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name:           "Missing city",
			query:          "?date=2025-07-12",
			expectedStatus: http.StatusBadRequest,
			expectedCount:  0,
		},
		{
			name:           "Missing date",
			query:          "?city=Gda%C5%84sk",
			expectedStatus: http.StatusBadRequest,
			expectedCount:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/api/v1/recommendations", handler.Get)

			req, _ := http.NewRequest("GET", "/api/v1/recommendations"+tt.query, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var response models.RecommendationResponse
				err := json.Unmarshal(w.Body.Bytes(), &response)
				assert.NoError(t, err)

				assert.Equal(t, tt.expectedCount, len(response.Trails))
				assert.Equal(t, "sunny", response.Condition)
				assert.False(t, response.CacheHit)
			}
		})
	}

	mockRecommender.AssertExpectations(t)
}

func TestRecommendationHandler_Get_WeightsAttached(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	mockRecommender := new(MockRecommender)
	handler := NewRecommendationHandler(mockRecommender, logger)

	mockRecommender.On("Recommend", mock.Anything, mock.MatchedBy(func(req *models.RecommendationRequest) bool {
		return req.Weights != nil && req.Weights.Terrain != nil && *req.Weights.Terrain == 0.6
	})).Return(&models.RecommendationResponse{City: "kraków", Date: "2025-07-12"}, nil).Once()

	mockRecommender.On("Recommend", mock.Anything, mock.MatchedBy(func(req *models.RecommendationRequest) bool {
		return req.Weights == nil
	})).Return(&models.RecommendationResponse{City: "kraków", Date: "2025-07-12"}, nil).Once()

	router := gin.New()
	router.GET("/api/v1/recommendations", handler.Get)

	t.Run("Declared weight reaches the recommender", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/recommendations?city=Krak%C3%B3w&date=2025-07-12&weight_terrain=0.6", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("No weights means nil spec", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/recommendations?city=Krak%C3%B3w&date=2025-07-12", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	mockRecommender.AssertExpectations(t)
}

func TestRecommendationHandler_Get_ValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	mockRecommender := new(MockRecommender)
	handler := NewRecommendationHandler(mockRecommender, logger)

	mockRecommender.On("Recommend", mock.Anything, mock.Anything).
		Return(nil, &models.ValidationError{Field: "difficulty", Message: "difficulty must be between 1 and 3"})

	router := gin.New()
	router.GET("/api/v1/recommendations", handler.Get)

	req, _ := http.NewRequest("GET", "/api/v1/recommendations?city=Gda%C5%84sk&date=2025-07-12&difficulty=9", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &body)
	assert.NoError(t, err)
	assert.Equal(t, "INVALID_CRITERIA", body["error"]["code"])
	assert.Equal(t, "difficulty", body["error"]["field"])

	mockRecommender.AssertExpectations(t)
}

func TestRecommendationHandler_Multi(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	mockRecommender := new(MockRecommender)
	handler := NewRecommendationHandler(mockRecommender, logger)

	mockResult := &models.MultiCityRecommendationResponse{
		RequestID:   uuid.New(),
		Cities:      []string{"Gdańsk", "Kraków"},
		Date:        "2025-07-12",
		Trails:      sampleRanked("Gdańsk"),
		GeneratedAt: time.Now(),
	}

	mockRecommender.On("RecommendMulti", mock.Anything, mock.MatchedBy(func(req *models.MultiCityRecommendationRequest) bool {
		return len(req.Cities) == 2 && req.Cities[0] == "Gdańsk"
	})).Return(mockResult, nil)

	router := gin.New()
	router.POST("/api/v1/recommendations/multi", handler.Multi)

	t.Run("Valid multi-city request", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{
			"cities": []string{"Gdańsk", "Kraków"},
			"date":   "2025-07-12",
		})
		req, _ := http.NewRequest("POST", "/api/v1/recommendations/multi", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response models.MultiCityRecommendationResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, []string{"Gdańsk", "Kraków"}, response.Cities)
	})

	t.Run("Empty city list rejected", func(t *testing.T) {
		body := []byte(`{"cities": [], "date": "2025-07-12"}`)
		req, _ := http.NewRequest("POST", "/api/v1/recommendations/multi", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Malformed body rejected", func(t *testing.T) {
		req, _ := http.NewRequest("POST", "/api/v1/recommendations/multi", bytes.NewReader([]byte(`{`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	mockRecommender.AssertExpectations(t)
}
