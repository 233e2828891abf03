package services

import (
	"context"

	"github.com/szlakly/trailrec/internal/messaging"
	"github.com/szlakly/trailrec/pkg/models"
)

// TrailCatalogInterface defines the trail catalog operations.
type TrailCatalogInterface interface {
	GetTrailsForCity(ctx context.Context, city string) ([]models.Trail, error)
}

// WeatherProviderInterface defines the weather data operations.
type WeatherProviderInterface interface {
	GetWeather(ctx context.Context, city, date string) (*models.WeatherRecord, error)
	GetWeatherRange(ctx context.Context, city, startDate, endDate string) ([]models.WeatherRecord, error)
}

// RecommendationEventPublisher publishes recommendation analytics events.
type RecommendationEventPublisher interface {
	PublishRecommendationEvent(ctx context.Context, event messaging.RecommendationEvent) error
}

// RecommenderInterface defines the recommendation orchestration operations.
type RecommenderInterface interface {
	Recommend(ctx context.Context, req *models.RecommendationRequest) (*models.RecommendationResponse, error)
	RecommendMulti(ctx context.Context, req *models.MultiCityRecommendationRequest) (*models.MultiCityRecommendationResponse, error)
}
