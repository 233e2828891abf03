package services

import (
	"github.com/sirupsen/logrus"

	"github.com/szlakly/trailrec/internal/config"
	"github.com/szlakly/trailrec/internal/database"
	"github.com/szlakly/trailrec/internal/messaging"
)

type Services struct {
	Auth         *AuthService
	Health       *HealthService
	RateLimit    *RateLimitService
	EventBus     *messaging.EventBus
	TrailCatalog *TrailCatalogService
	Weather      *WeatherService
	Comfort      *ComfortService
	Filter       *CriteriaFilter
	Scorer       *WeightedScorer
	Recommender  *RecommendationOrchestrator
}

func New(cfg *config.Config, logger *logrus.Logger, db *database.Database) (*Services, error) {
	authService := NewAuthService(cfg, logger, db.Redis)
	healthService := NewHealthService(cfg, logger, db)
	rateLimitService := NewRateLimitService(cfg, logger, db.Redis)

	// Event publishing is optional; without brokers the recommender just
	// skips it.
	var eventBus *messaging.EventBus
	if len(cfg.Kafka.Brokers) > 0 {
		bus, err := messaging.NewEventBus(cfg, logger)
		if err != nil {
			return nil, err
		}
		eventBus = bus
	}

	trailCatalog := NewTrailCatalogService(db.PG, logger)
	weatherService := NewWeatherService(&cfg.Weather, db.Redis, logger)
	comfortService := NewComfortService(&cfg.Comfort, logger)
	criteriaFilter := NewCriteriaFilter(logger)
	weightedScorer := NewWeightedScorer(logger)

	var events RecommendationEventPublisher
	if eventBus != nil {
		events = eventBus
	}

	recommender := NewRecommendationOrchestrator(
		trailCatalog, weatherService, criteriaFilter, comfortService, weightedScorer,
		events, db.Redis, &cfg.Scoring, logger,
	)

	return &Services{
		Auth:         authService,
		Health:       healthService,
		RateLimit:    rateLimitService,
		EventBus:     eventBus,
		TrailCatalog: trailCatalog,
		Weather:      weatherService,
		Comfort:      comfortService,
		Filter:       criteriaFilter,
		Scorer:       weightedScorer,
		Recommender:  recommender,
	}, nil
}
