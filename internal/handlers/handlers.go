package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/szlakly/trailrec/internal/config"
	"github.com/szlakly/trailrec/internal/services"
)

type Handlers struct {
	Health         *HealthHandler
	Recommendation *RecommendationHandler
	Trail          *TrailHandler
	Weather        *WeatherHandler
	Report         *ReportHandler
	Auth           *AuthHandler
	Admin          *AdminHandler
}

func New(cfg *config.Config, logger *logrus.Logger, services *services.Services) *Handlers {
	return &Handlers{
		Health:         NewHealthHandler(logger, services.Health),
		Recommendation: NewRecommendationHandler(services.Recommender, logger),
		Trail:          NewTrailHandler(services.TrailCatalog, logger),
		Weather:        NewWeatherHandler(services.Weather, services.Comfort, logger),
		Report:         NewReportHandler(services.Recommender, logger),
		Auth:           NewAuthHandler(services.Auth, logger),
		Admin:          NewAdminHandler(logger, cfg, services.TrailCatalog),
	}
}
