package services

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/szlakly/trailrec/internal/config"
	"github.com/szlakly/trailrec/pkg/models"
)

// Fixed band boundaries for the cloud, wind and sunshine sub-scores. The
// temperature and precipitation constants live in config.ComfortConfig so
// the calibration can be tuned without a rebuild.
const (
	cloudOptimalMin    = 20.0
	cloudOptimalMax    = 60.0
	cloudSunnySlope    = 3.0
	cloudOvercastSlope = 2.5

	windOptimalMin = 5.0
	windOptimalMax = 15.0
	windCalmSlope  = 12.0
	windGustSlope  = 8.0

	sunshineOptimalMin = 4.0
	sunshineOptimalMax = 8.0
	sunshineRampRate   = 25.0
	sunshineDecaySlope = 15.0
)

// ComfortBreakdown exposes the weighted model's sub-scores for report and
// explanation rendering. Every sub-score is already clamped to [0,100].
type ComfortBreakdown struct {
	Temperature   float64 `json:"temperature"`
	Precipitation float64 `json:"precipitation"`
	CloudCover    float64 `json:"cloud_cover"`
	Wind          float64 `json:"wind"`
	Sunshine      float64 `json:"sunshine"`
	Composite     float64 `json:"composite"`
}

// ComfortService computes the 0-100 hiking comfort index from a daily
// weather record. The model is a weighted blend of five piecewise-linear
// sub-scores; the calibration (35% temperature, 25% precipitation, 20%
// cloud cover, 10% wind, 10% sunshine, 18-22°C temperature optimum) is the
// canonical one and configurable through ComfortConfig.
type ComfortService struct {
	config *config.ComfortConfig
	logger *logrus.Logger
}

func NewComfortService(cfg *config.ComfortConfig, logger *logrus.Logger) *ComfortService {
	return &ComfortService{
		config: cfg,
		logger: logger,
	}
}

// HikingComfort returns the comfort index in [0,100] rounded to 1 decimal.
// A missing weather record yields 0.0 rather than an error: no weather data
// means no grounds to call the day comfortable.
func (s *ComfortService) HikingComfort(weather *models.WeatherRecord) float64 {
	if weather == nil {
		return 0.0
	}
	return s.Breakdown(weather).Composite
}

// Breakdown computes all sub-scores and the weighted composite.
func (s *ComfortService) Breakdown(weather *models.WeatherRecord) ComfortBreakdown {
	if weather == nil {
		return ComfortBreakdown{}
	}

	b := ComfortBreakdown{
		Temperature:   s.temperatureScore(weather.TemperatureAvg),
		Precipitation: s.precipitationScore(weather.Precipitation),
		CloudCover:    cloudCoverScore(weather.CloudCover),
		Wind:          windScore(weather.WindSpeed),
		Sunshine:      sunshineScore(weather.SunshineHours),
	}

	composite := b.Temperature*s.config.TemperatureWeight +
		b.Precipitation*s.config.PrecipitationWeight +
		b.CloudCover*s.config.CloudCoverWeight +
		b.Wind*s.config.WindWeight +
		b.Sunshine*s.config.SunshineWeight

	b.Composite = math.Round(composite*10) / 10
	return b
}

// temperatureScore is 100 inside the optimal band and degrades linearly
// outside it, with a steeper slope on the hot side.
func (s *ComfortService) temperatureScore(temp float64) float64 {
	switch {
	case temp < s.config.OptimalTempMin:
		return clampScore(100 - (s.config.OptimalTempMin-temp)*s.config.ColdPenaltySlope)
	case temp > s.config.OptimalTempMax:
		return clampScore(100 - (temp-s.config.OptimalTempMax)*s.config.HeatPenaltySlope)
	default:
		return 100
	}
}

// precipitationScore drops fast: at the default rate of 25 per mm, 4 mm of
// rain zeroes the sub-score.
func (s *ComfortService) precipitationScore(precipitation float64) float64 {
	return clampScore(100 - precipitation*s.config.PrecipitationRate)
}

// cloudCoverScore favors a moderately cloudy sky; a cloudless day overheats
// hikers and a fully overcast one is dreary, each with its own slope.
func cloudCoverScore(cloudCover float64) float64 {
	switch {
	case cloudCover < cloudOptimalMin:
		return clampScore(100 - (cloudOptimalMin-cloudCover)*cloudSunnySlope)
	case cloudCover > cloudOptimalMax:
		return clampScore(100 - (cloudCover-cloudOptimalMax)*cloudOvercastSlope)
	default:
		return 100
	}
}

// windScore prefers a light breeze over both still air and strong gusts.
func windScore(windSpeed float64) float64 {
	switch {
	case windSpeed < windOptimalMin:
		return clampScore(100 - (windOptimalMin-windSpeed)*windCalmSlope)
	case windSpeed > windOptimalMax:
		return clampScore(100 - (windSpeed-windOptimalMax)*windGustSlope)
	default:
		return 100
	}
}

// sunshineScore ramps up toward the 4-8 hour optimum and decays beyond it.
func sunshineScore(sunshineHours float64) float64 {
	switch {
	case sunshineHours < sunshineOptimalMin:
		return clampScore(sunshineHours * sunshineRampRate)
	case sunshineHours > sunshineOptimalMax:
		return clampScore(100 - (sunshineHours-sunshineOptimalMax)*sunshineDecaySlope)
	default:
		return 100
	}
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
