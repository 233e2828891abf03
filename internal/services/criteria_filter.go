package services

import (
	"github.com/sirupsen/logrus"

	"github.com/szlakly/trailrec/pkg/models"
)

// CriteriaFilter narrows a trail list to the trails satisfying every bound
// of a CriteriaSet. Filtering is stable and order-preserving: survivors
// keep their relative catalog order.
type CriteriaFilter struct {
	logger *logrus.Logger
}

func NewCriteriaFilter(logger *logrus.Logger) *CriteriaFilter {
	return &CriteriaFilter{logger: logger}
}

// FilterTrails evaluates the conjunction of all criteria predicates per
// trail. Nil bounds are always satisfied. Numeric bounds are inclusive.
//
// Trail-intrinsic bounds (difficulty, terrain, length, category) are always
// evaluable. Weather bounds (sunshine, precipitation, temperature) need a
// weather record: when none is available for the queried city and date,
// any trail is considered to fail them, because requested weather
// conditions are a hard requirement that cannot be confirmed.
func (f *CriteriaFilter) FilterTrails(
	trails []models.Trail,
	weather *models.WeatherRecord,
	criteria *models.CriteriaSet,
) []models.Trail {
	if criteria == nil {
		return trails
	}

	if weather == nil && criteria.HasWeatherCriteria() {
		f.logger.WithField("criteria", "weather").
			Debug("Weather criteria requested but no weather record available, excluding all trails")
		return []models.Trail{}
	}

	filtered := make([]models.Trail, 0, len(trails))
	for _, trail := range trails {
		if f.matches(trail, weather, criteria) {
			filtered = append(filtered, trail)
		}
	}
	return filtered
}

func (f *CriteriaFilter) matches(
	trail models.Trail,
	weather *models.WeatherRecord,
	criteria *models.CriteriaSet,
) bool {
	if criteria.Difficulty != nil && trail.Difficulty != *criteria.Difficulty {
		return false
	}
	if criteria.TerrainType != nil &&
		models.NormalizeTerrain(trail.TerrainType) != models.NormalizeTerrain(*criteria.TerrainType) {
		return false
	}
	if criteria.MinLength != nil && trail.LengthKm < *criteria.MinLength {
		return false
	}
	if criteria.MaxLength != nil && trail.LengthKm > *criteria.MaxLength {
		return false
	}
	// Category tags are canonical lowercase values; the match is exact.
	if criteria.Category != nil && trail.Category != *criteria.Category {
		return false
	}

	// Weather bounds; weather is guaranteed non-nil here when any of these
	// criteria is set.
	if criteria.MinSunshine != nil && weather.SunshineHours < *criteria.MinSunshine {
		return false
	}
	if criteria.MaxPrecipitation != nil && weather.Precipitation > *criteria.MaxPrecipitation {
		return false
	}
	if criteria.MinTemperature != nil && weather.TemperatureAvg < *criteria.MinTemperature {
		return false
	}
	if criteria.MaxTemperature != nil && weather.TemperatureAvg > *criteria.MaxTemperature {
		return false
	}

	return true
}
