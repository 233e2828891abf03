package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/szlakly/trailrec/pkg/models"
)

func TestComputeTrailStats(t *testing.T) {
	t.Run("empty result set yields zero stats", func(t *testing.T) {
		stats := ComputeTrailStats(nil)
		assert.Equal(t, 0, stats.Count)
		assert.Equal(t, 0.0, stats.AvgLengthKm)
	})

	t.Run("averages length over all trails", func(t *testing.T) {
		trails := []models.RankedTrail{
			{Trail: models.Trail{LengthKm: 4.0}},
			{Trail: models.Trail{LengthKm: 8.0}},
			{Trail: models.Trail{LengthKm: 12.0}},
		}

		stats := ComputeTrailStats(trails)
		assert.Equal(t, 3, stats.Count)
		assert.Equal(t, 8.0, stats.AvgLengthKm)
		assert.Equal(t, 24.0, stats.TotalLengthKm)
		assert.Equal(t, 0.0, stats.AvgComfort)
	})

	t.Run("averages comfort only over trails that have one", func(t *testing.T) {
		trails := []models.RankedTrail{
			{Trail: models.Trail{LengthKm: 5.0}, ComfortIndex: floatPtr(80.0)},
			{Trail: models.Trail{LengthKm: 5.0}, ComfortIndex: floatPtr(90.0)},
			{Trail: models.Trail{LengthKm: 5.0}},
		}

		stats := ComputeTrailStats(trails)
		assert.Equal(t, 85.0, stats.AvgComfort)
	})
}

func TestComputeWeatherStats(t *testing.T) {
	t.Run("empty window yields zero stats", func(t *testing.T) {
		stats := ComputeWeatherStats(nil)
		assert.Equal(t, 0, stats.Days)
	})

	t.Run("aggregates a multi-day window", func(t *testing.T) {
		records := []models.WeatherRecord{
			{TemperatureAvg: 18.0, Precipitation: 0.0, SunshineHours: 8.0},
			{TemperatureAvg: 22.0, Precipitation: 3.0, SunshineHours: 4.0},
		}

		stats := ComputeWeatherStats(records)
		assert.Equal(t, 2, stats.Days)
		assert.Equal(t, 20.0, stats.AvgTemperature)
		assert.Equal(t, 3.0, stats.TotalPrecipitation)
		assert.Equal(t, 6.0, stats.AvgSunshineHours)
		assert.InDelta(t, 2.83, stats.TemperatureStdDev, 0.01)
	})

	t.Run("single day window has no spread", func(t *testing.T) {
		records := []models.WeatherRecord{
			{TemperatureAvg: 19.0, Precipitation: 0.2, SunshineHours: 6.0},
		}

		stats := ComputeWeatherStats(records)
		assert.Equal(t, 1, stats.Days)
		assert.Equal(t, 0.0, stats.TemperatureStdDev)
	})
}
