package services

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/szlakly/trailrec/pkg/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func stringPtr(v string) *string  { return &v }

func testTrails() []models.Trail {
	return []models.Trail{
		{Name: "Szlak Trójmiejski", City: "Gdańsk", LengthKm: 12.0, Difficulty: 2, TerrainType: models.TerrainForest, Category: models.CategoryScenic},
		{Name: "Bulwary Wiślane", City: "Warszawa", LengthKm: 4.5, Difficulty: 1, TerrainType: models.TerrainUrban, Category: models.CategoryFamily},
		{Name: "Orla Perć", City: "Kraków", LengthKm: 22.0, Difficulty: 3, TerrainType: models.TerrainMountain, Category: models.CategoryExtreme},
	}
}

func testWeather() *models.WeatherRecord {
	return &models.WeatherRecord{
		City:           "Gdańsk",
		Date:           "2026-07-10",
		TemperatureAvg: 19.0,
		Precipitation:  0.4,
		CloudCover:     35.0,
		SunshineHours:  7.0,
		WindSpeed:      9.0,
	}
}

func TestCriteriaFilter_FilterTrails(t *testing.T) {
	filter := NewCriteriaFilter(logrus.New())

	t.Run("nil criteria passes everything through", func(t *testing.T) {
		trails := testTrails()
		assert.Equal(t, trails, filter.FilterTrails(trails, testWeather(), nil))
	})

	t.Run("empty criteria passes everything through", func(t *testing.T) {
		trails := testTrails()
		filtered := filter.FilterTrails(trails, testWeather(), &models.CriteriaSet{})
		assert.Equal(t, trails, filtered)
	})

	t.Run("difficulty is an exact match", func(t *testing.T) {
		filtered := filter.FilterTrails(testTrails(), testWeather(), &models.CriteriaSet{
			Difficulty: intPtr(3),
		})

		assert.Len(t, filtered, 1)
		assert.Equal(t, "Orla Perć", filtered[0].Name)
	})

	t.Run("length bounds are inclusive", func(t *testing.T) {
		filtered := filter.FilterTrails(testTrails(), testWeather(), &models.CriteriaSet{
			MinLength: floatPtr(4.5),
			MaxLength: floatPtr(12.0),
		})

		assert.Len(t, filtered, 2)
		assert.Equal(t, "Szlak Trójmiejski", filtered[0].Name)
		assert.Equal(t, "Bulwary Wiślane", filtered[1].Name)
	})

	t.Run("terrain matches across aliases and case", func(t *testing.T) {
		filtered := filter.FilterTrails(testTrails(), testWeather(), &models.CriteriaSet{
			TerrainType: stringPtr("Mountain"),
		})

		assert.Len(t, filtered, 1)
		assert.Equal(t, models.TerrainMountain, filtered[0].TerrainType)
	})

	t.Run("category matches exactly", func(t *testing.T) {
		filtered := filter.FilterTrails(testTrails(), testWeather(), &models.CriteriaSet{
			Category: stringPtr(models.CategoryFamily),
		})

		assert.Len(t, filtered, 1)
		assert.Equal(t, "Bulwary Wiślane", filtered[0].Name)

		filtered = filter.FilterTrails(testTrails(), testWeather(), &models.CriteriaSet{
			Category: stringPtr("FAMILY"),
		})
		assert.Empty(t, filtered)
	})

	t.Run("weather bounds apply to the shared record", func(t *testing.T) {
		filtered := filter.FilterTrails(testTrails(), testWeather(), &models.CriteriaSet{
			MinSunshine:      floatPtr(5.0),
			MaxPrecipitation: floatPtr(1.0),
		})
		assert.Len(t, filtered, 3)

		filtered = filter.FilterTrails(testTrails(), testWeather(), &models.CriteriaSet{
			MinSunshine: floatPtr(9.0),
		})
		assert.Empty(t, filtered)
	})

	t.Run("weather criteria without weather data exclude all trails", func(t *testing.T) {
		filtered := filter.FilterTrails(testTrails(), nil, &models.CriteriaSet{
			MinSunshine: floatPtr(1.0),
		})

		assert.Empty(t, filtered)
	})

	t.Run("trail criteria still work without weather data", func(t *testing.T) {
		filtered := filter.FilterTrails(testTrails(), nil, &models.CriteriaSet{
			Difficulty: intPtr(1),
		})

		assert.Len(t, filtered, 1)
		assert.Equal(t, "Bulwary Wiślane", filtered[0].Name)
	})

	t.Run("filtering is idempotent", func(t *testing.T) {
		criteria := &models.CriteriaSet{
			Difficulty: intPtr(2),
			MaxLength:  floatPtr(15.0),
		}

		once := filter.FilterTrails(testTrails(), testWeather(), criteria)
		twice := filter.FilterTrails(once, testWeather(), criteria)
		assert.Equal(t, once, twice)
	})
}
