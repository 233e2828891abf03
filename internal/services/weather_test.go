package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/szlakly/trailrec/internal/config"
)

func testWeatherConfig(serverURL string) *config.WeatherConfig {
	return &config.WeatherConfig{
		ForecastURL: serverURL,
		ArchiveURL:  serverURL,
		Timeout:     5 * time.Second,
		CacheTTL:    30 * time.Minute,
		Timezone:    "Europe/Warsaw",
		Cities: map[string]config.CityLoc{
			"gdańsk": {Latitude: 54.3520, Longitude: 18.6466},
		},
	}
}

const openMeteoPayload = `{
	"daily": {
		"time": ["2026-07-10"],
		"temperature_2m_min": [14.2],
		"temperature_2m_max": [23.8],
		"temperature_2m_mean": [19.5],
		"precipitation_sum": [0.4],
		"cloud_cover_mean": [35.0],
		"sunshine_duration": [25200.0],
		"wind_speed_10m_max": [12.0]
	}
}`

func TestWeatherService_GetWeather(t *testing.T) {
	t.Run("normalizes the upstream daily record", func(t *testing.T) {
		var gotQuery string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(openMeteoPayload))
		}))
		defer server.Close()

		service := NewWeatherService(testWeatherConfig(server.URL), nil, logrus.New())

		record, err := service.GetWeather(context.Background(), "Gdańsk", "2026-07-10")
		require.NoError(t, err)

		assert.Equal(t, "Gdańsk", record.City)
		assert.Equal(t, "2026-07-10", record.Date)
		assert.Equal(t, 19.5, record.TemperatureAvg)
		assert.Equal(t, 0.4, record.Precipitation)
		assert.Equal(t, 7.0, record.SunshineHours) // 25200 seconds
		assert.Equal(t, 12.0, record.WindSpeed)

		assert.Contains(t, gotQuery, "latitude=54.3520")
		assert.Contains(t, gotQuery, "sunshine_duration")
	})

	t.Run("mean temperature falls back to min max midpoint", func(t *testing.T) {
		payload := `{
			"daily": {
				"time": ["2026-07-10"],
				"temperature_2m_min": [10.0],
				"temperature_2m_max": [20.0],
				"temperature_2m_mean": [],
				"precipitation_sum": [0.0],
				"cloud_cover_mean": [40.0],
				"sunshine_duration": [18000.0],
				"wind_speed_10m_max": [8.0]
			}
		}`
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(payload))
		}))
		defer server.Close()

		service := NewWeatherService(testWeatherConfig(server.URL), nil, logrus.New())

		record, err := service.GetWeather(context.Background(), "Gdańsk", "2026-07-10")
		require.NoError(t, err)
		assert.Equal(t, 15.0, record.TemperatureAvg)
	})

	t.Run("unknown city is rejected without an upstream call", func(t *testing.T) {
		called := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer server.Close()

		service := NewWeatherService(testWeatherConfig(server.URL), nil, logrus.New())

		_, err := service.GetWeather(context.Background(), "Poznań", "2026-07-10")
		require.ErrorIs(t, err, ErrUnknownCity)
		assert.False(t, called)
	})

	t.Run("malformed date is a validation error", func(t *testing.T) {
		service := NewWeatherService(testWeatherConfig("http://unused"), nil, logrus.New())

		_, err := service.GetWeather(context.Background(), "Gdańsk", "10-07-2026")
		assert.Error(t, err)
	})

	t.Run("empty upstream response maps to unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"daily": {"time": []}}`))
		}))
		defer server.Close()

		service := NewWeatherService(testWeatherConfig(server.URL), nil, logrus.New())

		_, err := service.GetWeather(context.Background(), "Gdańsk", "2026-07-10")
		assert.ErrorIs(t, err, ErrWeatherUnavailable)
	})

	t.Run("upstream errors map to unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		service := NewWeatherService(testWeatherConfig(server.URL), nil, logrus.New())

		_, err := service.GetWeather(context.Background(), "Gdańsk", "2026-07-10")
		assert.ErrorIs(t, err, ErrWeatherUnavailable)
	})

	t.Run("today resolves in the configured timezone, not UTC", func(t *testing.T) {
		var hits []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits = append(hits, r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(openMeteoPayload))
		}))
		defer server.Close()

		cfg := testWeatherConfig(server.URL)
		cfg.ForecastURL = server.URL + "/forecast"
		cfg.ArchiveURL = server.URL + "/archive"

		service := NewWeatherService(cfg, nil, logrus.New())
		// 22:30 UTC on July 10th is already July 11th in Warsaw (CEST).
		service.now = func() time.Time {
			return time.Date(2026, 7, 10, 22, 30, 0, 0, time.UTC)
		}

		_, err := service.GetWeather(context.Background(), "Gdańsk", "2026-07-10")
		require.NoError(t, err)
		_, err = service.GetWeather(context.Background(), "Gdańsk", "2026-07-11")
		require.NoError(t, err)

		require.Len(t, hits, 2)
		assert.Equal(t, "/archive", hits[0])
		assert.Equal(t, "/forecast", hits[1])
	})
}

func TestWeatherService_GetWeatherRange(t *testing.T) {
	payload := `{
		"daily": {
			"time": ["2026-07-10", "2026-07-11", "2026-07-12"],
			"temperature_2m_min": [14.0, 15.0, 13.0],
			"temperature_2m_max": [22.0, 24.0, 21.0],
			"temperature_2m_mean": [18.0, 19.5, 17.0],
			"precipitation_sum": [0.0, 2.5, 0.1],
			"cloud_cover_mean": [30.0, 75.0, 40.0],
			"sunshine_duration": [28800.0, 7200.0, 21600.0],
			"wind_speed_10m_max": [10.0, 22.0, 8.0]
		}
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer server.Close()

	service := NewWeatherService(testWeatherConfig(server.URL), nil, logrus.New())

	records, err := service.GetWeatherRange(context.Background(), "Gdańsk", "2026-07-10", "2026-07-12")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "2026-07-10", records[0].Date)
	assert.Equal(t, "2026-07-12", records[2].Date)
	assert.Equal(t, 8.0, records[0].SunshineHours)
	assert.Equal(t, 2.0, records[1].SunshineHours)

	_, err = service.GetWeatherRange(context.Background(), "Poznań", "2026-07-10", "2026-07-12")
	assert.ErrorIs(t, err, ErrUnknownCity)
}
