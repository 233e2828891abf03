package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/szlakly/trailrec/internal/config"
	"github.com/szlakly/trailrec/pkg/models"
)

var (
	// ErrUnknownCity is returned for cities without configured coordinates.
	ErrUnknownCity = errors.New("unknown city")
	// ErrWeatherUnavailable is returned when the upstream API has no data
	// for the requested city and date. It is recoverable: callers degrade
	// per the missing-weather rules instead of failing the request.
	ErrWeatherUnavailable = errors.New("weather data unavailable")
)

const openMeteoDailyFields = "temperature_2m_min,temperature_2m_max,temperature_2m_mean," +
	"precipitation_sum,cloud_cover_mean,sunshine_duration,wind_speed_10m_max"

// WeatherService fetches daily weather from Open-Meteo. Past dates are
// served by the archive API, today and future dates by the forecast API.
// Normalized records are cached in Redis.
type WeatherService struct {
	httpClient *http.Client
	redis      *redis.Client
	config     *config.WeatherConfig
	location   *time.Location
	logger     *logrus.Logger

	// now is replaceable for day-boundary tests.
	now func() time.Time
}

func NewWeatherService(cfg *config.WeatherConfig, redisClient *redis.Client, logger *logrus.Logger) *WeatherService {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.WithError(err).WithField("timezone", cfg.Timezone).
			Warn("Unknown timezone, falling back to UTC")
		loc = time.UTC
	}
	return &WeatherService{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		redis:      redisClient,
		config:     cfg,
		location:   loc,
		logger:     logger,
		now:        time.Now,
	}
}

// GetWeather returns the normalized weather record for one (city, date)
// pair, or ErrWeatherUnavailable when the upstream has no data for it.
func (s *WeatherService) GetWeather(ctx context.Context, city, date string) (*models.WeatherRecord, error) {
	if cached := s.getCachedWeather(ctx, city, date); cached != nil {
		s.logger.WithFields(logrus.Fields{"city": city, "date": date}).Debug("Weather cache hit")
		return cached, nil
	}

	records, err := s.fetchRange(ctx, city, date, date)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w for %s on %s", ErrWeatherUnavailable, city, date)
	}

	record := &records[0]
	s.cacheWeather(ctx, city, date, record)
	return record, nil
}

// GetWeatherRange returns normalized records for each day of an inclusive
// date range, in chronological order.
func (s *WeatherService) GetWeatherRange(ctx context.Context, city, startDate, endDate string) ([]models.WeatherRecord, error) {
	return s.fetchRange(ctx, city, startDate, endDate)
}

func (s *WeatherService) fetchRange(ctx context.Context, city, startDate, endDate string) ([]models.WeatherRecord, error) {
	loc, ok := s.config.Cities[models.NormalizeCity(city)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCity, city)
	}

	if _, err := time.Parse("2006-01-02", startDate); err != nil {
		return nil, &models.ValidationError{Field: "date", Message: "must be in YYYY-MM-DD format"}
	}
	if _, err := time.Parse("2006-01-02", endDate); err != nil {
		return nil, &models.ValidationError{Field: "date", Message: "must be in YYYY-MM-DD format"}
	}

	// "Today" follows the configured timezone, not the server clock's UTC
	// day. ISO dates compare correctly as strings.
	baseURL := s.config.ForecastURL
	today := s.now().In(s.location).Format("2006-01-02")
	if startDate < today {
		baseURL = s.config.ArchiveURL
	}

	reqURL := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f&start_date=%s&end_date=%s&daily=%s&timezone=%s",
		baseURL, loc.Latitude, loc.Longitude, startDate, endDate,
		openMeteoDailyFields, url.QueryEscape(s.config.Timezone))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: upstream returned status %d", ErrWeatherUnavailable, resp.StatusCode)
	}

	var raw models.OpenMeteoDailyResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	return s.normalize(city, &raw), nil
}

// normalize converts the raw Open-Meteo daily arrays into per-day records.
// Sunshine duration arrives in seconds and is converted to hours; a
// missing daily mean falls back to (min+max)/2. Out-of-range indexes
// default to 0 so a truncated upstream response degrades instead of
// panicking.
func (s *WeatherService) normalize(city string, raw *models.OpenMeteoDailyResponse) []models.WeatherRecord {
	daily := raw.Daily
	records := make([]models.WeatherRecord, 0, len(daily.Time))

	for i, date := range daily.Time {
		record := models.WeatherRecord{
			City:           city,
			Date:           date,
			TemperatureMin: floatAt(daily.Temperature2mMin, i),
			TemperatureMax: floatAt(daily.Temperature2mMax, i),
			Precipitation:  floatAt(daily.PrecipitationSum, i),
			CloudCover:     floatAt(daily.CloudCoverMean, i),
			SunshineHours:  floatAt(daily.SunshineDuration, i) / 3600,
			WindSpeed:      floatAt(daily.WindSpeed10mMax, i),
		}

		if i < len(daily.Temperature2mMean) {
			record.TemperatureAvg = daily.Temperature2mMean[i]
		} else {
			record.TemperatureAvg = (record.TemperatureMin + record.TemperatureMax) / 2
		}

		records = append(records, record)
	}

	return records
}

func floatAt(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

func (s *WeatherService) getCachedWeather(ctx context.Context, city, date string) *models.WeatherRecord {
	if s.redis == nil {
		return nil
	}

	cached, err := s.redis.Get(ctx, weatherCacheKey(city, date)).Result()
	if err != nil {
		return nil
	}

	var record models.WeatherRecord
	if err := json.Unmarshal([]byte(cached), &record); err != nil {
		return nil
	}
	return &record
}

func (s *WeatherService) cacheWeather(ctx context.Context, city, date string, record *models.WeatherRecord) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(record)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, weatherCacheKey(city, date), data, s.config.CacheTTL).Err(); err != nil {
		s.logger.WithError(err).Warn("Failed to cache weather record")
	}
}

func weatherCacheKey(city, date string) string {
	return fmt.Sprintf("weather:%s:%s", models.NormalizeCity(city), date)
}
