package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/szlakly/trailrec/internal/config"
	"github.com/szlakly/trailrec/internal/messaging"
	"github.com/szlakly/trailrec/pkg/models"
)

// RecommendationOrchestrator joins the trail catalog with weather data for
// a city and date, filters candidates against the caller's criteria,
// enriches survivors with comfort and time estimates, ranks them and
// returns the ordered list.
//
// Catalog and weather failures degrade rather than abort: a missing
// catalog yields an empty result, missing weather disables the
// weather-dependent criteria and comfort enrichment per the filter rules.
// Only criteria and weight validation errors surface to the caller.
type RecommendationOrchestrator struct {
	catalog *TrailCatalogService
	weather WeatherProviderInterface
	filter  *CriteriaFilter
	comfort *ComfortService
	scorer  *WeightedScorer
	events  RecommendationEventPublisher
	redis   *redis.Client
	config  *config.ScoringConfig
	logger  *logrus.Logger

	recommendationsTotal *prometheus.CounterVec
	trailsReturned       prometheus.Histogram
	cacheHits            prometheus.Counter
}

func NewRecommendationOrchestrator(
	catalog *TrailCatalogService,
	weather WeatherProviderInterface,
	filter *CriteriaFilter,
	comfort *ComfortService,
	scorer *WeightedScorer,
	events RecommendationEventPublisher,
	redisClient *redis.Client,
	cfg *config.ScoringConfig,
	logger *logrus.Logger,
) *RecommendationOrchestrator {
	o := &RecommendationOrchestrator{
		catalog: catalog,
		weather: weather,
		filter:  filter,
		comfort: comfort,
		scorer:  scorer,
		events:  events,
		redis:   redisClient,
		config:  cfg,
		logger:  logger,
	}

	o.recommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trailrec_recommendations_total",
		Help: "Number of recommendation requests served, by city and outcome",
	}, []string{"city", "outcome"})

	o.trailsReturned = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trailrec_trails_returned",
		Help:    "Number of trails returned per recommendation",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	})

	o.cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trailrec_recommendation_cache_hits_total",
		Help: "Number of recommendation requests answered from cache",
	})

	for _, c := range []prometheus.Collector{o.recommendationsTotal, o.trailsReturned, o.cacheHits} {
		if err := prometheus.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				logger.WithError(err).Warn("Failed to register recommendation metric")
			}
		}
	}

	return o
}

// Recommend serves a single-city recommendation request.
func (o *RecommendationOrchestrator) Recommend(
	ctx context.Context,
	req *models.RecommendationRequest,
) (*models.RecommendationResponse, error) {
	// Validation errors surface before any data is fetched or scored.
	if err := req.Criteria.Validate(); err != nil {
		return nil, err
	}

	var weights *models.WeightSet
	if !req.Weights.Empty() {
		resolved, err := req.Weights.Resolve()
		if err != nil {
			return nil, err
		}
		weights = &resolved
	}

	if cached := o.getCachedResponse(ctx, req, weights); cached != nil {
		o.cacheHits.Inc()
		o.logger.WithFields(logrus.Fields{"city": req.City, "date": req.Date}).
			Debug("Recommendation cache hit")
		return cached, nil
	}

	weather := o.fetchWeather(ctx, req.City, req.Date)
	trails := o.rankCity(ctx, req.City, req.Date, weather, &req.Criteria, weights)

	response := &models.RecommendationResponse{
		RequestID:   uuid.New(),
		City:        req.City,
		Date:        req.Date,
		Trails:      trails,
		Weather:     weather,
		Condition:   weather.Condition(),
		Stats:       ComputeTrailStats(trails),
		GeneratedAt: time.Now(),
	}

	o.recommendationsTotal.WithLabelValues(models.NormalizeCity(req.City), "ok").Inc()
	o.trailsReturned.Observe(float64(len(trails)))
	o.publishEvent(ctx, response, weights != nil)
	o.cacheResponse(ctx, req, weights, response)

	o.logger.WithFields(logrus.Fields{
		"city":     req.City,
		"date":     req.Date,
		"trails":   len(trails),
		"weighted": weights != nil,
	}).Info("Recommendation generated")

	return response, nil
}

// RecommendMulti serves several cities in one request. Each city's block
// is computed and sorted independently and the blocks are concatenated in
// the requested city order; there is no global resort across cities.
func (o *RecommendationOrchestrator) RecommendMulti(
	ctx context.Context,
	req *models.MultiCityRecommendationRequest,
) (*models.MultiCityRecommendationResponse, error) {
	if err := req.Criteria.Validate(); err != nil {
		return nil, err
	}

	var weights *models.WeightSet
	if !req.Weights.Empty() {
		resolved, err := req.Weights.Resolve()
		if err != nil {
			return nil, err
		}
		weights = &resolved
	}

	var combined []models.RankedTrail
	for _, city := range req.Cities {
		weather := o.fetchWeather(ctx, city, req.Date)
		block := o.rankCity(ctx, city, req.Date, weather, &req.Criteria, weights)
		combined = append(combined, block...)
	}

	// Positions are renumbered over the concatenated list; within-block
	// order is untouched.
	for i := range combined {
		combined[i].Position = i + 1
	}

	response := &models.MultiCityRecommendationResponse{
		RequestID:   uuid.New(),
		Cities:      req.Cities,
		Date:        req.Date,
		Trails:      combined,
		Stats:       ComputeTrailStats(combined),
		GeneratedAt: time.Now(),
	}

	o.logger.WithFields(logrus.Fields{
		"cities": len(req.Cities),
		"date":   req.Date,
		"trails": len(combined),
	}).Info("Multi-city recommendation generated")

	return response, nil
}

// rankCity runs the filter -> enrich -> score -> sort pipeline for one
// city over its own isolated data.
func (o *RecommendationOrchestrator) rankCity(
	ctx context.Context,
	city, date string,
	weather *models.WeatherRecord,
	criteria *models.CriteriaSet,
	weights *models.WeightSet,
) []models.RankedTrail {
	trails, err := o.catalog.GetTrailsForCity(ctx, city)
	if err != nil {
		// Catalog trouble degrades to an empty block for this city; other
		// cities in a multi-city request still get their results.
		o.logger.WithError(err).WithField("city", city).Warn("Failed to fetch trail catalog")
		o.recommendationsTotal.WithLabelValues(models.NormalizeCity(city), "catalog_error").Inc()
		return []models.RankedTrail{}
	}

	filtered := o.filter.FilterTrails(trails, weather, criteria)

	ranked := make([]models.RankedTrail, 0, len(filtered))
	for _, trail := range filtered {
		rt := models.RankedTrail{
			Trail:         trail,
			EstimatedTime: EstimateHikingTime(trail.Difficulty, trail.TerrainType, trail.LengthKm),
		}
		if weather != nil {
			comfort := o.comfort.HikingComfort(weather)
			sunshine := weather.SunshineHours
			rt.ComfortIndex = &comfort
			rt.SunshineHours = &sunshine
		}
		if weights != nil {
			score := o.scorer.Score(rt, *weights)
			rt.WeightedScore = &score
		}
		ranked = append(ranked, rt)
	}

	o.sortRanked(ranked, weights != nil)

	for i := range ranked {
		ranked[i].Position = i + 1
	}

	return ranked
}

// sortRanked orders a city block. With weights the order is descending by
// weighted score; without, ascending by (difficulty, length). Both sorts
// are stable so ties keep their catalog order.
func (o *RecommendationOrchestrator) sortRanked(trails []models.RankedTrail, weighted bool) {
	if weighted {
		sort.SliceStable(trails, func(i, j int) bool {
			return scoreOf(trails[i]) > scoreOf(trails[j])
		})
		return
	}

	sort.SliceStable(trails, func(i, j int) bool {
		if trails[i].Difficulty != trails[j].Difficulty {
			return trails[i].Difficulty < trails[j].Difficulty
		}
		return trails[i].LengthKm < trails[j].LengthKm
	})
}

func scoreOf(t models.RankedTrail) float64 {
	if t.WeightedScore == nil {
		return 0
	}
	return *t.WeightedScore
}

// fetchWeather tolerates missing weather: absence is a degraded mode, not
// a failure.
func (o *RecommendationOrchestrator) fetchWeather(ctx context.Context, city, date string) *models.WeatherRecord {
	weather, err := o.weather.GetWeather(ctx, city, date)
	if err != nil {
		entry := o.logger.WithError(err).WithFields(logrus.Fields{"city": city, "date": date})
		if errors.Is(err, ErrWeatherUnavailable) || errors.Is(err, ErrUnknownCity) {
			entry.Info("No weather data for request, continuing without it")
		} else {
			entry.Warn("Weather fetch failed, continuing without weather data")
		}
		return nil
	}
	return weather
}

func (o *RecommendationOrchestrator) publishEvent(ctx context.Context, resp *models.RecommendationResponse, weighted bool) {
	if o.events == nil {
		return
	}

	event := messaging.RecommendationEvent{
		RequestID:  resp.RequestID,
		City:       resp.City,
		Date:       resp.Date,
		TrailCount: len(resp.Trails),
		Weighted:   weighted,
		CacheHit:   resp.CacheHit,
		Timestamp:  resp.GeneratedAt,
	}

	if err := o.events.PublishRecommendationEvent(ctx, event); err != nil {
		o.logger.WithError(err).Warn("Failed to publish recommendation event")
	}
}

// Cache operations

func (o *RecommendationOrchestrator) getCachedResponse(
	ctx context.Context,
	req *models.RecommendationRequest,
	weights *models.WeightSet,
) *models.RecommendationResponse {
	if o.redis == nil {
		return nil
	}

	cached, err := o.redis.Get(ctx, recommendationCacheKey(req, weights)).Result()
	if err != nil {
		return nil
	}

	var response models.RecommendationResponse
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		return nil
	}

	response.CacheHit = true
	return &response
}

func (o *RecommendationOrchestrator) cacheResponse(
	ctx context.Context,
	req *models.RecommendationRequest,
	weights *models.WeightSet,
	response *models.RecommendationResponse,
) {
	if o.redis == nil {
		return
	}

	data, err := json.Marshal(response)
	if err != nil {
		return
	}

	if err := o.redis.Set(ctx, recommendationCacheKey(req, weights), data, o.config.CacheTTL).Err(); err != nil {
		o.logger.WithError(err).Warn("Failed to cache recommendation response")
	}
}

func recommendationCacheKey(req *models.RecommendationRequest, weights *models.WeightSet) string {
	criteria, _ := json.Marshal(req.Criteria)
	weightsPart := "none"
	if weights != nil {
		w, _ := json.Marshal(weights)
		weightsPart = string(w)
	}
	return fmt.Sprintf("recommendation:%s:%s:%s:%s",
		models.NormalizeCity(req.City), req.Date, criteria, weightsPart)
}
