package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// ValidationError is returned for malformed caller-supplied criteria or
// weights. It is surfaced to the caller before any scoring runs.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// CriteriaSet holds the caller's optional filter bounds. A nil field means
// "no constraint", never "reject".
type CriteriaSet struct {
	Difficulty       *int     `json:"difficulty,omitempty" form:"difficulty" validate:"omitempty,min=1,max=3"`
	TerrainType      *string  `json:"terrain_type,omitempty" form:"terrain_type"`
	MinLength        *float64 `json:"min_length,omitempty" form:"min_length" validate:"omitempty,gte=0"`
	MaxLength        *float64 `json:"max_length,omitempty" form:"max_length" validate:"omitempty,gte=0"`
	MinSunshine      *float64 `json:"min_sunshine,omitempty" form:"min_sunshine" validate:"omitempty,gte=0"`
	MaxPrecipitation *float64 `json:"max_precipitation,omitempty" form:"max_precipitation" validate:"omitempty,gte=0"`
	MinTemperature   *float64 `json:"min_temperature,omitempty" form:"min_temperature"`
	MaxTemperature   *float64 `json:"max_temperature,omitempty" form:"max_temperature"`
	Category         *string  `json:"category,omitempty" form:"category"`
}

// Validate rejects bounds that can never be satisfied. Empty criteria are
// always valid.
func (c *CriteriaSet) Validate() error {
	if c == nil {
		return nil
	}
	if c.Difficulty != nil && (*c.Difficulty < 1 || *c.Difficulty > 3) {
		return &ValidationError{Field: "difficulty", Message: "must be between 1 and 3"}
	}
	if c.MinLength != nil && *c.MinLength < 0 {
		return &ValidationError{Field: "min_length", Message: "must not be negative"}
	}
	if c.MaxLength != nil && *c.MaxLength < 0 {
		return &ValidationError{Field: "max_length", Message: "must not be negative"}
	}
	if c.MinLength != nil && c.MaxLength != nil && *c.MinLength > *c.MaxLength {
		return &ValidationError{Field: "min_length", Message: "must not exceed max_length"}
	}
	if c.MinTemperature != nil && c.MaxTemperature != nil && *c.MinTemperature > *c.MaxTemperature {
		return &ValidationError{Field: "min_temperature", Message: "must not exceed max_temperature"}
	}
	if c.MinSunshine != nil && *c.MinSunshine < 0 {
		return &ValidationError{Field: "min_sunshine", Message: "must not be negative"}
	}
	if c.MaxPrecipitation != nil && *c.MaxPrecipitation < 0 {
		return &ValidationError{Field: "max_precipitation", Message: "must not be negative"}
	}
	return nil
}

// HasWeatherCriteria reports whether any bound depends on weather data.
func (c *CriteriaSet) HasWeatherCriteria() bool {
	if c == nil {
		return false
	}
	return c.MinSunshine != nil || c.MaxPrecipitation != nil ||
		c.MinTemperature != nil || c.MaxTemperature != nil
}

// Scoring criterion names in declaration order. The order matters: the
// remainder of a partial weight specification is assigned to the last
// undeclared criterion.
const (
	WeightCriterionDifficulty = "difficulty"
	WeightCriterionLength     = "length"
	WeightCriterionWeather    = "weather"
	WeightCriterionTerrain    = "terrain"
)

// weightTolerance absorbs float rounding when checking the sum against 1.0.
const weightTolerance = 0.001

// WeightSpec is the caller-facing, partially-specified weight distribution.
// Nil fields are undeclared: the last undeclared criterion receives the
// remaining budget, any others receive zero.
type WeightSpec struct {
	Difficulty *float64 `json:"difficulty,omitempty" form:"weight_difficulty" validate:"omitempty,gte=0,lte=1"`
	Length     *float64 `json:"length,omitempty" form:"weight_length" validate:"omitempty,gte=0,lte=1"`
	Weather    *float64 `json:"weather,omitempty" form:"weight_weather" validate:"omitempty,gte=0,lte=1"`
	Terrain    *float64 `json:"terrain,omitempty" form:"weight_terrain" validate:"omitempty,gte=0,lte=1"`
}

// Empty reports whether no weight was declared at all.
func (s *WeightSpec) Empty() bool {
	return s == nil || (s.Difficulty == nil && s.Length == nil && s.Weather == nil && s.Terrain == nil)
}

// Resolve validates the declared weights and produces an immutable WeightSet. Each
// declared weight must fit in the budget remaining after the ones before
// it; the remainder is auto-assigned to the last undeclared criterion. The
// resolved set always sums to 1.0.
func (s *WeightSpec) Resolve() (WeightSet, error) {
	names := []string{
		WeightCriterionDifficulty,
		WeightCriterionLength,
		WeightCriterionWeather,
		WeightCriterionTerrain,
	}
	declared := map[string]*float64{
		WeightCriterionDifficulty: s.Difficulty,
		WeightCriterionLength:     s.Length,
		WeightCriterionWeather:    s.Weather,
		WeightCriterionTerrain:    s.Terrain,
	}

	resolved := make(map[string]float64, len(names))
	remaining := 1.0
	lastUndeclared := ""

	for _, name := range names {
		w := declared[name]
		if w == nil {
			lastUndeclared = name
			continue
		}
		if *w < 0 {
			return WeightSet{}, &ValidationError{Field: name, Message: "weight must not be negative"}
		}
		if *w > remaining+weightTolerance {
			return WeightSet{}, &ValidationError{
				Field:   name,
				Message: fmt.Sprintf("weight %.2f exceeds remaining budget %.2f", *w, remaining),
			}
		}
		resolved[name] = *w
		remaining -= *w
	}

	if lastUndeclared != "" {
		if remaining > 0 {
			resolved[lastUndeclared] = remaining
		}
	} else if math.Abs(remaining) > weightTolerance {
		return WeightSet{}, &ValidationError{
			Field:   "weights",
			Message: fmt.Sprintf("weights sum to %.2f, must sum to 1.0", 1.0-remaining),
		}
	}

	ws := WeightSet{
		Difficulty: resolved[WeightCriterionDifficulty],
		Length:     resolved[WeightCriterionLength],
		Weather:    resolved[WeightCriterionWeather],
		Terrain:    resolved[WeightCriterionTerrain],
	}
	return ws, ws.Validate()
}

// WeightSet is a fully-resolved weight distribution over the four scoring
// criteria. A zero-weighted criterion is excluded from the composite score
// entirely, not averaged in as neutral.
type WeightSet struct {
	Difficulty float64 `json:"difficulty"`
	Length     float64 `json:"length"`
	Weather    float64 `json:"weather"`
	Terrain    float64 `json:"terrain"`
}

// Sum returns the total of all weights.
func (w WeightSet) Sum() float64 {
	return w.Difficulty + w.Length + w.Weather + w.Terrain
}

// Validate checks that no weight is negative and the total is 1.0 within
// rounding tolerance.
func (w WeightSet) Validate() error {
	for name, v := range map[string]float64{
		WeightCriterionDifficulty: w.Difficulty,
		WeightCriterionLength:     w.Length,
		WeightCriterionWeather:    w.Weather,
		WeightCriterionTerrain:    w.Terrain,
	} {
		if v < 0 {
			return &ValidationError{Field: name, Message: "weight must not be negative"}
		}
	}
	if math.Abs(w.Sum()-1.0) > weightTolerance {
		return &ValidationError{
			Field:   "weights",
			Message: fmt.Sprintf("weights sum to %.4f, must sum to 1.0", w.Sum()),
		}
	}
	return nil
}

// RecommendationRequest is a single-city recommendation query.
type RecommendationRequest struct {
	City     string      `json:"city" form:"city" validate:"required"`
	Date     string      `json:"date" form:"date" validate:"required,datetime=2006-01-02"`
	Criteria CriteriaSet `json:"criteria"`
	Weights  *WeightSpec `json:"weights,omitempty"`
}

// MultiCityRecommendationRequest queries several cities at once. Each
// city's result block is computed and sorted independently and the blocks
// are concatenated in the given city order.
type MultiCityRecommendationRequest struct {
	Cities   []string    `json:"cities" validate:"required,min=1,max=20,dive,required"`
	Date     string      `json:"date" validate:"required,datetime=2006-01-02"`
	Criteria CriteriaSet `json:"criteria"`
	Weights  *WeightSpec `json:"weights,omitempty"`
}

// TrailStats summarizes a recommendation result set.
type TrailStats struct {
	Count         int     `json:"count"`
	AvgLengthKm   float64 `json:"avg_length_km"`
	TotalLengthKm float64 `json:"total_length_km"`
	AvgComfort    float64 `json:"avg_comfort,omitempty"`
}

type RecommendationResponse struct {
	RequestID   uuid.UUID      `json:"request_id"`
	City        string         `json:"city"`
	Date        string         `json:"date"`
	Trails      []RankedTrail  `json:"trails"`
	Weather     *WeatherRecord `json:"weather,omitempty"`
	Condition   string         `json:"weather_condition,omitempty"`
	Stats       *TrailStats    `json:"stats,omitempty"`
	GeneratedAt time.Time      `json:"generated_at"`
	CacheHit    bool           `json:"cache_hit"`
}

type MultiCityRecommendationResponse struct {
	RequestID   uuid.UUID     `json:"request_id"`
	Cities      []string      `json:"cities"`
	Date        string        `json:"date"`
	Trails      []RankedTrail `json:"trails"`
	Stats       *TrailStats   `json:"stats,omitempty"`
	GeneratedAt time.Time     `json:"generated_at"`
}
