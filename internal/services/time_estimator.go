package services

import (
	"math"

	"github.com/szlakly/trailrec/pkg/models"
)

// baseHikingSpeed is the walking speed on flat easy ground in km/h.
const baseHikingSpeed = 4.0

// difficultyMultipliers slow the pace down as trails get harder. Unknown
// difficulty falls back to normal pace.
var difficultyMultipliers = map[int]float64{
	1: 1.0,
	2: 0.8,
	3: 0.7,
}

// terrainMultipliers scale the pace per terrain type. Keys are canonical
// lowercased terrain names; unknown terrain falls back to 0.8.
var terrainMultipliers = map[string]float64{
	models.TerrainMountain:  0.6,
	models.TerrainForest:    0.9,
	models.TerrainUrban:     1.0,
	models.TerrainLowland:   1.0,
	models.TerrainRiverside: 0.9,
	models.TerrainMixed:     0.8,
}

const (
	defaultDifficultyMultiplier = 1.0
	defaultTerrainMultiplier    = 0.8
)

// EstimateHikingTime returns the estimated traverse duration in hours,
// rounded to 2 decimals. The effective speed is the base speed scaled by
// the difficulty and terrain multipliers; none of the table entries is
// zero, so the division is always defined. A zero-length trail estimates
// to 0.0 hours, which is valid.
func EstimateHikingTime(difficulty int, terrainType string, lengthKm float64) float64 {
	diffMult, ok := difficultyMultipliers[difficulty]
	if !ok {
		diffMult = defaultDifficultyMultiplier
	}

	terrainMult, ok := terrainMultipliers[models.NormalizeTerrain(terrainType)]
	if !ok {
		terrainMult = defaultTerrainMultiplier
	}

	effectiveSpeed := baseHikingSpeed * diffMult * terrainMult
	hours := lengthKm / effectiveSpeed

	return math.Round(hours*100) / 100
}
