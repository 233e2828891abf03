package services

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/szlakly/trailrec/pkg/models"
)

// terrainPreferenceScores ranks terrain types by general hiking appeal,
// independent of any requested terrain filter.
var terrainPreferenceScores = map[string]float64{
	models.TerrainMountain: 90,
	models.TerrainForest:   85,
	models.TerrainLowland:  80,
	models.TerrainUrban:    70,
}

const defaultTerrainPreference = 75.0

// Length bands for the length sub-score: 5-15 km is the sweet spot.
const (
	lengthScoreShort   = 70.0
	lengthScoreOptimal = 100.0
	lengthScoreLong    = 80.0
	lengthScoreExtreme = 60.0
)

// WeightedScorer blends difficulty, length, weather comfort and terrain
// preference into a single 0-100 composite per a caller-supplied weight
// distribution. The WeightSet must be validated before scoring begins; the
// scorer assumes it sums to 1.0.
type WeightedScorer struct {
	logger *logrus.Logger
}

func NewWeightedScorer(logger *logrus.Logger) *WeightedScorer {
	return &WeightedScorer{logger: logger}
}

// Score computes the weighted composite, rounded to 2 decimals. Criteria
// with zero weight are skipped entirely rather than multiplied by zero:
// they are not considered, not neutrally averaged in.
func (s *WeightedScorer) Score(trail models.RankedTrail, weights models.WeightSet) float64 {
	score := 0.0

	if weights.Difficulty > 0 {
		score += difficultyScore(trail.Difficulty) * weights.Difficulty
	}

	if weights.Length > 0 {
		score += lengthScore(trail.LengthKm) * weights.Length
	}

	if weights.Weather > 0 && trail.ComfortIndex != nil {
		// No comfort index attached means the weather term contributes
		// nothing; a neutral substitute would overrank trails with
		// unknown conditions.
		score += *trail.ComfortIndex * weights.Weather
	}

	if weights.Terrain > 0 {
		score += terrainScore(trail.TerrainType) * weights.Terrain
	}

	return math.Round(score*100) / 100
}

// difficultyScore inverts the 1-3 scale onto 0-100: easier trails score
// higher.
func difficultyScore(difficulty int) float64 {
	if difficulty < 1 || difficulty > 3 {
		difficulty = 1
	}
	return float64(4-difficulty) * 33.33
}

func lengthScore(lengthKm float64) float64 {
	switch {
	case lengthKm < 5:
		return lengthScoreShort
	case lengthKm <= 15:
		return lengthScoreOptimal
	case lengthKm <= 25:
		return lengthScoreLong
	default:
		return lengthScoreExtreme
	}
}

func terrainScore(terrainType string) float64 {
	if score, ok := terrainPreferenceScores[models.NormalizeTerrain(terrainType)]; ok {
		return score
	}
	return defaultTerrainPreference
}
