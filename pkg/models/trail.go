package models

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Trail categories derived from length and difficulty.
const (
	CategoryFamily  = "family"
	CategoryScenic  = "scenic"
	CategorySport   = "sport"
	CategoryExtreme = "extreme"
)

// Canonical terrain types. Polish names are the canonical forms; English
// aliases from older catalog exports are folded onto them.
const (
	TerrainMountain  = "górski"
	TerrainForest    = "leśny"
	TerrainUrban     = "miejski"
	TerrainLowland   = "nizinny"
	TerrainRiverside = "riverside"
	TerrainMixed     = "mixed"
)

var terrainAliases = map[string]string{
	"mountain": TerrainMountain,
	"forest":   TerrainForest,
	"urban":    TerrainUrban,
	"lowland":  TerrainLowland,
}

var polishLower = cases.Lower(language.Polish)

// NormalizeCity folds a city name to its canonical lowercase form using
// Polish casing rules, so Gdańsk and GDAŃSK key the same catalog partition.
func NormalizeCity(city string) string {
	return polishLower.String(strings.TrimSpace(city))
}

// NormalizeTerrain lowercases a terrain type using Polish casing rules and
// maps English aliases onto the canonical Polish names. Unknown values are
// returned lowercased so unrecognized terrains still compare consistently.
func NormalizeTerrain(terrain string) string {
	t := polishLower.String(strings.TrimSpace(terrain))
	if canonical, ok := terrainAliases[t]; ok {
		return canonical
	}
	return t
}

type Trail struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" validate:"required,min=1,max=255"`
	City        string    `json:"city" db:"city" validate:"required"`
	Region      string    `json:"region,omitempty" db:"region"`
	LengthKm    float64   `json:"length_km" db:"length_km" validate:"gte=0"`
	Difficulty  int       `json:"difficulty" db:"difficulty" validate:"min=1,max=3"`
	TerrainType string    `json:"terrain_type" db:"terrain_type"`
	Category    string    `json:"category,omitempty" db:"category"`
	Description *string   `json:"description,omitempty" db:"description"`
}

// RankedTrail is a Trail annotated with per-run derived values. The
// annotations are never written back to the catalog.
type RankedTrail struct {
	Trail

	ComfortIndex  *float64 `json:"comfort_index,omitempty"`
	EstimatedTime float64  `json:"estimated_time"`
	SunshineHours *float64 `json:"sunshine_hours,omitempty"`
	WeightedScore *float64 `json:"weighted_score,omitempty"`
	Position      int      `json:"position"`
}

// DeriveCategory tags a trail from its length and difficulty. Short easy
// trails are family trips, long hard ones extreme, long mid-difficulty ones
// sport, everything else scenic.
func DeriveCategory(lengthKm float64, difficulty int) string {
	switch {
	case difficulty <= 1 && lengthKm <= 5:
		return CategoryFamily
	case difficulty >= 3 && lengthKm > 20:
		return CategoryExtreme
	case difficulty >= 2 && lengthKm > 15:
		return CategorySport
	default:
		return CategoryScenic
	}
}
