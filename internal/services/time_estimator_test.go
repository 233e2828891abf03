package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/szlakly/trailrec/pkg/models"
)

func TestEstimateHikingTime(t *testing.T) {
	tests := []struct {
		name        string
		difficulty  int
		terrainType string
		lengthKm    float64
		expected    float64
	}{
		{
			name:        "easy urban trail at base speed",
			difficulty:  1,
			terrainType: models.TerrainUrban,
			lengthKm:    4.0,
			expected:    1.0,
		},
		{
			name:        "hard mountain trail",
			difficulty:  3,
			terrainType: models.TerrainMountain,
			lengthKm:    6.0,
			expected:    3.57, // 6 / (4 * 0.7 * 0.6)
		},
		{
			name:        "moderate forest trail",
			difficulty:  2,
			terrainType: models.TerrainForest,
			lengthKm:    10.0,
			expected:    3.47, // 10 / (4 * 0.8 * 0.9)
		},
		{
			name:        "english terrain alias folds to canonical",
			difficulty:  3,
			terrainType: "Mountain",
			lengthKm:    6.0,
			expected:    3.57,
		},
		{
			name:        "unknown terrain falls back to mixed pace",
			difficulty:  1,
			terrainType: "wulkaniczny",
			lengthKm:    3.2,
			expected:    1.0, // 3.2 / (4 * 1.0 * 0.8)
		},
		{
			name:        "unknown difficulty falls back to normal pace",
			difficulty:  7,
			terrainType: models.TerrainUrban,
			lengthKm:    4.0,
			expected:    1.0,
		},
		{
			name:        "zero length estimates to zero",
			difficulty:  2,
			terrainType: models.TerrainForest,
			lengthKm:    0.0,
			expected:    0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EstimateHikingTime(tt.difficulty, tt.terrainType, tt.lengthKm))
		})
	}
}
