package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/szlakly/trailrec/pkg/models"
)

// RenderTextReport renders a recommendation result as a plain-text
// report, one block per trail.
func RenderTextReport(resp *models.RecommendationResponse) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Trail recommendations for %s on %s\n", resp.City, resp.Date)
	if resp.Weather != nil {
		fmt.Fprintf(&b, "Weather: %s, %.1f°C, precipitation %.1f mm, sunshine %.1f h\n",
			resp.Condition, resp.Weather.TemperatureAvg, resp.Weather.Precipitation, resp.Weather.SunshineHours)
	} else {
		b.WriteString("Weather: unavailable\n")
	}
	fmt.Fprintf(&b, "Matching trails: %d\n", len(resp.Trails))
	b.WriteString(strings.Repeat("=", 60) + "\n")

	for _, t := range resp.Trails {
		fmt.Fprintf(&b, "%d. %s\n", t.Position, t.Name)
		fmt.Fprintf(&b, "   City: %s", t.City)
		if t.Region != "" {
			fmt.Fprintf(&b, " (%s)", t.Region)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "   Length: %.1f km, difficulty: %d, terrain: %s\n",
			t.LengthKm, t.Difficulty, t.TerrainType)
		fmt.Fprintf(&b, "   Estimated time: %.2f h\n", t.EstimatedTime)
		if t.Category != "" {
			fmt.Fprintf(&b, "   Category: %s\n", t.Category)
		}
		if t.ComfortIndex != nil {
			fmt.Fprintf(&b, "   Comfort index: %.1f/100\n", *t.ComfortIndex)
		}
		if t.WeightedScore != nil {
			fmt.Fprintf(&b, "   Weighted score: %.2f\n", *t.WeightedScore)
		}
		if t.Description != nil && *t.Description != "" {
			fmt.Fprintf(&b, "   %s\n", *t.Description)
		}
		b.WriteString(strings.Repeat("-", 60) + "\n")
	}

	if stats := resp.Stats; stats != nil && stats.Count > 0 {
		fmt.Fprintf(&b, "Average length: %.2f km, total: %.2f km\n",
			stats.AvgLengthKm, stats.TotalLengthKm)
	}

	return b.String()
}

// WriteCSV writes a recommendation result as CSV rows. Optional columns
// are left empty when the underlying value is missing.
func WriteCSV(w io.Writer, trails []models.RankedTrail) error {
	cw := csv.NewWriter(w)

	header := []string{
		"position", "name", "city", "region", "length_km", "difficulty",
		"terrain_type", "category", "estimated_time_h", "comfort_index",
		"sunshine_hours", "weighted_score",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, t := range trails {
		row := []string{
			strconv.Itoa(t.Position),
			t.Name,
			t.City,
			t.Region,
			strconv.FormatFloat(t.LengthKm, 'f', 1, 64),
			strconv.Itoa(t.Difficulty),
			t.TerrainType,
			t.Category,
			strconv.FormatFloat(t.EstimatedTime, 'f', 2, 64),
			optionalFloat(t.ComfortIndex, 1),
			optionalFloat(t.SunshineHours, 1),
			optionalFloat(t.WeightedScore, 2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func optionalFloat(v *float64, prec int) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}
