package services

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/szlakly/trailrec/pkg/models"
)

// ComputeTrailStats summarizes a ranked result set: trail count, average
// and total length, and average comfort over the trails that have one.
func ComputeTrailStats(trails []models.RankedTrail) *models.TrailStats {
	if len(trails) == 0 {
		return &models.TrailStats{}
	}

	lengths := make([]float64, len(trails))
	var comforts []float64
	for i, t := range trails {
		lengths[i] = t.LengthKm
		if t.ComfortIndex != nil {
			comforts = append(comforts, *t.ComfortIndex)
		}
	}

	stats := &models.TrailStats{
		Count:         len(trails),
		AvgLengthKm:   round2(stat.Mean(lengths, nil)),
		TotalLengthKm: round2(sum(lengths)),
	}
	if len(comforts) > 0 {
		stats.AvgComfort = round2(stat.Mean(comforts, nil))
	}
	return stats
}

// WeatherWindowStats aggregates a multi-day weather window.
type WeatherWindowStats struct {
	Days               int     `json:"days"`
	AvgTemperature     float64 `json:"avg_temperature"`
	TemperatureStdDev  float64 `json:"temperature_std_dev"`
	TotalPrecipitation float64 `json:"total_precipitation"`
	AvgSunshineHours   float64 `json:"avg_sunshine_hours"`
}

// ComputeWeatherStats aggregates daily records into window statistics:
// mean temperature with its spread, total precipitation, mean sunshine.
func ComputeWeatherStats(records []models.WeatherRecord) *WeatherWindowStats {
	if len(records) == 0 {
		return &WeatherWindowStats{}
	}

	temps := make([]float64, len(records))
	precip := make([]float64, len(records))
	sunshine := make([]float64, len(records))
	for i, r := range records {
		temps[i] = r.TemperatureAvg
		precip[i] = r.Precipitation
		sunshine[i] = r.SunshineHours
	}

	return &WeatherWindowStats{
		Days:               len(records),
		AvgTemperature:     round2(stat.Mean(temps, nil)),
		TemperatureStdDev:  round2(stat.StdDev(temps, nil)),
		TotalPrecipitation: round2(sum(precip)),
		AvgSunshineHours:   round2(stat.Mean(sunshine, nil)),
	}
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func round2(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Round(v*100) / 100
}
