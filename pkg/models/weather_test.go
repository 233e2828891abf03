package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeatherRecord_Condition(t *testing.T) {
	tests := []struct {
		name     string
		record   *WeatherRecord
		expected string
	}{
		{"nil record is unknown", nil, "unknown"},
		{"heavy rain wins over everything", &WeatherRecord{Precipitation: 6.0, SunshineHours: 10.0}, ConditionRainy},
		{"dense clouds", &WeatherRecord{CloudCover: 85.0}, ConditionOvercast},
		{"long sunshine", &WeatherRecord{SunshineHours: 7.5, CloudCover: 20.0}, ConditionSunny},
		{"nothing remarkable", &WeatherRecord{TemperatureAvg: 15.0, CloudCover: 50.0, SunshineHours: 4.0}, ConditionModerate},
		{"boundary precipitation is not rainy", &WeatherRecord{Precipitation: 5.0, SunshineHours: 7.0}, ConditionSunny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.record.Condition())
		})
	}
}
