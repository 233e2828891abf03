package models

// WeatherRecord holds the daily weather for exactly one (city, date) pair.
// All fields are normalized: temperatures in °C, precipitation in mm,
// cloud cover in percent, sunshine in hours, wind in km/h. Fields absent in
// the upstream response default to 0 so the scoring pipeline never sees
// missing-data sentinels.
type WeatherRecord struct {
	City           string  `json:"city"`
	Date           string  `json:"date"`
	TemperatureMin float64 `json:"temperature_min"`
	TemperatureMax float64 `json:"temperature_max"`
	TemperatureAvg float64 `json:"temperature_avg"`
	Precipitation  float64 `json:"precipitation"`
	CloudCover     float64 `json:"cloud_cover"`
	SunshineHours  float64 `json:"sunshine_hours"`
	WindSpeed      float64 `json:"wind_speed"`
}

// Weather condition labels attached at the presentation boundary.
const (
	ConditionRainy    = "rainy"
	ConditionOvercast = "overcast"
	ConditionSunny    = "sunny"
	ConditionModerate = "moderate"
)

// Condition classifies the overall state of the day's weather.
func (w *WeatherRecord) Condition() string {
	if w == nil {
		return "unknown"
	}
	switch {
	case w.Precipitation > 5:
		return ConditionRainy
	case w.CloudCover > 70:
		return ConditionOvercast
	case w.SunshineHours > 6:
		return ConditionSunny
	default:
		return ConditionModerate
	}
}

// OpenMeteoDailyResponse mirrors the daily section of the Open-Meteo
// forecast and archive APIs. Sunshine duration arrives in seconds.
type OpenMeteoDailyResponse struct {
	Daily struct {
		Time              []string  `json:"time"`
		Temperature2mMin  []float64 `json:"temperature_2m_min"`
		Temperature2mMax  []float64 `json:"temperature_2m_max"`
		Temperature2mMean []float64 `json:"temperature_2m_mean"`
		PrecipitationSum  []float64 `json:"precipitation_sum"`
		CloudCoverMean    []float64 `json:"cloud_cover_mean"`
		SunshineDuration  []float64 `json:"sunshine_duration"`
		WindSpeed10mMax   []float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

// WeatherResponse wraps a weather record for the HTTP API.
type WeatherResponse struct {
	Weather   *WeatherRecord `json:"weather,omitempty"`
	Condition string         `json:"condition"`
	Available bool           `json:"available"`
}
