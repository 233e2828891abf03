package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Weather    WeatherConfig    `mapstructure:"weather"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Comfort    ComfortConfig    `mapstructure:"comfort"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Security   SecurityConfig   `mapstructure:"security"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MaxIdleTime    time.Duration `mapstructure:"max_idle_time"`
	MaxLifetime    time.Duration `mapstructure:"max_lifetime"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	URL        string        `mapstructure:"url"`
	MaxRetries int           `mapstructure:"max_retries"`
	PoolSize   int           `mapstructure:"pool_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topics  struct {
		RecommendationEvents string `mapstructure:"recommendation_events"`
	} `mapstructure:"topics"`
}

type AuthConfig struct {
	JWTSecret string          `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration   `mapstructure:"token_ttl"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Default int           `mapstructure:"default"`
	Premium int           `mapstructure:"premium"`
	Window  time.Duration `mapstructure:"window"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// WeatherConfig drives the Open-Meteo client. Forecast and archive use
// separate base URLs; past dates go to the archive endpoint.
type WeatherConfig struct {
	ForecastURL string             `mapstructure:"forecast_url"`
	ArchiveURL  string             `mapstructure:"archive_url"`
	Timeout     time.Duration      `mapstructure:"timeout"`
	CacheTTL    time.Duration      `mapstructure:"cache_ttl"`
	Timezone    string             `mapstructure:"timezone"`
	Cities      map[string]CityLoc `mapstructure:"cities"`
}

type CityLoc struct {
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
}

type CatalogConfig struct {
	SeedFile string `mapstructure:"seed_file"`
}

// ComfortConfig holds the comfort-model calibration. The defaults are the
// canonical 35/25/20/10/10 calibration with an 18-22°C temperature optimum;
// the weights must sum to 1.0.
type ComfortConfig struct {
	TemperatureWeight   float64 `mapstructure:"temperature_weight"`
	PrecipitationWeight float64 `mapstructure:"precipitation_weight"`
	CloudCoverWeight    float64 `mapstructure:"cloud_cover_weight"`
	WindWeight          float64 `mapstructure:"wind_weight"`
	SunshineWeight      float64 `mapstructure:"sunshine_weight"`

	OptimalTempMin    float64 `mapstructure:"optimal_temp_min"`
	OptimalTempMax    float64 `mapstructure:"optimal_temp_max"`
	ColdPenaltySlope  float64 `mapstructure:"cold_penalty_slope"`
	HeatPenaltySlope  float64 `mapstructure:"heat_penalty_slope"`
	PrecipitationRate float64 `mapstructure:"precipitation_rate"`
}

type ScoringConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type MonitoringConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
}

type SecurityConfig struct {
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

func Load() (*Config, error) {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, continue with env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "development")

	// Database defaults
	viper.SetDefault("database.max_connections", 25)
	viper.SetDefault("database.max_idle_time", "15m")
	viper.SetDefault("database.max_lifetime", "1h")
	viper.SetDefault("database.connect_timeout", "10s")

	// Redis defaults
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.timeout", "5s")

	// Auth defaults
	viper.SetDefault("auth.token_ttl", "24h")
	viper.SetDefault("auth.rate_limit.default", 1000)
	viper.SetDefault("auth.rate_limit.premium", 10000)
	viper.SetDefault("auth.rate_limit.window", "1h")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	// Weather defaults
	viper.SetDefault("weather.forecast_url", "https://api.open-meteo.com/v1/forecast")
	viper.SetDefault("weather.archive_url", "https://archive-api.open-meteo.com/v1/archive")
	viper.SetDefault("weather.timeout", "10s")
	viper.SetDefault("weather.cache_ttl", "30m")
	viper.SetDefault("weather.timezone", "Europe/Warsaw")
	viper.SetDefault("weather.cities.gdańsk.latitude", 54.3520)
	viper.SetDefault("weather.cities.gdańsk.longitude", 18.6466)
	viper.SetDefault("weather.cities.warszawa.latitude", 52.2297)
	viper.SetDefault("weather.cities.warszawa.longitude", 21.0122)
	viper.SetDefault("weather.cities.kraków.latitude", 50.0647)
	viper.SetDefault("weather.cities.kraków.longitude", 19.9450)
	viper.SetDefault("weather.cities.wrocław.latitude", 51.1079)
	viper.SetDefault("weather.cities.wrocław.longitude", 17.0385)

	// Catalog defaults
	viper.SetDefault("catalog.seed_file", "")

	// Comfort model calibration defaults
	viper.SetDefault("comfort.temperature_weight", 0.35)
	viper.SetDefault("comfort.precipitation_weight", 0.25)
	viper.SetDefault("comfort.cloud_cover_weight", 0.20)
	viper.SetDefault("comfort.wind_weight", 0.10)
	viper.SetDefault("comfort.sunshine_weight", 0.10)
	viper.SetDefault("comfort.optimal_temp_min", 18.0)
	viper.SetDefault("comfort.optimal_temp_max", 22.0)
	viper.SetDefault("comfort.cold_penalty_slope", 8.0)
	viper.SetDefault("comfort.heat_penalty_slope", 10.0)
	viper.SetDefault("comfort.precipitation_rate", 25.0)

	// Scoring defaults
	viper.SetDefault("scoring.cache_ttl", "15m")

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", true)
	viper.SetDefault("monitoring.metrics_path", "/metrics")

	// Security defaults
	viper.SetDefault("security.cors.allowed_origins", []string{"*"})
	viper.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	viper.SetDefault("security.cors.allowed_headers", []string{"*"})
}
