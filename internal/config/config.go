package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/i474232898/nws-weather/internal/nws"
	"github.com/i474232898/nws-weather/internal/weather"
)

// ErrMissingLocation is returned when latitude or longitude is not configured.
var ErrMissingLocation = errors.New("latitude/longitude not set in config")

var validate = validator.New()

type AppConfig struct {
	// Name of the weather entity; defaults to the station identifier.
	Name      string
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
	// Station overrides automatic station selection.
	Station string
	// UserID identifies this installation to the NWS API.
	UserID     string `validate:"required"`
	APIBaseURL string `validate:"required,url"`

	UpdateInterval  time.Duration `validate:"gt=0"`
	RequestTimeout  time.Duration `validate:"gt=0"`
	HTTPTimeout     time.Duration `validate:"gt=0"`
	StationCacheTTL time.Duration
	StaleAfter      time.Duration
	RateLimitRPS    float64 `validate:"gte=0"`

	ObservationLimit int `validate:"gte=1,lte=50"`

	// Mode selects the day/night or hourly forecast.
	Mode  string `validate:"oneof=daynight hourly"`
	Units string `validate:"oneof=imperial metric"`

	Port string `validate:"required,numeric"`

	// MQTT publishing is disabled when MQTTBroker is empty.
	MQTTBroker   string
	MQTTTopic    string
	MQTTClientID string

	LogLevel string `validate:"oneof=debug info warn error"`
	LogFile  string
}

// Location returns the configured coordinates.
func (c *AppConfig) Location() weather.Location {
	return weather.Location{Latitude: c.Latitude, Longitude: c.Longitude}
}

// Load reads configuration from an optional nws-weather config file and
// NWS_* environment variables (a .env file is loaded first when present).
func Load() (*AppConfig, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("nws-weather")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper builds the configuration from an existing viper instance,
// applying defaults and environment bindings.
func FromViper(v *viper.Viper) (*AppConfig, error) {
	v.SetEnvPrefix("NWS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api_base_url", nws.DefaultBaseURL)
	v.SetDefault("update_interval", weather.MinTimeBetweenUpdates)
	v.SetDefault("request_timeout", weather.RequestTimeout)
	v.SetDefault("http_timeout", 15*time.Second)
	v.SetDefault("station_cache_ttl", 24*time.Hour)
	v.SetDefault("stale_after", time.Hour)
	v.SetDefault("rate_limit_rps", 1.0)
	v.SetDefault("observation_limit", 1)
	v.SetDefault("mode", string(weather.DayNight))
	v.SetDefault("units", string(weather.Imperial))
	v.SetDefault("port", "8080")
	v.SetDefault("mqtt_client_id", "nws-weather")
	v.SetDefault("log_level", "info")

	if !v.IsSet("latitude") || !v.IsSet("longitude") {
		return nil, ErrMissingLocation
	}

	cfg := &AppConfig{
		Name:             v.GetString("name"),
		Latitude:         v.GetFloat64("latitude"),
		Longitude:        v.GetFloat64("longitude"),
		Station:          v.GetString("station"),
		UserID:           v.GetString("userid"),
		APIBaseURL:       v.GetString("api_base_url"),
		UpdateInterval:   v.GetDuration("update_interval"),
		RequestTimeout:   v.GetDuration("request_timeout"),
		HTTPTimeout:      v.GetDuration("http_timeout"),
		StationCacheTTL:  v.GetDuration("station_cache_ttl"),
		StaleAfter:       v.GetDuration("stale_after"),
		RateLimitRPS:     v.GetFloat64("rate_limit_rps"),
		ObservationLimit: v.GetInt("observation_limit"),
		Mode:             strings.ToLower(v.GetString("mode")),
		Units:            strings.ToLower(v.GetString("units")),
		Port:             v.GetString("port"),
		MQTTBroker:       v.GetString("mqtt_broker"),
		MQTTTopic:        v.GetString("mqtt_topic"),
		MQTTClientID:     v.GetString("mqtt_client_id"),
		LogLevel:         strings.ToLower(v.GetString("log_level")),
		LogFile:          v.GetString("log_file"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
