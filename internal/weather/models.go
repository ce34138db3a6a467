package weather

import (
	"fmt"
	"time"
)

// Condition represents a normalized weather condition label as understood by
// home-automation hosts.
type Condition string

const (
	ConditionClearNight     Condition = "clear-night"
	ConditionCloudy         Condition = "cloudy"
	ConditionFog            Condition = "fog"
	ConditionHail           Condition = "hail"
	ConditionLightning      Condition = "lightning"
	ConditionLightningRainy Condition = "lightning-rainy"
	ConditionPartlyCloudy   Condition = "partlycloudy"
	ConditionPouring        Condition = "pouring"
	ConditionRainy          Condition = "rainy"
	ConditionSnowy          Condition = "snowy"
	ConditionSnowyRainy     Condition = "snowy-rainy"
	ConditionSunny          Condition = "sunny"
	ConditionWindy          Condition = "windy"
	ConditionWindyVariant   Condition = "windy-variant"

	// conditionClear is resolved to ConditionSunny or ConditionClearNight
	// depending on the time of day and never leaves the package.
	conditionClear Condition = "clear"
)

// Location is the geographic point an entity reports for.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Key returns the unique id for an entity at this location.
func (l Location) Key() string {
	return fmt.Sprintf("%v_%v", l.Latitude, l.Longitude)
}

// Measurement is a single quality-controlled value reported by a station.
// A nil Value means the station did not report it.
type Measurement struct {
	Value          *float64 `json:"value"`
	UnitCode       string   `json:"unitCode,omitempty"`
	QualityControl string   `json:"qualityControl,omitempty"`
}

// Observation is one current-conditions record as returned by the upstream API.
type Observation struct {
	Timestamp        time.Time   `json:"timestamp"`
	TextDescription  string      `json:"textDescription"`
	Icon             string      `json:"icon"`
	Temperature      Measurement `json:"temperature"`
	RelativeHumidity Measurement `json:"relativeHumidity"`
	SeaLevelPressure Measurement `json:"seaLevelPressure"`
	WindSpeed        Measurement `json:"windSpeed"`
	WindDirection    Measurement `json:"windDirection"`
	Visibility       Measurement `json:"visibility"`
}

// ForecastPeriod is one forecast window as returned by the upstream API.
type ForecastPeriod struct {
	Number           int    `json:"number"`
	Name             string `json:"name"`
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
	IsDaytime        bool   `json:"isDaytime"`
	Temperature      *int   `json:"temperature"`
	TemperatureUnit  string `json:"temperatureUnit"`
	WindSpeed        string `json:"windSpeed"`
	WindDirection    string `json:"windDirection"`
	Icon             string `json:"icon"`
	ShortForecast    string `json:"shortForecast"`
	DetailedForecast string `json:"detailedForecast"`
}

// ForecastEntry is the host-facing view of a single forecast period.
// Pointer fields are nil when the value is unavailable.
type ForecastEntry struct {
	Datetime                 string    `json:"datetime"`
	Temperature              *int      `json:"temperature"`
	WindSpeed                *int      `json:"wind_speed"`
	WindBearing              *float64  `json:"wind_bearing"`
	Condition                Condition `json:"condition,omitempty"`
	PrecipitationProbability *int      `json:"precipitation_probability"`
	Daytime                  string    `json:"daytime"`
	DetailedDescription      string    `json:"detailed_description"`
}

// State is the full attribute set an entity exposes to the host.
type State struct {
	UniqueID        string    `json:"unique_id"`
	Name            string    `json:"name"`
	Station         string    `json:"station"`
	Attribution     string    `json:"attribution"`
	Condition       Condition `json:"condition,omitempty"`
	TextDescription string    `json:"text_description,omitempty"`

	Temperature     *float64 `json:"temperature"`
	TemperatureUnit string   `json:"temperature_unit"`
	Humidity        *float64 `json:"humidity"`
	Pressure        *float64 `json:"pressure"`
	PressureUnit    string   `json:"pressure_unit"`
	WindSpeed       *int     `json:"wind_speed"`
	WindSpeedUnit   string   `json:"wind_speed_unit"`
	WindBearing     *float64 `json:"wind_bearing"`
	Visibility      *int     `json:"visibility"`
	VisibilityUnit  string   `json:"visibility_unit"`

	Forecast []ForecastEntry `json:"forecast"`

	ObservedAt *time.Time `json:"observed_at,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"` // always UTC
}
