package weather

import (
	"errors"
	"fmt"
	"math"
)

const (
	pascalsPerInchOfMercury = 3386.39
	pascalsPerHectopascal   = 100
	mphPerMetrePerSecond    = 2.237
	kmhPerMetrePerSecond    = 3.6
	metresPerSecondPerKnot  = 0.514444
	metresPerMile           = 1609.344
	metresPerKilometre      = 1000
	kilometresPerMile       = 1.609344
)

// ErrUnknownUnit is returned when a measurement carries a unit code that
// cannot be normalized.
var ErrUnknownUnit = errors.New("unknown unit code")

// UnitSystem selects the units the host-facing attributes are reported in.
type UnitSystem string

const (
	Imperial UnitSystem = "imperial"
	Metric   UnitSystem = "metric"
)

// UnitLabels names the unit of each reported quantity.
type UnitLabels struct {
	Temperature string
	Pressure    string
	WindSpeed   string
	Visibility  string
}

// Valid reports whether u is a supported unit system.
func (u UnitSystem) Valid() bool {
	return u == Imperial || u == Metric
}

// Labels returns the unit labels for u.
func (u UnitSystem) Labels() UnitLabels {
	if u == Metric {
		return UnitLabels{Temperature: "°C", Pressure: "hPa", WindSpeed: "km/h", Visibility: "km"}
	}
	return UnitLabels{Temperature: "°F", Pressure: "inHg", WindSpeed: "mph", Visibility: "mi"}
}

func (u UnitSystem) temperature(celsius float64) float64 {
	if u == Metric {
		return roundTo(celsius, 1)
	}
	return CelsiusToFahrenheit(celsius)
}

func (u UnitSystem) pressure(pa float64) float64 {
	if u == Metric {
		return PascalsToHectopascals(pa)
	}
	return PascalsToInHg(pa)
}

func (u UnitSystem) windSpeed(mps float64) int {
	if u == Metric {
		return MetresPerSecondToKmh(mps)
	}
	return MetresPerSecondToMph(mps)
}

func (u UnitSystem) visibility(m float64) int {
	if u == Metric {
		return MetresToKilometres(m)
	}
	return MetresToMiles(m)
}

// forecastTemperature converts a forecast temperature reported in unit
// ("F" or "C"; empty means F) into u.
func (u UnitSystem) forecastTemperature(t int, unit string) int {
	switch {
	case u == Metric && unit != "C":
		return int(math.Round(FahrenheitToCelsius(float64(t))))
	case u != Metric && unit == "C":
		return int(math.Round(float64(t)*1.8 + 32))
	}
	return t
}

// forecastWindSpeed converts a forecast wind speed given in mph.
func (u UnitSystem) forecastWindSpeed(mph int) int {
	if u == Metric {
		return int(math.Round(float64(mph) * kilometresPerMile))
	}
	return mph
}

// CelsiusToFahrenheit converts and rounds to one decimal.
func CelsiusToFahrenheit(c float64) float64 {
	return roundTo(c*1.8+32, 1)
}

// FahrenheitToCelsius converts without rounding.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) / 1.8
}

// PascalsToInHg converts and rounds to two decimals.
func PascalsToInHg(pa float64) float64 {
	return roundTo(pa/pascalsPerInchOfMercury, 2)
}

// PascalsToHectopascals converts and rounds to the nearest hectopascal.
func PascalsToHectopascals(pa float64) float64 {
	return math.Round(pa / pascalsPerHectopascal)
}

// MetresPerSecondToMph converts and rounds to the nearest integer.
func MetresPerSecondToMph(mps float64) int {
	return int(math.Round(mps * mphPerMetrePerSecond))
}

// MetresPerSecondToKmh converts and rounds to the nearest integer.
func MetresPerSecondToKmh(mps float64) int {
	return int(math.Round(mps * kmhPerMetrePerSecond))
}

// MetresToMiles converts and rounds to the nearest integer.
func MetresToMiles(m float64) int {
	return int(math.Round(m / metresPerMile))
}

// MetresToKilometres converts and rounds to the nearest integer.
func MetresToKilometres(m float64) int {
	return int(math.Round(m / metresPerKilometre))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// unitTable maps WMO unit codes of one quantity onto its base unit.
// The empty code is accepted as the base unit.
type unitTable struct {
	quantity string
	toBase   map[string]func(float64) float64
}

func identity(v float64) float64 { return v }

func scale(f float64) func(float64) float64 {
	return func(v float64) float64 { return v * f }
}

var (
	celsiusUnits = unitTable{"temperature", map[string]func(float64) float64{
		"":             identity,
		"wmoUnit:degC": identity,
		"wmoUnit:degF": FahrenheitToCelsius,
		"wmoUnit:K":    func(k float64) float64 { return k - 273.15 },
	}}
	pascalUnits = unitTable{"pressure", map[string]func(float64) float64{
		"":            identity,
		"wmoUnit:Pa":  identity,
		"wmoUnit:hPa": scale(pascalsPerHectopascal),
	}}
	metresPerSecondUnits = unitTable{"wind speed", map[string]func(float64) float64{
		"":               identity,
		"wmoUnit:m_s-1":  identity,
		"wmoUnit:km_h-1": scale(1 / kmhPerMetrePerSecond),
		"wmoUnit:kn":     scale(metresPerSecondPerKnot),
	}}
	metreUnits = unitTable{"length", map[string]func(float64) float64{
		"":           identity,
		"wmoUnit:m":  identity,
		"wmoUnit:km": scale(metresPerKilometre),
	}}
)

// normalize returns the measurement in the table's base unit. ok is false
// when the station did not report a value.
func (t unitTable) normalize(m Measurement) (v float64, ok bool, err error) {
	if m.Value == nil {
		return 0, false, nil
	}
	conv, known := t.toBase[m.UnitCode]
	if !known {
		return 0, false, fmt.Errorf("%w: %s in %q", ErrUnknownUnit, t.quantity, m.UnitCode)
	}
	return conv(*m.Value), true, nil
}
