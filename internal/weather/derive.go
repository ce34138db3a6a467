package weather

import (
	"errors"
	"fmt"
)

const Attribution = "Data from National Weather Service/NOAA"

// DeriveState converts the cached upstream records into the host-facing state
// reported in units. obs may be nil, in which case every observation attribute
// is absent. Measurements are normalized by their unit code first; a value
// with an unknown code is left absent.
// The returned error joins per-value failures; the state is still usable.
func DeriveState(meta State, obs *Observation, periods []ForecastPeriod, units UnitSystem) (State, error) {
	labels := units.Labels()
	st := meta
	st.Attribution = Attribution
	st.TemperatureUnit = labels.Temperature
	st.PressureUnit = labels.Pressure
	st.WindSpeedUnit = labels.WindSpeed
	st.VisibilityUnit = labels.Visibility

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("observation: %w", err))
		}
	}

	if obs != nil {
		var err error
		st.Temperature, err = convert(obs.Temperature, celsiusUnits, units.temperature)
		collect(err)
		st.Pressure, err = convert(obs.SeaLevelPressure, pascalUnits, units.pressure)
		collect(err)
		st.WindSpeed, err = convert(obs.WindSpeed, metresPerSecondUnits, units.windSpeed)
		collect(err)
		st.Visibility, err = convert(obs.Visibility, metreUnits, units.visibility)
		collect(err)

		st.Humidity = obs.RelativeHumidity.Value
		st.WindBearing = obs.WindDirection.Value
		st.TextDescription = obs.TextDescription
		if !obs.Timestamp.IsZero() {
			ts := obs.Timestamp.UTC()
			st.ObservedAt = &ts
		}

		st.Condition, err = ObservationCondition(*obs)
		collect(err)
	}

	forecast, err := DeriveForecast(periods, units)
	if err != nil {
		errs = append(errs, err)
	}
	st.Forecast = forecast

	return st, errors.Join(errs...)
}

// ObservationCondition classifies the icon of a current observation.
func ObservationCondition(obs Observation) (Condition, error) {
	desc, err := ParseIcon(obs.Icon)
	if err != nil {
		return "", err
	}
	cond, _ := Classify(desc)
	return cond, nil
}

// DeriveForecast converts every period into a ForecastEntry. A period whose
// icon cannot be parsed keeps its other attributes with condition and
// precipitation probability absent; the failures are returned joined.
func DeriveForecast(periods []ForecastPeriod, units UnitSystem) ([]ForecastEntry, error) {
	entries := make([]ForecastEntry, 0, len(periods))
	var errs []error
	for i, p := range periods {
		entry, err := deriveForecastEntry(p, units)
		if err != nil {
			errs = append(errs, fmt.Errorf("forecast period %d (%s): %w", i, p.Name, err))
		}
		entries = append(entries, entry)
	}
	return entries, errors.Join(errs...)
}

func deriveForecastEntry(p ForecastPeriod, units UnitSystem) (ForecastEntry, error) {
	entry := ForecastEntry{
		Datetime:            p.StartTime,
		DetailedDescription: p.DetailedForecast,
		Daytime:             "Night",
	}
	if p.IsDaytime {
		entry.Daytime = "Day"
	}
	if p.Temperature != nil {
		t := units.forecastTemperature(*p.Temperature, p.TemperatureUnit)
		entry.Temperature = &t
	}
	if b, ok := WindBearing(p.WindDirection); ok {
		entry.WindBearing = &b
	}
	if s, ok := ParseWindSpeed(p.WindSpeed); ok {
		s = units.forecastWindSpeed(s)
		entry.WindSpeed = &s
	}

	desc, err := ParseIcon(p.Icon)
	if err != nil {
		return entry, err
	}
	cond, prob := Classify(desc)
	entry.Condition = cond
	if prob > 0 {
		entry.PrecipitationProbability = &prob
	}
	return entry, nil
}

func convert[T any](m Measurement, table unitTable, conv func(float64) T) (*T, error) {
	v, ok, err := table.normalize(m)
	if err != nil || !ok {
		return nil, err
	}
	out := conv(v)
	return &out, nil
}
