package weather

import (
	"errors"
	"testing"
)

func TestDeriveForecastIsolatesBadIcon(t *testing.T) {
	periods := append(sampleForecast(), ForecastPeriod{
		Name:          "Tonight",
		StartTime:     "2018-12-21T18:00:00-05:00",
		Temperature:   integer(33),
		WindSpeed:     "5 mph",
		WindDirection: "NW",
		Icon:          "not-an-icon",
	})

	entries, err := DeriveForecast(periods, Imperial)
	if !errors.Is(err, ErrMalformedIcon) {
		t.Fatalf("expected ErrMalformedIcon, got %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected both periods, got %d", len(entries))
	}
	if entries[0].Condition != ConditionLightningRainy {
		t.Fatalf("expected first period unaffected, got %s", entries[0].Condition)
	}

	bad := entries[1]
	if bad.Condition != "" || bad.PrecipitationProbability != nil {
		t.Fatalf("expected condition and probability absent, got %+v", bad)
	}
	if bad.Temperature == nil || *bad.Temperature != 33 {
		t.Fatalf("expected temperature kept, got %v", bad.Temperature)
	}
	if bad.WindBearing == nil || *bad.WindBearing != 315 {
		t.Fatalf("expected bearing 315, got %v", bad.WindBearing)
	}
	if bad.Daytime != "Night" {
		t.Fatalf("expected Night, got %s", bad.Daytime)
	}
}

func TestDeriveForecastZeroProbabilityIsAbsent(t *testing.T) {
	entries, err := DeriveForecast([]ForecastPeriod{{
		Icon: "https://api.weather.gov/icons/land/day/few",
	}}, Imperial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries[0].PrecipitationProbability != nil {
		t.Fatalf("expected absent probability, got %d", *entries[0].PrecipitationProbability)
	}
	if entries[0].WindSpeed != nil || entries[0].WindBearing != nil {
		t.Fatalf("expected absent wind fields")
	}
}

func TestDeriveStateNilObservation(t *testing.T) {
	st, err := DeriveState(State{Station: "STNA"}, nil, nil, Imperial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Temperature != nil || st.Pressure != nil || st.Condition != "" {
		t.Fatalf("expected absent attributes, got %+v", st)
	}
	if st.TemperatureUnit != "°F" || st.PressureUnit != "inHg" {
		t.Fatalf("expected units to be set, got %+v", st)
	}
}

func TestDeriveStateBadObservationIcon(t *testing.T) {
	obs := sampleObservation()
	obs.Icon = ""
	st, err := DeriveState(State{}, &obs, nil, Imperial)
	if !errors.Is(err, ErrMalformedIcon) {
		t.Fatalf("expected ErrMalformedIcon, got %v", err)
	}
	if st.Condition != "" {
		t.Fatalf("expected absent condition, got %s", st.Condition)
	}
	if st.Humidity == nil || *st.Humidity != 10 {
		t.Fatalf("expected humidity to survive, got %v", st.Humidity)
	}
}

func TestDeriveStateNormalizesUnitCodes(t *testing.T) {
	obs := sampleObservation()
	obs.Temperature = Measurement{Value: float(44.6), UnitCode: "wmoUnit:degF"}
	obs.SeaLevelPressure = Measurement{Value: float(300), UnitCode: "wmoUnit:hPa"}
	obs.WindSpeed = Measurement{Value: float(36), UnitCode: "wmoUnit:km_h-1"}
	obs.Visibility = Measurement{Value: float(10), UnitCode: "wmoUnit:km"}

	st, err := DeriveState(State{}, &obs, nil, Imperial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Temperature == nil || *st.Temperature != 44.6 {
		t.Fatalf("expected temperature 44.6, got %v", st.Temperature)
	}
	if st.Pressure == nil || *st.Pressure != 8.86 {
		t.Fatalf("expected pressure 8.86, got %v", st.Pressure)
	}
	if st.WindSpeed == nil || *st.WindSpeed != 22 {
		t.Fatalf("expected wind speed 22 for 36 km/h, got %v", st.WindSpeed)
	}
	if st.Visibility == nil || *st.Visibility != 6 {
		t.Fatalf("expected visibility 6, got %v", st.Visibility)
	}

	st, err = DeriveState(State{}, &obs, nil, Metric)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.WindSpeed == nil || *st.WindSpeed != 36 {
		t.Fatalf("expected wind speed 36 km/h, got %v", st.WindSpeed)
	}
}

func TestDeriveStateUnknownUnitCode(t *testing.T) {
	obs := sampleObservation()
	obs.WindSpeed = Measurement{Value: float(10), UnitCode: "wmoUnit:furlong_fortnight-1"}

	st, err := DeriveState(State{}, &obs, nil, Imperial)
	if !errors.Is(err, ErrUnknownUnit) {
		t.Fatalf("expected ErrUnknownUnit, got %v", err)
	}
	if st.WindSpeed != nil {
		t.Fatalf("expected wind speed absent, got %d", *st.WindSpeed)
	}
	if st.Temperature == nil || *st.Temperature != 44.6 {
		t.Fatalf("expected temperature to survive, got %v", st.Temperature)
	}
}
