package weather

import "testing"

func codes(tod TimeOfDay, cs ...string) IconDescriptor {
	d := IconDescriptor{TimeOfDay: tod}
	for _, c := range cs {
		d.Codes = append(d.Codes, CodeProbability{Code: c})
	}
	return d
}

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		desc IconDescriptor
		want Condition
	}{
		{codes(Day, "tsra", "ovc"), ConditionLightningRainy},
		{codes(Day, "ovc", "tsra"), ConditionLightningRainy},
		{codes(Day, "skc", "tsra", "ovc"), ConditionLightningRainy},
		{codes(Night, "rain", "snow"), ConditionSnowy},
		{codes(Day, "fzra", "tsra"), ConditionSnowyRainy},
		{codes(Day, "few", "bkn"), ConditionCloudy},
		{codes(Day, "wind_few", "fog"), ConditionWindy},
		{codes(Day, "wind_ovc", "wind_skc"), ConditionWindyVariant},
		{codes(Day, "fog", "skc"), ConditionFog},
		{codes(Night, "sct"), ConditionPartlyCloudy},
		{codes(Day, "rain_showers_hi"), ConditionRainy},
	}

	for _, tt := range tests {
		got, _ := Classify(tt.desc)
		if got != tt.want {
			t.Fatalf("codes %+v: expected %s, got %s", tt.desc.Codes, tt.want, got)
		}
	}
}

func TestClassifyClearByTimeOfDay(t *testing.T) {
	if got, _ := Classify(codes(Day, "skc")); got != ConditionSunny {
		t.Fatalf("expected %s, got %s", ConditionSunny, got)
	}
	if got, _ := Classify(codes(Night, "skc")); got != ConditionClearNight {
		t.Fatalf("expected %s, got %s", ConditionClearNight, got)
	}
}

func TestClassifyUnmappedCodePassesThrough(t *testing.T) {
	got, prob := Classify(codes(Day, "cold", "hot"))
	if got != Condition("cold") {
		t.Fatalf("expected raw code cold, got %s", got)
	}
	if prob != 0 {
		t.Fatalf("expected probability 0, got %d", prob)
	}
}

func TestClassifyMaxProbability(t *testing.T) {
	desc := IconDescriptor{
		TimeOfDay: Day,
		Codes: []CodeProbability{
			{Code: "skc"},
			{Code: "tsra", Probability: 40},
			{Code: "rain", Probability: 70},
		},
	}
	got, prob := Classify(desc)
	if got != ConditionLightningRainy {
		t.Fatalf("expected %s, got %s", ConditionLightningRainy, got)
	}
	if prob != 70 {
		t.Fatalf("expected probability 70, got %d", prob)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	desc := codes(Night, "ovc", "tsra_sct", "snow_fzra", "fog")
	first, _ := Classify(desc)
	for i := 0; i < 100; i++ {
		if got, _ := Classify(desc); got != first {
			t.Fatalf("run %d: expected %s, got %s", i, first, got)
		}
	}
}

func TestConditionClassOrder(t *testing.T) {
	want := []Condition{
		ConditionSnowy,
		ConditionSnowyRainy,
		ConditionHail,
		ConditionLightningRainy,
		ConditionLightning,
		ConditionPouring,
		ConditionRainy,
		ConditionWindyVariant,
		ConditionWindy,
		ConditionFog,
		conditionClear,
		ConditionCloudy,
		ConditionPartlyCloudy,
	}
	if len(conditionClasses) != len(want) {
		t.Fatalf("expected %d classes, got %d", len(want), len(conditionClasses))
	}
	for i, c := range conditionClasses {
		if c.condition != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], c.condition)
		}
	}
}

func TestClassifyEmpty(t *testing.T) {
	if got, prob := Classify(IconDescriptor{TimeOfDay: Day}); got != "" || prob != 0 {
		t.Fatalf("expected empty condition, got %q (%d)", got, prob)
	}
}
