package weather

// conditionClass binds a condition to the NWS icon codes that select it.
type conditionClass struct {
	condition Condition
	codes     []string
}

// conditionClasses is evaluated top to bottom; the first class sharing a code
// with an icon wins. Empty classes keep their slot so the ordering stays
// aligned with the host's condition list.
// Known NWS codes that do not map: cold.
var conditionClasses = []conditionClass{
	{ConditionSnowy, []string{"snow", "snow_sleet", "sleet", "blizzard"}},
	{ConditionSnowyRainy, []string{"rain_snow", "rain_sleet", "fzra", "rain_fzra", "snow_fzra"}},
	{ConditionHail, nil},
	{ConditionLightningRainy, []string{"tsra", "tsra_sct", "tsra_hi"}},
	{ConditionLightning, nil},
	{ConditionPouring, nil},
	{ConditionRainy, []string{"rain", "rain_showers", "rain_showers_hi"}},
	{ConditionWindyVariant, []string{"wind_bkn", "wind_ovc"}},
	{ConditionWindy, []string{"wind_skc", "wind_few", "wind_sct"}},
	{ConditionFog, []string{"fog"}},
	{conditionClear, []string{"skc"}},
	{ConditionCloudy, []string{"bkn", "ovc"}},
	{ConditionPartlyCloudy, []string{"few", "sct"}},
}

// Classify picks a single condition for the decoded icon and returns it with
// the highest probability among its codes.
//
// If no class matches, the first code is passed through verbatim.
func Classify(desc IconDescriptor) (Condition, int) {
	if len(desc.Codes) == 0 {
		return "", 0
	}

	maxProb := 0
	for _, c := range desc.Codes {
		if c.Probability > maxProb {
			maxProb = c.Probability
		}
	}

	cond := Condition(desc.Codes[0].Code)
	for _, class := range conditionClasses {
		if class.matches(desc.Codes) {
			cond = class.condition
			break
		}
	}

	if cond == conditionClear {
		switch desc.TimeOfDay {
		case Day:
			cond = ConditionSunny
		case Night:
			cond = ConditionClearNight
		}
	}
	return cond, maxProb
}

func (c conditionClass) matches(codes []CodeProbability) bool {
	for _, cp := range codes {
		for _, code := range c.codes {
			if cp.Code == code {
				return true
			}
		}
	}
	return false
}
