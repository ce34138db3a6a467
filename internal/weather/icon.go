package weather

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedIcon is returned when an icon URL cannot be decoded into weather codes.
var ErrMalformedIcon = errors.New("malformed icon url")

// TimeOfDay marks whether an icon describes day or night conditions.
type TimeOfDay string

const (
	Day   TimeOfDay = "day"
	Night TimeOfDay = "night"
)

// Icon URLs look like https://api.weather.gov/icons/land/day/skc/tsra,40/ovc?size=medium.
// Splitting on "/" puts the time of day at index 5 and weather codes after it.
const (
	timeOfDaySegment = 5
	firstCodeSegment = 6
)

// CodeProbability is one weather code with its probability in percent.
type CodeProbability struct {
	Code        string
	Probability int
}

// IconDescriptor is the decoded form of an icon URL.
type IconDescriptor struct {
	TimeOfDay TimeOfDay
	Codes     []CodeProbability
}

// ParseIcon decodes an icon URL into its time of day and ordered weather codes.
// A code without an explicit probability gets probability 0.
func ParseIcon(icon string) (IconDescriptor, error) {
	path, _, _ := strings.Cut(icon, "?")
	segments := strings.Split(path, "/")
	if len(segments) <= firstCodeSegment {
		return IconDescriptor{}, fmt.Errorf("%w: %q has %d segments", ErrMalformedIcon, icon, len(segments))
	}

	tod := TimeOfDay(segments[timeOfDaySegment])
	if tod != Day && tod != Night {
		return IconDescriptor{}, fmt.Errorf("%w: unknown time of day %q", ErrMalformedIcon, tod)
	}

	desc := IconDescriptor{
		TimeOfDay: tod,
		Codes:     make([]CodeProbability, 0, len(segments)-firstCodeSegment),
	}
	for _, seg := range segments[firstCodeSegment:] {
		if seg == "" {
			continue
		}
		code, prob, hasProb := strings.Cut(seg, ",")
		cp := CodeProbability{Code: code}
		if hasProb {
			n, err := strconv.Atoi(prob)
			if err != nil || n < 0 || n > 100 {
				return IconDescriptor{}, fmt.Errorf("%w: bad probability in %q", ErrMalformedIcon, seg)
			}
			cp.Probability = n
		}
		desc.Codes = append(desc.Codes, cp)
	}

	if len(desc.Codes) == 0 {
		return IconDescriptor{}, fmt.Errorf("%w: %q has no weather codes", ErrMalformedIcon, icon)
	}
	return desc, nil
}
