package weather

import (
	"math"
	"strconv"
	"strings"
)

var windDirections = [...]string{
	"N", "NNE", "NE", "ENE",
	"E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW",
	"W", "WNW", "NW", "NNW",
}

// windBearings maps compass points to degrees; read-only after init.
var windBearings = func() map[string]float64 {
	m := make(map[string]float64, len(windDirections))
	for i, d := range windDirections {
		m[d] = float64(i) * 360 / float64(len(windDirections))
	}
	return m
}()

// WindBearing returns the bearing in degrees for a 16-point compass direction.
func WindBearing(direction string) (float64, bool) {
	b, ok := windBearings[strings.ToUpper(strings.TrimSpace(direction))]
	return b, ok
}

// ParseWindSpeed reads forecast wind strings such as "10 mph" or "8 to 10 mph"
// and returns the mean of the numbers found, rounded to the nearest integer.
func ParseWindSpeed(s string) (int, bool) {
	var (
		sum float64
		n   int
	)
	for _, field := range strings.Fields(s) {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return int(math.Round(sum / float64(n))), true
}
