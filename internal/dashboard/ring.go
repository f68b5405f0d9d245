package dashboard

import "math"

// Temperature range mapped onto the ring chart.
const (
	RingMinTempC = -20.0
	RingMaxTempC = 40.0
)

// TemperaturePercent maps a temperature linearly from
// [RingMinTempC, RingMaxTempC] onto 0..100, clamped and rounded.
func TemperaturePercent(tempC float64) int {
	if math.IsNaN(tempC) {
		return 0
	}
	p := (tempC - RingMinTempC) / (RingMaxTempC - RingMinTempC) * 100
	p = math.Max(0, math.Min(100, p))
	return int(math.Round(p))
}

// Ring is a two-segment ring chart: the filled share and the remainder.
type Ring struct {
	Percent int
}

// NewRing builds the ring for a temperature.
func NewRing(tempC float64) Ring {
	return Ring{Percent: TemperaturePercent(tempC)}
}

// Remainder is the unfilled share.
func (r Ring) Remainder() int {
	return 100 - r.Percent
}

// RestOffset is the SVG dash offset that starts the remainder segment where
// the filled one ends. Both segments start at 12 o'clock (offset 25 on a
// ring of circumference 100).
func (r Ring) RestOffset() int {
	return 25 - r.Percent
}
