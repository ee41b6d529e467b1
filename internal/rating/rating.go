package rating

import "math"

// Score boundaries shared by the rating formula and the rank table.
const (
	MaxScore = 1010000

	scoreSSSPlus = 1009000
	scoreSSS     = 1007500
	scoreSSPlus  = 1005000
	scoreSS      = 1000000
	scoreS       = 975000
	scoreAAA     = 950000
	scoreAA      = 925000
	scoreA       = 900000
)

// CalculateRating returns the play rating for score on a chart with the given
// constant. A zero constant means the chart was not found in the constants
// table and always yields 0.
func CalculateRating(score int, constant float64) float64 {
	if constant == 0 || math.IsNaN(constant) {
		return 0.0
	}
	s := float64(score)
	var r float64
	switch {
	case score >= scoreSSSPlus:
		r = constant + 2.15
	case score >= scoreSSS:
		r = constant + 2.0 + (s-scoreSSS)*0.0001
	case score >= scoreSSPlus:
		r = constant + 1.5 + (s-scoreSSPlus)*0.0002
	case score >= scoreSS:
		r = constant + 1.0 + (s-scoreSS)*0.0001
	case score >= scoreS:
		r = constant + (s-scoreS)/25000
	case score >= scoreAAA:
		r = constant - 1.5 + (s-scoreAAA)/25000*1.5
	case score >= scoreAA:
		r = constant - 3.0 + (s-scoreAA)/25000*1.5
	case score >= scoreA:
		r = constant - 5.0 + (s-scoreA)/25000*2.0
	default:
		return 0.0
	}
	// low constants with A/AA scores would go negative
	return math.Max(r, 0)
}

// Average is the arithmetic mean of values, 0 for an empty slice.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
