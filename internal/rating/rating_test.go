package rating

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateRatingTable(t *testing.T) {
	cases := []struct {
		score    int
		constant float64
		want     float64
	}{
		{1010000, 10.0, 12.15},
		{1009000, 10.0, 12.15},
		{1008999, 10.0, 12.1499},
		{1007500, 10.0, 12.0},
		{1006000, 10.0, 11.7},
		{1005000, 10.0, 11.5},
		{1000000, 10.0, 11.0},
		{987500, 10.0, 10.5},
		{975000, 10.0, 10.0},
		{962500, 10.0, 9.25},
		{950000, 10.0, 8.5},
		{925000, 10.0, 7.0},
		{900000, 10.0, 5.0},
		{899999, 10.0, 0.0},
		{0, 10.0, 0.0},
		{1009000, 13.0, 15.15},
	}
	for _, tc := range cases {
		got := CalculateRating(tc.score, tc.constant)
		if !almostEqual(got, tc.want) {
			t.Errorf("CalculateRating(%d, %v) = %v, want %v", tc.score, tc.constant, got, tc.want)
		}
	}
}

func TestCalculateRatingWithoutConstant(t *testing.T) {
	for _, score := range []int{0, 500000, 900000, 975000, 1009000, 1010000} {
		if got := CalculateRating(score, 0); got != 0 {
			t.Fatalf("CalculateRating(%d, 0) = %v, want 0", score, got)
		}
		if got := CalculateRating(score, math.NaN()); got != 0 {
			t.Fatalf("CalculateRating(%d, NaN) = %v, want 0", score, got)
		}
	}
}

func TestCalculateRatingNeverNegative(t *testing.T) {
	for score := 0; score <= MaxScore; score += 2500 {
		if got := CalculateRating(score, 1.0); got < 0 {
			t.Fatalf("CalculateRating(%d, 1.0) = %v, want >= 0", score, got)
		}
	}
}

func TestClassifyRank(t *testing.T) {
	cases := []struct {
		score int
		label string
		color string
	}{
		{1010000, "SSS+", "#FFD700"},
		{1009000, "SSS+", "#FFD700"},
		{1008999, "SSS", "#ffdf75"},
		{1007500, "SSS", "#ffdf75"},
		{1005000, "SS+", "#e88aff"},
		{1000000, "SS", "#e88aff"},
		{975000, "S", "#e88aff"},
		{974999, "AAA", "#f44336"},
		{950000, "AAA", "#f44336"},
		{925000, "AA", "#f44336"},
		{900000, "A", "#f44336"},
		{800000, "BBB", "#2196F3"},
		{700000, "BB", "#2196F3"},
		{600000, "B", "#2196F3"},
		{500000, "C", "#795548"},
		{499999, "D", "#9E9E9E"},
		{0, "D", "#9E9E9E"},
	}
	for _, tc := range cases {
		got := ClassifyRank(tc.score)
		if got.Label != tc.label || got.Color != tc.color {
			t.Errorf("ClassifyRank(%d) = %+v, want %s %s", tc.score, got, tc.label, tc.color)
		}
	}
}

func TestAverage(t *testing.T) {
	if got := Average(nil); got != 0 {
		t.Fatalf("Average(nil) = %v, want 0", got)
	}
	if got := Average([]float64{15.15}); !almostEqual(got, 15.15) {
		t.Fatalf("Average single = %v, want 15.15", got)
	}
	if got := Average([]float64{10, 12, 14}); !almostEqual(got, 12) {
		t.Fatalf("Average = %v, want 12", got)
	}
}
