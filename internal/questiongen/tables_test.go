package questiongen

import (
	"math"
	"testing"
)

func TestPlaceValue(t *testing.T) {
	tests := []struct {
		number, digit string
		want          float64
	}{
		{"4567", "5", 500},
		{"4567", "7", 7},
		{"3.14", "1", 0.1},
		{"3.14", "4", 0.04},
		{"3.14", "3", 3},
		{"4567", "9", 0},
	}
	for _, tc := range tests {
		got := PlaceValue(tc.number, tc.digit)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("PlaceValue(%q, %q) = %v, want %v", tc.number, tc.digit, got, tc.want)
		}
	}
	if !math.IsNaN(PlaceValue("123", "x")) {
		t.Error("expected NaN for a non-digit")
	}
}

func TestRoundToNearest(t *testing.T) {
	tests := []struct {
		num, nearest, want float64
	}{
		{47, 10, 50},
		{44, 10, 40},
		{45, 10, 50},
		{1234, 100, 1200},
		{1250, 100, 1300},
	}
	for _, tc := range tests {
		if got := RoundToNearest(tc.num, tc.nearest); got != tc.want {
			t.Errorf("RoundToNearest(%v, %v) = %v, want %v", tc.num, tc.nearest, got, tc.want)
		}
	}
}

func TestTables_Lookups(t *testing.T) {
	tb := DefaultTables()

	if got := tb.SymmetryCount("square"); got.String() != "4" {
		t.Errorf("square symmetry = %q", got.String())
	}
	if got := tb.SymmetryCount("Circle"); got.String() != "infinite" {
		t.Errorf("circle symmetry = %q", got.String())
	}
	if got := tb.SymmetryCount("blob"); got.String() != "0" {
		t.Errorf("unknown symmetry = %q", got.String())
	}
	if got := tb.DaysInMonth("february"); got != 28 {
		t.Errorf("february = %d", got)
	}
	if got := tb.DaysInMonth("Smarch"); got != 30 {
		t.Errorf("unknown month = %d", got)
	}
	if got := tb.ShapeSides("Octagon"); got != 8 {
		t.Errorf("octagon sides = %d", got)
	}
	if got := tb.Shape3DProperty("pyramid", "vertices"); got != 5 {
		t.Errorf("pyramid vertices = %d", got)
	}
	if got := tb.Convert(2, "km", "m"); got != 2000 {
		t.Errorf("2km in m = %v", got)
	}
	if got := tb.Convert(3, "stone", "kg"); got != 3 {
		t.Errorf("unknown conversion = %v", got)
	}
	if got := tb.PrimesBetween(10, 20); len(got) != 4 {
		t.Errorf("primes between 10 and 20 = %v", got)
	}
}

func TestTables_PoolsAreCopies(t *testing.T) {
	tb := DefaultTables()
	names := tb.Names()
	names[0] = "Mallory"
	if tb.Names()[0] == "Mallory" {
		t.Error("Names exposed the shared pool")
	}
}

func TestClockHelpers(t *testing.T) {
	if got := FormatTime(9, 5); got != "9:05" {
		t.Errorf("FormatTime = %q", got)
	}
	if got := FormatTime12(0, 5); got != "12:05 AM" {
		t.Errorf("FormatTime12(0, 5) = %q", got)
	}
	if got := FormatTime12(12, 0); got != "12:00 PM" {
		t.Errorf("FormatTime12(12, 0) = %q", got)
	}
	if h, m := AddMinutes(23, 50, 20); h != 0 || m != 10 {
		t.Errorf("AddMinutes wrap = %d:%d", h, m)
	}
	if h, m := AddMinutes(0, 10, -20); h != 23 || m != 50 {
		t.Errorf("AddMinutes backwards = %d:%d", h, m)
	}
	if h, m, ok := parseClock("1:30 PM"); !ok || h != 13 || m != 30 {
		t.Errorf("parseClock(1:30 PM) = %d, %d, %v", h, m, ok)
	}
	if h, _, ok := parseClock("12:15 AM"); !ok || h != 0 {
		t.Errorf("parseClock(12:15 AM) hour = %d, %v", h, ok)
	}
	if _, _, ok := parseClock("9.30"); ok {
		t.Error("parseClock accepted 9.30")
	}
}
