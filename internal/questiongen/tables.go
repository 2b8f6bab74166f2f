package questiongen

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Tables holds the read-only lookup data used by parameter draws and helper
// functions. Build it once with DefaultTables and share the pointer; it has
// no mutators.
type Tables struct {
	names       []string
	busStops    []string
	letters     []string
	shapeSides  map[string]int
	shape3D     map[string]solid
	symmetry    map[string]int
	daysInMonth map[string]int
	conversions map[string]map[string]float64
	primes      []int
}

type solid struct{ faces, edges, vertices int }

// infiniteSymmetry marks shapes with unlimited lines of symmetry.
const infiniteSymmetry = -1

var defaultTables = &Tables{
	names: []string{
		"Alice", "Bob", "Charlie", "Diana", "Ethan", "Fiona",
		"George", "Hannah", "Isaac", "Julia", "Kevin", "Laura",
		"Michael", "Nina", "Oliver", "Penny", "Quinn", "Rachel",
		"Sam", "Tara", "Uma", "Victor", "Wendy", "Xavier", "Yara", "Zoe",
	},
	busStops: []string{"Central Station", "Park Avenue", "Main Street", "Shopping Center"},
	letters:  []string{"x", "y", "z", "a", "b"},
	shapeSides: map[string]int{
		"triangle": 3, "square": 4, "rectangle": 4,
		"pentagon": 5, "hexagon": 6, "heptagon": 7, "octagon": 8,
	},
	shape3D: map[string]solid{
		"cube":              {6, 12, 8},
		"rectangular prism": {6, 12, 8},
		"cylinder":          {3, 2, 0},
		"sphere":            {1, 0, 0},
		"cone":              {2, 1, 1},
		"pyramid":           {5, 8, 5},
	},
	symmetry: map[string]int{
		"square": 4, "rectangle": 2, "circle": infiniteSymmetry,
		"equilateral triangle": 3, "isosceles triangle": 1,
		"triangle": 0, "hexagon": 6, "pentagon": 5,
	},
	daysInMonth: map[string]int{
		"january": 31, "february": 28, "march": 31, "april": 30,
		"may": 31, "june": 30, "july": 31, "august": 31,
		"september": 30, "october": 31, "november": 30, "december": 31,
	},
	conversions: map[string]map[string]float64{
		"km": {"m": 1000},
		"m":  {"cm": 100, "km": 1.0 / 1000},
		"cm": {"mm": 10, "m": 1.0 / 100},
		"kg": {"g": 1000},
		"g":  {"kg": 1.0 / 1000},
		"L":  {"mL": 1000},
		"mL": {"L": 1.0 / 1000},
	},
	primes: []int{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47},
}

// DefaultTables returns the shared built-in tables.
func DefaultTables() *Tables { return defaultTables }

// Names returns the pool used by "name" parameters.
func (t *Tables) Names() []string { return slices.Clone(t.names) }

// BusStops returns the pool used by "busStop" parameters.
func (t *Tables) BusStops() []string { return slices.Clone(t.busStops) }

// Letters returns the pool used by "letter" parameters.
func (t *Tables) Letters() []string { return slices.Clone(t.letters) }

// ShapeSides returns the side count of a polygon, 0 if unknown.
func (t *Tables) ShapeSides(shape string) int {
	return t.shapeSides[normalizeKey(shape)]
}

// Shape3DProperty returns faces, edges or vertices of a named solid, 0 if
// unknown.
func (t *Tables) Shape3DProperty(shape, property string) int {
	s, ok := t.shape3D[normalizeKey(shape)]
	if !ok {
		return 0
	}
	switch normalizeKey(property) {
	case "faces":
		return s.faces
	case "edges":
		return s.edges
	case "vertices":
		return s.vertices
	}
	return 0
}

// SymmetryCount returns the number of lines of symmetry: a number, the
// string "infinite", or 0 for unknown shapes.
func (t *Tables) SymmetryCount(shape string) Value {
	n, ok := t.symmetry[normalizeKey(shape)]
	if !ok {
		return Number(0)
	}
	if n == infiniteSymmetry {
		return String("infinite")
	}
	return Number(float64(n))
}

// DaysInMonth returns the non-leap day count for a month name, 30 if the
// name is unknown.
func (t *Tables) DaysInMonth(month string) int {
	if d, ok := t.daysInMonth[normalizeKey(month)]; ok {
		return d
	}
	return 30
}

// Convert converts value between metric units; unknown pairs return value
// unchanged.
func (t *Tables) Convert(value float64, from, to string) float64 {
	if factor, ok := t.conversions[from][to]; ok {
		return value * factor
	}
	return value
}

// PrimesBetween returns the known primes in [lo, hi].
func (t *Tables) PrimesBetween(lo, hi int) []int {
	var out []int
	for _, p := range t.primes {
		if p >= lo && p <= hi {
			out = append(out, p)
		}
	}
	return out
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// PlaceValue returns the value contributed by the first occurrence of digit
// in number, e.g. PlaceValue("4567", "5") == 500 and
// PlaceValue("3.14", "1") == 0.1. A digit that does not occur yields 0.
func PlaceValue(number, digit string) float64 {
	d, err := strconv.Atoi(strings.TrimSpace(digit))
	if err != nil || d < 0 || d > 9 {
		return math.NaN()
	}
	digitPos := strings.Index(number, strconv.Itoa(d))
	if digitPos < 0 {
		return 0
	}
	var place int
	decimalPos := strings.IndexByte(number, '.')
	switch {
	case decimalPos < 0:
		place = len(number) - digitPos - 1
	case digitPos < decimalPos:
		place = decimalPos - digitPos - 1
	default:
		place = -(digitPos - decimalPos)
	}
	return roundPlaces(float64(d)*math.Pow(10, float64(place)), 10)
}

// RoundToNearest rounds num to the nearest multiple of nearest, halves
// rounding up. A zero step yields NaN.
func RoundToNearest(num, nearest float64) float64 {
	if nearest == 0 {
		return math.NaN()
	}
	return math.Floor(num/nearest+0.5) * nearest
}

// CompareSymbol returns "<", ">" or "=".
func CompareSymbol(a, b float64) string {
	switch {
	case a < b:
		return "<"
	case a > b:
		return ">"
	}
	return "="
}

// EvenOdd returns "even" or "odd".
func EvenOdd(n float64) string {
	if math.Mod(n, 2) == 0 {
		return "even"
	}
	return "odd"
}

// FractionOf returns floor(total × n/d) for a fraction written "n/d".
func FractionOf(fraction string, total float64) (float64, bool) {
	n, d, ok := parseFraction(fraction)
	if !ok || d == 0 {
		return 0, false
	}
	return math.Floor(total * n / d), true
}

// FormatTime renders a 24-hour time as "H:MM".
func FormatTime(hour, minute int) string {
	return strconv.Itoa(hour) + ":" + pad2(minute)
}

// FormatTime12 renders a 24-hour time as "H:MM AM/PM".
func FormatTime12(hour, minute int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h := hour
	switch {
	case hour == 0:
		h = 12
	case hour > 12:
		h = hour - 12
	}
	return strconv.Itoa(h) + ":" + pad2(minute) + " " + suffix
}

// AddMinutes adds minutes to a clock time, wrapping past midnight.
func AddMinutes(hour, minute, add int) (int, int) {
	total := hour*60 + minute + add
	total = ((total % (24 * 60)) + 24*60) % (24 * 60)
	return total / 60, total % 60
}

// ClassifyAngle names an angle by size.
func ClassifyAngle(degrees float64) string {
	switch {
	case degrees < 90:
		return "acute"
	case degrees == 90:
		return "right"
	case degrees < 180:
		return "obtuse"
	}
	return "straight"
}

func pad2(n int) string {
	if n >= 0 && n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// parseClock reads "H:MM" with an optional AM/PM suffix into 24-hour parts.
func parseClock(s string) (int, int, bool) {
	s = strings.TrimSpace(strings.ToUpper(s))
	var suffix string
	if strings.HasSuffix(s, "AM") || strings.HasSuffix(s, "PM") {
		suffix = s[len(s)-2:]
		s = strings.TrimSpace(s[:len(s)-2])
	}
	hs, ms, ok := strings.Cut(s, ":")
	if !ok || len(ms) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	switch suffix {
	case "AM":
		if h == 12 {
			h = 0
		}
	case "PM":
		if h < 12 {
			h += 12
		}
	}
	if h < 0 || h > 23 {
		return 0, 0, false
	}
	return h, m, true
}

// parseFraction reads "n/d".
func parseFraction(s string) (float64, float64, bool) {
	ns, ds, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return 0, 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(ns), 64)
	if err != nil {
		return 0, 0, false
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(ds), 64)
	if err != nil {
		return 0, 0, false
	}
	return n, d, true
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
