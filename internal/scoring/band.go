package scoring

// Band is a percentage range that maps to a reported band score.
// Min is inclusive and Max exclusive, except that a perfect score lands
// in the highest band.
type Band struct {
	Band int
	Min  float64
	Max  float64
}

// bandCuts are the percentage boundaries shared by every year level.
var bandCuts = []float64{0, 20, 35, 50, 65, 80, 100}

// lowestBand is the band awarded for the bottom range in each year.
var lowestBand = map[int]int{
	3: 1,
	5: 3,
	7: 4,
}

// Bands returns the band table for a year level, lowest band first.
// It returns nil for an unsupported year.
func Bands(year int) []Band {
	low, ok := lowestBand[year]
	if !ok {
		return nil
	}
	bands := make([]Band, 0, len(bandCuts)-1)
	for i := 0; i < len(bandCuts)-1; i++ {
		bands = append(bands, Band{Band: low + i, Min: bandCuts[i], Max: bandCuts[i+1]})
	}
	return bands
}

// BandScore maps a percentage to the band for the given year. It reports
// false for an unsupported year or a percentage outside 0-100.
func BandScore(percentage float64, year int) (int, bool) {
	bands := Bands(year)
	if bands == nil || percentage < 0 || percentage > 100 {
		return 0, false
	}
	if percentage == 100 {
		return bands[len(bands)-1].Band, true
	}
	for _, b := range bands {
		if percentage >= b.Min && percentage < b.Max {
			return b.Band, true
		}
	}
	return 0, false
}

// PerformanceLabel describes a percentage in words.
func PerformanceLabel(percentage float64) string {
	switch {
	case percentage >= 80:
		return "Excellent"
	case percentage >= 60:
		return "Good"
	case percentage >= 40:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}
