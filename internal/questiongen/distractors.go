package questiongen

import (
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// perturbations is the bank of generic numeric wrong answers.
var perturbations = []func(c float64) float64{
	func(c float64) float64 { return c + 1 },
	func(c float64) float64 { return c - 1 },
	func(c float64) float64 { return c + 10 },
	func(c float64) float64 { return c - 10 },
	func(c float64) float64 { return c * 2 },
	func(c float64) float64 { return math.Floor(c / 2) },
	func(c float64) float64 { return c + 100 },
	func(c float64) float64 { return c - 100 },
	func(c float64) float64 { return math.Floor(c*1.1 + 0.5) },
	func(c float64) float64 { return math.Floor(c*0.9 + 0.5) },
}

// GenerateDistractors returns exactly DistractorCount wrong answers for
// correct, each distinct from the others and from correct.
//
// Specs are tried first, in order. Numeric answers are then perturbed
// from a fixed bank, and finally a deterministic ladder fills any
// remaining slots.
func (g *Generator) GenerateDistractors(correct string, specs []Expression, p Params) []string {
	return g.generateDistractors("", correct, specs, p)
}

func (g *Generator) generateDistractors(templateID, correct string, specs []Expression, p Params) []string {
	set := newOptionSet(correct)

	for _, spec := range specs {
		if set.full() {
			break
		}
		if spec.IsLiteral {
			set.addValue(spec.Literal)
			continue
		}
		if spec.IsZero() {
			continue
		}
		v, err := g.eval.eval(spec.Source, p, nil, TierPure|TierRandom|TierDistractor)
		if err != nil {
			g.fault(FaultDistractor, templateID, "distractor spec failed",
				zap.String("spec", spec.Source), zap.Error(err))
			continue
		}
		set.addValue(v)
	}

	if c, ok := set.correctNumber(); ok {
		for attempt := 0; attempt < MaxPerturbationAttempts && !set.full(); attempt++ {
			candidate := perturbations[g.rng.IntN(len(perturbations))](c)
			if candidate <= 0 {
				continue
			}
			set.addValue(Number(candidate))
		}
	}

	if !set.full() {
		g.log.Debug("filling distractors from fallback ladder",
			zap.String("template_id", templateID),
			zap.String("correct", correct),
			zap.Int("have", len(set.items)))
		set.fillLadder()
	}
	return set.items[:DistractorCount]
}

// optionSet collects distractors, rejecting anything that normalises to
// the correct answer or to an option already held.
type optionSet struct {
	correct string
	items   []string
	keys    map[string]bool
}

func newOptionSet(correct string) *optionSet {
	return &optionSet{
		correct: correct,
		keys:    map[string]bool{OptionKey(correct): true},
	}
}

func (s *optionSet) full() bool { return len(s.items) >= DistractorCount }

// addValue adds v, or each element of a list, until the set is full.
func (s *optionSet) addValue(v Value) bool {
	if v.Kind == KindList {
		added := false
		for _, item := range v.List {
			if s.full() {
				break
			}
			added = s.addValue(item) || added
		}
		return added
	}
	if s.full() {
		return false
	}
	text, ok := FormatAnswer(v)
	if !ok {
		return false
	}
	return s.add(text)
}

func (s *optionSet) add(text string) bool {
	key := OptionKey(text)
	if s.keys[key] {
		return false
	}
	s.keys[key] = true
	s.items = append(s.items, text)
	return true
}

func (s *optionSet) correctNumber() (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s.correct), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// fillLadder appends candidates shaped like the correct answer for
// k = 1, 2, ...: base+k with a flip to base-k on collision. Each k yields
// fresh values, so the loop always terminates.
func (s *optionSet) fillLadder() {
	next := s.ladder()
	for k := 1; !s.full(); k++ {
		up, down := next(k)
		if !s.add(up) {
			s.add(down)
		}
	}
}

func (s *optionSet) ladder() func(k int) (string, string) {
	if c, ok := s.correctNumber(); ok {
		return numberLadder(c)
	}
	if n, d, ok := parseFraction(s.correct); ok && d != 0 && n == math.Trunc(n) && d == math.Trunc(d) {
		return func(k int) (string, string) {
			fk := float64(k)
			return formatFloat(n+fk) + "/" + formatFloat(d), formatFloat(n) + "/" + formatFloat(d+fk)
		}
	}
	if h, m, ok := parseClock(s.correct); ok {
		format := FormatTime
		upper := strings.ToUpper(s.correct)
		if strings.HasSuffix(upper, "AM") || strings.HasSuffix(upper, "PM") {
			format = FormatTime12
		}
		return func(k int) (string, string) {
			uh, um := AddMinutes(h, m, 5*k)
			dh, dm := AddMinutes(h, m, -5*k)
			return format(uh, um), format(dh, dm)
		}
	}
	return numberLadder(0)
}

func numberLadder(base float64) func(k int) (string, string) {
	return func(k int) (string, string) {
		up, _ := formatNumber(base + float64(k))
		down, _ := formatNumber(base - float64(k))
		return up, down
	}
}

// OptionKey normalises an option so that "0.5", "0.50" and "1/2" compare
// equal, and strings compare case-insensitively.
func OptionKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return "n:" + formatFloat(roundPlaces(f, 6))
	}
	if n, d, ok := parseFraction(s); ok && d != 0 {
		return "n:" + formatFloat(roundPlaces(n/d, 6))
	}
	return "s:" + s
}
