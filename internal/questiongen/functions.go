package questiongen

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// FuncTier is a bit set naming where a function may be called.
type FuncTier int

const (
	// TierPure functions are deterministic and allowed everywhere,
	// including correct-answer formulas.
	TierPure FuncTier = 1 << iota
	// TierRandom functions draw from the generator's random source. They
	// are limited to parameter formulas, constraints and distractors.
	TierRandom
	// TierDistractor functions produce lists of wrong answers.
	TierDistractor
)

type builtin struct {
	tier    FuncTier
	minArgs int
	maxArgs int // -1 for variadic
	call    func(env *Env, args []Value) (Value, error)
}

// FunctionSet is the closed catalog of callable helpers.
type FunctionSet struct {
	funcs map[string]builtin
}

func (fs *FunctionSet) lookup(name string) (builtin, bool) {
	b, ok := fs.funcs[name]
	return b, ok
}

// Names lists the functions available in the given tiers, sorted.
func (fs *FunctionSet) Names(tiers FuncTier) []string {
	var out []string
	for name, b := range fs.funcs {
		if b.tier&tiers != 0 {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

var defaultFunctions = buildFunctions()

// DefaultFunctions returns the shared built-in catalog.
func DefaultFunctions() *FunctionSet { return defaultFunctions }

func buildFunctions() *FunctionSet {
	fs := &FunctionSet{funcs: map[string]builtin{}}
	pure := func(name string, min, max int, fn func(*Env, []Value) (Value, error)) {
		fs.funcs[name] = builtin{tier: TierPure, minArgs: min, maxArgs: max, call: fn}
	}
	random := func(name string, min, max int, fn func(*Env, []Value) (Value, error)) {
		fs.funcs[name] = builtin{tier: TierRandom, minArgs: min, maxArgs: max, call: fn}
	}
	distractor := func(name string, min, max int, fn func(*Env, []Value) (Value, error)) {
		fs.funcs[name] = builtin{tier: TierDistractor, minArgs: min, maxArgs: max, call: fn}
	}

	// Arithmetic.
	pure("abs", 1, 1, mathFunc(math.Abs))
	pure("sqrt", 1, 1, mathFunc(math.Sqrt))
	pure("floor", 1, 1, mathFunc(math.Floor))
	pure("ceil", 1, 1, mathFunc(math.Ceil))
	pure("trunc", 1, 1, mathFunc(math.Trunc))
	pure("round", 1, 2, fnRound)
	pure("pow", 2, 2, fnPow)
	pure("max", 1, -1, fnExtreme(math.Max))
	pure("min", 1, -1, fnExtreme(math.Min))

	// Time.
	pure("formatTime", 2, 2, fnFormatTime(FormatTime))
	pure("formatTime12", 2, 2, fnFormatTime(FormatTime12))
	pure("addMinutes", 2, 3, fnAddMinutes)

	// Domain catalog used by correct-answer formulas.
	pure("roundToNearest", 2, 2, fnRoundToNearest)
	pure("placeValue", 2, 2, fnPlaceValue)
	pure("getSymmetryCount", 1, 1, fnSymmetry)
	pure("symmetryLines", 1, 1, fnSymmetry)
	pure("shapeSides", 1, 1, fnShapeSides)
	pure("shape3DProperty", 2, 2, fnShape3D)
	pure("daysInMonth", 1, 1, fnDaysInMonth)
	pure("fractionOf", 2, 2, fnFractionOf)
	pure("compareSymbol", 2, 2, fnCompareSymbol)
	pure("evenOdd", 1, 1, fnEvenOdd)
	pure("simplifyFraction", 2, 2, fnSimplifyFraction)
	pure("gcd", 2, 2, fnGCD)
	pure("hcf", 2, 2, fnGCD)
	pure("lcm", 2, 2, fnLCM)
	pure("median", 1, -1, fnMedian)
	pure("mode", 1, -1, fnMode)
	pure("sortNumbers", 1, -1, fnSortNumbers)
	pure("convert", 3, 3, fnConvert)
	pure("classifyAngle", 1, 1, fnClassifyAngle)

	// Random helpers.
	random("randomInt", 2, 2, fnRandomInt)
	random("randomChoice", 1, -1, fnRandomChoice)
	random("randomDecimal", 2, 3, fnRandomDecimal)
	random("randomFactor", 1, 1, fnRandomFactor)
	random("randomMultiple", 1, 1, fnRandomMultiple)
	random("randomPrime", 2, 2, fnRandomPrime)
	random("randomEquivalent", 2, 2, fnRandomEquivalent)

	// Distractor generators.
	distractor("fractionDistractors", 2, 3, fnFractionDistractors)
	distractor("timeDistractors", 1, 3, fnTimeDistractors)
	distractor("probabilityDistractors", 3, 4, fnProbabilityDistractors)
	distractor("coordinateDistractors", 2, 3, fnCoordinateDistractors)
	distractor("algebraDistractors", 1, 2, fnAlgebraDistractors)
	distractor("wrongPlaceValue", 2, 3, fnWrongPlaceValue)
	distractor("nonEquivalentFractions", 2, 3, fnNonEquivalentFractions)
	distractor("nonFactors", 1, 2, fnNonFactors)
	distractor("nonMultiples", 1, 2, fnNonMultiples)
	distractor("compositesNear", 1, 2, fnCompositesNear)
	distractor("otherCategories", 0, 2, fixedList("Category B", "Category C", "Category D"))
	distractor("otherDataPoints", 0, 2, fixedList("February", "March", "April"))
	distractor("otherGridValues", 0, 2, fixedList("triangle", "diamond", "heart"))
	distractor("orderingDistractors", 1, 2, fnOrderingDistractors)

	return fs
}

func numArg(args []Value, i int) (float64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing argument %d", i+1)
	}
	f, ok := args[i].AsNumber()
	if !ok {
		return 0, fmt.Errorf("argument %d: %q is not a number", i+1, args[i].String())
	}
	return f, nil
}

func intArg(args []Value, i int) (int, error) {
	f, err := numArg(args, i)
	if err != nil {
		return 0, err
	}
	return int(math.Trunc(f)), nil
}

// countArg reads an optional trailing count, defaulting to DistractorCount.
func countArg(args []Value, i int) int {
	if i >= len(args) {
		return DistractorCount
	}
	n, err := intArg(args, i)
	if err != nil || n <= 0 {
		return DistractorCount
	}
	return n
}

// numbersArg flattens list and scalar arguments into numbers.
func numbersArg(args []Value) ([]float64, error) {
	var out []float64
	for _, a := range args {
		items := []Value{a}
		if a.Kind == KindList {
			items = a.List
		}
		for _, item := range items {
			f, ok := item.AsNumber()
			if !ok {
				return nil, fmt.Errorf("%q is not a number", item.String())
			}
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no numbers given")
	}
	return out, nil
}

func numberList(nums []float64) Value {
	items := make([]Value, len(nums))
	for i, n := range nums {
		items[i] = Number(n)
	}
	return List(items...)
}

func stringList(strs []string) Value {
	items := make([]Value, len(strs))
	for i, s := range strs {
		items[i] = String(s)
	}
	return List(items...)
}

func joinNumbers(nums []float64) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = formatFloat(n)
	}
	return strings.Join(parts, ", ")
}

func takeFirst(v []Value, n int) []Value {
	if len(v) > n {
		return v[:n]
	}
	return v
}

func mathFunc(f func(float64) float64) func(*Env, []Value) (Value, error) {
	return func(_ *Env, args []Value) (Value, error) {
		x, err := numArg(args, 0)
		if err != nil {
			return Null(), err
		}
		return Number(f(x)), nil
	}
}

func fnRound(_ *Env, args []Value) (Value, error) {
	x, err := numArg(args, 0)
	if err != nil {
		return Null(), err
	}
	if len(args) == 2 {
		nearest, err := numArg(args, 1)
		if err != nil {
			return Null(), err
		}
		return Number(RoundToNearest(x, nearest)), nil
	}
	return Number(math.Floor(x + 0.5)), nil
}

func fnPow(_ *Env, args []Value) (Value, error) {
	x, err := numArg(args, 0)
	if err != nil {
		return Null(), err
	}
	y, err := numArg(args, 1)
	if err != nil {
		return Null(), err
	}
	return Number(math.Pow(x, y)), nil
}

func fnExtreme(pick func(a, b float64) float64) func(*Env, []Value) (Value, error) {
	return func(_ *Env, args []Value) (Value, error) {
		nums, err := numbersArg(args)
		if err != nil {
			return Null(), err
		}
		out := nums[0]
		for _, n := range nums[1:] {
			out = pick(out, n)
		}
		return Number(out), nil
	}
}

func fnFormatTime(format func(int, int) string) func(*Env, []Value) (Value, error) {
	return func(_ *Env, args []Value) (Value, error) {
		h, err := intArg(args, 0)
		if err != nil {
			return Null(), err
		}
		m, err := intArg(args, 1)
		if err != nil {
			return Null(), err
		}
		return String(format(h, m)), nil
	}
}

// fnAddMinutes accepts (hour, minute, add) or (clock, add) and returns the
// new time formatted "H:MM".
func fnAddMinutes(_ *Env, args []Value) (Value, error) {
	var h, m, add int
	if len(args) == 2 {
		hh, mm, ok := parseClock(args[0].String())
		if !ok {
			return Null(), fmt.Errorf("%q is not a time", args[0].String())
		}
		n, err := intArg(args, 1)
		if err != nil {
			return Null(), err
		}
		h, m, add = hh, mm, n
	} else {
		var err error
		if h, err = intArg(args, 0); err != nil {
			return Null(), err
		}
		if m, err = intArg(args, 1); err != nil {
			return Null(), err
		}
		if add, err = intArg(args, 2); err != nil {
			return Null(), err
		}
	}
	nh, nm := AddMinutes(h, m, add)
	return String(FormatTime(nh, nm)), nil
}

func fnRoundToNearest(_ *Env, args []Value) (Value, error) {
	x, err := numArg(args, 0)
	if err != nil {
		return Null(), err
	}
	nearest, err := numArg(args, 1)
	if err != nil {
		return Null(), err
	}
	if nearest == 0 {
		return Null(), fmt.Errorf("nearest must not be zero")
	}
	return Number(RoundToNearest(x, nearest)), nil
}

func fnPlaceValue(_ *Env, args []Value) (Value, error) {
	v := PlaceValue(args[0].String(), args[1].String())
	if math.IsNaN(v) {
		return Null(), fmt.Errorf("%q is not a digit", args[1].String())
	}
	return Number(v), nil
}

func fnSymmetry(env *Env, args []Value) (Value, error) {
	return env.Tables.SymmetryCount(args[0].String()), nil
}

func fnShapeSides(env *Env, args []Value) (Value, error) {
	return Number(float64(env.Tables.ShapeSides(args[0].String()))), nil
}

func fnShape3D(env *Env, args []Value) (Value, error) {
	return Number(float64(env.Tables.Shape3DProperty(args[0].String(), args[1].String()))), nil
}

func fnDaysInMonth(env *Env, args []Value) (Value, error) {
	return Number(float64(env.Tables.DaysInMonth(args[0].String()))), nil
}

func fnFractionOf(_ *Env, args []Value) (Value, error) {
	total, err := numArg(args, 1)
	if err != nil {
		return Null(), err
	}
	v, ok := FractionOf(args[0].String(), total)
	if !ok {
		return Null(), fmt.Errorf("%q is not a fraction", args[0].String())
	}
	return Number(v), nil
}

func fnCompareSymbol(_ *Env, args []Value) (Value, error) {
	a, err := numArg(args, 0)
	if err != nil {
		return Null(), err
	}
	b, err := numArg(args, 1)
	if err != nil {
		return Null(), err
	}
	return String(CompareSymbol(a, b)), nil
}

func fnEvenOdd(_ *Env, args []Value) (Value, error) {
	n, err := numArg(args, 0)
	if err != nil {
		return Null(), err
	}
	return String(EvenOdd(math.Trunc(n))), nil
}

func fnSimplifyFraction(_ *Env, args []Value) (Value, error) {
	n, err := intArg(args, 0)
	if err != nil {
		return Null(), err
	}
	d, err := intArg(args, 1)
	if err != nil {
		return Null(), err
	}
	if d == 0 {
		return Null(), fmt.Errorf("zero denominator")
	}
	g := gcd(n, d)
	if g == 0 {
		g = 1
	}
	return String(strconv.Itoa(n/g) + "/" + strconv.Itoa(d/g)), nil
}

func fnGCD(_ *Env, args []Value) (Value, error) {
	a, err := intArg(args, 0)
	if err != nil {
		return Null(), err
	}
	b, err := intArg(args, 1)
	if err != nil {
		return Null(), err
	}
	return Number(float64(gcd(a, b))), nil
}

func fnLCM(_ *Env, args []Value) (Value, error) {
	a, err := intArg(args, 0)
	if err != nil {
		return Null(), err
	}
	b, err := intArg(args, 1)
	if err != nil {
		return Null(), err
	}
	g := gcd(a, b)
	if g == 0 {
		return Number(0), nil
	}
	return Number(math.Abs(float64(a*b) / float64(g))), nil
}

func fnMedian(_ *Env, args []Value) (Value, error) {
	nums, err := numbersArg(args)
	if err != nil {
		return Null(), err
	}
	sorted := slices.Clone(nums)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return Number((sorted[mid-1] + sorted[mid]) / 2), nil
	}
	return Number(sorted[mid]), nil
}

// fnMode returns the most frequent value; ties go to the earliest.
func fnMode(_ *Env, args []Value) (Value, error) {
	nums, err := numbersArg(args)
	if err != nil {
		return Null(), err
	}
	counts := map[float64]int{}
	mode, best := nums[0], 0
	for _, n := range nums {
		counts[n]++
		if counts[n] > best {
			best = counts[n]
			mode = n
		}
	}
	return Number(mode), nil
}

func fnSortNumbers(_ *Env, args []Value) (Value, error) {
	nums, err := numbersArg(args)
	if err != nil {
		return Null(), err
	}
	sorted := slices.Clone(nums)
	slices.Sort(sorted)
	return String(joinNumbers(sorted)), nil
}

func fnConvert(env *Env, args []Value) (Value, error) {
	x, err := numArg(args, 0)
	if err != nil {
		return Null(), err
	}
	return Number(env.Tables.Convert(x, args[1].String(), args[2].String())), nil
}

func fnClassifyAngle(_ *Env, args []Value) (Value, error) {
	x, err := numArg(args, 0)
	if err != nil {
		return Null(), err
	}
	return String(ClassifyAngle(x)), nil
}

func fnRandomInt(env *Env, args []Value) (Value, error) {
	lo, err := intArg(args, 0)
	if err != nil {
		return Null(), err
	}
	hi, err := intArg(args, 1)
	if err != nil {
		return Null(), err
	}
	return Number(float64(randomInt(env, lo, hi))), nil
}

func fnRandomChoice(env *Env, args []Value) (Value, error) {
	items := args
	if len(args) == 1 && args[0].Kind == KindList {
		items = args[0].List
	}
	if len(items) == 0 {
		return Null(), fmt.Errorf("no options")
	}
	return items[env.Rand.IntN(len(items))], nil
}

func fnRandomDecimal(env *Env, args []Value) (Value, error) {
	lo, err := numArg(args, 0)
	if err != nil {
		return Null(), err
	}
	hi, err := numArg(args, 1)
	if err != nil {
		return Null(), err
	}
	places := 2
	if len(args) == 3 {
		if places, err = intArg(args, 2); err != nil {
			return Null(), err
		}
	}
	return Number(roundPlaces(lo+env.Rand.Float64()*(hi-lo), places)), nil
}

func fnRandomFactor(env *Env, args []Value) (Value, error) {
	n, err := intArg(args, 0)
	if err != nil {
		return Null(), err
	}
	var factors []int
	for i := 2; i < n; i++ {
		if n%i == 0 {
			factors = append(factors, i)
		}
	}
	if len(factors) == 0 {
		return Number(1), nil
	}
	return Number(float64(factors[env.Rand.IntN(len(factors))])), nil
}

func fnRandomMultiple(env *Env, args []Value) (Value, error) {
	base, err := numArg(args, 0)
	if err != nil {
		return Null(), err
	}
	return Number(base * float64(randomInt(env, 2, 12))), nil
}

func fnRandomPrime(env *Env, args []Value) (Value, error) {
	lo, err := intArg(args, 0)
	if err != nil {
		return Null(), err
	}
	hi, err := intArg(args, 1)
	if err != nil {
		return Null(), err
	}
	primes := env.Tables.PrimesBetween(lo, hi)
	if len(primes) == 0 {
		return Null(), fmt.Errorf("no primes between %d and %d", lo, hi)
	}
	return Number(float64(primes[env.Rand.IntN(len(primes))])), nil
}

func fnRandomEquivalent(env *Env, args []Value) (Value, error) {
	n, err := intArg(args, 0)
	if err != nil {
		return Null(), err
	}
	d, err := intArg(args, 1)
	if err != nil {
		return Null(), err
	}
	k := randomInt(env, 2, 4)
	return String(strconv.Itoa(n*k) + "/" + strconv.Itoa(d*k)), nil
}

func fixedList(items ...string) func(*Env, []Value) (Value, error) {
	return func(_ *Env, args []Value) (Value, error) {
		count := countArg(args, 1)
		return List(takeFirst(stringList(items).List, count)...), nil
	}
}

// randomInt draws uniformly from [lo, hi], swapping reversed bounds.
func randomInt(env *Env, lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + env.Rand.IntN(hi-lo+1)
}
