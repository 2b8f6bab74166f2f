package questiongen

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Distractor-tier helpers. Each returns a list of wrong answers; the
// synthesizer filters out anything equal to the correct answer.

func fnFractionDistractors(_ *Env, args []Value) (Value, error) {
	n, err := intArg(args, 0)
	if err != nil {
		return Null(), err
	}
	d, err := intArg(args, 1)
	if err != nil {
		return Null(), err
	}
	count := countArg(args, 2)
	if d == 0 {
		return Null(), fmt.Errorf("zero denominator")
	}
	target := float64(n) / float64(d)
	candidates := [][2]int{
		{n + 1, d}, {n - 1, d}, {n, d + 1}, {n, d - 1}, {n * 2, d}, {n, d * 2},
	}
	var out []string
	for _, c := range candidates {
		if len(out) >= count {
			break
		}
		if c[0] <= 0 || c[1] <= 0 || float64(c[0])/float64(c[1]) == target {
			continue
		}
		frac := strconv.Itoa(c[0]) + "/" + strconv.Itoa(c[1])
		if !slices.Contains(out, frac) {
			out = append(out, frac)
		}
	}
	return stringList(out), nil
}

// fnTimeDistractors takes (hour, minute[, count]) or (clock[, count]).
// A clock written with AM/PM yields 12-hour distractors.
func fnTimeDistractors(_ *Env, args []Value) (Value, error) {
	var h, m, countAt int
	format := FormatTime
	if args[0].Kind == KindString && strings.Contains(args[0].Str, ":") {
		hh, mm, ok := parseClock(args[0].Str)
		if !ok {
			return Null(), fmt.Errorf("%q is not a time", args[0].Str)
		}
		upper := strings.ToUpper(args[0].Str)
		if strings.HasSuffix(upper, "AM") || strings.HasSuffix(upper, "PM") {
			format = FormatTime12
		}
		h, m, countAt = hh, mm, 1
	} else {
		var err error
		if h, err = intArg(args, 0); err != nil {
			return Null(), err
		}
		if m, err = intArg(args, 1); err != nil {
			return Null(), err
		}
		countAt = 2
	}
	out := []Value{
		String(format((h+1)%24, m)),
		String(format(h, (m+15)%60)),
		String(format((h+23)%24, m)),
	}
	return List(takeFirst(out, countArg(args, countAt))...), nil
}

func fnProbabilityDistractors(_ *Env, args []Value) (Value, error) {
	var counts [3]int
	for i := range counts {
		c, err := intArg(args, i)
		if err != nil {
			return Null(), err
		}
		counts[i] = c
	}
	r, b, g := counts[0], counts[1], counts[2]
	total := strconv.Itoa(r + b + g)
	var out []Value
	if b > 0 {
		out = append(out, String(strconv.Itoa(b)+"/"+total))
	}
	if g > 0 {
		out = append(out, String(strconv.Itoa(g)+"/"+total))
	}
	out = append(out, String(strconv.Itoa(r+b)+"/"+total))
	return List(takeFirst(out, countArg(args, 3))...), nil
}

func fnCoordinateDistractors(_ *Env, args []Value) (Value, error) {
	x, err := numArg(args, 0)
	if err != nil {
		return Null(), err
	}
	y, err := numArg(args, 1)
	if err != nil {
		return Null(), err
	}
	point := func(a, b float64) Value {
		return String("(" + formatFloat(a) + ", " + formatFloat(b) + ")")
	}
	out := []Value{point(y, x), point(-x, y), point(x, -y)}
	return List(takeFirst(out, countArg(args, 2))...), nil
}

func fnAlgebraDistractors(_ *Env, args []Value) (Value, error) {
	coef, err := numArg(args, 0)
	if err != nil {
		return Null(), err
	}
	out := []Value{
		String(formatFloat(coef+1) + "x"),
		String(formatFloat(coef-1) + "x"),
		String(formatFloat(coef*2) + "x"),
	}
	return List(takeFirst(out, countArg(args, 1))...), nil
}

func fnWrongPlaceValue(_ *Env, args []Value) (Value, error) {
	correct := PlaceValue(args[0].String(), args[1].String())
	if math.IsNaN(correct) {
		return Null(), fmt.Errorf("%q is not a digit", args[1].String())
	}
	digit, _ := args[1].AsNumber()
	out := []Value{
		Number(roundPlaces(correct*10, 10)),
		Number(roundPlaces(correct/10, 10)),
		Number(digit),
	}
	return List(takeFirst(out, countArg(args, 2))...), nil
}

func fnNonEquivalentFractions(env *Env, args []Value) (Value, error) {
	n, err := numArg(args, 0)
	if err != nil {
		return Null(), err
	}
	d, err := numArg(args, 1)
	if err != nil {
		return Null(), err
	}
	if d == 0 {
		return Null(), fmt.Errorf("zero denominator")
	}
	count := countArg(args, 2)
	target := n / d
	var out []string
	for attempt := 0; attempt < MaxHelperAttempts && len(out) < count; attempt++ {
		wn, wd := randomInt(env, 1, 10), randomInt(env, 2, 10)
		frac := strconv.Itoa(wn) + "/" + strconv.Itoa(wd)
		if math.Abs(float64(wn)/float64(wd)-target) > 0.01 && !slices.Contains(out, frac) {
			out = append(out, frac)
		}
	}
	return stringList(out), nil
}

func fnNonFactors(env *Env, args []Value) (Value, error) {
	n, err := intArg(args, 0)
	if err != nil {
		return Null(), err
	}
	var candidates []float64
	for i := 2; i <= n+20; i++ {
		if n == 0 || n%i != 0 {
			candidates = append(candidates, float64(i))
		}
	}
	return numberList(sample(env, candidates, countArg(args, 1))), nil
}

func fnNonMultiples(env *Env, args []Value) (Value, error) {
	base, err := intArg(args, 0)
	if err != nil {
		return Null(), err
	}
	if base == 0 {
		return Null(), fmt.Errorf("base must not be zero")
	}
	var candidates []float64
	for i := 1; i < 100; i++ {
		if i%base != 0 {
			candidates = append(candidates, float64(i))
		}
	}
	return numberList(sample(env, candidates, countArg(args, 1))), nil
}

func fnCompositesNear(env *Env, args []Value) (Value, error) {
	p, err := intArg(args, 0)
	if err != nil {
		return Null(), err
	}
	var candidates []float64
	for i := p - 10; i <= p+10; i++ {
		if i > 3 && i != p && !isPrime(i) {
			candidates = append(candidates, float64(i))
		}
	}
	return numberList(sample(env, candidates, countArg(args, 1))), nil
}

// fnOrderingDistractors offers the reverse order, the given order, then
// random orders, never the ascending one.
func fnOrderingDistractors(env *Env, args []Value) (Value, error) {
	nums, err := numbersArg(args[:1])
	if err != nil {
		return Null(), err
	}
	count := countArg(args, 1)
	sorted := slices.Clone(nums)
	slices.Sort(sorted)
	ascending := joinNumbers(sorted)

	var out []string
	add := func(order []float64) {
		s := joinNumbers(order)
		if s != ascending && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	reversed := slices.Clone(sorted)
	slices.Reverse(reversed)
	add(reversed)
	add(nums)
	for attempt := 0; attempt < MaxHelperAttempts && len(out) < count; attempt++ {
		shuffled := slices.Clone(nums)
		env.Rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		add(shuffled)
	}
	if len(out) > count {
		out = out[:count]
	}
	return stringList(out), nil
}

// sample returns up to n items of pool in random order.
func sample(env *Env, pool []float64, n int) []float64 {
	out := slices.Clone(pool)
	env.Rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for i := 2; i*i <= n; i++ {
		if n%i == 0 {
			return false
		}
	}
	return true
}
