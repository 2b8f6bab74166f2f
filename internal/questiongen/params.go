package questiongen

import (
	"math"
	"strconv"

	"go.uber.org/zap"
)

// Default integer bounds when a spec omits min or max.
const (
	defaultIntMin = 1
	defaultIntMax = 10
)

var quarterHours = []int{0, 15, 30, 45}

// GenerateParameters draws a value for every spec in declaration order.
// It never fails: faults are logged and fall back to safe defaults.
func (g *Generator) GenerateParameters(specs ParamSpecs) Params {
	return g.generateParameters("", specs)
}

func (g *Generator) generateParameters(templateID string, specs ParamSpecs) Params {
	var p Params
	for _, spec := range specs {
		p.Set(spec.Name, g.paramValue(templateID, spec, p))
	}
	return p
}

func (g *Generator) paramValue(templateID string, spec ParamSpec, p Params) Value {
	switch spec.Type {
	case ParamInteger:
		return g.integerParam(templateID, spec, p)
	case ParamDecimal:
		return g.decimalParam(spec)
	case ParamChoice:
		if len(spec.Options) == 0 {
			g.fault(FaultParameter, templateID, "choice parameter has no options", zap.String("param", spec.Name))
			return Null()
		}
		return spec.Options[g.rng.IntN(len(spec.Options))]
	case ParamName:
		return String(g.pick(g.tables.Names()))
	case ParamLetter:
		return String(g.pick(g.tables.Letters()))
	case ParamBusStop:
		return String(g.pick(g.tables.BusStops()))
	case ParamExtractDigit:
		return g.digitParam(spec, p)
	case ParamTime:
		lo, hi := bounds(spec, 8, 17)
		return String(FormatTime(g.intBetween(lo, hi), g.minute()))
	case ParamTime12:
		if spec.Min != nil || spec.Max != nil {
			lo, hi := bounds(spec, 1, 12)
			return String(FormatTime12(g.intBetween(lo, hi), g.minute()))
		}
		h, m := g.intBetween(1, 12), g.minute()
		suffix := "AM"
		if g.rng.IntN(2) == 1 {
			suffix = "PM"
		}
		return String(strconv.Itoa(h) + ":" + pad2(m) + " " + suffix)
	case ParamComputed:
		return g.computedParam(templateID, spec, p)
	}

	if dataParamTypes[spec.Type] {
		g.log.Warn("data parameter type not synthesised",
			zap.String("template_id", templateID),
			zap.String("param", spec.Name),
			zap.String("type", string(spec.Type)))
		return EmptyObject()
	}
	g.fault(FaultParameter, templateID, "unknown parameter type",
		zap.String("param", spec.Name), zap.String("type", string(spec.Type)))
	return Number(0)
}

func (g *Generator) integerParam(templateID string, spec ParamSpec, p Params) Value {
	lo, hi := bounds(spec, defaultIntMin, defaultIntMax)

	switch spec.Constraint {
	case "":
		return Number(float64(g.intBetween(lo, hi)))
	case "even":
		first := lo
		if first%2 != 0 {
			first++
		}
		if first > hi {
			g.fault(FaultParameter, templateID, "no even value in range",
				zap.String("param", spec.Name), zap.Int("min", lo), zap.Int("max", hi))
			return Number(float64(g.intBetween(lo, hi)))
		}
		return Number(float64(first + 2*g.rng.IntN((hi-first)/2+1)))
	}

	var v int
	for range MaxConstraintAttempts {
		v = g.intBetween(lo, hi)
		ok, err := g.eval.eval(spec.Constraint, p, map[string]Value{"value": Number(float64(v))}, TierPure|TierRandom)
		if err != nil {
			g.fault(FaultParameter, templateID, "constraint evaluation failed",
				zap.String("param", spec.Name), zap.Error(err))
			return Number(float64(v))
		}
		if ok.Truthy() {
			return Number(float64(v))
		}
	}
	g.fault(FaultParameter, templateID, "constraint not satisfied, keeping last draw",
		zap.String("param", spec.Name),
		zap.String("constraint", spec.Constraint),
		zap.Int("attempts", MaxConstraintAttempts))
	return Number(float64(v))
}

func (g *Generator) decimalParam(spec ParamSpec) Value {
	lo, hi := 0.0, 1.0
	if spec.Min != nil {
		lo = *spec.Min
	}
	if spec.Max != nil {
		hi = *spec.Max
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	if spec.Step != nil && *spec.Step > 0 {
		steps := int(math.Floor((hi-lo)/(*spec.Step) + 1e-9))
		return Number(roundPlaces(lo+float64(g.rng.IntN(steps+1))*(*spec.Step), 10))
	}
	places := 2
	if spec.Places != nil {
		places = *spec.Places
	}
	return Number(roundPlaces(lo+g.rng.Float64()*(hi-lo), places))
}

// digitParam picks a digit of the referenced parameter, preferring digits
// that occur once so place-value questions stay unambiguous.
func (g *Generator) digitParam(spec ParamSpec, p Params) Value {
	src, ok := p.Get(spec.From)
	if spec.From == "" || !ok || src.IsNull() {
		return Number(float64(g.intBetween(1, 9)))
	}
	var digits []int
	counts := map[int]int{}
	for _, c := range src.String() {
		if c >= '0' && c <= '9' {
			d := int(c - '0')
			digits = append(digits, d)
			counts[d]++
		}
	}
	if len(digits) == 0 {
		return Number(float64(g.intBetween(1, 9)))
	}
	var unique []int
	for _, d := range digits {
		if counts[d] == 1 {
			unique = append(unique, d)
		}
	}
	if len(counts) > 1 && len(unique) > 0 {
		digits = unique
	}
	// The digit 0 always has value 0, which reads like the fault fallback.
	if nz := nonZero(digits); len(nz) > 0 {
		digits = nz
	} else if nz := nonZero(keys(counts)); len(nz) > 0 {
		digits = nz
	}
	return Number(float64(digits[g.rng.IntN(len(digits))]))
}

func nonZero(digits []int) []int {
	var out []int
	for _, d := range digits {
		if d != 0 {
			out = append(out, d)
		}
	}
	return out
}

func keys(counts map[int]int) []int {
	out := make([]int, 0, len(counts))
	for d := 0; d <= 9; d++ {
		if counts[d] > 0 {
			out = append(out, d)
		}
	}
	return out
}

func (g *Generator) computedParam(templateID string, spec ParamSpec, p Params) Value {
	if spec.Formula == "" {
		return Number(0)
	}
	for _, name := range referencedNames(spec.Formula) {
		if v, ok := p.Get(name); ok && v.IsNull() {
			g.fault(FaultParameter, templateID, "computed parameter references a null value",
				zap.String("param", spec.Name), zap.String("ref", name))
			return Number(0)
		}
	}
	v, err := g.eval.eval(spec.Formula, p, nil, TierPure|TierRandom)
	if err != nil {
		g.fault(FaultExpression, templateID, "computed parameter failed",
			zap.String("param", spec.Name), zap.Error(err))
		return Number(0)
	}
	return v
}

func bounds(spec ParamSpec, lo, hi int) (int, int) {
	if spec.Min != nil {
		lo = int(math.Ceil(*spec.Min))
	}
	if spec.Max != nil {
		hi = int(math.Floor(*spec.Max))
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi
}

func (g *Generator) intBetween(lo, hi int) int {
	return randomInt(g.env(), lo, hi)
}

func (g *Generator) minute() int { return quarterHours[g.rng.IntN(len(quarterHours))] }

func (g *Generator) pick(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[g.rng.IntN(len(pool))]
}
