package questiongen

import (
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ComputeCorrectAnswer evaluates the template's answer formula against p and
// canonicalises the result. Any fault yields "0".
func (g *Generator) ComputeCorrectAnswer(t *Template, p Params) string {
	var (
		v   Value
		err error
	)
	switch {
	case t.CorrectAnswer.IsLiteral:
		v = t.CorrectAnswer.Literal
	case t.CorrectAnswer.IsZero():
		g.fault(FaultAnswer, t.ID, "template has no correct answer")
		return "0"
	default:
		v, err = g.eval.Evaluate(t.CorrectAnswer.Source, p)
		if err != nil {
			g.fault(FaultAnswer, t.ID, "correct answer could not be computed",
				zap.String("formula", t.CorrectAnswer.Source), zap.Error(err))
			return "0"
		}
	}
	s, ok := FormatAnswer(v)
	if !ok {
		g.fault(FaultAnswer, t.ID, "correct answer is not a usable value",
			zap.String("value", v.String()))
		return "0"
	}
	return s
}

// FormatAnswer renders v as an answer string: whole numbers without
// decimals, other numbers to 2 places, strings trimmed. It reports false
// for null, NaN, infinities, objects and empty strings.
func FormatAnswer(v Value) (string, bool) {
	switch v.Kind {
	case KindNumber:
		return formatNumber(v.Num)
	case KindString:
		s := strings.TrimSpace(v.Str)
		return s, s != ""
	case KindBool, KindList:
		return v.String(), true
	}
	return "", false
}

func formatNumber(f float64) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	if f == math.Trunc(f) {
		r := math.Round(f)
		if r == 0 {
			r = 0 // drop the sign of -0
		}
		return strconv.FormatFloat(r, 'f', 0, 64), true
	}
	return strconv.FormatFloat(f, 'f', 2, 64), true
}
