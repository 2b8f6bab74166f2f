package questiongen

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// ErrUnresolved is returned when an expression references a parameter
// that has no value.
var ErrUnresolved = errors.New("unresolved reference")

// scope is the evaluation environment for one expression.
type scope struct {
	params Params
	vars   map[string]Value
	tiers  FuncTier
	env    *Env
	funcs  *FunctionSet
}

// Evaluator evaluates template formulas over a closed set of operators and
// functions. Formulas are parsed into an AST; nothing is executed
// dynamically.
type Evaluator struct {
	env   *Env
	funcs *FunctionSet
	cache map[string]node
}

// Env carries the read-only tables and the random source available to
// helper functions.
type Env struct {
	Tables *Tables
	Rand   *rand.Rand
}

// NewEvaluator returns an Evaluator using tables and rng. Nil arguments get
// the default tables and a randomly seeded source.
func NewEvaluator(tables *Tables, rng *rand.Rand) *Evaluator {
	if tables == nil {
		tables = DefaultTables()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Evaluator{
		env:   &Env{Tables: tables, Rand: rng},
		funcs: DefaultFunctions(),
		cache: make(map[string]node),
	}
}

// Evaluate computes expr against params using only pure functions, as
// required for correct answers. Numeric results are rounded to
// AnswerPrecision places; NaN and infinities are errors.
func (e *Evaluator) Evaluate(expr string, params Params) (Value, error) {
	return e.eval(expr, params, nil, TierPure)
}

// eval is Evaluate with extra bound variables and a wider function tier.
func (e *Evaluator) eval(expr string, params Params, vars map[string]Value, tiers FuncTier) (Value, error) {
	n, ok := e.cache[expr]
	if !ok {
		parsed, err := parseExpression(expr)
		if err != nil {
			return Null(), fmt.Errorf("parse %q: %w", expr, err)
		}
		n = parsed
		e.cache[expr] = n
	}

	s := &scope{params: params, vars: vars, tiers: tiers, env: e.env, funcs: e.funcs}
	v, err := n.eval(s)
	if err != nil {
		return Null(), fmt.Errorf("evaluate %q: %w", expr, err)
	}
	if v.Kind == KindNumber {
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return Null(), fmt.Errorf("evaluate %q: result is %s", expr, formatFloat(v.Num))
		}
		v.Num = roundPlaces(v.Num, AnswerPrecision)
	}
	return v, nil
}

func (s *scope) lookup(name string, placeholder bool) (Value, error) {
	if !placeholder {
		if v, ok := s.vars[name]; ok {
			return v, nil
		}
		switch name {
		case "PI", "Math.PI":
			return Number(math.Pi), nil
		}
	}
	v, ok := s.params.Get(name)
	if !ok || v.IsNull() {
		if placeholder {
			return Null(), fmt.Errorf("%w: {%s}", ErrUnresolved, name)
		}
		return Null(), fmt.Errorf("%w: %s", ErrUnresolved, name)
	}
	return v, nil
}

// numericString turns a referenced string that spells a finite number into
// a Number, so "3" from a choice list adds like 3 does. Placeholders inside
// quoted strings keep their text.
func numericString(v Value) Value {
	if v.Kind != KindString {
		return v
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return v
	}
	return Number(f)
}

// substitute replaces {NAME} placeholders in text with parameter values.
func (s *scope) substitute(text string) (string, error) {
	if !strings.ContainsRune(text, '{') {
		return text, nil
	}
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		if text[i] == '{' {
			if end := strings.IndexByte(text[i:], '}'); end > 0 {
				name := text[i+1 : i+end]
				if isIdentName(name) {
					v, err := s.lookup(name, true)
					if err != nil {
						return "", err
					}
					b.WriteString(v.String())
					i += end
					continue
				}
			}
			return "", fmt.Errorf("%w: stray brace in %q", ErrUnresolved, text)
		}
		b.WriteByte(text[i])
	}
	return b.String(), nil
}

func (n *literalNode) eval(*scope) (Value, error) { return n.v, nil }

func (n *stringNode) eval(s *scope) (Value, error) {
	text, err := s.substitute(n.text)
	if err != nil {
		return Null(), err
	}
	return String(text), nil
}

func (n *listNode) eval(s *scope) (Value, error) {
	items := make([]Value, 0, len(n.items))
	for _, item := range n.items {
		v, err := item.eval(s)
		if err != nil {
			return Null(), err
		}
		items = append(items, v)
	}
	return List(items...), nil
}

func (n *refNode) eval(s *scope) (Value, error) {
	v, err := s.lookup(n.name, n.placeholder)
	if err != nil {
		return Null(), err
	}
	return numericString(v), nil
}

func (n *unaryNode) eval(s *scope) (Value, error) {
	v, err := n.operand.eval(s)
	if err != nil {
		return Null(), err
	}
	switch n.op {
	case "!":
		return Bool(!v.Truthy()), nil
	case "+", "-":
		f, ok := v.AsNumber()
		if !ok {
			return Null(), fmt.Errorf("operator %s: %q is not a number", n.op, v.String())
		}
		if n.op == "-" {
			f = -f
		}
		return Number(f), nil
	}
	return Null(), fmt.Errorf("unknown unary operator %s", n.op)
}

func (n *ternaryNode) eval(s *scope) (Value, error) {
	cond, err := n.cond.eval(s)
	if err != nil {
		return Null(), err
	}
	if cond.Truthy() {
		return n.then.eval(s)
	}
	return n.otherwise.eval(s)
}

func (n *binaryNode) eval(s *scope) (Value, error) {
	left, err := n.left.eval(s)
	if err != nil {
		return Null(), err
	}

	// Short-circuit logic returns the deciding operand.
	switch n.op {
	case "&&":
		if !left.Truthy() {
			return left, nil
		}
		return n.right.eval(s)
	case "||":
		if left.Truthy() {
			return left, nil
		}
		return n.right.eval(s)
	}

	right, err := n.right.eval(s)
	if err != nil {
		return Null(), err
	}

	switch n.op {
	case "+":
		if left.Kind == KindString || right.Kind == KindString {
			return String(left.String() + right.String()), nil
		}
	case "==", "===":
		return Bool(valuesEqual(left, right)), nil
	case "!=", "!==":
		return Bool(!valuesEqual(left, right)), nil
	case "<", "<=", ">", ">=":
		return compareValues(n.op, left, right)
	}

	a, okA := left.AsNumber()
	b, okB := right.AsNumber()
	if !okA || !okB {
		return Null(), fmt.Errorf("operator %s needs numbers, got %q and %q", n.op, left.String(), right.String())
	}
	switch n.op {
	case "+":
		return Number(a + b), nil
	case "-":
		return Number(a - b), nil
	case "*":
		return Number(a * b), nil
	case "/":
		return Number(a / b), nil
	case "%":
		return Number(math.Mod(a, b)), nil
	}
	return Null(), fmt.Errorf("unknown operator %s", n.op)
}

func (n *callNode) eval(s *scope) (Value, error) {
	fn, ok := s.funcs.lookup(n.name)
	if !ok {
		return Null(), fmt.Errorf("unknown function %s", n.name)
	}
	if fn.tier&s.tiers == 0 {
		return Null(), fmt.Errorf("function %s is not allowed here", n.name)
	}
	args := make([]Value, 0, len(n.args))
	for _, a := range n.args {
		v, err := a.eval(s)
		if err != nil {
			return Null(), err
		}
		args = append(args, v)
	}
	if len(args) < fn.minArgs || (fn.maxArgs >= 0 && len(args) > fn.maxArgs) {
		return Null(), fmt.Errorf("%s: wrong number of arguments (%d)", n.name, len(args))
	}
	v, err := fn.call(s.env, args)
	if err != nil {
		return Null(), fmt.Errorf("%s: %w", n.name, err)
	}
	return v, nil
}

func valuesEqual(a, b Value) bool {
	if a.Kind == KindString && b.Kind == KindString {
		return a.Str == b.Str
	}
	if a.Kind == KindNull || b.Kind == KindNull {
		return a.Kind == b.Kind
	}
	x, okX := a.AsNumber()
	y, okY := b.AsNumber()
	if okX && okY {
		return x == y
	}
	return a.String() == b.String()
}

func compareValues(op string, a, b Value) (Value, error) {
	var c int
	if a.Kind == KindString && b.Kind == KindString {
		c = strings.Compare(a.Str, b.Str)
	} else {
		x, okX := a.AsNumber()
		y, okY := b.AsNumber()
		if !okX || !okY {
			return Bool(false), nil
		}
		switch {
		case x < y:
			c = -1
		case x > y:
			c = 1
		}
	}
	switch op {
	case "<":
		return Bool(c < 0), nil
	case "<=":
		return Bool(c <= 0), nil
	case ">":
		return Bool(c > 0), nil
	default:
		return Bool(c >= 0), nil
	}
}

func roundPlaces(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}
