package questiongen

import (
	"math"
	"regexp"
	"slices"
	"testing"
)

func fptr(f float64) *float64 { return &f }
func iptr(i int) *int         { return &i }

func intSpec(name string, lo, hi float64, constraint string) ParamSpec {
	return ParamSpec{Name: name, Type: ParamInteger, Min: fptr(lo), Max: fptr(hi), Constraint: constraint}
}

func drawOne(g *Generator, specs ParamSpecs, name string) Value {
	v, _ := g.GenerateParameters(specs).Get(name)
	return v
}

func TestParams_IntegerRange(t *testing.T) {
	g := New(Config{Seed: 11})
	specs := ParamSpecs{intSpec("A", 5, 9, "")}
	for range 1000 {
		v := drawOne(g, specs, "A")
		if v.Num < 5 || v.Num > 9 || v.Num != math.Trunc(v.Num) {
			t.Fatalf("A = %v, want integer in [5, 9]", v.Num)
		}
	}
}

func TestParams_EvenConstraint(t *testing.T) {
	g := New(Config{Seed: 12})
	specs := ParamSpecs{intSpec("A", 3, 11, "even")}
	seen := map[float64]bool{}
	for range 1000 {
		v := drawOne(g, specs, "A")
		if math.Mod(v.Num, 2) != 0 || v.Num < 4 || v.Num > 10 {
			t.Fatalf("A = %v, want even in [4, 10]", v.Num)
		}
		seen[v.Num] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected all four even values, saw %v", seen)
	}
}

func TestParams_EvenWithoutEvenInRange(t *testing.T) {
	rec := &countingRecorder{}
	g := New(Config{Seed: 13, Recorder: rec})
	v := drawOne(g, ParamSpecs{intSpec("A", 3, 3, "even")}, "A")
	if v.Num != 3 {
		t.Errorf("A = %v, want 3", v.Num)
	}
	if rec.faults[FaultParameter] != 1 {
		t.Errorf("expected one parameter fault, got %d", rec.faults[FaultParameter])
	}
}

func TestParams_ExpressionConstraint(t *testing.T) {
	g := New(Config{Seed: 14})
	for _, constraint := range []string{"value != A", "value !== {A}"} {
		specs := ParamSpecs{
			intSpec("A", 1, 1, ""),
			intSpec("B", 1, 2, constraint),
		}
		for range 200 {
			if v := drawOne(g, specs, "B"); v.Num != 2 {
				t.Fatalf("constraint %q: B = %v, want 2", constraint, v.Num)
			}
		}
	}
}

func TestParams_UnsatisfiableConstraintKeepsLastDraw(t *testing.T) {
	rec := &countingRecorder{}
	g := New(Config{Seed: 15, Recorder: rec})
	for _, constraint := range []string{"value > 10", "value +"} {
		v := drawOne(g, ParamSpecs{intSpec("A", 1, 3, constraint)}, "A")
		if v.Num < 1 || v.Num > 3 {
			t.Errorf("constraint %q: A = %v, want value in [1, 3]", constraint, v.Num)
		}
	}
	if rec.faults[FaultParameter] != 2 {
		t.Errorf("expected two parameter faults, got %d", rec.faults[FaultParameter])
	}
}

func TestParams_Decimal(t *testing.T) {
	g := New(Config{Seed: 16})
	places := ParamSpecs{{Name: "D", Type: ParamDecimal, Min: fptr(1), Max: fptr(2), Places: iptr(1)}}
	step := ParamSpecs{{Name: "D", Type: ParamDecimal, Min: fptr(0), Max: fptr(1), Step: fptr(0.25)}}
	for range 500 {
		v := drawOne(g, places, "D")
		if v.Num < 1 || v.Num > 2 || math.Abs(v.Num*10-math.Round(v.Num*10)) > 1e-9 {
			t.Fatalf("D = %v, want one decimal place in [1, 2]", v.Num)
		}
		s := drawOne(g, step, "D")
		if !slices.Contains([]float64{0, 0.25, 0.5, 0.75, 1}, s.Num) {
			t.Fatalf("stepped D = %v", s.Num)
		}
	}
}

func TestParams_Pools(t *testing.T) {
	g := New(Config{Seed: 17})
	tb := DefaultTables()
	specs := ParamSpecs{
		{Name: "C", Type: ParamChoice, Options: []Value{String("red"), String("blue")}},
		{Name: "N", Type: ParamName},
		{Name: "L", Type: ParamLetter},
		{Name: "S", Type: ParamBusStop},
	}
	for range 200 {
		p := g.GenerateParameters(specs)
		c, _ := p.Get("C")
		n, _ := p.Get("N")
		l, _ := p.Get("L")
		s, _ := p.Get("S")
		if c.Str != "red" && c.Str != "blue" {
			t.Fatalf("C = %q", c.Str)
		}
		if !slices.Contains(tb.Names(), n.Str) {
			t.Fatalf("N = %q", n.Str)
		}
		if !slices.Contains(tb.Letters(), l.Str) {
			t.Fatalf("L = %q", l.Str)
		}
		if !slices.Contains(tb.BusStops(), s.Str) {
			t.Fatalf("S = %q", s.Str)
		}
	}
}

func TestParams_ExtractDigitPrefersUniqueDigits(t *testing.T) {
	g := New(Config{Seed: 18})
	specs := ParamSpecs{
		{Name: "N", Type: ParamChoice, Options: []Value{Number(4557)}},
		{Name: "D", Type: ParamExtractDigit, From: "N"},
	}
	for range 500 {
		d := drawOne(g, specs, "D")
		if d.Num != 4 && d.Num != 7 {
			t.Fatalf("D = %v, want 4 or 7", d.Num)
		}
	}

	same := ParamSpecs{
		{Name: "N", Type: ParamChoice, Options: []Value{Number(1111)}},
		{Name: "D", Type: ParamExtractDigit, From: "N"},
	}
	if d := drawOne(g, same, "D"); d.Num != 1 {
		t.Errorf("D = %v, want 1", d.Num)
	}

	orphan := ParamSpecs{{Name: "D", Type: ParamExtractDigit}}
	for range 100 {
		if d := drawOne(g, orphan, "D"); d.Num < 1 || d.Num > 9 {
			t.Fatalf("orphan D = %v, want 1..9", d.Num)
		}
	}
}

func TestParams_ExtractDigitSkipsZero(t *testing.T) {
	g := New(Config{Seed: 7})
	tests := []struct {
		n    float64
		want []float64
	}{
		{3203, []float64{2}},
		{3303, []float64{3}},
		{1000, []float64{1}},
		{0, []float64{0}},
	}
	for _, tt := range tests {
		specs := ParamSpecs{
			{Name: "N", Type: ParamChoice, Options: []Value{Number(tt.n)}},
			{Name: "D", Type: ParamExtractDigit, From: "N"},
		}
		for range 200 {
			d := drawOne(g, specs, "D")
			if !slices.Contains(tt.want, d.Num) {
				t.Fatalf("extractDigit(%v) = %v, want one of %v", tt.n, d.Num, tt.want)
			}
		}
	}
}

func TestParams_Times(t *testing.T) {
	g := New(Config{Seed: 19})
	time24 := regexp.MustCompile(`^(8|9|1[0-7]):(00|15|30|45)$`)
	time12 := regexp.MustCompile(`^([1-9]|1[0-2]):(00|15|30|45) (AM|PM)$`)
	specs := ParamSpecs{
		{Name: "T", Type: ParamTime},
		{Name: "U", Type: ParamTime12},
	}
	for range 300 {
		p := g.GenerateParameters(specs)
		tv, _ := p.Get("T")
		uv, _ := p.Get("U")
		if !time24.MatchString(tv.Str) {
			t.Fatalf("T = %q", tv.Str)
		}
		if !time12.MatchString(uv.Str) {
			t.Fatalf("U = %q", uv.Str)
		}
	}
}

func TestParams_Computed(t *testing.T) {
	g := New(Config{Seed: 20})
	specs := ParamSpecs{
		intSpec("A", 3, 3, ""),
		{Name: "B", Type: ParamComputed, Formula: "{A} * 2"},
		intSpec("H", 9, 9, ""),
		{Name: "T", Type: ParamComputed, Formula: "formatTime({H}, 30)"},
		{Name: "R", Type: ParamComputed, Formula: "randomInt({A}, {B})"},
	}
	p := g.GenerateParameters(specs)
	if b, _ := p.Get("B"); b.String() != "6" {
		t.Errorf("B = %q, want 6", b.String())
	}
	if tv, _ := p.Get("T"); tv.String() != "9:30" {
		t.Errorf("T = %q, want 9:30", tv.String())
	}
	if r, _ := p.Get("R"); r.Num < 3 || r.Num > 6 {
		t.Errorf("R = %v, want value in [3, 6]", r.Num)
	}
	if got := p.Names(); !slices.Equal(got, []string{"A", "B", "H", "T", "R"}) {
		t.Errorf("names = %v, want declaration order", got)
	}
}

func TestParams_Faults(t *testing.T) {
	rec := &countingRecorder{}
	g := New(Config{Seed: 21, Recorder: rec})
	specs := ParamSpecs{
		{Name: "C", Type: ParamChoice},
		{Name: "D", Type: ParamComputed, Formula: "{C} + 1"},
		{Name: "E", Type: ParamComputed, Formula: "{NOPE} + 1"},
		{Name: "G", Type: "barGraph"},
		{Name: "M", Type: "mystery"},
	}
	p := g.GenerateParameters(specs)

	if c, _ := p.Get("C"); !c.IsNull() {
		t.Errorf("C = %q, want null", c.String())
	}
	for _, name := range []string{"D", "E", "M"} {
		if v, _ := p.Get(name); v.String() != "0" {
			t.Errorf("%s = %q, want 0", name, v.String())
		}
	}
	if v, _ := p.Get("G"); v.Kind != KindObject || v.String() != "{}" {
		t.Errorf("G = %q, want empty object", v.String())
	}
	if rec.faults[FaultParameter] != 3 {
		t.Errorf("parameter faults = %d, want 3", rec.faults[FaultParameter])
	}
	if rec.faults[FaultExpression] != 1 {
		t.Errorf("expression faults = %d, want 1", rec.faults[FaultExpression])
	}
}
