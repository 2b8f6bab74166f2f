package questiongen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind identifies the dynamic type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBool
	KindList
	KindObject
)

// Value is the dynamically typed result of evaluating an expression or
// drawing a parameter.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	Bool bool
	List []Value
}

func Null() Value               { return Value{} }
func Number(f float64) Value    { return Value{Kind: KindNumber, Num: f} }
func String(s string) Value     { return Value{Kind: KindString, Str: s} }
func Bool(b bool) Value         { return Value{Kind: KindBool, Bool: b} }
func List(items ...Value) Value { return Value{Kind: KindList, List: items} }

// EmptyObject stands in for the structured data types (bar graphs, tables)
// that parameters can declare but the engine does not synthesise.
func EmptyObject() Value { return Value{Kind: KindObject} }

// IsNull reports whether v carries no value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// String renders v the way it reads when spliced into question text.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return formatFloat(v.Num)
	case KindString:
		return v.Str
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindList:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.String()
		}
		return strings.Join(parts, ",")
	case KindObject:
		return "{}"
	default:
		return "null"
	}
}

// AsNumber converts v to a float64. Strings are parsed; booleans map to 0/1.
func (v Value) AsNumber() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case KindBool:
		if v.Bool {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Truthy follows the usual scripting rules: zero, NaN, "" and null are false.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNumber:
		return v.Num != 0 && !math.IsNaN(v.Num)
	case KindString:
		return v.Str != ""
	case KindBool:
		return v.Bool
	case KindList, KindObject:
		return true
	}
	return false
}

// Native converts v to plain Go data (float64, string, bool, []any, map).
func (v Value) Native() any {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindString:
		return v.Str
	case KindBool:
		return v.Bool
	case KindList:
		out := make([]any, len(v.List))
		for i, item := range v.List {
			out[i] = item.Native()
		}
		return out
	case KindObject:
		return map[string]any{}
	}
	return nil
}

// ValueOf converts plain Go data into a Value.
func ValueOf(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = ValueOf(item)
		}
		return List(items...)
	case map[string]any:
		return EmptyObject()
	}
	return String(fmt.Sprint(x))
}

// MarshalJSON encodes v as its native JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Native())
}

// UnmarshalJSON decodes any JSON scalar or array into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = fromJSON(raw)
	return nil
}

func fromJSON(raw any) Value {
	switch t := raw.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return String(t.String())
		}
		return Number(f)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = fromJSON(item)
		}
		return List(items...)
	}
	return ValueOf(raw)
}

// UnmarshalYAML decodes a YAML scalar or sequence into v.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!int", "!!float":
			f, err := strconv.ParseFloat(node.Value, 64)
			if err != nil {
				return fmt.Errorf("line %d: %w", node.Line, err)
			}
			*v = Number(f)
		case "!!bool":
			*v = Bool(node.Value == "true")
		case "!!null":
			*v = Null()
		default:
			*v = String(node.Value)
		}
		return nil
	case yaml.SequenceNode:
		items := make([]Value, len(node.Content))
		for i, child := range node.Content {
			if err := items[i].UnmarshalYAML(child); err != nil {
				return err
			}
		}
		*v = List(items...)
		return nil
	case yaml.MappingNode:
		*v = EmptyObject()
		return nil
	}
	return fmt.Errorf("line %d: unsupported value", node.Line)
}

// formatFloat prints f in its shortest round-trip form, without exponent.
func formatFloat(f float64) string {
	if f == 0 {
		return "0"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Params is an ordered mapping of parameter names to drawn values.
// Order matters: later parameters may refer to earlier ones.
type Params struct {
	names  []string
	values map[string]Value
}

// Set assigns name, appending it to the order on first use.
func (p *Params) Set(name string, v Value) {
	if p.values == nil {
		p.values = make(map[string]Value)
	}
	if _, ok := p.values[name]; !ok {
		p.names = append(p.names, name)
	}
	p.values[name] = v
}

// Get returns the value bound to name.
func (p Params) Get(name string) (Value, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Names returns parameter names in declaration order.
func (p Params) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Len returns the number of bound parameters.
func (p Params) Len() int { return len(p.names) }

// Map returns the parameters as plain Go data.
func (p Params) Map() map[string]any {
	out := make(map[string]any, len(p.names))
	for _, name := range p.names {
		out[name] = p.values[name].Native()
	}
	return out
}
