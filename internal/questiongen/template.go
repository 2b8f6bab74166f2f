package questiongen

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Template is an authored blueprint for a family of questions.
// Field names follow the catalog format and must stay stable.
type Template struct {
	ID            string         `json:"id" yaml:"id"`
	Topic         string         `json:"topic" yaml:"topic"`
	Difficulty    string         `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Params        ParamSpecs     `json:"params,omitempty" yaml:"params,omitempty"`
	Text          string         `json:"template" yaml:"template"`
	CorrectAnswer Expression     `json:"correctAnswer" yaml:"correctAnswer"`
	AnswerType    AnswerType     `json:"answerType" yaml:"answerType"`
	Distractors   []Expression   `json:"distractors,omitempty" yaml:"distractors,omitempty"`
	Visual        map[string]any `json:"visual,omitempty" yaml:"visual,omitempty"`
}

// ParamType discriminates parameter specs.
type ParamType string

const (
	ParamInteger      ParamType = "integer"
	ParamDecimal      ParamType = "decimal"
	ParamChoice       ParamType = "choice"
	ParamName         ParamType = "name"
	ParamExtractDigit ParamType = "extractDigit"
	ParamTime         ParamType = "time"
	ParamTime12       ParamType = "time12"
	ParamLetter       ParamType = "letter"
	ParamBusStop      ParamType = "busStop"
	ParamComputed     ParamType = "computed"
)

// dataParamTypes are structured data declarations that resolve to an empty
// object rather than a drawn value.
var dataParamTypes = map[ParamType]bool{
	"barGraph":         true,
	"lineGraph":        true,
	"dataTable":        true,
	"numberSet":        true,
	"stemLeafData":     true,
	"gridWithObjects":  true,
	"pictograph":       true,
	"relatedUnit":      true,
	"extractCategory":  true,
	"extractFromTable": true,
}

// ParamSpec declares how to draw one named parameter.
type ParamSpec struct {
	Name       string    `json:"-" yaml:"-"`
	Type       ParamType `json:"type" yaml:"type"`
	Min        *float64  `json:"min,omitempty" yaml:"min,omitempty"`
	Max        *float64  `json:"max,omitempty" yaml:"max,omitempty"`
	Constraint string    `json:"constraint,omitempty" yaml:"constraint,omitempty"`
	Options    []Value   `json:"options,omitempty" yaml:"options,omitempty"`
	Places     *int      `json:"places,omitempty" yaml:"places,omitempty"`
	Step       *float64  `json:"step,omitempty" yaml:"step,omitempty"`
	From       string    `json:"from,omitempty" yaml:"from,omitempty"`
	Formula    string    `json:"formula,omitempty" yaml:"formula,omitempty"`
}

// ParamSpecs is an ordered parameter list. In the catalog it is written as
// an object whose key order is the generation order.
type ParamSpecs []ParamSpec

// UnmarshalJSON decodes a JSON object, keeping key order.
func (ps *ParamSpecs) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*ps = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("params: expected object, got %v", tok)
	}

	var out ParamSpecs
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("params: expected key, got %v", keyTok)
		}
		var spec ParamSpec
		if err := dec.Decode(&spec); err != nil {
			return fmt.Errorf("param %q: %w", key, err)
		}
		spec.Name = key
		out = append(out, spec)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*ps = out
	return nil
}

// MarshalJSON writes the list back as an ordered object.
func (ps ParamSpecs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, spec := range ps {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(spec.Name)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(spec)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes a YAML mapping, keeping key order.
func (ps *ParamSpecs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: params must be a mapping", node.Line)
	}
	out := make(ParamSpecs, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var spec ParamSpec
		if err := node.Content[i+1].Decode(&spec); err != nil {
			return fmt.Errorf("param %q: %w", node.Content[i].Value, err)
		}
		spec.Name = node.Content[i].Value
		out = append(out, spec)
	}
	*ps = out
	return nil
}

// Lookup returns the spec named name.
func (ps ParamSpecs) Lookup(name string) (ParamSpec, bool) {
	for _, spec := range ps {
		if spec.Name == name {
			return spec, true
		}
	}
	return ParamSpec{}, false
}

// Expression is either a formula to evaluate or a literal value. Catalog
// strings are formulas; numbers and booleans are literals.
type Expression struct {
	Source    string
	Literal   Value
	IsLiteral bool
}

// Expr returns a formula expression.
func Expr(src string) Expression { return Expression{Source: src} }

// LiteralExpr returns an expression that always yields v.
func LiteralExpr(v Value) Expression { return Expression{Literal: v, IsLiteral: true} }

// IsZero reports whether the expression is empty.
func (e Expression) IsZero() bool { return !e.IsLiteral && e.Source == "" }

func (e Expression) String() string {
	if e.IsLiteral {
		return e.Literal.String()
	}
	return e.Source
}

// UnmarshalJSON accepts a string formula or any literal.
func (e *Expression) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*e = Expr(s)
		return nil
	}
	var v Value
	if err := v.UnmarshalJSON(trimmed); err != nil {
		return err
	}
	*e = LiteralExpr(v)
	return nil
}

// MarshalJSON writes formulas as strings and literals natively.
func (e Expression) MarshalJSON() ([]byte, error) {
	if e.IsLiteral {
		return e.Literal.MarshalJSON()
	}
	return json.Marshal(e.Source)
}

// UnmarshalYAML treats string scalars as formulas and everything else as
// literals.
func (e *Expression) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!str" {
		*e = Expr(node.Value)
		return nil
	}
	var v Value
	if err := v.UnmarshalYAML(node); err != nil {
		return err
	}
	*e = LiteralExpr(v)
	return nil
}
