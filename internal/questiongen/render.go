package questiongen

import "strings"

// RenderText substitutes every bound {NAME} placeholder in text.
// Placeholders without a parameter are left in place for the validator.
func RenderText(text string, p Params) string {
	if !strings.ContainsRune(text, '{') {
		return text
	}
	pairs := make([]string, 0, 2*p.Len())
	for _, name := range p.Names() {
		v, _ := p.Get(name)
		pairs = append(pairs, "{"+name+"}", v.String())
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// RenderVisual returns a copy of the visual description with placeholders
// substituted at any depth. A string that is exactly one placeholder takes
// the parameter's native value, so {"value": "{N}"} yields a number.
func RenderVisual(visual map[string]any, p Params) map[string]any {
	if visual == nil {
		return nil
	}
	return renderAny(visual, p).(map[string]any)
}

func renderAny(x any, p Params) any {
	switch t := x.(type) {
	case string:
		if name, ok := wholePlaceholder(t); ok {
			if v, bound := p.Get(name); bound {
				return v.Native()
			}
		}
		return RenderText(t, p)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = renderAny(v, p)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = renderAny(v, p)
		}
		return out
	}
	return x
}

func wholePlaceholder(s string) (string, bool) {
	if len(s) < 3 || s[0] != '{' || s[len(s)-1] != '}' {
		return "", false
	}
	name := s[1 : len(s)-1]
	return name, isIdentName(name)
}
