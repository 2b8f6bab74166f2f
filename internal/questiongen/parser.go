package questiongen

import (
	"fmt"
	"strings"
)

// node is an expression AST node.
type node interface {
	eval(s *scope) (Value, error)
}

type (
	literalNode struct{ v Value }

	// stringNode is a quoted string; placeholders inside it are
	// substituted at evaluation time.
	stringNode struct{ text string }

	listNode struct{ items []node }

	// refNode is a {NAME} placeholder or a bare identifier.
	refNode struct {
		name        string
		placeholder bool
	}

	unaryNode struct {
		op      string
		operand node
	}

	binaryNode struct {
		op          string
		left, right node
	}

	ternaryNode struct {
		cond, then, otherwise node
	}

	callNode struct {
		name string
		args []node
	}
)

type parser struct {
	toks []token
	pos  int
}

// parseExpression builds an AST for src.
func parseExpression(src string) (node, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("empty expression")
	}
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("unexpected %q at %d", p.peek().text, p.peek().pos)
	}
	return n, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(ops ...string) (string, bool) {
	t := p.peek()
	if t.kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if t.text == op {
			return op, true
		}
	}
	return "", false
}

func (p *parser) expect(kind tokenKind, what string) error {
	t := p.next()
	if t.kind != kind {
		return fmt.Errorf("expected %s at %d", what, t.pos)
	}
	return nil
}

func (p *parser) parseTernary() (node, error) {
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokQuestion {
		return cond, nil
	}
	p.next()
	then, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokColon, "':'"); err != nil {
		return nil, err
	}
	otherwise, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &ternaryNode{cond: cond, then: then, otherwise: otherwise}, nil
}

// precedence levels, loosest first.
var binaryLevels = [][]string{
	{"||"},
	{"&&"},
	{"===", "!==", "==", "!="},
	{"<=", ">=", "<", ">"},
	{"+", "-"},
	{"*", "/", "%"},
}

func (p *parser) parseBinary(level int) (node, error) {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.isOp(binaryLevels[level]...)
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	if op, ok := p.isOp("-", "+", "!"); ok {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: op, operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return &literalNode{v: Number(t.num)}, nil
	case tokString:
		return &stringNode{text: t.text}, nil
	case tokPlaceholder:
		return &refNode{name: t.text, placeholder: true}, nil
	case tokLParen:
		n, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return n, nil
	case tokLBracket:
		items, err := p.parseArgs(tokRBracket, "']'")
		if err != nil {
			return nil, err
		}
		return &listNode{items: items}, nil
	case tokIdent:
		switch t.text {
		case "true":
			return &literalNode{v: Bool(true)}, nil
		case "false":
			return &literalNode{v: Bool(false)}, nil
		case "null", "undefined":
			return &literalNode{v: Null()}, nil
		}
		if p.peek().kind == tokLParen {
			p.next()
			args, err := p.parseArgs(tokRParen, "')'")
			if err != nil {
				return nil, err
			}
			return &callNode{name: strings.TrimPrefix(t.text, "Math."), args: args}, nil
		}
		return &refNode{name: t.text}, nil
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of expression")
	}
	return nil, fmt.Errorf("unexpected %q at %d", t.text, t.pos)
}

// parseArgs reads a comma-separated list up to the closing token.
func (p *parser) parseArgs(closing tokenKind, what string) ([]node, error) {
	var args []node
	if p.peek().kind == closing {
		p.next()
		return args, nil
	}
	for {
		arg, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().kind == tokComma {
			p.next()
			continue
		}
		if err := p.expect(closing, what); err != nil {
			return nil, err
		}
		return args, nil
	}
}

// referencedNames returns every {NAME} placeholder used in src, in order of
// first appearance. Placeholders inside quoted strings are included.
func referencedNames(src string) []string {
	var names []string
	seen := map[string]bool{}
	for i := 0; i < len(src); i++ {
		if src[i] != '{' {
			continue
		}
		end := strings.IndexByte(src[i:], '}')
		if end < 0 {
			break
		}
		name := src[i+1 : i+end]
		if isIdentName(name) && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		i += end
	}
	return names
}
