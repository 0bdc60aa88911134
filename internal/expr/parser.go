package expr

import (
	"fmt"
	"slices"
)

// MaxDepth bounds how deeply grouping constructs may nest.
const MaxDepth = 64

// Parse tokenizes s and builds its structural tree. Grouping constructs
// are nested first; then, at every level and bottom-up, powers are folded
// right-associatively and divisions are folded into fractions
// left-associatively.
//
// Parsing is strict: unknown tokens, unbalanced grouping, empty slots and
// operators without operands are reported as a *SyntaxError rather than
// rendered partially.
func Parse(s string) ([]Node, error) {
	toks := Tokenize(s)
	if len(toks) == 0 {
		return nil, &SyntaxError{Pos: -1, Msg: "empty expression"}
	}
	p := &parser{toks: toks}
	nodes, err := p.parseSeq("", 0, 0)
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level fixtures.
func MustParse(s string) []Node {
	nodes, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("expr: Parse(%q): %v", s, err))
	}
	return nodes
}

type parser struct {
	toks []Token
	pos  int
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.toks) {
		return Token{}, false
	}
	return p.toks[p.pos], true
}

// parseSeq consumes tokens until it reaches term (which it leaves
// unconsumed) or the end of input when term is empty. open is the offset
// of the construct that started this sequence, for error messages.
func (p *parser) parseSeq(term string, open, depth int) ([]Node, error) {
	if depth > MaxDepth {
		return nil, &SyntaxError{Pos: open, Msg: fmt.Sprintf("nesting deeper than %d levels", MaxDepth)}
	}

	var nodes []Node
	var offsets []int
	for {
		tok, ok := p.peek()
		if !ok {
			if term != "" {
				return nil, &SyntaxError{Pos: -1, Msg: fmt.Sprintf("missing %q", term)}
			}
			break
		}
		if term != "" && tok.Text == term && tok.Kind != TokenNumber {
			// A bar after an operator or at the start of an absolute body
			// opens a nested absolute instead of closing this one.
			if term != "|" || (len(nodes) > 0 && !IsOperator(nodes[len(nodes)-1])) {
				break
			}
		}

		node, err := p.parseItem(depth)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
		offsets = append(offsets, tok.Pos)
	}

	if len(nodes) == 0 {
		return nil, &SyntaxError{Pos: open, Msg: "empty expression"}
	}
	if err := checkSequence(nodes, offsets); err != nil {
		return nil, err
	}
	return foldFractions(foldPowers(nodes)), nil
}

// parseItem consumes one token, or one whole grouping construct, at the
// current position.
func (p *parser) parseItem(depth int) (Node, error) {
	tok := p.toks[p.pos]
	switch tok.Kind {
	case TokenNumber, TokenOperator:
		p.pos++
		return Literal{Value: tok.Text}, nil

	case TokenFunc:
		p.pos++
		next, ok := p.peek()
		switch {
		case ok && next.Text == "(":
			p.pos++
			content, err := p.closed(")", next.Pos, depth)
			if err != nil {
				return nil, err
			}
			return Root{Content: content}, nil
		case ok && next.Kind == TokenNumber:
			p.pos++
			return Root{Content: []Node{Literal{Value: next.Text}}}, nil
		default:
			return nil, &SyntaxError{Pos: tok.Pos, Msg: "sqrt must be followed by ( or a number"}
		}

	case TokenGroup:
		p.pos++
		switch tok.Text {
		case "(":
			content, err := p.closed(")", tok.Pos, depth)
			if err != nil {
				return nil, err
			}
			return Group{Content: content}, nil
		case "{":
			num, err := p.closed("/", tok.Pos, depth)
			if err != nil {
				return nil, err
			}
			den, err := p.closed("}", tok.Pos, depth)
			if err != nil {
				return nil, err
			}
			return Fraction{Numerator: num, Denominator: den}, nil
		case "|":
			content, err := p.closed("|", tok.Pos, depth)
			if err != nil {
				return nil, err
			}
			return Absolute{Content: content}, nil
		default:
			return nil, &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf("unexpected %q", tok.Text)}
		}
	}
	return nil, &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf("unexpected %q", tok.Text)}
}

// closed parses a nested sequence and consumes its closing token.
func (p *parser) closed(term string, open, depth int) ([]Node, error) {
	content, err := p.parseSeq(term, open, depth+1)
	if err != nil {
		return nil, err
	}
	p.pos++ // parseSeq only returns without error once term is next
	return content, nil
}

// checkSequence enforces that a flat sequence alternates operands and
// binary operators, allowing a unary minus at the start or after + - *.
// Adjacent operands are allowed (implicit multiplication) except for two
// bare numbers.
func checkSequence(nodes []Node, offsets []int) error {
	for i, n := range nodes {
		if !IsOperator(n) {
			if i > 0 && isNumberLiteral(n) && isNumberLiteral(nodes[i-1]) {
				return &SyntaxError{Pos: offsets[i], Msg: "missing operator between numbers"}
			}
			continue
		}
		op := n.(Literal).Value
		if i == len(nodes)-1 {
			return &SyntaxError{Pos: offsets[i], Msg: fmt.Sprintf("%q is missing its right operand", op)}
		}
		if i == 0 {
			if op != "-" {
				return &SyntaxError{Pos: offsets[i], Msg: fmt.Sprintf("%q is missing its left operand", op)}
			}
			continue
		}
		prev, ok := nodes[i-1].(Literal)
		if !ok || !isOperatorText(prev.Value) {
			continue
		}
		if op != "-" || !slices.Contains([]string{"+", "-", "*"}, prev.Value) {
			return &SyntaxError{Pos: offsets[i], Msg: fmt.Sprintf("unexpected %q after %q", op, prev.Value)}
		}
	}
	return nil
}
