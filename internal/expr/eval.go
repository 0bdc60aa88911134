package expr

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
)

// Unavailable is the sentinel Answer returns when a tree cannot be
// evaluated. It is NaN, so test for it with IsUnavailable.
var Unavailable = math.NaN()

// IsUnavailable reports whether v is the Unavailable sentinel.
func IsUnavailable(v float64) bool {
	return math.IsNaN(v)
}

// Answer evaluates nodes and returns the rounded result, or Unavailable
// after logging the failure. It never panics on malformed trees.
func Answer(nodes []Node) float64 {
	v, err := Evaluate(nodes)
	if err != nil {
		slog.Warn("expression could not be evaluated", "expr", Format(nodes), "error", err)
		return Unavailable
	}
	return v
}

// EvaluateString parses and evaluates s.
func EvaluateString(s string) (float64, error) {
	nodes, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return Evaluate(nodes)
}

// Evaluate computes the value of nodes rounded to two decimal places.
// Errors wrap ErrDivisionByZero, ErrDomain or ErrInvalidExpression.
func Evaluate(nodes []Node) (float64, error) {
	tokens, err := flatten(nodes)
	if err != nil {
		return 0, err
	}
	postfix, err := toPostfix(tokens)
	if err != nil {
		return 0, err
	}
	v, err := evalPostfix(postfix)
	if err != nil {
		return 0, err
	}
	return Round2(v), nil
}

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

type evalKind int

const (
	evNumber evalKind = iota
	evOperator
	evLParen
	evRParen
	evFunc
)

type evalToken struct {
	kind evalKind
	num  float64
	text string
}

var (
	tokLParen = evalToken{kind: evLParen, text: "("}
	tokRParen = evalToken{kind: evRParen, text: ")"}
	tokMul    = evalToken{kind: evOperator, text: "*"}
)

// flatten walks the tree into one infix stream. Every structural slot is
// wrapped in parentheses, roots and absolutes are prefixed with their
// function name, unary minus becomes "-1 *", and implicit multiplication
// is made explicit.
func flatten(nodes []Node) ([]evalToken, error) {
	var raw []evalToken
	if err := emitSeq(&raw, nodes, 0); err != nil {
		return nil, err
	}

	out := make([]evalToken, 0, len(raw)+len(raw)/2)
	for _, t := range raw {
		var prev *evalToken
		if len(out) > 0 {
			prev = &out[len(out)-1]
		}
		if t.kind == evOperator && t.text == "-" &&
			(prev == nil || prev.kind == evOperator || prev.kind == evLParen) {
			out = append(out, evalToken{kind: evNumber, num: -1}, tokMul)
			continue
		}
		if prev != nil && implicitMul(*prev, t) {
			out = append(out, tokMul)
		}
		out = append(out, t)
	}
	return out, nil
}

func implicitMul(prev, next evalToken) bool {
	switch {
	case prev.kind == evNumber && next.kind == evLParen,
		prev.kind == evRParen && next.kind == evNumber,
		prev.kind == evRParen && next.kind == evLParen,
		prev.kind == evNumber && next.kind == evFunc,
		prev.kind == evRParen && next.kind == evFunc:
		return true
	}
	return false
}

func emitSeq(out *[]evalToken, nodes []Node, depth int) error {
	if depth > MaxDepth {
		return fmt.Errorf("%w: nesting deeper than %d levels", ErrInvalidExpression, MaxDepth)
	}
	for _, n := range nodes {
		if err := emitNode(out, n, depth); err != nil {
			return err
		}
	}
	return nil
}

func emitNode(out *[]evalToken, n Node, depth int) error {
	wrapped := func(nodes []Node) error {
		*out = append(*out, tokLParen)
		if err := emitSeq(out, nodes, depth+1); err != nil {
			return err
		}
		*out = append(*out, tokRParen)
		return nil
	}

	switch n := n.(type) {
	case Literal:
		if isOperatorText(n.Value) {
			*out = append(*out, evalToken{kind: evOperator, text: n.Value})
			return nil
		}
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return fmt.Errorf("%w: bad number %q", ErrInvalidExpression, n.Value)
		}
		*out = append(*out, evalToken{kind: evNumber, num: v})
		return nil
	case Group:
		return wrapped(n.Content)
	case Fraction:
		if err := wrapped(n.Numerator); err != nil {
			return err
		}
		*out = append(*out, evalToken{kind: evOperator, text: "/"})
		return wrapped(n.Denominator)
	case Power:
		if err := wrapped(n.Base); err != nil {
			return err
		}
		*out = append(*out, evalToken{kind: evOperator, text: "^"})
		return wrapped(n.Exponent)
	case Root:
		*out = append(*out, evalToken{kind: evFunc, text: funcSqrt})
		return wrapped(n.Content)
	case Absolute:
		*out = append(*out, evalToken{kind: evFunc, text: funcAbs})
		return wrapped(n.Content)
	case nil:
		return fmt.Errorf("%w: nil node", ErrInvalidExpression)
	}
	return fmt.Errorf("%w: unknown node %T", ErrInvalidExpression, n)
}

func precedence(op string) int {
	switch op {
	case "^":
		return 3
	case "*", "/":
		return 2
	case "+", "-":
		return 1
	}
	return 0
}

// toPostfix is the shunting-yard conversion. Functions wait on the
// operator stack until the parenthesis that follows them closes.
func toPostfix(tokens []evalToken) ([]evalToken, error) {
	out := make([]evalToken, 0, len(tokens))
	var stack []evalToken
	for _, t := range tokens {
		switch t.kind {
		case evNumber:
			out = append(out, t)
		case evFunc, evLParen:
			stack = append(stack, t)
		case evRParen:
			for len(stack) > 0 && stack[len(stack)-1].kind != evLParen {
				out = append(out, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: unbalanced parentheses", ErrInvalidExpression)
			}
			stack = stack[:len(stack)-1]
			if len(stack) > 0 && stack[len(stack)-1].kind == evFunc {
				out = append(out, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
		case evOperator:
			p := precedence(t.text)
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.kind != evOperator {
					break
				}
				tp := precedence(top.text)
				if tp < p || (tp == p && t.text == "^") {
					break
				}
				out = append(out, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, t)
		}
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].kind == evLParen {
			return nil, fmt.Errorf("%w: unbalanced parentheses", ErrInvalidExpression)
		}
		out = append(out, stack[i])
	}
	return out, nil
}

func evalPostfix(postfix []evalToken) (float64, error) {
	var stack []float64
	pop := func() (float64, bool) {
		if len(stack) == 0 {
			return 0, false
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, true
	}

	for _, t := range postfix {
		switch t.kind {
		case evNumber:
			stack = append(stack, t.num)
		case evFunc:
			a, ok := pop()
			if !ok {
				return 0, fmt.Errorf("%w: %s without operand", ErrInvalidExpression, t.text)
			}
			switch t.text {
			case funcSqrt:
				if a < 0 {
					return 0, fmt.Errorf("%w: square root of %g", ErrDomain, a)
				}
				stack = append(stack, math.Sqrt(a))
			case funcAbs:
				stack = append(stack, math.Abs(a))
			}
		case evOperator:
			b, okB := pop()
			a, okA := pop()
			if !okA || !okB {
				return 0, fmt.Errorf("%w: %q without two operands", ErrInvalidExpression, t.text)
			}
			switch t.text {
			case "+":
				stack = append(stack, a+b)
			case "-":
				stack = append(stack, a-b)
			case "*":
				stack = append(stack, a*b)
			case "/":
				if b == 0 {
					return 0, ErrDivisionByZero
				}
				stack = append(stack, a/b)
			case "^":
				stack = append(stack, math.Pow(a, b))
			}
		default:
			return 0, fmt.Errorf("%w: stray parenthesis", ErrInvalidExpression)
		}
	}

	if len(stack) != 1 {
		return 0, fmt.Errorf("%w: %d values left on the stack", ErrInvalidExpression, len(stack))
	}
	v := stack[0]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: result is not a finite number", ErrDomain)
	}
	return v, nil
}
