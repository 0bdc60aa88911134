package expr

import "slices"

// foldPowers replaces every "a ^ b" in a checked sequence with a Power
// node. It walks right to left with an output stack so that a chain like
// 2^3^2 binds as 2^(3^2) in a single pass.
func foldPowers(nodes []Node) []Node {
	if !slices.ContainsFunc(nodes, isOp("^")) {
		return nodes
	}
	out := make([]Node, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if !isOp("^")(n) {
			out = append(out, n)
			continue
		}
		exponent := out[len(out)-1]
		out[len(out)-1] = Power{
			Base:     unwrap(nodes[i-1]),
			Exponent: unwrap(exponent),
		}
		i-- // the base has been consumed
	}
	slices.Reverse(out)
	return out
}

// foldFractions replaces every "a / b" in a checked sequence with a
// Fraction node, left to right, so 1/2/4 becomes (1/2)/4.
func foldFractions(nodes []Node) []Node {
	if !slices.ContainsFunc(nodes, isOp("/")) {
		return nodes
	}
	out := make([]Node, 0, len(nodes))
	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		if !isOp("/")(n) {
			out = append(out, n)
			continue
		}
		numerator := out[len(out)-1]
		out[len(out)-1] = Fraction{
			Numerator:   unwrap(numerator),
			Denominator: unwrap(nodes[i+1]),
		}
		i++ // the denominator has been consumed
	}
	return out
}

// unwrap returns a Group's content, or n alone. Parentheses around a
// folded operand only establish grouping; they are not rendered.
func unwrap(n Node) []Node {
	if g, ok := n.(Group); ok {
		return g.Content
	}
	return []Node{n}
}

func isOp(op string) func(Node) bool {
	return func(n Node) bool {
		l, ok := n.(Literal)
		return ok && l.Value == op
	}
}
