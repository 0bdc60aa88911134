package expr

import "strings"

// Format prints nodes in the canonical input syntax, so that
// Parse(Format(nodes)) rebuilds the same tree for anything Parse returned.
// Fractions always use the explicit {a/b} form.
func Format(nodes []Node) string {
	var b strings.Builder
	formatSeq(&b, nodes)
	return b.String()
}

func formatSeq(b *strings.Builder, nodes []Node) {
	for i, n := range nodes {
		// A bare base would merge with a preceding number: 2(3)^2 is not 23^2.
		if p, ok := n.(Power); ok && i > 0 && isNumberLiteral(nodes[i-1]) {
			b.WriteByte('(')
			formatSeq(b, p.Base)
			b.WriteString(")^")
			formatOperand(b, p.Exponent, true)
			continue
		}
		formatNode(b, n)
	}
}

func formatNode(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case Literal:
		b.WriteString(n.Value)
	case Group:
		b.WriteByte('(')
		formatSeq(b, n.Content)
		b.WriteByte(')')
	case Fraction:
		b.WriteByte('{')
		formatSeq(b, n.Numerator)
		b.WriteByte('/')
		formatSeq(b, n.Denominator)
		b.WriteByte('}')
	case Power:
		formatOperand(b, n.Base, false)
		b.WriteByte('^')
		formatOperand(b, n.Exponent, true)
	case Root:
		b.WriteString("sqrt(")
		formatSeq(b, n.Content)
		b.WriteByte(')')
	case Absolute:
		b.WriteByte('|')
		formatSeq(b, n.Content)
		b.WriteByte('|')
	}
}

// formatOperand prints a power's base or exponent, adding parentheses
// unless the slot is one self-delimiting node. A bare power is only safe
// in the exponent, where it re-associates to the right.
func formatOperand(b *strings.Builder, nodes []Node, exponent bool) {
	if len(nodes) == 1 {
		switch nodes[0].(type) {
		case Fraction, Root, Absolute:
			formatNode(b, nodes[0])
			return
		case Literal:
			if isNumberLiteral(nodes[0]) {
				formatNode(b, nodes[0])
				return
			}
		case Power:
			if exponent {
				formatNode(b, nodes[0])
				return
			}
		}
	}
	b.WriteByte('(')
	formatSeq(b, nodes)
	b.WriteByte(')')
}
