package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpop/internal/expr"
)

// RenderExpression lays out a parsed expression as multi-line text:
// fractions stack over a bar, exponents are raised, roots get an overbar
// and absolute values and parentheses stretch to their content. Every
// line of the result has the same width.
func RenderExpression(nodes []expr.Node) string {
	b := renderSeq(nodes)
	return strings.Join(b.lines, "\n")
}

// block is a rectangle of text with a baseline row that neighbors align on.
type block struct {
	lines    []string
	width    int
	baseline int
}

func textBlock(s string) block {
	return block{lines: []string{s}, width: lipgloss.Width(s)}
}

func (b block) height() int { return len(b.lines) }

func renderSeq(nodes []expr.Node) block {
	parts := make([]block, 0, len(nodes))
	for i, n := range nodes {
		if l, ok := n.(expr.Literal); ok && expr.IsOperator(l) {
			unary := l.Value == "-" && (i == 0 || expr.IsOperator(nodes[i-1]))
			parts = append(parts, textBlock(operatorText(l.Value, unary)))
			continue
		}
		parts = append(parts, renderNode(n))
	}
	return hcat(parts...)
}

func operatorText(op string, unary bool) string {
	switch {
	case unary:
		return "-"
	case op == "*":
		return " × "
	case op == "/":
		return " ÷ "
	default:
		return " " + op + " "
	}
}

func renderNode(n expr.Node) block {
	switch n := n.(type) {
	case expr.Literal:
		return textBlock(n.Value)
	case expr.Group:
		return parens(renderSeq(n.Content))
	case expr.Fraction:
		return fraction(renderSeq(n.Numerator), renderSeq(n.Denominator))
	case expr.Power:
		base := renderSeq(n.Base)
		if len(n.Base) > 1 {
			base = parens(base)
		}
		return power(base, renderSeq(n.Exponent))
	case expr.Root:
		return root(renderSeq(n.Content))
	case expr.Absolute:
		return bars(renderSeq(n.Content))
	}
	return textBlock("?")
}

// hcat joins blocks left to right with their baselines on one row.
func hcat(blocks ...block) block {
	if len(blocks) == 0 {
		return textBlock("")
	}
	above, below := 0, 0
	for _, b := range blocks {
		above = max(above, b.baseline)
		below = max(below, b.height()-1-b.baseline)
	}
	rows := make([]strings.Builder, above+below+1)
	width := 0
	for _, b := range blocks {
		top := above - b.baseline
		blank := strings.Repeat(" ", b.width)
		for r := range rows {
			i := r - top
			if i >= 0 && i < b.height() {
				rows[r].WriteString(b.lines[i])
			} else {
				rows[r].WriteString(blank)
			}
		}
		width += b.width
	}
	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = rows[i].String()
	}
	return block{lines: lines, width: width, baseline: above}
}

func center(s string, sw, width int) string {
	left := (width - sw) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-sw-left)
}

func fraction(num, den block) block {
	width := max(num.width, den.width) + 2
	lines := make([]string, 0, num.height()+den.height()+1)
	for _, l := range num.lines {
		lines = append(lines, center(l, num.width, width))
	}
	lines = append(lines, strings.Repeat("─", width))
	for _, l := range den.lines {
		lines = append(lines, center(l, den.width, width))
	}
	return block{lines: lines, width: width, baseline: num.height()}
}

func power(base, exp block) block {
	lines := make([]string, 0, exp.height()+base.height())
	padBase := strings.Repeat(" ", base.width)
	padExp := strings.Repeat(" ", exp.width)
	for _, l := range exp.lines {
		lines = append(lines, padBase+l)
	}
	for _, l := range base.lines {
		lines = append(lines, l+padExp)
	}
	return block{
		lines:    lines,
		width:    base.width + exp.width,
		baseline: exp.height() + base.baseline,
	}
}

func root(content block) block {
	lines := make([]string, 0, content.height()+1)
	lines = append(lines, " "+strings.Repeat("_", content.width))
	for i, l := range content.lines {
		prefix := " "
		switch {
		case i < content.baseline:
			prefix = "│"
		case i == content.baseline:
			prefix = "√"
		}
		lines = append(lines, prefix+l)
	}
	return block{lines: lines, width: content.width + 1, baseline: content.baseline + 1}
}

func bars(content block) block {
	lines := make([]string, len(content.lines))
	for i, l := range content.lines {
		lines[i] = "|" + l + "|"
	}
	return block{lines: lines, width: content.width + 2, baseline: content.baseline}
}

func parens(content block) block {
	h := content.height()
	lines := make([]string, h)
	for i, l := range content.lines {
		left, right := "(", ")"
		if h > 1 {
			switch i {
			case 0:
				left, right = "⎛", "⎞"
			case h - 1:
				left, right = "⎝", "⎠"
			default:
				left, right = "⎜", "⎟"
			}
		}
		lines[i] = left + l + right
	}
	return block{lines: lines, width: content.width + 2, baseline: content.baseline}
}
