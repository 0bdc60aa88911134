package expr

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lit(v string) Literal { return Literal{Value: v} }

func seq(nodes ...Node) []Node { return nodes }

func TestParse_Structure(t *testing.T) {
	tests := []struct {
		in   string
		want []Node
	}{
		{"2+3", seq(lit("2"), lit("+"), lit("3"))},
		{"(2+3)*4", seq(Group{Content: seq(lit("2"), lit("+"), lit("3"))}, lit("*"), lit("4"))},
		{"{1/2}", seq(Fraction{Numerator: seq(lit("1")), Denominator: seq(lit("2"))})},
		{"{1+2/3}", seq(Fraction{
			Numerator:   seq(lit("1"), lit("+"), lit("2")),
			Denominator: seq(lit("3")),
		})},
		{"sqrt(64)", seq(Root{Content: seq(lit("64"))})},
		{"√9", seq(Root{Content: seq(lit("9"))})},
		{"|-5|", seq(Absolute{Content: seq(lit("-"), lit("5"))})},
		{"-2", seq(lit("-"), lit("2"))},
		{"2*-3", seq(lit("2"), lit("*"), lit("-"), lit("3"))},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_PowerFoldingIsRightAssociative(t *testing.T) {
	got, err := Parse("2^3^2")
	require.NoError(t, err)
	want := seq(Power{
		Base: seq(lit("2")),
		Exponent: seq(Power{
			Base:     seq(lit("3")),
			Exponent: seq(lit("2")),
		}),
	})
	assert.Equal(t, want, got)
}

func TestParse_PowerUnwrapsGroups(t *testing.T) {
	got, err := Parse("(2+3)^(1+1)")
	require.NoError(t, err)
	want := seq(Power{
		Base:     seq(lit("2"), lit("+"), lit("3")),
		Exponent: seq(lit("1"), lit("+"), lit("1")),
	})
	assert.Equal(t, want, got)
}

func TestParse_FractionFoldingIsLeftAssociative(t *testing.T) {
	got, err := Parse("1/2/4")
	require.NoError(t, err)
	want := seq(Fraction{
		Numerator:   seq(Fraction{Numerator: seq(lit("1")), Denominator: seq(lit("2"))}),
		Denominator: seq(lit("4")),
	})
	assert.Equal(t, want, got)
}

func TestParse_PowerBindsBeforeFraction(t *testing.T) {
	got, err := Parse("2^3/4")
	require.NoError(t, err)
	want := seq(Fraction{
		Numerator:   seq(Power{Base: seq(lit("2")), Exponent: seq(lit("3"))}),
		Denominator: seq(lit("4")),
	})
	assert.Equal(t, want, got)

	got, err = Parse("8/2^2")
	require.NoError(t, err)
	want = seq(Fraction{
		Numerator:   seq(lit("8")),
		Denominator: seq(Power{Base: seq(lit("2")), Exponent: seq(lit("2"))}),
	})
	assert.Equal(t, want, got)
}

func TestParse_FoldsOnlyImmediateNeighbors(t *testing.T) {
	got, err := Parse("1+6/3-2")
	require.NoError(t, err)
	want := seq(
		lit("1"), lit("+"),
		Fraction{Numerator: seq(lit("6")), Denominator: seq(lit("3"))},
		lit("-"), lit("2"),
	)
	assert.Equal(t, want, got)
}

func TestParse_FixupsRunInsideNestedSlots(t *testing.T) {
	got, err := Parse("sqrt(2^2*4)")
	require.NoError(t, err)
	want := seq(Root{Content: seq(
		Power{Base: seq(lit("2")), Exponent: seq(lit("2"))},
		lit("*"), lit("4"),
	)})
	assert.Equal(t, want, got)
}

func TestParse_NestedAbsolute(t *testing.T) {
	got, err := Parse("||-3|-4|")
	require.NoError(t, err)
	want := seq(Absolute{Content: seq(
		Absolute{Content: seq(lit("-"), lit("3"))},
		lit("-"), lit("4"),
	)})
	assert.Equal(t, want, got)

	got, err = Parse("|2*|-3||")
	require.NoError(t, err)
	want = seq(Absolute{Content: seq(
		lit("2"), lit("*"),
		Absolute{Content: seq(lit("-"), lit("3"))},
	)})
	assert.Equal(t, want, got)
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		in      string
		contain string
	}{
		{"", "empty expression"},
		{"2+", "missing its right operand"},
		{"/2", "missing its left operand"},
		{"^2", "missing its left operand"},
		{"2^-3", `unexpected "-" after "^"`},
		{"2*/3", `unexpected "/" after "*"`},
		{"(2+3", `missing ")"`},
		{"2+3)", `unexpected ")"`},
		{"()", "empty expression"},
		{"{1+2}", `unexpected "}"`},
		{"{/2}", "empty expression"},
		{"2 3", "missing operator between numbers"},
		{"2+x", `unexpected "x"`},
		{"sqrt+4", "sqrt must be followed by"},
		{"||", `missing "|"`},
		{"1.2.3", `unexpected "1.2.3"`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Parse(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSyntax), "error should wrap ErrSyntax: %v", err)
			assert.Contains(t, err.Error(), tt.contain)
		})
	}
}

func TestParse_DepthLimit(t *testing.T) {
	in := strings.Repeat("(", MaxDepth+2) + "1" + strings.Repeat(")", MaxDepth+2)
	_, err := Parse(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nesting deeper")

	ok := strings.Repeat("(", MaxDepth-1) + "1" + strings.Repeat(")", MaxDepth-1)
	_, err = Parse(ok)
	assert.NoError(t, err)
}

func TestParse_NeverEmitsEmptySlots(t *testing.T) {
	inputs := []string{
		"{1/2}+{1/4}", "2^3^2", "(1+2)/(3-4)", "sqrt(sqrt(16))", "|{-1/2}|^2",
		"1/2/3/4", "2(3)(4)", "20% of 50", "((2))^((3))",
	}
	var check func(t *testing.T, nodes []Node)
	check = func(t *testing.T, nodes []Node) {
		require.NotEmpty(t, nodes)
		assert.False(t, IsOperator(nodes[len(nodes)-1]), "sequence ends with an operator")
		for _, n := range nodes {
			switch n := n.(type) {
			case Group:
				check(t, n.Content)
			case Root:
				check(t, n.Content)
			case Absolute:
				check(t, n.Content)
			case Fraction:
				check(t, n.Numerator)
				check(t, n.Denominator)
			case Power:
				check(t, n.Base)
				check(t, n.Exponent)
			}
		}
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			nodes, err := Parse(in)
			require.NoError(t, err)
			check(t, nodes)
		})
	}
}
