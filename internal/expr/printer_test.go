package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_Canonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2 + 3 * 4", "2+3*4"},
		{"1/2", "{1/2}"},
		{"(2+3)^2", "(2+3)^2"},
		{"2^3^2", "2^3^2"},
		{"(2^3)^2", "(2^3)^2"},
		{"√16", "sqrt(16)"},
		{"|-5|", "|-5|"},
		{"20% of 50", "{20/100}*50"},
		{"((2+3))^2", "((2+3))^2"},
		{"2^(-1)", "2^(-1)"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			nodes, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Format(nodes))
		})
	}
}

// Parsing is a left inverse of the printer for every tree the parser builds.
func TestFormat_RoundTrip(t *testing.T) {
	corpus := []string{
		"2+3*4", "(2+3)*4", "2^3^2", "{1/2}+{1/4}", "sqrt(64)", "|-5|",
		"1/2/4", "2^3/4", "8/2^2", "{1+2/3}", "{{1/2}/3}", "2(3)(4)",
		"-2^2", "2*-3", "(2^3)^2", "((2+3))^2", "(-8)^{1/3}", "2^(1+1)^3",
		"||-3|-4|", "|2*|-3||", "sqrt(sqrt(16))+√9", "{sqrt(2)/2}^2",
		"3.5*(2-0.5)", "{1/{1/2}}", "|{-1/2}|^2", "(1)(2)sqrt(4)",
		"2(3)^2", "2(3)^(2)", "1.5(2)^3", "2({1/2})^2",
	}
	for _, in := range corpus {
		t.Run(in, func(t *testing.T) {
			first, err := Parse(in)
			require.NoError(t, err)
			printed := Format(first)
			second, err := Parse(printed)
			require.NoError(t, err, "reparse %q", printed)
			assert.Equal(t, first, second, "printed as %q", printed)
		})
	}
}

func TestFormat_NumberBeforePower(t *testing.T) {
	nodes, err := Parse("2(3)^2")
	require.NoError(t, err)
	printed := Format(nodes)
	assert.Equal(t, "2(3)^2", printed)

	want, err := Evaluate(nodes)
	require.NoError(t, err)
	got, err := EvaluateString(printed)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 18.0, got)
}
