package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathpop/internal/expr"
	"github.com/abhisek/mathpop/internal/ui/components"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Parse, render and evaluate an arithmetic expression",
	Example: `  mathpop eval "{3/4} + 2^3"
  mathpop eval "sqrt(16) * |2 - 5|"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := strings.Join(args, " ")
		out := cmd.OutOrStdout()

		var toks []string
		for _, t := range expr.Tokenize(src) {
			toks = append(toks, fmt.Sprintf("%s(%s)", t.Kind, t.Text))
		}
		fmt.Fprintln(out, "Tokens:   ", strings.Join(toks, " "))

		tree, err := expr.Parse(src)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Canonical:", expr.Format(tree))
		fmt.Fprintln(out)
		fmt.Fprintln(out, components.RenderExpression(tree))
		fmt.Fprintln(out)

		v, err := expr.Evaluate(tree)
		if err != nil {
			return fmt.Errorf("evaluate %q: %w", src, err)
		}
		fmt.Fprintf(out, "Answer:    %g\n", expr.Round2(v))
		return nil
	},
}
