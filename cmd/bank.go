package cmd

import (
	"fmt"
	"slices"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/mathpop/internal/problembank"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect the built-in problem bank",
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bank problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetInt("level")
		bank, err := problembank.Default()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		levels := bank.Levels()
		if level != 0 {
			if !slices.Contains(levels, level) {
				return fmt.Errorf("unknown level %d (want %d-%d)", level, problembank.MinLevel, problembank.MaxLevel)
			}
			levels = []int{level}
		}

		for _, lvl := range levels {
			fmt.Fprintf(out, "Level %d\n", lvl)
			for i, it := range bank.Level(lvl) {
				fmt.Fprintf(out, "  %2d  %-32s  = %-8g  %3ds\n", i+1, it.Question, it.Answer, it.Time)
			}
		}
		return nil
	},
}

var bankVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check every stored answer against the evaluator",
	RunE: func(cmd *cobra.Command, args []string) error {
		bank, err := problembank.Default()
		if err != nil {
			return err
		}

		var (
			mu         sync.Mutex
			mismatches []problembank.Mismatch
		)
		var g errgroup.Group
		for _, lvl := range bank.Levels() {
			g.Go(func() error {
				found := bank.VerifyLevel(lvl)
				mu.Lock()
				mismatches = append(mismatches, found...)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(mismatches) == 0 {
			fmt.Fprintf(out, "All %d problems match the evaluator.\n", bank.Size())
			return nil
		}
		slices.SortFunc(mismatches, func(a, b problembank.Mismatch) int {
			if a.Level != b.Level {
				return a.Level - b.Level
			}
			return a.Index - b.Index
		})
		for _, m := range mismatches {
			fmt.Fprintln(out, m.String())
		}
		return fmt.Errorf("%d of %d problems do not match", len(mismatches), bank.Size())
	},
}

func init() {
	bankListCmd.Flags().IntP("level", "l", 0, "Only list this level")

	bankCmd.AddCommand(bankListCmd)
	bankCmd.AddCommand(bankVerifyCmd)
}
