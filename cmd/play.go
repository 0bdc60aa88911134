package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathpop/internal/app"
	"github.com/abhisek/mathpop/internal/llm"
	"github.com/abhisek/mathpop/internal/problembank"
	"github.com/abhisek/mathpop/internal/problemgen"
	"github.com/abhisek/mathpop/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a quiz (the default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().String("mode", "", "Starting mode: adaptive or standard")
	cmd.Flags().Int("level", 0, "Starting level for standard mode (1-10)")
}

func init() {
	addPlayFlags(playCmd)
}

// runApp loads configuration, builds the controller and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if m, _ := cmd.Flags().GetString("mode"); m != "" {
		cfg.Quiz.Mode = m
	}
	if lvl, _ := cmd.Flags().GetInt("level"); lvl != 0 {
		if lvl < problembank.MinLevel || lvl > problembank.MaxLevel {
			return fmt.Errorf("--level must be between %d and %d", problembank.MinLevel, problembank.MaxLevel)
		}
		cfg.Quiz.StartLevel = lvl
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, logCloser, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	flagsFor, closeFlags, err := noticeFlags(ctx, cfg, st)
	if err != nil {
		return err
	}
	defer closeFlags()

	ctrl := session.New(cfg.SessionConfig(), session.Deps{
		Adaptive: newAdaptive(ctx, cfg, st, logger),
		Bank:     problemgen.NewBankProducer(problembank.MustDefault(), cfg.BankOptions()),
		Flags:    flagsFor(""),
		Logger:   logger,
	})

	ctx = llm.WithSession(ctx, llm.NewSessionID())
	return app.Run(ctx, app.Options{Controller: ctrl})
}
