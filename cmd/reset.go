package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathpop/internal/config"
	"github.com/abhisek/mathpop/internal/flags"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Show the one-time decimal notice again",
	Long: "Clears the remembered decimal notice so the next decimal problem shows it again.\n" +
		"With the redis backend, --client selects which websocket client to reset.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		switch cfg.Flags.Backend {
		case config.BackendMemory:
			fmt.Fprintln(out, "Flags are kept in memory; nothing to reset.")
			return nil
		case config.BackendRedis:
			client, err := newRedisClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer client.Close()
			clientID, _ := cmd.Flags().GetString("client")
			f := flags.NewRedisFlags(client, cfg.Flags.Redis.Prefix, clientID, cfg.RedisTTL())
			if err := f.ResetDecimalNotice(ctx); err != nil {
				return fmt.Errorf("reset decimal notice: %w", err)
			}
		default:
			st, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Settings().ResetDecimalNotice(ctx); err != nil {
				return fmt.Errorf("reset decimal notice: %w", err)
			}
		}

		fmt.Fprintln(out, "Decimal notice reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().String("client", "", "Client id whose flags to reset (redis backend)")
}
