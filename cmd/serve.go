package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathpop/internal/api"
	"github.com/abhisek/mathpop/internal/problembank"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz over HTTP and websocket",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		logger, logCloser, err := newLogger(cfg, false)
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

		bank, err := problembank.Default()
		if err != nil {
			return err
		}

		server := api.NewServer(api.Options{
			Bank:           bank,
			Adaptive:       newAdaptive(ctx, cfg, st, logger),
			BankOptions:    cfg.BankOptions(),
			Session:        cfg.SessionConfig(),
			FlagsFor:       flagsFor,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Logger:         logger,
		})

		httpServer := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           server.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", cfg.Server.Addr)
			fmt.Fprintf(cmd.ErrOrStderr(), "mathpop listening on %s\n", cfg.Server.Addr)
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
