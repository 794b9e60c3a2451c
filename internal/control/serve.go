package control

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"voxscribe/internal/asr"
	"voxscribe/internal/config"
	"voxscribe/internal/history"
	"voxscribe/internal/logging"
	"voxscribe/internal/server"
	"voxscribe/internal/transcribe"

	"github.com/spf13/cobra"
)

// NewServeCmd runs the HTTP API in the foreground.
func NewServeCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the voxscribe HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				if err := os.Setenv("VOXSCRIBE_ADDR", addr); err != nil {
					return fmt.Errorf("set VOXSCRIBE_ADDR: %w", err)
				}
			}
			if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
				if err := os.Setenv("VOXSCRIBE_METRICS_ADDR", addr); err != nil {
					return fmt.Errorf("set VOXSCRIBE_METRICS_ADDR: %w", err)
				}
			}
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			logger, err := logging.Configure(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			loader := asr.NewLoader(cfg, logger)
			defer func() {
				if err := loader.Close(); err != nil {
					logger.Warnf("close model loader: %v", err)
				}
			}()

			svc := transcribe.NewService(loader, logger)
			store := history.NewMemoryStore(cfg.History.Limit)
			return server.New(cfg, logger, svc, store).Serve(ctx)
		},
	}
	cmd.Flags().String("addr", "", "listen address override (e.g., :8080)")
	cmd.Flags().String("metrics-addr", "", "enable metrics at address (e.g., 127.0.0.1:9327)")
	return cmd
}
