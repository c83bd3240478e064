package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/blaine-t/splits/internal/config"
	"github.com/blaine-t/splits/internal/notify"
	"github.com/blaine-t/splits/internal/server"
	"github.com/blaine-t/splits/internal/store"
)

// serveCmd hosts the splits backend
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the splits server",
	Long: `Hosts the splits HTTP API: split submission, the text board, JSON
listings, record boards, and Prometheus metrics.

Validation rules reload live when the config file changes; no restart
needed to tighten the username blacklist.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo, err := store.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer repo.Close()

	opts := server.Options{NotifyTimeout: cfg.NotifyTimeout()}
	if cfg.Notify.Enabled {
		opts.Notifier = notify.NewWebhook(cfg.Notify.WebhookURL, cfg.NotifyTimeout(), logger)
		logger.Info("webhook notifications enabled")
	}

	srv := server.New(cfg.Server, repo, cfg.Validation, logger, opts)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		// Watch failures (missing inotify, deleted file) degrade to a
		// fixed-rules server rather than killing it.
		if err := config.Watch(gctx, cfgPath, logger, func(next *config.Config) {
			srv.SetRules(next.Validation)
		}); err != nil && gctx.Err() == nil {
			logger.Warn("config watch stopped", zap.Error(err))
		}
		return nil
	})

	return g.Wait()
}
