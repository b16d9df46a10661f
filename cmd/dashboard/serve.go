package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ricirt/taskboard/internal/dashboard"
	"github.com/ricirt/taskboard/internal/metrics"
	"github.com/ricirt/taskboard/internal/web"
)

func newServeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard page",
		Example: `  # Serve on :5173 against a local backend
  dashboard serve --api http://127.0.0.1:8000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.cfg.HTTPPort, "port", opts.cfg.HTTPPort, "listen port (DASHBOARD_PORT)")
	return cmd
}

func runServe(parent context.Context, opts *options) error {
	logger := opts.logger()
	defer logger.Sync() //nolint:errcheck

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	dm := metrics.NewDashboard(reg)
	d := opts.dashboard(logger, dashboard.Hooks{
		OnHealth:  dm.ObserveHealth,
		OnTrigger: dm.ObserveTrigger,
	})
	defer d.Close()

	srv := &http.Server{
		Addr:    ":" + opts.cfg.HTTPPort,
		Handler: web.NewRouter(d, opts.cfg.TriggerX, opts.cfg.TriggerY, reg, logger),
	}

	// The health check fires once, as soon as the dashboard is up.
	d.Activate()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("dashboard starting",
			zap.String("addr", srv.Addr),
			zap.String("api", opts.cfg.APIBaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("dashboard shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("dashboard stopped with error", zap.Error(err))
		return err
	}
	logger.Info("dashboard stopped cleanly")
	return nil
}
