package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ricirt/taskboard/internal/apiclient"
	"github.com/ricirt/taskboard/internal/config"
	"github.com/ricirt/taskboard/internal/dashboard"
)

// options are the settings shared by every sub-command. Environment
// variables provide the defaults, flags override them.
type options struct {
	cfg     *config.Dashboard
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{cfg: config.LoadDashboard()}

	root := &cobra.Command{
		Use:   "dashboard",
		Short: "Health and task trigger dashboard for the task backend",
		Long: `Dashboard for the task backend.

Shows the backend health (checked once at start-up) and queues an
add(x, y) task each time the trigger is pressed, displaying the task id
the backend returns.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.cfg.APIBaseURL, "api", opts.cfg.APIBaseURL, "backend base URL (API_BASE_URL)")
	flags.DurationVar(&opts.cfg.APITimeout, "api-timeout", opts.cfg.APITimeout, "per-request timeout, 0 for none (API_TIMEOUT)")
	flags.IntVar(&opts.cfg.TriggerX, "x", opts.cfg.TriggerX, "first add argument (TRIGGER_X)")
	flags.IntVar(&opts.cfg.TriggerY, "y", opts.cfg.TriggerY, "second add argument (TRIGGER_Y)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newServeCmd(opts),
		newHealthCmd(opts),
		newTriggerCmd(opts),
	)
	return root
}

func (o *options) logger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	if o.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func (o *options) client() *apiclient.Client {
	return apiclient.New(o.cfg.APIBaseURL, o.cfg.APITimeout)
}

func (o *options) dashboard(logger *zap.Logger, hooks dashboard.Hooks) *dashboard.Dashboard {
	return dashboard.New(o.client(), o.cfg.TriggerX, o.cfg.TriggerY, logger, hooks)
}

// oneShotTimeout bounds the health and trigger sub-commands when no API
// timeout is configured, so a stuck backend cannot hang a terminal forever.
const oneShotTimeout = 30 * time.Second
