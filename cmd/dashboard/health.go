package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ricirt/taskboard/internal/dashboard"
)

func newHealthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the backend health once and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := opts.dashboard(zap.NewNop(), dashboard.Hooks{})
			defer d.Close()

			ctx, cancel := oneShotContext(cmd.Context(), opts)
			defer cancel()

			select {
			case <-d.Activate():
			case <-ctx.Done():
				return fmt.Errorf("health check: %w", ctx.Err())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Health: %s\n", d.View().Health)
			return nil
		},
	}
}

func oneShotContext(parent context.Context, opts *options) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if opts.cfg.APITimeout > 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, oneShotTimeout)
}
