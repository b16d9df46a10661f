package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ricirt/taskboard/internal/dashboard"
)

func newTriggerCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "trigger",
		Short: "Queue add(x, y) once and print the task id",
		Example: `  dashboard trigger --x 3 --y 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := opts.dashboard(zap.NewNop(), dashboard.Hooks{})
			defer d.Close()

			ctx, cancel := oneShotContext(cmd.Context(), opts)
			defer cancel()

			id, err := d.Trigger(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task queued: %s\n", id)
			return nil
		},
	}
}
