package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/GoCodeAlone/markgen"
	"github.com/spf13/cobra"
)

// NewWatchCommand creates the watch command
func NewWatchCommand(opts *globalOptions) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [patterns...]",
		Short: "Regenerate whenever a Go source changes",
		Long: `Generate once, then watch the directory tree and regenerate after every
burst of changes to non-generated Go files. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			g, err := opts.newGenerator(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			err = g.Watch(cmd.Context(), debounce, func(report *markgen.Report) {
				printReport(out, report, cfg.DryRun)
			}, args...)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "Quiet period before regenerating")
	return cmd
}
