package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/GoCodeAlone/markgen"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/spf13/cobra"
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand(opts *globalOptions) *cobra.Command {
	var dryRun bool
	var events bool

	cmd := &cobra.Command{
		Use:   "generate [patterns...]",
		Short: "Generate code for the marked declarations",
		Long: `Load the packages matching the patterns (./... by default), validate every
marked declaration and write one generated file per artifact. Declarations
with errors are reported and skip only their own artifacts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if dryRun {
				cfg.DryRun = true
			}

			var extra []markgen.Option
			if events {
				extra = append(extra, markgen.WithObserverFunc("cli-events", eventPrinter(cmd.OutOrStdout())))
			}
			g, err := opts.newGenerator(cmd.ErrOrStderr(), cfg, extra...)
			if err != nil {
				return err
			}

			report, err := g.Generate(cmd.Context(), args...)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report, cfg.DryRun)
			if report.HasErrors() {
				return markgen.ErrGenerationFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render units without writing them")
	cmd.Flags().BoolVar(&events, "events", false, "Print generation events as CloudEvents JSON lines")

	return cmd
}

// eventPrinter writes each event as one JSON line.
func eventPrinter(w io.Writer) markgen.ObserverFunc {
	return func(ctx context.Context, event cloudevents.Event) error {
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
}
