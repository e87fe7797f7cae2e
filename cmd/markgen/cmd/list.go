package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command
func NewListCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [patterns...]",
		Short: "List the artifacts that would be generated",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			g, err := opts.newGenerator(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}
			report, err := g.Plan(cmd.Context(), args...)
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"Artifact", "Kind", "Package", "File", "Status"})
			for _, u := range report.Units {
				status := okStyle.Render("ok")
				if u.Skipped {
					status = errorStyle.Render("skipped")
				}
				tw.AppendRow(table.Row{u.Artifact, u.Kind, u.Package, u.Path, status})
			}
			tw.AppendFooter(table.Row{"", "", "", "errors", len(report.Errors())})
			tw.Render()

			for _, d := range report.Diagnostics {
				cmd.PrintErrf("%s %s\n", severityLabel(d.Severity), d.Error())
			}
			return nil
		},
	}
	return cmd
}
