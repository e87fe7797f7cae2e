package cmd

import (
	"fmt"
	"io"

	"github.com/GoCodeAlone/markgen"
	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func severityLabel(s markgen.Severity) string {
	if s == markgen.SeverityWarning {
		return warnStyle.Render("warning")
	}
	return errorStyle.Render("error")
}

// printReport writes the diagnostics, failed units and a summary of report.
func printReport(w io.Writer, report *markgen.Report, dryRun bool) {
	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "%s %s\n", dimStyle.Render("type error:"), warning)
	}
	for _, d := range report.Diagnostics {
		fmt.Fprintf(w, "%s %s\n", severityLabel(d.Severity), d.Error())
	}
	skipped := 0
	for _, u := range report.Units {
		switch {
		case u.Err != nil:
			fmt.Fprintf(w, "%s %s: %v\n", errorStyle.Render("failed"), u.Artifact, u.Err)
		case u.Skipped:
			skipped++
		case dryRun:
			fmt.Fprintf(w, "%s %s\n", dimStyle.Render("would write"), u.Path)
		}
	}

	summary := fmt.Sprintf("%d written, %d skipped, %d errors, %d failed",
		report.Written(), skipped, len(report.Errors()), len(report.Failed()))
	if report.HasErrors() {
		fmt.Fprintln(w, errorStyle.Render(summary))
		return
	}
	fmt.Fprintln(w, okStyle.Render(summary))
}
