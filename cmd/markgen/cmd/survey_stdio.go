package cmd

import (
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// SurveyIO represents the standard input/output streams for surveys
type SurveyIO struct {
	In  terminal.FileReader
	Out terminal.FileWriter
	Err terminal.FileWriter
}

// DefaultSurveyIO provides standard IO for interactive prompts
var DefaultSurveyIO = SurveyIO{
	In:  os.Stdin,
	Out: os.Stdout,
	Err: os.Stderr,
}

// WithStdio returns survey.WithStdio option
func (s SurveyIO) WithStdio() survey.AskOpt {
	return survey.WithStdio(s.In, s.Out, s.Err)
}
