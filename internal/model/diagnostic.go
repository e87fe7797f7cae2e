package model

import (
	"fmt"
	"go/token"
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one defect reported against a declaration.
type Diagnostic struct {
	Severity Severity
	Position token.Position
	// Subject is the qualified name of the offending declaration.
	Subject string
	Err     error
}

func (d Diagnostic) Error() string {
	if d.Position.IsValid() {
		return fmt.Sprintf("%s: %s: %v", d.Position, d.Subject, d.Err)
	}
	return fmt.Sprintf("%s: %v", d.Subject, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Reporter is the "report error at declaration" capability.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(d Diagnostic)

// Report implements Reporter.
func (f ReporterFunc) Report(d Diagnostic) {
	f(d)
}

// Errorf builds an error diagnostic wrapping kind.
func Errorf(src Source, kind error, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Position: src.Pos,
		Subject:  src.Name,
		Err:      fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...)),
	}
}

// Warnf builds a warning diagnostic wrapping kind.
func Warnf(src Source, kind error, format string, args ...any) Diagnostic {
	d := Errorf(src, kind, format, args...)
	d.Severity = SeverityWarning
	return d
}
