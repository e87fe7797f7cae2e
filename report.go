package markgen

import (
	"github.com/GoCodeAlone/markgen/internal/model"
)

// Diagnostic is one defect reported against a declaration.
type Diagnostic = model.Diagnostic

// Severity of a Diagnostic.
type Severity = model.Severity

const (
	SeverityError   = model.SeverityError
	SeverityWarning = model.SeverityWarning
)

// Unit is one generated source file.
type Unit struct {
	// Artifact is the generated type, for example Clicker_PlugInvoker.
	Artifact string
	Kind     string
	Package  string
	Filename string
	// Path is Filename inside the package directory, or inside the import
	// path for in-memory packages.
	Path   string
	Source []byte
}

// UnitResult records what happened to one planned artifact.
type UnitResult struct {
	Artifact string
	Kind     string
	Package  string
	Path     string
	// Skipped is set when validation rejected the artifact's declarations.
	Skipped bool
	Written bool
	Err     error
}

// Report is the outcome of one generation run.
type Report struct {
	BatchID     string
	Diagnostics []Diagnostic
	Units       []UnitResult
	// Warnings are type errors tolerated while loading packages.
	Warnings []string
}

// Errors returns the error diagnostics.
func (r *Report) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// Failed returns the units that could not be rendered or written.
func (r *Report) Failed() []UnitResult {
	var out []UnitResult
	for _, u := range r.Units {
		if u.Err != nil {
			out = append(out, u)
		}
	}
	return out
}

// Written counts the units written to the destination.
func (r *Report) Written() int {
	n := 0
	for _, u := range r.Units {
		if u.Written {
			n++
		}
	}
	return n
}

// HasErrors reports whether any declaration or unit failed.
func (r *Report) HasErrors() bool {
	return len(r.Errors()) > 0 || len(r.Failed()) > 0
}
