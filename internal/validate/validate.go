// Package validate checks the descriptors of a batch and marks every
// artifact that must not be emitted.
package validate

import (
	"go/token"
	"go/types"
	"strings"

	"github.com/GoCodeAlone/markgen/internal/model"
	"github.com/GoCodeAlone/markgen/internal/scan"
)

// Generated artifact and hook names that user declarations must not use.
const (
	HookDependencyProvider = "DependencyProvider"
	HookPlugger            = "Plugger"
	HookPluginSet          = "PluginSet"
	HookPluginBinder       = "PluginBinder"
	DispatcherName         = "State"
	DispatcherEvents       = "StateEvents"
)

// EngineMethods are the methods of the state engine the dispatcher embeds.
var EngineMethods = []string{
	"Init", "IsEngine", "Governor", "TransitTo", "ActiveState", "HasActiveState",
	"SetSuperState", "SuperState", "OnError", "Unhandled", "UnhandledEvents",
}

// DefaultAllowedTypes are external parameter types providers may take
// without a provider in scope.
var DefaultAllowedTypes = []string{
	"context.Context",
	"*log/slog.Logger",
}

// Options configures validation.
type Options struct {
	// AllowedTypes lists fully qualified type strings, e.g.
	// "*log/slog.Logger", providers may take as parameters.
	AllowedTypes []string
	// GeneratedSuffix identifies files written by a previous run; their
	// declarations do not count as conflicts.
	GeneratedSuffix string
}

type validator struct {
	b     *model.Batch
	table scan.SymbolTable
	opts  Options
}

// Validate checks every descriptor family on b. Defects are reported on b
// and mark the owning artifact Invalid.
func Validate(b *model.Batch, table scan.SymbolTable, opts Options) {
	if opts.AllowedTypes == nil {
		opts.AllowedTypes = DefaultAllowedTypes
	}
	v := &validator{b: b, table: table, opts: opts}
	v.scopes()
	v.cycles()
	v.machines()
	v.contracts()
	v.plugins()
	v.delegates()
}

func (v *validator) errorf(src model.Source, kind error, format string, args ...any) {
	v.b.Report(model.Errorf(src, kind, format, args...))
}

// generated reports whether obj was declared by a previous run.
func (v *validator) generated(obj types.Object) bool {
	if v.opts.GeneratedSuffix == "" {
		return false
	}
	return strings.HasSuffix(v.table.Position(obj).Filename, v.opts.GeneratedSuffix)
}

// declaresMethod reports whether tn itself declares method name outside
// generated files.
func (v *validator) declaresMethod(tn *types.TypeName, name string) bool {
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return false
	}
	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		if m.Name() == name && !v.generated(m) {
			return true
		}
	}
	if st, ok := named.Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			if st.Field(i).Name() == name && !v.generated(st.Field(i)) {
				return true
			}
		}
	}
	return false
}

// declaresObject reports whether package pkgPath declares name outside
// generated files.
func (v *validator) declaresObject(pkgPath, name string) bool {
	pkg, ok := v.table.Package(pkgPath)
	if !ok {
		return false
	}
	obj := pkg.Types.Scope().Lookup(name)
	return obj != nil && !v.generated(obj)
}

func isGeneric(tn *types.TypeName) bool {
	named, ok := tn.Type().(*types.Named)
	return ok && named.TypeParams().Len() > 0
}

func isStruct(tn *types.TypeName) bool {
	_, ok := tn.Type().Underlying().(*types.Struct)
	return ok
}

func exported(name string) bool {
	return token.IsExported(name)
}
