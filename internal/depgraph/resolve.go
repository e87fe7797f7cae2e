// Package depgraph builds scope and provider descriptors and binds every
// provider to exactly one scope.
package depgraph

import (
	"go/types"
	"sort"
	"strings"

	"github.com/GoCodeAlone/markgen/internal/model"
	"github.com/GoCodeAlone/markgen/internal/scan"
)

// DefaultScopeBase is the runtime type whose embedders are scopes.
const DefaultScopeBase = "github.com/GoCodeAlone/markgen/inject.Scope"

// Options configures Resolve.
type Options struct {
	// ScopeBase is the qualified name of the scope base type.
	ScopeBase string
}

// Resolve declares scopes, builds provider descriptors and binds them.
// Binding failures are reported on b and leave the provider unbound.
func Resolve(b *model.Batch, table scan.SymbolTable, decls []*scan.Decl, opts Options) {
	if opts.ScopeBase == "" {
		opts.ScopeBase = DefaultScopeBase
	}
	DeclareScopes(b, table, decls, opts.ScopeBase)

	for _, d := range scan.Select(decls, scan.MarkerProvides) {
		p := NewProvider(table, d)
		b.AddProvider(p)
	}
	for _, p := range b.Providers() {
		Bind(b, p)
	}
}

// DeclareScopes marks every scope of the program as declared: types with a
// zero-argument scope marker and types embedding base.
func DeclareScopes(b *model.Batch, table scan.SymbolTable, decls []*scan.Decl, base string) {
	for _, d := range scan.Select(decls, scan.MarkerScope) {
		m, _ := d.Marker(scan.MarkerScope)
		if d.Kind != scan.KindClass || m.NumArgs() > 0 {
			continue
		}
		declare(b, d.Named(), d.Source)
	}
	for _, tn := range table.NamedTypes() {
		if model.QualifiedName(tn) == base || types.IsInterface(tn.Type()) {
			continue
		}
		if scan.Embeds(table, tn, base) {
			declare(b, tn, model.Source{
				Name: model.QualifiedName(tn),
				Pos:  table.Position(tn),
				Obj:  tn,
			})
		}
	}
}

func declare(b *model.Batch, tn *types.TypeName, src model.Source) {
	s := b.Scope(model.QualifiedName(tn))
	if s.Declared {
		return
	}
	s.Declared = true
	s.Source = src
}

// NewProvider builds the descriptor for a provides-marked declaration.
func NewProvider(table scan.SymbolTable, d *scan.Decl) *model.ProviderDescriptor {
	m, _ := d.Marker(scan.MarkerProvides)
	p := &model.ProviderDescriptor{
		Source:       d.Source,
		ProvidedExpr: m.Arg(0),
	}

	switch d.Kind {
	case scan.KindClass:
		p.Kind = model.ProviderClass
		p.Concrete = types.NewPointer(d.Named().Type())
	case scan.KindMethod:
		p.Kind = model.ProviderMethod
	default:
		p.Kind = model.ProviderConstructor
	}
	if fn := d.Func(); fn != nil {
		p.Func = fn
		sig := fn.Type().(*types.Signature)
		p.Params = table.ParametersOf(fn)
		p.Results = model.Results(sig.Results())
		if len(p.Results) == 1 {
			p.Concrete = p.Results[0]
		}
	}

	p.Provided = p.Concrete
	if p.ProvidedExpr != "" {
		p.Provided = nil
		if t, err := table.LookupType(d.Obj.Pkg(), p.ProvidedExpr); err == nil {
			p.Provided = t
		}
	}

	if s, ok := d.Marker(scan.MarkerScope); ok && s.NumArgs() > 0 {
		p.ExplicitScope = model.Qualify(d.PkgPath(), s.Arg(0))
	}
	return p
}

// Bind attaches p to its scope. A provider that is already bound keeps its
// scope, so repeated binding is a no-op.
func Bind(b *model.Batch, p *model.ProviderDescriptor) {
	if p.Scope != nil {
		return
	}

	if p.ExplicitScope != "" {
		s, ok := b.LookupScope(p.ExplicitScope)
		if !ok || !s.Declared {
			b.Report(model.Errorf(p.Source, model.ErrUnknownScope,
				"%s is not declared as a scope", p.ExplicitScope))
			return
		}
		s.Bind(p)
		return
	}

	if p.Kind == model.ProviderMethod {
		recv := receiverOf(p)
		if recv == nil {
			b.Report(model.Errorf(p.Source, model.ErrUnknownScope, "provider method has no receiver"))
			return
		}
		s, ok := b.LookupScope(model.QualifiedName(recv))
		if !ok || !s.Declared {
			b.Report(model.Errorf(p.Source, model.ErrUnknownScope,
				"receiver %s is not declared as a scope", recv.Name()))
			return
		}
		s.Bind(p)
		return
	}

	s, err := Nearest(b, p.Source.Obj.Pkg().Path())
	if err != nil {
		b.Report(model.Errorf(p.Source, model.ErrNoImplicitScope, "%v", err))
		return
	}
	s.Bind(p)
}

func receiverOf(p *model.ProviderDescriptor) *types.TypeName {
	if p.Func == nil {
		return nil
	}
	sig := p.Func.Type().(*types.Signature)
	if sig.Recv() == nil {
		return nil
	}
	return scan.NamedOf(sig.Recv().Type())
}

// ScopeError explains why no implicit scope was found.
type ScopeError struct {
	PkgPath   string
	Ambiguous []string
}

func (e *ScopeError) Error() string {
	if len(e.Ambiguous) > 0 {
		return "scopes " + strings.Join(e.Ambiguous, ", ") + " are equally near to " + e.PkgPath
	}
	return "no scope is declared in " + e.PkgPath + " or an enclosing package"
}

// Nearest returns the declared scope whose package is the longest prefix of
// pkgPath.
func Nearest(b *model.Batch, pkgPath string) (*model.ScopeDescriptor, error) {
	best := -1
	var found []*model.ScopeDescriptor
	for _, s := range b.Scopes() {
		if !s.Declared || !within(pkgPath, s.PkgPath) {
			continue
		}
		switch n := len(s.PkgPath); {
		case n > best:
			best = n
			found = []*model.ScopeDescriptor{s}
		case n == best:
			found = append(found, s)
		}
	}
	switch len(found) {
	case 0:
		return nil, &ScopeError{PkgPath: pkgPath}
	case 1:
		return found[0], nil
	}
	names := make([]string, len(found))
	for i, s := range found {
		names[i] = s.Name
	}
	sort.Strings(names)
	return nil, &ScopeError{PkgPath: pkgPath, Ambiguous: names}
}

func within(pkgPath, scopePath string) bool {
	return pkgPath == scopePath || strings.HasPrefix(pkgPath, scopePath+"/")
}
