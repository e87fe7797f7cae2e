package scan

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"github.com/GoCodeAlone/markgen/internal/model"
)

var (
	ErrTypeNotFound = errors.New("type not found")
	ErrNotAType     = errors.New("not a type")
)

// Package is one loaded, type-checked package.
type Package struct {
	Path  string
	Name  string
	Dir   string
	Types *types.Package
	Info  *types.Info
	Files []*ast.File
}

// Module describes the main module the packages were loaded from.
type Module struct {
	Path string
	Dir  string
}

// Program implements SymbolTable over a set of type-checked packages.
type Program struct {
	Fset   *token.FileSet
	Module Module
	// Warnings holds type errors tolerated while loading.
	Warnings []string

	pkgs    []*Package
	byPath  map[string]*Package
	marked  []types.Object
	markers map[types.Object][]Marker
	owners  map[types.Object]*types.TypeName
	kinds   map[types.Object]Kind
	named   []*types.TypeName
}

// NewProgram indexes the markers with prefix found in pkgs.
func NewProgram(fset *token.FileSet, pkgs []*Package, prefix string) *Program {
	p := &Program{
		Fset:    fset,
		pkgs:    pkgs,
		byPath:  make(map[string]*Package, len(pkgs)),
		markers: make(map[types.Object][]Marker),
		owners:  make(map[types.Object]*types.TypeName),
		kinds:   make(map[types.Object]Kind),
	}
	for _, pkg := range pkgs {
		p.byPath[pkg.Path] = pkg
		for _, f := range pkg.Files {
			p.indexFile(pkg, f, prefix)
		}
	}
	return p
}

// Packages returns the loaded packages.
func (p *Program) Packages() []*Package {
	return p.pkgs
}

func (p *Program) indexFile(pkg *Package, f *ast.File, prefix string) {
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(d.Specs) == 1 {
					doc = d.Doc
				}
				tn, ok := pkg.Info.Defs[ts.Name].(*types.TypeName)
				if !ok {
					continue
				}
				p.named = append(p.named, tn)
				kind := KindClass
				if _, ok := ts.Type.(*ast.InterfaceType); ok {
					kind = KindInterface
				}
				p.add(tn, kind, nil, ParseMarkers(p.Fset, prefix, doc))
				p.indexMembers(pkg, tn, ts.Type, prefix)
			}
		case *ast.FuncDecl:
			fn, ok := pkg.Info.Defs[d.Name].(*types.Func)
			if !ok {
				continue
			}
			kind := KindConstructor
			var owner *types.TypeName
			if d.Recv != nil {
				kind = KindMethod
				owner = receiverType(fn)
			}
			p.add(fn, kind, owner, ParseMarkers(p.Fset, prefix, d.Doc))
		}
	}
}

func (p *Program) indexMembers(pkg *Package, owner *types.TypeName, expr ast.Expr, prefix string) {
	switch t := expr.(type) {
	case *ast.StructType:
		for _, field := range t.Fields.List {
			markers := ParseMarkers(p.Fset, prefix, field.Doc, field.Comment)
			for _, name := range field.Names {
				if v, ok := pkg.Info.Defs[name].(*types.Var); ok {
					p.add(v, KindField, owner, markers)
				}
			}
		}
	case *ast.InterfaceType:
		for _, method := range t.Methods.List {
			markers := ParseMarkers(p.Fset, prefix, method.Doc, method.Comment)
			for _, name := range method.Names {
				if fn, ok := pkg.Info.Defs[name].(*types.Func); ok {
					p.add(fn, KindMethod, owner, markers)
				}
			}
		}
	}
}

func (p *Program) add(obj types.Object, kind Kind, owner *types.TypeName, markers []Marker) {
	p.kinds[obj] = kind
	if owner != nil {
		p.owners[obj] = owner
	}
	if len(markers) == 0 {
		return
	}
	p.markers[obj] = markers
	p.marked = append(p.marked, obj)
}

func receiverType(fn *types.Func) *types.TypeName {
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return nil
	}
	return NamedOf(sig.Recv().Type())
}

// NamedOf returns the type name of t, looking through one pointer.
func NamedOf(t types.Type) *types.TypeName {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	switch n := types.Unalias(t).(type) {
	case *types.Named:
		return n.Origin().Obj()
	}
	return nil
}

// Marked implements SymbolTable.
func (p *Program) Marked() []types.Object {
	return p.marked
}

// KindOf implements SymbolTable.
func (p *Program) KindOf(obj types.Object) Kind {
	if k, ok := p.kinds[obj]; ok {
		return k
	}
	switch o := obj.(type) {
	case *types.TypeName:
		if types.IsInterface(o.Type()) {
			return KindInterface
		}
		return KindClass
	case *types.Func:
		if sig, ok := o.Type().(*types.Signature); ok && sig.Recv() != nil {
			return KindMethod
		}
		return KindConstructor
	}
	return KindField
}

// SupertypesOf implements SymbolTable.
func (p *Program) SupertypesOf(tn *types.TypeName) []*types.TypeName {
	var out []*types.TypeName
	switch u := tn.Type().Underlying().(type) {
	case *types.Struct:
		for i := 0; i < u.NumFields(); i++ {
			f := u.Field(i)
			if !f.Embedded() {
				continue
			}
			if n := NamedOf(f.Type()); n != nil && n.Pkg() != nil {
				out = append(out, n)
			}
		}
	case *types.Interface:
		for i := 0; i < u.NumEmbeddeds(); i++ {
			if n := NamedOf(u.EmbeddedType(i)); n != nil && n.Pkg() != nil {
				out = append(out, n)
			}
		}
	}
	return out
}

// Embeds reports whether tn embeds the type called qname, directly or
// transitively.
func Embeds(table SymbolTable, tn *types.TypeName, qname string) bool {
	seen := map[*types.TypeName]bool{tn: true}
	queue := table.SupertypesOf(tn)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true
		if model.QualifiedName(next) == qname {
			return true
		}
		queue = append(queue, table.SupertypesOf(next)...)
	}
	return false
}

// MarkersOf implements SymbolTable.
func (p *Program) MarkersOf(obj types.Object) []Marker {
	return p.markers[obj]
}

// ParametersOf implements SymbolTable.
func (p *Program) ParametersOf(obj types.Object) []model.Param {
	fn, ok := obj.(*types.Func)
	if !ok {
		return nil
	}
	return model.Params(fn.Type().(*types.Signature).Params())
}

// OwnerOf implements SymbolTable.
func (p *Program) OwnerOf(obj types.Object) *types.TypeName {
	return p.owners[obj]
}

// Position implements SymbolTable.
func (p *Program) Position(obj types.Object) token.Position {
	return p.Fset.Position(obj.Pos())
}

// NamedTypes implements SymbolTable.
func (p *Program) NamedTypes() []*types.TypeName {
	return p.named
}

// Package implements SymbolTable.
func (p *Program) Package(path string) (*Package, bool) {
	pkg, ok := p.byPath[path]
	return pkg, ok
}

// LookupType implements SymbolTable. expr is a type name, optionally
// starred and qualified by an import path or an imported package name.
func (p *Program) LookupType(from *types.Package, expr string) (types.Type, error) {
	stars := 0
	name := strings.TrimSpace(expr)
	for strings.HasPrefix(name, "*") {
		stars++
		name = name[1:]
	}

	obj, err := p.lookupObject(from, name)
	if err != nil {
		return nil, err
	}
	tn, ok := obj.(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotAType, expr)
	}
	t := tn.Type()
	for i := 0; i < stars; i++ {
		t = types.NewPointer(t)
	}
	return t, nil
}

func (p *Program) lookupObject(from *types.Package, name string) (types.Object, error) {
	path, local := model.SplitQualified(name)
	if path == "" {
		if from != nil {
			if obj := from.Scope().Lookup(local); obj != nil {
				return obj, nil
			}
		}
		if obj := types.Universe.Lookup(local); obj != nil {
			return obj, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
	}

	if pkg, ok := p.byPath[path]; ok {
		if obj := pkg.Types.Scope().Lookup(local); obj != nil {
			return obj, nil
		}
	}
	if from != nil {
		for _, imp := range from.Imports() {
			if imp.Path() != path && imp.Name() != path {
				continue
			}
			if obj := imp.Scope().Lookup(local); obj != nil {
				return obj, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
}
