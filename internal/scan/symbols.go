// Package scan finds marked declarations and classifies them.
//
// The symbol table abstracts over how declarations are obtained: Load uses
// golang.org/x/tools/go/packages, Check type-checks in-memory sources.
package scan

import (
	"go/token"
	"go/types"

	"github.com/GoCodeAlone/markgen/internal/model"
)

// Kind is the declaration kind a marker is attached to.
type Kind int

const (
	KindClass Kind = iota
	KindInterface
	KindMethod
	KindConstructor
	KindField
)

func (k Kind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindMethod:
		return "method"
	case KindConstructor:
		return "constructor"
	case KindField:
		return "field"
	default:
		return "class"
	}
}

// SymbolTable is the read-only view of the program the scanner works on.
type SymbolTable interface {
	// Marked returns every object carrying at least one marker, in source
	// order.
	Marked() []types.Object
	KindOf(obj types.Object) Kind
	// SupertypesOf returns the named types tn embeds directly.
	SupertypesOf(tn *types.TypeName) []*types.TypeName
	MarkersOf(obj types.Object) []Marker
	ParametersOf(obj types.Object) []model.Param
	// OwnerOf returns the type declaring a method or field.
	OwnerOf(obj types.Object) *types.TypeName
	Position(obj types.Object) token.Position
	// NamedTypes returns every package-level type name in source order.
	NamedTypes() []*types.TypeName
	Package(path string) (*Package, bool)
	// LookupType resolves a marker type expression relative to from.
	LookupType(from *types.Package, expr string) (types.Type, error)
}

// Decl is one classified marked declaration.
type Decl struct {
	Kind    Kind
	Obj     types.Object
	Owner   *types.TypeName
	Markers []Marker
	Source  model.Source
}

// Marker returns the first marker called name.
func (d *Decl) Marker(name string) (Marker, bool) {
	for _, m := range d.Markers {
		if m.Name == name {
			return m, true
		}
	}
	return Marker{}, false
}

// Has reports whether the declaration carries marker name.
func (d *Decl) Has(name string) bool {
	_, ok := d.Marker(name)
	return ok
}

// Named returns the declared type for class and interface declarations.
func (d *Decl) Named() *types.TypeName {
	tn, _ := d.Obj.(*types.TypeName)
	return tn
}

// Func returns the declared function for methods and constructors.
func (d *Decl) Func() *types.Func {
	fn, _ := d.Obj.(*types.Func)
	return fn
}

// PkgPath returns the declaring package path.
func (d *Decl) PkgPath() string {
	if d.Obj.Pkg() == nil {
		return ""
	}
	return d.Obj.Pkg().Path()
}
