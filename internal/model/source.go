// Package model holds the descriptors built from marked declarations and the
// Batch that owns them for one generation run.
package model

import (
	"go/token"
	"go/types"
	"strings"
)

// Source identifies the declaration a descriptor was built from.
type Source struct {
	// Name is the qualified name, e.g. "example.com/app.AppScope" or
	// "example.com/app.AppScope.Logger" for members.
	Name string
	Pos  token.Position
	Obj  types.Object
}

// Param is one parameter of a method or function.
type Param struct {
	Name string
	Type types.Type
}

// Params converts a signature tuple.
func Params(tuple *types.Tuple) []Param {
	if tuple == nil {
		return nil
	}
	out := make([]Param, tuple.Len())
	for i := range out {
		v := tuple.At(i)
		out[i] = Param{Name: v.Name(), Type: v.Type()}
	}
	return out
}

// Results converts a result tuple to its types.
func Results(tuple *types.Tuple) []types.Type {
	if tuple == nil {
		return nil
	}
	out := make([]types.Type, tuple.Len())
	for i := range out {
		out[i] = tuple.At(i).Type()
	}
	return out
}

// ShortTypeString renders t qualified by package name only.
func ShortTypeString(t types.Type) string {
	return types.TypeString(t, func(p *types.Package) string {
		return p.Name()
	})
}

// Signature renders name(T1,T2) with package-name-qualified types. Two
// declarations with the same signature collapse to one descriptor.
func Signature(name string, params []Param, variadic bool) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		if variadic && i == len(params)-1 {
			if s, ok := p.Type.(*types.Slice); ok {
				b.WriteString("...")
				b.WriteString(ShortTypeString(s.Elem()))
				continue
			}
		}
		b.WriteString(ShortTypeString(p.Type))
	}
	b.WriteByte(')')
	return b.String()
}

// QualifiedName returns "path.Name" for a package-level object.
func QualifiedName(obj types.Object) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

// SplitQualified splits "path.Name" at the last dot after the last slash.
func SplitQualified(qname string) (pkgPath, name string) {
	slash := strings.LastIndex(qname, "/")
	dot := strings.LastIndex(qname, ".")
	if dot <= slash {
		return "", qname
	}
	return qname[:dot], qname[dot+1:]
}

// Qualify makes a marker argument absolute: bare names are resolved against
// pkgPath, qualified names are returned unchanged.
func Qualify(pkgPath, name string) string {
	if p, _ := SplitQualified(name); p != "" {
		return name
	}
	return pkgPath + "." + name
}
