package scan

import (
	"go/types"
	"strings"

	"github.com/GoCodeAlone/markgen/internal/model"
)

type markerSpec struct {
	kinds   []Kind
	minArgs int
	maxArgs int
}

var markerSpecs = map[string]markerSpec{
	MarkerScope:         {kinds: []Kind{KindClass, KindConstructor}, maxArgs: 1},
	MarkerProvides:      {kinds: []Kind{KindClass, KindMethod, KindConstructor}, maxArgs: 1},
	MarkerEvents:        {kinds: []Kind{KindInterface}, minArgs: 1, maxArgs: 1},
	MarkerContext:       {kinds: []Kind{KindInterface}, minArgs: 1, maxArgs: 1},
	MarkerPlugInterface: {kinds: []Kind{KindInterface}, maxArgs: 1},
	MarkerPlugin:        {kinds: []Kind{KindClass}},
	MarkerPlug:          {kinds: []Kind{KindField}, maxArgs: 1},
	MarkerOnClick:       {kinds: []Kind{KindMethod}},
	MarkerOnChecked:     {kinds: []Kind{KindMethod}},
	MarkerOnTextChanged: {kinds: []Kind{KindMethod}},
}

func (s markerSpec) allows(k Kind) bool {
	for _, allowed := range s.kinds {
		if allowed == k {
			return true
		}
	}
	return false
}

func (s markerSpec) expected() string {
	names := make([]string, len(s.kinds))
	for i, k := range s.kinds {
		names[i] = k.String()
	}
	return strings.Join(names, " or ")
}

// Scan classifies every marked declaration of table. Markers on the wrong
// declaration kind, unknown markers and bad argument counts are reported and
// dropped; the scan always covers the whole table.
func Scan(table SymbolTable, reporter model.Reporter) []*Decl {
	var decls []*Decl
	for _, obj := range table.Marked() {
		kind := table.KindOf(obj)
		d := &Decl{
			Kind:  kind,
			Obj:   obj,
			Owner: table.OwnerOf(obj),
		}
		d.Source = model.Source{
			Name: SourceName(obj, d.Owner),
			Pos:  table.Position(obj),
			Obj:  obj,
		}

		for _, m := range table.MarkersOf(obj) {
			src := d.Source
			src.Pos = m.Pos
			spec, ok := markerSpecs[m.Name]
			if !ok {
				reporter.Report(model.Errorf(src, model.ErrUnknownMarker, "%q", m.Name))
				continue
			}
			if !spec.allows(kind) {
				reporter.Report(model.Errorf(src, model.ErrMarkerKind,
					"%q is not allowed on %s %s; expected %s", m.Name, kind, obj.Name(), spec.expected()))
				continue
			}
			if n := m.NumArgs(); n < spec.minArgs || n > spec.maxArgs {
				reporter.Report(model.Errorf(src, model.ErrMarkerArguments,
					"%q takes %s, got %d", m.Name, arity(spec), n))
				continue
			}
			d.Markers = append(d.Markers, m)
		}
		if len(d.Markers) > 0 {
			decls = append(decls, d)
		}
	}
	return decls
}

func arity(s markerSpec) string {
	switch {
	case s.maxArgs == 0:
		return "no arguments"
	case s.minArgs == s.maxArgs:
		return "exactly one argument"
	default:
		return "at most one argument"
	}
}

// SourceName is the qualified name diagnostics use for obj.
func SourceName(obj types.Object, owner *types.TypeName) string {
	if owner != nil {
		return model.QualifiedName(owner) + "." + obj.Name()
	}
	return model.QualifiedName(obj)
}

// Select returns the declarations carrying marker name.
func Select(decls []*Decl, name string) []*Decl {
	var out []*Decl
	for _, d := range decls {
		if d.Has(name) {
			out = append(out, d)
		}
	}
	return out
}

// MemberSource describes a method or field reached through owner, for
// example while flattening an interface. The declaring type is preferred
// when the table knows it.
func MemberSource(table SymbolTable, obj types.Object, owner *types.TypeName) model.Source {
	if declared := table.OwnerOf(obj); declared != nil {
		owner = declared
	}
	return model.Source{
		Name: SourceName(obj, owner),
		Pos:  table.Position(obj),
		Obj:  obj,
	}
}
