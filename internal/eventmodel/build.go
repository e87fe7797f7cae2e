// Package eventmodel builds presenter delegate descriptors from handler
// markers.
package eventmodel

import (
	"go/types"

	"github.com/GoCodeAlone/markgen/internal/model"
	"github.com/GoCodeAlone/markgen/internal/scan"
)

var handlerMarkers = []struct {
	marker string
	kind   model.HandlerKind
}{
	{scan.MarkerOnClick, model.HandlerClick},
	{scan.MarkerOnChecked, model.HandlerChecked},
	{scan.MarkerOnTextChanged, model.HandlerTextChanged},
}

// Build groups handler methods by their declaring interface. Handlers
// declared on concrete types are reported and dropped.
func Build(b *model.Batch, table scan.SymbolTable, decls []*scan.Decl) {
	for _, d := range decls {
		for _, hm := range handlerMarkers {
			if !d.Has(hm.marker) {
				continue
			}
			if d.Owner == nil || !types.IsInterface(d.Owner.Type()) {
				b.Report(model.Errorf(d.Source, model.ErrInvalidHandlerSignature,
					"%s handlers must be declared on an interface", hm.kind))
				continue
			}
			dl := b.Delegate(model.QualifiedName(d.Owner))
			if dl.Source.Obj == nil {
				dl.Source = model.Source{
					Name: model.QualifiedName(d.Owner),
					Pos:  table.Position(d.Owner),
					Obj:  d.Owner,
				}
			}
			dl.Handlers = append(dl.Handlers, NewHandler(hm.kind, d))
		}
	}
}

// NewHandler describes method d as a handler of kind k. Tag is empty when
// the name does not follow the On<Tag><Kind> convention.
func NewHandler(k model.HandlerKind, d *scan.Decl) *model.HandlerDescriptor {
	h := &model.HandlerDescriptor{
		Kind:   k,
		Name:   d.Obj.Name(),
		Source: d.Source,
	}
	h.Tag, _ = model.HandlerTag(k, h.Name)
	if sig, ok := d.Obj.Type().(*types.Signature); ok {
		h.Params = model.Params(sig.Params())
		h.Results = model.Results(sig.Results())
	}
	return h
}
