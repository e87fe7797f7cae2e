package validate

import (
	"go/types"

	"github.com/GoCodeAlone/markgen/internal/model"
)

func (v *validator) delegates() {
	for _, d := range v.b.Delegates() {
		keys := make(map[model.HandlerKind]map[string]string)
		for _, h := range d.Handlers {
			if !v.handler(h) {
				d.Invalid = true
				continue
			}
			if keys[h.Kind] == nil {
				keys[h.Kind] = make(map[string]string)
			}
			if prev, dup := keys[h.Kind][h.Key()]; dup {
				v.errorf(h.Source, model.ErrInvalidHandlerNaming,
					"%s and %s share the %s tag %q", prev, h.Name, h.Kind, h.Key())
				d.Invalid = true
				continue
			}
			keys[h.Kind][h.Key()] = h.Name
		}
	}
}

func (v *validator) handler(h *model.HandlerDescriptor) bool {
	if h.Tag == "" {
		v.errorf(h.Source, model.ErrInvalidHandlerNaming,
			"%s handlers must be named %s", h.Kind, model.HandlerName(h.Kind, "<Tag>"))
		return false
	}
	if len(h.Results) > 0 {
		v.errorf(h.Source, model.ErrInvalidHandlerSignature, "%s must not return values", h.Name)
		return false
	}

	var want types.BasicKind
	switch h.Kind {
	case model.HandlerClick:
		if len(h.Params) != 0 {
			v.errorf(h.Source, model.ErrInvalidHandlerSignature, "%s must take no parameters", h.Name)
			return false
		}
		return true
	case model.HandlerChecked:
		want = types.Bool
	default:
		want = types.String
	}
	if len(h.Params) != 1 || !isBasic(h.Params[0].Type, want) {
		v.errorf(h.Source, model.ErrInvalidHandlerSignature,
			"%s must take exactly one %s", h.Name, types.Typ[want])
		return false
	}
	return true
}

func isBasic(t types.Type, kind types.BasicKind) bool {
	b, ok := t.(*types.Basic)
	return ok && b.Kind() == kind
}
