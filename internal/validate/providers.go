package validate

import (
	"go/types"

	"github.com/GoCodeAlone/markgen/internal/model"
	"github.com/GoCodeAlone/markgen/internal/scan"
)

func (v *validator) scopes() {
	provided := v.providedTypes()
	for _, s := range v.b.Scopes() {
		if !s.Declared {
			continue
		}
		tn := s.Named()
		switch {
		case tn == nil || !isStruct(tn):
			v.errorf(s.Source, model.ErrUnknownScope, "scope %s must be a struct", s.Name)
			s.Invalid = true
		case isGeneric(tn):
			v.errorf(s.Source, model.ErrUnknownScope, "scope %s must not be generic", s.Name)
			s.Invalid = true
		case v.declaresMethod(tn, HookDependencyProvider):
			v.errorf(s.Source, model.ErrReservedName, "%s is generated for scope %s", HookDependencyProvider, s.Name)
			s.Invalid = true
		}
		for _, p := range s.Providers {
			if !v.provider(p, provided) {
				s.Invalid = true
			}
		}
	}
}

func (v *validator) providedTypes() []types.Type {
	var out []types.Type
	for _, p := range v.b.Providers() {
		if p.Scope != nil && p.Provided != nil {
			out = append(out, p.Provided)
		}
	}
	return out
}

func (v *validator) provider(p *model.ProviderDescriptor, provided []types.Type) bool {
	ok := true
	fail := func(format string, args ...any) {
		v.errorf(p.Source, model.ErrInvalidProviderSignature, format, args...)
		ok = false
	}

	switch p.Kind {
	case model.ProviderClass:
		tn, _ := p.Source.Obj.(*types.TypeName)
		if tn == nil || !isStruct(tn) {
			fail("class providers must be structs")
		} else if isGeneric(tn) {
			fail("class providers must not be generic")
		}
	default:
		if len(p.Results) != 1 {
			fail("providers must return exactly one value, got %d", len(p.Results))
		}
		if sig, isSig := p.Func.Type().(*types.Signature); isSig && sig.TypeParams().Len() > 0 {
			fail("providers must not be generic")
		}
	}

	if p.Provided == nil {
		if p.ProvidedExpr != "" {
			fail("cannot resolve provided type %q", p.ProvidedExpr)
		}
		return ok
	}
	if p.Concrete != nil && !types.AssignableTo(p.Concrete, p.Provided) {
		fail("%s is not assignable to %s", model.ShortTypeString(p.Concrete), model.ShortTypeString(p.Provided))
	}

	from := p.Scope.PkgPath
	if obj := p.Source.Obj; obj.Pkg().Path() != from && !exported(obj.Name()) {
		fail("unexported %s is not reachable from scope %s", obj.Name(), p.Scope.Name)
	}
	for _, t := range []types.Type{p.Provided, p.Concrete} {
		if !reachable(t, from) {
			fail("type %s is not reachable from scope %s", model.ShortTypeString(t), p.Scope.Name)
		}
	}

	for _, param := range p.Params {
		if !reachable(param.Type, from) {
			fail("parameter %s of type %s is not reachable from scope %s", param.Name, model.ShortTypeString(param.Type), p.Scope.Name)
			continue
		}
		if _, basic := param.Type.Underlying().(*types.Basic); basic {
			fail("parameter %s has basic type %s", param.Name, model.ShortTypeString(param.Type))
			continue
		}
		if !isProvided(param.Type, provided) && !v.allowed(param.Type) {
			fail("parameter %s of type %s is neither provided nor allowed", param.Name, model.ShortTypeString(param.Type))
		}
	}
	return ok
}

// reachable reports whether the named type of t can be referenced from
// package from.
func reachable(t types.Type, from string) bool {
	tn := scan.NamedOf(t)
	if tn == nil || tn.Pkg() == nil || tn.Pkg().Path() == from {
		return true
	}
	return exported(tn.Name())
}

func isProvided(t types.Type, provided []types.Type) bool {
	for _, p := range provided {
		if types.Identical(t, p) {
			return true
		}
	}
	return false
}

func (v *validator) allowed(t types.Type) bool {
	s := types.TypeString(t, nil)
	for _, a := range v.opts.AllowedTypes {
		if a == s {
			return true
		}
	}
	return false
}
