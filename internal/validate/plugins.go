package validate

import (
	"go/types"

	"github.com/GoCodeAlone/markgen/internal/model"
)

func (v *validator) contracts() {
	for _, c := range v.b.Contracts() {
		if tn := c.Named(); tn != nil && isGeneric(tn) {
			v.errorf(c.Source, model.ErrInvalidPlugField, "plug contract %s must not be generic", c.Name)
			c.Invalid = true
		}
		for _, m := range c.Methods {
			if m.Name == HookPluginSet || m.Name == HookPluginBinder {
				v.errorf(c.Source, model.ErrReservedName, "%s is generated on the invokers of %s", m.Name, c.Name)
				c.Invalid = true
			}
			if c.Mode == model.ModeBroadcast && m.Returns() {
				m.Deferred = true
				v.b.Report(model.Warnf(c.Source, model.ErrBroadcastValue,
					"%s returns a value and always fails when broadcast", m.Signature))
			}
		}
	}
}

func (v *validator) plugins() {
	for _, p := range v.b.Plugins() {
		tn := p.Named()
		if p.Marked {
			switch {
			case tn == nil || !isStruct(tn):
				v.errorf(p.Source, model.ErrInvalidPlugField, "plugin %s must be a struct", p.Name)
				p.Invalid = true
			case isGeneric(tn):
				v.errorf(p.Source, model.ErrInvalidPlugField, "plugin %s must not be generic", p.Name)
				p.Invalid = true
			case v.declaresMethod(tn, HookPlugger):
				v.errorf(p.Source, model.ErrReservedName, "%s is generated for plugin %s", HookPlugger, p.Name)
				p.Invalid = true
			}
		}
		for _, f := range p.Fields {
			if !v.field(p, f) {
				p.Invalid = true
			}
		}
		for _, c := range p.Implements {
			if c.Invalid {
				v.errorf(p.Source, model.ErrInvalidPlugField, "plugin %s implements invalid contract %s", p.Name, c.Name)
				p.Invalid = true
			}
		}
	}
}

func (v *validator) field(p *model.PluginDescriptor, f *model.PlugFieldDescriptor) bool {
	ok := true
	if !p.Marked {
		v.errorf(f.Source, model.ErrInvalidPlugField, "%s is not marked as a plugin", p.Name)
		ok = false
	}
	switch {
	case f.Contract == nil:
		v.errorf(f.Source, model.ErrInvalidPlugField, "%s is not a plug contract", model.ShortTypeString(f.Type))
		return false
	case f.Contract.Named() == nil || !types.Identical(f.Type, f.Contract.Named().Type()):
		v.errorf(f.Source, model.ErrInvalidPlugField, "field must have type %s", f.Contract.Name)
		ok = false
	case f.Contract.Invalid:
		v.errorf(f.Source, model.ErrInvalidPlugField, "plug contract %s is invalid", f.Contract.Name)
		ok = false
	}
	if f.ScopeOverride != "" && f.Scope == nil {
		v.errorf(f.Source, model.ErrUnknownScope, "%s is not declared as a scope", f.ScopeOverride)
		ok = false
	}
	return ok
}
