package validate

import (
	"github.com/GoCodeAlone/markgen/internal/model"
)

func (v *validator) machines() {
	byPkg := make(map[string]*model.StateMachineDescriptor)
	for _, sm := range v.b.Machines() {
		if _, ok := v.table.Package(sm.PkgPath); !ok {
			v.errorf(sm.Source, model.ErrUnknownTarget, "target package %s is not loaded", sm.PkgPath)
			sm.Invalid = true
			continue
		}
		if first, ok := byPkg[sm.PkgPath]; ok {
			v.errorf(sm.Source, model.ErrDispatcherConflict,
				"%s and %s both generate %s in %s", first.TargetName, sm.TargetName, DispatcherName, sm.PkgPath)
			sm.Invalid = true
			first.Invalid = true
			continue
		}
		byPkg[sm.PkgPath] = sm
		for _, name := range []string{DispatcherName, DispatcherEvents, "New" + DispatcherName, "NewSub" + DispatcherName} {
			if v.declaresObject(sm.PkgPath, name) {
				v.errorf(sm.Source, model.ErrDispatcherConflict, "%s already declares %s", sm.PkgPath, name)
				sm.Invalid = true
			}
		}
		if len(sm.Events) == 0 {
			v.errorf(sm.Source, model.ErrInvalidEventSignature, "%s has no event contract", sm.TargetName)
			sm.Invalid = true
		}

		names := make(map[string]string)
		for _, ev := range sm.EventMethods {
			if !v.event(sm, ev, names) {
				sm.Invalid = true
			}
		}
		fields := make(map[string]bool)
		for _, s := range sm.Setters {
			if !v.setter(sm, s, names, fields) {
				sm.Invalid = true
			}
		}
	}
}

func reserved(name string) bool {
	for _, m := range EngineMethods {
		if m == name {
			return true
		}
	}
	return false
}

func (v *validator) event(sm *model.StateMachineDescriptor, ev *model.EventMethodDescriptor, names map[string]string) bool {
	ok := true
	if len(ev.Results) > 0 {
		v.errorf(ev.Source, model.ErrInvalidEventSignature, "event %s must not return values", ev.Name)
		ok = false
	}
	if prev, seen := names[ev.Name]; seen {
		v.errorf(ev.Source, model.ErrInvalidEventSignature, "event %s conflicts with %s", ev.Signature, prev)
		ok = false
	}
	names[ev.Name] = ev.Signature
	if reserved(ev.Name) {
		v.errorf(ev.Source, model.ErrReservedName, "%s is a state engine method", ev.Name)
		ok = false
	}
	if !exported(ev.Name) && ev.Source.Obj != nil && ev.Source.Obj.Pkg().Path() != sm.PkgPath {
		v.errorf(ev.Source, model.ErrInvalidEventSignature, "event %s is unexported outside %s", ev.Name, sm.PkgPath)
		ok = false
	}
	return ok
}

func (v *validator) setter(sm *model.StateMachineDescriptor, s *model.SetterMethodDescriptor, names map[string]string, fields map[string]bool) bool {
	if len(s.Params) != 1 || len(s.Results) > 0 {
		v.errorf(s.Source, model.ErrInvalidSetterSignature,
			"setter %s must take exactly one parameter and return nothing", s.Name)
		return false
	}
	ok := true
	if prev, seen := names[s.Name]; seen {
		v.errorf(s.Source, model.ErrInvalidSetterSignature, "setter %s conflicts with %s", s.Signature, prev)
		ok = false
	}
	names[s.Name] = s.Signature
	if reserved(s.Name) {
		v.errorf(s.Source, model.ErrReservedName, "%s is a state engine method", s.Name)
		ok = false
	}
	if !exported(s.Name) && s.Source.Obj != nil && s.Source.Obj.Pkg().Path() != sm.PkgPath {
		v.errorf(s.Source, model.ErrInvalidSetterSignature, "setter %s is unexported outside %s", s.Name, sm.PkgPath)
		ok = false
	}

	field := s.Param().Name
	switch {
	case field == "" || field == "_":
		v.errorf(s.Source, model.ErrInvalidSetterSignature, "setter %s must name its parameter", s.Name)
		ok = false
	case field == "Engine" || fields[field] || names[field] != "":
		v.errorf(s.Source, model.ErrInvalidSetterSignature, "setter %s reuses field name %s", s.Name, field)
		ok = false
	}
	fields[field] = true
	return ok
}
