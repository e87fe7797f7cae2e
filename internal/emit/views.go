package emit

import (
	"go/types"
	"strconv"
	"strings"

	"github.com/GoCodeAlone/markgen/internal/model"
)

type localView struct {
	Name string
	Type string
}

type providerBlock struct {
	Provided string
	Concrete string
	Locals   []localView
	Expr     string
}

type providerView struct {
	Artifact string
	Scope    string
	Inject   string
	Blocks   []providerBlock
}

func (e *Emitter) providerView(f *File, a Artifact, s *model.ScopeDescriptor) providerView {
	v := providerView{
		Artifact: a.Name,
		Scope:    f.Object(s.Named()),
		Inject:   f.Import(e.opts.InjectPath),
	}
	for _, p := range s.Providers {
		block := providerBlock{
			Provided: f.Type(p.Provided),
			Concrete: f.Type(p.Concrete),
		}
		args := make([]string, len(p.Params))
		for i, param := range p.Params {
			name := "d" + strconv.Itoa(i)
			block.Locals = append(block.Locals, localView{Name: name, Type: f.Type(param.Type)})
			args[i] = name
		}
		if p.Func != nil && p.Func.Type().(*types.Signature).Variadic() && len(args) > 0 {
			args[len(args)-1] += "..."
		}
		call := "(" + strings.Join(args, ", ") + ")"
		switch p.Kind {
		case model.ProviderClass:
			block.Expr = "&" + f.Object(p.Source.Obj) + "{}"
		case model.ProviderMethod:
			block.Expr = "p.scope." + p.Func.Name() + call
		default:
			block.Expr = f.Object(p.Func) + call
		}
		v.Blocks = append(v.Blocks, block)
	}
	return v
}

// methodView is one forwarded method.
type methodView struct {
	Name     string
	Params   string
	Args     string
	Results  string
	Zeros    string
	Returns  bool
	Deferred bool
}

// method renders a forwarded method. Parameter names avoid the imports of f
// and reserved.
func method(f *File, name string, params []model.Param, variadic bool, results []types.Type, reserved ...string) methodView {
	paramTypes := make([]string, len(params))
	for i, p := range params {
		if variadic && i == len(params)-1 {
			if s, ok := p.Type.(*types.Slice); ok {
				paramTypes[i] = "..." + f.Type(s.Elem())
				continue
			}
		}
		paramTypes[i] = f.Type(p.Type)
	}
	resultTypes := make([]string, len(results))
	for i, r := range results {
		resultTypes[i] = f.Type(r)
	}

	taken := make(map[string]bool, len(reserved))
	for _, r := range reserved {
		taken[r] = true
	}
	decl := make([]string, len(params))
	args := make([]string, len(params))
	for i, p := range params {
		local := f.Local(p.Name, i, taken)
		decl[i] = local + " " + paramTypes[i]
		args[i] = local
		if variadic && i == len(params)-1 {
			args[i] += "..."
		}
	}

	v := methodView{
		Name:    name,
		Params:  strings.Join(decl, ", "),
		Args:    strings.Join(args, ", "),
		Returns: len(results) > 0,
		Zeros:   f.Zeros(results),
	}
	switch len(resultTypes) {
	case 0:
	case 1:
		v.Results = " " + resultTypes[0]
	default:
		v.Results = " (" + strings.Join(resultTypes, ", ") + ")"
	}
	return v
}

type setterView struct {
	Name   string
	Field  string
	Param  string
	Type   string
	Getter string
}

type stateView struct {
	FSM      string
	Events   []string
	Fields   []localView
	Triggers []methodView
	Setters  []setterView
}

func (e *Emitter) stateView(f *File, sm *model.StateMachineDescriptor) stateView {
	v := stateView{FSM: f.Import(e.opts.FSMPath)}
	for _, tn := range append(sm.Events[:len(sm.Events):len(sm.Events)], sm.Contexts...) {
		v.Events = append(v.Events, f.Object(tn))
	}
	for _, ev := range sm.EventMethods {
		v.Triggers = append(v.Triggers, method(f, ev.Name, ev.Params, ev.Variadic, nil, "s", "super", "ok"))
	}
	for _, s := range sm.Setters {
		p := s.Param()
		typ := f.Type(p.Type)
		sv := setterView{
			Name:   s.Name,
			Field:  p.Name,
			Param:  f.Local(p.Name, 0, map[string]bool{"s": true}),
			Type:   typ,
			Getter: "get" + Export(p.Name),
		}
		v.Fields = append(v.Fields, localView{Name: p.Name, Type: typ})
		v.Setters = append(v.Setters, sv)
	}
	return v
}

type invokerView struct {
	Artifact  string
	Handler   string
	Contract  string
	Plug      string
	Broadcast bool
	Methods   []methodView
}

func (e *Emitter) invokerView(f *File, c *model.PlugInterfaceDescriptor) invokerView {
	v := invokerView{
		Artifact:  c.Name + "_PlugInvoker",
		Handler:   c.Name + "_HandlerInvoker",
		Contract:  f.Object(c.Named()),
		Plug:      f.Import(e.opts.PlugPath),
		Broadcast: c.Mode == model.ModeBroadcast,
	}
	for _, m := range c.Methods {
		mv := method(f, m.Name, m.Params, m.Variadic, m.Results, "inv", "h", "i", "target")
		mv.Deferred = m.Deferred
		v.Methods = append(v.Methods, mv)
	}
	return v
}

type plugFieldView struct {
	Name       string
	Key        string
	Invoker    string
	NewInvoker string
	Contract   string
	Scope      string
}

type plugContractView struct {
	Key        string
	NewInvoker string
	NewHandler string
}

type pluggerView struct {
	Artifact  string
	Plugin    string
	Plug      string
	Inject    string
	Uses      bool
	Fields    []plugFieldView
	Contracts []plugContractView
}

func (e *Emitter) pluggerView(f *File, a Artifact, p *model.PluginDescriptor) pluggerView {
	v := pluggerView{
		Artifact: a.Name,
		Plugin:   f.Object(p.Named()),
		Plug:     f.Import(e.opts.PlugPath),
	}
	ref := func(c *model.PlugInterfaceDescriptor, name string) string {
		return f.Ref(c.PkgPath, c.Named().Pkg().Name(), name)
	}
	for _, fd := range p.Fields {
		c := fd.Contract
		fv := plugFieldView{
			Name:       fd.Name,
			Key:        strconv.Quote(c.QualifiedName),
			Invoker:    ref(c, c.Name+"_PlugInvoker"),
			NewInvoker: ref(c, "New"+c.Name+"_PlugInvoker"),
			Contract:   f.Object(c.Named()),
		}
		if fd.ScopeOverride != "" && fd.Scope != nil {
			fv.Scope = strconv.Quote(fd.Scope.QualifiedName)
			v.Inject = f.Import(e.opts.InjectPath)
		}
		v.Fields = append(v.Fields, fv)
	}
	for _, c := range p.Implements {
		cv := plugContractView{
			Key:        strconv.Quote(c.QualifiedName),
			NewInvoker: ref(c, "New"+c.Name+"_PlugInvoker"),
		}
		if c.Mode == model.ModeBroadcast {
			cv.NewHandler = ref(c, "New"+c.Name+"_HandlerInvoker")
		}
		v.Contracts = append(v.Contracts, cv)
	}
	v.Uses = len(v.Fields) > 0 || len(v.Contracts) > 0
	return v
}

type handlerView struct {
	Key  string
	Name string
}

type delegateView struct {
	Artifact    string
	Presenter   string
	Click       []handlerView
	Checked     []handlerView
	TextChanged []handlerView
}

func newDelegateView(a Artifact, d *model.DelegateDescriptor) delegateView {
	v := delegateView{Artifact: a.Name, Presenter: d.Name}
	handlers := func(k model.HandlerKind) []handlerView {
		var out []handlerView
		for _, h := range d.Of(k) {
			out = append(out, handlerView{Key: strconv.Quote(h.Key()), Name: h.Name})
		}
		return out
	}
	v.Click = handlers(model.HandlerClick)
	v.Checked = handlers(model.HandlerChecked)
	v.TextChanged = handlers(model.HandlerTextChanged)
	return v
}
