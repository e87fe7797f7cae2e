package validate

import (
	"go/types"
	"sort"
	"strings"

	"github.com/GoCodeAlone/markgen/internal/model"
)

const (
	unvisited = iota
	visiting
	visited
)

// cycles reports providers that depend on themselves. A parameter resolves
// to the first provider, in declaration order, of the nearest scope that
// provides it; scopes of enclosing packages are searched after the
// provider's own, like the runtime parent chain.
func (v *validator) cycles() {
	var scopes []*model.ScopeDescriptor
	for _, s := range v.b.Scopes() {
		if s.Declared {
			scopes = append(scopes, s)
		}
	}

	state := make(map[*model.ProviderDescriptor]int)
	var stack []*model.ProviderDescriptor
	var visit func(p *model.ProviderDescriptor)
	visit = func(p *model.ProviderDescriptor) {
		state[p] = visiting
		stack = append(stack, p)
		for _, dep := range dependencies(p, scopes) {
			switch state[dep] {
			case visiting:
				v.reportCycle(stack, dep)
			case unvisited:
				visit(dep)
			}
		}
		stack = stack[:len(stack)-1]
		state[p] = visited
	}
	for _, s := range scopes {
		for _, p := range s.Providers {
			if state[p] == unvisited {
				visit(p)
			}
		}
	}
}

func (v *validator) reportCycle(stack []*model.ProviderDescriptor, dep *model.ProviderDescriptor) {
	start := 0
	for i, p := range stack {
		if p == dep {
			start = i
			break
		}
	}
	cycle := stack[start:]
	names := make([]string, 0, len(cycle)+1)
	for _, p := range cycle {
		names = append(names, providerName(p))
		p.Scope.Invalid = true
	}
	names = append(names, providerName(dep))
	v.errorf(dep.Source, model.ErrCircularDependency, "%s", strings.Join(names, " -> "))
}

// dependencies returns the provider each parameter of p resolves to.
func dependencies(p *model.ProviderDescriptor, scopes []*model.ScopeDescriptor) []*model.ProviderDescriptor {
	if p.Scope == nil {
		return nil
	}
	chain := scopeChain(p.Scope, scopes)
	var out []*model.ProviderDescriptor
	for _, param := range p.Params {
		if dep := resolveParam(param.Type, chain); dep != nil {
			out = append(out, dep)
		}
	}
	return out
}

func resolveParam(t types.Type, chain []*model.ScopeDescriptor) *model.ProviderDescriptor {
	for _, s := range chain {
		for _, c := range s.Providers {
			if c.Provided != nil && types.AssignableTo(c.Provided, t) {
				return c
			}
		}
	}
	return nil
}

// scopeChain returns s followed by the scopes of enclosing packages,
// nearest first.
func scopeChain(s *model.ScopeDescriptor, scopes []*model.ScopeDescriptor) []*model.ScopeDescriptor {
	var outer []*model.ScopeDescriptor
	for _, o := range scopes {
		if o != s && encloses(o.PkgPath, s.PkgPath) {
			outer = append(outer, o)
		}
	}
	sort.SliceStable(outer, func(i, j int) bool {
		return len(outer[i].PkgPath) > len(outer[j].PkgPath)
	})
	return append([]*model.ScopeDescriptor{s}, outer...)
}

func encloses(outer, inner string) bool {
	return inner == outer || strings.HasPrefix(inner, outer+"/")
}

func providerName(p *model.ProviderDescriptor) string {
	if p.Func != nil {
		return p.Func.Name()
	}
	return p.Source.Obj.Name()
}
