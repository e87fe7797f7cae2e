package model

import (
	"go/types"
)

// ScopeDescriptor is a named dependency boundary.
type ScopeDescriptor struct {
	QualifiedName string
	Name          string
	PkgPath       string
	Source        Source
	// Declared is set once a scope declaration is seen. Scopes referenced
	// only by a binding stay undeclared.
	Declared  bool
	Providers []*ProviderDescriptor
	Invalid   bool
}

// Bind appends p unless it is already bound.
func (s *ScopeDescriptor) Bind(p *ProviderDescriptor) {
	for _, existing := range s.Providers {
		if existing == p {
			return
		}
	}
	s.Providers = append(s.Providers, p)
	p.Scope = s
}

// Named returns the scope's type, or nil when it was never declared.
func (s *ScopeDescriptor) Named() *types.TypeName {
	tn, _ := s.Source.Obj.(*types.TypeName)
	return tn
}

// ProviderKind distinguishes provider variants.
type ProviderKind int

const (
	ProviderClass ProviderKind = iota
	ProviderMethod
	ProviderConstructor
)

func (k ProviderKind) String() string {
	switch k {
	case ProviderMethod:
		return "method"
	case ProviderConstructor:
		return "constructor"
	default:
		return "class"
	}
}

// ProviderDescriptor is a producer of one dependency.
type ProviderDescriptor struct {
	Kind   ProviderKind
	Source Source
	// Func is the provider method or constructor; nil for class providers.
	Func *types.Func
	// ProvidedExpr is the marker's type override, empty when inferred.
	ProvidedExpr string
	Provided     types.Type
	Concrete     types.Type
	// ExplicitScope is the qualified scope named by a scope marker.
	ExplicitScope string
	Scope         *ScopeDescriptor
	Params        []Param
	Results       []types.Type
}
