package model

import (
	"go/types"
)

// StateMachineDescriptor is one generated State dispatcher.
type StateMachineDescriptor struct {
	// Target is the qualified target name; the dispatcher is generated into
	// the target's package.
	Target     string
	TargetName string
	PkgPath    string
	Source     Source
	Events     []*types.TypeName
	Contexts   []*types.TypeName
	// EventMethods and Setters are keyed by Signature, in first-seen order.
	EventMethods []*EventMethodDescriptor
	Setters      []*SetterMethodDescriptor
	Invalid      bool

	eventIndex  map[string]*EventMethodDescriptor
	setterIndex map[string]*SetterMethodDescriptor
}

// AddEvents records an event contract once.
func (m *StateMachineDescriptor) AddEvents(tn *types.TypeName) bool {
	if containsType(m.Events, tn) {
		return false
	}
	m.Events = append(m.Events, tn)
	return true
}

// AddContext records a context contract once.
func (m *StateMachineDescriptor) AddContext(tn *types.TypeName) bool {
	if containsType(m.Contexts, tn) {
		return false
	}
	m.Contexts = append(m.Contexts, tn)
	return true
}

// AddEventMethod merges ev by signature and returns the retained descriptor.
func (m *StateMachineDescriptor) AddEventMethod(ev *EventMethodDescriptor) *EventMethodDescriptor {
	if m.eventIndex == nil {
		m.eventIndex = make(map[string]*EventMethodDescriptor)
	}
	if existing, ok := m.eventIndex[ev.Signature]; ok {
		return existing
	}
	m.eventIndex[ev.Signature] = ev
	m.EventMethods = append(m.EventMethods, ev)
	return ev
}

// AddSetter merges s by signature and returns the retained descriptor.
func (m *StateMachineDescriptor) AddSetter(s *SetterMethodDescriptor) *SetterMethodDescriptor {
	if m.setterIndex == nil {
		m.setterIndex = make(map[string]*SetterMethodDescriptor)
	}
	if existing, ok := m.setterIndex[s.Signature]; ok {
		return existing
	}
	m.setterIndex[s.Signature] = s
	m.Setters = append(m.Setters, s)
	return s
}

func containsType(list []*types.TypeName, tn *types.TypeName) bool {
	for _, t := range list {
		if t == tn {
			return true
		}
	}
	return false
}

// EventMethodDescriptor is a trigger routed by the dispatcher.
type EventMethodDescriptor struct {
	Name      string
	Params    []Param
	Variadic  bool
	Results   []types.Type
	Signature string
	Source    Source
}

// SetterMethodDescriptor binds one context reference.
type SetterMethodDescriptor struct {
	Name      string
	Params    []Param
	Results   []types.Type
	Signature string
	Source    Source
}

// Param returns the single parameter. Only valid after validation.
func (s *SetterMethodDescriptor) Param() Param {
	return s.Params[0]
}
