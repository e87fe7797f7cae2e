// Package fsm holds the engine storage embedded by generated State dispatchers.
//
// One dispatcher value is the engine: it owns the active state and the error
// handler. Every other dispatcher value is a state node governed by that
// engine and may carry a superstate to fall back to.
package fsm

import (
	"errors"
	"fmt"
)

// ErrUnhandledEvent is reported when a trigger reaches neither a state nor a
// superstate.
var ErrUnhandledEvent = errors.New("unhandled event")

// ErrorHandler receives engine errors. event names the trigger.
type ErrorHandler func(event string, err error)

// Engine stores the current state and superstate of one dispatcher value.
// E is the union of the event contracts the dispatcher routes.
type Engine[E comparable] struct {
	self      E
	root      *Engine[E]
	current   E
	super     E
	onError   ErrorHandler
	unhandled []string
}

// Init binds the storage to the dispatcher value self. A nil root makes the
// value an engine; otherwise it is a state node governed by root.
func (e *Engine[E]) Init(self E, root *Engine[E]) {
	e.self = self
	if root == nil {
		root = e
	}
	e.root = root
}

// IsEngine reports whether the value holds the machine's authority.
func (e *Engine[E]) IsEngine() bool {
	return e.root == nil || e.root == e
}

func (e *Engine[E]) governing() *Engine[E] {
	if e.root == nil {
		return e
	}
	return e.root
}

// Governor returns the engine's dispatcher value.
func (e *Engine[E]) Governor() E {
	return e.governing().self
}

// TransitTo installs state as the active state of the governing engine.
func (e *Engine[E]) TransitTo(state E) {
	e.governing().current = state
}

// ActiveState returns the engine's active state.
func (e *Engine[E]) ActiveState() E {
	return e.governing().current
}

// HasActiveState reports whether this value is the engine and a state is
// installed.
func (e *Engine[E]) HasActiveState() bool {
	var zero E
	return e.IsEngine() && e.current != zero
}

// SetSuperState installs the state to fall back to.
func (e *Engine[E]) SetSuperState(super E) {
	e.super = super
}

// SuperState returns the installed superstate unless it is absent or the
// engine itself.
func (e *Engine[E]) SuperState() (E, bool) {
	var zero E
	if e.super == zero || e.super == e.Governor() {
		return zero, false
	}
	return e.super, true
}

// OnError replaces the engine's error handler.
func (e *Engine[E]) OnError(handler ErrorHandler) {
	e.governing().onError = handler
}

// Unhandled records that event reached no state.
func (e *Engine[E]) Unhandled(event string) {
	g := e.governing()
	g.unhandled = append(g.unhandled, event)
	if g.onError != nil {
		g.onError(event, fmt.Errorf("%w: %s", ErrUnhandledEvent, event))
	}
}

// UnhandledEvents returns the triggers recorded by Unhandled, oldest first.
func (e *Engine[E]) UnhandledEvents() []string {
	return e.governing().unhandled
}
