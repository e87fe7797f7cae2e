// Package plug is the runtime consumed by generated plug invokers, handler
// invokers and pluggers.
package plug

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrTargetNotAvailable = errors.New("invocation target not available")
	ErrBroadcastValue     = errors.New("value-returning method invoked on a broadcast contract")
	ErrMarshalledValue    = errors.New("value-returning method cannot be marshalled")
	ErrQueueUnavailable   = errors.New("marshalling queue unavailable")
)

// ErrorHandler receives invocation errors for method.
type ErrorHandler func(method string, err error)

// Set is the untyped view of an Invoker used by the Registry.
type Set interface {
	AddPlugin(plugin any) bool
	RemovePlugin(plugin any) bool
	Len() int
	OnError(handler ErrorHandler)
}

// Host is implemented by generated <Contract>_PlugInvoker types.
type Host interface {
	PluginSet() Set
}

// Invoker holds the registered implementations of one contract in
// registration order.
type Invoker[T any] struct {
	plugins []T
	onError ErrorHandler
}

// Len returns the number of registered implementations.
func (i *Invoker[T]) Len() int {
	return len(i.plugins)
}

// Last returns the index of the most recently registered implementation, or
// -1 when none is registered.
func (i *Invoker[T]) Last() int {
	return len(i.plugins) - 1
}

// At returns the implementation at index j.
func (i *Invoker[T]) At(j int) T {
	return i.plugins[j]
}

// Add registers plugin after every existing implementation.
func (i *Invoker[T]) Add(plugin T) {
	i.plugins = append(i.plugins, plugin)
}

// AddPlugin implements Set. A handler invoker added while a handler is set
// reports its errors to that handler.
func (i *Invoker[T]) AddPlugin(plugin any) bool {
	t, ok := plugin.(T)
	if !ok {
		return false
	}
	if m, ok := plugin.(Marshalled); ok && i.onError != nil {
		m.PluginBinder().OnError(i.onError)
	}
	i.Add(t)
	return true
}

// RemovePlugin implements Set. It removes the first entry that is plugin or
// a handler invoker bound to plugin. Entries of incomparable types never match.
func (i *Invoker[T]) RemovePlugin(plugin any) bool {
	for j, p := range i.plugins {
		if matches(p, plugin) {
			i.plugins = append(i.plugins[:j], i.plugins[j+1:]...)
			return true
		}
	}
	return false
}

func matches(entry, plugin any) bool {
	if same(entry, plugin) {
		return true
	}
	if m, ok := entry.(Marshalled); ok {
		return same(m.PluginBinder().Target(), plugin)
	}
	return false
}

// same compares a and b with == and reports false where that would panic.
func same(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta != nil && !ta.Comparable() {
		return false
	}
	return a == b
}

// OnError replaces the handler for invocation errors, including those of
// registered handler invokers. Without a handler, unavailable targets are
// ignored and other errors panic.
func (i *Invoker[T]) OnError(handler ErrorHandler) {
	i.onError = handler
	for _, p := range i.plugins {
		if m, ok := any(p).(Marshalled); ok {
			m.PluginBinder().OnError(handler)
		}
	}
}

// TargetNotAvailable signals that a single-target call found no
// implementation.
func (i *Invoker[T]) TargetNotAvailable(method string) {
	if i.onError != nil {
		i.onError(method, fmt.Errorf("%w: %s", ErrTargetNotAvailable, method))
	}
}

// InvocationError reports a call that cannot be forwarded.
func (i *Invoker[T]) InvocationError(method string, err error) {
	report(i.onError, method, err)
}

func report(handler ErrorHandler, method string, err error) {
	err = fmt.Errorf("%w: %s", err, method)
	if handler == nil {
		panic(err)
	}
	handler(method, err)
}
