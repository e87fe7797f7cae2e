package plug

import "fmt"

// Binder is the untyped view of a Marshaller.
type Binder interface {
	Bind(plugin any) bool
	Target() any
	OnError(handler ErrorHandler)
}

// Marshalled is implemented by generated <Contract>_HandlerInvoker types.
type Marshalled interface {
	PluginBinder() Binder
}

// Marshaller forwards calls for one implementation onto a Queue.
type Marshaller[T any] struct {
	target  T
	bound   bool
	queue   *Queue
	onError ErrorHandler
}

// SetQueue sets the queue forwarded calls run on.
func (m *Marshaller[T]) SetQueue(queue *Queue) {
	m.queue = queue
}

// Bind implements Binder.
func (m *Marshaller[T]) Bind(plugin any) bool {
	t, ok := plugin.(T)
	if !ok {
		return false
	}
	m.target = t
	m.bound = true
	return true
}

// Target implements Binder.
func (m *Marshaller[T]) Target() any {
	if !m.bound {
		return nil
	}
	return m.target
}

// Post schedules call with the bound implementation and returns immediately.
// A call that cannot be queued is reported for method as ErrQueueUnavailable.
func (m *Marshaller[T]) Post(method string, call func(target T)) {
	if !m.bound {
		if m.onError != nil {
			m.onError(method, fmt.Errorf("%w: %s", ErrTargetNotAvailable, method))
		}
		return
	}
	target := m.target
	if m.queue == nil || !m.queue.Post(func() { call(target) }) {
		report(m.onError, method, ErrQueueUnavailable)
	}
}

// OnError replaces the handler for invocation errors.
func (m *Marshaller[T]) OnError(handler ErrorHandler) {
	m.onError = handler
}

// InvocationError reports a call that cannot be marshalled.
func (m *Marshaller[T]) InvocationError(method string, err error) {
	report(m.onError, method, err)
}
