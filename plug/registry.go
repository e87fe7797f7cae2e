package plug

import (
	"sync"

	"github.com/GoCodeAlone/markgen/inject"
)

// Plugger is implemented by generated <Plugin>_Plugger types.
type Plugger interface {
	Plug(instance any, registry *Registry, useMarshalling bool)
	Unplug(instance any, registry *Registry)
}

// Pluggable is implemented by plugin types through their generated
// Plugger method.
type Pluggable interface {
	Plugger() Plugger
}

// Registry holds one invoker per contract, keyed by the contract's qualified
// name, and the scopes plug fields resolve implementations from.
type Registry struct {
	mu       sync.RWMutex
	invokers map[string]Host
	scopes   map[string]inject.Resolver
	queue    *Queue
}

// NewRegistry creates a registry whose marshalled calls run on queue.
func NewRegistry(queue *Queue) *Registry {
	return &Registry{
		invokers: make(map[string]Host),
		scopes:   make(map[string]inject.Resolver),
		queue:    queue,
	}
}

// Queue returns the queue handler invokers post to.
func (r *Registry) Queue() *Queue {
	return r.queue
}

// Invoker returns the invoker registered for key, or nil.
func (r *Registry) Invoker(key string) Host {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.invokers[key]
}

// HasInvoker reports whether an invoker is registered for key.
func (r *Registry) HasInvoker(key string) bool {
	return r.Invoker(key) != nil
}

// AddInvoker registers host for key, replacing any previous invoker.
func (r *Registry) AddInvoker(key string, host Host) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invokers[key] = host
}

// RemoveInvoker drops the invoker for key.
func (r *Registry) RemoveInvoker(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.invokers, key)
}

// Plug registers plugin with the invoker for key. created is installed when
// no invoker exists yet. When marshalled is non-nil and the registry has a
// queue, marshalled is bound to plugin and registered in its place.
func (r *Registry) Plug(plugin any, key string, created Host, marshalled Marshalled) bool {
	r.mu.Lock()
	host := r.invokers[key]
	if host == nil {
		if created == nil {
			r.mu.Unlock()
			return false
		}
		host = created
		r.invokers[key] = host
	}
	r.mu.Unlock()

	if marshalled != nil && r.queue != nil && marshalled.PluginBinder().Bind(plugin) {
		return host.PluginSet().AddPlugin(marshalled)
	}
	return host.PluginSet().AddPlugin(plugin)
}

// Unplug removes plugin from the invoker for key.
func (r *Registry) Unplug(plugin any, key string) bool {
	host := r.Invoker(key)
	if host == nil {
		return false
	}
	return host.PluginSet().RemovePlugin(plugin)
}

// PlugInstance plugs an instance through its generated Plugger.
func (r *Registry) PlugInstance(instance any, useMarshalling bool) bool {
	p, ok := instance.(Pluggable)
	if !ok {
		return false
	}
	p.Plugger().Plug(instance, r, useMarshalling)
	return true
}

// UnplugInstance reverses PlugInstance.
func (r *Registry) UnplugInstance(instance any) bool {
	p, ok := instance.(Pluggable)
	if !ok {
		return false
	}
	p.Plugger().Unplug(instance, r)
	return true
}

// RegisterScope makes scope available to plug fields under key, the scope's
// qualified type name.
func (r *Registry) RegisterScope(key string, scope inject.Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scopes[key] = scope
}

// Scope returns the scope registered under key, or nil.
func (r *Registry) Scope(key string) inject.Resolver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scopes[key]
}
