package markgen

import (
	"context"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

// Option configures a Generator.
type Option func(*Generator) error

// ObserverFunc is a functional observer.
type ObserverFunc func(ctx context.Context, event cloudevents.Event) error

// WithLogger sets the logger; the default logs through slog.Default.
func WithLogger(logger Logger) Option {
	return func(g *Generator) error {
		g.logger = logger
		return nil
	}
}

// WithDestination sets where units are written; the default is a
// DirDestination rooted at Config.Dir.
func WithDestination(dest Destination) Option {
	return func(g *Generator) error {
		if dest == nil {
			return ErrDestinationNil
		}
		g.dest = dest
		return nil
	}
}

// WithSubject publishes generation events to subject instead of the
// generator's own EventBus.
func WithSubject(subject Subject) Option {
	return func(g *Generator) error {
		g.subject = subject
		return nil
	}
}

// WithObserver registers observer for eventTypes, or for every event when
// none are given.
func WithObserver(observer Observer, eventTypes ...string) Option {
	return func(g *Generator) error {
		g.pending = append(g.pending, pendingObserver{observer: observer, eventTypes: eventTypes})
		return nil
	}
}

// WithObserverFunc registers fn under id for eventTypes.
func WithObserverFunc(id string, fn ObserverFunc, eventTypes ...string) Option {
	return WithObserver(NewFunctionalObserver(id, fn), eventTypes...)
}

type pendingObserver struct {
	observer   Observer
	eventTypes []string
}
