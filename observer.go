package markgen

import (
	"context"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

// Observer is notified of generation events.
// Events use the CloudEvents specification.
type Observer interface {
	// OnEvent is called synchronously from the generation run. Errors are
	// logged and never abort the run.
	OnEvent(ctx context.Context, event cloudevents.Event) error

	// ObserverID identifies the observer for registration tracking.
	ObserverID() string
}

// Subject delivers events to registered observers.
type Subject interface {
	// RegisterObserver adds an observer. With no eventTypes the observer
	// receives every event.
	RegisterObserver(observer Observer, eventTypes ...string) error

	// UnregisterObserver removes an observer. It is idempotent.
	UnregisterObserver(observer Observer) error

	// NotifyObservers delivers event to every interested observer.
	NotifyObservers(ctx context.Context, event cloudevents.Event) error

	// GetObservers describes the registered observers.
	GetObservers() []ObserverInfo
}

// ObserverInfo describes a registered observer.
type ObserverInfo struct {
	ID string `json:"id"`

	// EventTypes are the subscribed event types; empty means all.
	EventTypes []string `json:"eventTypes"`

	RegisteredAt time.Time `json:"registeredAt"`
}

// Event types emitted by the generator.
const (
	EventTypeBatchStarted       = "com.markgen.batch.started"
	EventTypeBatchCompleted     = "com.markgen.batch.completed"
	EventTypeDiagnosticReported = "com.markgen.diagnostic.reported"
	EventTypeUnitEmitted        = "com.markgen.unit.emitted"
	EventTypeUnitFailed         = "com.markgen.unit.failed"
)

// FunctionalObserver adapts a function to Observer.
type FunctionalObserver struct {
	id      string
	handler func(ctx context.Context, event cloudevents.Event) error
}

// NewFunctionalObserver creates an observer calling handler for each event.
func NewFunctionalObserver(id string, handler func(ctx context.Context, event cloudevents.Event) error) Observer {
	return &FunctionalObserver{
		id:      id,
		handler: handler,
	}
}

// OnEvent implements Observer.
func (f *FunctionalObserver) OnEvent(ctx context.Context, event cloudevents.Event) error {
	return f.handler(ctx, event)
}

// ObserverID implements Observer.
func (f *FunctionalObserver) ObserverID() string {
	return f.id
}
