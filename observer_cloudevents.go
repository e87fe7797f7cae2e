package markgen

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// EventSource is the CloudEvents source of generator events.
const EventSource = "markgen"

// CloudEvent is an alias for the CloudEvents Event type.
type CloudEvent = cloudevents.Event

// NewCloudEvent creates an event of eventType with JSON data and the given
// extensions.
func NewCloudEvent(eventType, source string, data any, metadata map[string]any) cloudevents.Event {
	event := cloudevents.NewEvent()

	event.SetID(generateEventID())
	event.SetSource(source)
	event.SetType(eventType)
	event.SetTime(time.Now())
	event.SetSpecVersion(cloudevents.VersionV1)

	if data != nil {
		_ = event.SetData(cloudevents.ApplicationJSON, data)
	}
	for key, value := range metadata {
		event.SetExtension(key, value)
	}
	return event
}

// generateEventID returns a time-ordered UUIDv7, or a v4 when v7 fails.
func generateEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

// ValidateCloudEvent validates event against the CloudEvents specification.
func ValidateCloudEvent(event cloudevents.Event) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("CloudEvent validation failed: %w", err)
	}
	return nil
}

// observerRegistration holds a registered observer and its filter.
type observerRegistration struct {
	observer     Observer
	eventTypes   map[string]bool
	registeredAt time.Time
	order        int
}

// EventBus is a Subject delivering events synchronously, in registration
// order.
type EventBus struct {
	logger    Logger
	observers map[string]*observerRegistration
	next      int
	mu        sync.RWMutex
}

// NewEventBus creates an empty bus. Observer failures are logged to logger.
func NewEventBus(logger Logger) *EventBus {
	return &EventBus{
		logger:    logger,
		observers: make(map[string]*observerRegistration),
	}
}

// RegisterObserver implements Subject. Registering an ID again replaces the
// previous registration.
func (b *EventBus) RegisterObserver(observer Observer, eventTypes ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	eventTypeMap := make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		eventTypeMap[eventType] = true
	}
	b.next++
	b.observers[observer.ObserverID()] = &observerRegistration{
		observer:     observer,
		eventTypes:   eventTypeMap,
		registeredAt: time.Now(),
		order:        b.next,
	}
	if b.logger != nil {
		b.logger.Debug("Observer registered", "observerID", observer.ObserverID(), "eventTypes", eventTypes)
	}
	return nil
}

// UnregisterObserver implements Subject.
func (b *EventBus) UnregisterObserver(observer Observer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.observers, observer.ObserverID())
	return nil
}

func (b *EventBus) registrations() []*observerRegistration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*observerRegistration, 0, len(b.observers))
	for _, r := range b.observers {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].order < out[j].order })
	return out
}

// NotifyObservers implements Subject. Observer errors and panics are logged.
func (b *EventBus) NotifyObservers(ctx context.Context, event cloudevents.Event) error {
	if event.Time().IsZero() {
		event.SetTime(time.Now())
	}
	if err := ValidateCloudEvent(event); err != nil {
		return err
	}
	for _, r := range b.registrations() {
		if len(r.eventTypes) > 0 && !r.eventTypes[event.Type()] {
			continue
		}
		b.deliver(ctx, r.observer, event)
	}
	return nil
}

func (b *EventBus) deliver(ctx context.Context, observer Observer, event cloudevents.Event) {
	defer func() {
		if r := recover(); r != nil && b.logger != nil {
			b.logger.Error("Observer panicked", "observerID", observer.ObserverID(), "event", event.Type(), "panic", r)
		}
	}()
	if err := observer.OnEvent(ctx, event); err != nil && b.logger != nil {
		b.logger.Error("Observer error", "observerID", observer.ObserverID(), "event", event.Type(), "error", err)
	}
}

// GetObservers implements Subject.
func (b *EventBus) GetObservers() []ObserverInfo {
	regs := b.registrations()
	info := make([]ObserverInfo, 0, len(regs))
	for _, r := range regs {
		eventTypes := make([]string, 0, len(r.eventTypes))
		for eventType := range r.eventTypes {
			eventTypes = append(eventTypes, eventType)
		}
		sort.Strings(eventTypes)
		info = append(info, ObserverInfo{
			ID:           r.observer.ObserverID(),
			EventTypes:   eventTypes,
			RegisteredAt: r.registeredAt,
		})
	}
	return info
}
