package markgen

import (
	"context"
	"errors"
	"testing"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusFiltersAndOrdersDelivery(t *testing.T) {
	bus := NewEventBus(&recordingLogger{})
	var calls []string
	observer := func(id string) Observer {
		return NewFunctionalObserver(id, func(ctx context.Context, event cloudevents.Event) error {
			calls = append(calls, id+":"+event.Type())
			return nil
		})
	}
	require.NoError(t, bus.RegisterObserver(observer("all")))
	require.NoError(t, bus.RegisterObserver(observer("units"), EventTypeUnitEmitted))

	ctx := context.Background()
	require.NoError(t, bus.NotifyObservers(ctx, NewCloudEvent(EventTypeBatchStarted, EventSource, nil, nil)))
	require.NoError(t, bus.NotifyObservers(ctx, NewCloudEvent(EventTypeUnitEmitted, EventSource, map[string]any{"artifact": "State"}, nil)))

	assert.Equal(t, []string{
		"all:" + EventTypeBatchStarted,
		"all:" + EventTypeUnitEmitted,
		"units:" + EventTypeUnitEmitted,
	}, calls)

	info := bus.GetObservers()
	require.Len(t, info, 2)
	assert.Equal(t, "all", info[0].ID)
	assert.Equal(t, []string{EventTypeUnitEmitted}, info[1].EventTypes)

	require.NoError(t, bus.UnregisterObserver(observer("units")))
	require.NoError(t, bus.UnregisterObserver(observer("units")))
	assert.Len(t, bus.GetObservers(), 1)
}

func TestEventBusSurvivesFailingObservers(t *testing.T) {
	logger := &recordingLogger{}
	bus := NewEventBus(logger)
	require.NoError(t, bus.RegisterObserver(NewFunctionalObserver("fails", func(context.Context, cloudevents.Event) error {
		return errors.New("boom")
	})))
	require.NoError(t, bus.RegisterObserver(NewFunctionalObserver("panics", func(context.Context, cloudevents.Event) error {
		panic("boom")
	})))
	reached := false
	require.NoError(t, bus.RegisterObserver(NewFunctionalObserver("last", func(context.Context, cloudevents.Event) error {
		reached = true
		return nil
	})))

	require.NoError(t, bus.NotifyObservers(context.Background(), NewCloudEvent(EventTypeBatchCompleted, EventSource, nil, nil)))
	assert.True(t, reached)
	assert.True(t, logger.has("error: Observer error"))
	assert.True(t, logger.has("error: Observer panicked"))
}

func TestNewCloudEvent(t *testing.T) {
	event := NewCloudEvent(EventTypeUnitFailed, EventSource, map[string]any{"artifact": "A"}, map[string]any{"batch": "b1"})
	require.NoError(t, ValidateCloudEvent(event))

	id, err := uuid.Parse(event.ID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.Equal(t, cloudevents.ApplicationJSON, event.DataContentType())
	assert.Equal(t, "b1", event.Extensions()["batch"])

	var data map[string]string
	require.NoError(t, event.DataAs(&data))
	assert.Equal(t, "A", data["artifact"])
}

func TestNotifyRejectsInvalidEvents(t *testing.T) {
	bus := NewEventBus(nil)
	assert.Error(t, bus.NotifyObservers(context.Background(), cloudevents.NewEvent()))
}
