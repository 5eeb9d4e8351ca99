package eventbus_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/junicoVilela/people-flow-api-sub000/internal/eventbus"
	"github.com/junicoVilela/people-flow-api-sub000/internal/events"
)

func testEvent(id string) events.EmployeeActivated {
	return events.EmployeeActivated{
		EmployeeID:   id,
		EmployeeName: "Test Employee",
		OccurredAt:   time.Now().UTC(),
	}
}

func TestBus_SyncDispatchRunsInline(t *testing.T) {
	pool := eventbus.NewPool(1, 4, zap.NewNop())
	defer pool.Shutdown(time.Second)

	bus := eventbus.NewBus(pool, zap.NewNop())

	var got []string
	bus.Subscribe(events.KindEmployeeActivated, func(ctx context.Context, evt events.Event) {
		got = append(got, evt.AggregateID())
	})

	bus.Dispatch(context.Background(), testEvent("emp-1"), testEvent("emp-2"))

	// Sync handlers complete before Dispatch returns.
	assert.Equal(t, []string{"emp-1", "emp-2"}, got)
}

func TestBus_AsyncDispatchRunsOnPool(t *testing.T) {
	pool := eventbus.NewPool(2, 8, zap.NewNop())
	defer pool.Shutdown(time.Second)

	bus := eventbus.NewBus(pool, zap.NewNop())

	var mu sync.Mutex
	var got []string
	done := make(chan struct{}, 2)

	bus.SubscribeAsync(events.KindEmployeeActivated, func(ctx context.Context, evt events.Event) {
		mu.Lock()
		got = append(got, evt.AggregateID())
		mu.Unlock()
		done <- struct{}{}
	})

	bus.Dispatch(context.Background(), testEvent("emp-1"), testEvent("emp-2"))

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("async handler did not run")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"emp-1", "emp-2"}, got)
}

func TestBus_AsyncHandlerOutlivesCancelledContext(t *testing.T) {
	pool := eventbus.NewPool(1, 4, zap.NewNop())
	defer pool.Shutdown(time.Second)

	bus := eventbus.NewBus(pool, zap.NewNop())

	done := make(chan error, 1)
	bus.SubscribeAsync(events.KindEmployeeDeleted, func(ctx context.Context, evt events.Event) {
		done <- ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bus.Dispatch(ctx, events.EmployeeDeleted{EmployeeID: "emp-9", OccurredAt: time.Now()})

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("async handler did not run")
	}
}

func TestBus_PanickingListenerDoesNotPropagate(t *testing.T) {
	pool := eventbus.NewPool(1, 4, zap.NewNop())
	defer pool.Shutdown(time.Second)

	bus := eventbus.NewBus(pool, zap.NewNop())

	var second bool
	bus.Subscribe(events.KindEmployeeActivated, func(ctx context.Context, evt events.Event) {
		panic("listener blew up")
	})
	bus.Subscribe(events.KindEmployeeActivated, func(ctx context.Context, evt events.Event) {
		second = true
	})

	assert.NotPanics(t, func() {
		bus.Dispatch(context.Background(), testEvent("emp-1"))
	})
	assert.True(t, second, "sibling listener must still run")
}

func TestBus_NoSubscriberIsNoop(t *testing.T) {
	pool := eventbus.NewPool(1, 4, zap.NewNop())
	defer pool.Shutdown(time.Second)

	bus := eventbus.NewBus(pool, zap.NewNop())

	assert.NotPanics(t, func() {
		bus.Dispatch(context.Background(), testEvent("emp-1"))
	})
}

func TestRecorder_DrainEmptiesBuffer(t *testing.T) {
	rec := eventbus.NewRecorder()
	rec.Record(testEvent("emp-1"))
	rec.Record(testEvent("emp-2"))

	evts := rec.Drain()
	assert.Len(t, evts, 2)
	assert.Empty(t, rec.Drain(), "second drain returns nothing")
}
