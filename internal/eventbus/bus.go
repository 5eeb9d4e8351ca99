// Package eventbus delivers committed domain events to in-process listeners.
//
// Events raised during a unit of work are buffered on a Recorder and only
// handed to the Bus after the transaction commits, so no listener ever
// observes state that was rolled back. Listeners registered as synchronous
// run on the committing goroutine right after flush; asynchronous listeners
// run on a bounded worker pool. Ordering across different aggregates is not
// guaranteed once work reaches the pool.
package eventbus

import (
	"context"

	"go.uber.org/zap"

	"github.com/junicoVilela/people-flow-api-sub000/internal/events"
)

// Handler reacts to one committed event. Handlers own their failure
// handling; an error inside a handler never reaches the publisher.
type Handler func(ctx context.Context, evt events.Event)

type Bus struct {
	syncSubs  map[events.Kind][]Handler
	asyncSubs map[events.Kind][]Handler
	pool      *Pool
	logger    *zap.Logger
}

func NewBus(pool *Pool, logger *zap.Logger) *Bus {
	return &Bus{
		syncSubs:  make(map[events.Kind][]Handler),
		asyncSubs: make(map[events.Kind][]Handler),
		pool:      pool,
		logger:    logger.Named("eventbus"),
	}
}

// Subscribe registers a handler that runs inline on the dispatching
// goroutine. Subscriptions happen at wiring time, before any dispatch, so no
// locking is needed around the maps.
func (b *Bus) Subscribe(kind events.Kind, h Handler) {
	b.syncSubs[kind] = append(b.syncSubs[kind], h)
}

// SubscribeAsync registers a handler that runs on the worker pool.
func (b *Bus) SubscribeAsync(kind events.Kind, h Handler) {
	b.asyncSubs[kind] = append(b.asyncSubs[kind], h)
}

// Dispatch flushes committed events to subscribers. Callers invoke it only
// after their transaction committed; rolled-back work never reaches here.
func (b *Bus) Dispatch(ctx context.Context, evts ...events.Event) {
	for _, evt := range evts {
		b.dispatchOne(ctx, evt)
	}
}

func (b *Bus) dispatchOne(ctx context.Context, evt events.Event) {
	for _, h := range b.syncSubs[evt.Kind()] {
		b.run(ctx, h, evt)
	}

	if len(b.asyncSubs[evt.Kind()]) == 0 {
		return
	}

	// The request context may be cancelled as soon as the HTTP response is
	// written; deferred listeners must outlive it.
	detached := context.WithoutCancel(ctx)

	for _, h := range b.asyncSubs[evt.Kind()] {
		handler := h
		err := b.pool.Submit(func() {
			b.run(detached, handler, evt)
		})
		if err != nil {
			b.logger.Error("async listener dropped",
				zap.String("kind", string(evt.Kind())),
				zap.String("aggregate_id", evt.AggregateID()),
				zap.Error(err),
			)
		}
	}
}

func (b *Bus) run(ctx context.Context, h Handler, evt events.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("listener panicked",
				zap.String("kind", string(evt.Kind())),
				zap.String("aggregate_id", evt.AggregateID()),
				zap.Any("panic", r),
			)
		}
	}()

	h(ctx, evt)
}

// Recorder buffers events raised during one unit of work. The owning service
// drains it into Bus.Dispatch only after a successful commit; on rollback
// the recorder is simply discarded.
type Recorder struct {
	pending []events.Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Record(evt events.Event) {
	r.pending = append(r.pending, evt)
}

func (r *Recorder) Drain() []events.Event {
	evts := r.pending
	r.pending = nil
	return evts
}
