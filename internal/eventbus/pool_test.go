package eventbus_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/junicoVilela/people-flow-api-sub000/internal/eventbus"
)

func TestPool_SubmitFailsFastWhenQueueFull(t *testing.T) {
	pool := eventbus.NewPool(1, 1, zap.NewNop())
	defer pool.Shutdown(time.Second)

	block := make(chan struct{})
	// Occupy the single worker, then fill the single queue slot.
	_ = pool.Submit(func() { <-block })

	var queued bool
	for i := 0; i < 50; i++ {
		if err := pool.Submit(func() {}); err != nil {
			assert.ErrorIs(t, err, eventbus.ErrQueueFull)
			queued = true
			break
		}
	}
	close(block)
	assert.True(t, queued, "expected ErrQueueFull once worker and queue were busy")
}

func TestPool_ShutdownDrainsQueuedTasks(t *testing.T) {
	pool := eventbus.NewPool(2, 16, zap.NewNop())

	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		err := pool.Submit(func() { ran.Add(1) })
		assert.NoError(t, err)
	}

	pool.Shutdown(2 * time.Second)
	assert.Equal(t, int32(10), ran.Load())
}

func TestPool_ShutdownAbandonsQueuedTasksAfterGrace(t *testing.T) {
	pool := eventbus.NewPool(1, 4, zap.NewNop())

	block := make(chan struct{})
	defer close(block)
	assert.NoError(t, pool.Submit(func() { <-block }))

	var ran atomic.Int32
	for i := 0; i < 4; i++ {
		assert.NoError(t, pool.Submit(func() { ran.Add(1) }))
	}

	start := time.Now()
	pool.Shutdown(50 * time.Millisecond)

	assert.Less(t, time.Since(start), time.Second,
		"shutdown must return once the grace period expires")
	assert.Equal(t, int32(0), ran.Load(),
		"tasks queued behind the stuck worker stay unexecuted")
}

func TestPool_SubmitAfterShutdownFails(t *testing.T) {
	pool := eventbus.NewPool(1, 4, zap.NewNop())
	pool.Shutdown(time.Second)

	err := pool.Submit(func() {})
	assert.ErrorIs(t, err, eventbus.ErrQueueFull)
}
