package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rac-reallocation/internal/worker"
)

type tickingWorker struct {
	*worker.BaseWorker
	ticks   atomic.Int32
	blockOn chan struct{}
}

func newTickingWorker(name string) *tickingWorker {
	return &tickingWorker{BaseWorker: worker.NewBaseWorker(name, "test-group", zap.NewNop())}
}

func (w *tickingWorker) Start(ctx context.Context) error {
	if w.blockOn != nil {
		<-w.blockOn
		return nil
	}
	for w.Sleep(ctx, 5*time.Millisecond) {
		w.ticks.Add(1)
	}
	return nil
}

func TestWorkerManager_StartStop(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop(), time.Second)
	require.Error(t, m.Start(context.Background()))

	a := newTickingWorker("expiry")
	b := newTickingWorker("notifications")
	m.Register(a)
	m.Register(b)
	assert.Equal(t, []string{"expiry", "notifications"}, m.Names())

	require.NoError(t, m.Start(context.Background()))
	assert.Eventually(t, func() bool {
		return a.ticks.Load() > 0 && b.ticks.Load() > 0
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.True(t, a.IsStopped())
	assert.True(t, b.IsStopped())
	assert.NoError(t, a.Stop())
}

func TestWorkerManager_StopTimeout(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop(), 20*time.Millisecond)
	stuck := newTickingWorker("stuck")
	stuck.blockOn = make(chan struct{})
	defer close(stuck.blockOn)

	m.Register(stuck)
	require.NoError(t, m.Start(context.Background()))
	assert.Error(t, m.Stop())
}

func TestBaseWorker_ContextCancelledOnStop(t *testing.T) {
	w := worker.NewBaseWorker("expiry", "", zap.NewNop())
	assert.NotEmpty(t, w.ConsumerName())

	ctx, cancel := w.Context(context.Background())
	defer cancel()

	require.NoError(t, w.Stop())
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled by Stop")
	}
	assert.False(t, w.Sleep(context.Background(), time.Hour))
}
