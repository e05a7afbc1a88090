package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (*Scheduler, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(zap.New(core)), logs
}

func TestScheduler_Register_InvalidSpec(t *testing.T) {
	t.Parallel()

	s, _ := newObserved()

	err := s.Register("bad", "every hour", func(context.Context) error { return nil })

	assert.Error(t, err)
}

func TestScheduler_Register_StandardSpec(t *testing.T) {
	t.Parallel()

	s, logs := newObserved()

	require.NoError(t, s.Register("followup", "0 * * * *", func(context.Context) error { return nil }))
	assert.Equal(t, 1, logs.FilterMessage("job registered").Len())
}

func TestScheduler_RunJob_ErrorBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		job     Job
		wantMsg string
	}{
		{"error is logged", func(context.Context) error { return errors.New("db down") }, "job failed"},
		{"panic is recovered", func(context.Context) error { panic("nil map") }, "job panicked"},
		{"success", func(context.Context) error { return nil }, "job finished"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, logs := newObserved()

			assert.NotPanics(t, func() { s.runJob("scan", tt.job) })
			entries := logs.FilterMessage(tt.wantMsg).All()
			require.Len(t, entries, 1)
			assert.Equal(t, "scan", entries[0].ContextMap()["job"])
		})
	}
}

// TestScheduler_KeepsRunningAfterFailure は失敗したジョブが次回以降の実行を止めないことを検証します。
func TestScheduler_KeepsRunningAfterFailure(t *testing.T) {
	s, _ := newObserved()

	var runs atomic.Int32
	require.NoError(t, s.Register("flaky", "@every 1s", func(context.Context) error {
		if runs.Add(1) == 1 {
			panic("first run blows up")
		}
		return errors.New("still failing")
	}))

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

func TestScheduler_Stop_WaitsForRunningJob(t *testing.T) {
	s, _ := newObserved()

	started := make(chan struct{}, 1)
	var sawCancel atomic.Bool
	require.NoError(t, s.Register("slow", "@every 1s", func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		sawCancel.Store(true)
		return ctx.Err()
	}))

	s.Start()
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("job never started")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := s.Stop(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Eventually(t, sawCancel.Load, time.Second, 10*time.Millisecond)
}
