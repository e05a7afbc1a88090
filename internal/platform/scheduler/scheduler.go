// Package scheduler runs periodic background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one unit of scheduled work. A returned error is logged and never stops later runs.
type Job func(ctx context.Context) error

// Scheduler wraps a cron.Cron. Overlapping runs of the same job are skipped, not queued.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a scheduler that parses standard 5-field specs.
func New(logger *zap.Logger) *Scheduler {
	cl := cronLogger{s: logger.Sugar()}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register adds job under name on the given spec.
func (s *Scheduler) Register(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() { s.runJob(name, job) })
	if err != nil {
		return fmt.Errorf("scheduler: register %q with spec %q: %w", name, spec, err)
	}
	s.logger.Info("job registered", zap.String("job", name), zap.String("spec", spec))
	return nil
}

// runJob はジョブ単位のエラー境界です。エラーとpanicはログに記録するだけです。
func (s *Scheduler) runJob(name string, job Job) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("job panicked", zap.String("job", name), zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	if err := job(s.ctx); err != nil {
		s.logger.Error("job failed", zap.String("job", name), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return
	}
	s.logger.Debug("job finished", zap.String("job", name), zap.Duration("elapsed", time.Since(start)))
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for a running job to return.
// When ctx expires first, the running job's context is cancelled and ctx.Err() is returned.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

var _ cron.Logger = cronLogger{}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
