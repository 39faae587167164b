package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Iteration is one pass of the reconciliation loop.
type Iteration interface {
	Reconcile(ctx context.Context) error
}

// Scheduler runs an Iteration once on start and then every interval.
// Iterations never overlap: a tick that fires while one is running is skipped.
type Scheduler struct {
	logger    *slog.Logger
	interval  time.Duration
	iteration Iteration

	cron *cron.Cron
	wg   sync.WaitGroup
}

func NewScheduler(logger *slog.Logger, interval time.Duration, iteration Iteration) *Scheduler {
	return &Scheduler{
		logger:    logger,
		interval:  interval,
		iteration: iteration,
	}
}

// Start schedules the iteration. Jobs run with a context detached from ctx's
// cancellation so that shutdown lets a running iteration finish.
func (s *Scheduler) Start(ctx context.Context) {
	jobCtx := context.WithoutCancel(ctx)
	log := cronLogger{logger: s.logger}

	s.cron = cron.New(
		cron.WithLogger(log),
		cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
	)
	id := s.cron.Schedule(cron.Every(s.interval), cron.FuncJob(func() {
		start := time.Now()
		if err := s.iteration.Reconcile(jobCtx); err != nil {
			s.logger.ErrorContext(jobCtx, "reconcile iteration failed", "err", err.Error())
			return
		}
		s.logger.DebugContext(jobCtx, "reconcile iteration finished", "duration", time.Since(start))
	}))

	job := s.cron.Entry(id).WrappedJob
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		job.Run()
	}()
	s.cron.Start()
	s.logger.Info("reconcile loop started", "interval", s.interval.String())
}

// Stop prevents further runs and waits for the running iteration, if any.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("reconcile loop stopped")
}

type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{"err", err}, keysAndValues...)...)
}
