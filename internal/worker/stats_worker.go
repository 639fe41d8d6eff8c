// Package worker runs the periodic background jobs of the dashboard server.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StatsRefresher is a dashboard whose stats region can be refreshed.
type StatsRefresher interface {
	RefreshStats(ctx context.Context) error
}

type target struct {
	name      string
	refresher StatsRefresher
}

// StatsWorker refreshes the stats region of every registered dashboard on a
// fixed interval.
type StatsWorker struct {
	cron     *cron.Cron
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	targets []target
}

// cronLogger routes cron's own logging to zap.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}

// NewStatsWorker creates a worker. Each refresh gets at most timeout to finish.
func NewStatsWorker(interval, timeout time.Duration, logger *zap.Logger) *StatsWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = interval
	}
	cronLog := cronLogger{logger: logger.Sugar()}
	return &StatsWorker{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.SkipIfStillRunning(cronLog)),
		),
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Register adds a dashboard to the refresh cycle.
func (w *StatsWorker) Register(name string, r StatsRefresher) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.targets = append(w.targets, target{name: name, refresher: r})
}

// Start schedules the refresh. ctx bounds every refresh the worker runs.
func (w *StatsWorker) Start(ctx context.Context) error {
	if w.interval < time.Second {
		return fmt.Errorf("stats refresh interval must be at least 1s, got %s", w.interval)
	}
	spec := fmt.Sprintf("@every %s", w.interval)
	if _, err := w.cron.AddFunc(spec, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("scheduling stats refresh: %w", err)
	}
	w.cron.Start()
	w.logger.Info("stats worker started", zap.Duration("interval", w.interval))
	return nil
}

// RunOnce refreshes every registered dashboard concurrently and waits for
// them. Scheduled runs never overlap; a tick is skipped while the previous one
// is still running.
func (w *StatsWorker) RunOnce(ctx context.Context) {
	w.mu.Lock()
	targets := make([]target, len(w.targets))
	copy(targets, w.targets)
	w.mu.Unlock()

	var wg sync.WaitGroup
	for _, t := range targets {
		wg.Add(1)
		go func(t target) {
			defer wg.Done()
			w.refresh(ctx, t)
		}(t)
	}
	wg.Wait()
}

func (w *StatsWorker) refresh(ctx context.Context, t target) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	if err := t.refresher.RefreshStats(ctx); err != nil {
		w.logger.Warn("stats refresh failed",
			zap.String("dashboard", t.name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return
	}
	w.logger.Debug("stats refreshed", zap.String("dashboard", t.name), zap.Duration("duration", time.Since(start)))
}

// Stop halts scheduling and waits for a running scheduled refresh.
func (w *StatsWorker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.logger.Info("stats worker stopped")
}
