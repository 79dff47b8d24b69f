package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/riskibarqy/fantasy-cycling/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cycling/internal/usecase"
)

const defaultRefreshTimeout = 10 * time.Minute

// RefreshRunner is the part of the query service the scheduler drives.
type RefreshRunner interface {
	Config(raceKey string) usecase.PipelineConfig
	Trigger(ctx context.Context, cfg usecase.PipelineConfig) usecase.DataLoadResult
}

// Scheduler re-runs the pipeline of one race on a cron schedule so the GET
// endpoints serve a warm result.
type Scheduler struct {
	cron    *cron.Cron
	runner  RefreshRunner
	raceKey string
	timeout time.Duration
	logger  *logging.Logger
}

func NewScheduler(schedule, raceKey string, runner RefreshRunner, logger *logging.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = logging.Default()
	}

	cronLogger := cronLogAdapter{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		runner:  runner,
		raceKey: raceKey,
		timeout: defaultRefreshTimeout,
		logger:  logger.With("component", "pipeline_scheduler", "race_key", raceKey),
	}

	if _, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.RunOnce(ctx)
	}); err != nil {
		return nil, fmt.Errorf("add pipeline refresh schedule %q: %w", schedule, err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.logger.Info("pipeline scheduler started", "entries", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop waits for a running refresh to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("pipeline scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce refreshes the cached result now.
func (s *Scheduler) RunOnce(ctx context.Context) usecase.DataLoadResult {
	result := s.runner.Trigger(ctx, s.runner.Config(s.raceKey))
	if !result.Summary.OverallSuccess {
		s.logger.WarnContext(ctx, "scheduled pipeline refresh failed", "errors", result.Errors)
		return result
	}
	s.logger.InfoContext(ctx, "scheduled pipeline refresh completed",
		"riders", result.Summary.TotalRiders,
		"matched", result.Summary.MatchedRiders,
		"total_seconds", result.Performance.TotalSeconds,
	)
	return result
}

type cronLogAdapter struct {
	logger *logging.Logger
}

func (a cronLogAdapter) Info(msg string, keysAndValues ...any) {
	a.logger.Debug("cron: "+msg, keysAndValues...)
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...any) {
	a.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
