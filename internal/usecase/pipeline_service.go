package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/analytics"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/matching"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/rider"
	"github.com/riskibarqy/fantasy-cycling/internal/platform/id"
	"github.com/riskibarqy/fantasy-cycling/internal/platform/logging"
)

// RiderMatcher resolves fantasy riders against provider data.
type RiderMatcher interface {
	MatchAllRiders(
		fantasy []rider.FantasyRider,
		startlist []rider.StartlistRider,
		profiles map[string]rider.Profile,
		data race.Data,
	) (map[string]matching.RiderMatchInfo, error)
}

// MatcherFactory builds the matcher for one run.
type MatcherFactory func(cfg PipelineConfig) RiderMatcher

func NewMatcherFactory(workers int) MatcherFactory {
	return func(cfg PipelineConfig) RiderMatcher {
		return matching.NewMatcher(
			matching.WithThreshold(cfg.threshold()),
			matching.WithWorkers(workers),
			matching.WithRequireTeamMatch(cfg.RequireTeamMatch),
		)
	}
}

// PipelineObserver receives stage and run outcomes, e.g. for metrics.
type PipelineObserver interface {
	ObserveStage(stage string, duration time.Duration, success bool)
	ObserveRun(raceKey string, success bool, matchRate float64)
}

type noopObserver struct{}

func (noopObserver) ObserveStage(string, time.Duration, bool) {}
func (noopObserver) ObserveRun(string, bool, float64)         {}

// PipelineService runs load, match, analyze and finalize in order. Each Run
// owns fresh state; the service itself holds no per-run data.
type PipelineService struct {
	loader   RaceDataLoader
	matchers MatcherFactory
	observer PipelineObserver
	validate *validator.Validate
	ids      id.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewPipelineService(
	loader RaceDataLoader,
	matchers MatcherFactory,
	observer PipelineObserver,
	logger *logging.Logger,
) *PipelineService {
	if logger == nil {
		logger = logging.Default()
	}
	if observer == nil {
		observer = noopObserver{}
	}
	if matchers == nil {
		matchers = NewMatcherFactory(0)
	}

	return &PipelineService{
		loader:   loader,
		matchers: matchers,
		observer: observer,
		validate: validator.New(),
		ids:      id.NewRandomGenerator("run_"),
		logger:   logger,
		now:      time.Now,
	}
}

type pipelineRun struct {
	logger   *logging.Logger
	cfg      PipelineConfig
	def      race.Definition
	state    PipelineState
	raw      RawData
	matched  MatchedData
	analysis AnalyticsData
	table    []analytics.Record
	warnings []string
}

type stageOutcome struct {
	processed int
	succeeded int
}

type stageFunc func(ctx context.Context, run *pipelineRun) (stageOutcome, error)

// Run never panics and never returns an error: failures are reported in the
// result. A stage failure stops the run and keeps what earlier stages produced.
func (s *PipelineService) Run(ctx context.Context, cfg PipelineConfig) DataLoadResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.Run", attribute.String("race.key", cfg.RaceKey))
	defer span.End()

	def, err := s.resolve(ctx, cfg)
	if err != nil {
		s.logger.WarnContext(ctx, "pipeline rejected configuration", "race_key", cfg.RaceKey, "error", err)
		s.observer.ObserveRun(cfg.RaceKey, false, 0)
		return configErrorResult(err)
	}

	runID, err := s.ids.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate pipeline run id", "race_key", def.Key, "error", err)
	}
	span.SetAttributes(attribute.String("pipeline.run_id", runID))

	run := &pipelineRun{
		logger: s.logger.With("run_id", runID),
		cfg:    cfg,
		def:    def,
		state: PipelineState{
			RunID:                   runID,
			RaceKey:                 def.Key,
			UseEnhancedAnalytics:    cfg.UseEnhancedAnalytics,
			FuzzyThreshold:          cfg.threshold(),
			Stages:                  make([]PipelineStage, 0, len(PipelineStages)),
			DataQualityDistribution: map[string]int{},
		},
	}

	stages := []struct {
		name string
		fn   stageFunc
	}{
		{StageLoading, s.loadStage},
		{StageMatching, s.matchStage},
		{StageAnalytics, s.analyticsStage},
		{StageFinalization, s.finalizeStage},
	}
	for _, stage := range stages {
		if err := s.runStage(ctx, run, stage.name, stage.fn); err != nil {
			s.observer.ObserveRun(def.Key, false, run.matched.MatchSummary.MatchRate)
			return s.failedResult(run, stage.name, err)
		}
	}

	run.state.OverallSuccess = true
	s.observer.ObserveRun(def.Key, true, run.matched.MatchSummary.MatchRate)
	result := s.successResult(run)
	run.logger.InfoContext(ctx, "pipeline completed",
		"race_key", def.Key,
		"riders", len(result.RidersTable),
		"match_rate", run.matched.MatchSummary.MatchRate,
		"warnings", len(result.Warnings),
		"total_seconds", result.Performance.TotalSeconds,
	)
	return result
}

func (s *PipelineService) resolve(ctx context.Context, cfg PipelineConfig) (race.Definition, error) {
	if err := s.validate.StructCtx(ctx, cfg); err != nil {
		return race.Definition{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	def, ok := race.Lookup(cfg.RaceKey)
	if !ok {
		return race.Definition{}, fmt.Errorf("%w: unsupported race key %q (supported: %s)",
			ErrConfiguration, cfg.RaceKey, strings.Join(race.SupportedKeys(), ", "))
	}
	if cfg.RaceYear > 0 {
		def.Year = cfg.RaceYear
	}
	return def, nil
}

func (s *PipelineService) runStage(ctx context.Context, run *pipelineRun, name string, fn stageFunc) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService."+name, attribute.String("race.key", run.def.Key))

	idx := len(run.state.Stages)
	run.state.Stages = append(run.state.Stages, PipelineStage{Name: name, StartTime: s.now().UTC()})
	run.state.CurrentStage = name
	run.logger.InfoContext(ctx, "pipeline stage started", "race_key", run.def.Key, "stage", name)

	outcome, err := safeStage(ctx, name, run, fn)

	end := s.now().UTC()
	stage := &run.state.Stages[idx]
	stage.EndTime = &end
	stage.Success = err == nil
	stage.ItemsProcessed = outcome.processed
	stage.ItemsSucceeded = outcome.succeeded
	run.state.CurrentStage = ""
	if err != nil {
		stage.ErrorMessage = err.Error()
		err = fmt.Errorf("%w: %s: %w", ErrStageFailed, name, err)
	}

	s.observer.ObserveStage(name, stage.Duration(), stage.Success)
	if err != nil {
		run.logger.ErrorContext(ctx, "pipeline stage failed",
			"race_key", run.def.Key,
			"stage", name,
			"duration_ms", stage.Duration().Milliseconds(),
			"error", err,
		)
	} else {
		run.logger.InfoContext(ctx, "pipeline stage completed",
			"race_key", run.def.Key,
			"stage", name,
			"duration_ms", stage.Duration().Milliseconds(),
			"items_processed", outcome.processed,
			"items_succeeded", outcome.succeeded,
		)
	}
	finishSpan(span, err)
	return err
}

func safeStage(ctx context.Context, name string, run *pipelineRun, fn stageFunc) (outcome stageOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = crerr.Newf("%s stage panicked: %v", name, r)
		}
	}()
	return fn(ctx, run)
}

func (s *PipelineService) loadStage(ctx context.Context, run *pipelineRun) (stageOutcome, error) {
	if s.loader == nil {
		return stageOutcome{}, fmt.Errorf("%w: data loader is not configured", ErrDependencyUnavailable)
	}
	raw, err := s.loader.Load(ctx, LoadRequest{Race: run.def, ForceRefresh: run.cfg.ForceRefresh})
	if err != nil {
		return stageOutcome{}, err
	}
	if raw.Profiles == nil {
		raw.Profiles = map[string]rider.Profile{}
	}

	run.raw = raw
	run.warnings = append(run.warnings, raw.Warnings...)
	run.state.TotalFantasyRiders = len(raw.FantasyRiders)
	n := len(raw.FantasyRiders)
	return stageOutcome{processed: n, succeeded: n}, nil
}

func (s *PipelineService) matchStage(ctx context.Context, run *pipelineRun) (stageOutcome, error) {
	matcher := s.matchers(run.cfg)
	if matcher == nil {
		return stageOutcome{}, fmt.Errorf("matcher factory returned no matcher")
	}
	riders, err := matcher.MatchAllRiders(
		run.raw.FantasyRiders,
		run.raw.StartlistRiders,
		run.raw.Profiles,
		run.raw.RaceData,
	)
	if err != nil {
		return stageOutcome{}, err
	}

	failed := make([]string, 0)
	for name, info := range riders {
		if info.MatchError != "" {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)
	for _, name := range failed {
		run.logger.WarnContext(ctx, "rider matching failed, treating as unmatched",
			"race_key", run.def.Key,
			"fantasy_name", name,
			"reason", riders[name].MatchError,
		)
		run.warnings = append(run.warnings, fmt.Sprintf("matching for %s: %s", name, riders[name].MatchError))
	}

	summary := summarizeMatches(len(run.raw.FantasyRiders), riders)
	run.matched = MatchedData{
		Riders:       riders,
		RaceData:     run.raw.RaceData,
		MatchSummary: summary,
	}
	run.state.MatchedRidersCount = summary.MatchedRiders
	return stageOutcome{processed: len(riders), succeeded: summary.MatchedRiders}, nil
}

func (s *PipelineService) analyticsStage(ctx context.Context, run *pipelineRun) (stageOutcome, error) {
	riders := run.matched.Riders
	opts := analytics.Options{ResultPrefix: run.def.ResultPrefix(), Now: s.now()}

	basic := analytics.BasicMetrics(riders, opts)
	if !run.cfg.CalculateTrends {
		for i := range basic {
			basic[i].TrendScore = 0
			basic[i].ImprovementScore = 0
		}
	}

	var (
		enhanced []analytics.Record
		failures []analytics.RiderFailure
		warnings []string
	)
	if run.cfg.UseEnhancedAnalytics && len(run.matched.RaceData.Stages) > 0 {
		var err error
		enhanced, failures, err = safeEnhanced(riders, run.matched.RaceData, basic)
		if err != nil {
			run.logger.WarnContext(ctx, "enhanced analytics failed, using basic metrics", "race_key", run.def.Key, "error", err)
			warnings = append(warnings, fmt.Sprintf("enhanced analytics failed, using basic metrics: %v", err))
			enhanced = append([]analytics.Record(nil), basic...)
			failures = nil
		}
		for _, failure := range failures {
			run.logger.WarnContext(ctx, "rider analytics failed, keeping basic metrics",
				"race_key", run.def.Key,
				"fantasy_name", failure.FantasyName,
				"reason", failure.Reason,
			)
			warnings = append(warnings, fmt.Sprintf("analytics for %s: %s", failure.FantasyName, failure.Reason))
		}
	}

	byName := make(map[string]RiderAnalytics, len(basic))
	distribution := map[string]int{}
	for i, rec := range basic {
		info := riders[rec.FantasyName]
		item := RiderAnalytics{
			FantasyName:      rec.FantasyName,
			CanonicalName:    info.CanonicalName,
			MatchInfo:        info,
			BasicMetrics:     rec,
			DataQualityScore: rec.DataQuality,
		}
		if enhanced != nil {
			enhancedRec := enhanced[i]
			item.RaceAnalytics = &enhancedRec
			item.HasEnhancedAnalytics = enhancedRec.Stage != nil
		}
		byName[rec.FantasyName] = item
		distribution[qualityBucket(rec.DataQuality)]++
	}

	enhancedCount := 0
	for _, rec := range enhanced {
		if rec.Stage != nil {
			enhancedCount++
		}
	}

	run.analysis = AnalyticsData{
		Riders:          byName,
		BasicMetrics:    basic,
		EnhancedMetrics: enhanced,
		RaceSummary:     analytics.SummarizeRace(run.matched.RaceData, run.def.Key),
		RaceInfo:        analytics.ComputeRaceInfo(run.matched.RaceData, run.def.Year, s.now()),
		Failures:        failures,
	}
	run.warnings = append(run.warnings, warnings...)
	run.state.EnhancedAnalyticsCount = enhancedCount
	run.state.DataQualityDistribution = distribution
	return stageOutcome{processed: len(basic), succeeded: len(basic) - len(failures)}, nil
}

func safeEnhanced(
	riders map[string]matching.RiderMatchInfo,
	data race.Data,
	basic []analytics.Record,
) (records []analytics.Record, failures []analytics.RiderFailure, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = crerr.Newf("enhanced analytics panicked: %v", r)
		}
	}()
	records, failures = analytics.EnhancedMetrics(riders, data, basic)
	if len(records) != len(basic) {
		return nil, nil, crerr.Newf("enhanced analytics returned %d records for %d riders", len(records), len(basic))
	}
	return records, failures, nil
}

// finalizeStage picks the riders table and checks the match invariants: every
// confidence lies in [0,1] and a zero confidence carries no_match or no_name.
func (s *PipelineService) finalizeStage(_ context.Context, run *pipelineRun) (stageOutcome, error) {
	table := run.analysis.EnhancedMetrics
	if table == nil {
		table = run.analysis.BasicMetrics
	}
	for _, rec := range table {
		if !(rec.MatchConfidence >= 0 && rec.MatchConfidence <= 1) {
			return stageOutcome{}, fmt.Errorf("rider %q has confidence %v outside [0,1]", rec.FantasyName, rec.MatchConfidence)
		}
		if rec.MatchConfidence == 0 && rec.MatchMethod.Matched() {
			return stageOutcome{}, fmt.Errorf("rider %q has method %s with zero confidence", rec.FantasyName, rec.MatchMethod)
		}
	}
	run.table = append(make([]analytics.Record, 0, len(table)), table...)
	return stageOutcome{processed: len(table), succeeded: len(table)}, nil
}

func (s *PipelineService) successResult(run *pipelineRun) DataLoadResult {
	return DataLoadResult{
		RidersTable:   run.table,
		PipelineState: run.state,
		RawData:       run.raw,
		MatchedData:   run.matched,
		AnalyticsData: run.analysis,
		Summary: ResultSummary{
			TotalRiders:            len(run.raw.FantasyRiders),
			MatchedRiders:          run.matched.MatchSummary.MatchedRiders,
			EnhancedAnalyticsCount: run.state.EnhancedAnalyticsCount,
			DataSources:            dataSources(run.raw),
			PipelineStages:         len(run.state.Stages),
			OverallSuccess:         true,
		},
		Performance: performance(run.state.Stages),
		Warnings:    nonNil(run.warnings),
		Errors:      []string{},
	}
}

func (s *PipelineService) failedResult(run *pipelineRun, stage string, err error) DataLoadResult {
	msg := fmt.Sprintf("%s: %s", stage, run.state.Stages[len(run.state.Stages)-1].ErrorMessage)
	return DataLoadResult{
		RidersTable:   []analytics.Record{},
		PipelineState: run.state,
		RawData:       run.raw,
		MatchedData:   run.matched,
		AnalyticsData: run.analysis,
		Summary: ResultSummary{
			TotalRiders:    len(run.raw.FantasyRiders),
			MatchedRiders:  run.matched.MatchSummary.MatchedRiders,
			DataSources:    dataSources(run.raw),
			PipelineStages: len(run.state.Stages),
			Error:          err.Error(),
		},
		Performance: performance(run.state.Stages),
		Warnings:    nonNil(run.warnings),
		Errors:      []string{msg},
	}
}

func configErrorResult(err error) DataLoadResult {
	return DataLoadResult{
		RidersTable: []analytics.Record{},
		Summary:     ResultSummary{Error: err.Error()},
		Warnings:    []string{},
		Errors:      []string{err.Error()},
	}
}

// Summary reduces a result to its status.
func (s *PipelineService) Summary(result DataLoadResult) RunStatus {
	return summarize(result)
}

func summarize(result DataLoadResult) RunStatus {
	status := RunStatus{
		RunID:            result.PipelineState.RunID,
		RaceKey:          result.PipelineState.RaceKey,
		Success:          result.Summary.OverallSuccess,
		CompletedStages:  []string{},
		TotalRiders:      result.Summary.TotalRiders,
		MatchedRiders:    result.Summary.MatchedRiders,
		MatchRate:        result.MatchedData.MatchSummary.MatchRate,
		EnhancedRiders:   result.Summary.EnhancedAnalyticsCount,
		WarningCount:     len(result.Warnings),
		Errors:           nonNil(result.Errors),
		TotalTimeSeconds: result.Performance.TotalSeconds,
	}
	for _, stage := range result.PipelineState.Stages {
		if stage.Success {
			status.CompletedStages = append(status.CompletedStages, stage.Name)
			continue
		}
		status.FailedStage = stage.Name
	}
	return status
}

// summarizeMatches counts a rider as matched when either the startlist or
// the stage results resolved it.
func summarizeMatches(total int, riders map[string]matching.RiderMatchInfo) MatchSummary {
	summary := MatchSummary{TotalFantasyRiders: total}
	for _, info := range riders {
		if info.StartlistMatch != nil || info.RaceMatch.Method.Matched() {
			summary.MatchedRiders++
		}
		if info.HasPCSData {
			summary.HasPCSData++
		}
		if info.HasRaceData {
			summary.HasRaceData++
		}
	}
	summary.MatchRate = float64(summary.MatchedRiders) / float64(max(1, total))
	return summary
}

func dataSources(raw RawData) DataSources {
	return DataSources{
		FantasyRiders:   len(raw.FantasyRiders),
		StartlistRiders: len(raw.StartlistRiders),
		ProfileCache:    len(raw.Profiles),
		RaceStages:      len(raw.RaceData.Stages),
	}
}

func performance(stages []PipelineStage) PerformanceMetrics {
	out := PerformanceMetrics{
		StageSeconds: make(map[string]float64, len(stages)),
		TotalStages:  len(stages),
	}
	for _, stage := range stages {
		seconds := stage.Duration().Seconds()
		out.StageSeconds[stage.Name] = seconds
		out.TotalSeconds += seconds
		if stage.Success {
			out.SuccessfulStages++
		}
	}
	return out
}

func qualityBucket(score float64) string {
	switch {
	case score >= 0.8:
		return "high"
	case score >= 0.5:
		return "medium"
	default:
		return "low"
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
