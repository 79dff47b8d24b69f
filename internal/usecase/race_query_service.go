package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/analytics"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/matching"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
	"github.com/riskibarqy/fantasy-cycling/internal/platform/cache"
	"github.com/riskibarqy/fantasy-cycling/internal/platform/logging"
)

// PipelineRunner runs one pipeline.
type PipelineRunner interface {
	Run(ctx context.Context, cfg PipelineConfig) DataLoadResult
}

// RaceOverview is the race level view served to consumers.
type RaceOverview struct {
	Race    race.Definition       `json:"race"`
	Summary analytics.RaceSummary `json:"race_summary"`
	Info    analytics.RaceInfo    `json:"race_info"`
	Status  RunStatus             `json:"status"`
}

// RaceQueryService answers read queries from the latest successful run of a
// race, running the pipeline on a cache miss.
type RaceQueryService struct {
	runner   PipelineRunner
	results  *cache.Store[DataLoadResult]
	defaults PipelineConfig
	logger   *logging.Logger
}

func NewRaceQueryService(
	runner PipelineRunner,
	results *cache.Store[DataLoadResult],
	defaults PipelineConfig,
	logger *logging.Logger,
) *RaceQueryService {
	if logger == nil {
		logger = logging.Default()
	}
	if results == nil {
		results = cache.NewStore[DataLoadResult](0)
	}
	return &RaceQueryService{
		runner:   runner,
		results:  results,
		defaults: defaults,
		logger:   logger,
	}
}

// Config returns the default run configuration for raceKey.
func (s *RaceQueryService) Config(raceKey string) PipelineConfig {
	cfg := s.defaults
	cfg.RaceKey = raceKey
	return cfg
}

// Trigger runs the pipeline now. A successful result replaces the cached one;
// a failed result is returned but never cached.
func (s *RaceQueryService) Trigger(ctx context.Context, cfg PipelineConfig) DataLoadResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceQueryService.Trigger", attribute.String("race.key", cfg.RaceKey))
	defer span.End()

	result := s.runner.Run(ctx, cfg)
	if result.Summary.OverallSuccess {
		s.results.Set(ctx, cacheKey(result.PipelineState.RaceKey), result)
	}
	return result
}

// Latest returns the cached result of raceKey or runs the pipeline with the
// default configuration.
func (s *RaceQueryService) Latest(ctx context.Context, raceKey string) (out DataLoadResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceQueryService.Latest", attribute.String("race.key", raceKey))
	defer func() { finishSpan(span, err) }()

	def, ok := race.Lookup(raceKey)
	if !ok {
		return DataLoadResult{}, fmt.Errorf("%w: race %q", ErrNotFound, raceKey)
	}

	return s.results.GetOrLoad(ctx, cacheKey(def.Key), func(ctx context.Context) (DataLoadResult, error) {
		result := s.runner.Run(ctx, s.Config(def.Key))
		if !result.Summary.OverallSuccess {
			s.logger.WarnContext(ctx, "pipeline run for query failed", "race_key", def.Key, "errors", result.Errors)
			return DataLoadResult{}, fmt.Errorf("%w: pipeline failed for %s: %s",
				ErrDependencyUnavailable, def.Key, strings.Join(result.Errors, "; "))
		}
		return result, nil
	})
}

func (s *RaceQueryService) Riders(ctx context.Context, raceKey string) ([]analytics.Record, error) {
	result, err := s.Latest(ctx, raceKey)
	if err != nil {
		return nil, err
	}
	return result.RidersTable, nil
}

func (s *RaceQueryService) Outliers(ctx context.Context, raceKey string, zThreshold float64) (analytics.Outliers, error) {
	if zThreshold <= 0 {
		return analytics.Outliers{}, fmt.Errorf("%w: threshold must be greater than zero", ErrInvalidInput)
	}
	result, err := s.Latest(ctx, raceKey)
	if err != nil {
		return analytics.Outliers{}, err
	}
	return analytics.IdentifyPerformanceOutliers(result.RidersTable, zThreshold), nil
}

func (s *RaceQueryService) ValuePicks(ctx context.Context, raceKey string, minPoints float64, maxStars int) ([]analytics.ValuePick, error) {
	if minPoints < 0 || maxStars < 0 {
		return nil, fmt.Errorf("%w: min_points and max_stars must be >= 0", ErrInvalidInput)
	}
	result, err := s.Latest(ctx, raceKey)
	if err != nil {
		return nil, err
	}
	return analytics.IdentifyValuePicks(result.RidersTable, minPoints, maxStars), nil
}

func (s *RaceQueryService) Overview(ctx context.Context, raceKey string) (RaceOverview, error) {
	result, err := s.Latest(ctx, raceKey)
	if err != nil {
		return RaceOverview{}, err
	}
	return RaceOverview{
		Race:    result.RawData.Race,
		Summary: result.AnalyticsData.RaceSummary,
		Info:    result.AnalyticsData.RaceInfo,
		Status:  summarize(result),
	}, nil
}

// RiderMatch looks a rider up by fantasy name, falling back to a
// case-insensitive comparison.
func (s *RaceQueryService) RiderMatch(ctx context.Context, raceKey, fantasyName string) (matching.RiderMatchInfo, error) {
	name := strings.TrimSpace(fantasyName)
	if name == "" {
		return matching.RiderMatchInfo{}, fmt.Errorf("%w: rider name is required", ErrInvalidInput)
	}
	result, err := s.Latest(ctx, raceKey)
	if err != nil {
		return matching.RiderMatchInfo{}, err
	}
	if info, ok := result.MatchedData.Riders[name]; ok {
		return info, nil
	}
	for key, info := range result.MatchedData.Riders {
		if strings.EqualFold(key, name) {
			return info, nil
		}
	}
	return matching.RiderMatchInfo{}, fmt.Errorf("%w: rider %q in %s", ErrNotFound, name, raceKey)
}

func cacheKey(raceKey string) string {
	return "pipeline:" + strings.ToUpper(strings.TrimSpace(raceKey))
}
