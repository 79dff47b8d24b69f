package usecase

import (
	"time"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/analytics"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/matching"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
)

const (
	StageLoading      = "loading"
	StageMatching     = "matching"
	StageAnalytics    = "analytics"
	StageFinalization = "finalization"
)

// PipelineStages is the fixed run order.
var PipelineStages = []string{StageLoading, StageMatching, StageAnalytics, StageFinalization}

// PipelineConfig is validated before any stage starts. A zero FuzzyThreshold
// means matching.DefaultThreshold; a zero RaceYear keeps the registered year.
type PipelineConfig struct {
	RaceKey              string  `json:"race_key" validate:"required"`
	RaceYear             int     `json:"race_year,omitempty" validate:"gte=0"`
	ForceRefresh         bool    `json:"force_refresh"`
	FuzzyThreshold       float64 `json:"fuzzy_threshold" validate:"gte=0,lte=1"`
	RequireTeamMatch     bool    `json:"require_team_match"`
	UseEnhancedAnalytics bool    `json:"use_enhanced_analytics"`
	CalculateTrends      bool    `json:"calculate_trends"`
}

func DefaultPipelineConfig(raceKey string) PipelineConfig {
	return PipelineConfig{
		RaceKey:              raceKey,
		FuzzyThreshold:       matching.DefaultThreshold,
		UseEnhancedAnalytics: true,
		CalculateTrends:      true,
	}
}

func (c PipelineConfig) threshold() float64 {
	if c.FuzzyThreshold <= 0 {
		return matching.DefaultThreshold
	}
	return c.FuzzyThreshold
}

type PipelineStage struct {
	Name           string     `json:"stage_name"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	Success        bool       `json:"success"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	ItemsProcessed int        `json:"items_processed"`
	ItemsSucceeded int        `json:"items_succeeded"`
}

// Duration is zero until the stage has ended.
func (s PipelineStage) Duration() time.Duration {
	if s.EndTime == nil || s.EndTime.Before(s.StartTime) {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// PipelineState records one run. Stages are only appended.
type PipelineState struct {
	RunID                   string          `json:"run_id,omitempty"`
	RaceKey                 string          `json:"race_key"`
	UseEnhancedAnalytics    bool            `json:"use_enhanced_analytics"`
	FuzzyThreshold          float64         `json:"fuzzy_threshold"`
	Stages                  []PipelineStage `json:"pipeline_stages"`
	CurrentStage            string          `json:"current_stage,omitempty"`
	OverallSuccess          bool            `json:"overall_success"`
	TotalFantasyRiders      int             `json:"total_fantasy_riders"`
	MatchedRidersCount      int             `json:"matched_riders_count"`
	EnhancedAnalyticsCount  int             `json:"enhanced_analytics_count"`
	DataQualityDistribution map[string]int  `json:"data_quality_distribution"`
}

type MatchSummary struct {
	TotalFantasyRiders int     `json:"total_fantasy_riders"`
	MatchedRiders      int     `json:"matched_riders"`
	HasPCSData         int     `json:"has_pcs_data"`
	HasRaceData        int     `json:"has_race_data"`
	MatchRate          float64 `json:"match_rate"`
}

type MatchedData struct {
	Riders       map[string]matching.RiderMatchInfo `json:"riders"`
	RaceData     race.Data                          `json:"race_data"`
	MatchSummary MatchSummary                       `json:"match_summary"`
}

// RiderAnalytics joins one rider's match with its metrics.
type RiderAnalytics struct {
	FantasyName          string                  `json:"fantasy_name"`
	CanonicalName        string                  `json:"canonical_name"`
	MatchInfo            matching.RiderMatchInfo `json:"match_info"`
	BasicMetrics         analytics.Record        `json:"basic_metrics"`
	RaceAnalytics        *analytics.Record       `json:"race_analytics,omitempty"`
	HasEnhancedAnalytics bool                    `json:"has_enhanced_analytics"`
	DataQualityScore     float64                 `json:"data_quality_score"`
}

type AnalyticsData struct {
	Riders          map[string]RiderAnalytics `json:"riders"`
	BasicMetrics    []analytics.Record        `json:"basic_metrics"`
	EnhancedMetrics []analytics.Record        `json:"enhanced_metrics,omitempty"`
	RaceSummary     analytics.RaceSummary     `json:"race_summary"`
	RaceInfo        analytics.RaceInfo        `json:"computed_race_info"`
	Failures        []analytics.RiderFailure  `json:"failures,omitempty"`
}

type DataSources struct {
	FantasyRiders   int `json:"fantasy"`
	StartlistRiders int `json:"startlist"`
	ProfileCache    int `json:"pcs_cache"`
	RaceStages      int `json:"race_data"`
}

type ResultSummary struct {
	TotalRiders            int         `json:"total_riders"`
	MatchedRiders          int         `json:"matched_riders"`
	EnhancedAnalyticsCount int         `json:"enhanced_analytics"`
	DataSources            DataSources `json:"data_sources"`
	PipelineStages         int         `json:"pipeline_stages"`
	OverallSuccess         bool        `json:"overall_success"`
	Error                  string      `json:"error,omitempty"`
}

type PerformanceMetrics struct {
	TotalSeconds     float64            `json:"total_time_seconds"`
	StageSeconds     map[string]float64 `json:"stage_times"`
	SuccessfulStages int                `json:"successful_stages"`
	TotalStages      int                `json:"total_stages"`
}

// DataLoadResult is always returned by PipelineService.Run. Callers tell
// success from failure through Summary.OverallSuccess and Errors.
type DataLoadResult struct {
	RidersTable   []analytics.Record `json:"riders_table"`
	PipelineState PipelineState      `json:"pipeline_state"`
	RawData       RawData            `json:"raw_data"`
	MatchedData   MatchedData        `json:"matched_data"`
	AnalyticsData AnalyticsData      `json:"analytics_data"`
	Summary       ResultSummary      `json:"summary"`
	Performance   PerformanceMetrics `json:"performance"`
	Warnings      []string           `json:"warnings"`
	Errors        []string           `json:"errors"`
}

// RunStatus is the compact form of a DataLoadResult.
type RunStatus struct {
	RunID            string   `json:"run_id,omitempty"`
	RaceKey          string   `json:"race_key"`
	Success          bool     `json:"success"`
	FailedStage      string   `json:"failed_stage,omitempty"`
	CompletedStages  []string `json:"completed_stages"`
	TotalRiders      int      `json:"total_riders"`
	MatchedRiders    int      `json:"matched_riders"`
	MatchRate        float64  `json:"match_rate"`
	EnhancedRiders   int      `json:"enhanced_riders"`
	WarningCount     int      `json:"warning_count"`
	Errors           []string `json:"errors"`
	TotalTimeSeconds float64  `json:"total_time_seconds"`
}
