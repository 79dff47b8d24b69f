package analytics

import (
	"time"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/matching"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
)

// EnhancedMinConfidence is the race match confidence a rider needs before
// stage level analytics are computed.
const EnhancedMinConfidence = 0.8

// Options carries the race context analytics are computed for.
type Options struct {
	// ResultPrefix restricts season results to this race, e.g. "race/tour-de-france-femmes/2025/".
	ResultPrefix string
	Now          time.Time
}

// Record is the per-rider analytics row.
type Record struct {
	FantasyName      string          `json:"fantasy_name"`
	FullName         string          `json:"full_name"`
	Team             string          `json:"team"`
	Position         string          `json:"position,omitempty"`
	Stars            int             `json:"stars"`
	CanonicalName    string          `json:"canonical_name"`
	HasPCSData       bool            `json:"has_pcs_data"`
	HasRaceData      bool            `json:"has_race_data"`
	MatchConfidence  float64         `json:"match_confidence"`
	MatchMethod      matching.Method `json:"match_method"`
	DataQuality      float64         `json:"data_quality"`
	TotalPCSPoints   float64         `json:"total_pcs_points"`
	TotalUCIPoints   float64         `json:"total_uci_points"`
	PCSPerStar       float64         `json:"pcs_per_star"`
	UCIPerStar       float64         `json:"uci_per_star"`
	SeasonResults    int             `json:"season_results_count"`
	ConsistencyScore float64         `json:"consistency_score"`
	TrendScore       float64         `json:"trend_score"`
	ImprovementScore float64         `json:"improvement_score"`
	Demographics     Demographics    `json:"demographics"`
	Stage            *StageMetrics   `json:"stage_metrics,omitempty"`
}

type Demographics struct {
	Age         int     `json:"age,omitempty"`
	Birthdate   string  `json:"birthdate,omitempty"`
	Nationality string  `json:"nationality,omitempty"`
	Birthplace  string  `json:"birthplace,omitempty"`
	WeightKG    float64 `json:"weight_kg,omitempty"`
	WeightLBS   float64 `json:"weight_lbs,omitempty"`
	HeightM     float64 `json:"height_m,omitempty"`
	HeightFT    float64 `json:"height_ft,omitempty"`
}

// StageMetrics holds analytics derived from completed stage results.
type StageMetrics struct {
	StagesRidden        int                                         `json:"stages_ridden"`
	AverageRank         float64                                     `json:"avg_stage_position"`
	MedianRank          float64                                     `json:"median_stage_position"`
	BestRank            int                                         `json:"best_stage_position"`
	WorstRank           int                                         `json:"worst_stage_position"`
	StageWins           int                                         `json:"stage_wins"`
	Top5                int                                         `json:"top_5_finishes"`
	Top10               int                                         `json:"top_10_finishes"`
	AvgPercentileFinish float64                                     `json:"avg_percentile_finish"`
	StagePCSPoints      float64                                     `json:"stage_pcs_points"`
	StageUCIPoints      float64                                     `json:"stage_uci_points"`
	StageTrend          float64                                     `json:"stage_position_trend"`
	GCTimeGapSeconds    *float64                                    `json:"gc_time_gap_seconds,omitempty"`
	Classifications     map[race.Classification]ClassificationStats `json:"classifications,omitempty"`
	RiderType           RiderType                                   `json:"rider_type"`
	DataCompleteness    float64                                     `json:"data_completeness_score"`
}

// RiderFailure reports a rider whose stage analytics could not be computed.
type RiderFailure struct {
	FantasyName string `json:"fantasy_name"`
	Reason      string `json:"reason"`
}

func perStar(points float64, stars int) float64 {
	if stars <= 0 {
		return 0
	}
	return points / float64(stars)
}
