package httpapi

import (
	"github.com/riskibarqy/fantasy-cycling/internal/domain/analytics"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
	"github.com/riskibarqy/fantasy-cycling/internal/usecase"
)

// runPipelineRequest leaves unset flags at the service defaults.
type runPipelineRequest struct {
	RaceKey              string   `json:"race_key" validate:"required"`
	RaceYear             int      `json:"race_year" validate:"gte=0"`
	ForceRefresh         bool     `json:"force_refresh"`
	FuzzyThreshold       *float64 `json:"fuzzy_threshold" validate:"omitempty,gte=0,lte=1"`
	RequireTeamMatch     *bool    `json:"require_team_match"`
	UseEnhancedAnalytics *bool    `json:"use_enhanced_analytics"`
	CalculateTrends      *bool    `json:"calculate_trends"`
}

func (r runPipelineRequest) toConfig(base usecase.PipelineConfig) usecase.PipelineConfig {
	cfg := base
	cfg.ForceRefresh = r.ForceRefresh
	if r.RaceYear > 0 {
		cfg.RaceYear = r.RaceYear
	}
	if r.FuzzyThreshold != nil {
		cfg.FuzzyThreshold = *r.FuzzyThreshold
	}
	if r.RequireTeamMatch != nil {
		cfg.RequireTeamMatch = *r.RequireTeamMatch
	}
	if r.UseEnhancedAnalytics != nil {
		cfg.UseEnhancedAnalytics = *r.UseEnhancedAnalytics
	}
	if r.CalculateTrends != nil {
		cfg.CalculateTrends = *r.CalculateTrends
	}
	return cfg
}

type raceDTO struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Year    int    `json:"year"`
	URLPath string `json:"url_path"`
}

func raceToDTO(def race.Definition) raceDTO {
	return raceDTO{
		Key:     def.Key,
		Name:    def.Name,
		Year:    def.Year,
		URLPath: def.URLPath,
	}
}

type outliersDTO struct {
	Threshold       float64             `json:"threshold"`
	Overperformers  []analytics.Outlier `json:"overperformers"`
	Underperformers []analytics.Outlier `json:"underperformers"`
}

func outliersToDTO(v analytics.Outliers, threshold float64) outliersDTO {
	out := outliersDTO{
		Threshold:       threshold,
		Overperformers:  v.Over,
		Underperformers: v.Under,
	}
	if out.Overperformers == nil {
		out.Overperformers = []analytics.Outlier{}
	}
	if out.Underperformers == nil {
		out.Underperformers = []analytics.Outlier{}
	}
	return out
}
