package analytics

import (
	"time"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
)

const unknownProfile = "unknown"

type Leader struct {
	RiderName   string `json:"rider_name"`
	TeamName    string `json:"team_name,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

// RaceSummary aggregates completed stages of a race.
type RaceSummary struct {
	RaceKey                string                         `json:"race_key"`
	TotalStages            int                            `json:"total_stages"`
	CompletedStages        int                            `json:"completed_stages"`
	TotalRiders            int                            `json:"total_riders"`
	TotalDistanceCompleted float64                        `json:"total_distance_completed"`
	StageTypes             map[string]int                 `json:"stage_types_distribution"`
	Leaders                map[race.Classification]Leader `json:"current_leaders"`
	AvgFieldSize           float64                        `json:"avg_field_size_per_stage"`
}

// SummarizeRace counts stage profiles and distinct riders over completed
// stages and takes classification leaders from the latest completed stage.
func SummarizeRace(data race.Data, raceKey string) RaceSummary {
	completed := data.CompletedStages()
	summary := RaceSummary{
		RaceKey:         raceKey,
		TotalStages:     len(data.Stages),
		CompletedStages: len(completed),
		StageTypes:      map[string]int{},
		Leaders:         map[race.Classification]Leader{},
	}

	riders := make(map[string]struct{})
	rows := 0
	for _, stage := range completed {
		profile := stage.ProfileIcon
		if profile == "" {
			profile = unknownProfile
		}
		summary.StageTypes[profile]++

		for _, result := range stage.Results {
			if result.RiderName != "" {
				riders[result.RiderName] = struct{}{}
			}
		}
		rows += len(stage.Results)

		if km, ok := stage.DistanceKM(); ok {
			summary.TotalDistanceCompleted += km
		}
	}
	summary.TotalRiders = len(riders)
	if len(completed) > 0 {
		summary.AvgFieldSize = float64(rows) / float64(len(completed))

		last := completed[len(completed)-1]
		for _, c := range race.Classifications {
			standings := last.Classification(c)
			if len(standings) == 0 {
				continue
			}
			summary.Leaders[c] = Leader{
				RiderName:   standings[0].RiderName,
				TeamName:    standings[0].TeamName,
				Nationality: standings[0].Nationality,
			}
		}
	}
	return summary
}

type StageRef struct {
	StageURL   string  `json:"stage_url"`
	DistanceKM float64 `json:"distance_km"`
}

// RaceInfo describes the race course and progress. Completion here uses
// race.LikelyCompleted, so stages without loaded results can count as run.
type RaceInfo struct {
	TotalDistanceKM        float64   `json:"total_distance_km"`
	CompletedDistanceKM    float64   `json:"total_distance_completed_km"`
	IncompleteDistanceKM   float64   `json:"total_distance_incomplete_km"`
	StagesCompleted        int       `json:"stages_completed"`
	StagesIncomplete       int       `json:"stages_incomplete"`
	ShortestStage          *StageRef `json:"shortest_stage,omitempty"`
	LongestStage           *StageRef `json:"longest_stage,omitempty"`
	AvgStageDistanceKM     float64   `json:"avg_stage_distance_km"`
	AvgStageVerticalMeters float64   `json:"avg_stage_vertical_meters"`
	TotalVerticalMeters    int       `json:"total_vertical_meters"`
	ClimbsCompleted        int       `json:"climbs_completed"`
	ClimbsIncomplete       int       `json:"climbs_incomplete"`
}

func ComputeRaceInfo(data race.Data, year int, now time.Time) RaceInfo {
	var (
		info      RaceInfo
		distances int
		verticals int
	)
	for _, stage := range data.Stages {
		done := race.LikelyCompleted(stage, year, now)
		if done {
			info.StagesCompleted++
			info.ClimbsCompleted += len(stage.Climbs)
		} else {
			info.StagesIncomplete++
			info.ClimbsIncomplete += len(stage.Climbs)
		}

		if stage.VerticalMeters != nil {
			info.TotalVerticalMeters += *stage.VerticalMeters
			verticals++
		}

		km, ok := stage.DistanceKM()
		if !ok {
			continue
		}
		distances++
		info.TotalDistanceKM += km
		if done {
			info.CompletedDistanceKM += km
		} else {
			info.IncompleteDistanceKM += km
		}
		if info.ShortestStage == nil || km < info.ShortestStage.DistanceKM {
			info.ShortestStage = &StageRef{StageURL: stage.StageURL, DistanceKM: km}
		}
		if info.LongestStage == nil || km > info.LongestStage.DistanceKM {
			info.LongestStage = &StageRef{StageURL: stage.StageURL, DistanceKM: km}
		}
	}
	if distances > 0 {
		info.AvgStageDistanceKM = info.TotalDistanceKM / float64(distances)
	}
	if verticals > 0 {
		info.AvgStageVerticalMeters = float64(info.TotalVerticalMeters) / float64(verticals)
	}
	return info
}
