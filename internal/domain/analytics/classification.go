package analytics

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/matching"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
)

// ClassificationStats summarizes a rider's standing in one classification
// across completed stages.
type ClassificationStats struct {
	CurrentRank    int     `json:"current_rank"`
	BestRank       int     `json:"best_rank"`
	WorstRank      int     `json:"worst_rank"`
	Top10          int     `json:"top_10_count"`
	Top5           int     `json:"top_5_count"`
	RankChanges    int     `json:"rank_changes"`
	PointsEarned   float64 `json:"points_earned,omitempty"`
	AverageRank    float64 `json:"average_rank"`
	RankVolatility float64 `json:"rank_volatility"`
}

// Classify computes the rider's classification stats from completed stages.
// The rider is looked up by normalized name. ok is false when the rider never
// appears in the classification.
func Classify(stages []race.Stage, riderName string, c race.Classification) (ClassificationStats, bool) {
	target := matching.Normalize(riderName)
	if target == "" {
		return ClassificationStats{}, false
	}

	var (
		ranks      []float64
		lastPoints float64
	)
	for _, stage := range stages {
		row, ok := findRow(stage.Classification(c), target)
		if !ok || row.Rank <= 0 {
			continue
		}
		ranks = append(ranks, float64(row.Rank))
		lastPoints = row.Points
	}
	if len(ranks) == 0 {
		return ClassificationStats{}, false
	}

	out := ClassificationStats{
		CurrentRank: int(ranks[len(ranks)-1]),
		BestRank:    int(ranks[0]),
		WorstRank:   int(ranks[0]),
		AverageRank: stat.Mean(ranks, nil),
	}
	for i, rank := range ranks {
		r := int(rank)
		out.BestRank = min(out.BestRank, r)
		out.WorstRank = max(out.WorstRank, r)
		if r <= 10 {
			out.Top10++
		}
		if r <= 5 {
			out.Top5++
		}
		if i > 0 && ranks[i-1] != rank {
			out.RankChanges++
		}
	}
	if len(ranks) >= 2 {
		out.RankVolatility = stat.StdDev(ranks, nil)
	}
	if c == race.ClassificationPoints || c == race.ClassificationKOM {
		out.PointsEarned = lastPoints
	}
	return out, true
}

// RiderType is a coarse specialty derived from stage ranks by terrain.
type RiderType string

const (
	RiderTypeSprinter     RiderType = "sprinter"
	RiderTypeClimber      RiderType = "climber"
	RiderTypeAllRounder   RiderType = "all_rounder"
	RiderTypeGCContender  RiderType = "gc_contender"
	RiderTypeUnclassified RiderType = "unknown"
)

type terrain int

const (
	terrainFlat terrain = iota
	terrainHilly
	terrainMountain
	terrainOther
)

func terrainOf(profileIcon string) terrain {
	switch strings.ToLower(strings.TrimSpace(profileIcon)) {
	case "p1":
		return terrainFlat
	case "p2", "p3":
		return terrainHilly
	case "p4", "p5":
		return terrainMountain
	default:
		return terrainOther
	}
}

// StageRank is a rider's finishing rank on a stage with the stage profile.
type StageRank struct {
	ProfileIcon string
	Rank        int
}

// ClassifyRiderType labels a rider from average stage ranks per terrain.
func ClassifyRiderType(ranks []StageRank) RiderType {
	sums := map[terrain][]float64{}
	for _, r := range ranks {
		if r.Rank <= 0 {
			continue
		}
		t := terrainOf(r.ProfileIcon)
		if t == terrainOther {
			continue
		}
		sums[t] = append(sums[t], float64(r.Rank))
	}
	if len(sums) == 0 {
		return RiderTypeUnclassified
	}

	averages := make(map[terrain]float64, len(sums))
	lowest := -1.0
	for t, values := range sums {
		avg := stat.Mean(values, nil)
		averages[t] = avg
		if lowest < 0 || avg < lowest {
			lowest = avg
		}
	}

	if avg, ok := averages[terrainFlat]; ok && avg <= 10 && avg == lowest {
		return RiderTypeSprinter
	}
	if avg, ok := averages[terrainMountain]; ok && avg <= 10 && avg == lowest {
		return RiderTypeClimber
	}
	allRound := true
	for _, avg := range averages {
		if avg > 15 {
			allRound = false
			break
		}
	}
	if allRound {
		return RiderTypeAllRounder
	}
	if lowest <= 20 {
		return RiderTypeGCContender
	}
	return RiderTypeUnclassified
}

// ParseTimeToSeconds reads "H:MM:SS", "MM:SS" or "+M:SS" race times.
func ParseTimeToSeconds(value string) (float64, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(value), "+")
	if raw == "" {
		return 0, fmt.Errorf("empty time")
	}

	parts := strings.Split(raw, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q", value)
	}
	total := 0.0
	for _, part := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid time %q", value)
		}
		total = total*60 + n
	}
	return total, nil
}

// TimeGap returns how far riderTime is behind leaderTime in seconds. A rider
// time written as "+M:SS" is already a gap.
func TimeGap(leaderTime, riderTime string) (float64, error) {
	rider, err := ParseTimeToSeconds(riderTime)
	if err != nil {
		return 0, err
	}
	if strings.HasPrefix(strings.TrimSpace(riderTime), "+") {
		return rider, nil
	}
	leader, err := ParseTimeToSeconds(leaderTime)
	if err != nil {
		return 0, err
	}
	return max(0, rider-leader), nil
}

// PercentileFinish places a rank within a field, 100 being the winner.
func PercentileFinish(rank, fieldSize int) float64 {
	if rank <= 0 || fieldSize <= 0 || rank > fieldSize {
		return 0
	}
	return float64(fieldSize-rank+1) / float64(fieldSize) * 100
}

func findRow(rows []race.Result, normalizedName string) (race.Result, bool) {
	for _, row := range rows {
		if matching.Normalize(row.RiderName) == normalizedName {
			return row, true
		}
	}
	return race.Result{}, false
}
