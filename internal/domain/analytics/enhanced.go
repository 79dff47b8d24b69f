package analytics

import (
	"fmt"

	"github.com/sourcegraph/conc/iter"
	"gonum.org/v1/gonum/stat"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/matching"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
)

type enhanceOutcome struct {
	record  Record
	failure *RiderFailure
}

// EnhancedMetrics overlays stage analytics on basic records for riders whose
// race match confidence is at least EnhancedMinConfidence. A rider whose
// stage analytics fail keeps its basic record and is reported in failures.
// Records keep the order of basic.
func EnhancedMetrics(riders map[string]matching.RiderMatchInfo, data race.Data, basic []Record) ([]Record, []RiderFailure) {
	completed := data.CompletedStages()

	outcomes := iter.Map(basic, func(rec *Record) enhanceOutcome {
		info, ok := riders[rec.FantasyName]
		if !ok || info.RaceMatch.Confidence < EnhancedMinConfidence {
			return enhanceOutcome{record: *rec}
		}
		enhanced, err := safeEnhance(*rec, info, completed)
		if err != nil {
			return enhanceOutcome{
				record:  *rec,
				failure: &RiderFailure{FantasyName: rec.FantasyName, Reason: err.Error()},
			}
		}
		return enhanceOutcome{record: enhanced}
	})

	records := make([]Record, len(outcomes))
	var failures []RiderFailure
	for i, outcome := range outcomes {
		records[i] = outcome.record
		if outcome.failure != nil {
			failures = append(failures, *outcome.failure)
		}
	}
	return records, failures
}

func safeEnhance(rec Record, info matching.RiderMatchInfo, completed []race.Stage) (out Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stage analytics panicked: %v", r)
		}
	}()
	return enhance(rec, info, completed)
}

func enhance(rec Record, info matching.RiderMatchInfo, completed []race.Stage) (Record, error) {
	name := stageName(info)
	target := matching.Normalize(name)
	if target == "" {
		return rec, fmt.Errorf("rider %q has no usable stage name", rec.FantasyName)
	}

	metrics := StageMetrics{}
	var (
		ranks       []float64
		percentiles []float64
		byTerrain   []StageRank
	)
	for _, stage := range completed {
		row, ok := findRow(stage.Results, target)
		if !ok {
			continue
		}
		if row.Rank < 0 {
			return rec, fmt.Errorf("stage %q has negative rank %d for %q", stage.StageURL, row.Rank, row.RiderName)
		}
		metrics.StagePCSPoints += row.PCSPoints
		metrics.StageUCIPoints += row.UCIPoints
		if row.Rank == 0 {
			continue
		}
		ranks = append(ranks, float64(row.Rank))
		percentiles = append(percentiles, PercentileFinish(row.Rank, len(stage.Results)))
		byTerrain = append(byTerrain, StageRank{ProfileIcon: stage.ProfileIcon, Rank: row.Rank})
	}

	metrics.StagesRidden = len(ranks)
	if len(ranks) > 0 {
		metrics.AverageRank = stat.Mean(ranks, nil)
		metrics.MedianRank = median(ranks)
		metrics.AvgPercentileFinish = stat.Mean(percentiles, nil)
		metrics.BestRank, metrics.WorstRank = int(ranks[0]), int(ranks[0])
		for _, value := range ranks {
			rank := int(value)
			metrics.BestRank = min(metrics.BestRank, rank)
			metrics.WorstRank = max(metrics.WorstRank, rank)
			if rank == 1 {
				metrics.StageWins++
			}
			if rank <= 5 {
				metrics.Top5++
			}
			if rank <= 10 {
				metrics.Top10++
			}
		}
		metrics.StageTrend = TrendScore(indexSeries(len(ranks)), ranks)
	}

	metrics.Classifications = make(map[race.Classification]ClassificationStats, len(race.Classifications))
	for _, c := range race.Classifications {
		if stats, ok := Classify(completed, name, c); ok {
			metrics.Classifications[c] = stats
		}
	}
	metrics.GCTimeGapSeconds = gcTimeGap(completed, target)
	metrics.RiderType = ClassifyRiderType(byTerrain)

	if info.HasPCSData {
		metrics.DataCompleteness += 0.3
	}
	if len(completed) > 0 {
		metrics.DataCompleteness += 0.7 * float64(len(ranks)) / float64(len(completed))
	}

	if len(ranks) > 0 {
		rec.TotalPCSPoints = metrics.StagePCSPoints
		rec.TotalUCIPoints = metrics.StageUCIPoints
		rec.PCSPerStar = perStar(rec.TotalPCSPoints, rec.Stars)
		rec.UCIPerStar = perStar(rec.TotalUCIPoints, rec.Stars)
	}
	rec.Stage = &metrics
	return rec, nil
}

func stageName(info matching.RiderMatchInfo) string {
	if info.RaceMatch.StageName != "" {
		return info.RaceMatch.StageName
	}
	if info.Profile != nil && info.Profile.Name != "" {
		return info.Profile.Name
	}
	return info.Rider.FantasyName
}

func gcTimeGap(completed []race.Stage, target string) *float64 {
	if len(completed) == 0 {
		return nil
	}
	gc := completed[len(completed)-1].GeneralClassification
	if len(gc) == 0 {
		return nil
	}
	row, ok := findRow(gc, target)
	if !ok {
		return nil
	}
	if row.Rank == 1 {
		zero := 0.0
		return &zero
	}
	gap, err := TimeGap(gc[0].Time, row.Time)
	if err != nil {
		return nil
	}
	return &gap
}
