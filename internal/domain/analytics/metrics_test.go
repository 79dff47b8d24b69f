package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/matching"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/rider"
)

const prefix = "race/tour-de-france-femmes/2025/"

func testOptions() Options {
	return Options{ResultPrefix: prefix, Now: time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)}
}

func kopeckyInfo() matching.RiderMatchInfo {
	profile := &rider.Profile{
		RiderURL:    "rider/lotte-kopecky",
		Name:        "Lotte Kopecky",
		Nationality: "BE",
		Birthdate:   "1995-11-10",
		Weight:      62,
		Height:      1.69,
		SeasonResults: []rider.SeasonResult{
			{Date: "2025-07-28", StageURL: prefix + "stage-3", GCPosition: "3", PCSPoints: 20, UCIPoints: 10},
			{Date: "2025-07-26", StageURL: prefix + "stage-1", GCPosition: "5", PCSPoints: 40, UCIPoints: 30},
			{Date: "2025-07-27", StageURL: prefix + "stage-2", GCPosition: "4", PCSPoints: 15, UCIPoints: 5},
			{Date: "2025-05-01", StageURL: "race/giro-d-italia-donne/2025/stage-1", GCPosition: "1", PCSPoints: 100},
			{Date: "2025-07-29", StageURL: prefix + "stage-4", GCPosition: "DNF"},
		},
	}
	return matching.RiderMatchInfo{
		Rider:       rider.FantasyRider{FullName: "KOPECKY Lotte", FantasyName: "KOPECKY Lotte", Team: "Team A", Stars: 5},
		Profile:     profile,
		HasPCSData:  true,
		HasRaceData: true,
		RaceMatch: matching.MatchResult{
			FantasyName:   "KOPECKY Lotte",
			StageName:     "Kopecky Lotte",
			Confidence:    1,
			Method:        matching.MethodExact,
			CanonicalName: "Kopecky Lotte",
		},
		CanonicalName: "Kopecky Lotte",
	}
}

func TestBasicMetrics(t *testing.T) {
	riders := map[string]matching.RiderMatchInfo{
		"KOPECKY Lotte": kopeckyInfo(),
		"VOS Marianne": {
			Rider:         rider.FantasyRider{FullName: "VOS Marianne", FantasyName: "VOS Marianne", Stars: 0},
			RaceMatch:     matching.MatchResult{Method: matching.MethodNoMatch, CanonicalName: "VOS Marianne"},
			CanonicalName: "VOS Marianne",
		},
	}

	records := BasicMetrics(riders, testOptions())
	if len(records) != 2 || records[0].FantasyName != "KOPECKY Lotte" || records[1].FantasyName != "VOS Marianne" {
		t.Fatalf("expected records ordered by fantasy name, got %+v", records)
	}

	kopecky := records[0]
	if kopecky.TotalPCSPoints != 75 || kopecky.TotalUCIPoints != 45 {
		t.Fatalf("unexpected totals %v/%v", kopecky.TotalPCSPoints, kopecky.TotalUCIPoints)
	}
	if kopecky.PCSPerStar != 15 || kopecky.UCIPerStar != 9 {
		t.Fatalf("unexpected per-star ratios %v/%v", kopecky.PCSPerStar, kopecky.UCIPerStar)
	}
	if kopecky.SeasonResults != 4 {
		t.Fatalf("expected 4 race results, got %d", kopecky.SeasonResults)
	}
	if math.Abs(kopecky.TrendScore+1) > 1e-9 {
		t.Fatalf("expected trend -1, got %v", kopecky.TrendScore)
	}
	wantConsistency := math.Sqrt(2.0/3.0) / 4
	if math.Abs(kopecky.ConsistencyScore-wantConsistency) > 1e-12 {
		t.Fatalf("expected consistency %v, got %v", wantConsistency, kopecky.ConsistencyScore)
	}
	if kopecky.Demographics.Age != 29 || kopecky.Demographics.Nationality != "BE" {
		t.Fatalf("unexpected demographics %+v", kopecky.Demographics)
	}
	if math.Abs(kopecky.Demographics.WeightLBS-62*kgToLBS) > 1e-9 {
		t.Fatalf("unexpected weight conversion %v", kopecky.Demographics.WeightLBS)
	}
	if kopecky.DataQuality != 1 {
		t.Fatalf("expected full data quality, got %v", kopecky.DataQuality)
	}

	vos := records[1]
	if vos.TotalPCSPoints != 0 || vos.PCSPerStar != 0 || vos.ConsistencyScore != 0 {
		t.Fatalf("expected zero metrics without provider data, got %+v", vos)
	}
	if vos.DataQuality != 0.2 {
		t.Fatalf("expected base data quality, got %v", vos.DataQuality)
	}
}

func enhancedRace() race.Data {
	return race.Data{Stages: []race.Stage{
		{
			StageURL:    prefix + "stage-1",
			ProfileIcon: "p1",
			Results: []race.Result{
				{RiderName: "Kopecky Lotte", Rank: 1, PCSPoints: 100, UCIPoints: 40},
				{RiderName: "Wiebes Lorena", Rank: 2, PCSPoints: 80},
			},
			GeneralClassification: []race.Result{
				{RiderName: "Kopecky Lotte", Rank: 1, Time: "3:10:00"},
				{RiderName: "Wiebes Lorena", Rank: 2, Time: "+0:04"},
			},
			PointsClassification: []race.Result{{RiderName: "Kopecky Lotte", Rank: 1, Points: 50}},
		},
		{
			StageURL:    prefix + "stage-2",
			ProfileIcon: "p1",
			Results: []race.Result{
				{RiderName: "Wiebes Lorena", Rank: 1, PCSPoints: 100},
				{RiderName: "Kopecky Lotte", Rank: 3, PCSPoints: 60, UCIPoints: 20},
			},
			GeneralClassification: []race.Result{
				{RiderName: "Wiebes Lorena", Rank: 1, Time: "6:20:00"},
				{RiderName: "Kopecky Lotte", Rank: 2, Time: "+0:06"},
			},
			PointsClassification: []race.Result{{RiderName: "Kopecky Lotte", Rank: 1, Points: 90}},
		},
		{StageURL: prefix + "stage-3", ProfileIcon: "p5"},
	}}
}

func TestEnhancedMetrics(t *testing.T) {
	broken := kopeckyInfo()
	broken.Rider.FantasyName = "BROKEN Rider"
	broken.RaceMatch.StageName = "Broken Rider"
	lowConfidence := kopeckyInfo()
	lowConfidence.Rider.FantasyName = "LOW Confidence"
	lowConfidence.RaceMatch.Confidence = 0.5

	riders := map[string]matching.RiderMatchInfo{
		"KOPECKY Lotte":  kopeckyInfo(),
		"BROKEN Rider":   broken,
		"LOW Confidence": lowConfidence,
	}
	data := enhancedRace()
	data.Stages[0].Results = append(data.Stages[0].Results, race.Result{RiderName: "Broken Rider", Rank: -3})

	basic := BasicMetrics(riders, testOptions())
	records, failures := EnhancedMetrics(riders, data, basic)

	if len(records) != len(basic) {
		t.Fatalf("expected %d records, got %d", len(basic), len(records))
	}
	if len(failures) != 1 || failures[0].FantasyName != "BROKEN Rider" {
		t.Fatalf("expected one failure for BROKEN Rider, got %+v", failures)
	}

	byName := map[string]Record{}
	for _, rec := range records {
		byName[rec.FantasyName] = rec
	}
	if byName["BROKEN Rider"].Stage != nil || byName["BROKEN Rider"].TotalPCSPoints != 75 {
		t.Fatalf("failed rider must keep basic metrics, got %+v", byName["BROKEN Rider"])
	}
	if byName["LOW Confidence"].Stage != nil {
		t.Fatalf("low confidence rider must not get stage metrics")
	}

	kopecky := byName["KOPECKY Lotte"]
	stage := kopecky.Stage
	if stage == nil {
		t.Fatalf("expected stage metrics")
	}
	if stage.StagesRidden != 2 || stage.StageWins != 1 || stage.Top5 != 2 || stage.BestRank != 1 || stage.WorstRank != 3 {
		t.Fatalf("unexpected stage metrics %+v", stage)
	}
	if stage.AverageRank != 2 || stage.MedianRank != 2 {
		t.Fatalf("unexpected average/median %v/%v", stage.AverageRank, stage.MedianRank)
	}
	if kopecky.TotalPCSPoints != 160 || kopecky.TotalUCIPoints != 60 || kopecky.PCSPerStar != 32 {
		t.Fatalf("expected stage totals to replace season totals, got %+v", kopecky)
	}
	gc := stage.Classifications[race.ClassificationGeneral]
	if gc.CurrentRank != 2 || gc.BestRank != 1 || gc.RankChanges != 1 {
		t.Fatalf("unexpected gc stats %+v", gc)
	}
	if points := stage.Classifications[race.ClassificationPoints]; points.PointsEarned != 90 {
		t.Fatalf("unexpected points stats %+v", points)
	}
	if stage.GCTimeGapSeconds == nil || *stage.GCTimeGapSeconds != 6 {
		t.Fatalf("expected 6s gc gap, got %v", stage.GCTimeGapSeconds)
	}
	if stage.RiderType != RiderTypeSprinter {
		t.Fatalf("expected sprinter, got %s", stage.RiderType)
	}
	if math.Abs(stage.DataCompleteness-1) > 1e-9 {
		t.Fatalf("expected complete data, got %v", stage.DataCompleteness)
	}
}
