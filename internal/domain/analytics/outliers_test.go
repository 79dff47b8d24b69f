package analytics

import (
	"fmt"
	"testing"
)

func pointsRecords(points []float64, stars []int) []Record {
	out := make([]Record, len(points))
	for i := range points {
		out[i] = Record{FantasyName: fmt.Sprintf("rider-%d", i), TotalPCSPoints: points[i], Stars: stars[i]}
	}
	return out
}

func TestIdentifyPerformanceOutliers_TooFewScoringRiders(t *testing.T) {
	records := pointsRecords([]float64{0, 0, 0, 0, 0, 50}, []int{1, 2, 3, 4, 5, 2})

	got := IdentifyPerformanceOutliers(records, DefaultZThreshold)
	if len(got.Over) != 0 || len(got.Under) != 0 {
		t.Fatalf("expected empty sets, got %+v", got)
	}
	if got.Over == nil || got.Under == nil {
		t.Fatalf("expected non-nil empty slices")
	}
}

func TestIdentifyPerformanceOutliers_ZeroDeviation(t *testing.T) {
	records := pointsRecords([]float64{10, 20, 30, 40, 50}, []int{1, 2, 3, 4, 5})

	got := IdentifyPerformanceOutliers(records, DefaultZThreshold)
	if len(got.Over) != 0 || len(got.Under) != 0 {
		t.Fatalf("expected empty sets for equal ratios, got %+v", got)
	}
}

func TestIdentifyPerformanceOutliers(t *testing.T) {
	records := pointsRecords(
		[]float64{10, 10, 10, 10, 10, 10, 100, 1},
		[]int{1, 1, 1, 1, 1, 1, 1, 1},
	)

	got := IdentifyPerformanceOutliers(records, DefaultZThreshold)
	if len(got.Over) != 1 || got.Over[0].FantasyName != "rider-6" {
		t.Fatalf("expected rider-6 to overperform, got %+v", got.Over)
	}
	if got.Over[0].ZScore <= DefaultZThreshold {
		t.Fatalf("unexpected z-score %v", got.Over[0].ZScore)
	}
	if len(got.Under) != 0 {
		t.Fatalf("expected no underperformers, got %+v", got.Under)
	}
}

func TestIdentifyValuePicks(t *testing.T) {
	records := pointsRecords([]float64{0, 0, 0, 0, 0, 50}, []int{1, 2, 3, 4, 5, 2})

	picks := IdentifyValuePicks(records, DefaultMinPoints, DefaultMaxStars)
	if len(picks) != 1 || picks[0].FantasyName != "rider-5" || picks[0].ValueScore != 25 {
		t.Fatalf("unexpected picks %+v", picks)
	}
}

func TestIdentifyValuePicks_TopFiveByScore(t *testing.T) {
	records := pointsRecords(
		[]float64{12, 40, 33, 63, 25, 36, 90},
		[]int{1, 2, 3, 3, 1, 4, 5},
	)

	picks := IdentifyValuePicks(records, DefaultMinPoints, DefaultMaxStars)
	want := []string{"rider-4", "rider-3", "rider-1", "rider-0", "rider-2"}
	if len(picks) != len(want) {
		t.Fatalf("expected %d picks, got %+v", len(want), picks)
	}
	for i, name := range want {
		if picks[i].FantasyName != name {
			t.Fatalf("pick %d = %s, want %s (%+v)", i, picks[i].FantasyName, name, picks)
		}
	}
}

func TestIdentifyValuePicks_SkipsUnpricedRiders(t *testing.T) {
	records := pointsRecords([]float64{200, 30, 80}, []int{0, 1, -1})

	picks := IdentifyValuePicks(records, DefaultMinPoints, DefaultMaxStars)
	if len(picks) != 1 || picks[0].FantasyName != "rider-1" || picks[0].ValueScore != 30 {
		t.Fatalf("expected only the priced rider, got %+v", picks)
	}
}
