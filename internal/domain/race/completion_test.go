package race

import (
	"testing"
	"time"
)

func TestIsStageCompleted(t *testing.T) {
	if IsStageCompleted(Stage{}) {
		t.Fatalf("stage without results must not be completed")
	}
	if !IsStageCompleted(Stage{Results: []Result{}}) {
		t.Fatalf("stage with an empty results list is completed")
	}
}

func TestLikelyCompleted(t *testing.T) {
	now := time.Date(2025, time.July, 30, 12, 0, 0, 0, time.UTC)
	speed := 41.2

	tests := []struct {
		name  string
		stage Stage
		want  bool
	}{
		{name: "results win", stage: Stage{Date: "08-03", Results: []Result{}}, want: true},
		{name: "past date", stage: Stage{Date: "07-26"}, want: true},
		{name: "same day", stage: Stage{Date: "07-30"}, want: true},
		{name: "future date", stage: Stage{Date: "08-02"}, want: false},
		{name: "bad date with speed", stage: Stage{Date: "soon", AvgSpeedWinner: &speed}, want: true},
		{name: "nothing known", stage: Stage{}, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := LikelyCompleted(tc.stage, 2025, now); got != tc.want {
				t.Fatalf("LikelyCompleted() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStageDistanceKM(t *testing.T) {
	if km, ok := (Stage{Distance: "150.5 km"}).DistanceKM(); !ok || km != 150.5 {
		t.Fatalf("unexpected distance %v %v", km, ok)
	}
	if _, ok := (Stage{Distance: "tbd"}).DistanceKM(); ok {
		t.Fatalf("expected unparsable distance")
	}
}

func TestLookup(t *testing.T) {
	def, ok := Lookup(" tdf_femmes_2025 ")
	if !ok {
		t.Fatalf("expected race to be registered")
	}
	if def.ResultPrefix() != "race/tour-de-france-femmes/2025/" {
		t.Fatalf("unexpected prefix %q", def.ResultPrefix())
	}
	if _, ok := Lookup("GIRO_1909"); ok {
		t.Fatalf("unexpected race")
	}
}
