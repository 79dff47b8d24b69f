package analytics

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	DefaultZThreshold = 1.5
	DefaultMinPoints  = 10
	DefaultMaxStars   = 4
	minOutlierPool    = 5
	maxValuePicks     = 5
)

type Outlier struct {
	FantasyName      string  `json:"fantasy_name"`
	Team             string  `json:"team"`
	Stars            int     `json:"stars"`
	Points           float64 `json:"total_pcs_points"`
	PerformanceRatio float64 `json:"performance_ratio"`
	ZScore           float64 `json:"z_score"`
}

type Outliers struct {
	Over  []Outlier `json:"overperformers"`
	Under []Outlier `json:"underperformers"`
}

// IdentifyPerformanceOutliers flags riders whose points per star sit more
// than zThreshold sample standard deviations from the pool mean. The pool is
// the riders with positive points; fewer than five of them, or a zero
// deviation, yields empty sets.
func IdentifyPerformanceOutliers(records []Record, zThreshold float64) Outliers {
	out := Outliers{Over: []Outlier{}, Under: []Outlier{}}

	pool := make([]Outlier, 0, len(records))
	for _, rec := range records {
		if rec.TotalPCSPoints <= 0 {
			continue
		}
		pool = append(pool, Outlier{
			FantasyName:      rec.FantasyName,
			Team:             rec.Team,
			Stars:            rec.Stars,
			Points:           rec.TotalPCSPoints,
			PerformanceRatio: perStar(rec.TotalPCSPoints, rec.Stars),
		})
	}
	if len(pool) < minOutlierPool {
		return out
	}

	ratios := make([]float64, len(pool))
	for i, item := range pool {
		ratios[i] = item.PerformanceRatio
	}
	mean, std := stat.MeanStdDev(ratios, nil)
	if std == 0 {
		return out
	}

	for _, item := range pool {
		item.ZScore = (item.PerformanceRatio - mean) / std
		switch {
		case item.ZScore > zThreshold:
			out.Over = append(out.Over, item)
		case item.ZScore < -zThreshold:
			out.Under = append(out.Under, item)
		}
	}
	return out
}

type ValuePick struct {
	FantasyName string  `json:"fantasy_name"`
	Team        string  `json:"team"`
	Stars       int     `json:"stars"`
	Points      float64 `json:"total_pcs_points"`
	ValueScore  float64 `json:"value_score"`
}

// IdentifyValuePicks returns up to five riders with at least minPoints and at
// most maxStars, best points per star first. Equal scores keep input order.
// Riders without a star price have no points per star and are never picked.
func IdentifyValuePicks(records []Record, minPoints float64, maxStars int) []ValuePick {
	picks := make([]ValuePick, 0)
	for _, rec := range records {
		if rec.Stars <= 0 || rec.TotalPCSPoints < minPoints || rec.Stars > maxStars {
			continue
		}
		picks = append(picks, ValuePick{
			FantasyName: rec.FantasyName,
			Team:        rec.Team,
			Stars:       rec.Stars,
			Points:      rec.TotalPCSPoints,
			ValueScore:  perStar(rec.TotalPCSPoints, rec.Stars),
		})
	}

	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].ValueScore > picks[j].ValueScore
	})
	if len(picks) > maxValuePicks {
		picks = picks[:maxValuePicks]
	}
	return picks
}
