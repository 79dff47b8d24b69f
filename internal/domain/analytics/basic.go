package analytics

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/matching"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/rider"
)

const (
	kgToLBS = 2.20462
	mToFT   = 3.28084
)

// BasicMetrics builds one record per matched rider, ordered by fantasy name.
// Totals come from the rider's season results for the current race.
func BasicMetrics(riders map[string]matching.RiderMatchInfo, opts Options) []Record {
	names := make([]string, 0, len(riders))
	for name := range riders {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Record, 0, len(names))
	for _, name := range names {
		out = append(out, basicRecord(name, riders[name], opts))
	}
	return out
}

func basicRecord(fantasyName string, info matching.RiderMatchInfo, opts Options) Record {
	rec := Record{
		FantasyName:     fantasyName,
		FullName:        info.Rider.FullName,
		Team:            info.Rider.Team,
		Position:        info.Rider.Position,
		Stars:           info.Rider.Stars,
		CanonicalName:   info.CanonicalName,
		HasPCSData:      info.HasPCSData,
		HasRaceData:     info.HasRaceData,
		MatchConfidence: info.RaceMatch.Confidence,
		MatchMethod:     info.RaceMatch.Method,
		DataQuality:     DataQuality(info),
	}
	if info.Profile == nil || !info.Profile.Usable() {
		return rec
	}

	results := raceResults(info.Profile.SeasonResults, opts.ResultPrefix)
	for _, result := range results {
		rec.TotalPCSPoints += result.PCSPoints
		rec.TotalUCIPoints += result.UCIPoints
	}
	rec.PCSPerStar = perStar(rec.TotalPCSPoints, rec.Stars)
	rec.UCIPerStar = perStar(rec.TotalUCIPoints, rec.Stars)
	rec.SeasonResults = len(results)

	days, positions := positionSeries(results)
	rec.ConsistencyScore = ConsistencyScore(positions)
	rec.TrendScore = TrendScore(days, positions)
	rec.ImprovementScore = ImprovementScore(positions)
	rec.Demographics = demographics(*info.Profile, opts.Now)
	return rec
}

// DataQuality rates how much is known about a rider, in [0,1].
func DataQuality(info matching.RiderMatchInfo) float64 {
	score := 0.2
	if info.HasPCSData {
		score += 0.3
	}
	if info.HasRaceData {
		score += 0.3
	}
	score += 0.2 * info.RaceMatch.Confidence
	return min(1, score)
}

func raceResults(results []rider.SeasonResult, prefix string) []rider.SeasonResult {
	out := make([]rider.SeasonResult, 0, len(results))
	for _, result := range results {
		if prefix != "" && !strings.HasPrefix(result.StageURL, prefix) {
			continue
		}
		out = append(out, result)
	}
	return out
}

type datedPosition struct {
	date     time.Time
	position float64
}

// positionSeries returns numeric GC positions in date order with their day
// offset from the first dated result. Rows without a date or a numeric
// position are dropped.
func positionSeries(results []rider.SeasonResult) (days, positions []float64) {
	points := make([]datedPosition, 0, len(results))
	for _, result := range results {
		date, err := time.Parse(time.DateOnly, strings.TrimSpace(result.Date))
		if err != nil {
			continue
		}
		position, err := strconv.Atoi(strings.TrimSpace(result.GCPosition))
		if err != nil || position <= 0 {
			continue
		}
		points = append(points, datedPosition{date: date, position: float64(position)})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].date.Before(points[j].date)
	})

	days = make([]float64, len(points))
	positions = make([]float64, len(points))
	for i, p := range points {
		days[i] = p.date.Sub(points[0].date).Hours() / 24
		positions[i] = p.position
	}
	return days, positions
}

func demographics(profile rider.Profile, now time.Time) Demographics {
	out := Demographics{
		Nationality: profile.Nationality,
		Birthplace:  profile.Birthplace,
	}
	if birth, err := time.Parse(time.DateOnly, strings.TrimSpace(profile.Birthdate)); err == nil && !now.IsZero() {
		out.Birthdate = birth.Format(time.DateOnly)
		out.Age = ageAt(birth, now)
	}
	if profile.Weight > 0 {
		out.WeightKG = profile.Weight
		out.WeightLBS = profile.Weight * kgToLBS
	}
	if profile.Height > 0 {
		out.HeightM = profile.Height
		out.HeightFT = profile.Height * mToFT
	}
	return out
}

func ageAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return max(0, age)
}
