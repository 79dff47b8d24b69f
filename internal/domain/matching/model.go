package matching

import "github.com/riskibarqy/fantasy-cycling/internal/domain/rider"

// Method tells how a race match was established.
type Method string

const (
	MethodExact               Method = "exact"
	MethodHighConfidenceFuzzy Method = "high_confidence_fuzzy"
	MethodFuzzy               Method = "fuzzy"
	MethodNoMatch             Method = "no_match"
	MethodNoName              Method = "no_name"
)

// Matched reports whether the method stands for an accepted match.
func (m Method) Matched() bool {
	switch m {
	case MethodExact, MethodHighConfidenceFuzzy, MethodFuzzy:
		return true
	default:
		return false
	}
}

func classify(score, threshold float64) Method {
	switch {
	case score >= 1:
		return MethodExact
	case score >= HighConfidence && score >= threshold:
		return MethodHighConfidenceFuzzy
	case score >= threshold && score > 0:
		return MethodFuzzy
	default:
		return MethodNoMatch
	}
}

// MatchResult links a fantasy rider to stage results. A zero confidence
// always comes with MethodNoMatch or MethodNoName, and CanonicalName is never
// empty when the rider had any usable name.
type MatchResult struct {
	FantasyName   string  `json:"fantasy_name"`
	PCSName       string  `json:"pcs_name,omitempty"`
	StageName     string  `json:"stage_name,omitempty"`
	RiderURL      string  `json:"rider_url,omitempty"`
	Confidence    float64 `json:"match_confidence"`
	Method        Method  `json:"match_method"`
	CanonicalName string  `json:"canonical_name"`
	TeamName      string  `json:"team_name,omitempty"`
	Nationality   string  `json:"nationality,omitempty"`
	Age           int     `json:"age,omitempty"`
	RiderNumber   int     `json:"rider_number,omitempty"`
	MatchedStages int     `json:"matched_stages"`
}

// Tier records which search space produced a startlist match.
type Tier string

const (
	TierTeam  Tier = "team"
	TierField Tier = "field"
)

// StartlistMatch is a fantasy rider resolved against the provider startlist.
type StartlistMatch struct {
	Rider       rider.StartlistRider `json:"matched_startlist_rider"`
	MatchedName string               `json:"pcs_matched_name"`
	RiderURL    string               `json:"pcs_rider_url,omitempty"`
	Confidence  float64              `json:"confidence"`
	Tier        Tier                 `json:"tier"`
}

// RiderMatchInfo combines every match made for one fantasy rider. It is built
// once per run and not modified afterwards.
type RiderMatchInfo struct {
	Rider          rider.FantasyRider `json:"fantasy_rider"`
	Profile        *rider.Profile     `json:"pcs_data,omitempty"`
	StartlistMatch *StartlistMatch    `json:"startlist_match,omitempty"`
	RaceMatch      MatchResult        `json:"race_match"`
	HasPCSData     bool               `json:"has_pcs_data"`
	HasRaceData    bool               `json:"has_race_data"`
	CanonicalName  string             `json:"canonical_name"`
	MatchError     string             `json:"match_error,omitempty"`
}
