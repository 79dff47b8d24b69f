package race

import (
	"strconv"
	"strings"
	"time"
)

// Classification is a race-wide ranking published after every stage.
type Classification string

const (
	ClassificationGeneral Classification = "gc"
	ClassificationPoints  Classification = "points"
	ClassificationKOM     Classification = "kom"
	ClassificationYouth   Classification = "youth"
)

// Classifications lists the ranked classifications in display order.
var Classifications = []Classification{
	ClassificationGeneral,
	ClassificationPoints,
	ClassificationKOM,
	ClassificationYouth,
}

// Result is one rider row of a stage result or classification.
type Result struct {
	RiderName   string  `json:"rider_name"`
	RiderURL    string  `json:"rider_url,omitempty"`
	RiderNumber int     `json:"rider_number,omitempty"`
	TeamName    string  `json:"team_name,omitempty"`
	TeamURL     string  `json:"team_url,omitempty"`
	Rank        int     `json:"rank,omitempty"`
	PrevRank    int     `json:"prev_rank,omitempty"`
	Time        string  `json:"time,omitempty"`
	Points      float64 `json:"points,omitempty"`
	PCSPoints   float64 `json:"pcs_points,omitempty"`
	UCIPoints   float64 `json:"uci_points,omitempty"`
	Nationality string  `json:"nationality,omitempty"`
	Age         int     `json:"age,omitempty"`
}

type Climb struct {
	Name      string  `json:"climb_name"`
	URL       string  `json:"climb_url,omitempty"`
	LengthKM  float64 `json:"length,omitempty"`
	Steepness float64 `json:"steepness,omitempty"`
	TopKM     float64 `json:"km_before_finish,omitempty"`
}

// Stage is one leg of the race. A nil Results slice means the stage has not run.
type Stage struct {
	StageURL              string   `json:"stage_url"`
	Date                  string   `json:"date,omitempty"`
	Distance              string   `json:"distance,omitempty"`
	ProfileIcon           string   `json:"profile_icon,omitempty"`
	StageType             string   `json:"stage_type,omitempty"`
	VerticalMeters        *int     `json:"vertical_meters,omitempty"`
	WonHow                string   `json:"won_how,omitempty"`
	AvgSpeedWinner        *float64 `json:"avg_speed_winner,omitempty"`
	Climbs                []Climb  `json:"climbs,omitempty"`
	Results               []Result `json:"results"`
	GeneralClassification []Result `json:"general_classification,omitempty"`
	PointsClassification  []Result `json:"points_classification,omitempty"`
	KOMClassification     []Result `json:"kom_classification,omitempty"`
	YouthClassification   []Result `json:"youth_classification,omitempty"`
}

// Classification returns the standings published with the stage.
func (s Stage) Classification(c Classification) []Result {
	switch c {
	case ClassificationGeneral:
		return s.GeneralClassification
	case ClassificationPoints:
		return s.PointsClassification
	case ClassificationKOM:
		return s.KOMClassification
	case ClassificationYouth:
		return s.YouthClassification
	default:
		return nil
	}
}

// DistanceKM parses distances such as "150.5 km".
func (s Stage) DistanceKM() (float64, bool) {
	fields := strings.Fields(s.Distance)
	if len(fields) == 0 {
		return 0, false
	}
	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// Data is everything known about a race's stages.
type Data struct {
	Stages    []Stage   `json:"stages"`
	FetchedAt time.Time `json:"fetched_at"`
	Error     string    `json:"error,omitempty"`
}

// CompletedStages keeps stages that have run, in race order.
func (d Data) CompletedStages() []Stage {
	out := make([]Stage, 0, len(d.Stages))
	for _, stage := range d.Stages {
		if IsStageCompleted(stage) {
			out = append(out, stage)
		}
	}
	return out
}
