package procyclingstats

import (
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/rider"
)

type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

type startlistItem struct {
	RiderName   string `json:"rider_name"`
	RiderURL    string `json:"rider_url"`
	TeamName    string `json:"team_name"`
	TeamURL     string `json:"team_url"`
	RiderNumber int    `json:"rider_number"`
	Nationality string `json:"nationality"`
	Age         int    `json:"age"`
}

func (s startlistItem) toDomain() rider.StartlistRider {
	return rider.StartlistRider{
		RiderName:   strings.TrimSpace(s.RiderName),
		RiderURL:    cleanPath(s.RiderURL),
		TeamName:    strings.TrimSpace(s.TeamName),
		TeamURL:     cleanPath(s.TeamURL),
		RiderNumber: s.RiderNumber,
		Nationality: strings.ToUpper(strings.TrimSpace(s.Nationality)),
		Age:         s.Age,
	}
}

type riderPage struct {
	Name          string              `json:"name"`
	Nationality   string              `json:"nationality"`
	Birthdate     string              `json:"birthdate"`
	Birthplace    string              `json:"place_of_birth"`
	Weight        float64             `json:"weight"`
	Height        float64             `json:"height"`
	SeasonResults []seasonResultEntry `json:"season_results"`
}

type seasonResultEntry struct {
	Date       string  `json:"date"`
	StageURL   string  `json:"stage_url"`
	Result     string  `json:"result"`
	GCPosition string  `json:"gc_position"`
	Distance   float64 `json:"distance"`
	PCSPoints  float64 `json:"pcs_points"`
	UCIPoints  float64 `json:"uci_points"`
}

func (p riderPage) toDomain(riderURL string, fetchedAt time.Time) rider.Profile {
	results := make([]rider.SeasonResult, 0, len(p.SeasonResults))
	for _, entry := range p.SeasonResults {
		if strings.TrimSpace(entry.StageURL) == "" {
			continue
		}
		results = append(results, rider.SeasonResult{
			Date:       strings.TrimSpace(entry.Date),
			StageURL:   cleanPath(entry.StageURL),
			Result:     strings.TrimSpace(entry.Result),
			GCPosition: strings.TrimSpace(entry.GCPosition),
			Distance:   entry.Distance,
			PCSPoints:  entry.PCSPoints,
			UCIPoints:  entry.UCIPoints,
		})
	}

	return rider.Profile{
		RiderURL:      riderURL,
		Name:          strings.TrimSpace(p.Name),
		Nationality:   strings.ToUpper(strings.TrimSpace(p.Nationality)),
		Birthdate:     strings.TrimSpace(p.Birthdate),
		Birthplace:    strings.TrimSpace(p.Birthplace),
		Weight:        p.Weight,
		Height:        p.Height,
		SeasonResults: results,
		FetchedAt:     fetchedAt,
	}
}
