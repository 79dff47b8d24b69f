package rider

import (
	"fmt"
	"strings"
	"time"
)

// FantasyRider is a roster entry from the fantasy game. FullName uses the
// game's "SURNAME Given" layout, e.g. "KOPECKY Lotte".
type FantasyRider struct {
	FullName    string `json:"full_name"`
	FantasyName string `json:"fantasy_name"`
	Team        string `json:"team"`
	Stars       int    `json:"stars"`
	Position    string `json:"position,omitempty"`
}

func (r FantasyRider) Validate() error {
	if strings.TrimSpace(r.FullName) == "" && strings.TrimSpace(r.FantasyName) == "" {
		return fmt.Errorf("rider needs a full name or fantasy name")
	}
	if r.Stars < 0 {
		return fmt.Errorf("rider stars must be >= 0")
	}
	return nil
}

// StartlistRider is one entry of the provider's race startlist.
type StartlistRider struct {
	RiderName   string `json:"rider_name"`
	RiderURL    string `json:"rider_url,omitempty"`
	TeamName    string `json:"team_name,omitempty"`
	TeamURL     string `json:"team_url,omitempty"`
	RiderNumber int    `json:"rider_number,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	Age         int    `json:"age,omitempty"`
}

// Profile is the provider's rider page, cached by rider URL.
type Profile struct {
	RiderURL      string         `json:"rider_url"`
	Name          string         `json:"name"`
	Nationality   string         `json:"nationality,omitempty"`
	Birthdate     string         `json:"birthdate,omitempty"`
	Birthplace    string         `json:"birthplace,omitempty"`
	Weight        float64        `json:"weight,omitempty"`
	Height        float64        `json:"height,omitempty"`
	SeasonResults []SeasonResult `json:"season_results,omitempty"`
	FetchedAt     time.Time      `json:"fetched_at"`
	Error         string         `json:"error,omitempty"`
}

// Usable reports whether the profile holds data rather than a recorded fetch failure.
func (p Profile) Usable() bool {
	return p.Error == ""
}

// SeasonResult is one row of a rider's season results on the provider.
type SeasonResult struct {
	Date       string  `json:"date"`
	StageURL   string  `json:"stage_url"`
	Result     string  `json:"result,omitempty"`
	GCPosition string  `json:"gc_position,omitempty"`
	Distance   float64 `json:"distance,omitempty"`
	PCSPoints  float64 `json:"pcs_points"`
	UCIPoints  float64 `json:"uci_points"`
}
