package usecase

import (
	"context"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/rider"
)

// RawData is what the loading stage hands to matching. Profiles is the
// provider rider cache keyed by rider URL.
type RawData struct {
	Race            race.Definition          `json:"race"`
	FantasyRiders   []rider.FantasyRider     `json:"fantasy_riders"`
	StartlistRiders []rider.StartlistRider   `json:"startlist_riders"`
	Profiles        map[string]rider.Profile `json:"pcs_cache"`
	RaceData        race.Data                `json:"race_data"`
	Warnings        []string                 `json:"warnings,omitempty"`
}

type LoadRequest struct {
	Race         race.Definition
	ForceRefresh bool
}

// RaceDataLoader produces the raw sources of one race.
type RaceDataLoader interface {
	Load(ctx context.Context, req LoadRequest) (RawData, error)
}

// RiderDataProvider fetches race and rider pages from the upstream provider.
type RiderDataProvider interface {
	FetchStartlist(ctx context.Context, def race.Definition) ([]rider.StartlistRider, error)
	FetchStages(ctx context.Context, def race.Definition) ([]race.Stage, error)
	FetchRider(ctx context.Context, riderURL string) (rider.Profile, error)
}
