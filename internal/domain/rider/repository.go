package rider

import "context"

// FantasyRepository reads the fantasy roster of a race.
type FantasyRepository interface {
	ListByRace(ctx context.Context, raceKey string) ([]FantasyRider, error)
}

// StartlistRepository stores the provider startlist of a race.
type StartlistRepository interface {
	ListByRace(ctx context.Context, raceKey string) ([]StartlistRider, error)
	ReplaceForRace(ctx context.Context, raceKey string, riders []StartlistRider) error
}

// ProfileRepository is the provider rider cache keyed by rider URL.
type ProfileRepository interface {
	ListAll(ctx context.Context) (map[string]Profile, error)
	Upsert(ctx context.Context, profile Profile) error
}
