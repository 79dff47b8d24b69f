package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/rider"
)

func raceKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

type FantasyRepository struct {
	mu     sync.RWMutex
	byRace map[string][]rider.FantasyRider
}

func NewFantasyRepository(rosters map[string][]rider.FantasyRider) *FantasyRepository {
	byRace := make(map[string][]rider.FantasyRider, len(rosters))
	for key, riders := range rosters {
		byRace[raceKey(key)] = append([]rider.FantasyRider(nil), riders...)
	}
	return &FantasyRepository{byRace: byRace}
}

func (r *FantasyRepository) ListByRace(_ context.Context, key string) ([]rider.FantasyRider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]rider.FantasyRider(nil), r.byRace[raceKey(key)]...), nil
}

type StartlistRepository struct {
	mu     sync.RWMutex
	byRace map[string][]rider.StartlistRider
}

func NewStartlistRepository(startlists map[string][]rider.StartlistRider) *StartlistRepository {
	byRace := make(map[string][]rider.StartlistRider, len(startlists))
	for key, riders := range startlists {
		byRace[raceKey(key)] = append([]rider.StartlistRider(nil), riders...)
	}
	return &StartlistRepository{byRace: byRace}
}

func (r *StartlistRepository) ListByRace(_ context.Context, key string) ([]rider.StartlistRider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]rider.StartlistRider(nil), r.byRace[raceKey(key)]...), nil
}

func (r *StartlistRepository) ReplaceForRace(_ context.Context, key string, riders []rider.StartlistRider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byRace[raceKey(key)] = append([]rider.StartlistRider(nil), riders...)
	return nil
}

type ProfileRepository struct {
	mu    sync.RWMutex
	byURL map[string]rider.Profile
}

func NewProfileRepository(profiles []rider.Profile) *ProfileRepository {
	byURL := make(map[string]rider.Profile, len(profiles))
	for _, p := range profiles {
		byURL[p.RiderURL] = p
	}
	return &ProfileRepository{byURL: byURL}
}

func (r *ProfileRepository) ListAll(_ context.Context) (map[string]rider.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]rider.Profile, len(r.byURL))
	for url, p := range r.byURL {
		out[url] = p
	}
	return out, nil
}

func (r *ProfileRepository) Upsert(_ context.Context, profile rider.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byURL[profile.RiderURL] = profile
	return nil
}
