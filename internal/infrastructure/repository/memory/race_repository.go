package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
)

type RaceRepository struct {
	mu     sync.RWMutex
	byRace map[string][]race.Stage
}

func NewRaceRepository(stages map[string][]race.Stage) *RaceRepository {
	byRace := make(map[string][]race.Stage, len(stages))
	for key, items := range stages {
		byRace[raceKey(key)] = append([]race.Stage(nil), items...)
	}
	return &RaceRepository{byRace: byRace}
}

func (r *RaceRepository) ListStages(_ context.Context, key string) ([]race.Stage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]race.Stage(nil), r.byRace[raceKey(key)]...), nil
}

// UpsertStages replaces stages by URL and appends unknown ones, keeping race order.
func (r *RaceRepository) UpsertStages(_ context.Context, key string, stages []race.Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key = raceKey(key)
	existing := r.byRace[key]
	index := make(map[string]int, len(existing))
	for i, stage := range existing {
		index[stage.StageURL] = i
	}
	for _, stage := range stages {
		if i, ok := index[stage.StageURL]; ok {
			existing[i] = stage
			continue
		}
		index[stage.StageURL] = len(existing)
		existing = append(existing, stage)
	}
	r.byRace[key] = existing
	return nil
}
