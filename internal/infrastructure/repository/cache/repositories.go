package cache

import (
	"context"
	"maps"
	"strings"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/rider"
	basecache "github.com/riskibarqy/fantasy-cycling/internal/platform/cache"
)

const profilesKey = "profile:all"

func raceKey(prefix, key string) string {
	return prefix + strings.ToUpper(strings.TrimSpace(key))
}

type FantasyRepository struct {
	next  rider.FantasyRepository
	cache *basecache.Store[[]rider.FantasyRider]
}

func NewFantasyRepository(next rider.FantasyRepository, cache *basecache.Store[[]rider.FantasyRider]) *FantasyRepository {
	return &FantasyRepository{next: next, cache: cache}
}

func (r *FantasyRepository) ListByRace(ctx context.Context, key string) ([]rider.FantasyRider, error) {
	items, err := r.cache.GetOrLoad(ctx, raceKey("fantasy:race:", key), func(ctx context.Context) ([]rider.FantasyRider, error) {
		items, err := r.next.ListByRace(ctx, key)
		if err != nil {
			return nil, err
		}
		return append([]rider.FantasyRider(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]rider.FantasyRider(nil), items...), nil
}

type StartlistRepository struct {
	next  rider.StartlistRepository
	cache *basecache.Store[[]rider.StartlistRider]
}

func NewStartlistRepository(next rider.StartlistRepository, cache *basecache.Store[[]rider.StartlistRider]) *StartlistRepository {
	return &StartlistRepository{next: next, cache: cache}
}

func (r *StartlistRepository) ListByRace(ctx context.Context, key string) ([]rider.StartlistRider, error) {
	items, err := r.cache.GetOrLoad(ctx, raceKey("startlist:race:", key), func(ctx context.Context) ([]rider.StartlistRider, error) {
		items, err := r.next.ListByRace(ctx, key)
		if err != nil {
			return nil, err
		}
		return append([]rider.StartlistRider(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]rider.StartlistRider(nil), items...), nil
}

func (r *StartlistRepository) ReplaceForRace(ctx context.Context, key string, riders []rider.StartlistRider) error {
	if err := r.next.ReplaceForRace(ctx, key, riders); err != nil {
		return err
	}
	r.cache.Delete(ctx, raceKey("startlist:race:", key))
	return nil
}

// ProfileRepository caches the whole profile table as one entry; any upsert
// drops it.
type ProfileRepository struct {
	next  rider.ProfileRepository
	cache *basecache.Store[map[string]rider.Profile]
}

func NewProfileRepository(next rider.ProfileRepository, cache *basecache.Store[map[string]rider.Profile]) *ProfileRepository {
	return &ProfileRepository{next: next, cache: cache}
}

func (r *ProfileRepository) ListAll(ctx context.Context) (map[string]rider.Profile, error) {
	items, err := r.cache.GetOrLoad(ctx, profilesKey, func(ctx context.Context) (map[string]rider.Profile, error) {
		items, err := r.next.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return maps.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}
	return maps.Clone(items), nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, profile rider.Profile) error {
	if err := r.next.Upsert(ctx, profile); err != nil {
		return err
	}
	r.cache.Delete(ctx, profilesKey)
	return nil
}

type RaceRepository struct {
	next  race.Repository
	cache *basecache.Store[[]race.Stage]
}

func NewRaceRepository(next race.Repository, cache *basecache.Store[[]race.Stage]) *RaceRepository {
	return &RaceRepository{next: next, cache: cache}
}

func (r *RaceRepository) ListStages(ctx context.Context, key string) ([]race.Stage, error) {
	items, err := r.cache.GetOrLoad(ctx, raceKey("stage:race:", key), func(ctx context.Context) ([]race.Stage, error) {
		items, err := r.next.ListStages(ctx, key)
		if err != nil {
			return nil, err
		}
		return append([]race.Stage(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]race.Stage(nil), items...), nil
}

func (r *RaceRepository) UpsertStages(ctx context.Context, key string, stages []race.Stage) error {
	if err := r.next.UpsertStages(ctx, key, stages); err != nil {
		return err
	}
	r.cache.Delete(ctx, raceKey("stage:race:", key))
	return nil
}
