package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/rider"
	"github.com/riskibarqy/fantasy-cycling/internal/platform/cache"
	"github.com/riskibarqy/fantasy-cycling/internal/platform/logging"
)

const defaultProviderWorkers = 4

type LoaderConfig struct {
	// FetchMissing fills empty sources and missing rider profiles from the provider.
	FetchMissing    bool
	ProviderWorkers int
}

// LoaderService assembles RawData from the repositories and, when enabled,
// the upstream provider.
type LoaderService struct {
	fantasyRepo   rider.FantasyRepository
	startlistRepo rider.StartlistRepository
	profileRepo   rider.ProfileRepository
	stageRepo     race.Repository
	provider      RiderDataProvider
	cache         *cache.Store[RawData]
	cfg           LoaderConfig
	logger        *logging.Logger
	now           func() time.Time
}

func NewLoaderService(
	fantasyRepo rider.FantasyRepository,
	startlistRepo rider.StartlistRepository,
	profileRepo rider.ProfileRepository,
	stageRepo race.Repository,
	provider RiderDataProvider,
	store *cache.Store[RawData],
	cfg LoaderConfig,
	logger *logging.Logger,
) *LoaderService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ProviderWorkers <= 0 {
		cfg.ProviderWorkers = defaultProviderWorkers
	}

	return &LoaderService{
		fantasyRepo:   fantasyRepo,
		startlistRepo: startlistRepo,
		profileRepo:   profileRepo,
		stageRepo:     stageRepo,
		provider:      provider,
		cache:         store,
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
	}
}

// Load returns the sources of req.Race. Cached sources are reused unless
// ForceRefresh is set. Only a fantasy roster failure is fatal; any other
// source degrades to empty with a warning.
func (s *LoaderService) Load(ctx context.Context, req LoadRequest) (out RawData, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LoaderService.Load",
		attribute.String("race.key", req.Race.Key),
		attribute.Bool("force_refresh", req.ForceRefresh),
	)
	defer func() { finishSpan(span, err) }()

	if strings.TrimSpace(req.Race.Key) == "" {
		return RawData{}, fmt.Errorf("%w: race key is required", ErrInvalidInput)
	}
	if s.cache == nil {
		return s.load(ctx, req)
	}

	loader := func(ctx context.Context) (RawData, error) { return s.load(ctx, req) }
	if req.ForceRefresh {
		return s.cache.Refresh(ctx, req.Race.Key, loader)
	}
	return s.cache.GetOrLoad(ctx, req.Race.Key, loader)
}

func (s *LoaderService) load(ctx context.Context, req LoadRequest) (RawData, error) {
	def := req.Race
	out := RawData{Race: def, Profiles: map[string]rider.Profile{}}

	var (
		fantasyErr, startlistErr, profileErr, stageErr error
		stages                                         []race.Stage
	)
	var wg conc.WaitGroup
	wg.Go(func() {
		out.FantasyRiders, fantasyErr = s.fantasyRepo.ListByRace(ctx, def.Key)
	})
	wg.Go(func() {
		out.StartlistRiders, startlistErr = s.startlistRepo.ListByRace(ctx, def.Key)
	})
	wg.Go(func() {
		var profiles map[string]rider.Profile
		profiles, profileErr = s.profileRepo.ListAll(ctx)
		if profiles != nil {
			out.Profiles = profiles
		}
	})
	wg.Go(func() {
		stages, stageErr = s.stageRepo.ListStages(ctx, def.Key)
	})
	wg.Wait()

	if fantasyErr != nil {
		return RawData{}, fmt.Errorf("load fantasy riders race=%s: %w", def.Key, fantasyErr)
	}
	out.FantasyRiders = s.validRiders(ctx, def.Key, out.FantasyRiders, &out.Warnings)
	if startlistErr != nil {
		out.StartlistRiders = nil
		out.Warnings = append(out.Warnings, s.warn(ctx, "startlist unavailable", def.Key, startlistErr))
	}
	if profileErr != nil {
		out.Warnings = append(out.Warnings, s.warn(ctx, "rider profile cache unavailable", def.Key, profileErr))
	}
	if stageErr != nil {
		stages = nil
		out.Warnings = append(out.Warnings, s.warn(ctx, "race stages unavailable", def.Key, stageErr))
	}
	out.RaceData = race.Data{Stages: stages, FetchedAt: s.now().UTC()}

	if s.cfg.FetchMissing && s.provider != nil {
		s.fetchMissing(ctx, req, &out)
	}
	return out, nil
}

func (s *LoaderService) validRiders(ctx context.Context, raceKey string, riders []rider.FantasyRider, warnings *[]string) []rider.FantasyRider {
	out := make([]rider.FantasyRider, 0, len(riders))
	for _, item := range riders {
		if err := item.Validate(); err != nil {
			*warnings = append(*warnings, s.warn(ctx, "skip fantasy rider", raceKey, fmt.Errorf("%q: %w", item.FullName, err)))
			continue
		}
		out = append(out, item)
	}
	return out
}

func (s *LoaderService) fetchMissing(ctx context.Context, req LoadRequest, out *RawData) {
	def := req.Race

	if len(out.StartlistRiders) == 0 || req.ForceRefresh {
		riders, err := s.provider.FetchStartlist(ctx, def)
		switch {
		case err != nil:
			out.Warnings = append(out.Warnings, s.warn(ctx, "fetch startlist failed", def.Key, err))
		case len(riders) > 0:
			out.StartlistRiders = riders
			if err := s.startlistRepo.ReplaceForRace(ctx, def.Key, riders); err != nil {
				out.Warnings = append(out.Warnings, s.warn(ctx, "store startlist failed", def.Key, err))
			}
		}
	}

	if len(out.RaceData.Stages) == 0 || req.ForceRefresh {
		stages, err := s.provider.FetchStages(ctx, def)
		switch {
		case err != nil:
			out.RaceData.Error = err.Error()
			out.Warnings = append(out.Warnings, s.warn(ctx, "fetch race stages failed", def.Key, err))
		case len(stages) > 0:
			out.RaceData.Stages = stages
			if err := s.stageRepo.UpsertStages(ctx, def.Key, stages); err != nil {
				out.Warnings = append(out.Warnings, s.warn(ctx, "store race stages failed", def.Key, err))
			}
		}
	}

	s.fetchProfiles(ctx, def.Key, missingProfileURLs(out.StartlistRiders, out.Profiles, req.ForceRefresh), out)
}

// fetchProfiles stores a failed fetch as a profile carrying Error so it is
// not retried on every run and analytics can ignore it.
func (s *LoaderService) fetchProfiles(ctx context.Context, raceKey string, urls []string, out *RawData) {
	if len(urls) == 0 {
		return
	}

	var (
		mu      sync.Mutex
		fetched = make(map[string]rider.Profile, len(urls))
		failed  int
	)
	p := pool.New().WithMaxGoroutines(s.cfg.ProviderWorkers)
	for _, riderURL := range urls {
		p.Go(func() {
			profile, err := s.provider.FetchRider(ctx, riderURL)
			if err != nil {
				profile = rider.Profile{RiderURL: riderURL, Error: err.Error()}
			}
			profile.RiderURL = riderURL
			if profile.FetchedAt.IsZero() {
				profile.FetchedAt = s.now().UTC()
			}
			if storeErr := s.profileRepo.Upsert(ctx, profile); storeErr != nil {
				s.logger.WarnContext(ctx, "store rider profile failed", "rider_url", riderURL, "error", storeErr)
			}

			mu.Lock()
			fetched[riderURL] = profile
			if err != nil {
				failed++
			}
			mu.Unlock()
		})
	}
	p.Wait()

	for riderURL, profile := range fetched {
		out.Profiles[riderURL] = profile
	}
	s.logger.InfoContext(ctx, "rider profiles fetched",
		"race_key", raceKey,
		"requested", len(urls),
		"failed", failed,
	)
	if failed > 0 {
		out.Warnings = append(out.Warnings, fmt.Sprintf("%d of %d rider profiles could not be fetched", failed, len(urls)))
	}
}

func (s *LoaderService) warn(ctx context.Context, msg, raceKey string, err error) string {
	s.logger.WarnContext(ctx, msg, "race_key", raceKey, "error", err)
	return fmt.Sprintf("%s: %v", msg, err)
}

func missingProfileURLs(startlist []rider.StartlistRider, profiles map[string]rider.Profile, all bool) []string {
	seen := make(map[string]struct{}, len(startlist))
	out := make([]string, 0, len(startlist))
	for _, item := range startlist {
		riderURL := strings.TrimSpace(item.RiderURL)
		if riderURL == "" {
			continue
		}
		if _, ok := seen[riderURL]; ok {
			continue
		}
		seen[riderURL] = struct{}{}
		if _, cached := profiles[riderURL]; cached && !all {
			continue
		}
		out = append(out, riderURL)
	}
	sort.Strings(out)
	return out
}
