package usecase_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/rider"
	racemock "github.com/riskibarqy/fantasy-cycling/internal/mocks/domain/race"
	ridermock "github.com/riskibarqy/fantasy-cycling/internal/mocks/domain/rider"
	usecasemock "github.com/riskibarqy/fantasy-cycling/internal/mocks/usecase"
	"github.com/riskibarqy/fantasy-cycling/internal/platform/cache"
	"github.com/riskibarqy/fantasy-cycling/internal/usecase"
)

type loaderMocks struct {
	fantasy   *ridermock.FantasyRepository
	startlist *ridermock.StartlistRepository
	profiles  *ridermock.ProfileRepository
	stages    *racemock.Repository
	provider  *usecasemock.RiderDataProvider
}

func newLoaderMocks(t *testing.T) loaderMocks {
	return loaderMocks{
		fantasy:   ridermock.NewFantasyRepository(t),
		startlist: ridermock.NewStartlistRepository(t),
		profiles:  ridermock.NewProfileRepository(t),
		stages:    racemock.NewRepository(t),
		provider:  usecasemock.NewRiderDataProvider(t),
	}
}

func (m loaderMocks) service(store *cache.Store[usecase.RawData], cfg usecase.LoaderConfig) *usecase.LoaderService {
	return usecase.NewLoaderService(m.fantasy, m.startlist, m.profiles, m.stages, m.provider, store, cfg, nil)
}

func tdfFemmes(t *testing.T) race.Definition {
	def, ok := race.Lookup(raceKey)
	if !ok {
		t.Fatalf("race %s is not registered", raceKey)
	}
	return def
}

var roster = []rider.FantasyRider{{FullName: "KOPECKY Lotte", FantasyName: "KOPECKY Lotte", Team: "Team A", Stars: 5}}

func TestLoaderService_Load_FantasyFailureIsFatal(t *testing.T) {
	t.Parallel()

	m := newLoaderMocks(t)
	m.fantasy.On("ListByRace", mock.Anything, raceKey).Return(nil, errors.New("roster unreadable")).Once()
	m.startlist.On("ListByRace", mock.Anything, raceKey).Return(nil, nil).Once()
	m.profiles.On("ListAll", mock.Anything).Return(nil, nil).Once()
	m.stages.On("ListStages", mock.Anything, raceKey).Return(nil, nil).Once()

	_, err := m.service(nil, usecase.LoaderConfig{}).Load(t.Context(), usecase.LoadRequest{Race: tdfFemmes(t)})
	if err == nil || !strings.Contains(err.Error(), "roster unreadable") {
		t.Fatalf("expected fantasy error, got %v", err)
	}
}

func TestLoaderService_Load_DegradesOptionalSources(t *testing.T) {
	t.Parallel()

	m := newLoaderMocks(t)
	invalid := rider.FantasyRider{Stars: 2}
	m.fantasy.On("ListByRace", mock.Anything, raceKey).Return(append([]rider.FantasyRider{invalid}, roster...), nil).Once()
	m.startlist.On("ListByRace", mock.Anything, raceKey).Return(nil, errors.New("table missing")).Once()
	m.profiles.On("ListAll", mock.Anything).Return(nil, errors.New("cache corrupt")).Once()
	m.stages.On("ListStages", mock.Anything, raceKey).Return([]race.Stage{{StageURL: "s1"}}, nil).Once()

	raw, err := m.service(nil, usecase.LoaderConfig{}).Load(t.Context(), usecase.LoadRequest{Race: tdfFemmes(t)})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(raw.FantasyRiders) != 1 || len(raw.StartlistRiders) != 0 || len(raw.RaceData.Stages) != 1 {
		t.Fatalf("unexpected raw data %+v", raw)
	}
	if raw.Profiles == nil || len(raw.Profiles) != 0 {
		t.Fatalf("expected empty non-nil profiles, got %v", raw.Profiles)
	}
	if len(raw.Warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %v", raw.Warnings)
	}
}

func TestLoaderService_Load_FetchesMissingFromProvider(t *testing.T) {
	t.Parallel()

	def := tdfFemmes(t)
	m := newLoaderMocks(t)
	fetchedStartlist := []rider.StartlistRider{
		{RiderName: "Lotte Kopecky", RiderURL: "rider/lotte-kopecky", TeamName: "Team A Pro"},
		{RiderName: "Lorena Wiebes", RiderURL: "rider/lorena-wiebes", TeamName: "Team A Pro"},
		{RiderName: "Demi Vollering", RiderURL: "rider/demi-vollering", TeamName: "FDJ Suez"},
	}
	cached := rider.Profile{RiderURL: "rider/demi-vollering", Name: "Demi Vollering", FetchedAt: time.Now()}

	m.fantasy.On("ListByRace", mock.Anything, raceKey).Return(roster, nil).Once()
	m.startlist.On("ListByRace", mock.Anything, raceKey).Return(nil, nil).Once()
	m.profiles.On("ListAll", mock.Anything).Return(map[string]rider.Profile{cached.RiderURL: cached}, nil).Once()
	m.stages.On("ListStages", mock.Anything, raceKey).Return([]race.Stage{{StageURL: "s1"}}, nil).Once()

	m.provider.On("FetchStartlist", mock.Anything, def).Return(fetchedStartlist, nil).Once()
	m.startlist.On("ReplaceForRace", mock.Anything, raceKey, fetchedStartlist).Return(nil).Once()
	m.provider.On("FetchRider", mock.Anything, "rider/lotte-kopecky").
		Return(rider.Profile{Name: "Lotte Kopecky"}, nil).Once()
	m.provider.On("FetchRider", mock.Anything, "rider/lorena-wiebes").
		Return(rider.Profile{}, errors.New("status=404")).Once()
	m.profiles.On("Upsert", mock.Anything, mock.MatchedBy(func(p rider.Profile) bool {
		return p.RiderURL == "rider/lotte-kopecky" && p.Usable()
	})).Return(nil).Once()
	m.profiles.On("Upsert", mock.Anything, mock.MatchedBy(func(p rider.Profile) bool {
		return p.RiderURL == "rider/lorena-wiebes" && !p.Usable()
	})).Return(nil).Once()

	raw, err := m.service(nil, usecase.LoaderConfig{FetchMissing: true, ProviderWorkers: 2}).
		Load(t.Context(), usecase.LoadRequest{Race: def})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(raw.StartlistRiders) != 3 {
		t.Fatalf("expected fetched startlist, got %d", len(raw.StartlistRiders))
	}
	if len(raw.Profiles) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(raw.Profiles))
	}
	if raw.Profiles["rider/lorena-wiebes"].Usable() {
		t.Fatalf("failed fetch must be stored with an error")
	}
	if raw.Profiles["rider/lotte-kopecky"].FetchedAt.IsZero() {
		t.Fatalf("expected fetch time to be stamped")
	}
	if len(raw.Warnings) != 1 {
		t.Fatalf("expected one warning for the failed profile, got %v", raw.Warnings)
	}
}

func TestLoaderService_Load_UsesCacheUnlessForced(t *testing.T) {
	t.Parallel()

	def := tdfFemmes(t)
	m := newLoaderMocks(t)
	m.fantasy.On("ListByRace", mock.Anything, raceKey).Return(roster, nil).Twice()
	m.startlist.On("ListByRace", mock.Anything, raceKey).Return(nil, nil).Twice()
	m.profiles.On("ListAll", mock.Anything).Return(nil, nil).Twice()
	m.stages.On("ListStages", mock.Anything, raceKey).Return(nil, nil).Twice()

	service := m.service(cache.NewStore[usecase.RawData](time.Hour), usecase.LoaderConfig{})
	for i := 0; i < 3; i++ {
		if _, err := service.Load(t.Context(), usecase.LoadRequest{Race: def}); err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
	}
	if _, err := service.Load(t.Context(), usecase.LoadRequest{Race: def, ForceRefresh: true}); err != nil {
		t.Fatalf("forced load: %v", err)
	}
}

func TestLoaderService_Load_RequiresRaceKey(t *testing.T) {
	t.Parallel()

	m := newLoaderMocks(t)
	_, err := m.service(nil, usecase.LoaderConfig{}).Load(t.Context(), usecase.LoadRequest{})
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
