package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cycling/external/procyclingstats"
	"github.com/riskibarqy/fantasy-cycling/internal/config"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/rider"
	"github.com/riskibarqy/fantasy-cycling/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-cycling/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-cycling/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-cycling/internal/interfaces/httpapi"
	"github.com/riskibarqy/fantasy-cycling/internal/observability"
	basecache "github.com/riskibarqy/fantasy-cycling/internal/platform/cache"
	"github.com/riskibarqy/fantasy-cycling/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cycling/internal/usecase"
)

const (
	dbConnectTimeout  = 10 * time.Second
	dbMaxOpenConns    = 10
	dbMaxIdleConns    = 5
	dbConnMaxLifetime = 30 * time.Minute
)

// App owns the HTTP server and the background pieces built from Config.
type App struct {
	Server    *http.Server
	Scheduler *Scheduler
	Queries   *usecase.RaceQueryService

	db     *sqlx.DB
	logger *logging.Logger
}

type repositories struct {
	fantasy   rider.FantasyRepository
	startlist rider.StartlistRepository
	profiles  rider.ProfileRepository
	stages    race.Repository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger}
	repos, err := a.buildRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var provider usecase.RiderDataProvider
	if cfg.PCSEnabled {
		provider = procyclingstats.NewClient(procyclingstats.ClientConfig{
			BaseURL:        cfg.PCSBaseURL,
			Timeout:        cfg.PCSTimeout,
			MaxRetries:     cfg.PCSMaxRetries,
			Logger:         logger.With("component", "procyclingstats"),
			CircuitBreaker: cfg.PCSCircuitBreaker,
		})
	}

	var metrics *observability.Metrics
	var observer usecase.PipelineObserver
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
		observer = metrics
	}

	var sources *basecache.Store[usecase.RawData]
	if cfg.CacheEnabled {
		sources = basecache.NewStore[usecase.RawData](cfg.CacheTTL)
	}
	loader := usecase.NewLoaderService(
		repos.fantasy,
		repos.startlist,
		repos.profiles,
		repos.stages,
		provider,
		sources,
		usecase.LoaderConfig{FetchMissing: cfg.PCSEnabled, ProviderWorkers: cfg.PCSWorkers},
		logger,
	)
	pipeline := usecase.NewPipelineService(loader, usecase.NewMatcherFactory(cfg.MatchWorkers), observer, logger)
	a.Queries = usecase.NewRaceQueryService(
		pipeline,
		basecache.NewStore[usecase.DataLoadResult](cfg.CacheTTL),
		pipelineDefaults(cfg),
		logger,
	)

	if cfg.PipelineRefreshSchedule != "" {
		if a.Scheduler, err = NewScheduler(cfg.PipelineRefreshSchedule, cfg.RaceKey, a.Queries, logger); err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
	}

	handler := httpapi.NewHandler(a.Queries, logger)
	var exporter httpapi.MetricsExporter
	if metrics != nil {
		exporter = metrics
	}
	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, exporter),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return a, nil
}

// Close stops the scheduler and releases the database.
func (a *App) Close(ctx context.Context) error {
	var errs error
	if a.Scheduler != nil {
		if err := a.Scheduler.Stop(ctx); err != nil {
			errs = crerr.CombineErrors(errs, crerr.Wrap(err, "stop scheduler"))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = crerr.CombineErrors(errs, crerr.Wrap(err, "close database"))
		}
	}
	return errs
}

func (a *App) buildRepositories(ctx context.Context, cfg config.Config) (repositories, error) {
	var repos repositories
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		connectCtx, cancel := context.WithTimeout(ctx, dbConnectTimeout)
		defer cancel()

		db, err := postgres.Open(connectCtx, postgres.ConnConfig{
			URL:                         cfg.DBURL,
			DisablePreparedBinaryResult: cfg.DBDisablePreparedBinary,
			MaxOpenConns:                dbMaxOpenConns,
			MaxIdleConns:                dbMaxIdleConns,
			ConnMaxLifetime:             dbConnMaxLifetime,
		})
		if err != nil {
			return repositories{}, err
		}
		a.db = db
		repos = repositories{
			fantasy:   postgres.NewFantasyRepository(db),
			startlist: postgres.NewStartlistRepository(db),
			profiles:  postgres.NewProfileRepository(db),
			stages:    postgres.NewRaceRepository(db),
		}
		a.logger.Info("storage ready", "driver", cfg.StorageDriver, "database", postgres.DatabaseName(cfg.DBURL))
	default:
		dataset := memory.SeedDataset()
		if cfg.FantasyDataFile != "" {
			loaded, err := memory.LoadDataset(cfg.FantasyDataFile, cfg.RaceKey)
			if err != nil {
				return repositories{}, err
			}
			dataset = loaded
		}
		mem := memory.NewRepositories(dataset)
		repos = repositories{
			fantasy:   mem.Fantasy,
			startlist: mem.Startlist,
			profiles:  mem.Profiles,
			stages:    mem.Race,
		}
		a.logger.Info("storage ready", "driver", config.StorageMemory, "races", len(dataset.Races), "data_file", cfg.FantasyDataFile)
	}

	if !cfg.CacheEnabled || cfg.StorageDriver != config.StoragePostgres {
		return repos, nil
	}

	return repositories{
		fantasy:   cache.NewFantasyRepository(repos.fantasy, basecache.NewStore[[]rider.FantasyRider](cfg.CacheTTL)),
		startlist: cache.NewStartlistRepository(repos.startlist, basecache.NewStore[[]rider.StartlistRider](cfg.CacheTTL)),
		profiles:  cache.NewProfileRepository(repos.profiles, basecache.NewStore[map[string]rider.Profile](cfg.CacheTTL)),
		stages:    cache.NewRaceRepository(repos.stages, basecache.NewStore[[]race.Stage](cfg.CacheTTL)),
	}, nil
}

func pipelineDefaults(cfg config.Config) usecase.PipelineConfig {
	defaults := usecase.DefaultPipelineConfig(cfg.RaceKey)
	defaults.RaceYear = cfg.RaceYear
	defaults.FuzzyThreshold = cfg.MatchFuzzyThreshold
	defaults.RequireTeamMatch = cfg.MatchRequireTeam
	defaults.UseEnhancedAnalytics = cfg.AnalyticsEnhanced
	defaults.CalculateTrends = cfg.AnalyticsTrends
	return defaults
}
