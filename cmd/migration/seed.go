package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/riskibarqy/fantasy-cycling/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-cycling/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-cycling/internal/platform/logging"
)

// seed writes a JSON dataset into the database. Without a path argument it
// reads FANTASY_DATA_FILE and falls back to the built-in dataset.
func seed(ctx context.Context, dbURL string, disableBinary bool, args []string, logger *logging.Logger) error {
	path := strings.TrimSpace(os.Getenv("FANTASY_DATA_FILE"))
	if len(args) > 0 {
		path = strings.TrimSpace(args[0])
	}
	defaultRace := strings.ToUpper(strings.TrimSpace(os.Getenv("RACE_KEY")))
	if defaultRace == "" {
		defaultRace = memory.RaceKeyTDFFemmes2025
	}

	dataset := memory.SeedDataset()
	if path != "" {
		loaded, err := memory.LoadDataset(path, defaultRace)
		if err != nil {
			return err
		}
		dataset = loaded
	}

	db, err := postgres.Open(ctx, postgres.ConnConfig{URL: dbURL, DisablePreparedBinaryResult: disableBinary})
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	fantasy := postgres.NewFantasyRepository(db)
	startlists := postgres.NewStartlistRepository(db)
	stages := postgres.NewRaceRepository(db)
	profiles := postgres.NewProfileRepository(db)

	for key, item := range dataset.Races {
		if err := fantasy.ReplaceForRace(ctx, key, item.FantasyRiders); err != nil {
			return fmt.Errorf("seed race=%s: %w", key, err)
		}
		if len(item.Startlist) > 0 {
			if err := startlists.ReplaceForRace(ctx, key, item.Startlist); err != nil {
				return fmt.Errorf("seed race=%s: %w", key, err)
			}
		}
		if len(item.Stages) > 0 {
			if err := stages.UpsertStages(ctx, key, item.Stages); err != nil {
				return fmt.Errorf("seed race=%s: %w", key, err)
			}
		}
		logger.Info("race seeded",
			"race_key", key,
			"fantasy_riders", len(item.FantasyRiders),
			"startlist", len(item.Startlist),
			"stages", len(item.Stages),
		)
	}
	for _, profile := range dataset.Profiles {
		if err := profiles.Upsert(ctx, profile); err != nil {
			return fmt.Errorf("seed profiles: %w", err)
		}
	}

	logger.Info("dataset seeded", "source", path, "races", len(dataset.Races), "profiles", len(dataset.Profiles))
	return nil
}
