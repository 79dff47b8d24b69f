package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
	qb "github.com/riskibarqy/fantasy-cycling/internal/platform/querybuilder"
)

type raceStageTableModel struct {
	RaceKey    string    `db:"race_key"`
	StageURL   string    `db:"stage_url"`
	StageOrder int       `db:"stage_order"`
	Stage      string    `db:"stage"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type RaceRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewRaceRepository(db *sqlx.DB) *RaceRepository {
	return &RaceRepository{db: db, now: time.Now}
}

func (r *RaceRepository) ListStages(ctx context.Context, key string) ([]race.Stage, error) {
	query, args, err := qb.Select("*").From("race_stages").
		Where(qb.Eq("race_key", raceKey(key))).
		OrderBy("stage_order", "stage_url").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select race stages query: %w", err)
	}

	var rows []raceStageTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select race stages race=%s: %w", key, err)
	}

	out := make([]race.Stage, 0, len(rows))
	for _, row := range rows {
		var stage race.Stage
		if err := decodeJSON(row.Stage, &stage); err != nil {
			return nil, fmt.Errorf("race stage url=%s: %w", row.StageURL, err)
		}
		stage.StageURL = row.StageURL
		out = append(out, stage)
	}
	return out, nil
}

// UpsertStages stores stages in the given order; existing rows are replaced by stage URL.
func (r *RaceRepository) UpsertStages(ctx context.Context, key string, stages []race.Stage) error {
	if len(stages) == 0 {
		return nil
	}
	key = raceKey(key)
	now := r.now().UTC()

	insert := qb.InsertInto("race_stages")
	for i, stage := range stages {
		encoded, err := encodeJSON(stage)
		if err != nil {
			return fmt.Errorf("race stage url=%s: %w", stage.StageURL, err)
		}
		insert.Model(raceStageTableModel{
			RaceKey:    key,
			StageURL:   stage.StageURL,
			StageOrder: i + 1,
			Stage:      string(encoded),
			UpdatedAt:  now,
		})
	}
	query, args, err := insert.
		OnConflict([]string{"race_key", "stage_url"}, "stage_order", "stage", "updated_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert race stages query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert race stages race=%s: %w", key, err)
	}
	return nil
}
