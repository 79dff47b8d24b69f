package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/rider"
	qb "github.com/riskibarqy/fantasy-cycling/internal/platform/querybuilder"
)

type FantasyRepository struct {
	db *sqlx.DB
}

func NewFantasyRepository(db *sqlx.DB) *FantasyRepository {
	return &FantasyRepository{db: db}
}

func (r *FantasyRepository) ListByRace(ctx context.Context, key string) ([]rider.FantasyRider, error) {
	query, args, err := qb.Select("*").From("fantasy_riders").
		Where(qb.Eq("race_key", raceKey(key))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fantasy riders query: %w", err)
	}

	var rows []fantasyRiderTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fantasy riders race=%s: %w", key, err)
	}

	out := make([]rider.FantasyRider, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// ReplaceForRace swaps the whole roster of a race in one transaction.
func (r *FantasyRepository) ReplaceForRace(ctx context.Context, key string, riders []rider.FantasyRider) error {
	key = raceKey(key)
	return withTx(ctx, r.db, "replace fantasy roster", func(tx *sqlx.Tx) error {
		clearQuery, clearArgs, err := qb.DeleteFrom("fantasy_riders").Where(qb.Eq("race_key", key)).ToSQL()
		if err != nil {
			return fmt.Errorf("build clear fantasy riders query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
			return fmt.Errorf("clear fantasy riders race=%s: %w", key, err)
		}
		if len(riders) == 0 {
			return nil
		}

		insert := qb.InsertInto("fantasy_riders")
		for _, item := range riders {
			insert.Model(newFantasyRiderInsertModel(key, item))
		}
		query, args, err := insert.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert fantasy riders query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert fantasy riders race=%s: %w", key, err)
		}
		return nil
	})
}

type StartlistRepository struct {
	db *sqlx.DB
}

func NewStartlistRepository(db *sqlx.DB) *StartlistRepository {
	return &StartlistRepository{db: db}
}

func (r *StartlistRepository) ListByRace(ctx context.Context, key string) ([]rider.StartlistRider, error) {
	query, args, err := qb.Select("*").From("startlist_riders").
		Where(qb.Eq("race_key", raceKey(key))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select startlist query: %w", err)
	}

	var rows []startlistRiderTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select startlist race=%s: %w", key, err)
	}

	out := make([]rider.StartlistRider, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *StartlistRepository) ReplaceForRace(ctx context.Context, key string, riders []rider.StartlistRider) error {
	key = raceKey(key)
	return withTx(ctx, r.db, "replace startlist", func(tx *sqlx.Tx) error {
		clearQuery, clearArgs, err := qb.DeleteFrom("startlist_riders").Where(qb.Eq("race_key", key)).ToSQL()
		if err != nil {
			return fmt.Errorf("build clear startlist query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
			return fmt.Errorf("clear startlist race=%s: %w", key, err)
		}
		if len(riders) == 0 {
			return nil
		}

		insert := qb.InsertInto("startlist_riders")
		for _, item := range riders {
			insert.Model(newStartlistRiderInsertModel(key, item))
		}
		query, args, err := insert.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert startlist query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert startlist race=%s: %w", key, err)
		}
		return nil
	})
}

type ProfileRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db, now: time.Now}
}

func (r *ProfileRepository) ListAll(ctx context.Context) (map[string]rider.Profile, error) {
	query, args, err := qb.Select("*").From("rider_profiles").OrderBy("rider_url").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select rider profiles query: %w", err)
	}

	var rows []riderProfileTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select rider profiles: %w", err)
	}

	out := make(map[string]rider.Profile, len(rows))
	for _, row := range rows {
		var profile rider.Profile
		if err := decodeJSON(row.Payload, &profile); err != nil {
			return nil, fmt.Errorf("rider profile url=%s: %w", row.RiderURL, err)
		}
		profile.RiderURL = row.RiderURL
		profile.Error = row.FetchError.String
		profile.FetchedAt = row.FetchedAt
		out[row.RiderURL] = profile
	}
	return out, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, profile rider.Profile) error {
	payload, err := encodeJSON(profile)
	if err != nil {
		return fmt.Errorf("rider profile url=%s: %w", profile.RiderURL, err)
	}
	fetchedAt := profile.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = r.now().UTC()
	}

	query, args, err := qb.InsertInto("rider_profiles").
		Model(riderProfileUpsertModel{
			RiderURL:   profile.RiderURL,
			Payload:    string(payload),
			FetchError: nullString(profile.Error),
			FetchedAt:  fetchedAt,
			UpdatedAt:  r.now().UTC(),
		}).
		OnConflict([]string{"rider_url"}, "payload", "fetch_error", "fetched_at", "updated_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert rider profile query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert rider profile url=%s: %w", profile.RiderURL, err)
	}
	return nil
}
