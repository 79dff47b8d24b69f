package postgres

import (
	"context"
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
)

func raceKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// withTx runs fn in a transaction and commits when fn succeeds.
func withTx(ctx context.Context, db *sqlx.DB, name string, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx %s: %w", name, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx %s: %w", name, err)
	}
	return nil
}

func encodeJSON(value any) ([]byte, error) {
	encoded, err := sonic.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode jsonb: %w", err)
	}
	return encoded, nil
}

func decodeJSON(raw string, target any) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if err := sonic.UnmarshalString(raw, target); err != nil {
		return fmt.Errorf("decode jsonb: %w", err)
	}
	return nil
}
