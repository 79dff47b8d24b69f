package postgres

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const maxTracedQueryLength = 512

var queryWhitespaceRegex = regexp.MustCompile(`\s+`)

type ConnConfig struct {
	URL                         string
	DisablePreparedBinaryResult bool
	MaxOpenConns                int
	MaxIdleConns                int
	ConnMaxLifetime             time.Duration
}

// Open connects through otelsql so every query becomes a span, and reports
// pool stats as OpenTelemetry metrics.
func Open(ctx context.Context, cfg ConnConfig) (*sqlx.DB, error) {
	dsn := NormalizeURL(cfg.URL, cfg.DisablePreparedBinaryResult)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(DatabaseName(dsn)),
		otelsql.WithQueryFormatter(formatQueryForTrace),
	)
	if err != nil {
		return nil, crerr.Wrap(err, "open postgres")
	}
	otelsql.ReportDBStatsMetrics(db.DB)

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, crerr.Wrap(err, "ping postgres")
	}
	return db, nil
}

// NormalizeURL adds disable_prepared_binary_result=yes when requested, which
// poolers in transaction mode need. An explicit value in raw wins.
func NormalizeURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

// DatabaseName reads the database from a URL or key=value DSN.
func DatabaseName(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		if name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/")); name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		name, ok := strings.CutPrefix(token, "dbname=")
		if !ok {
			continue
		}
		if name = strings.Trim(strings.TrimSpace(name), `"'`); name != "" {
			return name
		}
	}

	return ""
}

func formatQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
