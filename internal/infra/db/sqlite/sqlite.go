package sqlite

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/bryanwahyu/secscan-dashboard/internal/infra/db/sqlrepo"
)

var Dialect = sqlrepo.Dialect{
	Name:        "sqlite",
	Placeholder: sqlrepo.QuestionMark,
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS scan_results (
  id              TEXT PRIMARY KEY,
  created_at      TEXT NOT NULL,
  source_code     TEXT NOT NULL,
  static_json     TEXT,
  dependency_json TEXT,
  ai_json         TEXT,
  overall_score   REAL NOT NULL DEFAULT 0,
  status          TEXT NOT NULL,
  artifact_url    TEXT NOT NULL DEFAULT ''
)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_results_created ON scan_results(created_at)`,
	},
	Upsert: sqlrepo.ConflictUpsert,
}

// Open opens (and creates if missing) the database file at path. A path
// that already is a "file:" URI is used as is.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one writer at a time
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func NewScanRepository(db *sql.DB) *sqlrepo.Repository {
	return sqlrepo.New(db, Dialect)
}
