package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"github.com/bryanwahyu/secscan-dashboard/internal/infra/db/sqlrepo"
)

var Dialect = sqlrepo.Dialect{
	Name:        "postgres",
	Placeholder: sqlrepo.Dollar,
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS scan_results (
  id              TEXT PRIMARY KEY,
  created_at      TEXT NOT NULL,
  source_code     TEXT NOT NULL,
  static_json     TEXT,
  dependency_json TEXT,
  ai_json         TEXT,
  overall_score   DOUBLE PRECISION NOT NULL DEFAULT 0,
  status          TEXT NOT NULL,
  artifact_url    TEXT NOT NULL DEFAULT ''
)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_results_created ON scan_results (created_at)`,
	},
	Upsert: sqlrepo.ConflictUpsert,
}

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func NewScanRepository(db *sql.DB) *sqlrepo.Repository {
	return sqlrepo.New(db, Dialect)
}
