package mysql

import (
	"database/sql"

	"github.com/bryanwahyu/secscan-dashboard/internal/infra/db/sqlrepo"
)

var Dialect = sqlrepo.Dialect{
	Name:        "mysql",
	Placeholder: sqlrepo.QuestionMark,
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS scan_results (
  id              VARCHAR(64)   NOT NULL PRIMARY KEY,
  created_at      VARCHAR(40)   NOT NULL,
  source_code     MEDIUMTEXT    NOT NULL,
  static_json     LONGTEXT      NULL,
  dependency_json LONGTEXT      NULL,
  ai_json         LONGTEXT      NULL,
  overall_score   DOUBLE        NOT NULL DEFAULT 0,
  status          VARCHAR(16)   NOT NULL,
  artifact_url    VARCHAR(1024) NOT NULL DEFAULT '',
  INDEX idx_scan_results_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	},
	Upsert: `ON DUPLICATE KEY UPDATE
 static_json = VALUES(static_json),
 dependency_json = VALUES(dependency_json),
 ai_json = VALUES(ai_json),
 overall_score = VALUES(overall_score),
 status = VALUES(status),
 artifact_url = VALUES(artifact_url)`,
}

func NewScanRepository(db *sql.DB) *sqlrepo.Repository {
	return sqlrepo.New(db, Dialect)
}
