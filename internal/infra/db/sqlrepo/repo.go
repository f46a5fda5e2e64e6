// Package sqlrepo is the scan repository shared by the SQL drivers. Each
// driver package supplies a Dialect.
package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bryanwahyu/secscan-dashboard/internal/domain/analysis"
	domain "github.com/bryanwahyu/secscan-dashboard/internal/domain/scans"
)

// TimeLayout is fixed width so that text ordering is time ordering.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

const columns = "id, created_at, source_code, static_json, dependency_json, ai_json, overall_score, status, artifact_url"

// Dialect holds what differs between drivers.
type Dialect struct {
	Name string
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
	// Schema statements, run in order by EnsureSchema.
	Schema []string
	// Upsert is appended to the INSERT to update an existing row.
	Upsert string
}

func QuestionMark(int) string { return "?" }

func Dollar(n int) string { return fmt.Sprintf("$%d", n) }

// ConflictUpsert is the ON CONFLICT form understood by postgres and sqlite.
const ConflictUpsert = `ON CONFLICT (id) DO UPDATE SET
 static_json = excluded.static_json,
 dependency_json = excluded.dependency_json,
 ai_json = excluded.ai_json,
 overall_score = excluded.overall_score,
 status = excluded.status,
 artifact_url = excluded.artifact_url`

type Repository struct {
	db *sql.DB
	d  Dialect
}

func New(db *sql.DB, d Dialect) *Repository {
	return &Repository{db: db, d: d}
}

// EnsureSchema creates the scan_results table when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range r.d.Schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s schema: %w", r.d.Name, err)
		}
	}
	return nil
}

// Save inserts or replaces a scan.
func (r *Repository) Save(ctx context.Context, s *domain.Scan) error {
	sec, err := domain.EncodeSections(s)
	if err != nil {
		return err
	}
	ph := make([]string, 9)
	for i := range ph {
		ph[i] = r.d.Placeholder(i + 1)
	}
	q := "INSERT INTO scan_results (" + columns + ") VALUES (" + strings.Join(ph, ",") + ")\n" + r.d.Upsert

	at := s.Timestamp
	if at.IsZero() {
		at = time.Now()
	}
	status := string(s.Status)
	if status == "" {
		status = "-"
	}
	_, err = r.db.ExecContext(ctx, q,
		string(s.ID), at.UTC().Format(TimeLayout), s.SourceCode,
		nullable(sec.Static), nullable(sec.Dependency), nullable(sec.AI),
		s.OverallScore, status, s.ArtifactURL,
	)
	if err != nil {
		return fmt.Errorf("save scan %s: %w", s.ID, err)
	}
	return nil
}

// Recent returns up to limit scans, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]*domain.Scan, error) {
	q := "SELECT " + columns + " FROM scan_results ORDER BY created_at DESC, id DESC LIMIT " + r.d.Placeholder(1)
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Scan
	for rows.Next() {
		s, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get loads one scan by id.
func (r *Repository) Get(ctx context.Context, id domain.ScanID) (*domain.Scan, error) {
	q := "SELECT " + columns + " FROM scan_results WHERE id = " + r.d.Placeholder(1)
	rows, err := r.db.QueryContext(ctx, q, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, domain.ErrNotFound
	}
	return scanRow(rows)
}

func (r *Repository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}

func scanRow(rows *sql.Rows) (*domain.Scan, error) {
	var (
		s       domain.Scan
		id, at  string
		status  string
		sec     domain.Sections
		static  sql.NullString
		dep     sql.NullString
		ai      sql.NullString
		overall sql.NullFloat64
	)
	if err := rows.Scan(&id, &at, &s.SourceCode, &static, &dep, &ai, &overall, &status, &s.ArtifactURL); err != nil {
		return nil, err
	}
	ts, err := time.Parse(TimeLayout, at)
	if err != nil {
		return nil, fmt.Errorf("scan %s: bad created_at %q: %w", id, at, err)
	}
	s.ID = domain.ScanID(id)
	s.Timestamp = ts
	s.Status = analysis.Status(status)
	s.OverallScore = overall.Float64
	if static.Valid {
		sec.Static = []byte(static.String)
	}
	if dep.Valid {
		sec.Dependency = []byte(dep.String)
	}
	if ai.Valid {
		sec.AI = []byte(ai.String)
	}
	if err := domain.DecodeSections(sec, &s); err != nil {
		return nil, fmt.Errorf("scan %s: %w", id, err)
	}
	return &s, nil
}

func nullable(b []byte) sql.NullString {
	if b == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}
