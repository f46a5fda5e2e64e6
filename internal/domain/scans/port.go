package scans

import (
	"context"

	"github.com/bryanwahyu/secscan-dashboard/internal/domain/analysis"
)

// Analyzer ports. Each returns the section value, or an error that the
// gateway turns into the section's error form.
type StaticAnalyzer interface {
	Static(ctx context.Context, code string) (analysis.StaticAnalysis, error)
}

type DependencyAnalyzer interface {
	Dependencies(ctx context.Context, code string) (analysis.DependencyAnalysis, error)
}

type AIAnalyzer interface {
	AI(ctx context.Context, code string) (analysis.AIAnalysis, error)
}

// Prober reports whether a backing service is reachable.
type Prober interface {
	Health(ctx context.Context) error
}

// Repository port (persistence of scans)
type Repository interface {
	Save(ctx context.Context, s *Scan) error
	Recent(ctx context.Context, limit int) ([]*Scan, error)
	Get(ctx context.Context, id ScanID) (*Scan, error)
	Ping(ctx context.Context) error
}

// ArchiveStore keeps a copy of each result document.
type ArchiveStore interface {
	PutJSON(ctx context.Context, key string, data []byte) (string, error)
}
