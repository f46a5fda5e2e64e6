package scans

import (
	"time"

	"github.com/bryanwahyu/secscan-dashboard/internal/domain/analysis"
)

type ScanID string

// Scan is one persisted run of the analysis gateway.
type Scan struct {
	ID           ScanID                                       `json:"_id"`
	Timestamp    time.Time                                    `json:"timestamp"`
	SourceCode   string                                       `json:"source_code"`
	Static       analysis.Option[analysis.StaticAnalysis]     `json:"static_analysis,omitzero"`
	Dependency   analysis.Option[analysis.DependencyAnalysis] `json:"dependency_analysis,omitzero"`
	AI           analysis.Option[analysis.AIAnalysis]         `json:"ai_analysis,omitzero"`
	OverallScore float64                                      `json:"overall_security_score"`
	Status       analysis.Status                              `json:"status"`
	ArtifactURL  string                                       `json:"artifact_url,omitempty"`
}

// FromResult builds the record persisted for r.
func FromResult(id ScanID, at time.Time, code string, r analysis.Result) *Scan {
	s := &Scan{
		ID:         id,
		Timestamp:  at.UTC(),
		SourceCode: code,
		Static:     r.Static,
		Dependency: r.Dependency,
		AI:         r.AI,
		Status:     r.Status,
	}
	if v, ok := r.OverallScore.Get(); ok {
		s.OverallScore = v.Float()
	}
	return s
}

// Result is the AnalysisResult view of the stored scan.
func (s *Scan) Result() analysis.Result {
	return analysis.Result{
		Static:       s.Static,
		Dependency:   s.Dependency,
		AI:           s.AI,
		OverallScore: analysis.Some(analysis.Number(s.OverallScore)),
		Status:       s.Status,
		ScanID:       string(s.ID),
	}
}

// ArchiveKey is the object storage key for the scan's result document.
func (s *Scan) ArchiveKey() string {
	return "scans/" + s.Timestamp.UTC().Format("2006/01/02") + "/" + string(s.ID) + ".json"
}
