package ai

import (
	"context"

	"github.com/bryanwahyu/secscan-dashboard/internal/domain/analysis"
)

// Client asks a language model to review source code.
type Client interface {
	Analyze(ctx context.Context, code string) (analysis.AIReport, error)
}
