package ai

import (
	"context"

	"github.com/bryanwahyu/secscan-dashboard/internal/domain/ai"
	"github.com/bryanwahyu/secscan-dashboard/internal/domain/analysis"
)

// Service exposes an in-process model client as the gateway's AI analyzer.
type Service struct {
	client ai.Client
}

func NewService(client ai.Client) *Service {
	return &Service{client: client}
}

func (s *Service) AI(ctx context.Context, code string) (analysis.AIAnalysis, error) {
	report, err := s.client.Analyze(ctx, code)
	if err != nil {
		return analysis.AIAnalysis{}, err
	}
	return analysis.AIAnalysis{
		Status: string(analysis.StatusSuccess),
		Data:   analysis.Some(report),
	}, nil
}
