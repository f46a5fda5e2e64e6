package remote

import (
	"context"
	"net/http"

	"github.com/bryanwahyu/secscan-dashboard/internal/domain/analysis"
)

// StaticClient calls the static analyzer; the reply is
// {status, static_analyzer}.
type StaticClient struct{ *Client }

func NewStaticClient(baseURL string, hc *http.Client) *StaticClient {
	return &StaticClient{NewClient(baseURL, hc)}
}

func (c *StaticClient) Static(ctx context.Context, code string) (analysis.StaticAnalysis, error) {
	var out analysis.StaticAnalysis
	if err := c.analyze(ctx, code, &out); err != nil {
		return analysis.StaticAnalysis{}, err
	}
	return out, nil
}

// DependencyClient calls the dependency analyzer and unwraps the
// "dependency_analyzer" envelope.
type DependencyClient struct{ *Client }

func NewDependencyClient(baseURL string, hc *http.Client) *DependencyClient {
	return &DependencyClient{NewClient(baseURL, hc)}
}

func (c *DependencyClient) Dependencies(ctx context.Context, code string) (analysis.DependencyAnalysis, error) {
	var env struct {
		Status string                      `json:"status"`
		Report analysis.DependencyAnalysis `json:"dependency_analyzer"`
	}
	if err := c.analyze(ctx, code, &env); err != nil {
		return analysis.DependencyAnalysis{}, err
	}
	if env.Report.Status == "" {
		env.Report.Status = env.Status
	}
	return env.Report, nil
}

// AIClient calls the remote AI analyzer; the reply is {status, data}.
type AIClient struct{ *Client }

func NewAIClient(baseURL string, hc *http.Client) *AIClient {
	return &AIClient{NewClient(baseURL, hc)}
}

func (c *AIClient) AI(ctx context.Context, code string) (analysis.AIAnalysis, error) {
	var out analysis.AIAnalysis
	if err := c.analyze(ctx, code, &out); err != nil {
		return analysis.AIAnalysis{}, err
	}
	return out, nil
}
