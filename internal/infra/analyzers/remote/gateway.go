package remote

import (
	"context"
	"errors"
	"net/http"

	"github.com/bryanwahyu/secscan-dashboard/internal/domain/analysis"
)

// Gateway is a remote analysis engine: another instance's POST /analyze.
type Gateway struct{ *Client }

func NewGateway(baseURL string, hc *http.Client) *Gateway {
	return &Gateway{NewClient(baseURL, hc)}
}

// Analyze returns the combined result. An {error} reply comes back as a
// result carrying Error rather than as a Go error.
func (g *Gateway) Analyze(ctx context.Context, code string) (analysis.Result, error) {
	var r analysis.Result
	err := g.analyze(ctx, code, &r)
	var se *StatusError
	if errors.As(err, &se) && se.Code < 500 && se.Message != "" {
		return analysis.Result{Error: se.Message, Status: analysis.StatusError}, nil
	}
	if err != nil {
		return analysis.Result{}, err
	}
	return r, nil
}
