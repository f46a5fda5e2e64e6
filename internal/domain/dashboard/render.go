package dashboard

import (
	"errors"
	"fmt"

	"github.com/bryanwahyu/secscan-dashboard/internal/domain/analysis"
)

const RenderFailedAlert = "Error processing analysis results. Please try again."

// PayloadError is an {error} payload returned in place of a result.
type PayloadError struct {
	Message string
}

func (e *PayloadError) Error() string { return "analysis error: " + e.Message }

// Render applies r on top of base. Sections missing from r leave the
// matching widgets untouched; the total and critical counters are always
// recomputed.
func Render(base View, r analysis.Result) (View, error) {
	if r.Error != "" {
		return base, &PayloadError{Message: r.Error}
	}
	if err := r.Validate(); err != nil {
		return base, err
	}

	v := base
	v.HasResult = true

	if s, ok := r.OverallScore.Get(); ok {
		v.Overall = NewGauge(s.Float())
		v.RiskLevel = analysis.Risk(s.Float())
	}

	total := 0
	if n, ok := r.StaticIssueCount(); ok {
		total += n
		v.Static = NewGauge(analysis.StaticScore(n))
		v.Counters.Static = n
	}
	if n, ok := r.DependencyIssueCount(); ok {
		total += n
		v.Dependency = NewGauge(analysis.DependencyScore(n))
		v.Counters.Dependency = n
	}
	if n, risk, ok := r.AIIssues(); ok {
		total += n
		v.AI = NewGauge(analysis.AIScore(risk))
		v.Counters.AI = n
	}

	v.Counters.Total = total
	v.Counters.Critical = analysis.CriticalIssues(r)
	return v, nil
}

// RenderJSON decodes a stored result and renders it on top of base.
func RenderJSON(base View, raw []byte) (View, error) {
	r, err := analysis.Decode(raw)
	if err != nil {
		return base, err
	}
	return Render(base, r)
}

// AlertFor is the message shown to the user for err.
func AlertFor(err error) string {
	var pe *PayloadError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &pe):
		return pe.Message
	case errors.Is(err, analysis.ErrNoCode):
		return "Please enter some code to analyze."
	case errors.Is(err, analysis.ErrCodeTooLong):
		return fmt.Sprintf("Code exceeds maximum length of %d characters. Please reduce the code size.", analysis.CharLimit)
	case errors.Is(err, ErrBusy):
		return "An analysis is already in progress."
	case errors.Is(err, ErrNoResults):
		return "Please run a code analysis first."
	case errors.Is(err, ErrAnalysisFailed):
		return "Analysis failed"
	default:
		return RenderFailedAlert
	}
}

var (
	ErrBusy           = errors.New("analysis already in progress")
	ErrNoResults      = errors.New("no analysis results in session")
	ErrAnalysisFailed = errors.New("analysis failed")
)
