package analysis

import (
	"fmt"
	"math"
)

// RiskLevel is the label derived from a 0-100 score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

const (
	LowRiskThreshold    = 80
	MediumRiskThreshold = 60

	ColorGreen  = "#4caf50"
	ColorOrange = "#ff9800"
	ColorRed    = "#f44336"
)

// Per-section penalties. They come from the upstream analyzers and are not
// derived from a common rule.
const (
	StaticIssuePenalty    = 3
	DependencyVulnPenalty = 5
	AIRiskPenalty         = 8

	StaticWeight     = 0.2
	DependencyWeight = 0.3
	AIWeight         = 0.5
)

func Clamp(s float64) float64 {
	return math.Max(0, math.Min(100, s))
}

func Risk(s float64) RiskLevel {
	switch {
	case s >= LowRiskThreshold:
		return RiskLow
	case s >= MediumRiskThreshold:
		return RiskMedium
	default:
		return RiskHigh
	}
}

func Color(s float64) string {
	switch {
	case s >= LowRiskThreshold:
		return ColorGreen
	case s >= MediumRiskThreshold:
		return ColorOrange
	default:
		return ColorRed
	}
}

func StaticScore(issues int) float64 {
	return Clamp(100 - float64(issues)*StaticIssuePenalty)
}

func DependencyScore(vulns int) float64 {
	return Clamp(100 - float64(vulns)*DependencyVulnPenalty)
}

func AIScore(risk float64) float64 {
	return Clamp(100 - risk*AIRiskPenalty)
}

// OverallScore weights the three section scores. An absent section scores
// as if it reported nothing.
func OverallScore(r Result) float64 {
	static, _ := r.StaticIssueCount()
	dep, _ := r.DependencyIssueCount()
	_, risk, _ := r.AIIssues()

	overall := StaticScore(static)*StaticWeight +
		DependencyScore(dep)*DependencyWeight +
		AIScore(risk)*AIWeight
	return math.Round(overall*100) / 100
}

// CriticalIssues counts the critical findings across sections. Each
// analyzer spells severity its own way and is matched as-is.
func CriticalIssues(r Result) int {
	n := 0
	if st, ok := r.Static.Get(); ok {
		if rep, ok := st.Report.Get(); ok {
			for _, is := range rep.Issues.Security {
				if is.Severity == "HIGH" {
					n++
				}
			}
		}
	}
	if dep, ok := r.Dependency.Get(); ok {
		for _, pkg := range dep.VulnerablePackages {
			for _, v := range pkg.Vulnerabilities {
				if v.Severity == "CRITICAL" {
					n++
				}
			}
		}
	}
	if ai, ok := r.AI.Get(); ok {
		if data, ok := ai.Data.Get(); ok {
			for _, f := range data.Findings {
				if f.Severity == "high" {
					n++
				}
			}
		}
	}
	return n
}

// Validate rejects values that cannot be drawn.
func (r Result) Validate() error {
	if s, ok := r.OverallScore.Get(); ok && !finite(s.Float()) {
		return fmt.Errorf("%w: overall_security_score is not finite", ErrMalformed)
	}
	if n, ok := r.StaticIssueCount(); ok && n < 0 {
		return fmt.Errorf("%w: negative static issue count", ErrMalformed)
	}
	if n, ok := r.DependencyIssueCount(); ok && n < 0 {
		return fmt.Errorf("%w: negative vulnerability count", ErrMalformed)
	}
	if _, risk, ok := r.AIIssues(); ok && !finite(risk) {
		return fmt.Errorf("%w: risk_score is not finite", ErrMalformed)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
