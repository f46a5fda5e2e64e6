package analysis

import (
	"errors"
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-20, 0},
		{0, 0},
		{42.5, 42.5},
		{100, 100},
		{150, 100},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRiskThresholds(t *testing.T) {
	tests := []struct {
		score     float64
		wantRisk  RiskLevel
		wantColor string
	}{
		{100, RiskLow, ColorGreen},
		{80, RiskLow, ColorGreen},
		{79, RiskMedium, ColorOrange},
		{60, RiskMedium, ColorOrange},
		{59, RiskHigh, ColorRed},
		{0, RiskHigh, ColorRed},
	}
	for _, tt := range tests {
		if got := Risk(tt.score); got != tt.wantRisk {
			t.Errorf("Risk(%v) = %q, want %q", tt.score, got, tt.wantRisk)
		}
		if got := Color(tt.score); got != tt.wantColor {
			t.Errorf("Color(%v) = %q, want %q", tt.score, got, tt.wantColor)
		}
	}
}

func TestSectionScores(t *testing.T) {
	if got := StaticScore(5); got != 85 {
		t.Fatalf("StaticScore(5) = %v, want 85", got)
	}
	if got := StaticScore(40); got != 0 {
		t.Fatalf("StaticScore(40) = %v, want 0", got)
	}
	if got := DependencyScore(3); got != 85 {
		t.Fatalf("DependencyScore(3) = %v, want 85", got)
	}
	if got := StaticScore(math.MaxInt / 2); got != 0 {
		t.Fatalf("StaticScore(huge) = %v, want 0", got)
	}
	if got := DependencyScore(math.MaxInt / 2); got != 0 {
		t.Fatalf("DependencyScore(huge) = %v, want 0", got)
	}
	if got := AIScore(2.5); got != 80 {
		t.Fatalf("AIScore(2.5) = %v, want 80", got)
	}
	if got := AIScore(-1); got != 100 {
		t.Fatalf("AIScore(-1) = %v, want 100", got)
	}
}

func TestOverallScore(t *testing.T) {
	r := sampleResult()
	// static 100-3*4=88, dependency 100-5*2=90, ai 100-8*5=60
	want := 88*0.2 + 90*0.3 + 60*0.5
	if got := OverallScore(r); math.Abs(got-want) > 1e-9 {
		t.Fatalf("OverallScore = %v, want %v", got, want)
	}

	if got := OverallScore(Result{}); got != 100 {
		t.Fatalf("OverallScore(empty) = %v, want 100", got)
	}
}

func TestCriticalIssuesMatchesEachAnalyzersCasing(t *testing.T) {
	r := sampleResult()
	// one HIGH static security issue, one CRITICAL dependency, one "high" AI finding
	if got := CriticalIssues(r); got != 3 {
		t.Fatalf("CriticalIssues = %d, want 3", got)
	}
}

func TestValidateCode(t *testing.T) {
	exact := make([]rune, CharLimit)
	for i := range exact {
		exact[i] = 'x'
	}
	if err := ValidateCode(string(exact)); err != nil {
		t.Fatalf("ValidateCode(%d chars) = %v, want nil", CharLimit, err)
	}
	if err := ValidateCode(string(exact) + "y"); !errors.Is(err, ErrCodeTooLong) {
		t.Fatalf("ValidateCode(%d chars) = %v, want ErrCodeTooLong", CharLimit+1, err)
	}
	if err := ValidateCode(" \n\t "); !errors.Is(err, ErrNoCode) {
		t.Fatalf("ValidateCode(blank) = %v, want ErrNoCode", err)
	}

	// multi-byte characters count once
	wide := make([]rune, CharLimit)
	for i := range wide {
		wide[i] = 'é'
	}
	if err := ValidateCode(string(wide)); err != nil {
		t.Fatalf("ValidateCode(%d wide chars) = %v, want nil", CharLimit, err)
	}
}

func sampleResult() Result {
	return Result{
		Static: Some(StaticAnalysis{
			Status: "success",
			Report: Some(StaticReport{
				Issues: StaticIssues{
					Security: []Issue{
						{Type: "security", Severity: "HIGH"},
						{Type: "security", Severity: "MEDIUM"},
						{Type: "security", Severity: "high"},
					},
				},
				Summary: Some(StaticSummary{TotalIssues: 4}),
			}),
		}),
		Dependency: Some(DependencyAnalysis{
			TotalVulnerabilitiesFound: 2,
			VulnerablePackages: []VulnerablePackage{{
				Package: "requests",
				Vulnerabilities: []Vulnerability{
					{ID: "GHSA-1", Severity: "CRITICAL"},
					{ID: "GHSA-2", Severity: "critical"},
				},
			}},
		}),
		AI: Some(AIAnalysis{
			Status: "success",
			Data: Some(AIReport{
				Findings: []Finding{
					{Severity: "high"},
					{Severity: "HIGH"},
					{Severity: "low"},
				},
				RiskScore: 5,
			}),
		}),
		OverallScore: Some(Number(76.6)),
		Status:       StatusSuccess,
	}
}
