package analysis

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Status of a combined analysis.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusError   Status = "error"
)

// Issue is one finding from the static analyzer (pylint, pyflakes or bandit).
type Issue struct {
	Type       string `json:"type"`
	Line       int    `json:"line,omitempty"`
	Message    string `json:"message"`
	Symbol     string `json:"symbol,omitempty"`
	Severity   string `json:"severity,omitempty"`
	Confidence string `json:"confidence,omitempty"`
	TestID     string `json:"test_id,omitempty"`
}

type StaticIssues struct {
	CodeQuality []Issue `json:"code_quality"`
	Syntax      []Issue `json:"syntax"`
	Security    []Issue `json:"security"`
}

type StaticSummary struct {
	TotalIssues       int `json:"total_issues"`
	SecurityIssues    int `json:"security_issues"`
	CodeQualityIssues int `json:"code_quality_issues"`
	SyntaxIssues      int `json:"syntax_issues"`
}

type StaticReport struct {
	Status  string                `json:"status,omitempty"`
	Message string                `json:"message,omitempty"`
	Issues  StaticIssues          `json:"issues"`
	Summary Option[StaticSummary] `json:"summary,omitzero"`
}

// StaticAnalysis is the static analyzer envelope. The section only counts
// as present on the dashboard when Report is set.
type StaticAnalysis struct {
	Status string               `json:"status,omitempty"`
	Error  string               `json:"error,omitempty"`
	Report Option[StaticReport] `json:"static_analyzer,omitzero"`
}

type Vulnerability struct {
	ID               string   `json:"id"`
	Summary          string   `json:"summary"`
	Severity         string   `json:"severity"`
	AffectedVersions []string `json:"affected_versions"`
	FixedIn          []string `json:"fixed_in"`
}

type VulnerablePackage struct {
	Package              string          `json:"package"`
	TotalVulnerabilities int             `json:"total_vulnerabilities"`
	Vulnerabilities      []Vulnerability `json:"vulnerabilities"`
	Error                string          `json:"error,omitempty"`
}

type DependencyAnalysis struct {
	Status                    string              `json:"status,omitempty"`
	Error                     string              `json:"error,omitempty"`
	Message                   string              `json:"message,omitempty"`
	ScanTimestamp             string              `json:"scan_timestamp,omitempty"`
	TotalPackagesScanned      int                 `json:"total_packages_scanned"`
	TotalVulnerabilitiesFound int                 `json:"total_vulnerabilities_found"`
	VulnerablePackages        []VulnerablePackage `json:"vulnerable_packages"`
}

type Finding struct {
	Severity       string          `json:"severity"`
	Category       string          `json:"category,omitempty"`
	IssueType      string          `json:"issue_type,omitempty"`
	LineNumbers    json.RawMessage `json:"line_numbers,omitempty"`
	Description    string          `json:"description"`
	Impact         string          `json:"impact,omitempty"`
	Recommendation string          `json:"recommendation,omitempty"`
	References     []string        `json:"references,omitempty"`
	CWEID          string          `json:"cwe_id,omitempty"`
}

// Lines renders the model-provided line numbers for display.
func (f Finding) Lines() string {
	if len(f.LineNumbers) == 0 || string(f.LineNumbers) == "null" {
		return ""
	}
	var nums []int
	if err := json.Unmarshal(f.LineNumbers, &nums); err == nil {
		parts := make([]string, len(nums))
		for i, n := range nums {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ", ")
	}
	return string(f.LineNumbers)
}

type ScanMetadata struct {
	FrameworkDetected string   `json:"framework_detected,omitempty"`
	Language          string   `json:"language,omitempty"`
	LibrariesAnalyzed []string `json:"libraries_analyzed,omitempty"`
}

type AIReport struct {
	Findings            []Finding    `json:"findings"`
	RiskScore           Number       `json:"risk_score"`
	CriticalIssuesCount Number       `json:"critical_issues_count"`
	ScanMetadata        ScanMetadata `json:"scan_metadata"`
}

// AIAnalysis is the AI analyzer envelope; the report lives under "data".
type AIAnalysis struct {
	Status string           `json:"status,omitempty"`
	Error  string           `json:"error,omitempty"`
	Data   Option[AIReport] `json:"data,omitzero"`
}

// Result is the AnalysisResult returned by POST /analyze and kept in the
// session verbatim.
type Result struct {
	Static       Option[StaticAnalysis]     `json:"static_analysis,omitzero"`
	Dependency   Option[DependencyAnalysis] `json:"dependency_analysis,omitzero"`
	AI           Option[AIAnalysis]         `json:"ai_analysis,omitzero"`
	OverallScore Option[Number]             `json:"overall_security_score,omitzero"`
	Status       Status                     `json:"status,omitempty"`
	ScanID       string                     `json:"scan_id,omitempty"`
	Error        string                     `json:"error,omitempty"`
}

// StaticIssueCount reports the static issue total, if the section is present.
func (r Result) StaticIssueCount() (int, bool) {
	st, ok := r.Static.Get()
	if !ok {
		return 0, false
	}
	rep, ok := st.Report.Get()
	if !ok {
		return 0, false
	}
	sum, ok := rep.Summary.Get()
	if !ok {
		return 0, true
	}
	return sum.TotalIssues, true
}

func (r Result) DependencyIssueCount() (int, bool) {
	dep, ok := r.Dependency.Get()
	if !ok {
		return 0, false
	}
	return dep.TotalVulnerabilitiesFound, true
}

// AIIssues reports the number of AI findings and the model risk score.
func (r Result) AIIssues() (count int, risk float64, ok bool) {
	ai, ok := r.AI.Get()
	if !ok {
		return 0, 0, false
	}
	data, ok := ai.Data.Get()
	if !ok {
		return 0, 0, false
	}
	return len(data.Findings), data.RiskScore.Float(), true
}

// Decode parses and validates a serialized AnalysisResult.
func Decode(raw []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(raw, &r); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := r.Validate(); err != nil {
		return Result{}, err
	}
	return r, nil
}
