package heuristic

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/bryanwahyu/secscan-dashboard/internal/domain/analysis"
)

// MaxFindings caps one report.
const MaxFindings = 20

type detector struct {
	re             *regexp.Regexp
	severity       string
	category       string
	issueType      string
	description    string
	recommendation string
	cwe            string
}

// Secret and dangerous-call patterns, checked line by line.
var detectors = []detector{
	{regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`), "high", "security", "Private key material committed",
		"The source embeds private key material.", "Remove private keys from source; load them from a secret manager and rotate the affected keys.", "CWE-321"},
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`), "high", "security", "AWS access key exposed",
		"An AWS access key id is hardcoded.", "Revoke the key and obtain credentials through IAM roles or a secret manager.", "CWE-798"},
	{regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{20,}|github_pat_[A-Za-z0-9_]{20,}`), "high", "security", "GitHub token exposed",
		"A GitHub token is hardcoded.", "Revoke the token and inject it at runtime from CI secrets.", "CWE-798"},
	{regexp.MustCompile(`(?i)sk-[a-z0-9\-_]{20,}`), "high", "security", "API secret key exposed",
		"A provider secret key is hardcoded.", "Rotate the key and read it from the environment.", "CWE-798"},
	{regexp.MustCompile(`(?i)(api[_-]?key|client[_-]?secret|secret|token|password)\s*[:=]\s*["'][^\s"']{8,}["']`), "high", "security", "Hardcoded credential",
		"A credential literal is assigned in code.", "Do not hardcode secrets. Use environment variables or a secret manager.", "CWE-798"},
	{regexp.MustCompile(`://[^\s/:@]+:[^\s/@]+@`), "medium", "security", "Credentials embedded in URL",
		"A URL carries a username and password.", "Strip credentials from URLs; pass them via configuration.", "CWE-522"},
	{regexp.MustCompile(`\b(eval|exec)\s*\(`), "high", "security", "Dynamic code execution",
		"eval/exec runs arbitrary code when fed user input.", "Avoid eval/exec; parse data with ast.literal_eval or a real parser.", "CWE-95"},
	{regexp.MustCompile(`subprocess\.\w+\([^)]*shell\s*=\s*True|os\.system\s*\(|os\.popen\s*\(`), "high", "security", "Command injection",
		"A shell command is built from a string.", "Pass an argument list to subprocess without shell=True and validate inputs.", "CWE-78"},
	{regexp.MustCompile(`(?i)(execute|executemany)\s*\(\s*(f["']|["'][^"']*["']\s*(%|\+|\.format))`), "high", "security", "SQL injection",
		"A SQL statement is assembled with string formatting.", "Use parameterized queries.", "CWE-89"},
	{regexp.MustCompile(`\bpickle\.loads?\s*\(|\byaml\.load\s*\(`), "medium", "security", "Unsafe deserialization",
		"Deserializing untrusted data can execute code.", "Use json or yaml.safe_load for untrusted input.", "CWE-502"},
	{regexp.MustCompile(`(?i)hashlib\.(md5|sha1)\s*\(`), "medium", "security", "Weak hash algorithm",
		"MD5/SHA-1 are unsuitable for security purposes.", "Use SHA-256 or a password hash such as bcrypt or argon2.", "CWE-328"},
	{regexp.MustCompile(`verify\s*=\s*False`), "medium", "security", "TLS verification disabled",
		"Certificate verification is turned off.", "Keep verify=True and configure a trusted CA bundle.", "CWE-295"},
	{regexp.MustCompile(`(?i)debug\s*=\s*True`), "low", "quality", "Debug mode enabled",
		"Debug mode exposes internals in production.", "Drive debug from configuration and disable it in production.", "CWE-489"},
	{regexp.MustCompile(`except\s*:\s*(pass)?\s*$`), "low", "quality", "Bare except",
		"A bare except swallows every error.", "Catch specific exceptions and log them.", "CWE-396"},
	{regexp.MustCompile(`(?i)http://[^\s"']*api`), "low", "security", "Insecure HTTP reference",
		"An API is called over plain HTTP.", "Use HTTPS for all API endpoints.", "CWE-319"},
}

// Detector is an offline AI analyzer: a fixed rule set producing the same
// report shape as the model.
type Detector struct{}

func New() *Detector { return &Detector{} }

func (*Detector) Analyze(ctx context.Context, code string) (analysis.AIReport, error) {
	if err := ctx.Err(); err != nil {
		return analysis.AIReport{}, err
	}
	return Scan(code), nil
}

// Scan runs every detector over code.
func Scan(code string) analysis.AIReport {
	lines := strings.Split(code, "\n")
	findings := make([]analysis.Finding, 0, 8)
	var high, medium, low int

	for _, d := range detectors {
		var hits []int
		for i, line := range lines {
			if d.re.MatchString(line) {
				hits = append(hits, i+1)
			}
		}
		if len(hits) == 0 {
			continue
		}
		nums, _ := json.Marshal(hits)
		findings = append(findings, analysis.Finding{
			Severity:       d.severity,
			Category:       d.category,
			IssueType:      d.issueType,
			LineNumbers:    nums,
			Description:    d.description,
			Recommendation: d.recommendation,
			CWEID:          d.cwe,
		})
		switch d.severity {
		case "high":
			high++
		case "medium":
			medium++
		default:
			low++
		}
		if len(findings) == MaxFindings {
			break
		}
	}

	risk := high*3 + medium*2 + low
	if risk > 10 {
		risk = 10
	}
	return analysis.AIReport{
		Findings:            findings,
		RiskScore:           analysis.Number(risk),
		CriticalIssuesCount: analysis.Number(high),
		ScanMetadata:        analysis.ScanMetadata{Language: detectLanguage(code), LibrariesAnalyzed: imports(lines)},
	}
}

var importRe = regexp.MustCompile(`^\s*(?:from\s+([A-Za-z_][\w]*)|import\s+([A-Za-z_][\w]*))`)

func imports(lines []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, l := range lines {
		m := importRe.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func detectLanguage(code string) string {
	switch {
	case strings.Contains(code, "def ") || strings.Contains(code, "import "):
		return "python"
	case strings.Contains(code, "package ") && strings.Contains(code, "func "):
		return "go"
	case strings.Contains(code, "function ") || strings.Contains(code, "=>"):
		return "javascript"
	}
	return "unknown"
}
