package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/bryanwahyu/secscan-dashboard/internal/domain/ai"
)

func TestParseReport(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		findings int
		risk     float64
	}{
		{"plain", `{"findings":[{"severity":"high","description":"eval"}],"risk_score":7}`, 1, 7},
		{"fenced", "```json\n{\"findings\":[],\"risk_score\":\"3\"}\n```", 0, 3},
		{"prose around", "Here is the report:\n{\"risk_score\": 2, \"findings\": [{\"severity\":\"low\"},{\"severity\":\"medium\"}]}\nThanks.", 2, 2},
		{"no findings key", `{"risk_score": 1}`, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := ParseReport(tt.content)
			if err != nil {
				t.Fatalf("ParseReport: %v", err)
			}
			if len(rep.Findings) != tt.findings || rep.RiskScore.Float() != tt.risk {
				t.Fatalf("report = %+v", rep)
			}
			if rep.Findings == nil {
				t.Fatalf("findings is nil")
			}
		})
	}
}

func TestParseReportRejectsGarbage(t *testing.T) {
	for _, content := range []string{"", "I cannot help with that.", `{"risk_score": "very high"}`} {
		if _, err := ParseReport(content); !errors.Is(err, ai.ErrBadResponse) {
			t.Errorf("ParseReport(%q) err = %v, want ErrBadResponse", content, err)
		}
	}
}

func TestPrompts(t *testing.T) {
	if !strings.Contains(SystemPrompt(), `"critical_issues_count"`) {
		t.Fatalf("system prompt lacks the schema")
	}
	if !strings.Contains(UserPrompt("import os"), "import os") {
		t.Fatalf("user prompt lacks the code")
	}
}
