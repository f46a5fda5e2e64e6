package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bryanwahyu/secscan-dashboard/internal/domain/ai"
	"github.com/bryanwahyu/secscan-dashboard/internal/domain/analysis"
)

// Clean strips markdown fences and any prose around the outermost JSON
// object of a model reply.
func Clean(content string) string {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			// drop the language tag line ("```json")
			s = s[nl+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return strings.TrimSpace(s)
	}
	return s[start : end+1]
}

// ParseReport decodes a model reply into an AIReport.
func ParseReport(content string) (analysis.AIReport, error) {
	var rep analysis.AIReport
	if err := json.Unmarshal([]byte(Clean(content)), &rep); err != nil {
		return analysis.AIReport{}, fmt.Errorf("%w: %v", ai.ErrBadResponse, err)
	}
	if rep.Findings == nil {
		rep.Findings = []analysis.Finding{}
	}
	return rep, nil
}
