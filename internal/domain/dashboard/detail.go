package dashboard

import (
	"fmt"

	"github.com/bryanwahyu/secscan-dashboard/internal/domain/analysis"
)

// DetailKind names a detail page, served at "/{kind}".
type DetailKind string

const (
	DetailStatic     DetailKind = "static-analysis"
	DetailDependency DetailKind = "dependency-analysis"
	DetailAI         DetailKind = "ai-analysis"
)

var DetailKinds = []DetailKind{DetailStatic, DetailDependency, DetailAI}

func ParseDetailKind(s string) (DetailKind, bool) {
	for _, k := range DetailKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

func (k DetailKind) Title() string {
	switch k {
	case DetailStatic:
		return "Static Analysis"
	case DetailDependency:
		return "Dependency Analysis"
	case DetailAI:
		return "AI Analysis"
	}
	return string(k)
}

// Detail is the data behind one detail page. Exactly one of the section
// pointers is set when the stored result carries that section.
type Detail struct {
	Kind         DetailKind
	Title        string
	OverallScore Gauge
	Theme        Theme

	Static     *analysis.StaticAnalysis
	Dependency *analysis.DependencyAnalysis
	AI         *analysis.AIAnalysis

	// Unwrapped optional parts, for the templates.
	StaticReport  *analysis.StaticReport
	StaticSummary *analysis.StaticSummary
	AIReport      *analysis.AIReport
}

// Empty reports whether the stored result lacks this section.
func (d Detail) Empty() bool {
	return d.Static == nil && d.Dependency == nil && d.AI == nil
}

func BuildDetail(kind DetailKind, r analysis.Result) (Detail, error) {
	d := Detail{Kind: kind, Title: kind.Title()}
	if s, ok := r.OverallScore.Get(); ok {
		d.OverallScore = NewGauge(s.Float())
	} else {
		d.OverallScore = NewGauge(0)
	}

	switch kind {
	case DetailStatic:
		if st, ok := r.Static.Get(); ok {
			d.Static = &st
			if rep, ok := st.Report.Get(); ok {
				d.StaticReport = &rep
				if sum, ok := rep.Summary.Get(); ok {
					d.StaticSummary = &sum
				}
			}
		}
	case DetailDependency:
		if dep, ok := r.Dependency.Get(); ok {
			d.Dependency = &dep
		}
	case DetailAI:
		if ai, ok := r.AI.Get(); ok {
			d.AI = &ai
			if rep, ok := ai.Data.Get(); ok {
				d.AIReport = &rep
			}
		}
	default:
		return Detail{}, fmt.Errorf("unknown detail page %q", kind)
	}
	return d, nil
}
