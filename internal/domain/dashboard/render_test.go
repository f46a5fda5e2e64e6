package dashboard

import (
	"errors"
	"math"
	"testing"

	"github.com/bryanwahyu/secscan-dashboard/internal/domain/analysis"
)

const storedResult = `{
  "static_analysis": {"status": "success", "static_analyzer": {
    "issues": {"security": [{"type": "security", "line": 3, "message": "subprocess with shell=True", "severity": "HIGH"}]},
    "summary": {"total_issues": 5, "security_issues": 1}}},
  "dependency_analysis": {"total_packages_scanned": 2, "total_vulnerabilities_found": 1,
    "vulnerable_packages": [{"package": "yaml", "total_vulnerabilities": 1,
      "vulnerabilities": [{"id": "PYSEC-1", "severity": "CRITICAL"}]}]},
  "ai_analysis": {"status": "success", "data": {"findings": [{"severity": "high"}, {"severity": "medium"}], "risk_score": "4"}},
  "overall_security_score": 72.5,
  "status": "success"
}`

func TestNewGaugeClampsAndRounds(t *testing.T) {
	tests := []struct {
		score     float64
		wantPct   float64
		wantLabel string
		wantColor string
	}{
		{-10, 0, "0%", analysis.ColorRed},
		{59.4, 59.4, "59%", analysis.ColorRed},
		{79.6, 79.6, "80%", analysis.ColorOrange},
		{80, 80, "80%", analysis.ColorGreen},
		{140, 100, "100%", analysis.ColorGreen},
	}
	for _, tt := range tests {
		g := NewGauge(tt.score)
		if g.Percent != tt.wantPct || g.Label != tt.wantLabel || g.Color != tt.wantColor {
			t.Errorf("NewGauge(%v) = %+v, want percent=%v label=%q color=%q", tt.score, g, tt.wantPct, tt.wantLabel, tt.wantColor)
		}
	}

	c := GaugeRadius * 2 * math.Pi
	if g := NewGauge(0); math.Abs(g.DashOffset-c) > 1e-9 {
		t.Errorf("empty gauge offset = %v, want %v", g.DashOffset, c)
	}
	if g := NewGauge(100); math.Abs(g.DashOffset) > 1e-9 {
		t.Errorf("full gauge offset = %v, want 0", g.DashOffset)
	}
}

func TestZeroView(t *testing.T) {
	v := ZeroView()
	if v.RiskLevel != analysis.RiskLow {
		t.Fatalf("risk = %q, want Low", v.RiskLevel)
	}
	if v.Counters != (Counters{}) {
		t.Fatalf("counters = %+v, want zero", v.Counters)
	}
	for _, g := range []Gauge{v.Overall, v.Static, v.Dependency, v.AI} {
		if g.Label != "0%" {
			t.Fatalf("gauge label = %q, want 0%%", g.Label)
		}
	}
	if v.HasResult {
		t.Fatalf("zero view reports a result")
	}
}

func TestRenderJSON(t *testing.T) {
	v, err := RenderJSON(ZeroView(), []byte(storedResult))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	want := Counters{Total: 5 + 1 + 2, Critical: 3, Static: 5, Dependency: 1, AI: 2}
	if v.Counters != want {
		t.Fatalf("counters = %+v, want %+v", v.Counters, want)
	}
	if v.RiskLevel != analysis.RiskMedium {
		t.Fatalf("risk = %q, want Medium", v.RiskLevel)
	}
	if v.Static.Label != "85%" || v.Dependency.Label != "95%" || v.AI.Label != "68%" || v.Overall.Label != "73%" {
		t.Fatalf("labels = %s %s %s %s", v.Overall.Label, v.Static.Label, v.Dependency.Label, v.AI.Label)
	}
	if !v.HasResult {
		t.Fatalf("HasResult = false")
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	first, err := RenderJSON(ZeroView(), []byte(storedResult))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	second, err := RenderJSON(ZeroView(), []byte(storedResult))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if first != second {
		t.Fatalf("restores differ:\n%+v\n%+v", first, second)
	}
	again, err := RenderJSON(first, []byte(storedResult))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if again != first {
		t.Fatalf("re-render over itself changed the view")
	}
}

func TestRenderAbsentSectionsKeepBase(t *testing.T) {
	base := ZeroView()
	base.Static = NewGauge(42)
	base.Counters.Static = 19
	base.Overall = NewGauge(12)
	base.RiskLevel = analysis.RiskHigh

	v, err := RenderJSON(base, []byte(`{"dependency_analysis":{"total_vulnerabilities_found":2}}`))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if v.Static != base.Static || v.Counters.Static != 19 {
		t.Fatalf("static widgets changed: %+v / %d", v.Static, v.Counters.Static)
	}
	if v.Overall != base.Overall || v.RiskLevel != analysis.RiskHigh {
		t.Fatalf("overall widgets changed")
	}
	if v.Counters.Dependency != 2 || v.Dependency.Label != "90%" {
		t.Fatalf("dependency = %d %s", v.Counters.Dependency, v.Dependency.Label)
	}
	if v.Counters.Total != 2 {
		t.Fatalf("total = %d, want 2", v.Counters.Total)
	}
}

func TestRenderErrors(t *testing.T) {
	base := ZeroView()

	v, err := RenderJSON(base, []byte(`{"error":"No code provided"}`))
	var pe *PayloadError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want PayloadError", err)
	}
	if AlertFor(err) != "No code provided" {
		t.Fatalf("alert = %q", AlertFor(err))
	}
	if v != base {
		t.Fatalf("error payload changed the view")
	}

	_, err = RenderJSON(base, []byte(`{"overall_security_score": {"nested": true}}`))
	if !errors.Is(err, analysis.ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
	if AlertFor(err) != RenderFailedAlert {
		t.Fatalf("alert = %q, want %q", AlertFor(err), RenderFailedAlert)
	}
}

func TestTheme(t *testing.T) {
	tests := []struct {
		stored string
		dark   bool
		icon   string
	}{
		{"", false, IconLight},
		{"false", false, IconLight},
		{"yes", false, IconLight},
		{"true", true, IconDark},
	}
	for _, tt := range tests {
		th := ParseTheme(tt.stored)
		if th.Dark != tt.dark || th.Icon() != tt.icon {
			t.Errorf("ParseTheme(%q) = %+v icon %q", tt.stored, th, th.Icon())
		}
		round := ParseTheme(th.Toggle().Stored())
		if round.Dark == th.Dark {
			t.Errorf("toggle of %q did not survive a reload", tt.stored)
		}
	}
	if (Theme{Dark: true}).BodyClass() != DarkModeClass {
		t.Errorf("dark body class missing")
	}
}

func TestBuildDetail(t *testing.T) {
	r, err := analysis.Decode([]byte(storedResult))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	d, err := BuildDetail(DetailStatic, r)
	if err != nil {
		t.Fatalf("BuildDetail: %v", err)
	}
	if d.StaticReport == nil || d.StaticSummary == nil || d.StaticSummary.TotalIssues != 5 {
		t.Fatalf("static detail = %+v", d)
	}
	if d.Title != "Static Analysis" {
		t.Fatalf("title = %q", d.Title)
	}

	d, err = BuildDetail(DetailAI, analysis.Result{})
	if err != nil {
		t.Fatalf("BuildDetail: %v", err)
	}
	if !d.Empty() {
		t.Fatalf("detail of empty result not empty")
	}

	if _, ok := ParseDetailKind("quantum-analysis"); ok {
		t.Fatalf("unknown kind accepted")
	}
}

func TestNewInput(t *testing.T) {
	in := NewInput("abc")
	if in.Count != 3 || in.LimitReached {
		t.Fatalf("NewInput = %+v", in)
	}
	long := make([]byte, analysis.CharLimit)
	for i := range long {
		long[i] = 'a'
	}
	if in := NewInput(string(long)); !in.LimitReached {
		t.Fatalf("limit not reached at %d", analysis.CharLimit)
	}
}
