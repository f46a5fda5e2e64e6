package dashboard

import (
	"fmt"
	"math"

	"github.com/bryanwahyu/secscan-dashboard/internal/domain/analysis"
)

// GaugeRadius is the SVG radius of every score circle.
const GaugeRadius = 16

// Gauge is one circular score indicator.
type Gauge struct {
	Percent    float64
	Label      string
	Color      string
	DashArray  string
	DashOffset float64
}

// NewGauge draws score s, clamped to 0-100.
func NewGauge(s float64) Gauge {
	p := analysis.Clamp(s)
	c := GaugeRadius * 2 * math.Pi
	return Gauge{
		Percent:    p,
		Label:      fmt.Sprintf("%d%%", int(math.Round(p))),
		Color:      analysis.Color(p),
		DashArray:  fmt.Sprintf("%.4f %.4f", c, c),
		DashOffset: c - p/100*c,
	}
}

type Counters struct {
	Total      int
	Critical   int
	Static     int
	Dependency int
	AI         int
}

// Input is the character counter under the code box.
type Input struct {
	Count        int
	Limit        int
	LimitReached bool
}

func NewInput(code string) Input {
	n := analysis.CountChars(code)
	return Input{Count: n, Limit: analysis.CharLimit, LimitReached: n >= analysis.CharLimit}
}

// View is the whole dashboard state handed to the page template.
type View struct {
	Overall    Gauge
	Static     Gauge
	Dependency Gauge
	AI         Gauge
	Counters   Counters
	RiskLevel  analysis.RiskLevel

	HasResult bool
	Theme     Theme
	Alert     string
	Busy      bool
	Input     Input
}

// ZeroView is the reset state: every gauge at 0%, counters at 0, risk Low.
func ZeroView() View {
	return View{
		Overall:    NewGauge(0),
		Static:     NewGauge(0),
		Dependency: NewGauge(0),
		AI:         NewGauge(0),
		RiskLevel:  analysis.RiskLow,
		Input:      NewInput(""),
	}
}
