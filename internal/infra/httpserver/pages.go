package httpserver

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/bryanwahyu/secscan-dashboard/internal/domain/dashboard"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageDashboard = "dashboard"
	pageDetail    = "detail"
)

type pages struct {
	byName map[string]*template.Template
}

// gaugeCard is the argument of the "gauge" template.
type gaugeCard struct {
	Title string
	Href  string
	Gauge dashboard.Gauge
}

var funcs = template.FuncMap{
	"card": func(title, href string, g dashboard.Gauge) gaugeCard {
		return gaugeCard{Title: title, Href: href, Gauge: g}
	},
	"severity": func(s string) string { return "sev-" + strings.ToLower(s) },
	"offset":   func(f float64) string { return fmt.Sprintf("%.4f", f) },
	"radius":   func() int { return dashboard.GaugeRadius },
}

func mustParsePages() *pages {
	base := template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html"))
	p := &pages{byName: make(map[string]*template.Template)}
	for _, name := range []string{pageDashboard, pageDetail} {
		t := template.Must(base.Clone())
		p.byName[name] = template.Must(t.ParseFS(templateFS, "templates/"+name+".html"))
	}
	return p
}

func (p *pages) render(w http.ResponseWriter, name string, data any) error {
	t, ok := p.byName[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}
