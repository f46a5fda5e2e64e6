package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appdash "github.com/bryanwahyu/secscan-dashboard/internal/application/dashboard"
	appscans "github.com/bryanwahyu/secscan-dashboard/internal/application/scans"
	"github.com/bryanwahyu/secscan-dashboard/internal/domain/analysis"
	"github.com/bryanwahyu/secscan-dashboard/internal/domain/dashboard"
	domain "github.com/bryanwahyu/secscan-dashboard/internal/domain/scans"
	"github.com/bryanwahyu/secscan-dashboard/internal/domain/session"
	"github.com/bryanwahyu/secscan-dashboard/internal/middleware"
)

const (
	maxBodyBytes = 1 << 20
	themeMaxAge  = int(365 * 24 * time.Hour / time.Second)
)

// GET /
// Cache-Control: no-cache (or ?reset=1) starts over with an empty dashboard.
func (r *Router) handleIndex(w http.ResponseWriter, req *http.Request) error {
	sid := middleware.SessionID(req.Context())
	v, err := r.dash.Page(req.Context(), sid, appdash.PageRequest{
		Hard:  isHardRefresh(req),
		Theme: themeFrom(req),
	})
	if err != nil {
		return err
	}
	w.Header().Set("Cache-Control", "no-store")
	return r.pages.render(w, pageDashboard, v)
}

// POST /analyze
// JSON body {"code": "..."} answers with the AnalysisResult; form posts
// redirect back to / with the result (or an alert) in the session.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	ctx := req.Context()
	sid := middleware.SessionID(ctx)
	req.Body = http.MaxBytesReader(w, req.Body, maxBodyBytes)

	jsonClient := strings.HasPrefix(req.Header.Get("Content-Type"), "application/json")
	var code string
	if jsonClient {
		var body struct {
			Code *string `json:"code"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Code == nil {
			return badRequest{msg: "No code provided"}
		}
		code = *body.Code
	} else {
		if err := req.ParseForm(); err != nil {
			return badRequest{msg: "invalid form body"}
		}
		code = req.PostFormValue("code")
	}

	res, err := r.submit(req, sid, code)
	if jsonClient {
		if err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, res)
	}

	if err != nil {
		status := statusFor(err)
		if status >= 500 {
			r.log.Error("analysis failed", zap.Error(err))
		}
		if ferr := r.dash.Flash(ctx, sid, middleware.SanitizeString(messageFor(err, status))); ferr != nil {
			return ferr
		}
	}
	http.Redirect(w, req, "/", http.StatusSeeOther)
	return nil
}

func (r *Router) submit(req *http.Request, sid session.ID, code string) (analysis.Result, error) {
	if err := analysis.ValidateCode(code); err != nil {
		return analysis.Result{}, err
	}
	if r.dash.IsBusy(sid) {
		return analysis.Result{}, dashboard.ErrBusy
	}
	done := r.metrics.AnalysisStarted()
	res, err := r.dash.Submit(req.Context(), sid, code)
	switch {
	case err != nil:
		done(string(analysis.StatusError))
	default:
		done(string(res.Status))
	}
	return res, err
}

func (r *Router) detailHandler(kind dashboard.DetailKind) handlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		ctx := req.Context()
		sid := middleware.SessionID(ctx)
		d, err := r.dash.Detail(ctx, sid, kind, themeFrom(req))
		if errors.Is(err, analysis.ErrMalformed) {
			r.log.Warn("stored result not renderable", zap.String("page", string(kind)), zap.Error(err))
		}
		if err != nil && (errors.Is(err, dashboard.ErrNoResults) || errors.Is(err, analysis.ErrMalformed)) {
			if wantsJSON(req) {
				status := http.StatusConflict
				if errors.Is(err, analysis.ErrMalformed) {
					status = http.StatusUnprocessableEntity
				}
				return writeJSON(w, status, map[string]string{"error": dashboard.AlertFor(err)})
			}
			if err := r.dash.Flash(ctx, sid, dashboard.AlertFor(err)); err != nil {
				return err
			}
			http.Redirect(w, req, "/", http.StatusSeeOther)
			return nil
		}
		if err != nil {
			return err
		}

		if wantsJSON(req) {
			return writeJSON(w, http.StatusOK, section(d))
		}
		return r.pages.render(w, pageDetail, d)
	}
}

// section is the raw section behind a detail page, {} when absent.
func section(d dashboard.Detail) any {
	switch {
	case d.Static != nil:
		return d.Static
	case d.Dependency != nil:
		return d.Dependency
	case d.AI != nil:
		return d.AI
	default:
		return struct{}{}
	}
}

// POST /theme
func (r *Router) handleTheme(w http.ResponseWriter, req *http.Request) error {
	th := themeFrom(req).Toggle()
	http.SetCookie(w, &http.Cookie{
		Name:     dashboard.DarkModeKey,
		Value:    th.Stored(),
		Path:     "/",
		MaxAge:   themeMaxAge,
		Secure:   r.secure,
		SameSite: http.SameSiteLaxMode,
	})
	if wantsJSON(req) {
		return writeJSON(w, http.StatusOK, map[string]bool{dashboard.DarkModeKey: th.Dark})
	}
	http.Redirect(w, req, backTo(req), http.StatusSeeOther)
	return nil
}

// GET /session
func (r *Router) handleSessionGet(w http.ResponseWriter, req *http.Request) error {
	raw, err := r.dash.Stored(req.Context(), middleware.SessionID(req.Context()))
	if errors.Is(err, dashboard.ErrNoResults) {
		return writeJSON(w, http.StatusNotFound, map[string]string{"error": dashboard.AlertFor(err)})
	}
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write([]byte(raw))
	return err
}

// DELETE /session
func (r *Router) handleSessionDelete(w http.ResponseWriter, req *http.Request) error {
	if err := r.dash.Reset(req.Context(), middleware.SessionID(req.Context())); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /recent-scan?limit=1
func (r *Router) handleRecent(w http.ResponseWriter, req *http.Request) error {
	limit, err := middleware.ParseLimit(req.URL.Query().Get("limit"), appscans.DefaultRecentLimit, appscans.MaxRecentLimit)
	if err != nil {
		return badRequest{msg: err.Error()}
	}
	list, err := r.scans.Recent(req.Context(), limit)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Scan{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /scans/{id}
func (r *Router) handleGetScan(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	scan, err := r.scans.Get(req.Context(), domain.ScanID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, scan)
}

// GET /health
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) error {
	report := r.scans.Health(req.Context())
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	return writeJSON(w, status, report)
}

func isHardRefresh(req *http.Request) bool {
	if req.URL.Query().Get("reset") == "1" {
		return true
	}
	cc := strings.ToLower(req.Header.Get("Cache-Control"))
	return strings.Contains(cc, "no-cache") || strings.Contains(cc, "max-age=0") ||
		strings.EqualFold(req.Header.Get("Pragma"), "no-cache")
}

func themeFrom(req *http.Request) dashboard.Theme {
	c, err := req.Cookie(dashboard.DarkModeKey)
	if err != nil {
		return dashboard.Theme{}
	}
	return dashboard.ParseTheme(c.Value)
}

// backTo is the same-site page the request came from, or /.
func backTo(req *http.Request) string {
	ref, err := url.Parse(req.Referer())
	if err != nil || ref.Host != req.Host || !strings.HasPrefix(ref.Path, "/") {
		return "/"
	}
	return ref.Path
}
