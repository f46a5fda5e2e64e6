package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/bryanwahyu/secscan-dashboard/internal/application"
	"github.com/bryanwahyu/secscan-dashboard/internal/domain/analysis"
	"github.com/bryanwahyu/secscan-dashboard/internal/domain/dashboard"
	"github.com/bryanwahyu/secscan-dashboard/internal/domain/session"
)

// Engine produces an AnalysisResult for submitted code. The in-process
// gateway and the remote /analyze client both satisfy it.
type Engine interface {
	Analyze(ctx context.Context, code string) (analysis.Result, error)
}

// Service is the dashboard controller: submission, restore on load,
// detail navigation. It owns the per-session in-flight set.
type Service struct {
	Sessions session.Store
	Engine   Engine
	Clock    application.Clock
	Log      *zap.Logger

	mu   sync.Mutex
	busy map[session.ID]struct{}

	// stateMu serializes load-modify-save cycles on the session store.
	stateMu sync.Mutex
}

func NewService(sessions session.Store, engine Engine, clock application.Clock, log *zap.Logger) *Service {
	if clock == nil {
		clock = application.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		Sessions: sessions,
		Engine:   engine,
		Clock:    clock,
		Log:      log,
		busy:     make(map[session.ID]struct{}),
	}
}

// PageRequest describes one load of the dashboard page.
type PageRequest struct {
	// Hard is a user-forced reload; it discards the stored result.
	Hard  bool
	Theme dashboard.Theme
}

// Page builds the dashboard view for a session.
func (s *Service) Page(ctx context.Context, sid session.ID, req PageRequest) (dashboard.View, error) {
	v := dashboard.ZeroView()
	v.Theme = req.Theme
	v.Busy = s.IsBusy(sid)

	var raw string
	var stored bool
	err := s.update(ctx, sid, func(st *session.State) bool {
		dirty := false
		if flash := st.TakeFlash(); flash != "" {
			v.Alert = flash
			dirty = true
		}
		raw, stored = st.Result()
		if req.Hard && stored {
			st.ClearResult()
			stored = false
			dirty = true
		}
		return dirty
	})
	if err != nil {
		return dashboard.View{}, err
	}

	if stored {
		restored, err := dashboard.RenderJSON(v, []byte(raw))
		if err != nil {
			s.Log.Warn("stored result not renderable", zap.String("session", string(sid)), zap.Error(err))
			v.Alert = dashboard.AlertFor(err)
		} else {
			v = restored
		}
	}
	return v, nil
}

// Submit validates code, runs the engine and stores the result in the
// session. Only one submission per session may be in flight.
func (s *Service) Submit(ctx context.Context, sid session.ID, code string) (analysis.Result, error) {
	if err := analysis.ValidateCode(code); err != nil {
		return analysis.Result{}, err
	}
	if !s.acquire(sid) {
		return analysis.Result{}, dashboard.ErrBusy
	}
	defer s.release(sid)

	r, err := s.Engine.Analyze(ctx, code)
	if err != nil {
		s.Log.Error("analysis failed", zap.String("session", string(sid)), zap.Error(err))
		return analysis.Result{}, fmt.Errorf("%w: %v", dashboard.ErrAnalysisFailed, err)
	}
	if r.Error != "" {
		return r, &dashboard.PayloadError{Message: r.Error}
	}
	if err := r.Validate(); err != nil {
		s.Log.Error("engine returned an unrenderable result", zap.Error(err))
		return analysis.Result{}, err
	}

	raw, err := json.Marshal(r)
	if err != nil {
		return analysis.Result{}, fmt.Errorf("encode result: %w", err)
	}
	err = s.update(ctx, sid, func(st *session.State) bool {
		st.SetResult(string(raw))
		return true
	})
	if err != nil {
		return analysis.Result{}, err
	}
	return r, nil
}

// Detail returns one detail page. Without a stored result it fails with
// dashboard.ErrNoResults.
func (s *Service) Detail(ctx context.Context, sid session.ID, kind dashboard.DetailKind, theme dashboard.Theme) (dashboard.Detail, error) {
	raw, err := s.Stored(ctx, sid)
	if err != nil {
		return dashboard.Detail{}, err
	}
	r, err := analysis.Decode([]byte(raw))
	if err != nil {
		return dashboard.Detail{}, err
	}
	d, err := dashboard.BuildDetail(kind, r)
	if err != nil {
		return dashboard.Detail{}, err
	}
	d.Theme = theme
	return d, nil
}

// Stored returns the session's result text.
func (s *Service) Stored(ctx context.Context, sid session.ID) (string, error) {
	st, err := s.load(ctx, sid)
	if err != nil {
		return "", err
	}
	raw, ok := st.Result()
	if !ok {
		return "", dashboard.ErrNoResults
	}
	return raw, nil
}

func (s *Service) Reset(ctx context.Context, sid session.ID) error {
	return s.update(ctx, sid, func(st *session.State) bool {
		st.ClearResult()
		return true
	})
}

// Flash queues a one-shot alert for the next page load.
func (s *Service) Flash(ctx context.Context, sid session.ID, msg string) error {
	return s.update(ctx, sid, func(st *session.State) bool {
		st.Flash = msg
		return true
	})
}

func (s *Service) IsBusy(sid session.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.busy[sid]
	return ok
}

func (s *Service) acquire(sid session.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.busy[sid]; ok {
		return false
	}
	s.busy[sid] = struct{}{}
	return true
}

func (s *Service) release(sid session.ID) {
	s.mu.Lock()
	delete(s.busy, sid)
	s.mu.Unlock()
}

func (s *Service) load(ctx context.Context, sid session.ID) (*session.State, error) {
	st, err := s.Sessions.Get(ctx, sid)
	if errors.Is(err, session.ErrNotFound) {
		return session.New(sid, s.Clock.Now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return st, nil
}

// update runs fn on the session state and saves it when fn reports a
// change. Concurrent updates never overwrite each other.
func (s *Service) update(ctx context.Context, sid session.ID, fn func(*session.State) bool) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	st, err := s.load(ctx, sid)
	if err != nil {
		return err
	}
	if !fn(st) {
		return nil
	}
	return s.save(ctx, st)
}

func (s *Service) save(ctx context.Context, st *session.State) error {
	st.UpdatedAt = s.Clock.Now()
	if err := s.Sessions.Save(ctx, st); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
