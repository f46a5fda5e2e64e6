package session

import (
	"time"

	"github.com/google/uuid"
)

// ResultsKey is the session entry holding the last AnalysisResult as JSON text.
const ResultsKey = "analysisResults"

type ID string

func NewID() ID { return ID(uuid.NewString()) }

// Valid reports whether id looks like one NewID could have produced.
func (id ID) Valid() bool {
	_, err := uuid.Parse(string(id))
	return err == nil
}

// State is the server-side half of one browser session.
type State struct {
	ID        ID
	Values    map[string]string
	Flash     string
	UpdatedAt time.Time
}

func New(id ID, now time.Time) *State {
	return &State{ID: id, Values: map[string]string{}, UpdatedAt: now}
}

// Result returns the stored result text, if any.
func (s *State) Result() (string, bool) {
	v, ok := s.Values[ResultsKey]
	return v, ok && v != ""
}

func (s *State) SetResult(raw string) {
	if s.Values == nil {
		s.Values = map[string]string{}
	}
	s.Values[ResultsKey] = raw
}

func (s *State) ClearResult() { delete(s.Values, ResultsKey) }

// TakeFlash returns the pending one-shot alert and clears it.
func (s *State) TakeFlash() string {
	f := s.Flash
	s.Flash = ""
	return f
}
