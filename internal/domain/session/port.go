package session

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("session not found")

// Store keeps session state server side. Get returns a copy; changes are
// visible only after Save.
type Store interface {
	Get(ctx context.Context, id ID) (*State, error)
	Save(ctx context.Context, s *State) error
	Delete(ctx context.Context, id ID) error
}
