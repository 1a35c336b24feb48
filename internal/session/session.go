package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/mdoutline/internal/buffer"
	"github.com/dgallion1/mdoutline/internal/outline"
)

// Session is one open document: its buffer view and the engine that owns
// the document's fold history. All access goes through Do.
type Session struct {
	mu sync.Mutex

	ID        string
	Name      string
	CreatedAt time.Time
	updatedAt time.Time

	view   *buffer.View
	engine *outline.Engine
	log    *slog.Logger
}

func newSession(id, name string, view *buffer.View, engine *outline.Engine, log *slog.Logger) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		updatedAt: now,
		view:      view,
		engine:    engine,
		log:       log,
	}
}

// Do runs fn with exclusive access to the session's view and engine.
func (s *Session) Do(fn func(v *buffer.View, e *outline.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatedAt = time.Now()
	return fn(s.view, s.engine)
}

// Logger returns the session-scoped logger.
func (s *Session) Logger() *slog.Logger {
	return s.log
}

// UpdatedAt returns the time of the last access.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Snapshot is a read-only, JSON-safe copy of session state.
type Snapshot struct {
	ID        string           `json:"session_id"`
	Name      string           `json:"name"`
	Text      string           `json:"text"`
	Revision  uint64           `json:"revision"`
	Folds     []outline.Region `json:"folds"`
	Carets    []int            `json:"carets"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	folds := s.view.Folds.Regions()
	if folds == nil {
		folds = []outline.Region{}
	}
	return Snapshot{
		ID:        s.ID,
		Name:      s.Name,
		Text:      s.view.Buffer.Text(),
		Revision:  s.view.Buffer.Revision(),
		Folds:     folds,
		Carets:    s.view.Carets(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.updatedAt,
	}
}
