package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/mdoutline/internal/buffer"
	"github.com/dgallion1/mdoutline/internal/config"
	"github.com/dgallion1/mdoutline/internal/outline"
	"github.com/dgallion1/mdoutline/internal/scope"
)

const cleanupInterval = 5 * time.Minute

// Manager creates sessions and evicts idle ones.
type Manager struct {
	store     *Store
	syntax    outline.Syntax
	scopeMode string
	log       *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewManager(cfg config.Config, log *slog.Logger) *Manager {
	return &Manager{
		store:     NewStore(cfg.SessionTTL, cfg.MaxSessions),
		syntax:    outline.Syntax{Marker: cfg.Marker()},
		scopeMode: cfg.ScopeMode,
		log:       log,
	}
}

// Start launches the idle-session cleanup loop.
func (m *Manager) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				if n := m.store.Cleanup(); n > 0 {
					m.log.Info("evicted idle sessions", "count", n, "remaining", m.store.Len())
				}
			}
		}
	}()
}

// Stop ends the cleanup loop and waits for it to exit.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

// Create opens a session over text.
func (m *Manager) Create(name, text string) (*Session, error) {
	id := uuid.NewString()
	log := m.log.With("session_id", id)

	view := buffer.NewView(buffer.New(text, buffer.WithClassifier(scope.ForMode(m.scopeMode))))
	engine := outline.NewEngine(outline.WithSyntax(m.syntax), outline.WithLogger(log))
	view.OnShift(engine.ShiftHistory)
	sess := newSession(id, name, view, engine, log)

	if err := m.store.Put(sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	log.Info("session created", "name", name, "bytes", view.Buffer.Len())
	return sess, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	return m.store.Get(id)
}

func (m *Manager) Delete(id string) error {
	if err := m.store.Delete(id); err != nil {
		return err
	}
	m.log.Info("session closed", "session_id", id)
	return nil
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	return m.store.Len()
}
