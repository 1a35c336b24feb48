package outline

import (
	"io"
	"log/slog"
)

// Engine navigates and folds the headline hierarchy of a document.
//
// An Engine belongs to one document. Apart from fold history (which finer
// folds a coarser fold replaced, see fold.go) it keeps no state: headlines,
// levels and content spans are recomputed from the Document on every call.
// An Engine is not safe for concurrent use; hosts serialize calls.
type Engine struct {
	syntax Syntax
	log    *slog.Logger

	// subsumed maps a fold entry made by the engine to the entries it replaced.
	subsumed map[Region][]Region
	// global records the last global fold so it can be undone exactly.
	global *globalFold
}

// Option configures an Engine.
type Option func(*Engine)

// WithSyntax sets the headline syntax. The default is DefaultSyntax.
func WithSyntax(s Syntax) Option {
	return func(e *Engine) {
		if s.Marker != 0 {
			e.syntax = s
		}
	}
}

// WithLogger sets the logger used for debug output of fold transitions.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		syntax:   DefaultSyntax,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		subsumed: make(map[Region][]Region),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Syntax returns the headline syntax in use.
func (e *Engine) Syntax() Syntax {
	return e.syntax
}
