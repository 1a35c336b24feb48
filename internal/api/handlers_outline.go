package api

import (
	"net/http"

	"github.com/dgallion1/mdoutline/internal/buffer"
	"github.com/dgallion1/mdoutline/internal/doctree"
	"github.com/dgallion1/mdoutline/internal/outline"
)

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	defer s.stats.Time("outline")()

	var tree *doctree.DocTree
	var folded bool
	err := sess.Do(func(v *buffer.View, e *outline.Engine) error {
		var err error
		if tree, err = doctree.Build(e, v.Buffer, v.Folds, sess.Name); err != nil {
			return err
		}
		folded, err = e.GloballyFolded(v.Buffer, v.Folds)
		return err
	})
	if err != nil {
		engineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"outline":         tree,
		"globally_folded": folded,
	})
}

func (s *Server) handleHeadline(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	dir, err := outline.ParseDirection(q.Get("direction"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	match, err := outline.ParseMatchType(q.Get("match"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	level, err := queryInt(q, "level", outline.AnyLevel)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	skipAtPoint, err := queryBool(q, "skip_at_point")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	skipFolded, err := queryBool(q, "skip_folded")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	point, hasPoint, err := pointParam(q)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	query := outline.Query{Level: level, Direction: dir, Match: match, SkipAtPoint: skipAtPoint, SkipFolded: skipFolded}

	defer s.stats.Time("headline")()
	var h outline.Headline
	var found bool
	err = sess.Do(func(v *buffer.View, e *outline.Engine) error {
		if !hasPoint {
			point = v.Carets()[0]
		}
		var err error
		h, found, err = e.FindHeadline(v.Buffer, v.Folds, point, query)
		return err
	})
	if err != nil {
		engineError(w, err)
		return
	}
	if !found {
		jsonError(w, "no headline found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleSpan(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	point, hasPoint, err := pointParam(r.URL.Query())
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer s.stats.Time("span")()

	var span outline.Region
	var found, folded bool
	var text string
	err = sess.Do(func(v *buffer.View, e *outline.Engine) error {
		if !hasPoint {
			point = v.Carets()[0]
		}
		span, found = e.ContentSpanAtPoint(v.Buffer, v.Folds, point)
		if found {
			text = v.Buffer.TextRange(span)
			folded = outline.IsFolded(v.Folds, span)
		}
		return nil
	})
	if err != nil {
		engineError(w, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, map[string]any{"empty": true})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"span":   span,
		"text":   text,
		"folded": folded,
	})
}
