package api

import (
	"net/http"

	"github.com/dgallion1/mdoutline/internal/buffer"
	"github.com/dgallion1/mdoutline/internal/outline"
)

type foldRequest struct {
	Point *int `json:"point"`
}

// handleFold toggles the fold of the headline at the given point, or at every
// caret when no point is given.
func (s *Server) handleFold(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req foldRequest
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer s.stats.Time("fold")()

	var actions []string
	handled := false
	err := sess.Do(func(v *buffer.View, e *outline.Engine) error {
		points := v.Carets()
		if req.Point != nil {
			points = []int{*req.Point}
		}
		for _, p := range uniqueLines(v.Buffer, points) {
			action, err := e.ToggleFoldAtPoint(v.Buffer, v.Folds, p)
			if err != nil {
				return err
			}
			actions = append(actions, action.String())
			handled = handled || action.Handled()
		}
		v.RelocateCarets()
		return nil
	})
	if err != nil {
		engineError(w, err)
		return
	}

	snap := sess.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"actions": actions,
		"handled": handled,
		"folds":   snap.Folds,
		"carets":  snap.Carets,
	})
}

// uniqueLines keeps the first point on each line so a headline is toggled
// once even with several carets on it.
func uniqueLines(doc outline.Document, points []int) []int {
	seen := make(map[int]bool, len(points))
	out := make([]int, 0, len(points))
	for _, p := range points {
		_, line := doc.LineAt(p)
		if seen[line.Start] {
			continue
		}
		seen[line.Start] = true
		out = append(out, p)
	}
	return out
}

func (s *Server) handleGlobalFold(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	defer s.stats.Time("fold_global")()

	var res outline.GlobalResult
	err := sess.Do(func(v *buffer.View, e *outline.Engine) error {
		var err error
		if res, err = e.ToggleGlobalFold(v.Buffer, v.Folds); err != nil {
			return err
		}
		v.RelocateCarets()
		return nil
	})
	if err != nil {
		engineError(w, err)
		return
	}

	created := res.Regions
	if created == nil {
		created = []outline.Region{}
	}
	snap := sess.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"action":  res.Action.String(),
		"created": created,
		"folds":   snap.Folds,
		"carets":  snap.Carets,
	})
}

type navigateRequest struct {
	Forward   bool `json:"forward"`
	SameLevel bool `json:"same_level"`
}

// handleNavigate moves every caret to the next or previous visible headline.
// Carets without a target stay where they are.
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req navigateRequest
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer s.stats.Time("navigate")()

	moved := false
	err := sess.Do(func(v *buffer.View, e *outline.Engine) error {
		carets := v.Carets()
		for i, c := range carets {
			target, ok, err := e.Navigate(v.Buffer, v.Folds, c, req.Forward, req.SameLevel)
			if err != nil {
				return err
			}
			if ok {
				carets[i] = target
				moved = true
			}
		}
		v.SetCarets(carets)
		return nil
	})
	if err != nil {
		engineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"moved":  moved,
		"carets": sess.Snapshot().Carets,
	})
}

type levelRequest struct {
	Up bool `json:"up"`
}

// handleLevel raises or lowers the heading level of every caret line.
func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req levelRequest
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer s.stats.Time("level")()

	err := sess.Do(func(v *buffer.View, e *outline.Engine) error {
		return v.ChangeHeadingLevel(e.Syntax().Marker, req.Up)
	})
	if err != nil {
		engineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}
