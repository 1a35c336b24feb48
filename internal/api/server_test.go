package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/dgallion1/mdoutline/internal/config"
	"github.com/dgallion1/mdoutline/internal/outline"
	"github.com/dgallion1/mdoutline/internal/session"
	"github.com/dgallion1/mdoutline/internal/stats"
)

const testAPIKey = "test-key"

func testConfig() config.Config {
	return config.Config{
		APIKey:         testAPIKey,
		HeadlineMarker: "#",
		ScopeMode:      "markdown",
		MaxSessions:    8,
		SessionTTL:     time.Hour,
		MaxUploadBytes: 1 << 20,
		StatsWindow:    time.Hour,
	}
}

func newTestServer(t *testing.T, cfg config.Config) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(session.NewManager(cfg, log), stats.NewRecorder(cfg.StatsWindow), log, cfg)
}

func request(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func createSession(t *testing.T, srv http.Handler, text string) session.Snapshot {
	t.Helper()
	rec := request(t, srv, http.MethodPost, "/api/sessions", map[string]string{"name": "doc", "text": text})
	expectStatus(t, rec, http.StatusCreated)
	return decode[session.Snapshot](t, rec)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestAuth(t *testing.T) {
	srv := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/stats/ops", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusUnauthorized)

	req = httptest.NewRequest(http.MethodGet, "/api/stats/ops", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusUnauthorized)
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t, testConfig())
	snap := createSession(t, srv, "# A\ntext\n")
	if snap.ID == "" || snap.Text != "# A\ntext\n" || snap.Name != "doc" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	rec := request(t, srv, http.MethodGet, "/api/sessions/"+snap.ID, nil)
	expectStatus(t, rec, http.StatusOK)

	rec = request(t, srv, http.MethodPut, "/api/sessions/"+snap.ID+"/carets", map[string][]int{"carets": {7, 2, 99}})
	expectStatus(t, rec, http.StatusOK)
	got := decode[session.Snapshot](t, rec)
	if diff := cmp.Diff([]int{2, 7, 9}, got.Carets); diff != "" {
		t.Errorf("carets mismatch (-want +got):\n%s", diff)
	}

	rec = request(t, srv, http.MethodDelete, "/api/sessions/"+snap.ID, nil)
	expectStatus(t, rec, http.StatusNoContent)

	rec = request(t, srv, http.MethodGet, "/api/sessions/"+snap.ID, nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestCreateSession_Capacity(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSessions = 1
	srv := newTestServer(t, cfg)
	createSession(t, srv, "")

	rec := request(t, srv, http.MethodPost, "/api/sessions", map[string]string{"text": ""})
	expectStatus(t, rec, http.StatusServiceUnavailable)
}

func TestCreateSession_BadJSON(t *testing.T) {
	srv := newTestServer(t, testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader("{"))
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusBadRequest)
}

func upload(t *testing.T, srv http.Handler, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte(content))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", &body)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestCreateSession_Upload(t *testing.T) {
	srv := newTestServer(t, testConfig())

	rec := upload(t, srv, "notes.md", "# A\ntext\n")
	expectStatus(t, rec, http.StatusCreated)
	snap := decode[session.Snapshot](t, rec)
	if snap.Name != "notes.md" || snap.Text != "# A\ntext\n" {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	rec = upload(t, srv, "page.html", "<h1>Title</h1><p>body</p>")
	expectStatus(t, rec, http.StatusCreated)
	if snap := decode[session.Snapshot](t, rec); snap.Text != "# Title\n\nbody\n" {
		t.Errorf("unexpected imported text %q", snap.Text)
	}

	rec = upload(t, srv, "image.png", "x")
	expectStatus(t, rec, http.StatusBadRequest)
}

type foldResponse struct {
	Actions []string         `json:"actions"`
	Handled bool             `json:"handled"`
	Folds   []outline.Region `json:"folds"`
	Carets  []int            `json:"carets"`
}

func TestFold(t *testing.T) {
	srv := newTestServer(t, testConfig())
	id := createSession(t, srv, "# A\n## B\ntext\n# C\n").ID

	rec := request(t, srv, http.MethodPost, "/api/sessions/"+id+"/fold", map[string]int{"point": 4})
	expectStatus(t, rec, http.StatusOK)
	res := decode[foldResponse](t, rec)
	if !res.Handled || len(res.Actions) != 1 || res.Actions[0] != "folded" {
		t.Errorf("unexpected fold response %+v", res)
	}
	if diff := cmp.Diff([]outline.Region{{Start: 9, End: 13}}, res.Folds); diff != "" {
		t.Errorf("folds mismatch (-want +got):\n%s", diff)
	}

	rec = request(t, srv, http.MethodPost, "/api/sessions/"+id+"/fold", map[string]int{"point": 4})
	expectStatus(t, rec, http.StatusOK)
	res = decode[foldResponse](t, rec)
	if res.Actions[0] != "unfolded" || len(res.Folds) != 0 {
		t.Errorf("unexpected unfold response %+v", res)
	}
}

func TestFold_AtCarets(t *testing.T) {
	srv := newTestServer(t, testConfig())
	id := createSession(t, srv, "# A\n## B\ntext\n# C\n").ID

	// Default caret is at 0, on A.
	rec := request(t, srv, http.MethodPost, "/api/sessions/"+id+"/fold", nil)
	expectStatus(t, rec, http.StatusOK)
	res := decode[foldResponse](t, rec)
	if diff := cmp.Diff([]outline.Region{{Start: 4, End: 13}}, res.Folds); diff != "" {
		t.Errorf("folds mismatch (-want +got):\n%s", diff)
	}

	request(t, srv, http.MethodPut, "/api/sessions/"+id+"/carets", map[string][]int{"carets": {15}})
	rec = request(t, srv, http.MethodPost, "/api/sessions/"+id+"/fold", nil)
	res = decode[foldResponse](t, rec)
	if !res.Handled || res.Actions[0] != "empty" {
		t.Errorf("expected empty action on C, got %+v", res)
	}
}

func TestFold_NotHeadline(t *testing.T) {
	srv := newTestServer(t, testConfig())
	id := createSession(t, srv, "plain text\n").ID

	rec := request(t, srv, http.MethodPost, "/api/sessions/"+id+"/fold", nil)
	expectStatus(t, rec, http.StatusOK)
	if res := decode[foldResponse](t, rec); res.Handled {
		t.Errorf("expected unhandled fold, got %+v", res)
	}
}

func TestGlobalFold(t *testing.T) {
	srv := newTestServer(t, testConfig())
	id := createSession(t, srv, "# A\ntext\n# B\nmore\n").ID
	request(t, srv, http.MethodPut, "/api/sessions/"+id+"/carets", map[string][]int{"carets": {5}})

	rec := request(t, srv, http.MethodPost, "/api/sessions/"+id+"/fold/global", nil)
	expectStatus(t, rec, http.StatusOK)
	res := decode[struct {
		Action  string           `json:"action"`
		Created []outline.Region `json:"created"`
		Folds   []outline.Region `json:"folds"`
		Carets  []int            `json:"carets"`
	}](t, rec)
	if res.Action != "folded" || len(res.Folds) != 2 {
		t.Errorf("unexpected global fold response %+v", res)
	}
	if diff := cmp.Diff([]int{8}, res.Carets); diff != "" {
		t.Errorf("expected caret moved out of the fold (-want +got):\n%s", diff)
	}

	rec = request(t, srv, http.MethodPost, "/api/sessions/"+id+"/fold/global", nil)
	expectStatus(t, rec, http.StatusOK)
	res2 := decode[foldResponse](t, rec)
	if diff := cmp.Diff([]outline.Region(nil), res2.Folds, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("expected no folds after global unfold (-want +got):\n%s", diff)
	}
}

func TestHeadline(t *testing.T) {
	srv := newTestServer(t, testConfig())
	doc := "012345678\n# one\n" + strings.Repeat("a", 23) + "\n# two\n" + strings.Repeat("a", 43) + "\n# three\n"
	id := createSession(t, srv, doc).ID
	base := "/api/sessions/" + id + "/headline"

	rec := request(t, srv, http.MethodGet, base+"?point=95&direction=backward", nil)
	expectStatus(t, rec, http.StatusOK)
	h := decode[outline.Headline](t, rec)
	if h.Pos != 90 || h.Level != 1 || h.Text != "# three" {
		t.Errorf("unexpected headline %+v", h)
	}

	rec = request(t, srv, http.MethodGet, base+"?point=5&direction=backward", nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = request(t, srv, http.MethodGet, base+"?match=parent", nil)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = request(t, srv, http.MethodGet, base+"?direction=sideways", nil)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = request(t, srv, http.MethodGet, base+"?point=abc", nil)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestSpan(t *testing.T) {
	srv := newTestServer(t, testConfig())
	id := createSession(t, srv, "# A\n## B\ntext\n# C\n").ID

	rec := request(t, srv, http.MethodGet, "/api/sessions/"+id+"/span?point=0", nil)
	expectStatus(t, rec, http.StatusOK)
	res := decode[struct {
		Span outline.Region `json:"span"`
		Text string         `json:"text"`
	}](t, rec)
	if res.Span != (outline.Region{Start: 4, End: 13}) || res.Text != "## B\ntext" {
		t.Errorf("unexpected span %+v", res)
	}

	rec = request(t, srv, http.MethodGet, "/api/sessions/"+id+"/span?point=10", nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"empty":true`) {
		t.Errorf("expected empty span, got %s", rec.Body.String())
	}
}

func TestNavigateAndLevel(t *testing.T) {
	srv := newTestServer(t, testConfig())
	id := createSession(t, srv, "# A\n## B\ntext\n# C\n").ID

	rec := request(t, srv, http.MethodPost, "/api/sessions/"+id+"/navigate", map[string]bool{"forward": true})
	expectStatus(t, rec, http.StatusOK)
	nav := decode[struct {
		Moved  bool  `json:"moved"`
		Carets []int `json:"carets"`
	}](t, rec)
	if !nav.Moved || len(nav.Carets) != 1 || nav.Carets[0] != 4 {
		t.Errorf("unexpected navigate response %+v", nav)
	}

	rec = request(t, srv, http.MethodPost, "/api/sessions/"+id+"/level", map[string]bool{"up": true})
	expectStatus(t, rec, http.StatusOK)
	snap := decode[session.Snapshot](t, rec)
	if snap.Text != "# A\n### B\ntext\n# C\n" {
		t.Errorf("unexpected text %q", snap.Text)
	}
}

func TestOutlineAndStats(t *testing.T) {
	srv := newTestServer(t, testConfig())
	id := createSession(t, srv, "# A\n## B\ntext\n# C\n").ID

	rec := request(t, srv, http.MethodGet, "/api/sessions/"+id+"/outline", nil)
	expectStatus(t, rec, http.StatusOK)
	res := decode[struct {
		Outline struct {
			Title    string `json:"title"`
			Children []struct {
				Title    string `json:"title"`
				Children []struct {
					Title string `json:"title"`
				} `json:"children"`
			} `json:"children"`
		} `json:"outline"`
		GloballyFolded bool `json:"globally_folded"`
	}](t, rec)
	if res.Outline.Title != "doc" || len(res.Outline.Children) != 2 {
		t.Fatalf("unexpected outline %+v", res)
	}
	if len(res.Outline.Children[0].Children) != 1 || res.Outline.Children[0].Children[0].Title != "B" {
		t.Errorf("expected B under A, got %+v", res.Outline.Children[0])
	}
	if res.GloballyFolded {
		t.Error("expected document not to be globally folded")
	}

	rec = request(t, srv, http.MethodGet, "/api/stats/ops", nil)
	expectStatus(t, rec, http.StatusOK)
	st := decode[struct {
		Sessions int                       `json:"sessions"`
		Ops      map[string]stats.Snapshot `json:"ops"`
	}](t, rec)
	if st.Sessions != 1 {
		t.Errorf("expected 1 session, got %d", st.Sessions)
	}
	if st.Ops["outline"].Count != 1 {
		t.Errorf("expected one outline call recorded, got %+v", st.Ops)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", tt.header)
		got, ok := bearerToken(r)
		if got != tt.want || ok != tt.ok {
			t.Errorf("bearerToken(%q): expected (%q, %v), got (%q, %v)", tt.header, tt.want, tt.ok, got, ok)
		}
	}
}

func TestFold_DescendantsSurviveLevelChange(t *testing.T) {
	srv := newTestServer(t, testConfig())
	id := createSession(t, srv, "# P\np\n# A\n## B\nb\n## C\nc\n").ID
	base := "/api/sessions/" + id

	request(t, srv, http.MethodPost, base+"/fold", map[string]int{"point": 10})
	rec := request(t, srv, http.MethodPost, base+"/fold", map[string]int{"point": 6})
	if res := decode[foldResponse](t, rec); !cmp.Equal([]outline.Region{{Start: 10, End: 24}}, res.Folds) {
		t.Fatalf("expected A folded, got %+v", res.Folds)
	}

	request(t, srv, http.MethodPut, base+"/carets", map[string][]int{"carets": {0}})
	rec = request(t, srv, http.MethodPost, base+"/level", map[string]bool{"up": true})
	expectStatus(t, rec, http.StatusOK)

	rec = request(t, srv, http.MethodPost, base+"/fold", map[string]int{"point": 7})
	expectStatus(t, rec, http.StatusOK)
	res := decode[foldResponse](t, rec)
	if diff := cmp.Diff([]outline.Region{{Start: 16, End: 17}}, res.Folds); diff != "" {
		t.Errorf("expected B's fold restored (-want +got):\n%s", diff)
	}
}
