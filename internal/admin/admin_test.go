package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/verbridge/internal/auth"
	"github.com/danmuck/verbridge/internal/bridge"
	"github.com/danmuck/verbridge/internal/catalog"
	"github.com/danmuck/verbridge/internal/session"
	"github.com/danmuck/verbridge/internal/testutil/testlog"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T) (*Server, *bridge.Core, *NoticeHub) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := NewNoticeHub(4)
	core, err := bridge.New(bridge.Options{Installers: []bridge.Installer{catalog.Pack{}}, Notifier: hub})
	if err != nil {
		t.Fatalf("new core: %v", err)
	}
	if err := core.Initialize(t.TempDir()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return New(core, hub, Options{}), core, hub
}

func do(t *testing.T, s *Server, method, path, body string, headers ...string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: decode body %q: %v", method, path, rr.Body.String(), err)
	}
	return rr.Code, out
}

func TestHealthAndVersions(t *testing.T) {
	testlog.Start(t)
	s, _, _ := newTestServer(t)

	code, body := do(t, s, http.MethodGet, "/health", "")
	if code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("health: %d %#v", code, body)
	}

	code, body = do(t, s, http.MethodGet, "/versions", "")
	versions, _ := body["versions"].([]any)
	if code != http.StatusOK || len(versions) != 4 {
		t.Fatalf("versions: %d %#v", code, body)
	}
	first, _ := versions[0].(map[string]any)
	if first["id"] != catalog.V1_7 {
		t.Fatalf("versions not in ordinal order: %#v", versions)
	}
}

func TestSchemasRoute(t *testing.T) {
	testlog.Start(t)
	s, _, _ := newTestServer(t)
	code, body := do(t, s, http.MethodGet, "/versions/1.12/schemas", "")
	schemas, _ := body["schemas"].([]any)
	if code != http.StatusOK || len(schemas) == 0 {
		t.Fatalf("schemas: %d %#v", code, body)
	}
	code, _ = do(t, s, http.MethodGet, "/versions/0.1/schemas", "")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown version, got %d", code)
	}
}

func TestFixesRoute(t *testing.T) {
	testlog.Start(t)
	s, _, _ := newTestServer(t)

	code, body := do(t, s, http.MethodGet, "/fixes/1.7", "")
	fixes, _ := body["fixes"].([]any)
	if code != http.StatusOK || len(fixes) != 5 {
		t.Fatalf("fixes: %d %#v", code, body)
	}
	code, _ = do(t, s, http.MethodGet, "/fixes/0.1", "")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestServerSelectionRoutes(t *testing.T) {
	testlog.Start(t)
	s, core, _ := newTestServer(t)

	code, body := do(t, s, http.MethodPut, "/servers/play.example:25565", `{"version":"1.8"}`)
	if code != http.StatusOK {
		t.Fatalf("select: %d %#v", code, body)
	}
	target, err := core.TargetFor(catalog.V1_12, "play.example:25565")
	if err != nil || target != catalog.V1_8 {
		t.Fatalf("selection not applied: %q %v", target, err)
	}

	code, _ = do(t, s, http.MethodPut, "/servers/play.example:25565", `{"version":"7.7"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown version, got %d", code)
	}
	code, _ = do(t, s, http.MethodPut, "/servers/play.example:25565", `{`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", code)
	}

	code, body = do(t, s, http.MethodGet, "/servers", "")
	servers, _ := body["servers"].([]any)
	if code != http.StatusOK || len(servers) != 1 {
		t.Fatalf("servers: %d %#v", code, body)
	}
}

func TestWriteAuthGuardsSelection(t *testing.T) {
	testlog.Start(t)
	_, core, hub := newTestServer(t)
	s := New(core, hub, Options{WriteAuth: auth.StaticToken{Token: "secret"}})

	code, _ := do(t, s, http.MethodPut, "/servers/a:1", `{"version":"1.8"}`)
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", code)
	}
	code, _ = do(t, s, http.MethodPut, "/servers/a:1", `{"version":"1.8"}`, "Authorization", "Bearer wrong")
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", code)
	}
	code, _ = do(t, s, http.MethodPut, "/servers/a:1", `{"version":"1.8"}`, "Authorization", "Bearer secret")
	if code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", code)
	}
	code, _ = do(t, s, http.MethodGet, "/servers", "")
	if code != http.StatusOK {
		t.Fatalf("reads stay open, got %d", code)
	}
}

func TestSessionRoutesIncludeNotices(t *testing.T) {
	testlog.Start(t)
	s, core, _ := newTestServer(t)
	sess, err := core.OpenSession(catalog.V1_12, catalog.V1_8)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	if _, err := sess.TranslateOutbound([]byte{0x7f}); err == nil {
		t.Fatalf("expected unknown packet error")
	}

	code, body := do(t, s, http.MethodGet, "/sessions", "")
	sessions, _ := body["sessions"].([]any)
	if code != http.StatusOK || len(sessions) != 1 {
		t.Fatalf("sessions: %d %#v", code, body)
	}

	code, body = do(t, s, http.MethodGet, "/sessions/"+sess.ID(), "")
	notices, _ := body["notices"].([]any)
	if code != http.StatusOK || len(notices) != 1 {
		t.Fatalf("session detail: %d %#v", code, body)
	}

	code, body = do(t, s, http.MethodGet, "/sessions/notices", "")
	notices, _ = body["notices"].([]any)
	if code != http.StatusOK || len(notices) != 1 {
		t.Fatalf("notices: %d %#v", code, body)
	}

	code, _ = do(t, s, http.MethodGet, "/sessions/missing", "")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestNoticeHubKeepsRecent(t *testing.T) {
	testlog.Start(t)
	hub := NewNoticeHub(2)
	for _, id := range []string{"a", "b", "a"} {
		hub.Notify(session.Notice{SessionID: id, Kind: "malformed"})
	}
	if got := len(hub.Recent("")); got != 2 {
		t.Fatalf("expected 2 kept notices, got %d", got)
	}
	if got := hub.Recent("a"); len(got) != 1 {
		t.Fatalf("expected 1 notice for a, got %d", len(got))
	}
}

func TestNoticeStream(t *testing.T) {
	testlog.Start(t)
	s, _, hub := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/notices"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Notify(session.Notice{SessionID: "s-9", Kind: "untranslatable", Type: "look"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got session.Notice
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.SessionID != "s-9" || got.Type != "look" {
		t.Fatalf("unexpected notice: %+v", got)
	}

	_ = conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for hub.Subscribers() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber not removed after close")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNoticeStreamChecksOrigin(t *testing.T) {
	testlog.Start(t)
	_, core, hub := newTestServer(t)
	s := New(core, hub, Options{CorsOrigins: []string{"http://ops.example"}})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/notices"

	foreign := http.Header{"Origin": []string{"http://evil.example"}}
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, foreign)
	if err == nil {
		conn.Close()
		t.Fatalf("foreign origin must not open the notice stream")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign origin, got %+v", resp)
	}

	allowed := http.Header{"Origin": []string{"http://ops.example"}}
	conn, _, err = websocket.DefaultDialer.Dial(wsURL, allowed)
	if err != nil {
		t.Fatalf("allowed origin: %v", err)
	}
	conn.Close()
}

func TestOriginChecker(t *testing.T) {
	testlog.Start(t)
	check := originChecker([]string{"http://ops.example"})
	cases := map[string]bool{
		"":                    true,
		"http://ops.example":  true,
		"HTTP://OPS.EXAMPLE":  true,
		"http://evil.example": false,
	}
	for origin, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/sessions/notices", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		if got := check(req); got != want {
			t.Fatalf("origin %q: expected %v, got %v", origin, want, got)
		}
	}
}
