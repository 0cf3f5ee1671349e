package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CTAG07/docmarkup/pkg/components"
)

type testEnv struct {
	dir        string
	cm         *ConfigManager
	server     *Server
	handler    http.Handler
	actionChan chan string
}

// setupTestServer builds a full server backed by a temporary data directory
// and SQLite file. Files in templates are written before the server starts.
func setupTestServer(t *testing.T, templates map[string]string) *testEnv {
	t.Helper()
	dir := t.TempDir()

	for name, content := range templates {
		path := filepath.Join(dir, "templates", filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create template dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write template %s: %v", name, err)
		}
	}

	cm, err := NewConfigManager(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("NewConfigManager failed: %v", err)
	}
	cfg := cm.Get()
	serverCfg := *cfg.Server
	serverCfg.DataDir = dir
	serverCfg.DatabasePath = filepath.Join(dir, "test.db")
	cfg.Server = &serverCfg
	if err = cm.Update(cfg); err != nil {
		t.Fatalf("failed to point config at temp dir: %v", err)
	}

	db, err := initDB(serverCfg.DatabasePath)
	if err != nil {
		t.Fatalf("initDB failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	actionChan := make(chan string, 1)
	server, err := NewServer(cm, logger, db, actionChan)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	return &testEnv{
		dir:        dir,
		cm:         cm,
		server:     server,
		handler:    server.Handler(),
		actionChan: actionChan,
	}
}

// do performs a request against the server and returns the recorded response.
func (e *testEnv) do(t *testing.T, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestHealthCheck(t *testing.T) {
	env := setupTestServer(t, nil)

	// Lock the API with a key; the health check must stay open.
	rr := env.do(t, http.MethodPost, "/api/auth/keys", `{"description":"master"}`, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create key: got %d, body %s", rr.Code, rr.Body)
	}

	rr = env.do(t, http.MethodGet, "/api/health", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("health: got %d", rr.Code)
	}
	if got := decodeJSON[map[string]string](t, rr)["status"]; got != "ok" {
		t.Errorf("health status = %q", got)
	}

	rr = env.do(t, http.MethodPost, "/api/health", "", nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST health: got %d", rr.Code)
	}
}

func TestGallery(t *testing.T) {
	env := setupTestServer(t, nil)

	rr := env.do(t, http.MethodGet, "/", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("gallery: got %d, body %s", rr.Code, rr.Body)
	}
	body := rr.Body.String()
	for _, want := range []string{
		`class="info-card"`,
		`class="feature-grid" style="grid-template-columns: repeat(2, 1fr);"`,
		`>CANCELLED</span>`,
		`class="language-bash"`,
		`class="alert-box"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("gallery missing %q", want)
		}
	}
	if !strings.Contains(body, "solid rgb(37, 99, 235);") {
		t.Error("functional card color was not kept")
	}

	// Statuses and alert types appear in lifecycle and table order.
	last := -1
	for _, s := range components.Statuses() {
		idx := strings.Index(body, ">"+string(s)+"</span>")
		if idx <= last {
			t.Errorf("status %s out of order", s)
		}
		last = idx
	}
	last = -1
	for _, a := range components.AlertTypes() {
		idx := strings.Index(body, `<strong class="alert-title">`+string(a)+`</strong>`)
		if idx <= last {
			t.Errorf("alert %s out of order", a)
		}
		last = idx
	}

	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("configured header not applied, got %q", got)
	}

	if rr = env.do(t, http.MethodGet, "/favicon.ico", "", nil); rr.Code != http.StatusNotFound {
		t.Errorf("non-root path: got %d", rr.Code)
	}
}

func TestServerAPI(t *testing.T) {
	env := setupTestServer(t, nil)

	t.Run("Version", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/api/server/version", "", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("got %d", rr.Code)
		}
		if v := decodeJSON[VersionInfo](t, rr); v.Version != Version {
			t.Errorf("version = %q, want %q", v.Version, Version)
		}
	})

	t.Run("GetConfig", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/api/server/config", "", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("got %d", rr.Code)
		}
		cfg := decodeJSON[Config](t, rr)
		if cfg.Server == nil || cfg.Server.DataDir != env.dir {
			t.Errorf("unexpected server config: %+v", cfg.Server)
		}
	})

	t.Run("PutConfig", func(t *testing.T) {
		cfg := env.cm.Get()
		serverCfg := *cfg.Server
		serverCfg.MaxPropsBytes = 64
		cfg.Server = &serverCfg
		body, _ := json.Marshal(cfg)

		rr := env.do(t, http.MethodPut, "/api/server/config", string(body), nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("got %d, body %s", rr.Code, rr.Body)
		}
		if got := env.cm.Get().Server.MaxPropsBytes; got != 64 {
			t.Errorf("MaxPropsBytes = %d, want 64", got)
		}

		if rr = env.do(t, http.MethodPut, "/api/server/config", "{", nil); rr.Code != http.StatusBadRequest {
			t.Errorf("invalid JSON: got %d", rr.Code)
		}
	})

	t.Run("Restart", func(t *testing.T) {
		if rr := env.do(t, http.MethodGet, "/api/server/restart", "", nil); rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET restart: got %d", rr.Code)
		}
		rr := env.do(t, http.MethodPost, "/api/server/restart", "", nil)
		if rr.Code != http.StatusAccepted {
			t.Fatalf("got %d", rr.Code)
		}
		if action := <-env.actionChan; action != actionRestart {
			t.Errorf("action = %q, want %q", action, actionRestart)
		}
	})

	t.Run("Shutdown", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/server/shutdown", "", nil)
		if rr.Code != http.StatusAccepted {
			t.Fatalf("got %d", rr.Code)
		}
		if action := <-env.actionChan; action != actionShutdown {
			t.Errorf("action = %q, want %q", action, actionShutdown)
		}
	})
}
