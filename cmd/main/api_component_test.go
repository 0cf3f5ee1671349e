package main

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/CTAG07/docmarkup/pkg/components"
)

func TestComponentAPI(t *testing.T) {
	env := setupTestServer(t, nil)

	t.Run("List", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/api/components", "", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("got %d", rr.Code)
		}
		catalog := decodeJSON[ComponentCatalog](t, rr)
		if strings.Join(catalog.Components, ",") != "infoCard,featureGrid,statusBadge,codeBlock,alertBox" {
			t.Errorf("components = %v", catalog.Components)
		}
		if catalog.StatusColors["RUNNING"] != "#16a34a" {
			t.Errorf("RUNNING color = %q", catalog.StatusColors["RUNNING"])
		}
		if catalog.AlertStyles["warning"].Border != "#f59e0b" {
			t.Errorf("warning style = %+v", catalog.AlertStyles["warning"])
		}
		if catalog.DefaultStatus != "#6b7280" {
			t.Errorf("default status color = %q", catalog.DefaultStatus)
		}
	})

	t.Run("RenderJSONProps", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/components/statusBadge", `{"status":"RUNNING"}`, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("got %d, body %s", rr.Code, rr.Body)
		}
		want := `<span class="status-badge" style="background-color: #16a34a;">RUNNING</span>`
		if rr.Body.String() != want {
			t.Errorf("body = %q, want %q", rr.Body.String(), want)
		}
		if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("content type = %q", ct)
		}
	})

	t.Run("RenderYAMLProps", func(t *testing.T) {
		props := "type: warning\ntitle: Careful\nmessage: Disk almost full\n"
		rr := env.do(t, http.MethodPost, "/api/components/alertBox", props,
			map[string]string{"Content-Type": "application/yaml; charset=utf-8"})
		if rr.Code != http.StatusOK {
			t.Fatalf("got %d, body %s", rr.Code, rr.Body)
		}
		body := rr.Body.String()
		for _, want := range []string{"#fef3c7", "#f59e0b", "⚠️", "Careful", "Disk almost full"} {
			if !strings.Contains(body, want) {
				t.Errorf("body missing %q:\n%s", want, body)
			}
		}
	})

	t.Run("RenderEscapesProps", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/components/codeBlock",
			`{"language":"html","code":"<script>alert(1)</script>"}`, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("got %d", rr.Code)
		}
		if strings.Contains(rr.Body.String(), "<script>") {
			t.Errorf("code was not escaped: %s", rr.Body)
		}
	})

	t.Run("RenderFormatJSON", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/components/infoCard?format=json", `{"title":"Fast"}`, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("got %d", rr.Code)
		}
		resp := decodeJSON[RenderResponse](t, rr)
		if resp.Component != "infoCard" || !strings.Contains(resp.HTML, "Fast") {
			t.Errorf("unexpected response: %+v", resp)
		}
	})

	t.Run("RenderEmptyBody", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/components/featureGrid", "", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("got %d", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "repeat(3, 1fr)") {
			t.Errorf("default columns not applied: %s", rr.Body)
		}
	})

	t.Run("Errors", func(t *testing.T) {
		if rr := env.do(t, http.MethodPost, "/api/components/carousel", `{}`, nil); rr.Code != http.StatusNotFound {
			t.Errorf("unknown component: got %d", rr.Code)
		}
		if rr := env.do(t, http.MethodPost, "/api/components/infoCard", `{"title":`, nil); rr.Code != http.StatusBadRequest {
			t.Errorf("bad props: got %d", rr.Code)
		}
		if rr := env.do(t, http.MethodGet, "/api/components/infoCard", "", nil); rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET render: got %d", rr.Code)
		}
		if rr := env.do(t, http.MethodPost, "/api/components", "", nil); rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST list: got %d", rr.Code)
		}
	})

	t.Run("PropsTooLarge", func(t *testing.T) {
		cfg := env.cm.Get()
		serverCfg := *cfg.Server
		serverCfg.MaxPropsBytes = 16
		cfg.Server = &serverCfg
		if err := env.cm.Update(cfg); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		rr := env.do(t, http.MethodPost, "/api/components/infoCard", `{"title":"way more than sixteen bytes"}`, nil)
		if rr.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("got %d, want 413", rr.Code)
		}
	})
}

func TestStatsAPI(t *testing.T) {
	env := setupTestServer(t, nil)

	env.do(t, http.MethodPost, "/api/components/statusBadge", `{"status":"DRAFT"}`, nil)
	env.do(t, http.MethodPost, "/api/components/statusBadge", `{"status":"PAUSED"}`, nil)
	env.do(t, http.MethodPost, "/api/components/alertBox", `{"type":`, nil)
	// Unknown components are not counted.
	env.do(t, http.MethodPost, "/api/components/carousel", `{}`, nil)

	rr := env.do(t, http.MethodGet, "/api/stats/summary", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("summary: got %d", rr.Code)
	}
	summary := decodeJSON[GlobalStatsSummary](t, rr)
	if summary.TotalRenders != 2 || summary.TotalErrors != 1 || summary.UniqueComponents != 2 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.TotalBytes == 0 {
		t.Error("rendered bytes were not counted")
	}

	rr = env.do(t, http.MethodGet, "/api/stats/components", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("components: got %d", rr.Code)
	}
	stats := decodeJSON[[]ComponentStats](t, rr)
	if len(stats) != 2 || stats[0].Component != "statusBadge" || stats[0].TotalRenders != 2 {
		t.Fatalf("unexpected component stats: %+v", stats)
	}
	if stats[1].Component != "alertBox" || stats[1].TotalErrors != 1 || stats[1].TotalBytes != 0 {
		t.Errorf("unexpected alertBox stats: %+v", stats[1])
	}
	if stats[0].FirstSeen.IsZero() || stats[0].LastSeen.Before(stats[0].FirstSeen) {
		t.Errorf("bad timestamps: %+v", stats[0])
	}
}

func TestStatsDisabled(t *testing.T) {
	env := setupTestServer(t, nil)

	cfg := env.cm.Get()
	serverCfg := *cfg.Server
	serverCfg.StatsConfig = &StatsConfig{Enabled: false, TopLimit: 10}
	cfg.Server = &serverCfg
	if err := env.cm.Update(cfg); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	out := components.StatusBadge(components.StatusBadgeConfig{Status: components.StatusRunning})
	if err := env.server.statsAPI.RecordRender(context.Background(), "statusBadge", len(out), nil); err != nil {
		t.Fatalf("RecordRender failed: %v", err)
	}
	summary, err := env.server.statsAPI.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.TotalRenders != 0 {
		t.Errorf("disabled stats should not record, got %+v", summary)
	}
}

func TestDecoderFor(t *testing.T) {
	var v map[string]any
	for _, kind := range []string{"application/yaml", ".yml", ".YAML"} {
		if err := decoderFor(kind)([]byte("status: RUNNING"), &v); err != nil {
			t.Errorf("%s should decode YAML: %v", kind, err)
		}
	}
	if err := decoderFor("application/json")([]byte("status: RUNNING"), &v); err == nil {
		t.Error("JSON decoder should reject YAML")
	}
	if err := decoderFor("")([]byte(`{"status":"RUNNING"}`), &v); err != nil {
		t.Errorf("default decoder should accept JSON: %v", err)
	}
}
