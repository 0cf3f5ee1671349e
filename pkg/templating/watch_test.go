package templating

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// waitFor polls cond until it is true or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

// startWatch runs Watch in the background and returns a stop function that
// waits for it to exit.
func startWatch(t *testing.T, tm *TemplateManager) func() {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ReloadDebounceMs = 10
	tm.SetConfig(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tm.Watch(ctx) }()

	// Give the watcher a moment to register the directories.
	time.Sleep(100 * time.Millisecond)

	return func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Watch returned error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("Watch did not stop after cancel")
		}
	}
}

func TestWatch_ReloadsOnNewPage(t *testing.T) {
	tm := setupTestManager(t)
	stop := startWatch(t, tm)
	defer stop()

	writeTemplate(t, tm.templateDir, "added.tmpl.html", `added`)

	if !waitFor(t, 5*time.Second, func() bool { return tm.IsPage("added.tmpl.html") }) {
		t.Fatalf("new page was not picked up, pages: %v", tm.GetPageNames())
	}
}

func TestWatch_ReloadsInNewSubdirectory(t *testing.T) {
	tm := setupTestManager(t)
	stop := startWatch(t, tm)
	defer stop()

	if err := os.Mkdir(filepath.Join(tm.templateDir, "guides"), 0755); err != nil {
		t.Fatalf("failed to create subdir: %v", err)
	}
	// Let the watcher register the new directory before writing into it.
	time.Sleep(100 * time.Millisecond)
	writeTemplate(t, tm.templateDir, "guides/setup.tmpl.html", `setup`)

	if !waitFor(t, 5*time.Second, func() bool { return tm.IsPage("guides/setup.tmpl.html") }) {
		t.Fatalf("page in new subdirectory was not picked up, pages: %v", tm.GetPageNames())
	}
}

func TestWatch_KeepsSetOnBrokenTemplate(t *testing.T) {
	tm := setupTestManager(t)
	stop := startWatch(t, tm)
	defer stop()

	writeTemplate(t, tm.templateDir, "broken.tmpl.html", `{{if}}`)
	writeTemplate(t, tm.templateDir, "later.tmpl.html", `later`)

	// Give the debounced refresh time to run and fail.
	time.Sleep(300 * time.Millisecond)
	if tm.IsPage("later.tmpl.html") {
		t.Error("a failed refresh must not swap in a partial set")
	}
	if !tm.IsPage("dummy.tmpl.html") {
		t.Error("previous set should remain active")
	}

	if err := os.Remove(filepath.Join(tm.templateDir, "broken.tmpl.html")); err != nil {
		t.Fatalf("failed to remove broken template: %v", err)
	}
	if !waitFor(t, 5*time.Second, func() bool { return tm.IsPage("later.tmpl.html") }) {
		t.Fatalf("removing the broken template should trigger a good refresh, pages: %v", tm.GetPageNames())
	}
}

func TestWatch_CreatesMissingDir(t *testing.T) {
	tm := setupTestManager(t)
	tm.templateDir = filepath.Join(t.TempDir(), "later", "templates")
	stop := startWatch(t, tm)
	defer stop()

	if _, err := os.Stat(tm.templateDir); err != nil {
		t.Fatalf("template directory was not created: %v", err)
	}
	writeTemplate(t, tm.templateDir, "first.tmpl.html", `first`)

	if !waitFor(t, 5*time.Second, func() bool { return tm.IsPage("first.tmpl.html") }) {
		t.Fatalf("page in created directory was not picked up, pages: %v", tm.GetPageNames())
	}
}

func TestWatch_UnusableDir(t *testing.T) {
	tm := setupTestManager(t)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	tm.templateDir = filepath.Join(blocker, "templates")
	if err := tm.Watch(context.Background()); err == nil {
		t.Fatal("expected an error when the template directory cannot be created")
	}
}
