// Package testutil provides test utilities for command tests
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/app"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/config"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/credentials"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/system"
)

// TestEnv holds the test environment
type TestEnv struct {
	T          *testing.T
	TmpDir     string
	DevDir     string
	ConfigPath string
	Config     *config.Config
	Executor   *system.MockExecutor
	KeyChain   *credentials.MemoryKeyChain
	App        *app.App

	// Registry serves the fixtures under fixtures/registry.
	Registry *httptest.Server

	// Gitignore is a fake ignore file generator mounted at /api.
	Gitignore *httptest.Server

	mu       sync.Mutex
	requests []*http.Request
	cleanup  func()
}

// NewTestEnv creates a test environment using the real file system below a
// temporary directory, a mock process launcher, an in-memory keychain and
// fake online services. The environment's App becomes app.Default until the
// test ends.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()
	env := &TestEnv{
		T:          t,
		TmpDir:     tmpDir,
		DevDir:     filepath.Join(tmpDir, "dev"),
		ConfigPath: filepath.Join(tmpDir, "config", "config.yaml"),
		Executor:   system.NewMockExecutor(),
		KeyChain:   credentials.NewMemoryKeyChain(),
	}

	env.Registry = httptest.NewServer(http.HandlerFunc(env.serveRegistry))
	env.Gitignore = httptest.NewServer(http.HandlerFunc(env.serveGitignore))

	cfg := config.DefaultFor(env.DevDir)
	cfg.Registry = env.Registry.URL
	cfg.Gitignore = env.Gitignore.URL + "/api"
	env.Config = cfg

	if err := config.Save(system.DefaultFS(), env.ConfigPath, cfg); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	env.App = app.New(
		app.WithConfig(cfg),
		app.WithFileSystem(system.DefaultFS()),
		app.WithExecutor(env.Executor),
		app.WithKeyChain(env.KeyChain),
	)

	originalDefault := app.Default
	app.SetDefault(env.App)

	env.cleanup = func() {
		app.SetDefault(originalDefault)
		env.Registry.Close()
		env.Gitignore.Close()
	}
	t.Cleanup(env.Cleanup)

	return env
}

// Cleanup restores the original app default and stops the fake services
func (e *TestEnv) Cleanup() {
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
}

// Requests returns the requests received by the fake services.
func (e *TestEnv) Requests() []*http.Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*http.Request(nil), e.requests...)
}

func (e *TestEnv) record(r *http.Request) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requests = append(e.requests, r)
}

func (e *TestEnv) serveRegistry(w http.ResponseWriter, r *http.Request) {
	e.record(r)
	data, err := LoadFixture(path.Join("registry", path.Clean("/"+r.URL.Path)[1:]))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// serveGitignore mimics the gitignore.io API: /api/list returns one language
// per line and /api/<a>,<b> returns a generated section for those languages.
func (e *TestEnv) serveGitignore(w http.ResponseWriter, r *http.Request) {
	e.record(r)
	list, _ := LoadFixture("gitignore_list.txt")

	langs := strings.TrimPrefix(r.URL.Path, "/api/")
	if langs == "list" {
		_, _ = w.Write(list)
		return
	}

	known := make(map[string]bool)
	for _, lang := range strings.Fields(string(list)) {
		known[lang] = true
	}

	var body strings.Builder
	fmt.Fprintf(&body, "# Created by %s/api/%s\n", e.Gitignore.URL, langs)
	fmt.Fprintf(&body, "# Edit at %s?templates=%s\n", e.Gitignore.URL, langs)
	for _, lang := range strings.Split(langs, ",") {
		if !known[lang] {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(&body, "\n### %s ###\n%s\n", lang, IgnoreRule(lang))
	}
	fmt.Fprintf(&body, "\n# End of %s/api/%s\n", e.Gitignore.URL, langs)
	_, _ = w.Write([]byte(body.String()))
}

// IgnoreRule returns the rule the fake generator emits for lang.
func IgnoreRule(lang string) string {
	return "/" + lang + "-build/"
}

// WriteConfig replaces the config file and the App's snapshot.
func (e *TestEnv) WriteConfig(cfg *config.Config) {
	e.T.Helper()

	if err := config.Save(system.DefaultFS(), e.ConfigPath, cfg); err != nil {
		e.T.Fatalf("Failed to write config: %v", err)
	}
	e.Config = cfg
	e.App.ReplaceConfig(cfg)
}

// ReadConfig loads the config file from disk.
func (e *TestEnv) ReadConfig() *config.Config {
	e.T.Helper()

	cfg, err := config.Load(system.DefaultFS(), e.ConfigPath)
	if err != nil {
		e.T.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// CreateRepository creates the directory for a repository below DevDir and
// returns its path.
func (e *TestEnv) CreateRepository(name string) string {
	e.T.Helper()

	path := filepath.Join(e.DevDir, filepath.FromSlash(name))
	if err := system.DefaultFS().MkdirAll(path, 0755); err != nil {
		e.T.Fatalf("Failed to create repository: %v", err)
	}
	return path
}
