// Package app provides the execution context shared by forage-dev commands
// and tasks. It allows dependency injection for testing.
package app

import (
	"sync/atomic"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/config"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/credentials"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/resolver"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/system"
)

// App holds the configuration snapshot and the capabilities tasks use to
// touch the outside world.
type App struct {
	config atomic.Pointer[config.Config]

	// FS is the file access capability
	FS system.FileSystem

	// Executor launches external processes
	Executor system.CommandExecutor

	// Resolver maps names to repositories and scratchpads
	Resolver resolver.Resolver

	// KeyChain stores service credentials
	KeyChain credentials.KeyChain
}

// Option is a function that configures the App
type Option func(*App)

// WithConfig sets the initial configuration snapshot
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.config.Store(cfg)
	}
}

// WithFileSystem sets a custom file system
func WithFileSystem(fs system.FileSystem) Option {
	return func(a *App) {
		a.FS = fs
	}
}

// WithExecutor sets a custom process launcher
func WithExecutor(e system.CommandExecutor) Option {
	return func(a *App) {
		a.Executor = e
	}
}

// WithResolver sets a custom name resolver
func WithResolver(r resolver.Resolver) Option {
	return func(a *App) {
		a.Resolver = r
	}
}

// WithKeyChain sets a custom credential store
func WithKeyChain(k credentials.KeyChain) Option {
	return func(a *App) {
		a.KeyChain = k
	}
}

// New creates a new App with the given options. Capabilities that are not
// provided default to the real OS implementations.
func New(opts ...Option) *App {
	a := &App{}

	for _, opt := range opts {
		opt(a)
	}

	if a.config.Load() == nil {
		a.config.Store(config.Default())
	}
	if a.FS == nil {
		a.FS = system.DefaultFS()
	}
	if a.Executor == nil {
		a.Executor = system.DefaultExecutor()
	}
	if a.Resolver == nil {
		a.Resolver = resolver.NewDevDirectory(a.FS, a.Config)
	}
	if a.KeyChain == nil {
		a.KeyChain = credentials.NewAgeKeyChain(a.FS, credentials.DefaultDir())
	}

	return a
}

// Config returns the current configuration snapshot. The returned value must
// not be modified.
func (a *App) Config() *config.Config {
	return a.config.Load()
}

// ReplaceConfig publishes a new configuration snapshot.
func (a *App) ReplaceConfig(cfg *config.Config) {
	a.config.Store(cfg)
}

// Default is the application instance used by commands. It is built on first
// command execution unless a test has set it.
var Default *App

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault clears the default application instance
func ResetDefault() {
	Default = nil
}
