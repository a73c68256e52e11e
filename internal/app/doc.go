// Package app provides the execution context for forage-dev.
//
// An App carries an immutable configuration snapshot and four capabilities:
//
//	type App struct {
//	    FS       system.FileSystem
//	    Executor system.CommandExecutor
//	    Resolver resolver.Resolver
//	    KeyChain credentials.KeyChain
//	}
//
// Tasks receive the App explicitly and reach the outside world only through
// these fields, so tests swap them for mocks:
//
//	a := app.New(
//	    app.WithConfig(cfg),
//	    app.WithFileSystem(system.NewMockFS()),
//	    app.WithExecutor(system.NewMockExecutor()),
//	)
//
// The configuration is replaced as a whole with ReplaceConfig. Readers holding
// an older snapshot keep seeing it unchanged.
package app
