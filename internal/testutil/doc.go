// Package testutil provides test fixtures and utilities.
//
// # Fixtures
//
// Fixtures are embedded using go:embed:
//
//	fixtures/config.yaml           a complete, valid config
//	fixtures/invalid_config.yaml   a config that fails Validate
//	fixtures/registry/*.json       registry index and entries (JSONC)
//	fixtures/gitignore_list.txt    languages known to the fake generator
//
// # Test Environment
//
// NewTestEnv builds an app.App over a temporary directory and installs it as
// app.Default, with fake registry and ignore services backed by the
// fixtures:
//
//	func TestConfigAdd(t *testing.T) {
//	    env := testutil.NewTestEnv(t)
//	    // run a command, then
//	    cfg := env.ReadConfig()
//	}
//
// Git invocations go to env.Executor, a system.MockExecutor, and credentials
// to env.KeyChain.
package testutil
