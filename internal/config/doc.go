// Package config provides the forage-dev configuration snapshot.
//
// A Config is loaded from a YAML or TOML file (chosen by extension) and is
// never modified in place. Updates such as WithApp and WithService return a
// new Config, which callers publish through app.App.ReplaceConfig:
//
//	cfg := a.Config().WithApp(config.App{Name: "code", Command: "code"})
//	a.ReplaceConfig(cfg)
//
// Apps are keyed by name and services by domain. Adding an entry whose key is
// already present keeps the existing entry, so applying the same update twice
// yields an equal Config.
//
// # File Location
//
// The file is looked up in this order:
//
//   - the --config flag
//   - $FORAGE_DEV_CONFIG
//   - $XDG_CONFIG_HOME/forage-dev/config.yaml
//   - ~/.config/forage-dev/config.yaml
//
// A missing file is not an error; Load returns Default().
//
// # URL Templates
//
// Service URLs are text/template strings evaluated against the repository:
//
//	gitUrl: git@github.com:{{ .Repo.FullName }}.git
package config
