package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/system"
)

const (
	// EnvConfigPath overrides the default config file location.
	EnvConfigPath = "FORAGE_DEV_CONFIG"

	// EnvDevDirectory overrides the default development directory.
	EnvDevDirectory = "DEV_DIRECTORY"

	DefaultRegistry  = "https://raw.githubusercontent.com/firefly-engineering/forage-dev-registry/main/registry"
	DefaultGitignore = "https://www.toptal.com/developers/gitignore/api"
	ScratchDirName   = "scratch"
)

// Format is a config file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the encoding from a file extension, defaulting to YAML.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Config is an immutable snapshot of the user's configuration. Methods which
// change it return a new Config and leave the receiver untouched.
type Config struct {
	Directory   string            `yaml:"directory" toml:"directory"`
	Scratchpads string            `yaml:"scratchpads,omitempty" toml:"scratchpads,omitempty"`
	Registry    string            `yaml:"registry,omitempty" toml:"registry,omitempty"`
	Gitignore   string            `yaml:"gitignore,omitempty" toml:"gitignore,omitempty"`
	Services    []Service         `yaml:"services,omitempty" toml:"services,omitempty"`
	Apps        []App             `yaml:"apps,omitempty" toml:"apps,omitempty"`
	Aliases     map[string]string `yaml:"aliases,omitempty" toml:"aliases,omitempty"`
}

// Service describes a hosting service whose repositories live under
// <directory>/<domain>/<pattern>.
type Service struct {
	Domain  string `yaml:"domain" toml:"domain"`
	Website string `yaml:"website,omitempty" toml:"website,omitempty"`
	HTTPURL string `yaml:"httpUrl,omitempty" toml:"httpUrl,omitempty"`
	GitURL  string `yaml:"gitUrl,omitempty" toml:"gitUrl,omitempty"`
	Pattern string `yaml:"pattern" toml:"pattern"`
}

// App is a launchable application.
type App struct {
	Name        string   `yaml:"name" toml:"name"`
	Command     string   `yaml:"command" toml:"command"`
	Args        []string `yaml:"args,omitempty" toml:"args,omitempty"`
	Environment []string `yaml:"environment,omitempty" toml:"environment,omitempty"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return DefaultFor(defaultDevDirectory())
}

// DefaultFor returns the default configuration rooted at directory.
func DefaultFor(directory string) *Config {
	return &Config{
		Directory: directory,
		Services: []Service{
			{
				Domain:  "github.com",
				Website: "https://github.com/{{ .Repo.FullName }}",
				HTTPURL: "https://github.com/{{ .Repo.FullName }}.git",
				GitURL:  "git@github.com:{{ .Repo.FullName }}.git",
				Pattern: "*/*",
			},
		},
		Apps: []App{defaultShell()},
	}
}

func defaultShell() App {
	if runtime.GOOS == "windows" {
		return App{Name: "shell", Command: "powershell.exe"}
	}
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "bash"
	}
	return App{Name: "shell", Command: shell}
}

func defaultDevDirectory() string {
	if dir := os.Getenv(EnvDevDirectory); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "dev"
	}
	return filepath.Join(home, "dev")
}

// DefaultPath returns the config file location: $FORAGE_DEV_CONFIG, else
// $XDG_CONFIG_HOME/forage-dev/config.yaml, else ~/.config/forage-dev/config.yaml.
func DefaultPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "forage-dev", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "forage-dev", "config.yaml")
	}
	return filepath.Join(home, ".config", "forage-dev", "config.yaml")
}

// Parse decodes a config document.
func Parse(data []byte, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}
	return &cfg, nil
}

// Marshal encodes the config.
func (c *Config) Marshal(format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, fmt.Errorf("failed to encode TOML config: %w", err)
		}
	default:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return nil, fmt.Errorf("failed to encode YAML config: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML config: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// Load reads the config at path. A missing file yields Default().
func Load(fs system.FileSystem, path string) (*Config, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.IO(fmt.Sprintf("failed to read config %s", path), err)
	}

	cfg, err := Parse(data, FormatForPath(path))
	if err != nil {
		return nil, errors.Parse(fmt.Sprintf("malformed config %s", path), err).
			WithHint("Fix the file or pass another one with --config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("invalid config %s", path), err).
			WithHint("Fix the file or pass another one with --config")
	}

	return cfg, nil
}

// Save writes the config to path in the format implied by its extension.
func Save(fs system.FileSystem, path string, cfg *Config) error {
	data, err := cfg.Marshal(FormatForPath(path))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := fs.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Validate checks that the Config is valid.
func (c *Config) Validate() error {
	if c.Directory == "" {
		return fmt.Errorf("directory is required")
	}

	domains := make(map[string]bool, len(c.Services))
	for i, s := range c.Services {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("service %d: %w", i, err)
		}
		if domains[s.Domain] {
			return fmt.Errorf("duplicate service %s", s.Domain)
		}
		domains[s.Domain] = true
	}

	names := make(map[string]bool, len(c.Apps))
	for i, a := range c.Apps {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("app %d: %w", i, err)
		}
		if names[a.Name] {
			return fmt.Errorf("duplicate app %s", a.Name)
		}
		names[a.Name] = true
	}

	for alias, target := range c.Aliases {
		if !strings.Contains(target, "/") {
			return fmt.Errorf("alias %s: target %q is not a repository name", alias, target)
		}
	}

	return nil
}

// Validate checks that the Service is valid.
func (s *Service) Validate() error {
	if s.Domain == "" {
		return fmt.Errorf("domain is required")
	}
	if s.Pattern == "" {
		return fmt.Errorf("pattern is required")
	}
	if _, err := filepath.Match(s.Pattern, ""); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", s.Pattern, err)
	}
	return nil
}

// Depth returns how many path segments a repository name has under this
// service, e.g. 2 for "*/*".
func (s *Service) Depth() int {
	return len(strings.Split(s.Pattern, "/"))
}

// Validate checks that the App is valid.
func (a *App) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("name is required")
	}
	if a.Command == "" {
		return fmt.Errorf("command is required")
	}
	return nil
}

// ScratchDirectory returns where scratchpads are kept.
func (c *Config) ScratchDirectory() string {
	if c.Scratchpads != "" {
		return c.Scratchpads
	}
	return filepath.Join(c.Directory, ScratchDirName)
}

// RegistryURL returns the config template registry endpoint.
func (c *Config) RegistryURL() string {
	if c.Registry != "" {
		return c.Registry
	}
	return DefaultRegistry
}

// GitignoreURL returns the ignore file generator endpoint.
func (c *Config) GitignoreURL() string {
	if c.Gitignore != "" {
		return c.Gitignore
	}
	return DefaultGitignore
}

// App returns the app with the given name, or nil.
func (c *Config) App(name string) *App {
	for i := range c.Apps {
		if c.Apps[i].Name == name {
			a := c.Apps[i]
			return &a
		}
	}
	return nil
}

// DefaultApp returns the first configured app, or nil.
func (c *Config) DefaultApp() *App {
	if len(c.Apps) == 0 {
		return nil
	}
	a := c.Apps[0]
	return &a
}

// Service returns the service for domain, or nil.
func (c *Config) Service(domain string) *Service {
	for i := range c.Services {
		if c.Services[i].Domain == domain {
			s := c.Services[i]
			return &s
		}
	}
	return nil
}

// DefaultService returns the first configured service, or nil.
func (c *Config) DefaultService() *Service {
	if len(c.Services) == 0 {
		return nil
	}
	s := c.Services[0]
	return &s
}

// Alias returns the repository an alias points at, or "".
func (c *Config) Alias(name string) string {
	return c.Aliases[name]
}

// WithApp returns a config containing app. If an app with the same name is
// already present the receiver is returned unchanged.
func (c *Config) WithApp(app App) *Config {
	if c.App(app.Name) != nil {
		return c
	}
	n := c.clone()
	n.Apps = append(n.Apps, cloneApp(app))
	return n
}

// WithService returns a config containing svc. If a service with the same
// domain is already present the receiver is returned unchanged.
func (c *Config) WithService(svc Service) *Config {
	if c.Service(svc.Domain) != nil {
		return c
	}
	n := c.clone()
	n.Services = append(n.Services, svc)
	return n
}

// WithAlias returns a config where alias points at repo.
func (c *Config) WithAlias(alias, repo string) *Config {
	n := c.clone()
	if n.Aliases == nil {
		n.Aliases = make(map[string]string)
	}
	n.Aliases[alias] = repo
	return n
}

// Equal reports whether two configs hold the same values.
func (c *Config) Equal(other *Config) bool {
	return reflect.DeepEqual(c, other)
}

func (c *Config) clone() *Config {
	n := *c
	if c.Services != nil {
		n.Services = append([]Service(nil), c.Services...)
	}
	if c.Apps != nil {
		n.Apps = make([]App, len(c.Apps))
		for i, a := range c.Apps {
			n.Apps[i] = cloneApp(a)
		}
	}
	if c.Aliases != nil {
		n.Aliases = make(map[string]string, len(c.Aliases))
		for k, v := range c.Aliases {
			n.Aliases[k] = v
		}
	}
	return &n
}

func cloneApp(a App) App {
	if a.Args != nil {
		a.Args = append([]string(nil), a.Args...)
	}
	if a.Environment != nil {
		a.Environment = append([]string(nil), a.Environment...)
	}
	return a
}

// RepoRef is the view of a repository that service URL templates can use.
type RepoRef interface {
	Name() string
	FullName() string
	Domain() string
}

type templateData struct {
	Repo    RepoRef
	Service *Service
}

// GitURLFor renders the service's git remote URL for repo.
func (s *Service) GitURLFor(repo RepoRef) (string, error) {
	return s.render("gitUrl", s.GitURL, repo)
}

// HTTPURLFor renders the service's HTTP clone URL for repo.
func (s *Service) HTTPURLFor(repo RepoRef) (string, error) {
	return s.render("httpUrl", s.HTTPURL, repo)
}

// WebsiteFor renders the service's website URL for repo.
func (s *Service) WebsiteFor(repo RepoRef) (string, error) {
	return s.render("website", s.Website, repo)
}

func (s *Service) render(field, text string, repo RepoRef) (string, error) {
	if text == "" {
		return "", fmt.Errorf("service %s has no %s configured", s.Domain, field)
	}
	tmpl, err := template.New(field).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("invalid %s template for %s: %w", field, s.Domain, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData{Repo: repo, Service: s}); err != nil {
		return "", fmt.Errorf("failed to render %s for %s: %w", field, s.Domain, err)
	}
	return buf.String(), nil
}
