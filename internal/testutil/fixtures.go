package testutil

import (
	"embed"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/config"
)

//go:embed fixtures
var fixturesFS embed.FS

// LoadFixture loads a fixture file by name, relative to the fixtures directory.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// LoadConfigFixture loads and parses a YAML config fixture.
func LoadConfigFixture(name string) (*config.Config, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}
	return config.Parse(data, config.FormatYAML)
}

// ValidConfig returns the valid config fixture.
func ValidConfig() (*config.Config, error) {
	return LoadConfigFixture("config.yaml")
}

// InvalidConfig returns the invalid config fixture.
func InvalidConfig() (*config.Config, error) {
	return LoadConfigFixture("invalid_config.yaml")
}
