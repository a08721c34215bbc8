package testutil

import (
	"github.com/BurntSushi/toml"

	"github.com/firefly-engineering/wolfi-dev/internal/config"
)

// Fixture names.
const (
	ConfigFixture        = "config.toml"
	InvalidConfigFixture = "invalid_config.toml"
	RecipeFixture        = "curl.yaml"
)

// LoadConfigFixture decodes a TOML fixture on top of config.Default.
// No environment overrides or validation are applied.
func LoadConfigFixture(name string) (*config.Config, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}
	cfg := config.Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidConfig returns the valid config fixture.
func ValidConfig() (*config.Config, error) {
	return LoadConfigFixture(ConfigFixture)
}

// InvalidConfig returns the invalid config fixture.
func InvalidConfig() (*config.Config, error) {
	return LoadConfigFixture(InvalidConfigFixture)
}
