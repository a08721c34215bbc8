// Package testutil provides test fixtures and utilities.
//
// Fixtures are embedded with go:embed:
//
//	fixtures/config.toml           a complete, valid config file
//	fixtures/invalid_config.toml   a config that fails Validate
//	fixtures/curl.yaml             a melange recipe
//
// Typed helpers decode the config fixtures:
//
//	cfg, err := testutil.ValidConfig()
//	bad, err := testutil.InvalidConfig()
//
// Raw access and on-disk copies:
//
//	data := testutil.MustFixture(t, testutil.RecipeFixture)
//	path := testutil.WriteFixture(t, testutil.ConfigFixture)
package testutil
