package recipe

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Recipe is the subset of a melange package recipe that wolfi-dev reads
// back after conversion.
type Recipe struct {
	Package     Package     `yaml:"package"`
	Environment Environment `yaml:"environment,omitempty"`
	Pipeline    []Step      `yaml:"pipeline,omitempty"`
	Subpackages []Package   `yaml:"subpackages,omitempty"`
}

// Package is the recipe's package block.
type Package struct {
	Name        string      `yaml:"name"`
	Version     string      `yaml:"version,omitempty"`
	Epoch       int         `yaml:"epoch,omitempty"`
	Description string      `yaml:"description,omitempty"`
	Copyright   []Copyright `yaml:"copyright,omitempty"`
}

// Copyright is one license entry.
type Copyright struct {
	License string `yaml:"license"`
}

// Environment lists the build-time packages.
type Environment struct {
	Contents struct {
		Packages []string `yaml:"packages,omitempty"`
	} `yaml:"contents,omitempty"`
}

// Step is one pipeline entry. Only the fields shown in summaries are kept.
type Step struct {
	Uses string         `yaml:"uses,omitempty"`
	Name string         `yaml:"name,omitempty"`
	With map[string]any `yaml:"with,omitempty"`
	Runs string         `yaml:"runs,omitempty"`
}

// Parse decodes a recipe. Unknown keys are ignored.
func Parse(data []byte) (*Recipe, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("recipe is empty")
	}

	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse recipe: %w", err)
	}
	return &r, nil
}

// Validate checks that the recipe describes the package it was generated for.
func (r *Recipe) Validate(expectedName string) error {
	if r.Package.Name == "" {
		return errors.New("recipe has no package.name")
	}
	if expectedName != "" && r.Package.Name != expectedName {
		return fmt.Errorf("recipe is for package %q, expected %q", r.Package.Name, expectedName)
	}
	if len(r.Pipeline) == 0 {
		return fmt.Errorf("recipe for %s has no pipeline steps", r.Package.Name)
	}
	return nil
}

// Licenses returns the declared licenses in order.
func (r *Recipe) Licenses() []string {
	var out []string
	for _, c := range r.Package.Copyright {
		if c.License != "" {
			out = append(out, c.License)
		}
	}
	return out
}

// Summary is a one-line description for log and status output.
func (r *Recipe) Summary() string {
	var b strings.Builder
	b.WriteString(r.Package.Name)
	if r.Package.Version != "" {
		fmt.Fprintf(&b, " %s-r%d", r.Package.Version, r.Package.Epoch)
	}

	var steps []string
	for _, s := range r.Pipeline {
		switch {
		case s.Uses != "":
			steps = append(steps, s.Uses)
		case s.Name != "":
			steps = append(steps, s.Name)
		default:
			steps = append(steps, "runs")
		}
	}
	if len(steps) > 0 {
		fmt.Fprintf(&b, " (%d steps: %s)", len(steps), strings.Join(steps, ", "))
	}
	if lic := r.Licenses(); len(lic) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(lic, ", "))
	}
	return b.String()
}
