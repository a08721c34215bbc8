package recipe

import (
	"strings"
	"testing"

	"github.com/firefly-engineering/wolfi-dev/internal/testutil"
)

const curlRecipe = `package:
  name: curl
  version: 8.10.1
  epoch: 0
  description: URL retrieval utility and library
  copyright:
    - license: MIT
environment:
  contents:
    packages:
      - build-base
      - openssl-dev
pipeline:
  - uses: fetch
    with:
      uri: https://curl.se/download/curl-${{package.version}}.tar.xz
      expected-sha256: 73a4b0e99596a09fa5924a4fb7e4b995a85fda0d18a2c02ab9cf134bebce04ee
  - uses: autoconf/configure
  - name: install
    runs: make DESTDIR="${{targets.destdir}}" install
update:
  enabled: true
`

func TestParse(t *testing.T) {
	r, err := Parse([]byte(curlRecipe))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if r.Package.Name != "curl" || r.Package.Version != "8.10.1" {
		t.Errorf("Package = %+v", r.Package)
	}
	if len(r.Pipeline) != 3 {
		t.Fatalf("Pipeline has %d steps, want 3", len(r.Pipeline))
	}
	if r.Pipeline[0].With["uri"] == nil {
		t.Error("fetch step should carry its uri")
	}
	if got := r.Environment.Contents.Packages; len(got) != 2 || got[0] != "build-base" {
		t.Errorf("Environment packages = %v", got)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"whitespace", "  \n\t"},
		{"malformed", "package: [unterminated"},
		{"wrong shape", "package: just-a-string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("Parse() should fail")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	r, err := Parse([]byte(curlRecipe))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if err := r.Validate("curl"); err != nil {
		t.Errorf("Validate(curl) error: %v", err)
	}
	if err := r.Validate(""); err != nil {
		t.Errorf("Validate(\"\") error: %v", err)
	}
	if err := r.Validate("wget"); err == nil || !strings.Contains(err.Error(), `"wget"`) {
		t.Errorf("Validate(wget) error = %v", err)
	}

	noName := &Recipe{Pipeline: []Step{{Uses: "fetch"}}}
	if err := noName.Validate("curl"); err == nil {
		t.Error("Validate() should fail without package.name")
	}

	noSteps := &Recipe{Package: Package{Name: "curl"}}
	if err := noSteps.Validate("curl"); err == nil {
		t.Error("Validate() should fail without pipeline steps")
	}
}

func TestSummary(t *testing.T) {
	r, err := Parse([]byte(curlRecipe))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	want := "curl 8.10.1-r0 (3 steps: fetch, autoconf/configure, install) [MIT]"
	if got := r.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}

	bare := &Recipe{Package: Package{Name: "x"}}
	if got := bare.Summary(); got != "x" {
		t.Errorf("Summary() = %q, want %q", got, "x")
	}
}

func TestParse_Fixture(t *testing.T) {
	r, err := Parse(testutil.MustFixture(t, testutil.RecipeFixture))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if err := r.Validate("curl"); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
	if len(r.Subpackages) != 1 {
		t.Errorf("Subpackages = %d, want 1", len(r.Subpackages))
	}
	if got := r.Summary(); !strings.HasPrefix(got, "curl 8.10.1-r0 (5 steps") {
		t.Errorf("Summary() = %q", got)
	}
}
