package config

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// RepoRef identifies a hosted git repository as host/org/name.
type RepoRef struct {
	Host string
	Org  string
	Name string
}

// ParseRepo parses an https URL such as https://github.com/wolfi-dev/os.
func ParseRepo(raw string) (RepoRef, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return RepoRef{}, fmt.Errorf("invalid repository URL %q", raw)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, fmt.Errorf("repository URL %q must look like https://host/org/repo", raw)
	}

	return RepoRef{
		Host: u.Host,
		Org:  parts[0],
		Name: strings.TrimSuffix(parts[1], ".git"),
	}, nil
}

// Slug returns "org/name".
func (r RepoRef) Slug() string {
	return r.Org + "/" + r.Name
}

// Path returns the host/org/name layout used below a sandbox.
func (r RepoRef) Path() string {
	return path.Join(r.Host, r.Org, r.Name)
}

// CloneURL returns the https clone URL.
func (r RepoRef) CloneURL() string {
	return "https://" + r.Host + "/" + r.Slug() + ".git"
}

// SSHURL returns the ssh push URL.
func (r RepoRef) SSHURL() string {
	return "git@" + r.Host + ":" + r.Slug() + ".git"
}

// ForkOf returns the same repository under owner.
func (r RepoRef) ForkOf(owner string) RepoRef {
	return RepoRef{Host: r.Host, Org: owner, Name: r.Name}
}
