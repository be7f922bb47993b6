package githubimport

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalidURL = errors.New("invalid GitHub repository URL")

const (
	defaultBranch  = "main"
	fallbackBranch = "master"
)

var (
	treeURL = regexp.MustCompile(`github\.com/([^/?#]+)/([^/?#]+)/tree/([^/?#]+)(?:/([^?#]*))?`)
	repoURL = regexp.MustCompile(`github\.com/([^/?#]+)/([^/?#]+?)(?:\.git)?/?(?:[?#].*)?$`)
)

// Repository points at a directory or file inside a GitHub repository.
type Repository struct {
	Owner  string `json:"owner"`
	Name   string `json:"name"`
	Branch string `json:"branch"`
	Path   string `json:"path"`

	// explicitBranch is false when the URL named no branch, which allows the
	// lookup to fall back from main to master.
	explicitBranch bool
}

// ParseURL accepts github.com/owner/repo, an optional .git suffix and
// /tree/branch[/path] forms, with or without a scheme.
func ParseURL(raw string) (Repository, error) {
	raw = strings.TrimSpace(raw)

	if m := treeURL.FindStringSubmatch(raw); m != nil {
		return Repository{
			Owner:          m[1],
			Name:           strings.TrimSuffix(m[2], ".git"),
			Branch:         m[3],
			Path:           cleanPath(m[4]),
			explicitBranch: true,
		}, nil
	}

	if m := repoURL.FindStringSubmatch(raw); m != nil {
		return Repository{Owner: m[1], Name: m[2], Branch: defaultBranch}, nil
	}

	return Repository{}, fmt.Errorf("%w: %q (expected https://github.com/owner/repository)", ErrInvalidURL, raw)
}

// At returns a copy of r pointing at p. An empty p keeps the current path.
func (r Repository) At(p string) Repository {
	if p = cleanPath(p); p != "" {
		r.Path = p
	}

	return r
}

func cleanPath(p string) string {
	return strings.Trim(strings.TrimSpace(p), "/")
}
