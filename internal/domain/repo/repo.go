// Package repo holds the repository reference and the file-tree snapshot
// fetched for it.
package repo

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/Strob0t/repodoc/internal/domain"
)

// DefaultHost is the only hosting platform snapshots are fetched from.
const DefaultHost = "github.com"

// segmentPattern matches a valid owner or repository name segment.
var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Ref identifies a repository on a hosting platform.
type Ref struct {
	Host  string `json:"host"`
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// FullName returns "owner/name".
func (r Ref) FullName() string { return r.Owner + "/" + r.Name }

func (r Ref) String() string { return r.Host + "/" + r.FullName() }

// FileRef is one blob in a snapshot. Contents are never fetched.
type FileRef struct {
	Path   string `json:"path"`
	BlobID string `json:"blob_id"`
}

// Snapshot is the point-in-time file listing of a repository's default branch.
type Snapshot struct {
	Owner         string    `json:"owner"`
	Name          string    `json:"name"`
	DefaultBranch string    `json:"default_branch"`
	CommitHash    string    `json:"commit_hash"`
	Files         []FileRef `json:"files"`
	Truncated     bool      `json:"truncated,omitempty"`
}

// Paths returns the file paths in snapshot order. A nil snapshot has none.
func (s *Snapshot) Paths() []string {
	if s == nil {
		return []string{}
	}
	paths := make([]string, len(s.Files))
	for i := range s.Files {
		paths[i] = s.Files[i].Path
	}
	return paths
}

// ParseURL extracts a Ref from a repository URL of the form
// [https://]host/owner/name[.git][/...]. Only host is accepted.
// Errors wrap domain.ErrInvalidInput.
func ParseURL(rawURL, host string) (Ref, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return Ref{}, fmt.Errorf("%w: empty repository URL", domain.ErrInvalidInput)
	}
	if host == "" {
		host = DefaultHost
	}

	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return Ref{}, fmt.Errorf("%w: unsupported scheme %q", domain.ErrInvalidInput, u.Scheme)
	}

	hostname := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if hostname != strings.ToLower(host) {
		return Ref{}, fmt.Errorf("%w: host %q is not %s", domain.ErrInvalidInput, u.Hostname(), host)
	}

	p := strings.Trim(path.Clean("/"+u.Path), "/")
	parts := strings.SplitN(p, "/", 3)
	if len(parts) < 2 {
		return Ref{}, fmt.Errorf("%w: expected %s/owner/name", domain.ErrInvalidInput, host)
	}
	owner, name := parts[0], strings.TrimSuffix(parts[1], ".git")
	if !segmentPattern.MatchString(owner) || !segmentPattern.MatchString(name) {
		return Ref{}, fmt.Errorf("%w: invalid owner or repository name", domain.ErrInvalidInput)
	}

	return Ref{Host: hostname, Owner: owner, Name: name}, nil
}
