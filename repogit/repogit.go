// Package repogit provides validated, read-only access to a local repository
// for analyzer units: path validation, a stable repository identity for cache
// keying, branch/remote detection and bounded commit-history iteration via
// go-git, plus a cancellable file walk that skips dependency and VCS
// directories.
package repogit

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
)

var (
	// ErrPlaceholderPath is returned when the supplied path is one of the
	// well-known documentation placeholders rather than a real location.
	ErrPlaceholderPath = errors.New("repository path is a placeholder, not a real path")

	// ErrNotDirectory is returned when the path exists but is not a directory.
	ErrNotDirectory = errors.New("repository path is not a directory")

	// ErrNoHistory is returned by history-dependent operations when the path
	// is not a git repository or its history cannot be read.
	ErrNoHistory = errors.New("repository has no git history")
)

// placeholderPaths are rejected outright; they show up when example commands
// are copied verbatim.
var placeholderPaths = map[string]bool{
	"path/to/repo":       true,
	"/path/to/repo":      true,
	"path/to/your/repo":  true,
	"/path/to/your/repo": true,
}

// Repository is a validated handle on a local repository directory. The
// git repository (if any) is opened lazily by history operations, so a plain
// source tree without version control is a valid target for file-scanning
// units.
type Repository struct {
	path string
	id   string
}

// Open validates the path and returns a repository handle. The path must
// exist, be a directory, and not be a known placeholder string.
func Open(path string) (*Repository, error) {
	if placeholderPaths[filepath.ToSlash(strings.TrimSpace(path))] {
		return nil, ErrPlaceholderPath
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat repository path: %w", err)
	}
	if !info.IsDir() {
		return nil, ErrNotDirectory
	}

	sum := sha256.Sum256([]byte(abs))

	return &Repository{path: abs, id: hex.EncodeToString(sum[:8])}, nil
}

// Path returns the absolute repository path.
func (r *Repository) Path() string { return r.path }

// ID returns a stable identity derived from the absolute path, used as the
// repository component of cache keys.
func (r *Repository) ID() string { return r.id }

// open opens the underlying git repository. Callers translate the error into
// ErrNoHistory where the distinction does not matter.
func (r *Repository) open() (*git.Repository, error) {
	return git.PlainOpen(r.path)
}

// Branch returns the current branch name, or empty string if the path is not
// a git repository or HEAD is detached. Absence of a branch is not an error.
func (r *Repository) Branch() string {
	repo, err := r.open()
	if err != nil {
		return ""
	}

	head, err := repo.Head()
	if err != nil {
		return ""
	}

	if head.Name().IsBranch() {
		return head.Name().Short()
	}

	return ""
}

// OriginOwner extracts the owner/organization segment from the origin remote
// URL, or empty string when there is no usable remote.
func (r *Repository) OriginOwner() string {
	repo, err := r.open()
	if err != nil {
		return ""
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return ""
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return ""
	}

	return parseRemoteOwner(urls[0])
}

// parseRemoteOwner extracts the owner from a hosted git URL.
// Supports: git@host:owner/repo.git, https://host/owner/repo.git
func parseRemoteOwner(url string) string {
	// SSH format: git@host:owner/repo.git
	sshPattern := regexp.MustCompile(`git@[^:]+:([^/]+)/`)
	if matches := sshPattern.FindStringSubmatch(url); len(matches) > 1 {
		return matches[1]
	}

	// HTTPS format: https://host/owner/repo.git
	httpsPattern := regexp.MustCompile(`https?://[^/]+/([^/]+)/`)
	if matches := httpsPattern.FindStringSubmatch(url); len(matches) > 1 {
		return matches[1]
	}

	return ""
}
