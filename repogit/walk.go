package repogit

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hupe1980/repolens/core"
)

const (
	// fileCheckInterval bounds cancellation latency during file walks.
	fileCheckInterval = 25

	// maxScanFileSize caps the size of files handed to analyzers. Larger
	// files are skipped the same way unreadable ones are.
	maxScanFileSize = 1 << 20 // 1 MiB
)

// ErrStopWalk terminates a walk early without reporting an error to the
// caller of WalkFiles.
var ErrStopWalk = errors.New("stop walk")

// skipDirs are pruned entirely: version control metadata and dependency or
// build output trees contribute noise, not signal.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	".idea":        true,
	".vscode":      true,
}

// WalkFunc receives one readable text file per call: its path relative to the
// repository root and its full contents. Returning ErrStopWalk ends the walk
// without error; any other error aborts the walk and is returned as-is.
type WalkFunc func(relPath string, data []byte) error

// WalkFiles visits every regular text file under the repository root,
// pruning skipDirs and silently dropping files that are unreadable, oversized
// or binary. The token and context are polled up front and every fileCheckInterval files
// so cancellation surfaces within a bounded amount of extra work.
func (r *Repository) WalkFiles(ctx context.Context, token *core.Token, fn WalkFunc) error {
	if err := token.Check(); err != nil {
		return err
	}

	var visited int

	err := filepath.WalkDir(r.path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are non-fatal; prune directories, skip files.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != r.path && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		visited++
		if visited%fileCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := token.Check(); err != nil {
				return err
			}
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxScanFileSize {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		if isBinary(data) {
			return nil
		}

		rel, err := filepath.Rel(r.path, path)
		if err != nil {
			return nil
		}

		return fn(filepath.ToSlash(rel), data)
	})
	if errors.Is(err, ErrStopWalk) {
		return nil
	}
	return err
}

// isBinary treats any NUL byte in the leading window as a binary marker.
func isBinary(data []byte) bool {
	window := data
	if len(window) > 8000 {
		window = window[:8000]
	}
	return bytes.IndexByte(window, 0) >= 0
}
