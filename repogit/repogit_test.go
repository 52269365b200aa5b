package repogit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/repolens/core"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// initGitRepo creates a repository with a linear history authored by the
// given names, one commit each.
func initGitRepo(t *testing.T, dir string, authors ...string) {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	for i, author := range authors {
		name := filepath.Join(dir, "file.txt")
		require.NoError(t, os.WriteFile(name, []byte(author+"\n"), 0o644))
		_, err = wt.Add("file.txt")
		require.NoError(t, err)

		_, err = wt.Commit("change "+author, &git.CommitOptions{
			Author: &object.Signature{
				Name:  author,
				Email: author + "@example.com",
				When:  time.Date(2024, time.Month(1+i%12), 1, 12, 0, 0, 0, time.UTC),
			},
		})
		require.NoError(t, err)
	}
}

func TestOpen_Validation(t *testing.T) {
	t.Run("placeholder path", func(t *testing.T) {
		_, err := Open("/path/to/repo")
		assert.ErrorIs(t, err, ErrPlaceholderPath)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "does-not-exist"))
		assert.Error(t, err)
	})

	t.Run("file instead of directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "plain.txt", "hello")
		_, err := Open(filepath.Join(dir, "plain.txt"))
		assert.ErrorIs(t, err, ErrNotDirectory)
	})

	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		repo, err := Open(dir)
		require.NoError(t, err)
		assert.NotEmpty(t, repo.ID())
		assert.Equal(t, repo.Path(), repo.path)
	})
}

func TestRepository_IDStable(t *testing.T) {
	dir := t.TempDir()
	a, err := Open(dir)
	require.NoError(t, err)
	b, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, a.ID(), b.ID())

	other, err := Open(t.TempDir())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), other.ID())
}

func TestWalkFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")
	writeFile(t, dir, "sub/handler.go", "package sub\n")
	writeFile(t, dir, "node_modules/dep/index.js", "module.exports = {}\n")
	writeFile(t, dir, ".git/config", "[core]\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blob.bin"), []byte{0x00, 0x01, 0x02}, 0o644))

	repo, err := Open(dir)
	require.NoError(t, err)

	var seen []string
	err = repo.WalkFiles(context.Background(), nil, func(rel string, data []byte) error {
		seen = append(seen, rel)
		return nil
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"main.go", "sub/handler.go"}, seen)
}

func TestWalkFiles_StopWalk(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "a")
	writeFile(t, dir, "b.txt", "b")

	repo, err := Open(dir)
	require.NoError(t, err)

	var count int
	err = repo.WalkFiles(context.Background(), nil, func(string, []byte) error {
		count++
		return ErrStopWalk
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestWalkFiles_Cancellation(t *testing.T) {
	dir := t.TempDir()
	// Enough files to pass at least one checkpoint.
	for i := 0; i < 60; i++ {
		writeFile(t, dir, filepath.Join("src", fmt.Sprintf("f%02d.txt", i)), "x")
	}

	repo, err := Open(dir)
	require.NoError(t, err)

	token := core.NewToken()
	token.Cancel()

	err = repo.WalkFiles(context.Background(), token, func(string, []byte) error { return nil })
	assert.ErrorIs(t, err, core.ErrCancelled)
}

func TestCommits(t *testing.T) {
	dir := t.TempDir()
	initGitRepo(t, dir, "alice", "bob", "alice")

	repo, err := Open(dir)
	require.NoError(t, err)

	commits, err := repo.Commits(context.Background(), nil, 0)
	require.NoError(t, err)
	require.Len(t, commits, 3)

	// Newest first.
	assert.Equal(t, "alice", commits[0].Author)
	assert.Contains(t, commits[0].Message, "change alice")
	assert.NotEmpty(t, commits[0].Hash)
}

func TestCommits_Limit(t *testing.T) {
	dir := t.TempDir()
	initGitRepo(t, dir, "alice", "bob", "carol")

	repo, err := Open(dir)
	require.NoError(t, err)

	commits, err := repo.Commits(context.Background(), nil, 2)
	require.NoError(t, err)
	assert.Len(t, commits, 2)
}

func TestCommits_NoHistory(t *testing.T) {
	repo, err := Open(t.TempDir())
	require.NoError(t, err)

	_, err = repo.Commits(context.Background(), nil, 0)
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestBranch(t *testing.T) {
	dir := t.TempDir()
	initGitRepo(t, dir, "alice")

	repo, err := Open(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, repo.Branch())

	plain, err := Open(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, plain.Branch())
}

func TestParseRemoteOwner(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"git@github.com:hupe1980/repolens.git", "hupe1980"},
		{"https://github.com/hupe1980/repolens.git", "hupe1980"},
		{"https://gitlab.com/acme/widgets", "acme"},
		{"file:///tmp/repo", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseRemoteOwner(tt.url), tt.url)
	}
}
