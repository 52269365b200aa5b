package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
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

// commitAll stages everything and commits once per given author. Commits are
// spaced a month apart starting January 2024 so timeline buckets are stable.
func commitAll(t *testing.T, dir string, authors ...string) {
	t.Helper()
	repo, err := git.PlainOpen(dir)
	if err == git.ErrRepositoryNotExists {
		repo, err = git.PlainInit(dir, false)
	}
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	for i, author := range authors {
		writeFile(t, dir, "log.txt", author+" "+strconv.Itoa(i)+"\n")
		_, err = wt.Add(".")
		require.NoError(t, err)

		_, err = wt.Commit("change by "+author, &git.CommitOptions{
			Author: &object.Signature{
				Name:  author,
				Email: author + "@example.com",
				When:  time.Date(2024, time.Month(1+i%12), 1, 12, 0, 0, 0, time.UTC),
			},
		})
		require.NoError(t, err)
	}
}

// fixtureRepo builds a small polyglot repository with git history.
func fixtureRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, dir, "README.md", "# Demo Service\n\nA sample service used in tests.\n")
	writeFile(t, dir, "go.mod", "module example.com/demo\n\ngo 1.24\n\nrequire (\n\tgithub.com/google/uuid v1.6.0\n\tgithub.com/stretchr/testify v1.10.0\n)\n")
	writeFile(t, dir, "server/routes.go", `package server

import "net/http"

func Register(mux *Router) {
	http.HandleFunc("/healthz", health)
	router.GET("/users", listUsers)
	router.POST("/users", createUser)
}
`)
	writeFile(t, dir, "server/store.go", `package server

import "sync"

var once sync.Once

// TODO: split read and write paths.
func GetInstance() *Store {
	once.Do(initStore) // sync.Once guards initialization
	return instance
}

func NewStore(path string) *Store { return &Store{} }
`)
	writeFile(t, dir, "app/views.py", "@app.route('/items')\ndef items():\n    pass  # FIXME: paginate\n")

	commitAll(t, dir, "alice", "alice", "bob")
	return dir
}

func TestExpertise(t *testing.T) {
	dir := fixtureRepo(t)

	data, err := NewExpertise().Analyze(context.Background(), dir, core.NewToken(), nil)
	require.NoError(t, err)
	assert.NotContains(t, data, core.ErrorKey)

	assert.Equal(t, 2, data["total_authors"])
	assert.Equal(t, 3, data["analyzed_commits"])
	assert.Equal(t, 1, data["bus_factor"]) // alice alone covers 2 of 3

	authors := data["authors"].([]map[string]any)
	require.Len(t, authors, 2)
	assert.Equal(t, "alice", authors[0]["name"])
	assert.Equal(t, 2, authors[0]["commits"])
	assert.InDelta(t, 2.0/3.0, authors[0]["share"].(float64), 1e-9)
}

func TestExpertise_NoHistory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	data, err := NewExpertise().Analyze(context.Background(), dir, core.NewToken(), nil)
	require.NoError(t, err)
	assert.Contains(t, data, core.ErrorKey)
}

func TestTimeline(t *testing.T) {
	dir := fixtureRepo(t)

	data, err := NewTimeline().Analyze(context.Background(), dir, core.NewToken(), nil)
	require.NoError(t, err)
	assert.NotContains(t, data, core.ErrorKey)

	assert.Equal(t, 3, data["active_months"])
	assert.Equal(t, 1, data["peak_commits"])
	assert.Equal(t, "2024-01-01T12:00:00Z", data["first_commit"])
	assert.Equal(t, "2024-03-01T12:00:00Z", data["last_commit"])

	activity := data["activity"].([]map[string]any)
	require.Len(t, activity, 3)
	assert.Equal(t, "2024-01", activity[0]["month"])
}

func TestTimeline_NoHistory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	data, err := NewTimeline().Analyze(context.Background(), dir, core.NewToken(), nil)
	require.NoError(t, err)
	assert.Contains(t, data, core.ErrorKey)
}

func TestAPIContracts(t *testing.T) {
	dir := fixtureRepo(t)

	data, err := NewAPIContracts().Analyze(context.Background(), dir, core.NewToken(), nil)
	require.NoError(t, err)

	endpoints := data["endpoints"].([]map[string]any)
	byPath := map[string]map[string]any{}
	for _, ep := range endpoints {
		byPath[ep["path"].(string)] = ep
	}

	require.Contains(t, byPath, "/healthz")
	assert.Equal(t, "ANY", byPath["/healthz"]["method"])
	require.Contains(t, byPath, "/users")
	require.Contains(t, byPath, "/items")
	assert.Equal(t, "flask", byPath["/items"]["framework"])
	assert.Equal(t, len(endpoints), data["total"])
}

func TestPatterns(t *testing.T) {
	dir := fixtureRepo(t)

	data, err := NewPatterns().Analyze(context.Background(), dir, core.NewToken(), nil)
	require.NoError(t, err)

	counts := data["patterns"].(map[string]int)
	assert.Greater(t, counts["singleton"], 0)
	assert.Greater(t, counts["factory"], 0)
}

func TestRiskAnalysis(t *testing.T) {
	dir := fixtureRepo(t)

	data, err := NewRiskAnalysis().Analyze(context.Background(), dir, core.NewToken(), nil)
	require.NoError(t, err)

	markers := data["debt_markers"].(map[string]int)
	assert.Equal(t, 1, markers["TODO"])
	assert.Equal(t, 1, markers["FIXME"])
	assert.Equal(t, 2, data["total_markers"])
}

func TestDependencies(t *testing.T) {
	dir := fixtureRepo(t)

	data, err := NewDependencies().Analyze(context.Background(), dir, core.NewToken(), nil)
	require.NoError(t, err)

	manifests := data["manifests"].([]string)
	assert.Contains(t, manifests, "go.mod")

	deps := data["dependencies"].([]map[string]any)
	names := map[string]string{}
	for _, d := range deps {
		names[d["name"].(string)] = d["version"].(string)
	}
	assert.Equal(t, "v1.6.0", names["github.com/google/uuid"])
	assert.Equal(t, "v1.10.0", names["github.com/stretchr/testify"])
}

func TestAIContext(t *testing.T) {
	dir := fixtureRepo(t)

	data, err := NewAIContext().Analyze(context.Background(), dir, core.NewToken(), nil)
	require.NoError(t, err)

	assert.Contains(t, data["readme_excerpt"], "Demo Service")
	assert.Equal(t, "master", data["branch"])

	languages := data["languages"].([]map[string]any)
	seen := map[string]bool{}
	for _, l := range languages {
		seen[l["name"].(string)] = true
	}
	assert.True(t, seen["Go"])
	assert.True(t, seen["Python"])
}

func TestAnalyze_Cancelled(t *testing.T) {
	dir := fixtureRepo(t)

	token := core.NewToken()
	token.Cancel()

	for _, unit := range Default() {
		_, err := unit.Analyze(context.Background(), dir, token, nil)
		assert.ErrorIs(t, err, core.ErrCancelled, "unit %s", unit.Kind())
	}
}

func TestForKinds(t *testing.T) {
	units, err := ForKinds([]core.Kind{core.KindTimeline, core.KindExpertise})
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, core.KindTimeline, units[0].Kind())
	assert.Equal(t, core.KindExpertise, units[1].Kind())

	_, err = ForKinds([]core.Kind{"made-up"})
	assert.Error(t, err)
}

func TestProgressReported(t *testing.T) {
	dir := fixtureRepo(t)

	var statuses []string
	progress := func(step, total int, status string) {
		statuses = append(statuses, status)
	}

	_, err := NewAIContext().Analyze(context.Background(), dir, core.NewToken(), progress)
	require.NoError(t, err)
	assert.NotEmpty(t, statuses)
	assert.Equal(t, "done", statuses[len(statuses)-1])
}
