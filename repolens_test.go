package repolens

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/repolens/core"
	"github.com/hupe1980/repolens/internal/testutil"
	"github.com/hupe1980/repolens/model"
)

func TestAnalyzeSync(t *testing.T) {
	client := model.NewMockClient()
	client.AddResponse("alpha", "alpha narrative")

	lens := New(func(o *Options) {
		o.Client = client
		o.Analyzers = []core.Analyzer{testutil.Succeeding("alpha")}
	})

	results, err := lens.AnalyzeSync(context.Background(), t.TempDir(), nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results["alpha"].Success)
	assert.Equal(t, "alpha narrative", results["alpha"].Insight)
}

func TestAnalyze_CancelViaToken(t *testing.T) {
	blocked := testutil.Scripted("blocked", func(ctx context.Context, _ string, tk *core.Token, _ core.ProgressFunc) (map[string]any, error) {
		select {
		case <-tk.Done():
			return nil, core.ErrCancelled
		case <-time.After(10 * time.Second):
			return map[string]any{}, nil
		}
	})

	lens := New(func(o *Options) {
		o.Analyzers = []core.Analyzer{blocked}
	})

	token, done, err := lens.Analyze(context.Background(), t.TempDir(), nil, nil)
	require.NoError(t, err)

	token.Cancel()

	select {
	case run := <-done:
		require.NoError(t, run.Err)
		assert.True(t, run.Results["blocked"].Cancelled)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish after cancellation")
	}
}

func TestAnalyze_InvalidPath(t *testing.T) {
	lens := New()
	_, _, err := lens.Analyze(context.Background(), "path/to/repo", nil, nil)
	assert.Error(t, err)
}

func TestCacheSharedAcrossRuns(t *testing.T) {
	unit := testutil.Succeeding("alpha")

	lens := New(func(o *Options) {
		o.Analyzers = []core.Analyzer{unit}
	})

	dir := t.TempDir()
	_, err := lens.AnalyzeSync(context.Background(), dir, nil, nil)
	require.NoError(t, err)
	_, err = lens.AnalyzeSync(context.Background(), dir, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, unit.Calls())

	lens.ClearCache(dir)
	_, err = lens.AnalyzeSync(context.Background(), dir, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, unit.Calls())
}
