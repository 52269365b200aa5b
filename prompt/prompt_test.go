package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/repolens/core"
)

func TestBuild_KnownKind(t *testing.T) {
	got, err := Build(core.KindExpertise, map[string]any{"total_authors": 3})
	require.NoError(t, err)
	assert.Contains(t, got, "contributor authorship data")
	assert.Contains(t, got, `"total_authors": 3`)
}

func TestBuild_UnknownKindFallsBack(t *testing.T) {
	got, err := Build(core.Kind("custom_metric"), map[string]any{"value": 42})
	require.NoError(t, err)
	assert.Contains(t, got, `"custom_metric"`)
	assert.Contains(t, got, `"value": 42`)
}

func TestBuild_TruncatesLargeFindings(t *testing.T) {
	got, err := Build(core.KindTimeline, map[string]any{
		"blob": strings.Repeat("x", 20000),
	})
	require.NoError(t, err)
	assert.Less(t, len(got), 10000)
}

func TestBuild_EveryBuiltinKindHasTemplate(t *testing.T) {
	for _, k := range core.AllKinds() {
		_, ok := templates[k]
		assert.True(t, ok, "kind %s", k)
	}
}
