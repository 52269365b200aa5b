package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultConstructors_StatusInvariant(t *testing.T) {
	tests := []struct {
		name       string
		result     Result
		wantStatus string
	}{
		{"success with insight", SuccessResult(KindTimeline, "busy repo", map[string]any{"commits": 3}), "success"},
		{"success without insight", SuccessResult(KindTimeline, "", map[string]any{"commits": 3}), "success"},
		{"failure", FailureResult(KindTimeline, "no git history"), "failure"},
		{"cancelled", CancelledResult(KindTimeline), "cancelled"},
		{"timeout", TimeoutResult(KindTimeline, "global"), "failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.result.Status())
			// Exactly one terminal status holds.
			if tt.result.Cancelled {
				assert.False(t, tt.result.Success)
				assert.Equal(t, CancelledMessage, tt.result.Error)
			}
			if tt.result.Success {
				assert.Empty(t, tt.result.Error)
				assert.False(t, tt.result.Cancelled)
			}
			if tt.wantStatus == "failure" {
				assert.NotEmpty(t, tt.result.Error)
			}
		})
	}
}

func TestResult_Clone(t *testing.T) {
	orig := SuccessResult(KindPatterns, "insight", map[string]any{"count": 1})
	clone := orig.Clone()

	clone.Data["count"] = 99
	assert.Equal(t, 1, orig.Data["count"])
	assert.Equal(t, orig.Unit, clone.Unit)
	assert.Equal(t, orig.Insight, clone.Insight)
}

func TestResult_CloneNilData(t *testing.T) {
	orig := FailureResult(KindPatterns, "boom")
	clone := orig.Clone()
	assert.Nil(t, clone.Data)
	assert.Equal(t, orig, clone)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("expertise")
	assert.NoError(t, err)
	assert.Equal(t, KindExpertise, k)

	_, err = ParseKind("nonsense")
	assert.Error(t, err)
}

func TestAllKinds_Unique(t *testing.T) {
	seen := map[Kind]bool{}
	for _, k := range AllKinds() {
		assert.False(t, seen[k], "duplicate kind %s", k)
		seen[k] = true
	}
	assert.Len(t, seen, 7)
}

func TestCallLimiter(t *testing.T) {
	cl := NewCallLimiter(2)
	assert.NoError(t, cl.Increment())
	assert.NoError(t, cl.Increment())
	assert.Error(t, cl.Increment())
	assert.Equal(t, 3, cl.Count())

	unlimited := NewCallLimiter(0)
	assert.NoError(t, unlimited.Increment())
	assert.Equal(t, -1, unlimited.Remaining())
}
