package core

import (
	"context"
	"fmt"
)

// Kind identifies an analyzer unit within the fixed registry. Kinds double as
// the keys of an orchestration run's result map.
type Kind string

// The built-in analyzer registry.
const (
	// KindExpertise maps commit authorship to areas of the tree.
	KindExpertise Kind = "expertise"
	// KindTimeline buckets commit activity over time.
	KindTimeline Kind = "timeline"
	// KindAPIContracts surfaces HTTP endpoint declarations.
	KindAPIContracts Kind = "api_contracts"
	// KindAIContext builds a compact repository census for LLM grounding.
	KindAIContext Kind = "ai_context"
	// KindRiskAnalysis surfaces technical-debt and risk markers.
	KindRiskAnalysis Kind = "risk_analysis"
	// KindPatterns detects common design-pattern heuristics.
	KindPatterns Kind = "patterns"
	// KindDependencies extracts declared dependency versions.
	KindDependencies Kind = "dependencies"
)

// AllKinds returns the full registry in stable order.
func AllKinds() []Kind {
	return []Kind{
		KindExpertise,
		KindTimeline,
		KindAPIContracts,
		KindAIContext,
		KindRiskAnalysis,
		KindPatterns,
		KindDependencies,
	}
}

// ParseKind validates a unit name against the registry.
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown analyzer kind: %q", s)
}

// String returns the registry name.
func (k Kind) String() string { return string(k) }

// ProgressFunc receives step-level progress from inside one analyzer unit.
// Invocations are purely informational and never required for correctness.
type ProgressFunc func(step, total int, status string)

// RunProgressFunc receives coarse completion progress from the orchestrator:
// how many units have reported, the total selected, and a human-readable
// status naming the units still outstanding. The completed count is
// monotonically non-decreasing across invocations.
type RunProgressFunc func(completed, total int, status string)

// Analyzer is the contract every unit must satisfy to be orchestrated.
//
// Analyze receives a repository path that has already been validated to
// exist, an optional cancellation token and an optional progress callback
// (both may be nil). It returns the unit's structured findings.
//
// Implementations should:
//   - Poll the token at bounded intervals (a few dozen files or commits) so a
//     cancellation request surfaces within a small amount of extra work.
//   - Skip unreadable files or missing history items rather than aborting;
//     individual bad inputs are non-fatal and silently excluded.
//   - Signal a unit-level failure either through the error return or through
//     an "error" key in the returned map; the orchestrator honors both.
type Analyzer interface {
	Kind() Kind
	Description() string
	Analyze(ctx context.Context, repoPath string, token *Token, progress ProgressFunc) (map[string]any, error)
}

// ErrorKey is the reserved findings-map key an analyzer may use to report a
// soft failure alongside (or instead of) its error return.
const ErrorKey = "error"
