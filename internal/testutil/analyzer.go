// Package testutil provides shared test doubles for orchestration tests.
package testutil

import (
	"context"
	"sync/atomic"

	"github.com/hupe1980/repolens/core"
)

// ScriptedAnalyzer is a scriptable core.Analyzer for tests. A nil Fn makes
// it succeed with a findings map {"unit": <kind>}.
type ScriptedAnalyzer struct {
	AnalyzerKind core.Kind
	Fn           func(ctx context.Context, repoPath string, token *core.Token, progress core.ProgressFunc) (map[string]any, error)

	calls atomic.Int32
}

// Succeeding returns a ScriptedAnalyzer that always succeeds.
func Succeeding(kind core.Kind) *ScriptedAnalyzer {
	return &ScriptedAnalyzer{AnalyzerKind: kind}
}

// Scripted returns a ScriptedAnalyzer driven by fn.
func Scripted(kind core.Kind, fn func(ctx context.Context, repoPath string, token *core.Token, progress core.ProgressFunc) (map[string]any, error)) *ScriptedAnalyzer {
	return &ScriptedAnalyzer{AnalyzerKind: kind, Fn: fn}
}

// Kind implements core.Analyzer.
func (s *ScriptedAnalyzer) Kind() core.Kind { return s.AnalyzerKind }

// Description implements core.Analyzer.
func (s *ScriptedAnalyzer) Description() string { return "scripted unit " + string(s.AnalyzerKind) }

// Analyze implements core.Analyzer.
func (s *ScriptedAnalyzer) Analyze(ctx context.Context, repoPath string, token *core.Token, progress core.ProgressFunc) (map[string]any, error) {
	s.calls.Add(1)
	if s.Fn != nil {
		return s.Fn(ctx, repoPath, token, progress)
	}
	return map[string]any{"unit": string(s.AnalyzerKind)}, nil
}

// Calls reports how many times Analyze ran.
func (s *ScriptedAnalyzer) Calls() int { return int(s.calls.Load()) }
