package analyzer

import (
	"fmt"
	"strings"

	"github.com/hupe1980/repolens/core"
)

// Default returns one instance of every built-in analyzer unit, in registry
// order.
func Default() []core.Analyzer {
	return []core.Analyzer{
		NewExpertise(),
		NewTimeline(),
		NewAPIContracts(),
		NewAIContext(),
		NewRiskAnalysis(),
		NewPatterns(),
		NewDependencies(),
	}
}

// ForKinds resolves the requested kinds against the built-in registry,
// preserving request order. Unknown kinds are rejected.
func ForKinds(kinds []core.Kind) ([]core.Analyzer, error) {
	byKind := make(map[core.Kind]core.Analyzer)
	for _, a := range Default() {
		byKind[a.Kind()] = a
	}

	out := make([]core.Analyzer, 0, len(kinds))
	for _, k := range kinds {
		a, ok := byKind[k]
		if !ok {
			return nil, fmt.Errorf("unknown analyzer kind: %q", k)
		}
		out = append(out, a)
	}
	return out, nil
}

// report invokes the progress callback if one was supplied. Progress is
// informational only; a nil callback is the common case in tests.
func report(progress core.ProgressFunc, step, total int, status string) {
	if progress != nil {
		progress(step, total, status)
	}
}

// softFailure builds the findings map an analyzer returns when it cannot
// produce data but the condition is an expected repository property (e.g. no
// git history), not a programming error.
func softFailure(msg string) map[string]any {
	return map[string]any{core.ErrorKey: msg}
}

// lineOf returns the 1-based line number of byte offset off within data.
func lineOf(data []byte, off int) int {
	line := 1
	for _, b := range data[:off] {
		if b == '\n' {
			line++
		}
	}
	return line
}

// location renders a finding position as "path:line".
func location(path string, line int) string {
	return fmt.Sprintf("%s:%d", path, line)
}

// hasAnySuffix reports whether the path ends with one of the given suffixes.
func hasAnySuffix(path string, suffixes ...string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}
