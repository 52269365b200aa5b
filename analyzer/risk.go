package analyzer

import (
	"bytes"
	"context"
	"regexp"
	"sort"

	"github.com/hupe1980/repolens/core"
	"github.com/hupe1980/repolens/repogit"
)

// debtMarkers are the conventional in-source debt annotations. The trailing
// colon/space variants are left to the regex so "TODO(alice):" still counts.
var debtMarkerRe = regexp.MustCompile(`\b(TODO|FIXME|HACK|XXX|BUG)\b`)

// riskSignals are constructs that correlate with fragility; each hit counts
// toward the file's risk score.
var riskSignals = map[string]*regexp.Regexp{
	"panic":            regexp.MustCompile(`\bpanic\(`),
	"ignored_error":    regexp.MustCompile(`(?m)^\s*_\s*=\s*\w|, _ :?= `),
	"empty_catch":      regexp.MustCompile(`catch\s*\([^)]*\)\s*\{\s*\}`),
	"bare_except":      regexp.MustCompile(`(?m)^\s*except\s*:\s*$`),
	"deprecated_usage": regexp.MustCompile(`(?i)\bdeprecated\b`),
}

// oversizedLineCount marks files whose sheer size is itself a maintenance
// risk signal.
const oversizedLineCount = 600

// maxRiskHotspots bounds the reported hotspot list.
const maxRiskHotspots = 15

var riskSourceSuffixes = []string{".go", ".py", ".js", ".ts", ".jsx", ".tsx", ".java", ".kt", ".rb", ".cs", ".cpp", ".c", ".rs", ".sh"}

// RiskAnalysis surfaces technical-debt markers and fragility signals.
type RiskAnalysis struct{}

// NewRiskAnalysis constructs the risk_analysis unit.
func NewRiskAnalysis() *RiskAnalysis { return &RiskAnalysis{} }

// Kind implements core.Analyzer.
func (a *RiskAnalysis) Kind() core.Kind { return core.KindRiskAnalysis }

// Description implements core.Analyzer.
func (a *RiskAnalysis) Description() string {
	return "Surfaces technical-debt markers, fragility signals and oversized files"
}

// Analyze implements core.Analyzer.
func (a *RiskAnalysis) Analyze(ctx context.Context, repoPath string, token *core.Token, progress core.ProgressFunc) (map[string]any, error) {
	repo, err := repogit.Open(repoPath)
	if err != nil {
		return nil, err
	}

	report(progress, 0, 2, "scanning source files for debt and risk markers")

	markerCounts := map[string]int{}
	signalCounts := map[string]int{}
	fileScores := map[string]int{}
	var oversized []string

	err = repo.WalkFiles(ctx, token, func(rel string, data []byte) error {
		if !hasAnySuffix(rel, riskSourceSuffixes...) {
			return nil
		}

		score := 0
		for _, m := range debtMarkerRe.FindAllSubmatch(data, -1) {
			markerCounts[string(m[1])]++
			score++
		}
		for name, re := range riskSignals {
			n := len(re.FindAllIndex(data, -1))
			if n > 0 {
				signalCounts[name] += n
				score += n
			}
		}
		if bytes.Count(data, []byte{'\n'}) >= oversizedLineCount {
			oversized = append(oversized, rel)
			score += 5
		}
		if score > 0 {
			fileScores[rel] = score
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	report(progress, 1, 2, "ranking risk hotspots")

	type hotspot struct {
		file  string
		score int
	}
	hotspots := make([]hotspot, 0, len(fileScores))
	for f, s := range fileScores {
		hotspots = append(hotspots, hotspot{f, s})
	}
	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].score != hotspots[j].score {
			return hotspots[i].score > hotspots[j].score
		}
		return hotspots[i].file < hotspots[j].file
	})
	if len(hotspots) > maxRiskHotspots {
		hotspots = hotspots[:maxRiskHotspots]
	}

	ranked := make([]map[string]any, 0, len(hotspots))
	for _, h := range hotspots {
		ranked = append(ranked, map[string]any{"file": h.file, "score": h.score})
	}

	totalMarkers := 0
	for _, n := range markerCounts {
		totalMarkers += n
	}

	report(progress, 2, 2, "done")

	sort.Strings(oversized)

	return map[string]any{
		"debt_markers":    markerCounts,
		"risk_signals":    signalCounts,
		"hotspots":        ranked,
		"oversized_files": oversized,
		"total_markers":   totalMarkers,
	}, nil
}
