// Package prompt builds the natural-language prompts sent to the model for
// each completed analyzer unit. Templates are keyed by unit kind with an
// explicit default, so registering a custom analyzer requires no prompt work.
package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/repolens/core"
	"github.com/hupe1980/repolens/internal/util"
)

// maxFindingsChars bounds the serialized findings excerpt embedded in a
// prompt. Large repositories can produce very big findings maps; the model
// only needs a representative slice.
const maxFindingsChars = 6000

// templates maps each built-in unit kind to its prompt template. Kinds
// without an entry fall back to defaultTemplate.
var templates = map[core.Kind]string{
	core.KindExpertise: `Below is contributor authorship data for a code repository (commit counts, shares and recency per author, plus a bus factor).

{{.Findings}}

Summarize who carries this repository, how concentrated the knowledge is, and any continuity risks. Be concise and concrete.`,

	core.KindTimeline: `Below is monthly commit activity for a code repository (first and last commit, peak month, per-month counts).

{{.Findings}}

Describe the project's development rhythm: growth phases, bursts, lulls, and whether it looks actively maintained. Be concise.`,

	core.KindAPIContracts: `Below are HTTP endpoint declarations discovered in a code repository, grouped by framework.

{{.Findings}}

Summarize the API surface: its size, the frameworks in use, and any apparent inconsistencies in route design. Be concise.`,

	core.KindAIContext: `Below is an orientation snapshot of a code repository: language mix, top-level layout, branch and the README's opening.

{{.Findings}}

Write a short orientation brief a new engineer could read before opening the code. Be concise.`,

	core.KindRiskAnalysis: `Below are technical-debt markers and risk signals found in a code repository (TODO/FIXME density, risky constructs, hotspot files, oversized files).

{{.Findings}}

Assess the maintenance risk: where the debt concentrates and what to address first. Be concise and prioritized.`,

	core.KindPatterns: `Below are design-pattern candidates detected in a code repository via textual fingerprints.

{{.Findings}}

Comment on the architectural style these patterns suggest and whether the mix looks coherent. Treat counts as hints, not proof. Be concise.`,

	core.KindDependencies: `Below are declared dependencies extracted from the repository's manifest files.

{{.Findings}}

Summarize the dependency posture: ecosystem mix, notable libraries, and anything that looks stale or unusual. Be concise.`,
}

const defaultTemplate = `Below are structured findings produced by the "{{.Kind}}" analysis of a code repository.

{{.Findings}}

Provide a concise expert commentary on what these findings mean for the repository's health and design.`

// Build renders the prompt for one unit kind over its findings map. The
// findings are serialized to indented JSON and truncated to a bounded excerpt.
func Build(kind core.Kind, findings map[string]any) (string, error) {
	excerpt, err := summarize(findings)
	if err != nil {
		return "", fmt.Errorf("summarize findings for %s: %w", kind, err)
	}

	tmpl, ok := templates[kind]
	if !ok {
		tmpl = defaultTemplate
	}

	return util.RenderTemplate(tmpl, map[string]any{
		"Kind":     string(kind),
		"Findings": excerpt,
	})
}

func summarize(findings map[string]any) (string, error) {
	raw, err := json.MarshalIndent(findings, "", "  ")
	if err != nil {
		return "", err
	}
	return util.Truncate(string(raw), maxFindingsChars), nil
}
