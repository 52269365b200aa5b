package analyzer

import (
	"context"
	"regexp"

	"github.com/hupe1980/repolens/core"
	"github.com/hupe1980/repolens/repogit"
)

// patternHeuristic pairs a design-pattern name with the textual fingerprints
// that suggest its presence. Structural confirmation is out of scope; counts
// are candidates, not verdicts.
type patternHeuristic struct {
	name string
	res  []*regexp.Regexp
}

var patternHeuristics = []patternHeuristic{
	{
		name: "singleton",
		res: []*regexp.Regexp{
			regexp.MustCompile(`\bsync\.Once\b`),
			regexp.MustCompile(`\b[Gg]et[Ii]nstance\s*\(`),
			regexp.MustCompile(`\b__instance\b`),
		},
	},
	{
		name: "factory",
		res: []*regexp.Regexp{
			regexp.MustCompile(`\b\w*Factory\b`),
			regexp.MustCompile(`\bfunc\s+New[A-Z]\w*\s*\([^)]*\)\s*\(?\*?[A-Z]`),
			regexp.MustCompile(`\bcreate_[a-z_]+\s*\(`),
		},
	},
	{
		name: "observer",
		res: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:Subscribe|Unsubscribe|Notify[A-Z]?\w*)\s*\(`),
			regexp.MustCompile(`\bEventEmitter\b`),
			regexp.MustCompile(`\baddEventListener\s*\(`),
			regexp.MustCompile(`\bon[A-Z]\w+\s*\(\s*func`),
		},
	},
	{
		name: "builder",
		res: []*regexp.Regexp{
			regexp.MustCompile(`\b\w*Builder\b`),
			regexp.MustCompile(`\.Build\s*\(\s*\)`),
		},
	},
	{
		name: "decorator",
		res: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^\s*@[a-z_][a-z_0-9.]*\s*$`),
			regexp.MustCompile(`\b\w*Middleware\b`),
			regexp.MustCompile(`\bfunctools\.wraps\b`),
		},
	},
	{
		name: "strategy",
		res: []*regexp.Regexp{
			regexp.MustCompile(`\b\w*Strategy\b`),
			regexp.MustCompile(`\b\w*Handler\s+interface\b`),
		},
	},
}

// maxPatternExamples caps the per-pattern example list to keep findings maps
// bounded on large trees.
const maxPatternExamples = 10

// patternSourceSuffixes limits the sweep to code files.
var patternSourceSuffixes = []string{".go", ".py", ".js", ".ts", ".jsx", ".tsx", ".java", ".kt", ".rb", ".cs", ".cpp", ".c", ".rs"}

// Patterns detects common design-pattern fingerprints in source files.
type Patterns struct{}

// NewPatterns constructs the patterns unit.
func NewPatterns() *Patterns { return &Patterns{} }

// Kind implements core.Analyzer.
func (a *Patterns) Kind() core.Kind { return core.KindPatterns }

// Description implements core.Analyzer.
func (a *Patterns) Description() string {
	return "Detects design-pattern fingerprints (singleton, factory, observer, ...)"
}

// Analyze implements core.Analyzer.
func (a *Patterns) Analyze(ctx context.Context, repoPath string, token *core.Token, progress core.ProgressFunc) (map[string]any, error) {
	repo, err := repogit.Open(repoPath)
	if err != nil {
		return nil, err
	}

	report(progress, 0, 2, "scanning source files for pattern fingerprints")

	counts := map[string]int{}
	examples := map[string][]string{}

	err = repo.WalkFiles(ctx, token, func(rel string, data []byte) error {
		if !hasAnySuffix(rel, patternSourceSuffixes...) {
			return nil
		}
		for _, h := range patternHeuristics {
			for _, re := range h.res {
				for _, m := range re.FindAllIndex(data, -1) {
					counts[h.name]++
					if len(examples[h.name]) < maxPatternExamples {
						examples[h.name] = append(examples[h.name], location(rel, lineOf(data, m[0])))
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	report(progress, 2, 2, "done")

	total := 0
	for _, n := range counts {
		total += n
	}

	return map[string]any{
		"patterns": counts,
		"examples": examples,
		"total":    total,
	}, nil
}
