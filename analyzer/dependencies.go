package analyzer

import (
	"context"
	"path"
	"regexp"
	"sort"

	"github.com/hupe1980/repolens/core"
	"github.com/hupe1980/repolens/repogit"
)

// manifestPattern extracts (name, version) pairs from one manifest format.
type manifestPattern struct {
	filename string
	source   string
	re       *regexp.Regexp
}

var manifestPatterns = []manifestPattern{
	{filename: "go.mod", source: "gomod", re: regexp.MustCompile(`(?m)^\t([^\s]+)\s+(v[\d][^\s]*)`)},
	{filename: "package.json", source: "npm", re: regexp.MustCompile(`"([@\w][\w./@-]*)"\s*:\s*"([\^~]?\d[^"]*)"`)},
	{filename: "requirements.txt", source: "pip", re: regexp.MustCompile(`(?m)^([A-Za-z0-9_.-]+)\s*[=<>!~]=+\s*([^\s;#]+)`)},
	{filename: "Cargo.toml", source: "cargo", re: regexp.MustCompile(`(?m)^([a-z0-9_-]+)\s*=\s*"(\d[^"]*)"`)},
	{filename: "Gemfile", source: "bundler", re: regexp.MustCompile(`gem\s+['"]([\w-]+)['"],\s*['"]([^'"]+)['"]`)},
}

// Dependencies extracts declared dependency versions from well-known
// manifest files.
type Dependencies struct{}

// NewDependencies constructs the dependencies unit.
func NewDependencies() *Dependencies { return &Dependencies{} }

// Kind implements core.Analyzer.
func (a *Dependencies) Kind() core.Kind { return core.KindDependencies }

// Description implements core.Analyzer.
func (a *Dependencies) Description() string {
	return "Extracts declared dependency versions from manifest files"
}

// Analyze implements core.Analyzer.
func (a *Dependencies) Analyze(ctx context.Context, repoPath string, token *core.Token, progress core.ProgressFunc) (map[string]any, error) {
	repo, err := repogit.Open(repoPath)
	if err != nil {
		return nil, err
	}

	report(progress, 0, 2, "locating dependency manifests")

	var manifests []string
	var deps []map[string]any

	err = repo.WalkFiles(ctx, token, func(rel string, data []byte) error {
		base := path.Base(rel)
		for _, p := range manifestPatterns {
			if base != p.filename {
				continue
			}
			manifests = append(manifests, rel)
			for _, m := range p.re.FindAllSubmatch(data, -1) {
				deps = append(deps, map[string]any{
					"name":     string(m[1]),
					"version":  string(m[2]),
					"source":   p.source,
					"manifest": rel,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	report(progress, 1, 2, "aggregating dependency versions")

	sort.Slice(deps, func(i, j int) bool {
		return deps[i]["name"].(string) < deps[j]["name"].(string)
	})
	sort.Strings(manifests)

	report(progress, 2, 2, "done")

	return map[string]any{
		"manifests":    manifests,
		"dependencies": deps,
		"total":        len(deps),
	}, nil
}
