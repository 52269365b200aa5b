package analyzer

import (
	"context"
	"regexp"
	"sort"

	"github.com/hupe1980/repolens/core"
	"github.com/hupe1980/repolens/repogit"
)

// endpointPattern matches one framework's route-declaration idiom. The
// method may come from a capture group or be fixed by the pattern itself.
type endpointPattern struct {
	framework string
	re        *regexp.Regexp
	// methodGroup/pathGroup are 1-based capture indexes; methodGroup 0 means
	// the method is implied by fixedMethod.
	methodGroup int
	pathGroup   int
	fixedMethod string
}

// endpointPatterns covers the handful of idioms that account for most route
// declarations in the wild. Completeness is explicitly a non-goal; the table
// is meant to be extended.
var endpointPatterns = []endpointPattern{
	{framework: "net/http", re: regexp.MustCompile(`http\.HandleFunc\(\s*"([^"]+)"`), pathGroup: 1, fixedMethod: "ANY"},
	{framework: "gin/echo/chi", re: regexp.MustCompile(`\b(?:r|e|g|app|router|group|mux)\.(GET|POST|PUT|PATCH|DELETE|HEAD|OPTIONS)\(\s*"([^"]+)"`), methodGroup: 1, pathGroup: 2},
	{framework: "flask", re: regexp.MustCompile(`@(?:app|bp|blueprint)\.route\(\s*['"]([^'"]+)['"]`), pathGroup: 1, fixedMethod: "GET"},
	{framework: "fastapi", re: regexp.MustCompile(`@(?:app|router)\.(get|post|put|patch|delete|head|options)\(\s*['"]([^'"]+)['"]`), methodGroup: 1, pathGroup: 2},
	{framework: "express", re: regexp.MustCompile(`\b(?:app|router)\.(get|post|put|patch|delete|head|options)\(\s*['"]([^'"]+)['"]`), methodGroup: 1, pathGroup: 2},
	{framework: "spring", re: regexp.MustCompile(`@(Get|Post|Put|Patch|Delete)Mapping\(\s*(?:value\s*=\s*)?"([^"]+)"`), methodGroup: 1, pathGroup: 2},
}

// apiSourceSuffixes limits the scan to file types the pattern table can
// meaningfully match.
var apiSourceSuffixes = []string{".go", ".py", ".js", ".ts", ".jsx", ".tsx", ".java", ".kt", ".rb"}

// APIContracts surfaces HTTP endpoint declarations across common web
// frameworks via regular-expression heuristics.
type APIContracts struct{}

// NewAPIContracts constructs the api_contracts unit.
func NewAPIContracts() *APIContracts { return &APIContracts{} }

// Kind implements core.Analyzer.
func (a *APIContracts) Kind() core.Kind { return core.KindAPIContracts }

// Description implements core.Analyzer.
func (a *APIContracts) Description() string {
	return "Surfaces HTTP endpoint declarations across common web frameworks"
}

// Analyze implements core.Analyzer.
func (a *APIContracts) Analyze(ctx context.Context, repoPath string, token *core.Token, progress core.ProgressFunc) (map[string]any, error) {
	repo, err := repogit.Open(repoPath)
	if err != nil {
		return nil, err
	}

	report(progress, 0, 2, "scanning source files for endpoint declarations")

	var endpoints []map[string]any
	frameworks := map[string]int{}

	err = repo.WalkFiles(ctx, token, func(rel string, data []byte) error {
		if !hasAnySuffix(rel, apiSourceSuffixes...) {
			return nil
		}
		for _, p := range endpointPatterns {
			for _, m := range p.re.FindAllSubmatchIndex(data, -1) {
				method := p.fixedMethod
				if p.methodGroup > 0 {
					method = normalizeMethod(string(data[m[2*p.methodGroup]:m[2*p.methodGroup+1]]))
				}
				path := string(data[m[2*p.pathGroup] : m[2*p.pathGroup+1]])
				endpoints = append(endpoints, map[string]any{
					"method":    method,
					"path":      path,
					"framework": p.framework,
					"location":  location(rel, lineOf(data, m[0])),
				})
				frameworks[p.framework]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	report(progress, 1, 2, "aggregating endpoint findings")

	sort.Slice(endpoints, func(i, j int) bool {
		return endpoints[i]["path"].(string) < endpoints[j]["path"].(string)
	})

	report(progress, 2, 2, "done")

	return map[string]any{
		"endpoints":  endpoints,
		"total":      len(endpoints),
		"frameworks": frameworks,
	}, nil
}

var upperMethod = map[string]string{
	"get": "GET", "post": "POST", "put": "PUT", "patch": "PATCH",
	"delete": "DELETE", "head": "HEAD", "options": "OPTIONS",
	"Get": "GET", "Post": "POST", "Put": "PUT", "Patch": "PATCH", "Delete": "DELETE",
}

func normalizeMethod(m string) string {
	if u, ok := upperMethod[m]; ok {
		return u
	}
	return m
}
