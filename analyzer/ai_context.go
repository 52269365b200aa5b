package analyzer

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/hupe1980/repolens/core"
	"github.com/hupe1980/repolens/repogit"
)

// languageByExt maps well-known file extensions to language names. Anything
// else is counted under its raw extension so niche stacks still show up.
var languageByExt = map[string]string{
	".go":    "Go",
	".py":    "Python",
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".java":  "Java",
	".kt":    "Kotlin",
	".rb":    "Ruby",
	".rs":    "Rust",
	".c":     "C",
	".h":     "C",
	".cpp":   "C++",
	".cc":    "C++",
	".hpp":   "C++",
	".cs":    "C#",
	".php":   "PHP",
	".swift": "Swift",
	".scala": "Scala",
	".sh":    "Shell",
	".sql":   "SQL",
	".html":  "HTML",
	".css":   "CSS",
	".yaml":  "YAML",
	".yml":   "YAML",
	".json":  "JSON",
	".md":    "Markdown",
	".proto": "Protocol Buffers",
	".tf":    "Terraform",
}

const readmeExcerptLimit = 1500

// AIContext builds a compact orientation snapshot of the repository, the
// kind of context a newcomer or an assistant needs before reading code:
// language mix, layout, active branch and the README's opening.
type AIContext struct{}

// NewAIContext constructs the context snapshot unit.
func NewAIContext() *AIContext { return &AIContext{} }

// Kind implements core.Analyzer.
func (a *AIContext) Kind() core.Kind { return core.KindAIContext }

// Description implements core.Analyzer.
func (a *AIContext) Description() string {
	return "Builds an orientation snapshot: language mix, layout and README lead"
}

// Analyze implements core.Analyzer.
func (a *AIContext) Analyze(ctx context.Context, repoPath string, token *core.Token, progress core.ProgressFunc) (map[string]any, error) {
	repo, err := repogit.Open(repoPath)
	if err != nil {
		return nil, err
	}

	report(progress, 0, 2, "scanning files")

	languages := map[string]int{}
	topDirs := map[string]int{}
	readme := ""
	fileCount := 0
	totalLines := 0

	err = repo.WalkFiles(ctx, token, func(relPath string, data []byte) error {
		fileCount++
		totalLines += strings.Count(string(data), "\n")

		ext := strings.ToLower(path.Ext(relPath))
		if lang, ok := languageByExt[ext]; ok {
			languages[lang]++
		} else if ext != "" {
			languages[ext]++
		}

		if dir, _, ok := strings.Cut(relPath, "/"); ok {
			topDirs[dir]++
		}

		if readme == "" && strings.EqualFold(relPath, "README.md") {
			readme = excerpt(string(data), readmeExcerptLimit)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	report(progress, 1, 2, "summarizing layout")

	type count struct {
		name string
		n    int
	}
	rank := func(m map[string]int) []map[string]any {
		cs := make([]count, 0, len(m))
		for k, v := range m {
			cs = append(cs, count{k, v})
		}
		sort.Slice(cs, func(i, j int) bool {
			if cs[i].n != cs[j].n {
				return cs[i].n > cs[j].n
			}
			return cs[i].name < cs[j].name
		})
		out := make([]map[string]any, 0, len(cs))
		for _, c := range cs {
			out = append(out, map[string]any{"name": c.name, "files": c.n})
		}
		return out
	}

	report(progress, 2, 2, "done")

	return map[string]any{
		"languages":      rank(languages),
		"top_dirs":       rank(topDirs),
		"branch":         repo.Branch(),
		"file_count":     fileCount,
		"total_lines":    totalLines,
		"readme_excerpt": readme,
	}, nil
}

func excerpt(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	cut := s[:limit]
	if i := strings.LastIndexByte(cut, '\n'); i > limit/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}
