package analyzer

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/hupe1980/repolens/core"
	"github.com/hupe1980/repolens/repogit"
)

// expertiseCommitLimit bounds history iteration on very large repositories;
// authorship shares stabilize well before this depth.
const expertiseCommitLimit = 1000

// Expertise maps commit authorship onto contributor expertise: who carries
// the repository, how concentrated that knowledge is, and how recently each
// contributor was active.
type Expertise struct{}

// NewExpertise constructs the expertise unit.
func NewExpertise() *Expertise { return &Expertise{} }

// Kind implements core.Analyzer.
func (a *Expertise) Kind() core.Kind { return core.KindExpertise }

// Description implements core.Analyzer.
func (a *Expertise) Description() string {
	return "Maps commit authorship to contributor expertise and bus factor"
}

// Analyze implements core.Analyzer.
func (a *Expertise) Analyze(ctx context.Context, repoPath string, token *core.Token, progress core.ProgressFunc) (map[string]any, error) {
	repo, err := repogit.Open(repoPath)
	if err != nil {
		return nil, err
	}

	report(progress, 0, 2, "walking commit history")

	commits, err := repo.Commits(ctx, token, expertiseCommitLimit)
	if err != nil {
		if errors.Is(err, repogit.ErrNoHistory) {
			return softFailure("no git history available"), nil
		}
		return nil, err
	}
	if len(commits) == 0 {
		return softFailure("no git history available"), nil
	}

	report(progress, 1, 2, "aggregating authorship")

	type authorStat struct {
		name    string
		email   string
		commits int
		first   time.Time
		last    time.Time
	}
	byEmail := map[string]*authorStat{}

	for _, c := range commits {
		st, ok := byEmail[c.Email]
		if !ok {
			st = &authorStat{name: c.Author, email: c.Email, first: c.When, last: c.When}
			byEmail[c.Email] = st
		}
		st.commits++
		if c.When.Before(st.first) {
			st.first = c.When
		}
		if c.When.After(st.last) {
			st.last = c.When
		}
	}

	stats := make([]*authorStat, 0, len(byEmail))
	for _, st := range byEmail {
		stats = append(stats, st)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].commits > stats[j].commits })

	authors := make([]map[string]any, 0, len(stats))
	for _, st := range stats {
		authors = append(authors, map[string]any{
			"name":        st.name,
			"email":       st.email,
			"commits":     st.commits,
			"share":       float64(st.commits) / float64(len(commits)),
			"last_commit": st.last.UTC().Format(time.RFC3339),
		})
	}

	// Bus factor: smallest set of authors covering half the analyzed commits.
	busFactor := 0
	covered := 0
	for _, st := range stats {
		busFactor++
		covered += st.commits
		if covered*2 >= len(commits) {
			break
		}
	}

	report(progress, 2, 2, "done")

	return map[string]any{
		"authors":          authors,
		"total_authors":    len(authors),
		"analyzed_commits": len(commits),
		"bus_factor":       busFactor,
	}, nil
}
