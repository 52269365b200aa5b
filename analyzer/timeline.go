package analyzer

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/hupe1980/repolens/core"
	"github.com/hupe1980/repolens/repogit"
)

const timelineCommitLimit = 1000

// Timeline buckets commit activity by month to surface the repository's
// development rhythm: bursts, lulls and the overall project age.
type Timeline struct{}

// NewTimeline constructs the timeline unit.
func NewTimeline() *Timeline { return &Timeline{} }

// Kind implements core.Analyzer.
func (a *Timeline) Kind() core.Kind { return core.KindTimeline }

// Description implements core.Analyzer.
func (a *Timeline) Description() string {
	return "Buckets commit activity by month to chart development rhythm"
}

// Analyze implements core.Analyzer.
func (a *Timeline) Analyze(ctx context.Context, repoPath string, token *core.Token, progress core.ProgressFunc) (map[string]any, error) {
	repo, err := repogit.Open(repoPath)
	if err != nil {
		return nil, err
	}

	report(progress, 0, 2, "walking commit history")

	commits, err := repo.Commits(ctx, token, timelineCommitLimit)
	if err != nil {
		if errors.Is(err, repogit.ErrNoHistory) {
			return softFailure("no git history available"), nil
		}
		return nil, err
	}
	if len(commits) == 0 {
		return softFailure("no git history available"), nil
	}

	report(progress, 1, 2, "bucketing by month")

	buckets := map[string]int{}
	first := commits[0].When
	last := commits[0].When
	for _, c := range commits {
		buckets[c.When.UTC().Format("2006-01")]++
		if c.When.Before(first) {
			first = c.When
		}
		if c.When.After(last) {
			last = c.When
		}
	}

	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Strings(months)

	activity := make([]map[string]any, 0, len(months))
	peakMonth := ""
	peakCount := 0
	for _, m := range months {
		n := buckets[m]
		activity = append(activity, map[string]any{"month": m, "commits": n})
		if n > peakCount {
			peakMonth, peakCount = m, n
		}
	}

	report(progress, 2, 2, "done")

	return map[string]any{
		"activity":         activity,
		"first_commit":     first.UTC().Format(time.RFC3339),
		"last_commit":      last.UTC().Format(time.RFC3339),
		"active_months":    len(months),
		"peak_month":       peakMonth,
		"peak_commits":     peakCount,
		"analyzed_commits": len(commits),
	}, nil
}
