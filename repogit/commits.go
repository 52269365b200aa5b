package repogit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/hupe1980/repolens/core"
)

// commitCheckInterval bounds cancellation latency during history iteration.
const commitCheckInterval = 50

// Commit is a flattened view of one git commit with the fields analyzer
// units consume.
type Commit struct {
	Hash    string
	Author  string
	Email   string
	When    time.Time
	Message string
}

// errStopIteration terminates commit iteration early from inside ForEach.
var errStopIteration = errors.New("stop iteration")

// Commits walks history from HEAD, newest first, up to limit entries
// (limit <= 0 means unbounded). The token is polled up front and every commitCheckInterval
// commits; ErrNoHistory is returned when the path is not a git repository or
// HEAD cannot be resolved.
func (r *Repository) Commits(ctx context.Context, token *core.Token, limit int) ([]Commit, error) {
	if err := token.Check(); err != nil {
		return nil, err
	}

	repo, err := r.open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoHistory, r.path)
	}

	iter, err := repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoHistory, r.path)
	}
	defer iter.Close()

	var commits []Commit
	var seen int

	err = iter.ForEach(func(c *object.Commit) error {
		seen++
		if seen%commitCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := token.Check(); err != nil {
				return err
			}
		}

		commits = append(commits, Commit{
			Hash:    c.Hash.String(),
			Author:  c.Author.Name,
			Email:   c.Author.Email,
			When:    c.Author.When,
			Message: c.Message,
		})

		if limit > 0 && len(commits) >= limit {
			return errStopIteration
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopIteration) && !errors.Is(err, storer.ErrStop) {
		return nil, err
	}

	return commits, nil
}
