package cache

import "github.com/hupe1980/repolens/core"

// ResultCache stores previously computed unit results keyed by
// (repository identity, analyzer kind). Implementations must be safe for
// concurrent use; clients treat a hit as authoritative for the repository
// state at scan time.
type ResultCache interface {
	// Get returns the cached result for the key, if any.
	Get(repoID string, kind core.Kind) (core.Result, bool)

	// Put stores a result under the key, replacing any previous entry.
	Put(repoID string, kind core.Kind, result core.Result)

	// Clear removes every entry for the repository, or all entries when
	// repoID is empty.
	Clear(repoID string)

	// Len reports the number of stored entries.
	Len() int
}
