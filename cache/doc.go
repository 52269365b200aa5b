// Package cache provides result caching for analyzer units keyed by
// repository identity and analyzer kind. The orchestrator consults the cache
// before dispatching a unit and stores successful results afterwards, so
// repeat runs against an unchanged repository short-circuit both the scan and
// the LLM call. Entries are idempotent recomputations of the same
// deterministic scan; concurrent writers racing on the same key resolve
// last-write-wins.
package cache
