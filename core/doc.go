// Package core provides the foundational domain types and contracts used by
// RepoLens. It defines the core abstractions for:
//
//   - Analyzers (independent repository-scanning units of work)
//   - Results (immutable per-unit outcome records: success, failure, cancelled)
//   - Tokens (shared, poll-based cooperative cancellation signals)
//   - Progress reporting callbacks (unit-level and run-level)
//
// The package intentionally keeps implementation concerns (repository access,
// concrete analyzers, orchestration, LLM clients) out of scope, exposing small
// interfaces to enable custom analyzer units and pluggable backends. All
// exported identifiers include concise documentation to aid discoverability
// and external consumption.
package core
