// Package analyzer provides the built-in analyzer units orchestrated by
// RepoLens. Each unit is an independent, possibly slow scanning pass over a
// repository (regular-expression sweeps over file contents or go-git walks
// over commit history) producing a structured findings map.
//
// Units follow the core.Analyzer contract: they poll the cancellation token
// at bounded intervals, report coarse step progress, skip unreadable inputs
// instead of aborting, and signal history-dependent soft failures through an
// "error" key in the returned map. The heuristics are intentionally
// approximate; they surface candidates for a human (or an LLM narrative) to
// weigh, not ground truth.
package analyzer
