// Package orchestrator coordinates the concurrent execution of analyzer
// units against one repository.
//
// Units run under a small fixed-size worker pool and share a single
// cancellation token. The orchestrator wraps each unit so that every
// outcome, including panics and cancellation, is normalized into a
// core.Result, and the aggregate map it returns always carries exactly one
// entry per selected unit kind. Cancellation is cooperative: setting the
// token stops not-yet-started units immediately, surfaces in running units
// at their next checkpoint, and makes the collection loop synthesize
// cancelled results for everything still outstanding instead of waiting.
package orchestrator
