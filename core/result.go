package core

import "fmt"

// Result is the immutable outcome of one analyzer unit within a single
// orchestration run. Exactly one terminal status holds per result:
//
//   - success with a narrative insight (and usually raw data)
//   - success with only raw analysis data (no insight produced)
//   - failure with an error message
//   - cancelled with Error set to CancelledMessage
//
// Results are keyed by their unit kind inside a run's result map and are
// never mutated after construction; use the constructor helpers below to
// preserve the status invariant.
type Result struct {
	Unit      Kind           `json:"unit"`
	Success   bool           `json:"success"`
	Cancelled bool           `json:"cancelled,omitempty"`
	Error     string         `json:"error,omitempty"`
	Insight   string         `json:"insight,omitempty"`
	Data      map[string]any `json:"analysis_data,omitempty"`
}

// SuccessResult builds a successful result. An empty insight is valid and
// means the LLM produced no narrative for the unit's findings.
func SuccessResult(unit Kind, insight string, data map[string]any) Result {
	return Result{Unit: unit, Success: true, Insight: insight, Data: data}
}

// FailureResult builds a failed result carrying the unit's error text.
func FailureResult(unit Kind, errText string) Result {
	return Result{Unit: unit, Error: errText}
}

// CancelledResult builds the terminal record for a unit whose work was
// abandoned because the shared token was cancelled.
func CancelledResult(unit Kind) Result {
	return Result{Unit: unit, Cancelled: true, Error: CancelledMessage}
}

// TimeoutResult builds the failure recorded when a unit's outcome could not
// be obtained before a deadline (either the global run ceiling or the
// per-result retrieval grace period).
func TimeoutResult(unit Kind, scope string) Result {
	return Result{Unit: unit, Error: fmt.Sprintf("analysis timed out (%s)", scope)}
}

// Status returns a short label ("success", "cancelled" or "failure") used
// for logging and metric dimensions.
func (r Result) Status() string {
	switch {
	case r.Cancelled:
		return "cancelled"
	case r.Success:
		return "success"
	default:
		return "failure"
	}
}

// Clone returns a copy with a shallow-copied Data map so cached results
// cannot be mutated through shared references.
func (r Result) Clone() Result {
	out := r
	if r.Data != nil {
		out.Data = make(map[string]any, len(r.Data))
		for k, v := range r.Data {
			out.Data[k] = v
		}
	}
	return out
}
