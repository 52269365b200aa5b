package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hupe1980/repolens/analyzer"
	"github.com/hupe1980/repolens/cache"
	"github.com/hupe1980/repolens/core"
	"github.com/hupe1980/repolens/internal/util"
	"github.com/hupe1980/repolens/logging"
	"github.com/hupe1980/repolens/metrics"
	"github.com/hupe1980/repolens/model"
	"github.com/hupe1980/repolens/prompt"
	"github.com/hupe1980/repolens/repogit"
)

const (
	// DefaultWorkers caps concurrency regardless of how many units are
	// selected. Kept small so a run never hammers the model endpoint.
	DefaultWorkers = 2

	// DefaultGlobalTimeout bounds the entire collection phase.
	DefaultGlobalTimeout = 15 * time.Minute

	// DefaultResultTimeout bounds retrieval of a single completed result.
	DefaultResultTimeout = 5 * time.Second
)

// Options configures an Orchestrator.
type Options struct {
	// Workers is the worker-pool size. Selected units beyond this count
	// queue behind the pool.
	Workers int

	// GlobalTimeout is the wall-clock ceiling for one Run call. Units still
	// outstanding when it elapses are recorded as timed-out failures.
	GlobalTimeout time.Duration

	// ResultTimeout is the grace period for retrieving one completed
	// unit's result during collection.
	ResultTimeout time.Duration

	// Logger receives structured run/unit/model events.
	Logger *logging.RepoLensLogger

	// Cache, when set, short-circuits repeat runs against the same
	// repository. Only successful results are stored.
	Cache cache.ResultCache

	// Metrics, when set, records Prometheus counters and histograms.
	Metrics *metrics.Metrics

	// MaxLLMCalls caps model invocations per Run (0 means unlimited).
	MaxLLMCalls int

	// Analyzers overrides the built-in unit registry.
	Analyzers []core.Analyzer
}

// Orchestrator runs analyzer units concurrently against one repository and
// assembles a complete per-unit result map.
type Orchestrator struct {
	repo   *repogit.Repository
	client model.Client
	opts   Options
	units  map[core.Kind]core.Analyzer
	order  []core.Kind
}

// New validates the repository path and builds an Orchestrator. The client
// may be nil, in which case successful units carry findings but no narrative.
func New(repoPath string, client model.Client, optFns ...func(o *Options)) (*Orchestrator, error) {
	opts := Options{
		Workers:       DefaultWorkers,
		GlobalTimeout: DefaultGlobalTimeout,
		ResultTimeout: DefaultResultTimeout,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.GlobalTimeout <= 0 {
		opts.GlobalTimeout = DefaultGlobalTimeout
	}
	if opts.ResultTimeout <= 0 {
		opts.ResultTimeout = DefaultResultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewDiscardLogger()
	}

	repo, err := repogit.Open(repoPath)
	if err != nil {
		return nil, err
	}

	registry := opts.Analyzers
	if len(registry) == 0 {
		registry = analyzer.Default()
	}

	units := make(map[core.Kind]core.Analyzer, len(registry))
	order := make([]core.Kind, 0, len(registry))
	for _, a := range registry {
		if _, dup := units[a.Kind()]; dup {
			return nil, fmt.Errorf("duplicate analyzer kind: %q", a.Kind())
		}
		units[a.Kind()] = a
		order = append(order, a.Kind())
	}

	return &Orchestrator{
		repo:   repo,
		client: client,
		opts:   opts,
		units:  units,
		order:  order,
	}, nil
}

// Repository returns the validated repository handle.
func (o *Orchestrator) Repository() *repogit.Repository { return o.repo }

// Kinds returns the registered unit kinds in registry order.
func (o *Orchestrator) Kinds() []core.Kind {
	out := make([]core.Kind, len(o.order))
	copy(out, o.order)
	return out
}

// runSingle executes exactly one unit and normalizes every possible outcome
// (success, unit failure, panic, cancellation) into a Result. It never
// returns an error and never lets a panic escape.
func (o *Orchestrator) runSingle(ctx context.Context, token *core.Token, unit core.Analyzer, limiter *core.CallLimiter, logger *logging.RepoLensLogger) (res core.Result) {
	kind := unit.Kind()
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			res = o.classify(kind, fmt.Errorf("analyzer panicked: %v", r), token)
		}
		logger.LogAnalyzerRun(string(kind), time.Since(started), res.Status(), nil)
		o.opts.Metrics.ObserveUnit(string(kind), res.Status(), time.Since(started))
	}()

	if token.IsCancelled() {
		return core.CancelledResult(kind)
	}

	if o.opts.Cache != nil {
		if hit, ok := o.opts.Cache.Get(o.repo.ID(), kind); ok {
			logger.Debug("cache hit", "kind", kind)
			return hit
		}
	}

	findings, err := unit.Analyze(ctx, o.repo.Path(), token, func(step, total int, status string) {
		logger.Debug("unit progress", "kind", kind, "step", step, "total", total, "status", status)
	})

	// Cancellation takes priority over whatever the unit returned.
	if token.IsCancelled() {
		return core.CancelledResult(kind)
	}
	if err != nil {
		return o.classify(kind, err, token)
	}

	// A unit reporting through its own error channel failed on its own
	// terms; there is nothing worth narrating.
	if v, ok := findings[core.ErrorKey]; ok {
		return core.FailureResult(kind, fmt.Sprintf("%v", v))
	}

	insight, err := o.narrate(ctx, token, kind, findings, limiter, logger)
	if err != nil {
		return o.classify(kind, err, token)
	}

	result := core.SuccessResult(kind, insight, findings)
	if o.opts.Cache != nil {
		o.opts.Cache.Put(o.repo.ID(), kind, result)
	}
	return result
}

// narrate builds the unit's prompt and performs the single model call. A nil
// client or an exhausted call budget yields an empty insight, not an error.
func (o *Orchestrator) narrate(ctx context.Context, token *core.Token, kind core.Kind, findings map[string]any, limiter *core.CallLimiter, logger *logging.RepoLensLogger) (string, error) {
	if o.client == nil {
		return "", nil
	}

	p, err := prompt.Build(kind, findings)
	if err != nil {
		return "", err
	}

	if err := token.Check(); err != nil {
		return "", err
	}

	if limiter != nil {
		if err := limiter.Increment(); err != nil {
			logger.Warn("model call budget exhausted", "kind", kind)
			return "", nil
		}
	}

	started := time.Now()
	insight, err := o.client.Generate(ctx, p)
	logger.LogLLMCall(o.client.Info().Name, time.Since(started), err == nil, err)
	o.opts.Metrics.ObserveLLMCall(err == nil)
	if err != nil {
		return "", fmt.Errorf("model call for %s: %w", kind, err)
	}
	return insight, nil
}

// classify maps an error to a cancelled or failed result. Cancellation wins
// whenever the token is set or the error chain says so.
func (o *Orchestrator) classify(kind core.Kind, err error, token *core.Token) core.Result {
	if token.IsCancelled() || errors.Is(err, core.ErrCancelled) || errors.Is(err, context.Canceled) ||
		strings.Contains(strings.ToLower(err.Error()), "cancelled") {
		return core.CancelledResult(kind)
	}
	return core.FailureResult(kind, err.Error())
}

// completion pairs a unit kind with the channel its result arrives on.
type completion struct {
	kind core.Kind
	ch   chan core.Result
}

// Run executes the selected unit kinds (all registered kinds when empty)
// under the bounded worker pool and returns one Result per selected kind.
// The map is always complete: every selected kind maps to a success, a
// failure, or a cancellation. Run itself fails only on unknown kinds.
func (o *Orchestrator) Run(ctx context.Context, token *core.Token, kinds []core.Kind, progress core.RunProgressFunc) (map[core.Kind]core.Result, error) {
	if token == nil {
		token = core.NewToken()
	}
	if len(kinds) == 0 {
		kinds = o.Kinds()
	}

	selected := make([]core.Analyzer, 0, len(kinds))
	for _, k := range kinds {
		unit, ok := o.units[k]
		if !ok {
			return nil, fmt.Errorf("unknown analyzer kind: %q", k)
		}
		selected = append(selected, unit)
	}

	runID := util.NewID()
	logger := o.opts.Logger.WithComponent("orchestrator").WithRun(runID, token.ID())
	logger.Info("starting analysis run", "repo", o.repo.Path(), "units", len(selected), "workers", o.opts.Workers)

	started := time.Now()
	results, outcome := o.collect(ctx, token, selected, progress, logger)

	succeeded, failed, cancelled := tally(results)
	logger.LogOrchestration(len(selected), succeeded, failed, cancelled, time.Since(started))
	o.opts.Metrics.ObserveRun(outcome, time.Since(started))

	return results, nil
}

// collect drives the worker pool and the completion loop. It returns the
// complete result map plus a coarse run outcome for instrumentation.
func (o *Orchestrator) collect(ctx context.Context, token *core.Token, selected []core.Analyzer, progress core.RunProgressFunc, logger *logging.RepoLensLogger) (map[core.Kind]core.Result, string) {
	total := len(selected)
	results := make(map[core.Kind]core.Result, total)

	var limiter *core.CallLimiter
	if o.opts.MaxLLMCalls > 0 {
		limiter = core.NewCallLimiter(o.opts.MaxLLMCalls)
	}

	// One future per unit plus a shared completion feed. Both are buffered
	// so workers never block once the collector has bailed out.
	futures := make(map[core.Kind]*completion, total)
	notify := make(chan core.Kind, total)
	jobs := make(chan core.Analyzer)

	for _, unit := range selected {
		futures[unit.Kind()] = &completion{kind: unit.Kind(), ch: make(chan core.Result, 1)}
	}

	workers := o.opts.Workers
	if workers > total {
		workers = total
	}
	for i := 0; i < workers; i++ {
		go func() {
			for unit := range jobs {
				res := o.runSingle(ctx, token, unit, limiter, logger)
				futures[unit.Kind()].ch <- res
				notify <- unit.Kind()
			}
		}()
	}

	// Submit everything up front; the pool's own queueing decides actual
	// concurrency.
	go func() {
		defer close(jobs)
		for _, unit := range selected {
			jobs <- unit
		}
	}()

	deadline := time.NewTimer(o.opts.GlobalTimeout)
	defer deadline.Stop()

	report := func(status string) {
		if progress != nil {
			progress(len(results), total, status)
		}
	}
	report("starting analysis")

	for len(results) < total {
		select {
		case kind := <-notify:
			results[kind] = o.retrieve(futures[kind])
			report(outstandingStatus(results, futures))

			if token.IsCancelled() {
				logger.Info("cancellation observed, synthesizing remaining results")
				o.opts.Metrics.ObserveCancellation()
				fillRemaining(results, futures, core.CancelledResult)
				report("analysis cancelled")
				return results, "cancelled"
			}

		case <-token.Done():
			logger.Info("cancellation requested, stopping collection")
			o.opts.Metrics.ObserveCancellation()
			fillRemaining(results, futures, core.CancelledResult)
			report("analysis cancelled")
			return results, "cancelled"

		case <-ctx.Done():
			logger.Warn("context ended before all units completed", "err", ctx.Err())
			token.Cancel()
			fillRemaining(results, futures, core.CancelledResult)
			report("analysis cancelled")
			return results, "cancelled"

		case <-deadline.C:
			logger.Warn("global timeout reached", "timeout", o.opts.GlobalTimeout)
			fillRemaining(results, futures, func(kind core.Kind) core.Result {
				return core.TimeoutResult(kind, o.opts.GlobalTimeout.String())
			})
			report("analysis timed out")
			return results, "timed_out"
		}
	}

	report("analysis complete")
	return results, "completed"
}

// retrieve reads one completed future within the per-result grace period.
// The worker writes the result before signalling, so this normally returns
// immediately; the timeout guards against a stalled send.
func (o *Orchestrator) retrieve(fut *completion) core.Result {
	select {
	case res := <-fut.ch:
		return res
	case <-time.After(o.opts.ResultTimeout):
		return core.TimeoutResult(fut.kind, "result retrieval")
	}
}

// fillRemaining synthesizes a result for every unit not yet collected.
func fillRemaining(results map[core.Kind]core.Result, futures map[core.Kind]*completion, synth func(core.Kind) core.Result) {
	for kind := range futures {
		if _, done := results[kind]; !done {
			results[kind] = synth(kind)
		}
	}
}

// outstandingStatus names the units still running so progress reports stay
// human-readable.
func outstandingStatus(results map[core.Kind]core.Result, futures map[core.Kind]*completion) string {
	var waiting []string
	for kind := range futures {
		if _, done := results[kind]; !done {
			waiting = append(waiting, string(kind))
		}
	}
	if len(waiting) == 0 {
		return "all units complete"
	}
	sort.Strings(waiting)
	return "waiting for: " + strings.Join(waiting, ", ")
}

func tally(results map[core.Kind]core.Result) (succeeded, failed, cancelled int) {
	for _, res := range results {
		switch {
		case res.Cancelled:
			cancelled++
		case res.Success:
			succeeded++
		default:
			failed++
		}
	}
	return succeeded, failed, cancelled
}
