// Package repolens provides a high-level façade over the analysis
// orchestrator and its supporting services (result cache, logging, metrics,
// model client). Most applications interact with this package by:
//  1. Creating a RepoLens via New() (optionally overriding defaults)
//  2. Running analyses asynchronously (Analyze) or synchronously (AnalyzeSync)
//  3. Cancelling an in-flight run through its cancellation token
//
// The façade delegates scheduling to orchestrator.Orchestrator while keeping
// setup ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a real model client and a
// structured logger.
package repolens

import (
	"context"
	"time"

	"github.com/hupe1980/repolens/cache"
	"github.com/hupe1980/repolens/core"
	"github.com/hupe1980/repolens/logging"
	"github.com/hupe1980/repolens/metrics"
	"github.com/hupe1980/repolens/model"
	"github.com/hupe1980/repolens/orchestrator"
)

// Options configures the RepoLens instance.
type Options struct {
	// Workers is the analyzer worker-pool size per run.
	Workers int

	// GlobalTimeout bounds one full run.
	GlobalTimeout time.Duration

	// ResultTimeout bounds retrieval of a single completed result.
	ResultTimeout time.Duration

	// MaxLLMCalls caps model invocations per run (0 = unlimited).
	MaxLLMCalls int

	// Client produces per-unit narratives; nil skips narration.
	Client model.Client

	// Cache persists unit results across runs (defaults to in-memory).
	Cache cache.ResultCache

	// Metrics records Prometheus instrumentation (nil disables it).
	Metrics *metrics.Metrics

	// Logger receives structured events (defaults to a discard logger).
	Logger *logging.RepoLensLogger

	// Analyzers overrides the built-in unit registry.
	Analyzers []core.Analyzer
}

// RepoLens is the high-level façade aggregating the orchestrator's
// collaborators. One instance can analyze many repositories; the cache is
// shared across them, keyed by repository identity.
type RepoLens struct {
	opts Options
}

// Run is the outcome of one asynchronous analysis.
type Run struct {
	// Results maps each selected kind to its final result.
	Results map[core.Kind]core.Result

	// Err is non-nil only for setup-level failures (unknown kinds); unit
	// failures live inside Results.
	Err error
}

// New creates a new RepoLens instance with optional overrides.
func New(optFns ...func(o *Options)) *RepoLens {
	opts := Options{
		Workers:       orchestrator.DefaultWorkers,
		GlobalTimeout: orchestrator.DefaultGlobalTimeout,
		ResultTimeout: orchestrator.DefaultResultTimeout,
		Cache:         cache.NewInMemoryStore(),
		Logger:        logging.NewDiscardLogger(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &RepoLens{opts: opts}
}

func (r *RepoLens) newOrchestrator(repoPath string) (*orchestrator.Orchestrator, error) {
	return orchestrator.New(repoPath, r.opts.Client, func(o *orchestrator.Options) {
		o.Workers = r.opts.Workers
		o.GlobalTimeout = r.opts.GlobalTimeout
		o.ResultTimeout = r.opts.ResultTimeout
		o.MaxLLMCalls = r.opts.MaxLLMCalls
		o.Cache = r.opts.Cache
		o.Metrics = r.opts.Metrics
		o.Logger = r.opts.Logger
		o.Analyzers = r.opts.Analyzers
	})
}

// Analyze starts an asynchronous analysis of the repository and returns the
// run's cancellation token plus a channel delivering the single final Run.
// Path validation happens synchronously; everything else runs in the
// background. Cancel the token to stop the run early.
func (r *RepoLens) Analyze(ctx context.Context, repoPath string, kinds []core.Kind, progress core.RunProgressFunc) (*core.Token, <-chan Run, error) {
	orch, err := r.newOrchestrator(repoPath)
	if err != nil {
		return nil, nil, err
	}

	token := core.NewToken()
	done := make(chan Run, 1)

	go func() {
		results, err := orch.Run(ctx, token, kinds, progress)
		done <- Run{Results: results, Err: err}
	}()

	return token, done, nil
}

// AnalyzeSync is a synchronous helper that drives a run with a fresh token
// and blocks until the complete result map is available.
func (r *RepoLens) AnalyzeSync(ctx context.Context, repoPath string, kinds []core.Kind, progress core.RunProgressFunc) (map[core.Kind]core.Result, error) {
	orch, err := r.newOrchestrator(repoPath)
	if err != nil {
		return nil, err
	}
	return orch.Run(ctx, core.NewToken(), kinds, progress)
}

// ClearCache drops cached results for one repository path, or every entry
// when repoPath is empty.
func (r *RepoLens) ClearCache(repoPath string) {
	if r.opts.Cache == nil {
		return
	}
	if repoPath == "" {
		r.opts.Cache.Clear("")
		return
	}
	if orch, err := r.newOrchestrator(repoPath); err == nil {
		r.opts.Cache.Clear(orch.Repository().ID())
	}
}
