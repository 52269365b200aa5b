// Package main implements the repolens CLI: parallel repository analysis
// with optional LLM narration from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/hupe1980/repolens/analyzer"
	"github.com/hupe1980/repolens/config"
	"github.com/hupe1980/repolens/core"
	"github.com/hupe1980/repolens/logging"
	"github.com/hupe1980/repolens/model"
	"github.com/hupe1980/repolens/model/anthropic"
	"github.com/hupe1980/repolens/model/openai"
	"github.com/hupe1980/repolens/orchestrator"
)

var version = "dev"

var (
	configPath   string
	flagUnits    []string
	flagWorkers  int
	flagTimeout  string
	flagProvider string
	flagNoLLM    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "repolens",
	Short: "Heuristic repository insights with LLM narration",
	Long: `repolens scans a local git repository with a set of independent analyzer
units (authorship, activity timeline, API surface, risk signals, design
patterns, dependencies) running under a bounded worker pool with cooperative
cancellation, and optionally asks an LLM for narrative commentary per unit.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(unitsCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <repo-path>",
	Short: "Run analyzer units against a repository",
	Long: `Run the selected analyzer units against a local repository and print
each unit's findings and narrative.

Examples:
  # Run every unit without LLM narration
  repolens analyze --no-llm ~/src/myrepo

  # Run two units with Anthropic narration
  repolens analyze --analyzers expertise,timeline --provider anthropic ~/src/myrepo`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List the available analyzer units",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, a := range analyzer.Default() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", a.Kind(), a.Description())
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringSliceVar(&flagUnits, "analyzers", nil, "comma-separated analyzer kinds (default: all)")
	analyzeCmd.Flags().IntVar(&flagWorkers, "workers", 0, "worker-pool size (default from config)")
	analyzeCmd.Flags().StringVar(&flagTimeout, "timeout", "", "global run timeout, e.g. 10m (default from config)")
	analyzeCmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider: anthropic, openai or none")
	analyzeCmd.Flags().BoolVar(&flagNoLLM, "no-llm", false, "skip LLM narration entirely")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	kinds, err := selectKinds(cfg)
	if err != nil {
		return err
	}

	orch, err := orchestrator.New(args[0], client, func(o *orchestrator.Options) {
		o.Workers = cfg.Orchestrator.Workers
		o.GlobalTimeout = cfg.Orchestrator.GlobalTimeout
		o.ResultTimeout = cfg.Orchestrator.ResultTimeout
		o.MaxLLMCalls = cfg.Orchestrator.MaxLLMCalls
		o.Logger = logger
	})
	if err != nil {
		return err
	}

	token := core.NewToken()

	// Ctrl-C requests cooperative cancellation; a second signal kills the
	// process via the default handler.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		token.Cancel()
	}()

	progress := func(completed, total int, status string) {
		fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] %s\n", completed, total, status)
	}

	results, err := orch.Run(context.Background(), token, kinds, progress)
	if err != nil {
		return err
	}

	render(cmd, results)
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, err
	}

	if flagWorkers > 0 {
		cfg.Orchestrator.Workers = flagWorkers
	}
	if flagTimeout != "" {
		d, err := time.ParseDuration(flagTimeout)
		if err != nil {
			return nil, err
		}
		cfg.Orchestrator.GlobalTimeout = d
	}
	if len(flagUnits) > 0 {
		cfg.Orchestrator.Analyzers = flagUnits
	}
	if flagProvider != "" {
		cfg.Model.Provider = flagProvider
	}
	if flagNoLLM {
		cfg.Model.Provider = "none"
	}

	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config) *logging.RepoLensLogger {
	level := logging.LogLevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = logging.LogLevelDebug
	case "warn":
		level = logging.LogLevelWarn
	case "error":
		level = logging.LogLevelError
	}
	return logging.NewSlogLogger(level, cfg.Logging.Format, false)
}

func newClient(cfg *config.Config) (model.Client, error) {
	switch cfg.Model.Provider {
	case "none":
		return nil, nil
	case "anthropic":
		return anthropic.New(func(o *anthropic.Options) {
			if cfg.Model.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Model.Name)
			}
			if cfg.Model.Temperature > 0 {
				o.Temperature = cfg.Model.Temperature
			}
			if cfg.Model.MaxTokens > 0 {
				o.MaxTokens = int64(cfg.Model.MaxTokens)
			}
		}), nil
	case "openai":
		return openai.New(func(o *openai.Options) {
			if cfg.Model.Name != "" {
				o.Model = cfg.Model.Name
			}
			if cfg.Model.Temperature > 0 {
				o.Temperature = cfg.Model.Temperature
			}
			if cfg.Model.MaxTokens > 0 {
				o.MaxCompletionTokens = int64(cfg.Model.MaxTokens)
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown model provider: %q", cfg.Model.Provider)
	}
}

func selectKinds(cfg *config.Config) ([]core.Kind, error) {
	if len(cfg.Orchestrator.Analyzers) == 0 {
		return nil, nil
	}
	kinds := make([]core.Kind, 0, len(cfg.Orchestrator.Analyzers))
	for _, name := range cfg.Orchestrator.Analyzers {
		k, err := core.ParseKind(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func render(cmd *cobra.Command, results map[core.Kind]core.Result) {
	out := cmd.OutOrStdout()

	kinds := make([]string, 0, len(results))
	for k := range results {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	for _, name := range kinds {
		res := results[core.Kind(name)]
		fmt.Fprintf(out, "=== %s [%s]\n", name, res.Status())
		switch {
		case res.Cancelled:
			fmt.Fprintf(out, "    %s\n", res.Error)
		case !res.Success:
			fmt.Fprintf(out, "    error: %s\n", res.Error)
		default:
			if res.Insight != "" {
				fmt.Fprintf(out, "%s\n", indent(res.Insight, "    "))
			}
			fmt.Fprintf(out, "    findings: %d top-level keys\n", len(res.Data))
		}
		fmt.Fprintln(out)
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
