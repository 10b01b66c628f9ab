package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/taskwave/pkg/analysis"
	"github.com/matzehuels/taskwave/pkg/dag"
	apperr "github.com/matzehuels/taskwave/pkg/errors"
	taskio "github.com/matzehuels/taskwave/pkg/io"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	output      string // JSON report file (single manifest only)
	json        bool   // print JSON instead of the summary
	minScore    int    // fail when a score falls below this value
	concurrency int    // manifests analyzed in parallel
	analyzer    analyzerOpts
}

// analyzed is the outcome of analyzing one manifest.
type analyzed struct {
	Manifest string           `json:"manifest"`
	Report   *analysis.Report `json:"report"`
	cached   bool
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	opts := analyzeOpts{concurrency: runtime.GOMAXPROCS(0)}

	cmd := &cobra.Command{
		Use:   "analyze [manifest...]",
		Short: "Analyze task manifests",
		Long: `Analyze validates each manifest's dependency graph and reports its
execution order, critical path, parallel waves, resource conflicts and
parallelization score.

Manifests may be JSON, YAML or TOML; "-" reads JSON from stdin. Several
manifests are analyzed concurrently through one shared report cache.`,
		Example: `  taskwave analyze build.yaml
  taskwave analyze build.yaml -o report.json
  taskwave analyze a.yaml b.toml --json --penalty 10`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "" && len(args) > 1 {
				return apperr.New(apperr.ErrCodeInvalidInput, "--output requires exactly one manifest")
			}
			opts.analyzer.penaltySet = cmd.Flags().Changed("penalty")
			return c.runAnalyze(cmd.Context(), args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the JSON report to this file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print reports as JSON")
	cmd.Flags().IntVar(&opts.minScore, "min-score", 0, "fail when a parallelization score is below this value")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", opts.concurrency, "manifests analyzed in parallel")
	cmd.Flags().IntVar(&opts.analyzer.penalty, "penalty", 0, "score penalty per resource conflict (0 disables; default from config)")
	cmd.Flags().BoolVar(&opts.analyzer.noCache, "no-cache", false, "do not read or write the report store")

	return cmd
}

func (c *CLI) runAnalyze(ctx context.Context, paths []string, opts *analyzeOpts) error {
	logger := loggerFromContext(ctx)

	a, store, err := c.newAnalyzer(ctx, opts.analyzer)
	if err != nil {
		return err
	}
	defer store.Close()

	prog := newProgress(logger)
	results := make([]analyzed, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if opts.concurrency > 0 {
		g.SetLimit(opts.concurrency)
	}
	for i, path := range paths {
		g.Go(func() error {
			r, cached, err := analyzeManifest(gctx, a, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = analyzed{Manifest: path, Report: r, cached: cached}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Analyzed %d manifests", len(paths)))

	if err := c.writeAnalyzed(results, opts); err != nil {
		return err
	}
	return checkMinScore(results, opts.minScore)
}

// analyzeManifest loads a manifest and analyzes it. Errors carry an error
// code.
func analyzeManifest(ctx context.Context, a *analysis.Analyzer, path string) (*analysis.Report, bool, error) {
	tasks, deps, err := loadGraph(path)
	if err != nil {
		return nil, false, err
	}
	loggerFromContext(ctx).Debug("loaded manifest", "path", path, "tasks", len(tasks), "dependencies", len(deps))

	r, cached, err := a.AnalyzeCached(ctx, tasks, deps)
	if err != nil {
		return nil, false, apperr.FromAnalysis(err)
	}
	return r, cached, nil
}

// loadGraph reads the manifest at path and converts it to analyzer input.
func loadGraph(path string) ([]dag.Task, []dag.Dependency, error) {
	m, err := taskio.ImportManifest(path)
	if err != nil {
		return nil, nil, err
	}
	return m.Graph()
}

func (c *CLI) writeAnalyzed(results []analyzed, opts *analyzeOpts) error {
	if opts.output != "" {
		if err := taskio.ExportReport(results[0].Report, opts.output); err != nil {
			return err
		}
	}

	switch {
	case opts.json && len(results) == 1:
		if opts.output != "" {
			return nil
		}
		return taskio.WriteReport(results[0].Report, c.out)
	case opts.json:
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(c.out)
		}
		printReport(c.out, res.Manifest, res.Report, res.cached)
	}
	if opts.output != "" {
		fmt.Fprintln(c.out)
		printSuccess(c.out, "Wrote report")
		printFile(c.out, opts.output)
	}
	return nil
}

func checkMinScore(results []analyzed, minScore int) error {
	for _, res := range results {
		if res.Report.Score < minScore {
			return fmt.Errorf("%s: parallelization score %d is below the minimum of %d",
				res.Manifest, res.Report.Score, minScore)
		}
	}
	return nil
}
