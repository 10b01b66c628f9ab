package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taskwave/pkg/analysis"
	"github.com/matzehuels/taskwave/pkg/cache"
	"github.com/matzehuels/taskwave/pkg/dag"
	apperr "github.com/matzehuels/taskwave/pkg/errors"
	"github.com/matzehuels/taskwave/pkg/render/nodelink"
)

// Render output formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"
)

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{formatDOT: true, formatSVG: true, formatPDF: true, formatPNG: true}

// pngScale is the resolution multiplier for PNG output.
const pngScale = 2.0

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path ("-" for stdout)
	format   string // dot, svg, pdf or png
	waves    bool   // align tasks of the same wave
	detailed bool   // show resources and metadata in labels
	analyzer analyzerOpts
}

// renderCommand creates the render command for drawing analyzed graphs.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [manifest]",
		Short: "Draw the analyzed task graph",
		Long: `Render analyzes a manifest and draws its dependency graph with the
critical path highlighted, resource conflicts as dashed lines and redundant
dependencies dotted.

The format is taken from --format, else from the output file extension,
else SVG. PDF and PNG output require rsvg-convert (librsvg).`,
		Example: `  taskwave render build.yaml
  taskwave render build.yaml -o plan.png --waves
  taskwave render build.yaml -f dot -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveFormat(opts.format, opts.output)
			if err != nil {
				return err
			}
			opts.format = format
			opts.analyzer.penaltySet = cmd.Flags().Changed("penalty")
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default: manifest name with format extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), dot, pdf, png")
	cmd.Flags().BoolVar(&opts.waves, "waves", false, "place tasks of the same wave side by side")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show resources, wave and metadata on tasks")
	cmd.Flags().IntVar(&opts.analyzer.penalty, "penalty", 0, "score penalty per resource conflict (0 disables; default from config)")
	cmd.Flags().BoolVar(&opts.analyzer.noCache, "no-cache", false, "do not read or write the report store")

	return cmd
}

// resolveFormat picks the output format from the flag or the output path.
func resolveFormat(flag, output string) (string, error) {
	format := strings.ToLower(flag)
	if format == "" && output != "" && output != "-" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	if format == "" {
		format = formatSVG
	}
	if !validFormats[format] {
		return "", apperr.New(apperr.ErrCodeInvalidFormat, "invalid format: %s (must be 'svg', 'dot', 'pdf', or 'png')", format)
	}
	return format, nil
}

// basePath strips the extension from the input path.
func basePath(input string) string {
	if input == "-" {
		return "graph"
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	a, store, err := c.newAnalyzer(ctx, opts.analyzer)
	if err != nil {
		return err
	}
	defer store.Close()

	tasks, deps, err := loadGraph(input)
	if err != nil {
		return err
	}
	report, err := a.Analyze(ctx, tasks, deps)
	if err != nil {
		return apperr.FromAnalysis(err)
	}
	g, err := dag.Build(tasks, deps)
	if err != nil {
		return apperr.FromAnalysis(err)
	}
	logger.Infof("Loaded graph: %d tasks, %d dependencies", g.TaskCount(), g.EdgeCount())

	key := c.config.keyer().ArtifactKey(report.Fingerprint, cache.ArtifactKeyOpts{
		Format:          opts.format,
		ConflictPenalty: a.Penalty(),
		ShowWaves:       opts.waves,
		Detailed:        opts.detailed,
	})
	data, hit, err := cachedArtifact(ctx, store, key, func() ([]byte, error) {
		return renderGraph(ctx, g, report, opts)
	})
	if err != nil {
		return err
	}
	logger.Debugf("Generated %s: %d bytes (cached: %v)", opts.format, len(data), hit)

	outputPath := opts.output
	if outputPath == "" {
		outputPath = basePath(input) + "." + opts.format
	}
	if outputPath == "-" {
		_, err := c.out.Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}

	logger.Infof("Generated %s", outputPath)
	return nil
}

// cachedArtifact serves a rendered artifact from store, producing and
// storing it on a miss. Store failures are logged and otherwise ignored.
func cachedArtifact(ctx context.Context, store cache.Cache, key string, produce func() ([]byte, error)) ([]byte, bool, error) {
	logger := loggerFromContext(ctx)
	if data, ok, err := store.Get(ctx, key); err != nil {
		logger.Warn("artifact cache read failed", "err", err)
	} else if ok {
		return data, true, nil
	}

	data, err := produce()
	if err != nil {
		return nil, false, err
	}
	if err := store.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		logger.Warn("artifact cache write failed", "err", err)
	}
	return data, false, nil
}

// renderGraph draws the analyzed graph in the requested format.
func renderGraph(ctx context.Context, g *dag.Graph, r *analysis.Report, opts *renderOpts) ([]byte, error) {
	logger := loggerFromContext(ctx)
	dot := nodelink.ToDOT(g, r, nodelink.Options{ShowWaves: opts.waves, Detailed: opts.detailed})

	switch opts.format {
	case formatDOT:
		return []byte(dot), nil
	case formatSVG:
		logger.Info("Rendering SVG")
		return nodelink.RenderSVG(ctx, dot)
	case formatPDF:
		logger.Info("Rendering PDF")
		return nodelink.RenderPDF(ctx, dot)
	case formatPNG:
		logger.Info("Rendering PNG")
		return nodelink.RenderPNG(ctx, dot, pngScale)
	default:
		return nil, fmt.Errorf("unknown format: %s", opts.format)
	}
}
