package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taskwave/pkg/deps"
	"github.com/matzehuels/taskwave/pkg/deps/golang"
	apperr "github.com/matzehuels/taskwave/pkg/errors"
	taskio "github.com/matzehuels/taskwave/pkg/io"
)

// discoverers lists the dependency discoverers in detection order.
var discoverers = []deps.Discoverer{golang.Imports{}}

// discoverOpts holds the command-line flags for the discover command.
type discoverOpts struct {
	output   string   // manifest file (stdout when empty)
	format   string   // stdout format: yaml, json or toml
	exclude  []string // path patterns to skip
	duration float64  // duration unit per discovered work item
}

// discoverCommand creates the discover command.
func (c *CLI) discoverCommand() *cobra.Command {
	opts := discoverOpts{format: string(taskio.FormatYAML)}

	cmd := &cobra.Command{
		Use:   "discover [dir]",
		Short: "Derive a task manifest from a source tree",
		Long: `Discover scans a source tree and writes a manifest with one task per
package and a dependency for every import between packages, so the build
order of a Go module can be analyzed like any other plan.

Durations default to the number of source files per package; edit the
manifest to refine them before analyzing.`,
		Example: `  taskwave discover . -o build.yaml
  taskwave discover ./service --exclude 'internal/gen*' | taskwave analyze -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return c.runDiscover(cmd.Context(), root, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "manifest file; format from extension (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "stdout format: yaml, json, toml")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "path patterns to skip (repeatable)")
	cmd.Flags().Float64Var(&opts.duration, "duration", deps.DefaultDuration, "duration per source file")

	return cmd
}

func (c *CLI) runDiscover(ctx context.Context, root string, opts *discoverOpts) error {
	logger := loggerFromContext(ctx)

	abs, err := filepath.Abs(root)
	if err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidPath, err, "resolve %s", root)
	}
	d, err := deps.Detect(abs, discoverers...)
	if err != nil {
		return apperr.Wrap(apperr.ErrCodeUnsupported, err, "no supported project found in %s", root)
	}
	logger.Infof("Discovering %s dependencies in %s", d.Name(), abs)

	prog := newProgress(logger)
	res, err := d.Discover(ctx, abs, deps.Options{
		DefaultDuration: opts.duration,
		Exclude:         opts.exclude,
		Logger:          logger.Debugf,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Discovered %d tasks, %d dependencies", len(res.Tasks), len(res.Dependencies)))

	m := taskio.FromGraph(res.Tasks, res.Dependencies)
	if opts.output == "" || opts.output == "-" {
		format, err := taskio.ParseFormat(opts.format)
		if err != nil {
			return err
		}
		return taskio.WriteManifest(m, c.out, format)
	}

	if err := taskio.ExportManifest(m, opts.output); err != nil {
		return err
	}
	printSuccess(c.out, "Wrote manifest")
	printFile(c.out, opts.output)
	printNextStep(c.out, "Analyze it", "taskwave analyze "+opts.output)
	return nil
}
