package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/pkg/cache"
	"github.com/matzehuels/flowgraph/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple formats)
	formats  []string // output formats: "svg", "png", "dot"
	detailed bool     // show node IDs and link info
	noCache  bool     // bypass the artifact cache
}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a flow document as a node-link diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node IDs and edge link info")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "always run Graphviz, ignoring cached renders")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	return strings.Split(s, ",")
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"svg": true, "png": true, "dot": true}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'svg', 'png', or 'dot')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. A known format
// extension on output is stripped as well.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	g, err := c.loadFlow(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded flow: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())

	artifacts := openCache(logger, opts.noCache)
	defer artifacts.Close()

	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.detailed})
	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := base + "." + format
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		prog := newProgress(logger)
		hit, err := renderFile(ctx, artifacts, dot, format, path)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		if hit {
			logger.Debug("cache hit", "format", format)
		}
		prog.done("Rendered " + path)
		printFile(c.out, path)
	}
	return nil
}

// openCache returns the on-disk artifact cache, or a null cache when caching
// is disabled or the cache directory is unusable.
func openCache(logger *log.Logger, disabled bool) cache.Cache {
	if disabled {
		return cache.NewNullCache()
	}
	dir, err := cache.Dir()
	if err == nil {
		var fc *cache.FileCache
		if fc, err = cache.NewFileCache(dir); err == nil {
			return fc
		}
	}
	logger.Warn("render cache disabled", "err", err)
	return cache.NewNullCache()
}

// renderFile writes dot to path in format. It reports whether the artifact
// came from the cache.
func renderFile(ctx context.Context, artifacts cache.Cache, dot, format, path string) (bool, error) {
	var render func(string) ([]byte, error)
	switch format {
	case "dot":
		return false, os.WriteFile(path, []byte(dot), 0o644)
	case "svg":
		render = nodelink.RenderSVG
	case "png":
		render = nodelink.RenderPNG
	default:
		return false, fmt.Errorf("unsupported format %q", format)
	}

	data, hit, err := cache.Memo(ctx, artifacts, cache.ArtifactKey(format, dot), cache.DefaultTTL,
		func() ([]byte, error) { return render(dot) })
	if err != nil {
		return false, err
	}
	return hit, os.WriteFile(path, data, 0o644)
}
