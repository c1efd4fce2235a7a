package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphcore/pkg/cache"
	"github.com/matzehuels/graphcore/pkg/collection"
	gio "github.com/matzehuels/graphcore/pkg/io"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file path; defaults to the input name with the format extension
	formats   []string // dot, svg
	detailed  bool     // show values and metadata in node labels
	highlight []string // explicit node path to highlight
	path      string   // "from,to": highlight the shortest path between two nodes
	weighted  bool     // use edge weights for --path
	noCache   bool
}

// renderCommand creates the render command, which draws a snapshot with
// Graphviz. Artifacts are cached by snapshot hash and render options.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}
	var formats, highlight string
	cmd := &cobra.Command{
		Use:   "render <graph.json>",
		Short: "Render a snapshot as DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = splitList(formats)
			opts.highlight = splitList(highlight)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format only)")
	cmd.Flags().StringVarP(&formats, "format", "f", formatSVG, "output formats: dot, svg (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node values and metadata")
	cmd.Flags().StringVar(&highlight, "highlight", "", "comma-separated node path to highlight")
	cmd.Flags().StringVar(&opts.path, "path", "", "highlight the shortest path from,to")
	cmd.Flags().BoolVar(&opts.weighted, "weighted", false, "use edge weights for --path")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}

func validateFormats(formats []string) error {
	if len(formats) == 0 {
		return fmt.Errorf("no output format given")
	}
	for _, f := range formats {
		if f != formatDOT && f != formatSVG {
			return fmt.Errorf("invalid format %q: must be dot or svg", f)
		}
	}
	return nil
}

// basePath returns the output path without extension.
func basePath(output, input string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	if opts.output != "" && len(opts.formats) > 1 {
		return fmt.Errorf("--output names a single file; drop it to render several formats")
	}
	g, err := c.loadGraph(input)
	if err != nil {
		return err
	}
	if opts.path != "" {
		ends := splitList(opts.path)
		if len(ends) != 2 {
			return fmt.Errorf("--path %q: want from,to", opts.path)
		}
		p, err := g.ShortestPath(ends[0], ends[1], opts.weighted)
		if err != nil {
			return err
		}
		opts.highlight = p.Nodes
	}

	ch, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	base := basePath(opts.output, input)
	allCached := true
	for _, format := range opts.formats {
		data, hit, err := renderArtifact(ctx, ch, g, format, opts)
		if err != nil {
			return err
		}
		allCached = allCached && hit
		out := opts.output
		if out == "" {
			out = base + "." + format
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		printFile(out)
	}
	printStats(g.Len(), len(g.Edges()), allCached)
	return nil
}

// renderArtifact produces one format through the artifact cache.
func renderArtifact(ctx context.Context, ch cache.Cache, g *collection.Graph, format string, opts *renderOpts) ([]byte, bool, error) {
	hash, err := snapshotHash(g)
	if err != nil {
		return nil, false, err
	}
	key := cache.NewDefaultKeyer().ArtifactKey(hash, cache.ArtifactKeyOpts{
		Format:    format,
		Detailed:  opts.detailed,
		Highlight: opts.highlight,
	})
	return cache.Fetch(ctx, ch, key, cache.TTLArtifact, func() ([]byte, error) {
		dot := gio.ToDOT(g.View(), gio.DOTOptions{Detailed: opts.detailed, Highlight: opts.highlight})
		if format == formatDOT {
			return []byte(dot), nil
		}
		spinner := newSpinnerWithContext(ctx, "Rendering SVG...")
		spinner.Start()
		defer spinner.Stop()
		return gio.RenderSVG(ctx, dot)
	})
}
