package cli

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphcore/pkg/cache"
	"github.com/matzehuels/graphcore/pkg/collection"
)

type algoOpts struct {
	json    bool
	noCache bool
}

// algoCommand creates the algo command, which runs one graph algorithm on a
// snapshot. Reports are cached by snapshot hash.
func (c *CLI) algoCommand() *cobra.Command {
	var opts algoOpts
	cmd := &cobra.Command{
		Use:   "algo <algorithm> <graph.json> [args...]",
		Short: "Run a graph algorithm on a snapshot",
		Long: "Run a graph algorithm on a snapshot.\n\nAlgorithms:\n  " +
			strings.Join(algorithmUsages(), "\n  "),
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: algorithmNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadGraph(args[1])
			if err != nil {
				return err
			}
			data, hit, err := c.report(cmd, g, args[0], args[2:], opts.noCache)
			if err != nil {
				return err
			}
			if opts.json {
				_, err := stdout.Write(append(data, '\n'))
				return err
			}
			var r Report
			if err := json.Unmarshal(data, &r); err != nil {
				return err
			}
			printReport(r)
			printStats(g.Len(), len(g.Edges()), hit)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the report cache")
	return cmd
}

// report runs an algorithm through the report cache and returns the JSON
// encoded Report.
func (c *CLI) report(cmd *cobra.Command, g *collection.Graph, name string, args []string, noCache bool) ([]byte, bool, error) {
	ctx := cmd.Context()
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, false, err
	}
	defer ch.Close()

	hash, err := snapshotHash(g)
	if err != nil {
		return nil, false, err
	}
	key := cache.NewDefaultKeyer().ReportKey(hash, cache.ReportKeyOpts{Algorithm: name, Args: args})
	prog := newProgress(loggerFromContext(ctx))
	data, hit, err := cache.Fetch(ctx, ch, key, cache.TTLReport, func() ([]byte, error) {
		r, err := runAlgorithm(g, name, args)
		if err != nil {
			return nil, err
		}
		return json.Marshal(r)
	})
	if err == nil && !hit {
		prog.done("computed report", "algorithm", name, "nodes", g.Len())
	}
	return data, hit, err
}

func algorithmUsages() []string {
	out := make([]string, len(algorithms))
	for i, a := range algorithms {
		out[i] = a.usage
	}
	return out
}

// printReport prints a decoded report. Results arrive as generic JSON, so
// the layout follows the JSON shape rather than the algorithm.
func printReport(r Report) {
	title := r.Algorithm
	if len(r.Args) > 0 {
		title += " " + strings.Join(r.Args, " ")
	}
	fmt.Fprintln(stdout, StyleTitle.Render(title))

	switch res := r.Result.(type) {
	case []any:
		if len(res) > 0 {
			if _, nested := res[0].([]any); nested {
				for i, group := range res {
					printKeyValue(fmt.Sprintf("group %d", i+1), joinAny(group.([]any), ", "))
				}
				return
			}
		}
		printKeyValue("order", joinAny(res, " "+iconArrow+" "))
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(res)) {
			printKeyValue(k, formatAny(res[k]))
		}
	default:
		printKeyValue("result", formatAny(res))
	}
}

func joinAny(items []any, sep string) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = formatAny(it)
	}
	return strings.Join(parts, sep)
}

func formatAny(v any) string {
	switch x := v.(type) {
	case float64:
		return StyleNumber.Render(fmt.Sprintf("%.4g", x))
	case []any:
		return joinAny(x, " "+iconArrow+" ")
	case nil:
		return StyleDim.Render("none")
	case string:
		return x
	}
	data, _ := json.Marshal(v)
	return string(data)
}
