package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/graphcore/pkg/cache"
	"github.com/matzehuels/graphcore/pkg/collection"
	"github.com/matzehuels/graphcore/pkg/config"
	gcerrors "github.com/matzehuels/graphcore/pkg/errors"
	gio "github.com/matzehuels/graphcore/pkg/io"
	"github.com/matzehuels/graphcore/pkg/rules"
	"github.com/matzehuels/graphcore/pkg/value"
)

// testCLI returns a CLI logging to a buffer with caching in a temp dir.
func testCLI(t *testing.T) *CLI {
	t.Helper()
	c := New(&bytes.Buffer{}, log.DebugLevel)
	c.Config.Cache.Dir = t.TempDir()
	return c
}

// fixtureGraph builds a small weighted road map:
//
//	a -1-> b -2-> c -1-> d
//	a -------5------> c
func fixtureGraph(t *testing.T) *collection.Graph {
	t.Helper()
	g := collection.MustNew(collection.Options{Logger: log.New(&bytes.Buffer{})})
	if err := g.AddRule("no_cycles"); err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	for i, id := range []string{"a", "b", "c", "d"} {
		if err := g.AddNode(id, value.Int(i)); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	edges := []struct {
		from, to string
		w        float64
	}{{"a", "b", 1}, {"b", "c", 2}, {"c", "d", 1}, {"a", "c", 5}}
	for _, e := range edges {
		if err := g.AddWeightedEdge(e.from, e.to, "road", e.w); err != nil {
			t.Fatalf("AddWeightedEdge(%s, %s): %v", e.from, e.to, err)
		}
	}
	return g
}

// writeFixture exports the fixture graph and returns the file path.
func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roads.json")
	if err := gio.ExportJSON(fixtureGraph(t).Snapshot(), path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	return path
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a, b,,c ", []string{"a", "b", "c"}},
		{" , ", nil},
	}
	for _, tt := range tests {
		if got := splitList(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("splitList(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseEdgeSpec(t *testing.T) {
	tests := []struct {
		in              string
		from, to, label string
		wantErr         bool
	}{
		{in: "a,b", from: "a", to: "b"},
		{in: "a,b,road", from: "a", to: "b", label: "road"},
		{in: "a", wantErr: true},
		{in: ",b", wantErr: true},
		{in: "a,b,c,d", wantErr: true},
	}
	for _, tt := range tests {
		from, to, label, err := parseEdgeSpec(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseEdgeSpec(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if from != tt.from || to != tt.to || label != tt.label {
			t.Errorf("parseEdgeSpec(%q) = %q, %q, %q", tt.in, from, to, label)
		}
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		c := testCLI(t)
		ch, err := c.newCache(ctx, false)
		require.NoError(t, err)
		defer ch.Close()
		fc, ok := ch.(*cache.FileCache)
		require.True(t, ok, "got %T", ch)
		assert.Equal(t, c.Config.Cache.Dir, fc.Dir())
	})

	t.Run("no-cache flag", func(t *testing.T) {
		ch, err := testCLI(t).newCache(ctx, true)
		require.NoError(t, err)
		assert.IsType(t, cache.NullCache{}, ch)
	})

	t.Run("none backend", func(t *testing.T) {
		c := testCLI(t)
		c.Config.Cache.Backend = config.BackendNone
		ch, err := c.newCache(ctx, false)
		require.NoError(t, err)
		assert.IsType(t, cache.NullCache{}, ch)
	})

	t.Run("redis backend", func(t *testing.T) {
		mr := miniredis.RunT(t)
		c := testCLI(t)
		c.Config.Cache.Backend = config.BackendRedis
		c.Config.Redis.Addr = mr.Addr()
		ch, err := c.newCache(ctx, false)
		require.NoError(t, err)
		defer ch.Close()
		assert.IsType(t, &cache.RedisCache{}, ch)
	})
}

func TestLoadGraph(t *testing.T) {
	c := testCLI(t)
	path := writeFixture(t)

	g, err := c.loadGraph(path)
	if err != nil {
		t.Fatalf("loadGraph: %v", err)
	}
	if g.Len() != 4 || len(g.Edges()) != 4 {
		t.Errorf("got %d nodes, %d edges; want 4, 4", g.Len(), len(g.Edges()))
	}
	if !g.HasRule("no_cycles") {
		t.Errorf("rules = %v, want no_cycles", g.Rules())
	}

	again, err := c.loadGraph(path)
	if err != nil {
		t.Fatalf("loadGraph: %v", err)
	}
	h1, _ := snapshotHash(g)
	h2, _ := snapshotHash(again)
	if h1 != h2 {
		t.Errorf("snapshot hash differs between loads: %s != %s", h1, h2)
	}

	if _, err := c.loadGraph(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("loadGraph(missing) succeeded")
	}
}

func TestLoadGraphRejectsViolatingFile(t *testing.T) {
	doc := fixtureGraph(t).Snapshot()
	doc.Edges = append(doc.Edges, gio.Edge{From: "d", To: "a", Label: "road"})
	path := filepath.Join(t.TempDir(), "cyclic.json")
	if err := gio.ExportJSON(doc, path); err != nil {
		t.Fatal(err)
	}
	_, err := testCLI(t).loadGraph(path)
	if gcerrors.AsRuleViolation(err) == nil {
		t.Errorf("loadGraph error = %v, want rule violation", err)
	}
}

func TestRunAlgorithm(t *testing.T) {
	g := fixtureGraph(t)

	rep, err := runAlgorithm(g, "dijkstra", []string{"a", "d"})
	if err != nil {
		t.Fatalf("dijkstra: %v", err)
	}
	p, ok := rep.Result.(pathResult)
	if !ok {
		t.Fatalf("result is %T, want pathResult", rep.Result)
	}
	if !slices.Equal(p.Nodes, []string{"a", "b", "c", "d"}) || p.Distance != 4 || p.Hops != 3 {
		t.Errorf("dijkstra = %+v", p)
	}

	rep, err = runAlgorithm(g, "shortest_path", []string{"a", "d"})
	if err != nil {
		t.Fatalf("shortest_path: %v", err)
	}
	if p := rep.Result.(pathResult); p.Hops != 2 {
		t.Errorf("shortest_path hops = %d, want 2 via a-c-d", p.Hops)
	}

	rep, err = runAlgorithm(g, "topological_sort", nil)
	if err != nil {
		t.Fatalf("topological_sort: %v", err)
	}
	if order := rep.Result.([]string); order[0] != "a" || order[3] != "d" {
		t.Errorf("topological_sort = %v", order)
	}

	errCases := []struct {
		name string
		args []string
		code gcerrors.Code
	}{
		{"pagerank", nil, gcerrors.ErrCodeNotFound},
		{"bfs", nil, gcerrors.ErrCodeInvalidInput},
		{"dijkstra", []string{"d", "a"}, gcerrors.ErrCodeUnreachable},
		{"bfs", []string{"zz"}, gcerrors.ErrCodeNotFound},
	}
	for _, tt := range errCases {
		_, err := runAlgorithm(g, tt.name, tt.args)
		if got := gcerrors.GetCode(err); got != tt.code {
			t.Errorf("%s %v: code = %q (%v), want %q", tt.name, tt.args, got, err, tt.code)
		}
	}
}

func TestReportUsesCache(t *testing.T) {
	c := testCLI(t)
	g := fixtureGraph(t)
	cmd := &cobra.Command{}
	cmd.SetContext(withLogger(context.Background(), c.Logger))

	first, hit, err := c.report(cmd, g, "degree", nil, false)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if hit {
		t.Error("first report was a cache hit")
	}
	second, hit, err := c.report(cmd, g, "degree", nil, false)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !hit || !bytes.Equal(first, second) {
		t.Errorf("second report hit = %v, equal = %v", hit, bytes.Equal(first, second))
	}

	// A mutation changes the snapshot hash and so the key.
	if err := g.AddNode("e", value.Int(4)); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.report(cmd, g, "degree", nil, false); hit {
		t.Error("report after mutation was a cache hit")
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"inspect", "algo", "render", "rulesets", "explore", "serve", "snapshot", "cache", "completion"} {
		if !slices.Contains(names, want) {
			t.Errorf("subcommand %q not registered (have %v)", want, names)
		}
	}
}

func TestRootCommandLoadsConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	cfg := `log_level = "warn"

[cache]
backend = "none"

[rulesets.cli_test_chain]
description = "chain"
rules = ["no_cycles", "max_children_1"]
`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"--config", cfgPath, "algo", "bfs", writeFixture(t), "a"})
	root.SetOut(&bytes.Buffer{})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if c.Config.Cache.Backend != config.BackendNone {
		t.Errorf("config not applied: backend = %q", c.Config.Cache.Backend)
	}
	if c.Logger.GetLevel() != log.WarnLevel {
		t.Errorf("log level = %v, want warn", c.Logger.GetLevel())
	}
	if _, ok := rules.Lookup("cli_test_chain"); !ok {
		t.Error("config ruleset not registered")
	}
}
