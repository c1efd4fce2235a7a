package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/graphcore/pkg/rules"
)

// captureStdout redirects command output into a buffer for one test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestPrintStats(t *testing.T) {
	out := captureStdout(t)
	printStats(4, 3, true)
	printStats(1, 0, false)
	got := out.String()
	for _, want := range []string{"4 nodes", "3 edges", "cached", "1 nodes", "0 edges", "fresh"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q does not contain %q", got, want)
		}
	}
}

func TestRulesetTable(t *testing.T) {
	tbl := rulesetTable(rules.Rulesets())
	for _, name := range []string{"tree", "binary_tree", "bst", "dag", "linked_list"} {
		if !strings.Contains(tbl, name) {
			t.Errorf("ruleset table missing %q", name)
		}
	}
}

func TestPrintInspection(t *testing.T) {
	out := captureStdout(t)
	printInspection(fixtureGraph(t))
	got := out.String()
	for _, want := range []string{"graph (directed)", "no_cycles", "strict", iconSuccess} {
		if !strings.Contains(got, want) {
			t.Errorf("inspection output missing %q:\n%s", want, got)
		}
	}
}

func TestPrintReport(t *testing.T) {
	out := captureStdout(t)
	printReport(Report{Algorithm: "components", Result: []any{[]any{"a", "b"}, []any{"c"}}})
	printReport(Report{Algorithm: "bfs", Args: []string{"a"}, Result: []any{"a", "b"}})
	got := out.String()
	for _, want := range []string{"components", "group 1", "group 2", "bfs a", "a " + iconArrow + " b"} {
		if !strings.Contains(got, want) {
			t.Errorf("report output missing %q:\n%s", want, got)
		}
	}
}
