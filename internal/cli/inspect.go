package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphcore/pkg/collection"
	"github.com/matzehuels/graphcore/pkg/rules"
)

type inspectOpts struct {
	json       bool
	canAddEdge string
}

// inspectCommand creates the inspect command: stats, attached rules with
// their current status, behaviors and an optional dry-run edge check.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts
	cmd := &cobra.Command{
		Use:   "inspect <graph.json>",
		Short: "Show statistics and rule status of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadGraph(args[0])
			if err != nil {
				return err
			}
			if opts.canAddEdge != "" {
				from, to, label, err := parseEdgeSpec(opts.canAddEdge)
				if err != nil {
					return err
				}
				ok, reason := g.CanAddEdge(from, to, label)
				if ok {
					printSuccess("Edge %s %s %s can be added", from, iconArrow, to)
				} else {
					printWarning("Edge %s %s %s would be rejected: %s", from, iconArrow, to, reason)
				}
				return nil
			}
			if opts.json {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(g.Stats())
			}
			printInspection(g)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "print statistics as JSON")
	cmd.Flags().StringVar(&opts.canAddEdge, "can-add-edge", "", "dry-run an edge given as from,to[,label]")
	return cmd
}

// parseEdgeSpec splits "from,to[,label]".
func parseEdgeSpec(s string) (from, to, label string, err error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
		return "", "", "", fmt.Errorf("edge %q: want from,to[,label]", s)
	}
	if len(parts) == 3 {
		label = parts[2]
	}
	return parts[0], parts[1], label, nil
}

func printInspection(g *collection.Graph) {
	s := g.Stats()
	fmt.Fprintln(stdout, StyleTitle.Render(fmt.Sprintf("%s (%s)", s.Kind, s.Type)))
	printKeyValue("id", s.ID)
	printKeyValue("nodes", strconv.Itoa(s.Nodes))
	printKeyValue("edges", strconv.Itoa(s.Edges))
	printKeyValue("roots", orNone(strings.Join(s.Roots, ", ")))
	printKeyValue("leaves", strconv.Itoa(len(s.Leaves)))
	if s.Depth >= 0 {
		printKeyValue("depth", strconv.Itoa(s.Depth))
	}
	if len(s.Indexes) > 0 {
		printKeyValue("indexes", strings.Join(s.Indexes, ", "))
	}
	if len(s.Behaviors) > 0 {
		printKeyValue("behaviors", strings.Join(s.Behaviors, ", "))
	}

	outcomes := g.RuleStatus()
	if len(outcomes) == 0 {
		printNewline()
		printInfo("No rules attached")
		return
	}
	printNewline()
	fmt.Fprintln(stdout, rulesTable(outcomes))
	for _, w := range g.Warnings() {
		printWarning("%s", w.Error())
	}
}

func rulesTable(outcomes []rules.Outcome) string {
	rows := make([][]string, len(outcomes))
	for i, o := range outcomes {
		status, reason := iconSuccess, ""
		if !o.Result.Passed {
			status, reason = iconError, o.Result.Reason
		}
		rows[i] = []string{status, o.Entry.Spec.Name(), o.Entry.Policy.String(), reason}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Rule", "Policy", "Violation").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 && row < len(outcomes) {
				if outcomes[row].Result.Passed {
					return styleIconSuccess
				}
				return styleIconError
			}
			return lipgloss.NewStyle()
		}).
		String()
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
