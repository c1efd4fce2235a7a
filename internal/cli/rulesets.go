package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphcore/pkg/behavior"
	"github.com/matzehuels/graphcore/pkg/rules"
)

// rulesetsCommand lists the structural rulesets (built-in and from the
// config file) and the behavior rulesets.
func (c *CLI) rulesetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rulesets",
		Short: "List available rulesets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(stdout, StyleTitle.Render("Rulesets"))
			fmt.Fprintln(stdout, rulesetTable(rules.DefaultCatalog().List()))
			printNewline()
			fmt.Fprintln(stdout, StyleTitle.Render("Behavior rulesets"))
			for _, name := range behavior.RulesetNames() {
				specs, _ := behavior.Ruleset(name)
				names := make([]string, len(specs))
				for i, s := range specs {
					names[i] = s.Name
				}
				printKeyValue(name, strings.Join(names, " "+iconArrow+" "))
			}
			printNewline()
			printNextStep("Attach one to a snapshot", "graphcore inspect graph.json")
			return nil
		},
	}
}

func rulesetTable(sets []rules.Ruleset) string {
	rows := make([][]string, len(sets))
	for i, rs := range sets {
		rows[i] = []string{rs.Name, rs.Policy.String(), strings.Join(rs.RuleNames(), ", "), rs.Description}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Policy", "Rules", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleHighlight
			case col == 3:
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		String()
}
