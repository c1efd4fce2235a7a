package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphcore/pkg/collection"
	"github.com/matzehuels/graphcore/pkg/store"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// exploreCommand opens an interactive node browser.
func (c *CLI) exploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explore <graph.json>",
		Short: "Browse nodes, neighbors and centrality interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadGraph(args[0])
			if err != nil {
				return err
			}
			if g.Len() == 0 {
				printInfo("Graph is empty")
				return nil
			}
			final, err := tea.NewProgram(NewNodeListModel(g), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(NodeListModel); ok && m.Selected != "" {
				fmt.Fprintln(stdout, m.Selected)
			}
			return nil
		},
	}
}

// =============================================================================
// NodeListModel - Interactive node browser
// =============================================================================

// NodeListModel is the bubbletea model for browsing a graph's nodes. The
// detail pane follows the cursor; enter prints the node ID and exits.
type NodeListModel struct {
	Nodes      []store.Node
	Centrality map[string]float64
	Cursor     int
	Offset     int
	Height     int
	Selected   string

	graph *collection.Graph
}

// NewNodeListModel creates a browser over g's committed nodes.
func NewNodeListModel(g *collection.Graph) NodeListModel {
	return NodeListModel{
		Nodes:      g.Nodes(),
		Centrality: g.DegreeCentrality(),
		Height:     15,
		graph:      g,
	}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Nodes) > 0 {
				m.Selected = m.Nodes[m.Cursor].ID
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-14, 5)
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Nodes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Nodes))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, n.ID, n.Value.String(), fmt.Sprintf("%.3f", m.Centrality[n.ID])})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Value", "Degree").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 3 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if len(m.Nodes) > 0 {
		b.WriteString(m.detail(m.Nodes[m.Cursor].ID))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))
	return b.String()
}

// detail renders the neighbors of id.
func (m NodeListModel) detail(id string) string {
	if m.graph == nil {
		return ""
	}
	var b strings.Builder
	line := func(key string, ids []string) {
		fmt.Fprintf(&b, "  %s %s\n", listDimStyle.Render(fmt.Sprintf("%-4s", key)), orNone(strings.Join(ids, ", ")))
	}
	line("out", m.graph.Neighbors(id, store.Out))
	line("in", m.graph.Neighbors(id, store.In))
	if meta := m.graph.Meta(id); len(meta) > 0 {
		keys := make([]string, 0, len(meta))
		for k, v := range meta {
			keys = append(keys, fmt.Sprintf("%s=%v", k, v))
		}
		slices.Sort(keys)
		line("meta", keys)
	}
	return b.String()
}
