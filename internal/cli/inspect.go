package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stageflow/pkg/flow"
	"github.com/matzehuels/stageflow/pkg/palette"
	"github.com/matzehuels/stageflow/pkg/pipeline"
	"github.com/matzehuels/stageflow/pkg/sankey"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// inspectCommand creates the inspect command, an interactive stage browser.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "inspect [records]",
		Short: "Browse a diagram stage by stage in the terminal",
		Long: `Inspect builds the diagram and opens a terminal browser:

  ←/→  previous/next stage
  ↑/↓  select a node and list its outgoing flows
  tab  toggle the table of shown flows
  q    quit`,
		Args: opts.src.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			src, closeSrc, err := c.openSource(ctx, &opts.src, args)
			if err != nil {
				return err
			}
			defer closeSrc()

			runner, err := c.newRunner(ctx, opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			topN := opts.topN
			if topN == 0 {
				topN = c.cfg.Build.TopN
			}
			res, err := runner.Execute(ctx, pipeline.Options{
				Source:  src,
				TopN:    topN,
				Formats: []string{pipeline.FormatJSON},
				Refresh: opts.refresh,
				Logger:  loggerFromContext(ctx),
			})
			if err != nil {
				return err
			}

			_, err = tea.NewProgram(NewInspectModel(res.Graph, res.Shown), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	opts.src.register(cmd)
	cmd.Flags().IntVarP(&opts.topN, "top-n", "n", 0, "number of top flows to show (default from config, 30)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "rebuild even if cached")
	return cmd
}

// =============================================================================
// InspectModel - Interactive stage browser
// =============================================================================

// InspectModel is the bubbletea model for browsing a diagram.
type InspectModel struct {
	Graph   *sankey.Graph
	Records []flow.Record

	Stage       int
	Cursor      int
	ShowRecords bool

	stages [flow.StageCount][]sankey.Node
}

// NewInspectModel creates a browser positioned on the first stage.
func NewInspectModel(g *sankey.Graph, records []flow.Record) InspectModel {
	m := InspectModel{Graph: g, Records: records}
	for s := range flow.StageCount {
		m.stages[s] = g.NodesInStage(s)
	}
	return m
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		m.ShowRecords = !m.ShowRecords
	case "left", "h":
		if m.Stage > 0 {
			m.Stage--
			m.Cursor = 0
		}
	case "right", "l":
		if m.Stage < flow.StageCount-1 {
			m.Stage++
			m.Cursor = 0
		}
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.stages[m.Stage])-1 {
			m.Cursor++
		}
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	if m.ShowRecords {
		b.WriteString(StyleTitle.Render(fmt.Sprintf("Top %d flows", len(m.Records))))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("tab back  q quit"))
		b.WriteString("\n\n")
		b.WriteString(recordTable(m.Records))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(StyleTitle.Render(stageTitle(m.Stage)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ stage  ↑/↓ node  tab flows  q quit"))
	b.WriteString("\n\n")

	nodes := m.stages[m.Stage]
	if len(nodes) == 0 {
		b.WriteString(listDimStyle.Render("  no flows"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.nodeTable(nodes))
	b.WriteString("\n")

	if m.Stage < flow.StageCount-1 {
		sel := nodes[m.Cursor]
		b.WriteString("\n")
		b.WriteString(StyleHighlight.Render(sel.Label))
		b.WriteString(listDimStyle.Render(" flows into"))
		b.WriteString("\n")
		b.WriteString(m.edgeTable(m.Graph.Outgoing(sel.Index)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  stage %d/%d  node %d/%d", m.Stage+1, flow.StageCount, m.Cursor+1, len(nodes))))
	return b.String()
}

func (m InspectModel) nodeTable(nodes []sankey.Node) string {
	total := m.Graph.Stats.TotalWeight
	rows := make([][]string, len(nodes))
	for i, n := range nodes {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows[i] = []string{cursor, n.Label, formatWeight(n.Weight), share(n.Weight, total), strconv.Itoa(len(m.Graph.Outgoing(n.Index)))}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Category", "Value", "Share", "Out").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == m.Cursor {
				base = base.Bold(true)
			}
			if col == 1 {
				return base.Foreground(lipgloss.Color(nodes[row].Color))
			}
			if col >= 2 {
				return base.Foreground(colorGray).Align(lipgloss.Right)
			}
			return base.Foreground(colorCyan)
		}).
		Render()
}

func (m InspectModel) edgeTable(edges []sankey.Edge) string {
	rows := make([][]string, len(edges))
	for i, e := range edges {
		rows[i] = []string{m.Graph.Nodes[e.Target].Label, formatWeight(e.Weight), string(e.Phase)}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Target", "Value", "Phase").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0:
				return base.Foreground(lipgloss.Color(palette.Resolve(rows[row][0])))
			case 1:
				return base.Foreground(colorCyan).Align(lipgloss.Right)
			}
			if p := edges[row].Phase; p.Resolved() {
				return base.Foreground(lipgloss.Color(palette.Legend(p)))
			}
			return base.Foreground(colorDim)
		}).
		Render()
}

// stageTitle returns the first line of a stage header.
func stageTitle(stage int) string {
	title, _, _ := strings.Cut(sankey.StageTitles[stage], "\n")
	return title
}

func share(w, total float64) string {
	if total <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", 100*w/total)
}
