package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/stageflow/pkg/flow"
	"github.com/matzehuels/stageflow/pkg/palette"
	"github.com/matzehuels/stageflow/pkg/pipeline"
)

// Terminal colors (ANSI 256).
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)

	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// statusLine is a leading icon in its own color. With tint set the message
// takes the same color.
type statusLine struct {
	icon  string
	color lipgloss.Color
	tint  bool
}

var (
	lineSuccess = statusLine{icon: "✓", color: colorGreen}
	lineWarning = statusLine{icon: "!", color: colorYellow, tint: true}
	lineInfo    = statusLine{icon: "›", color: colorGray}
)

func (l statusLine) print(format string, args ...any) {
	sty := lipgloss.NewStyle().Foreground(l.color)
	msg := fmt.Sprintf(format, args...)
	if l.tint {
		msg = sty.Render(msg)
	}
	fmt.Println(sty.Render(l.icon), msg)
}

func printSuccess(format string, args ...any) { lineSuccess.print(format, args...) }
func printWarning(format string, args ...any) { lineWarning.print(format, args...) }
func printInfo(format string, args ...any)    { lineInfo.print(format, args...) }

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile announces a written output file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + styleValue.Render(path))
}

// printStats prints a one-line summary of a build: shown/retrieved flows,
// graph size, crossings when there are any, and whether the graph came from
// the cache.
func printStats(res *pipeline.Result) {
	parts := []string{
		fmt.Sprintf("%d/%d flows", res.Stats.Shown, res.Stats.Retrieved),
		fmt.Sprintf("%d nodes", res.Stats.NodeCount),
		fmt.Sprintf("%d edges", res.Stats.EdgeCount),
	}
	if res.Graph != nil && res.Graph.Stats.Crossings > 0 {
		parts = append(parts, fmt.Sprintf("%d crossings", res.Graph.Stats.Crossings))
	}
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	if res.CacheInfo.BuildHit {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGreen).Render("cached"))
	} else {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGray).Render("fresh"))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)

// recordTable renders records as a bordered table, one row per flow, with
// each stage value tinted in its category color.
func recordTable(records []flow.Record) string {
	rows := make([][]string, len(records))
	for i, r := range records {
		row := []string{strconv.Itoa(i + 1)}
		row = append(row, r.Stages[:]...)
		row = append(row, string(r.Phase), formatWeight(r.Weight))
		rows[i] = row
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Stage 1", "Stage 2", "Stage 3", "Stage 4", "Stage 5", "Phase", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case col == 0:
				return base.Foreground(colorDim)
			case col >= 1 && col <= flow.StageCount:
				return base.Foreground(lipgloss.Color(palette.Resolve(rows[row][col])))
			case col == flow.StageCount+2:
				return base.Foreground(colorCyan).Align(lipgloss.Right)
			}
			return base.Foreground(colorGray)
		})
	return t.Render()
}

// formatWeight prints whole weights without decimals.
func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
