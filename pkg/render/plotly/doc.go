// Package plotly exports flow diagrams as Plotly Sankey figures.
//
// [FromGraph] maps a [sankey.Graph] onto the figure structure Plotly's
// "sankey" trace expects: parallel node arrays (labels, colors, x, y),
// parallel link arrays (source, target, value, color) and paper-referenced
// annotations for stage headers and the phase legend. The figure marshals
// to JSON that plotly.js accepts unchanged; [WriteHTML] wraps it in a
// standalone page.
//
// [sankey.Graph]: github.com/matzehuels/stageflow/pkg/sankey.Graph
package plotly
