package plotly

import (
	"encoding/json"
	"html/template"
	"io"
)

// ScriptURL is the plotly.js bundle referenced by exported pages.
const ScriptURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.Script}}"></script>
<style>body { margin: 0; font-family: Arial, sans-serif; background: white; }</style>
</head>
<body>
<div id="sankey"></div>
<script>
var fig = {{.Figure}};
Plotly.newPlot("sankey", fig.data, fig.layout, {displaylogo: false, responsive: true});
</script>
</body>
</html>
`))

// WriteHTML writes a standalone HTML page that draws the figure with plotly.js.
func WriteHTML(w io.Writer, f *Figure, title string) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return pageTmpl.Execute(w, struct {
		Title  string
		Script string
		Figure template.JS
	}{title, ScriptURL, template.JS(data)})
}
