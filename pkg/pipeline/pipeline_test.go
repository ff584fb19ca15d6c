package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/stageflow/pkg/cache"
	"github.com/matzehuels/stageflow/pkg/errors"
	"github.com/matzehuels/stageflow/pkg/flow"
	"github.com/matzehuels/stageflow/pkg/source"
)

func sampleRecords() []flow.Record {
	return []flow.Record{
		{Stages: [flow.StageCount]string{"NULL", "Netflix", "Netflix", "Unknown", "Netflix"}, Phase: flow.Phase1, Weight: 300},
		{Stages: [flow.StageCount]string{"Hulu", "Hulu", "Hulu", "Hulu", "Hulu"}, Phase: flow.PhaseNone, Weight: 200},
		{Stages: [flow.StageCount]string{"NULL", "Linear TV", "Linear TV", "Linear TV", "Linear TV"}, Phase: flow.PhaseNone, Weight: 100},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"plotly", false},
		{"html", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "html"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	got := ParseFormats(" json, html,,dot ")
	if diff := cmp.Diff([]string{"json", "html", "dot"}, got); diff != "" {
		t.Errorf("ParseFormats() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{"plotly": "plotly.json", "html": "html", "dot": "dot", "svg": "svg"}
	for in, want := range tests {
		if got := Extension(in); got != want {
			t.Errorf("Extension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Source: source.Static{Label: "test"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.TopN != DefaultTopN {
		t.Errorf("TopN = %d, want %d", opts.TopN, DefaultTopN)
	}
	if diff := cmp.Diff([]string{FormatJSON}, opts.Formats); diff != "" {
		t.Errorf("Formats mismatch:\n%s", diff)
	}
	if opts.Logger == nil {
		t.Error("Logger should default")
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no source", Options{}, errors.ErrCodeInvalidInput},
		{"negative top n", Options{Source: source.Static{}, TopN: -1}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Source: source.Static{}, Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderTextFormats(t *testing.T) {
	g, err := Build(sampleRecords(), Options{TopN: 30})
	if err != nil {
		t.Fatal(err)
	}
	artifacts, err := Render(g, Options{Formats: []string{FormatJSON, FormatPlotly, FormatHTML, FormatDOT}, Title: "T"})
	if err != nil {
		t.Fatal(err)
	}
	if len(artifacts) != 4 {
		t.Fatalf("artifacts = %d, want 4", len(artifacts))
	}
	if !json.Valid(artifacts[FormatJSON]) || !json.Valid(artifacts[FormatPlotly]) {
		t.Error("json/plotly artifacts should be valid JSON")
	}
	if !strings.Contains(string(artifacts[FormatDOT]), "digraph G") {
		t.Error("dot artifact missing digraph")
	}
	if !strings.Contains(string(artifacts[FormatHTML]), "<title>T</title>") {
		t.Error("html artifact missing title")
	}
}

func TestRenderUnsupported(t *testing.T) {
	g, _ := Build(nil, Options{TopN: 30})
	if _, err := Render(g, Options{Formats: []string{"gif"}}); err == nil {
		t.Error("Render should reject unknown formats")
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	opts := Options{
		Source:  source.Static{Label: "test", Data: sampleRecords()},
		TopN:    2,
		Formats: []string{FormatJSON, FormatDOT},
	}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Stats.Retrieved != 3 || first.Stats.Shown != 2 || len(first.Shown) != 2 {
		t.Errorf("stats = %+v", first.Stats)
	}
	if first.CacheInfo.BuildHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	if first.Graph.Stats.Records != 3 || first.Graph.Stats.Shown != 2 {
		t.Errorf("graph stats = %+v", first.Graph.Stats)
	}
	if first.GraphHash == "" {
		t.Error("GraphHash should be set")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.BuildHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run cache info = %+v, want hits", second.CacheInfo)
	}
	if diff := cmp.Diff(first.Graph, second.Graph); diff != "" {
		t.Errorf("cached graph differs (-first +second):\n%s", diff)
	}
	if second.GraphHash != first.GraphHash {
		t.Error("GraphHash should be stable across cache hits")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.BuildHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestRunnerExecuteTopNChangesKey(t *testing.T) {
	ctx := context.Background()
	c, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(c, nil, nil)
	src := source.Static{Label: "test", Data: sampleRecords()}

	if _, err := r.Execute(ctx, Options{Source: src, TopN: 2}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, Options{Source: src, TopN: 3})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.BuildHit {
		t.Error("different TopN should not hit the cache")
	}
	if res.Stats.Shown != 3 {
		t.Errorf("Shown = %d, want 3", res.Stats.Shown)
	}
}

func TestRunnerExecuteInvalidRecord(t *testing.T) {
	records := sampleRecords()
	records[2].Weight = -1
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Source: source.Static{Data: records}})
	if !errors.Is(err, errors.ErrCodeInvalidRecord) {
		t.Errorf("error = %v, want INVALID_RECORD", err)
	}
}

func TestRunnerExecuteEmpty(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{Source: source.Static{}})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Graph.Empty() || len(res.Graph.Edges) != 0 {
		t.Error("empty input should give an empty graph")
	}
}
