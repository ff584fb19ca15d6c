package sankey

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/stageflow/pkg/errors"
	"github.com/matzehuels/stageflow/pkg/flow"
	"github.com/matzehuels/stageflow/pkg/palette"
)

func rec(weight float64, phase flow.Phase, stages ...string) flow.Record {
	r := flow.Record{Phase: phase, Weight: weight}
	copy(r.Stages[:], stages)
	return r
}

func labels(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Label
	}
	return out
}

func sampleRecords() []flow.Record {
	return []flow.Record{
		rec(900, flow.PhaseNone, "NULL", "Linear TV", "Linear TV", "Linear TV", "Linear TV"),
		rec(600, flow.Phase1, "Netflix", "Netflix", "Netflix", "Unknown", "Netflix"),
		rec(450, flow.Phase2A, "NULL", "NULL", "NULL", "Unknown", "Hulu"),
		rec(300, flow.Phase2B, "Hulu", "Hulu", "Hulu", "Unknown", "Peacock"),
		rec(250, flow.PhaseNone, "NULL", "NULL", "NULL", "Unknown", "Unknown"),
		rec(120, flow.PhaseNone, "Disney+", "Disney+", "Disney+", "Hulu", "Hulu"),
		rec(80, flow.Phase1, "NULL", "Netflix", "Netflix", "Unknown", "Netflix"),
	}
}

func TestBuildExampleScenario(t *testing.T) {
	records := []flow.Record{
		rec(100, flow.Phase1, "A", "B", "C", "D", "E"),
		rec(50, flow.PhaseNone, "A", "B", "C", "D", "E"),
		rec(20, flow.Phase2B, "X", "B", "C", "D", "E"),
	}
	g, err := Build(records, Options{TopN: 30})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	stage0 := g.NodesInStage(0)
	if diff := cmp.Diff([]string{"A", "X"}, labels(stage0)); diff != "" {
		t.Errorf("stage 0 labels (-want +got):\n%s", diff)
	}
	if stage0[0].Weight != 150 || stage0[1].Weight != 20 {
		t.Errorf("stage 0 weights = %v, %v; want 150, 20", stage0[0].Weight, stage0[1].Weight)
	}

	stage1 := g.NodesInStage(1)
	if len(stage1) != 1 || stage1[0].Label != "B" || stage1[0].Weight != 170 {
		t.Errorf("stage 1 = %+v, want single B with weight 170", stage1)
	}

	// Records sorted by phase: phase1 (A,100), phase2b (X,20), none (A,50).
	var first []Edge
	for _, e := range g.Edges {
		if g.Nodes[e.Source].Stage == 0 {
			first = append(first, e)
		}
	}
	want := []Edge{
		{Source: 0, Target: 2, Weight: 100, Color: palette.NeutralLink, Phase: flow.Phase1},
		{Source: 1, Target: 2, Weight: 20, Color: palette.NeutralLink, Phase: flow.Phase2B},
		{Source: 0, Target: 2, Weight: 50, Color: palette.NeutralLink, Phase: flow.PhaseNone},
	}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("stage 0 edges (-want +got):\n%s", diff)
	}

	for _, e := range g.Edges {
		if e.Color != palette.NeutralLink {
			t.Errorf("edge %+v: color %q, want neutral", e, e.Color)
		}
	}
	if len(g.Edges) != 3*flow.PairCount {
		t.Errorf("edges = %d, want %d", len(g.Edges), 3*flow.PairCount)
	}
}

func TestBuildWeightConservation(t *testing.T) {
	records := sampleRecords()
	g, err := Build(records, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, n := range g.Nodes {
		var want float64
		for _, r := range records {
			if r.Stages[n.Stage] == n.Label {
				want += r.Weight
			}
		}
		if n.Weight != want {
			t.Errorf("node %d (%s@%d) weight = %v, want %v", n.Index, n.Label, n.Stage, n.Weight, want)
		}

		var out, in float64
		for _, e := range g.Outgoing(n.Index) {
			out += e.Weight
		}
		for _, e := range g.Incoming(n.Index) {
			in += e.Weight
		}
		if n.Stage < flow.StageCount-1 && out != n.Weight {
			t.Errorf("node %s@%d: outgoing %v != weight %v", n.Label, n.Stage, out, n.Weight)
		}
		if n.Stage > 0 && in != n.Weight {
			t.Errorf("node %s@%d: incoming %v != weight %v", n.Label, n.Stage, in, n.Weight)
		}
	}
}

func TestBuildNodeCountBound(t *testing.T) {
	records := sampleRecords()
	g, err := Build(records, Options{TopN: 5})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for stage := range flow.StageCount {
		distinct := map[string]bool{}
		for _, r := range records[:5] {
			distinct[r.Stages[stage]] = true
		}
		got := len(g.NodesInStage(stage))
		if got != len(distinct) {
			t.Errorf("stage %d: %d nodes, want %d", stage, got, len(distinct))
		}
		if got > 5 {
			t.Errorf("stage %d: %d nodes exceeds record count", stage, got)
		}
	}
}

func TestBuildDeterminism(t *testing.T) {
	records := sampleRecords()
	a, err := Build(records, Options{TopN: 6})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, err := Build(records, Options{TopN: 6})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Error("two builds of identical input differ")
	}
}

func TestBuildIndicesDense(t *testing.T) {
	g, err := Build(sampleRecords(), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	prevStage := 0
	for i, n := range g.Nodes {
		if n.Index != i {
			t.Errorf("node %d has index %d", i, n.Index)
		}
		if n.Stage < prevStage {
			t.Errorf("node %d: stage %d after stage %d", i, n.Stage, prevStage)
		}
		prevStage = n.Stage
		if want := float64(n.Stage) / 4; n.X != want {
			t.Errorf("node %d: x = %v, want %v", i, n.X, want)
		}
	}
	for _, e := range g.Edges {
		if g.Nodes[e.Target].Stage != g.Nodes[e.Source].Stage+1 {
			t.Errorf("edge %+v does not connect consecutive stages", e)
		}
	}
}

func TestBuildSentinelPreservation(t *testing.T) {
	g, err := Build(sampleRecords(), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for stage, want := range map[int]string{0: "NULL", 1: "NULL", 3: "Unknown", 4: "Unknown"} {
		found := false
		for _, n := range g.NodesInStage(stage) {
			if n.Label == want {
				found = true
				if n.Color != palette.Resolve(want) {
					t.Errorf("%s color = %q", want, n.Color)
				}
			}
		}
		if !found {
			t.Errorf("stage %d: no %q node", stage, want)
		}
	}
}

func TestBuildRankLimiting(t *testing.T) {
	var records []flow.Record
	for i := range 10 {
		records = append(records, rec(float64(100-i), flow.PhaseNone,
			fmt.Sprintf("S%d", i), "B", "C", "D", "E"))
	}
	g, err := Build(records, Options{TopN: 4})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{"S0", "S1", "S2", "S3"}
	if diff := cmp.Diff(want, labels(g.NodesInStage(0))); diff != "" {
		t.Errorf("stage 0 (-want +got):\n%s", diff)
	}
	if g.Stats.Records != 10 || g.Stats.Shown != 4 {
		t.Errorf("stats = %+v, want 10 records, 4 shown", g.Stats)
	}
	if g.Stats.TotalWeight != 100+99+98+97 {
		t.Errorf("total weight = %v", g.Stats.TotalWeight)
	}
}

func TestBuildPhaseColoring(t *testing.T) {
	g, err := Build(sampleRecords(), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, e := range g.Edges {
		src := g.Nodes[e.Source]
		want := palette.NeutralLink
		if src.Stage == flow.ResolutionPair && src.Label == flow.Unknown {
			want = palette.Link(flow.ResolutionPair, flow.Unknown, e.Phase)
		}
		if e.Color != want {
			t.Errorf("edge %s@%d -> %s (%s): color %q, want %q",
				src.Label, src.Stage, g.Nodes[e.Target].Label, e.Phase, e.Color, want)
		}
	}

	colored := 0
	for _, e := range g.Edges {
		if e.Color != palette.NeutralLink {
			colored++
		}
	}
	// phase1 x2, phase2a, phase2b leave "Unknown" at stage 4.
	if colored != 4 {
		t.Errorf("colored edges = %d, want 4", colored)
	}
}

func TestBuildEmpty(t *testing.T) {
	for name, records := range map[string][]flow.Record{"nil": nil, "empty": {}} {
		t.Run(name, func(t *testing.T) {
			g, err := Build(records, Options{})
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if !g.Empty() || len(g.Edges) != 0 {
				t.Errorf("got %d nodes, %d edges; want empty", len(g.Nodes), len(g.Edges))
			}
			if len(g.Headers) != 5 || len(g.Legend) != 6 {
				t.Errorf("annotations: %d headers, %d legend", len(g.Headers), len(g.Legend))
			}
		})
	}
}

func TestBuildInvalid(t *testing.T) {
	good := rec(10, flow.PhaseNone, "A", "B", "C", "D", "E")
	tests := []struct {
		name    string
		records []flow.Record
		opts    Options
		code    errors.Code
	}{
		{"negative weight", []flow.Record{good, rec(-1, flow.PhaseNone, "A", "B", "C", "D", "E")}, Options{}, errors.ErrCodeInvalidRecord},
		{"NaN weight", []flow.Record{rec(math.NaN(), flow.PhaseNone, "A", "B", "C", "D", "E")}, Options{}, errors.ErrCodeInvalidRecord},
		{"bad phase", []flow.Record{rec(1, flow.Phase("x"), "A", "B", "C", "D", "E")}, Options{}, errors.ErrCodeInvalidRecord},
		{"missing stage", []flow.Record{rec(1, flow.PhaseNone, "A", "B", "C", "D")}, Options{}, errors.ErrCodeInvalidRecord},
		{"invalid beyond top n", []flow.Record{good, rec(-1, flow.PhaseNone, "A", "B", "C", "D", "E")}, Options{TopN: 1}, errors.ErrCodeInvalidRecord},
		{"negative top n", []flow.Record{good}, Options{TopN: -2}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.records, tt.opts)
			if err == nil {
				t.Fatalf("Build() = %d nodes, want error", len(g.Nodes))
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	before := sampleRecords()
	if _, err := Build(records, Options{}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if diff := cmp.Diff(before, records); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}
