package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/stageflow/pkg/errors"
	"github.com/matzehuels/stageflow/pkg/flow"
	"github.com/matzehuels/stageflow/pkg/sankey"
)

var wantRecords = []flow.Record{
	{Stages: [flow.StageCount]string{"NULL", "Linear TV", "Linear TV", "Linear TV", "Linear TV"}, Phase: flow.PhaseNone, Weight: 18250},
	{Stages: [flow.StageCount]string{"Netflix", "Netflix", "Netflix", "Unknown", "Netflix"}, Phase: flow.Phase1, Weight: 920},
}

func TestReadRecords(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
	}{
		{
			name:   "csv",
			format: FormatCSV,
			input: `stage1,stage2,stage3,stage4,stage5,assignment_phase,value
NULL,Linear TV,Linear TV,Linear TV,Linear TV,none,18250
Netflix,Netflix,Netflix,Unknown,Netflix,phase1,920
`,
		},
		{
			name:   "csv reordered with extra column",
			format: FormatCSV,
			input: `value,session_count,stage5,stage4,stage3,stage2,stage1,phase
18250,400,Linear TV,Linear TV,Linear TV,Linear TV,NULL,
920,12,Netflix,Unknown,Netflix,Netflix,Netflix,phase1
`,
		},
		{
			name:   "json",
			format: FormatJSON,
			input: `[
  {"stages": ["NULL", "Linear TV", "Linear TV", "Linear TV", "Linear TV"], "weight": 18250},
  {"stages": ["Netflix", "Netflix", "Netflix", "Unknown", "Netflix"], "phase": "phase1", "weight": 920}
]`,
		},
		{
			name:   "yaml",
			format: FormatYAML,
			input: `- stages: ["NULL", "Linear TV", "Linear TV", "Linear TV", "Linear TV"]
  phase: none
  weight: 18250
- stages: [Netflix, Netflix, Netflix, Unknown, Netflix]
  phase: phase1
  weight: 920
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadRecords(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("ReadRecords: %v", err)
			}
			if diff := cmp.Diff(wantRecords, got); diff != "" {
				t.Errorf("records (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadRecordsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
		code   errors.Code
	}{
		{"csv missing stage column", FormatCSV, "stage1,stage2,stage3,stage4,value\nA,B,C,D,1\n", errors.ErrCodeInvalidFormat},
		{"csv missing value column", FormatCSV, "stage1,stage2,stage3,stage4,stage5\nA,B,C,D,E\n", errors.ErrCodeInvalidFormat},
		{"csv bad weight", FormatCSV, "stage1,stage2,stage3,stage4,stage5,value\nA,B,C,D,E,abc\n", errors.ErrCodeInvalidRecord},
		{"csv negative weight", FormatCSV, "stage1,stage2,stage3,stage4,stage5,value\nA,B,C,D,E,-4\n", errors.ErrCodeInvalidRecord},
		{"csv NaN weight", FormatCSV, "stage1,stage2,stage3,stage4,stage5,value\nA,B,C,D,E,NaN\n", errors.ErrCodeInvalidRecord},
		{"json four stages", FormatJSON, `[{"stages": ["A","B","C","D"], "weight": 1}]`, errors.ErrCodeInvalidRecord},
		{"json missing weight", FormatJSON, `[{"stages": ["A","B","C","D","E"]}]`, errors.ErrCodeInvalidRecord},
		{"json bad phase", FormatJSON, `[{"stages": ["A","B","C","D","E"], "phase": "phase9", "weight": 1}]`, errors.ErrCodeInvalidRecord},
		{"json malformed", FormatJSON, `{`, errors.ErrCodeInvalidFormat},
		{"yaml six stages", FormatYAML, "- stages: [A, B, C, D, E, F]\n  weight: 1\n", errors.ErrCodeInvalidRecord},
		{"unknown format", "xml", "<records/>", errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRecords(strings.NewReader(tt.input), tt.format)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestReadRecordsEmpty(t *testing.T) {
	for _, format := range []string{FormatCSV, FormatYAML} {
		got, err := ReadRecords(strings.NewReader(""), format)
		if err != nil {
			t.Errorf("%s: %v", format, err)
		}
		if len(got) != 0 {
			t.Errorf("%s: got %d records", format, len(got))
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"flows.csv":      FormatCSV,
		"FLOWS.JSON":     FormatJSON,
		"dir/flows.yaml": FormatYAML,
		"flows.yml":      FormatYAML,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
	if _, err := FormatFromPath("flows.txt"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("FormatFromPath(.txt) err = %v", err)
	}
}

func TestImportRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flows.csv")
	data := "stage1,stage2,stage3,stage4,stage5,assignment_phase,value\nA,B,C,D,E,phase2b,7\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ImportRecords(path)
	if err != nil {
		t.Fatalf("ImportRecords: %v", err)
	}
	if len(got) != 1 || got[0].Phase != flow.Phase2B || got[0].Weight != 7 {
		t.Errorf("got %+v", got)
	}

	_, err = ImportRecords(filepath.Join(dir, "missing.csv"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestGraphRoundTrip(t *testing.T) {
	g, err := sankey.Build(wantRecords, sankey.Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		t.Fatalf("WriteGraph: %v", err)
	}
	got, err := ReadGraph(&buf)
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if diff := cmp.Diff(g, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}

	path := filepath.Join(t.TempDir(), "graph.json")
	if err := ExportGraph(g, path); err != nil {
		t.Fatalf("ExportGraph: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("exported file missing: %v", err)
	}
}
