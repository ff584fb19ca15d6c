package io

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stageflow/pkg/errors"
	"github.com/matzehuels/stageflow/pkg/flow"
)

// Record file formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFromPath infers the record format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer record format from %q (want .csv, .json, .yaml)", path)
}

type record struct {
	Stages []string `json:"stages" yaml:"stages"`
	Phase  string   `json:"phase,omitempty" yaml:"phase,omitempty"`
	Weight *float64 `json:"weight" yaml:"weight"`
}

func (r record) decode(i int) (flow.Record, error) {
	if r.Weight == nil {
		return flow.Record{}, errors.New(errors.ErrCodeInvalidRecord, "record %d: missing weight", i)
	}
	phase, err := flow.ParsePhase(r.Phase)
	if err != nil {
		return flow.Record{}, errors.Wrap(errors.ErrCodeInvalidRecord, err, "record %d", i)
	}
	out, err := flow.NewRecord(r.Stages, phase, *r.Weight)
	if err != nil {
		return flow.Record{}, errors.Wrap(errors.ErrCodeInvalidRecord, err, "record %d", i)
	}
	return out, nil
}

func decodeAll(in []record) ([]flow.Record, error) {
	out := make([]flow.Record, 0, len(in))
	for i, r := range in {
		rec, err := r.decode(i)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReadRecords decodes records in the given format from r. Record order is
// preserved. ReadRecords does not close r.
func ReadRecords(r io.Reader, format string) ([]flow.Record, error) {
	switch format {
	case FormatCSV:
		return readCSV(r)
	case FormatJSON:
		var in []record
		if err := json.NewDecoder(r).Decode(&in); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
		return decodeAll(in)
	case FormatYAML:
		var in []record
		if err := yaml.NewDecoder(r).Decode(&in); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
		return decodeAll(in)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported record format %q", format)
}

// ImportRecords reads a record file, inferring the format from its extension.
func ImportRecords(path string) ([]flow.Record, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Annotate(err, "open %s", path)
	}
	defer f.Close()
	return ReadRecords(f, format)
}

var (
	stageColumns  = [flow.StageCount]string{"stage1", "stage2", "stage3", "stage4", "stage5"}
	phaseColumns  = []string{"assignment_phase", "phase"}
	weightColumns = []string{"value", "weight"}
)

func readCSV(r io.Reader) ([]flow.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return []flow.Record{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read csv header")
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var stageIdx [flow.StageCount]int
	for s, name := range stageColumns {
		i, ok := cols[name]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "csv header missing column %q", name)
		}
		stageIdx[s] = i
	}
	weightIdx := firstColumn(cols, weightColumns)
	if weightIdx < 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "csv header missing column %q", weightColumns[0])
	}
	phaseIdx := firstColumn(cols, phaseColumns)

	out := []flow.Record{}
	for i := 0; ; i++ {
		row, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read csv row %d", i)
		}

		stages := make([]string, flow.StageCount)
		for s, idx := range stageIdx {
			stages[s] = row[idx]
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(row[weightIdx]), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "record %d: weight", i)
		}
		rec := record{Stages: stages, Weight: &weight}
		if phaseIdx >= 0 {
			rec.Phase = row[phaseIdx]
		}

		decoded, err := rec.decode(i)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded)
	}
}

func firstColumn(cols map[string]int, names []string) int {
	for _, n := range names {
		if i, ok := cols[n]; ok {
			return i
		}
	}
	return -1
}
