package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/stageflow/pkg/errors"
	"github.com/matzehuels/stageflow/pkg/sankey"
)

// WriteGraph writes g to w as indented JSON.
func WriteGraph(g *sankey.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
	}
	return nil
}

// ExportGraph writes g to a new JSON file at path, replacing any existing
// file.
func ExportGraph(g *sankey.Graph, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(errors.ErrCodeInternal, cerr, "close %s", path)
		}
	}()
	return WriteGraph(g, f)
}

// ReadGraph decodes a graph written by WriteGraph. Malformed input is
// INVALID_FORMAT.
func ReadGraph(r io.Reader) (*sankey.Graph, error) {
	g := new(sankey.Graph)
	if err := json.NewDecoder(r).Decode(g); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}
	return g, nil
}
