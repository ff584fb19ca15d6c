// Package source loads flow records from where they are stored.
//
// A [Source] returns records already aggregated per distinct path, in
// descending weight order, which is the order the diagram builder expects.
// [File] reads a CSV, JSON or YAML file; the mongo subpackage queries a
// MongoDB collection.
package source

import (
	"context"

	"github.com/matzehuels/stageflow/pkg/flow"
	"github.com/matzehuels/stageflow/pkg/io"
)

// Source loads flow records.
type Source interface {
	// Name identifies the source in logs, metrics and cache keys.
	Name() string
	// Records loads all records in descending weight order.
	Records(ctx context.Context) ([]flow.Record, error)
}

// File reads records from a local file whose format is inferred from its
// extension.
type File struct {
	Path string
}

// NewFile returns a file source.
func NewFile(path string) *File { return &File{Path: path} }

// Name returns "file:" followed by the path.
func (f *File) Name() string { return "file:" + f.Path }

// Records reads the file. The context is checked before reading.
func (f *File) Records(ctx context.Context) ([]flow.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.ImportRecords(f.Path)
}

// Static serves a fixed record slice, as posted to the HTTP service.
type Static struct {
	Label string
	Data  []flow.Record
}

// Name returns the label.
func (s Static) Name() string { return s.Label }

// Records returns the fixed records.
func (s Static) Records(context.Context) ([]flow.Record, error) { return s.Data, nil }

var (
	_ Source = (*File)(nil)
	_ Source = Static{}
)
