package ingest

import (
	"bytes"
	"context"
	"io"
	"os"
)

// Source yields the tabular bytes of one input file.
type Source interface {
	// Name identifies the source in diagnostics.
	Name() string
	// Open returns a reader over the source; the caller closes it.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads a CSV file from disk.
type FileSource struct {
	Path string
}

// Name implements Source.
func (f FileSource) Name() string { return f.Path }

// Open implements Source.
func (f FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// FileSources wraps each path as a FileSource, keeping order.
func FileSources(paths ...string) []Source {
	out := make([]Source, 0, len(paths))
	for _, p := range paths {
		out = append(out, FileSource{Path: p})
	}
	return out
}

// BytesSource serves in-memory CSV content.
type BytesSource struct {
	Label string
	Data  []byte
}

// Name implements Source.
func (b BytesSource) Name() string { return b.Label }

// Open implements Source.
func (b BytesSource) Open(_ context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.Data)), nil
}
