// Package output delivers generated documents either to a file or to memory.
package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Result is a delivered document. Exactly one of Path and Buffer is set.
type Result struct {
	Path   string
	Buffer *bytes.Reader
	Size   int64
}

// Deliver runs produce against path, or against memory when path is empty.
//
// Files are written to a temporary sibling and renamed into place once
// produce succeeds, so a failure never leaves a truncated file at path.
// The returned buffer is positioned at offset 0.
func Deliver(path string, produce func(w io.Writer) error) (*Result, error) {
	if path == "" {
		var buf bytes.Buffer
		if err := produce(&buf); err != nil {
			return nil, err
		}
		return &Result{Buffer: bytes.NewReader(buf.Bytes()), Size: int64(buf.Len())}, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	counter := &countingWriter{w: tmp}
	if err := produce(counter); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return nil, fmt.Errorf("failed to move output into place: %w", err)
	}
	return &Result{Path: path, Size: counter.n}, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
