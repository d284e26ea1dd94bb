// Package dataset bundles a sample reading-history export and resolves
// which source a run should read.
package dataset

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// DefaultName labels the bundled export in reports and logs.
const DefaultName = "bundled goodreads_history.csv"

//go:embed goodreads_history.csv
var defaultCSV []byte

// Default returns a reader over the bundled export.
func Default() io.ReadCloser {
	return io.NopCloser(bytes.NewReader(defaultCSV))
}

// Resolve opens the export at path. An empty path, or a path that does not
// exist, falls back to the bundled export; fellBack reports which happened.
// Other open errors are returned as is.
func Resolve(path string) (name string, rc io.ReadCloser, fellBack bool, err error) {
	if path == "" {
		return DefaultName, Default(), true, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultName, Default(), true, nil
	}
	if err != nil {
		return "", nil, false, fmt.Errorf("dataset: open %q: %w", path, err)
	}
	return path, f, false, nil
}
