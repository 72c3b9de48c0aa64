package feed

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type Writer struct{}

func NewWriter() *Writer {
	return &Writer{}
}

// Run replaces the file at path with document encoded as UTF-8. Invalid
// byte sequences are written as U+FFFD. The document is written to a
// temporary file in the same directory and renamed over path.
func (w *Writer) Run(path string, document string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in '%s': %w", dir, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	encoder := transform.NewWriter(tmp, unicode.UTF8.NewEncoder())
	if _, err := io.WriteString(encoder, document); err != nil {
		return fmt.Errorf("failed to write feed: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to flush feed: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace '%s': %w", path, err)
	}

	return nil
}
