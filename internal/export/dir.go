package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirSink writes deliveries into a directory.
type DirSink struct {
	Dir string
}

// Deliver writes the file atomically and returns its path. An existing file
// with the same name is replaced.
func (s DirSink) Deliver(_ context.Context, d Delivery) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".contractlens-export-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(d.Data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write %s: %w", d.FileName, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", d.FileName, err)
	}

	target := filepath.Join(dir, filepath.Base(d.FileName))
	if err := os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("rename to %s: %w", target, err)
	}
	return target, nil
}
