package workflow

import (
	"fmt"
	"os"
	"path/filepath"
)

// DownloadSink receives a generated artifact. The save is a one-shot side
// effect: the sink never retains a reference to the bytes across calls.
type DownloadSink interface {
	Save(filename string, artifact []byte) (path string, err error)
}

// DirSink writes artifacts into a directory, creating it on first use.
type DirSink struct {
	Dir string
}

// Save writes the artifact and returns its full path.
func (s DirSink) Save(filename string, artifact []byte) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("workflow: create download dir: %w", err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, artifact, 0o644); err != nil {
		return "", fmt.Errorf("workflow: save artifact: %w", err)
	}
	return path, nil
}
