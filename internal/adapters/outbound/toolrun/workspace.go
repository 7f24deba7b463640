package toolrun

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is a private temporary directory for one tool invocation.
// Callers must Close it on every path.
type Workspace struct {
	dir string
}

// NewWorkspace creates a fresh temporary directory.
func NewWorkspace() (*Workspace, error) {
	dir, err := os.MkdirTemp("", "codereview-*")
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string { return w.dir }

// WriteFile writes content verbatim to name inside the workspace and returns
// the absolute path. Directory components of name are dropped.
func (w *Workspace) WriteFile(name, content string) (string, error) {
	path := filepath.Join(w.dir, filepath.Base(name))
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}

// Close removes the workspace and everything in it.
func (w *Workspace) Close() error {
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("removing workspace: %w", err)
	}
	return nil
}
