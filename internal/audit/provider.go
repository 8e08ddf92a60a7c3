package audit

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by a ContentProvider when a target does not exist.
var ErrNotFound = errors.New("content not found")

// ContentProvider supplies the raw bytes of a named target.
// Implementations return an error wrapping ErrNotFound for absent targets.
type ContentProvider interface {
	Content(ctx context.Context, name string) ([]byte, error)
}

// DirProvider reads targets from files under a root directory.
type DirProvider struct {
	root string
}

// NewDirProvider creates a DirProvider rooted at dir.
func NewDirProvider(dir string) *DirProvider {
	return &DirProvider{root: dir}
}

// Root returns the directory targets are resolved against.
func (p *DirProvider) Root() string {
	return p.root
}

// Path returns the file path of the named target.
func (p *DirProvider) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.root, name)
}

// Content reads the named target.
// A missing path or a directory is reported as ErrNotFound.
func (p *DirProvider) Content(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := p.Path(name)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", name, ErrNotFound)
	}

	data, err := os.ReadFile(path) //nolint:gosec // Target paths come from the user's configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// MapProvider serves targets from memory. It is useful for embedding the
// auditor in other tools and for tests.
type MapProvider map[string][]byte

// Content returns the bytes stored under name.
func (m MapProvider) Content(_ context.Context, name string) ([]byte, error) {
	data, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return data, nil
}
