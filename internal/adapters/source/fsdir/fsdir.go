// Package fsdir implements ports.StatusSource on top of an fs.FS rooted at the bees work directory.
package fsdir

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/vshulcz/bees-exporter/internal/domain"
	"github.com/vshulcz/bees-exporter/internal/ports"
)

// Dir lists and opens status files. It holds no state besides the filesystem handle.
type Dir struct {
	fsys fs.FS
}

var _ ports.StatusSource = (*Dir)(nil)

// New wraps fsys. Use Open for a directory on disk.
func New(fsys fs.FS) *Dir {
	return &Dir{fsys: fsys}
}

// Open verifies that path is an accessible directory and returns a Dir over it.
func Open(path string) (*Dir, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access stats directory %q: %w", path, err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("stats directory %q is not a directory", path)
	}
	if _, err := os.ReadDir(path); err != nil {
		return nil, fmt.Errorf("cannot read stats directory %q: %w", path, err)
	}
	return New(os.DirFS(path)), nil
}

// List returns the sorted names of regular files (or symlinks) ending in domain.StatusSuffix.
func (d *Dir) List(_ context.Context) ([]string, error) {
	entries, err := fs.ReadDir(d.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), domain.StatusSuffix) {
			continue
		}
		if t := e.Type(); !t.IsRegular() && t&fs.ModeSymlink == 0 {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Open returns the file together with the modification time observed on the open handle.
func (d *Dir) Open(_ context.Context, name string) (io.ReadCloser, time.Time, error) {
	f, err := d.fsys.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, time.Time{}, fmt.Errorf("%w: status file %s does not exist", domain.ErrSourceUnavailable, name)
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, time.Time{}, fmt.Errorf("%w: stat %s: %v", domain.ErrSourceUnavailable, name, err)
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, time.Time{}, fmt.Errorf("%w: %s is a directory", domain.ErrSourceUnavailable, name)
	}
	return f, st.ModTime(), nil
}

// Ping checks that the directory can still be listed.
func (d *Dir) Ping(_ context.Context) error {
	if _, err := fs.Stat(d.fsys, "."); err != nil {
		return fmt.Errorf("stat work dir: %w", err)
	}
	return nil
}
