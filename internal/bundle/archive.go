package bundle

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"
)

// Archive is an open egg bundle. Entries are located by rescanning the tar
// stream from the start, so reads share a single file cursor and are
// serialized.
type Archive struct {
	path string
	mu   sync.Mutex
	f    *os.File
}

// OpenArchive opens path as a tar bundle. It fails if the file cannot be
// read or does not begin with a valid tar header.
func OpenArchive(p string) (*Archive, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("bundle: cannot open %s: %w", p, err)
	}

	if _, err := tar.NewReader(f).Next(); err != nil {
		f.Close()
		return nil, fmt.Errorf("bundle: %s is not an archive: %w", p, err)
	}

	return &Archive{path: p, f: f}, nil
}

// Path returns the archive's location on disk.
func (a *Archive) Path() string {
	return a.path
}

// ReadFile returns the contents of the named entry.
// Leading "./" and "/" are ignored when matching entry names.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.f == nil {
		return nil, fmt.Errorf("bundle: archive %s is closed", a.path)
	}
	if _, err := a.f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("bundle: rewind %s: %w", a.path, err)
	}

	want := entryName(name)
	tr := tar.NewReader(a.f)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("bundle: %s in %s: %w", name, a.path, fs.ErrNotExist)
		}
		if err != nil {
			return nil, fmt.Errorf("bundle: read %s: %w", a.path, err)
		}
		if hdr.Typeflag != tar.TypeReg || entryName(hdr.Name) != want {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("bundle: read %s in %s: %w", name, a.path, err)
		}
		return data, nil
	}
}

// Close releases the underlying file. It is safe to call more than once.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.f == nil {
		return nil
	}
	err := a.f.Close()
	a.f = nil
	return err
}

func entryName(name string) string {
	return strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(name, "\\", "/")), "/")
}
