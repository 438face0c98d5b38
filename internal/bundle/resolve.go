// Package bundle decides where a program's code and assets come from: a
// loose script, a directory, or an egg archive. It produces the entry
// script source plus a file reader rooted at the resolved base directory.
package bundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultBundleName is the archive looked for when no entry is named, or
// inside a directory given as the entry.
const DefaultBundleName = "game.egg"

// EntryNames are the canonical entry scripts, in lookup order. They are used
// inside bundles and as the loose-file fallback.
var EntryNames = []string{"main.js", "main.lua"}

// Resolution failures. Each is fatal at startup.
var (
	ErrBundleEntryMissing = errors.New("could not load entry script in bundle")
	ErrNoDefaultEntry     = errors.New("could not find a default entry path")
	ErrEntryMissing       = errors.New("entry does not exist")
)

// Kind says where the program originates.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
	KindArchive
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindArchive:
		return "archive"
	default:
		return "unknown"
	}
}

// Descriptor records the outcome of resolution. It is immutable after
// Resolve returns.
type Descriptor struct {
	Kind    Kind
	Path    string // The file that was probed (bundle or loose script)
	BaseDir string // Root for all relative file access
}

// Entry is a resolved program: its entry script and where to read assets.
type Entry struct {
	Descriptor
	Name    string   // Entry script name, relative to BaseDir or the archive root
	Source  []byte   // Entry script contents
	Archive *Archive // Non-nil when the program runs from a bundle
}

// Resolve locates the entry script. dir is the directory relative entries
// are resolved against ("" means the working directory); arg is the
// user-supplied entry path, or "" when none was given.
func Resolve(dir, arg string) (*Entry, error) {
	if dir == "" {
		dir = "."
	}

	fileName := arg
	if fileName == "" {
		fileName = DefaultBundleName
	}

	probe := fileName
	if !filepath.IsAbs(probe) {
		probe = filepath.Join(dir, fileName)
	}

	var desc Descriptor
	if isDirectory(probe) {
		// Re-root at the directory and treat it as if no entry was named
		desc = Descriptor{Kind: KindDirectory, BaseDir: probe}
		fileName = DefaultBundleName
		arg = ""
		probe = filepath.Join(probe, fileName)
	} else {
		desc = Descriptor{Kind: KindFile, BaseDir: filepath.Dir(probe)}
	}
	desc.Path = probe

	entry := &Entry{Descriptor: desc}

	switch {
	case fileExists(probe):
		archive, err := OpenArchive(probe)
		if err != nil {
			// Not a bundle: run it as a loose script
			entry.Name = filepath.Base(probe)
			break
		}
		entry.Kind = KindArchive
		entry.Archive = archive
		for _, name := range EntryNames {
			if src, readErr := archive.ReadFile(name); readErr == nil {
				entry.Name = name
				entry.Source = src
				return entry, nil
			}
		}
		archive.Close()
		return nil, fmt.Errorf("bundle: %s: %w", probe, ErrBundleEntryMissing)

	case arg == "":
		for _, name := range EntryNames {
			if src, err := os.ReadFile(filepath.Join(desc.BaseDir, name)); err == nil {
				entry.Name = name
				entry.Path = filepath.Join(desc.BaseDir, name)
				entry.Source = src
				return entry, nil
			}
		}
		return nil, fmt.Errorf("bundle: %s: %w", desc.BaseDir, ErrNoDefaultEntry)

	default:
		return nil, fmt.Errorf("bundle: %s: %w", arg, ErrEntryMissing)
	}

	src, err := os.ReadFile(filepath.Join(desc.BaseDir, entry.Name))
	if err != nil {
		return nil, fmt.Errorf("bundle: %s: %w", entry.Name, ErrEntryMissing)
	}
	entry.Source = src
	return entry, nil
}

// ReadFile reads an asset relative to the program: from the bundle when
// one is open, otherwise from BaseDir.
func (e *Entry) ReadFile(name string) ([]byte, error) {
	if e.Archive != nil {
		return e.Archive.ReadFile(name)
	}
	data, err := os.ReadFile(e.Resolve(name))
	if err != nil {
		return nil, fmt.Errorf("bundle: %w", err)
	}
	return data, nil
}

// Resolve maps a relative asset name to a filesystem path under BaseDir.
func (e *Entry) Resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(e.BaseDir, name)
}

// Close releases the bundle handle, if any.
func (e *Entry) Close() error {
	if e.Archive == nil {
		return nil
	}
	return e.Archive.Close()
}

func isDirectory(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
