package script

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Factory creates a runtime bound to host.
type Factory func(host Host) Runtime

// Info describes a registered language.
type Info struct {
	Ext      string
	Language string
}

var (
	factories = make(map[string]Factory)
	languages = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a runtime factory for a file extension such as ".js".
// Typically called from a language package's init() function.
// Panics if the extension is already taken.
func Register(ext, language string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	ext = normalizeExt(ext)
	if _, exists := factories[ext]; exists {
		panic(fmt.Sprintf("script: runtime for %q already registered", ext))
	}

	factories[ext] = f
	languages[ext] = language
}

// List returns all registered languages, sorted by extension.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for ext := range factories {
		result = append(result, Info{
			Ext:      ext,
			Language: languages[ext],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Ext < result[j].Ext
	})

	return result
}

// Create instantiates the runtime registered for ext.
func Create(ext string, host Host) (Runtime, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[normalizeExt(ext)]
	if !ok {
		return nil, fmt.Errorf("script: no runtime for %q", ext)
	}

	return f(host), nil
}

// ForFile instantiates the runtime matching name's extension.
func ForFile(name string, host Host) (Runtime, error) {
	return Create(filepath.Ext(name), host)
}

// Exists checks if a runtime is registered for ext.
func Exists(ext string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[normalizeExt(ext)]
	return ok
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
