package template

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sync"
)

// mergeFS implements fs.FS by searching through each of its directories in order.
type mergeFS struct {
	// A cache for minimizing ascertaining which directory holds the template.
	cache map[string]fs.FS

	// Directories searched in order, ending with the package-level directory embedding tmpl/.
	dirs []fs.FS

	mu sync.RWMutex
}

func newMergeFS(dirs []fs.FS) *mergeFS {
	all := make([]fs.FS, 0, len(dirs)+1)
	for _, d := range dirs {
		if d != nil {
			all = append(all, d)
		}
	}

	return &mergeFS{cache: make(map[string]fs.FS), dirs: append(all, pkgFS)}
}

// Open opens the file matching the name using the following strategy:
// - check the cache
// - check each directory, in the order provided
// - check the package-level virtual filesystem
//
// Whenever a file is found and is not present in the cache, it is added.
// Nothing removes references from the cache.
func (mfs *mergeFS) Open(name string) (fs.File, error) {
	mfs.mu.RLock()
	dir, ok := mfs.cache[name]
	mfs.mu.RUnlock()
	if ok {
		return dir.Open(name)
	}

	for _, dir := range mfs.dirs {
		file, err := dir.Open(name)
		if err == nil {
			mfs.mu.Lock()
			mfs.cache[name] = dir
			mfs.mu.Unlock()

			return file, nil
		}

		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			continue
		}

		return nil, fmt.Errorf("unable to open template %s: %w", name, err)
	}

	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// Layouts embedded in this package, available to every Parser.
const (
	AuthedTmpl   = "tmpl/authed.tmpl"
	ErrTmpl      = "tmpl/error.tmpl"
	NotFoundTmpl = "tmpl/not_found.tmpl"
	PartialsTmpl = "tmpl/partials.tmpl"
	UnauthedTmpl = "tmpl/unauthed.tmpl"
)

//go:embed tmpl/*
var pkgFS embed.FS
