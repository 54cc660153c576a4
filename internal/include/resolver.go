// Package include resolves include references against the propath.
package include

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"

	"ablpp/internal/diag"
)

// Resolver finds include files on a fixed propath and remembers the
// answers. It is safe for concurrent use, so compile units of one run can
// share it.
type Resolver struct {
	propath []string
	stat    func(string) (fs.FileInfo, error)

	mu    sync.RWMutex
	cache map[uint64]string // xxhash(name) -> path, "" for not found
	hits  int
}

// NewResolver returns a resolver over propath. Entries are used as given;
// relative entries are relative to the working directory.
func NewResolver(propath []string) *Resolver {
	return &Resolver{
		propath: append([]string(nil), propath...),
		stat:    os.Stat,
		cache:   make(map[uint64]string),
	}
}

// Propath returns the search path.
func (r *Resolver) Propath() []string { return r.propath }

// Resolve returns the path of the include file name. The error is a
// *diag.IncludeNotFoundError without a location; the caller knows where the
// reference was.
func (r *Resolver) Resolve(name string) (string, error) {
	key := xxhash.Sum64String(Normalize(name))
	r.mu.RLock()
	path, ok := r.cache[key]
	r.mu.RUnlock()
	if !ok {
		path = find(name, r.propath, r.stat)
		r.mu.Lock()
		r.cache[key] = path
		r.mu.Unlock()
	} else {
		r.mu.Lock()
		r.hits++
		r.mu.Unlock()
	}
	if path == "" {
		return "", &diag.IncludeNotFoundError{Name: name, Propath: r.propath}
	}
	return path, nil
}

// CacheHits is the number of Resolve calls answered from the cache.
func (r *Resolver) CacheHits() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hits
}

// Resolve is the uncached lookup of name on propath.
func Resolve(name string, propath []string) (string, error) {
	if path := find(name, propath, os.Stat); path != "" {
		return path, nil
	}
	return "", &diag.IncludeNotFoundError{Name: name, Propath: propath}
}

// Normalize converts backslashes to slashes; include references written on
// Windows resolve the same way everywhere.
func Normalize(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), `\`, "/")
}

// find: абсолютные и явно относительные (./, ../) пути проверяются как есть,
// затем перебирается propath по порядку.
func find(name string, propath []string, stat func(string) (fs.FileInfo, error)) string {
	name = Normalize(name)
	if name == "" {
		return ""
	}
	isFile := func(p string) bool {
		info, err := stat(p)
		return err == nil && info.Mode().IsRegular()
	}
	if isExplicit(name) && isFile(filepath.FromSlash(name)) {
		return filepath.FromSlash(name)
	}
	for _, dir := range propath {
		candidate := filepath.Join(dir, filepath.FromSlash(name))
		if isFile(candidate) {
			return candidate
		}
	}
	return ""
}

// isExplicit reports an absolute path, a drive-letter path or a path that
// starts with a dot.
func isExplicit(name string) bool {
	switch {
	case strings.HasPrefix(name, "/"):
		return true
	case len(name) > 1 && name[1] == ':':
		return true
	case len(name) > 1 && name[0] == '.':
		return true
	}
	return filepath.IsAbs(name)
}
