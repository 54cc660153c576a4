package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"ablpp/internal/diag"
	"ablpp/internal/macro"
	"ablpp/internal/preproc"
	"ablpp/internal/project"
	"ablpp/internal/source"
	"ablpp/internal/token"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит готовые единицы компиляции по их Digest на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is a finished compile unit as stored in the cache.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16
	Path   string

	// Files in file table order; the unit is stale when any hash differs.
	FilePaths  []string
	FileHashes []project.Digest

	Tokens      []token.Token
	Graph       macro.Data
	Metrics     preproc.Metrics
	Diagnostics []diag.Diagnostic
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache uses dir as the cache directory.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог "units", первые два символа ключа - ещё один уровень
	return filepath.Join(c.dir, "units", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("cache entry %x: %w", key[:4], err)
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// store saves a finished unit under its digest.
func (c *DiskCache) store(res *Result) error {
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        res.Path,
		Tokens:      res.Tokens,
		Graph:       res.Graph.Data(),
		Metrics:     res.Metrics,
		Diagnostics: res.Bag.Items(),
	}
	for i, path := range res.Files.Paths() {
		payload.FilePaths = append(payload.FilePaths, path)
		payload.FileHashes = append(payload.FileHashes, res.Files.Get(source.FileID(i)).Hash)
	}
	return c.Put(res.Digest, payload)
}

// load fills res from the cache when an entry exists and none of the files
// it was built from changed. The files are read into a fresh table; res is
// left alone on a miss.
func (c *DiskCache) load(res *Result, encoding string) (bool, error) {
	var payload DiskPayload
	ok, err := c.Get(res.Digest, &payload)
	if err != nil || !ok {
		return false, err
	}
	if payload.Schema != diskCacheSchemaVersion || payload.Path != res.Path || len(payload.FilePaths) != len(payload.FileHashes) {
		return false, nil
	}
	files := source.NewFileTable()
	for i, path := range payload.FilePaths {
		id, err := files.Load(path, encoding)
		if err != nil {
			// include пропал - пересчитаем и получим нормальную ошибку
			return false, nil
		}
		if int(id) != i || project.Digest(files.Get(id).Hash) != payload.FileHashes[i] {
			return false, nil
		}
	}
	res.Files = files
	res.Tokens = payload.Tokens
	res.Graph = macro.FromData(payload.Graph)
	res.Metrics = payload.Metrics
	for _, d := range payload.Diagnostics {
		res.Bag.Add(d)
	}
	res.Cached = true
	return true, nil
}
