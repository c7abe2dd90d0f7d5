package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"quill/internal/diag"
)

// Current schema version - increment when DiskPayload format changes.
const diskCacheSchemaVersion uint16 = 1

// Digest is a SHA-256 content hash.
type Digest = [32]byte

// DiskCache stores expansion results keyed by source content hash.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached expansion result. Only clean runs are
// cached: diagnostics carry spans into a file set that no longer exists
// on a later run, so a run with errors is always redone.
type DiskPayload struct {
	Schema uint16

	Path        string
	ContentHash Digest
	Output      string
}

// OpenDiskCache initializes and returns a disk cache at the standard
// location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "expand", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache atomically.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
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
	defer func() { _ = os.Remove(f.Name()) }()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
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
	defer func() { _ = f.Close() }()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
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

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// cacheKey hashes the source content together with every option that
// changes expansion output, so a rerun with a different edition,
// recursion limit, or trace mode misses instead of serving stale output.
func cacheKey(content []byte, opts Options) Digest {
	opts = opts.withDefaults()
	h := sha256.New()
	h.Write(content)
	fmt.Fprintf(h, "\x00edition=%d;limit=%d;trace=%t",
		opts.Edition, opts.Config.RecursionLimit, opts.Config.TraceMac)
	var key Digest
	copy(key[:], h.Sum(nil))
	return key
}

// lookupCached tries to satisfy path from the cache. The key covers the
// current on-disk content and the options, so a stale entry simply misses.
func lookupCached(cache *DiskCache, path string, opts Options) (FileResult, bool) {
	if cache == nil {
		return FileResult{}, false
	}
	content, err := os.ReadFile(path) // #nosec G304 -- path comes from the directory walk
	if err != nil {
		return FileResult{}, false
	}

	var payload DiskPayload
	ok, err := cache.Get(cacheKey(content, opts), &payload)
	if err != nil || !ok || payload.Schema != diskCacheSchemaVersion {
		return FileResult{}, false
	}
	return FileResult{
		Path:   payload.Path,
		Output: payload.Output,
		Bag:    diag.NewBag(opts.withDefaults().MaxDiagnostics),
	}, true
}

// storeCached records a clean result.
func storeCached(cache *DiskCache, res FileResult, opts Options) {
	if cache == nil || res.Bag.Len() > 0 {
		return
	}
	content, err := os.ReadFile(res.Path) // #nosec G304 -- same path we just expanded
	if err != nil {
		return
	}
	_ = cache.Put(cacheKey(content, opts), &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        res.Path,
		ContentHash: sha256.Sum256(content),
		Output:      res.Output,
	})
}
