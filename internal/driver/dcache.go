package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Verdict format changes
const diskCacheSchemaVersion uint16 = 1

// EnvCacheDir overrides the cache location.
const EnvCacheDir = "CSORDER_CACHE_DIR"

// DiskCache хранит вердикты проверенных файлов на диске.
// Только чистые файлы попадают в кэш: их можно пропустить целиком.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Verdict is the cached outcome of analysing one file version.
type Verdict struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path  string
	Stage string
	Clean bool
	// CheckedAt is a unix timestamp, informational only.
	CheckedAt int64
}

// OpenDiskCache returns the cache under $CSORDER_CACHE_DIR or the XDG cache
// home.
func OpenDiskCache(app string) (*DiskCache, error) {
	dir := os.Getenv(EnvCacheDir)
	if dir == "" {
		dir = filepath.Join(xdg.CacheHome, app)
	}
	return NewDiskCache(dir)
}

// NewDiskCache opens (and creates) a cache rooted at dir.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по первому байту, чтобы не держать тысячи файлов в одном месте
	return filepath.Join(c.dir, "verdicts", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a verdict to the disk cache.
func (c *DiskCache) Put(key Digest, v *Verdict) (err error) {
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
	defer func() {
		// после Rename временного файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	payload := *v
	payload.Schema = diskCacheSchemaVersion
	if payload.CheckedAt == 0 {
		payload.CheckedAt = time.Now().Unix()
	}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a verdict. Entries written by another schema read as misses.
func (c *DiskCache) Get(key Digest, out *Verdict) (bool, error) {
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
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache.
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
