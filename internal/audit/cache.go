package audit

import (
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"collator/internal/record"
)

const headerCacheSize = 4096

type cachedHeader struct {
	size    int64
	modTime time.Time
	header  record.Header
}

// HeaderCache remembers decoded record headers by path. An entry is served
// only while the file keeps the size and modification time it had when read.
type HeaderCache struct {
	entries *lru.Cache[string, cachedHeader]
}

// NewHeaderCache returns a cache holding at most size headers.
func NewHeaderCache(size int) (*HeaderCache, error) {
	if size <= 0 {
		size = headerCacheSize
	}
	entries, err := lru.New[string, cachedHeader](size)
	if err != nil {
		return nil, err
	}
	return &HeaderCache{entries: entries}, nil
}

// Read returns the header of the record at path.
func (c *HeaderCache) Read(path string) (record.Header, error) {
	if c == nil {
		return record.ReadHeader(path)
	}
	info, err := os.Stat(path)
	if err != nil {
		c.entries.Remove(path)
		return record.ReadHeader(path)
	}
	if hit, ok := c.entries.Get(path); ok && hit.size == info.Size() && hit.modTime.Equal(info.ModTime()) {
		return hit.header, nil
	}
	h, err := record.ReadHeader(path)
	if err != nil {
		c.entries.Remove(path)
		return record.Header{}, err
	}
	c.entries.Add(path, cachedHeader{size: info.Size(), modTime: info.ModTime(), header: h})
	return h, nil
}

// Len reports the number of cached headers.
func (c *HeaderCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

var headers = func() *HeaderCache {
	c, err := NewHeaderCache(headerCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}()
