package document

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"disasexpl/internal/asm"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of documents a Cache keeps.
const DefaultCacheSize = 128

// Cache keeps recently loaded documents. An entry is reused only while the
// file's size and modification time are unchanged.
type Cache struct {
	parser *asm.Parser
	docs   *lru.Cache[[32]byte, *Document]
}

// NewCache returns a cache holding up to size documents parsed with p.
func NewCache(p *asm.Parser, size int) *Cache {
	docs, err := lru.New[[32]byte, *Document](size)
	if err != nil {
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}
	return &Cache{parser: p, docs: docs}
}

// Load returns the cached document for path or loads it. Failed loads and
// stdin are never cached.
func (c *Cache) Load(path string, f asm.Filter) *Document {
	if path == Stdin {
		return Load(path, c.parser, f)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return failed(path, fmt.Errorf("stat listing: %w", err))
	}

	key := cacheKey(abs, fi, f)
	if doc, ok := c.docs.Get(key); ok {
		return doc
	}
	doc := Load(path, c.parser, f)
	if doc.Err == nil {
		c.docs.Add(key, doc)
	}
	return doc
}

// Len reports the number of cached documents.
func (c *Cache) Len() int {
	return c.docs.Len()
}

// Purge drops every cached document.
func (c *Cache) Purge() {
	c.docs.Purge()
}

func cacheKey(path string, fi os.FileInfo, f asm.Filter) [32]byte {
	h := sha256.New()
	h.Write([]byte(path))
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(fi.Size()))
	h.Write(n[:])
	binary.LittleEndian.PutUint64(n[:], uint64(fi.ModTime().UnixNano()))
	h.Write(n[:])
	fmt.Fprintf(h, "%t%t%t%t%t%d",
		f.Trim, f.Binary, f.StripCommentOnly, f.StripDirectives, f.StripDeadLabels, f.Indent)

	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}
