// Package analysis derives symbol information from parsed listings.
package analysis

import (
	"fmt"
	"sync/atomic"

	"github.com/ianlancetaylor/demangle"
	lru "github.com/hashicorp/golang-lru/v2"
)

const demangleCacheSize = 4096

// symbolCache memoizes demangled names. The LRU is safe for concurrent use.
type symbolCache struct {
	names *lru.Cache[string, string]
	hits  atomic.Int64
}

var cache = newSymbolCache(demangleCacheSize)

func newSymbolCache(size int) *symbolCache {
	names, err := lru.New[string, string](size)
	if err != nil {
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}
	return &symbolCache{names: names}
}

// CachedDemangle returns the demangled form of a C++ or Rust symbol, or the
// name unchanged when it is not mangled.
func CachedDemangle(mangled string) string {
	if demangled, ok := cache.names.Get(mangled); ok {
		cache.hits.Add(1)
		return demangled
	}
	demangled := demangle.Filter(mangled, demangle.NoClones)
	cache.names.Add(mangled, demangled)
	return demangled
}

// DemangleCacheStats reports the number of cached names and cache hits.
func DemangleCacheStats() (symbols int, hits int64) {
	return cache.names.Len(), cache.hits.Load()
}
