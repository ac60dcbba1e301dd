package registry

import (
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/alxayo/go-decodebin/internal/core/caps"
)

// Registry is the interface Autoplug depends on (spec §1 External
// collaborators). DefaultRegistry below is one concrete, in-memory
// implementation; a host framework may supply its own.
type Registry interface {
	// Lookup returns every Decoder/Parser/Converter/Demuxer factory whose sink
	// accepts c, already sorted per spec §4.B step 6 (parser-before-non-parser,
	// rank descending, name ascending).
	Lookup(c caps.Caps) []*Factory
	// Cookie changes whenever the underlying factory set is mutated, so
	// callers can cache a Lookup result until it goes stale.
	Cookie() uint64
}

// DefaultRegistry is a concurrency-safe in-memory registry. Per spec §5's
// "factories lock" (cookies + cached factory list), lookups for a given
// caps value are cached and only rebuilt when the cookie advances — the
// cache itself lives in a lock-free concurrent map (xsync.MapOf), grounded
// on bgpfix-bgpfix's use of puzpuzpuz/xsync for its pipe's hot-path lookup
// tables, since the teacher's own sync.RWMutex+map pattern (server/registry.go)
// would serialize every autoplug decision behind one mutex.
type DefaultRegistry struct {
	mu       sync.RWMutex
	byName   map[string]*Factory
	cookie   atomic.Uint64
	cacheMu  sync.Mutex
	cache    *xsync.MapOf[string, []*Factory]
	cacheFor uint64
}

// NewDefaultRegistry creates an empty registry.
func NewDefaultRegistry() *DefaultRegistry {
	r := &DefaultRegistry{
		byName: make(map[string]*Factory),
		cache:  xsync.NewMapOf[string, []*Factory](),
	}
	r.cookie.Store(1)
	return r
}

// Add registers (or replaces) a factory and bumps the cookie.
func (r *DefaultRegistry) Add(f *Factory) {
	r.mu.Lock()
	r.byName[f.Name] = f
	r.mu.Unlock()
	r.cookie.Add(1)
}

// Remove deletes a factory by name and bumps the cookie.
func (r *DefaultRegistry) Remove(name string) {
	r.mu.Lock()
	_, existed := r.byName[name]
	delete(r.byName, name)
	r.mu.Unlock()
	if existed {
		r.cookie.Add(1)
	}
}

// All returns a snapshot of every registered factory, order unspecified.
func (r *DefaultRegistry) All() []*Factory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Factory, 0, len(r.byName))
	for _, f := range r.byName {
		out = append(out, f)
	}
	return out
}

func (r *DefaultRegistry) Cookie() uint64 { return r.cookie.Load() }

// Lookup implements Registry.Lookup with the cookie-gated cache described
// above (Supplemented feature #1 in SPEC_FULL.md, grounded on
// gst_decode_bin_update_factories_list in original_source/gst/playback/gstdecodebin2.c).
func (r *DefaultRegistry) Lookup(c caps.Caps) []*Factory {
	cookie := r.Cookie()

	r.cacheMu.Lock()
	if r.cacheFor != cookie {
		r.cache = xsync.NewMapOf[string, []*Factory]()
		r.cacheFor = cookie
	}
	r.cacheMu.Unlock()

	key := c.String()
	if cached, ok := r.cache.Load(key); ok {
		return cached
	}

	r.mu.RLock()
	var matches []*Factory
	for _, f := range r.byName {
		switch f.Kind {
		case KindDecoder, KindParser, KindConverter, KindDemuxer:
			if f.Accepts(c) {
				matches = append(matches, f)
			}
		}
	}
	r.mu.RUnlock()

	sortFactories(matches)
	r.cache.Store(key, matches)
	return matches
}
