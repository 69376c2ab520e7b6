package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"
	"math"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jkhoffman/cogni/core"
)

// CacheKey is a deterministic fingerprint of the fields of a Request that
// affect its response: model, messages, temperature, max tokens, and tool
// names. It is computed by sequentially hashing those fields with a SHA-256
// hasher, exactly as cogni-middleware's CacheKey::from_request does.
type CacheKey [sha256.Size]byte

// String renders the key as lowercase hex, for log lines.
func (k CacheKey) String() string { return hex.EncodeToString(k[:]) }

const roleByteSep = '|'

func roleByte(r core.Role) byte {
	switch r {
	case core.RoleSystem:
		return 0
	case core.RoleUser:
		return 1
	case core.RoleAssistant:
		return 2
	case core.RoleTool:
		return 9
	default:
		return 255
	}
}

func hashContent(h io.Writer, c core.Content) {
	switch v := c.(type) {
	case core.TextContent:
		h.Write([]byte("text:"))
		h.Write([]byte(v.Text))
	case core.ImageContent:
		h.Write([]byte("image:"))
		if v.URL != "" {
			h.Write([]byte(v.URL))
		} else {
			h.Write([]byte(v.Data))
		}
	case core.AudioContent:
		h.Write([]byte("audio:"))
		h.Write([]byte(v.Data))
	case core.MultiContent:
		h.Write([]byte("multiple:"))
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(len(v.Items)))
		h.Write(buf[:])
		for _, item := range v.Items {
			hashContent(h, item)
		}
	}
}

// NewCacheKey computes the fingerprint of req.
func NewCacheKey(req core.Request) CacheKey {
	h := sha256.New()
	h.Write([]byte(req.Model))
	for _, m := range req.Messages {
		h.Write([]byte{roleByte(m.Role)})
		hashContent(h, m.Content)
		h.Write([]byte{roleByteSep})
	}
	if req.Parameters.Temperature != nil {
		h.Write([]byte("temp:"))
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(*req.Parameters.Temperature))
		h.Write(buf[:])
	}
	if req.Parameters.MaxTokens != nil {
		h.Write([]byte("max:"))
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], *req.Parameters.MaxTokens)
		h.Write(buf[:])
	}
	for _, t := range req.Tools {
		h.Write([]byte("tool:"))
		h.Write([]byte(t.Name))
	}
	var key CacheKey
	copy(key[:], h.Sum(nil))
	return key
}

// CacheEntry pairs a cached Response with the time it was stored. Staleness
// itself is tracked by the underlying expirable LRU's per-entry TTL.
type CacheEntry struct {
	Response  core.Response
	CreatedAt time.Time
}

// Cache is an LRU, TTL-expiring cache of Responses keyed by CacheKey. It
// wraps hashicorp/golang-lru's expirable variant, which already implements
// the insertion-ordered-map-with-move-to-front-on-hit eviction policy
// cogni-middleware's hand-rolled IndexMap-backed ResponseCache implements in
// Rust, plus lazy per-entry TTL expiry on Get.
type Cache struct {
	lru *expirable.LRU[CacheKey, CacheEntry]
	ttl time.Duration
}

// NewCache builds a Cache holding at most maxSize entries, each expiring
// after ttl.
func NewCache(maxSize int, ttl time.Duration) *Cache {
	return &Cache{
		lru: expirable.NewLRU[CacheKey, CacheEntry](maxSize, nil, ttl),
		ttl: ttl,
	}
}

// Get returns the cached Response for key, or ok=false on a miss or expiry.
func (c *Cache) Get(key CacheKey) (core.Response, bool) {
	entry, ok := c.lru.Get(key)
	if !ok {
		return core.Response{}, false
	}
	return entry.Response, true
}

// Put stores resp under key with a fresh CreatedAt timestamp.
func (c *Cache) Put(key CacheKey, resp core.Response) {
	c.lru.Add(key, CacheEntry{Response: resp, CreatedAt: time.Now()})
}

// Len reports the number of entries currently held; an expired entry still
// counts until the underlying LRU purges it.
func (c *Cache) Len() int { return c.lru.Len() }

type cacheLayer struct {
	cache *Cache
}

// NewCacheLayer builds a Layer serving Complete calls from cache, falling
// through to next on a miss. Errors are never cached: only a successful call
// is stored, matching cache.rs's "write happens on Ok only" policy.
func NewCacheLayer(cache *Cache) Layer {
	return &cacheLayer{cache: cache}
}

func (l *cacheLayer) Wrap(next Service) Service {
	return ServiceFunc(func(ctx context.Context, req core.Request) (core.Response, error) {
		key := NewCacheKey(req)
		if resp, ok := l.cache.Get(key); ok {
			return resp, nil
		}
		resp, err := next.Call(ctx, req)
		if err != nil {
			return core.Response{}, err
		}
		l.cache.Put(key, resp)
		return resp, nil
	})
}
