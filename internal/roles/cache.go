package roles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/rbac"
)

const (
	defaultCachePrefix      = "rbac:role:"
	defaultCacheLoadTimeout = 5 * time.Second
)

// Cache is a Redis read-through cache in front of a role store.
//
// Every role has a generation counter next to its cached value. Invalidate
// bumps the counter and entries written under an older generation are
// treated as misses, so a load that raced with a write cannot resurrect the
// previous permissions after the write has been invalidated.
//
// A role whose invalidation failed is marked stale in process. Stale roles
// bypass Redis and are read from the store until an invalidation succeeds.
type Cache struct {
	client      *redis.Client
	next        rbac.RoleLookup
	ttl         time.Duration
	prefix      string
	loadTimeout time.Duration
	logger      *slog.Logger
	group       singleflight.Group

	mu    sync.Mutex
	stale map[int64]struct{}
}

// CacheOption customises a Cache.
type CacheOption func(*Cache)

// WithCachePrefix overrides the key prefix.
func WithCachePrefix(prefix string) CacheOption {
	return func(c *Cache) { c.prefix = prefix }
}

// WithCacheLogger sets the logger used for degraded-mode warnings.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) { c.logger = logger }
}

// WithCacheLoadTimeout bounds a shared store load. Loads run detached from
// the caller that started them.
func WithCacheLoadTimeout(d time.Duration) CacheOption {
	return func(c *Cache) { c.loadTimeout = d }
}

// NewCache wraps next. A ttl of zero or less disables caching.
func NewCache(client *redis.Client, next rbac.RoleLookup, ttl time.Duration, opts ...CacheOption) *Cache {
	c := &Cache{
		client:      client,
		next:        next,
		ttl:         ttl,
		prefix:      defaultCachePrefix,
		loadTimeout: defaultCacheLoadTimeout,
		stale:       make(map[int64]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type cacheEntry struct {
	Generation  int64    `json:"gen"`
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type lookupResult struct {
	role  rbac.Role
	found bool
}

// LookupRole implements rbac.RoleLookup. Redis failures fall back to the
// underlying store; absent roles are never cached.
func (c *Cache) LookupRole(ctx context.Context, id int64) (rbac.Role, bool, error) {
	if !c.enabled() {
		return c.next.LookupRole(ctx, id)
	}
	if c.isStale(id) {
		if err := c.Invalidate(ctx, id); err != nil {
			return c.next.LookupRole(ctx, id)
		}
	}

	valueKey, genKey := c.keys(id)
	gen, cached, err := c.read(ctx, valueKey, genKey)
	if err != nil {
		c.warn("role cache read", err, id)
		return c.next.LookupRole(ctx, id)
	}
	if cached != nil && cached.Generation == gen {
		return rbac.Role{ID: cached.ID, Name: cached.Name, Permissions: cached.Permissions}, true, nil
	}

	ch := c.group.DoChan(valueKey+"@"+strconv.FormatInt(gen, 10), func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()
		role, found, err := c.next.LookupRole(loadCtx, id)
		if err != nil {
			return nil, err
		}
		if found && !c.isStale(id) {
			c.store(loadCtx, valueKey, gen, role)
		}
		return lookupResult{role: role, found: found}, nil
	})
	select {
	case <-ctx.Done():
		return rbac.Role{}, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return rbac.Role{}, false, res.Err
		}
		out := res.Val.(lookupResult)
		return out.role, out.found, nil
	}
}

// Invalidate drops the cached copy of a role. Callers invalidate before and
// after the write that changes the role. When Redis cannot be reached the
// role is marked stale and served from the store until a later
// invalidation succeeds.
func (c *Cache) Invalidate(ctx context.Context, id int64) error {
	if !c.enabled() {
		return nil
	}
	valueKey, genKey := c.keys(id)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Del(ctx, valueKey)
		return nil
	})
	if err != nil {
		c.markStale(id)
		c.warn("role cache invalidate", err, id)
		return fmt.Errorf("invalidate role %d: %w", id, err)
	}
	c.clearStale(id)
	return nil
}

func (c *Cache) isStale(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.stale[id]
	return ok
}

func (c *Cache) markStale(id int64) {
	c.mu.Lock()
	c.stale[id] = struct{}{}
	c.mu.Unlock()
}

func (c *Cache) clearStale(id int64) {
	c.mu.Lock()
	delete(c.stale, id)
	c.mu.Unlock()
}

func (c *Cache) enabled() bool {
	return c.client != nil && c.ttl > 0
}

func (c *Cache) keys(id int64) (string, string) {
	base := c.prefix + strconv.FormatInt(id, 10)
	return base, base + ":gen"
}

func (c *Cache) read(ctx context.Context, valueKey, genKey string) (int64, *cacheEntry, error) {
	vals, err := c.client.MGet(ctx, genKey, valueKey).Result()
	if err != nil {
		return 0, nil, err
	}
	var gen int64
	if s, ok := vals[0].(string); ok {
		if gen, err = strconv.ParseInt(s, 10, 64); err != nil {
			return 0, nil, fmt.Errorf("parse generation: %w", err)
		}
	}
	raw, ok := vals[1].(string)
	if !ok {
		return gen, nil, nil
	}
	var entry cacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		// A corrupt entry is a miss; the next store overwrites it.
		return gen, nil, nil
	}
	return gen, &entry, nil
}

func (c *Cache) store(ctx context.Context, valueKey string, gen int64, role rbac.Role) {
	payload, err := json.Marshal(cacheEntry{Generation: gen, ID: role.ID, Name: role.Name, Permissions: role.Permissions})
	if err != nil {
		c.warn("role cache encode", err, role.ID)
		return
	}
	if err := c.client.Set(ctx, valueKey, payload, c.ttl).Err(); err != nil && !errors.Is(err, context.Canceled) {
		c.warn("role cache write", err, role.ID)
	}
}

func (c *Cache) warn(msg string, err error, id int64) {
	if c.logger != nil {
		c.logger.Warn(msg, slog.Any("error", err), slog.Int64("role_id", id))
	}
}
