// Package doccache decorates the document repository with a read-through
// Get cache. The cache is best-effort: failures are logged and the call
// falls through to the underlying repository.
package doccache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/cache"
	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
	"github.com/kailas-cloud/docdex/internal/domain/document/patch"
)

const keyPrefix = "docdex:doc:"

// repository is the consumer interface for the decorated repository (ISP).
type repository interface {
	Create(ctx context.Context, doc domdoc.Document) (domdoc.Document, error)
	Get(ctx context.Context, id string) (domdoc.Document, error)
	Update(ctx context.Context, id string, p patch.Patch) (domdoc.Document, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int) ([]domdoc.Document, error)
	Search(ctx context.Context, query string, limit int) ([]domdoc.Document, error)
	FindByTag(ctx context.Context, tag string, limit int) ([]domdoc.Document, error)
}

// CachedRepo caches Get lookups in a key-value store.
type CachedRepo struct {
	inner      repository
	kv         cache.Store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed
// explicitly; nil disables the metric.
func New(
	inner repository,
	kv cache.Store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedRepo {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedRepo{
		inner:      inner,
		kv:         kv,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Create passes through and primes the cache with the fresh document.
func (c *CachedRepo) Create(ctx context.Context, doc domdoc.Document) (domdoc.Document, error) {
	created, err := c.inner.Create(ctx, doc)
	if err != nil {
		return domdoc.Document{}, err
	}
	c.put(ctx, created)
	return created, nil
}

// Get returns a cached document or falls through to the repository.
func (c *CachedRepo) Get(ctx context.Context, id string) (domdoc.Document, error) {
	if doc, ok := c.fromCache(ctx, id); ok {
		c.incCache("hit")
		return doc, nil
	}
	c.incCache("miss")

	doc, err := c.inner.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, err
	}
	c.put(ctx, doc)
	return doc, nil
}

// Update passes through and replaces the cached entry.
func (c *CachedRepo) Update(ctx context.Context, id string, p patch.Patch) (domdoc.Document, error) {
	doc, err := c.inner.Update(ctx, id, p)
	if err != nil {
		return domdoc.Document{}, err
	}
	c.put(ctx, doc)
	return doc, nil
}

// Delete passes through and invalidates the cached entry.
func (c *CachedRepo) Delete(ctx context.Context, id string) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	if err := c.kv.Del(ctx, docKey(id)); err != nil {
		c.logger.Warn("Failed to invalidate cached document", zap.String("id", id), zap.Error(err))
	}
	return nil
}

// List is not cached; result sets change with every write.
func (c *CachedRepo) List(ctx context.Context, limit int) ([]domdoc.Document, error) {
	return c.inner.List(ctx, limit)
}

// Search is not cached.
func (c *CachedRepo) Search(ctx context.Context, query string, limit int) ([]domdoc.Document, error) {
	return c.inner.Search(ctx, query, limit)
}

// FindByTag is not cached.
func (c *CachedRepo) FindByTag(ctx context.Context, tag string, limit int) ([]domdoc.Document, error) {
	return c.inner.FindByTag(ctx, tag, limit)
}

func (c *CachedRepo) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func docKey(id string) string { return keyPrefix + id }

// cachedDoc is the cache wire shape of a document.
type cachedDoc struct {
	ID        string          `json:"id"`
	Label     string          `json:"label"`
	Data      json.RawMessage `json:"data"`
	Tags      []string        `json:"tags"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

func (c *CachedRepo) fromCache(ctx context.Context, id string) (domdoc.Document, bool) {
	data, err := c.kv.Get(ctx, docKey(id))
	if err != nil {
		if !errors.Is(err, cache.ErrKeyNotFound) {
			c.logger.Warn("Failed to read cached document", zap.String("id", id), zap.Error(err))
		}
		return domdoc.Document{}, false
	}

	var cd cachedDoc
	if err := json.Unmarshal(data, &cd); err != nil {
		c.logger.Warn("Failed to parse cached document", zap.String("id", id), zap.Error(err))
		return domdoc.Document{}, false
	}

	return domdoc.Reconstruct(cd.ID, cd.Label, cd.Data, cd.Tags, cd.CreatedAt, cd.UpdatedAt), true
}

func (c *CachedRepo) put(ctx context.Context, doc domdoc.Document) {
	data, err := json.Marshal(cachedDoc{
		ID:        doc.ID(),
		Label:     doc.Label(),
		Data:      doc.Data(),
		Tags:      doc.Tags(),
		CreatedAt: doc.CreatedAt(),
		UpdatedAt: doc.UpdatedAt(),
	})
	if err != nil {
		c.logger.Warn("Failed to encode document for cache", zap.String("id", doc.ID()), zap.Error(err))
		return
	}
	if err := c.kv.SetWithTTL(ctx, docKey(doc.ID()), data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache document", zap.String("id", doc.ID()), zap.Error(err))
	}
}
