package docdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/docdex/internal/cache"
	cacheRedis "github.com/kailas-cloud/docdex/internal/cache/redis"
	"github.com/kailas-cloud/docdex/internal/db/postgres"
	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
	"github.com/kailas-cloud/docdex/internal/domain/document/patch"
	"github.com/kailas-cloud/docdex/internal/repository/doccache"
	documentrepo "github.com/kailas-cloud/docdex/internal/repository/document"
	documentuc "github.com/kailas-cloud/docdex/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docdex/internal/usecase/health"
	"go.uber.org/zap"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so tests can substitute the services.
type documentUseCase interface {
	Create(ctx context.Context, label string, data []byte, tags []string) (domdoc.Document, error)
	Get(ctx context.Context, id string) (domdoc.Document, error)
	Update(ctx context.Context, id string, p patch.Patch) (domdoc.Document, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int) ([]domdoc.Document, error)
	Search(ctx context.Context, query string, limit int) ([]domdoc.Document, error)
	FindByTag(ctx context.Context, tag string, limit int) ([]domdoc.Document, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the docdex SDK entry point.
type Client struct {
	store     *postgres.Store
	kv        cache.Store
	docSvc    documentUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a docdex Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.dsn == "" {
		return nil, errors.New("docdex: database dsn required (use WithPostgres)")
	}

	store, err := postgres.NewStore(ctx, postgres.Config{
		DSN:       cfg.dsn,
		MaxConns:  cfg.maxConns,
		MinConns:  cfg.minConns,
		OpTimeout: cfg.opTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("docdex: create store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("docdex: database not ready: %w", err)
	}

	if cfg.ensureSchema {
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("docdex: ensure schema: %w", err)
		}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	return wireClient(store, cfg, obs)
}

func wireClient(store *postgres.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	var docRepo documentuc.Repository = documentrepo.New(store)

	var kv cache.Store
	if cfg.cacheAddr != "" {
		var err error
		kv, err = cacheRedis.NewStore(cacheRedis.Config{
			Addrs:    []string{cfg.cacheAddr},
			Username: cfg.cacheUsername,
			Password: cfg.cachePassword,
		})
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("docdex: create cache store: %w", err)
		}
		docRepo = doccache.New(docRepo, kv, cfg.cacheTTL, nil, zap.NewNop())
	}

	docSvc := documentuc.New(docRepo)
	if cfg.defaultLimit > 0 || cfg.maxLimit > 0 {
		docSvc = docSvc.WithLimits(cfg.defaultLimit, cfg.maxLimit)
	}

	var cachePinger healthuc.CachePinger
	if kv != nil {
		cachePinger = kv
	}
	healthSvc := healthuc.New(store, cachePinger)

	return &Client{
		store:     store,
		kv:        kv,
		docSvc:    docSvc,
		healthSvc: healthSvc,
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.kv != nil {
		c.kv.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Documents returns the document service.
func (c *Client) Documents() *DocumentService {
	return &DocumentService{svc: c.docSvc, obs: c.obs}
}
