package docdex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	dsn       string
	maxConns  int32
	minConns  int32
	opTimeout time.Duration

	cacheAddr     string
	cacheUsername string
	cachePassword string
	cacheTTL      time.Duration

	defaultLimit int
	maxLimit     int

	ensureSchema bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithPostgres configures the PostgreSQL connection string.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dsn = dsn
	})
}

// WithPoolSize sets the connection pool boundaries.
// Defaults: min 0, max 10.
func WithPoolSize(minConns, maxConns int32) Option {
	return optionFunc(func(c *clientConfig) {
		c.minConns = minConns
		c.maxConns = maxConns
	})
}

// WithOpTimeout sets the per-operation database timeout. Default: 5s.
func WithOpTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.opTimeout = d
	})
}

// WithCache enables the Redis read-through document cache.
func WithCache(addr, username, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddr = addr
		c.cacheUsername = username
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithLimits sets the default and maximum result-set sizes.
// Defaults: 50 and 500.
func WithLimits(defaultLimit, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = defaultLimit
		c.maxLimit = maxLimit
	})
}

// WithSchemaManagement makes the client create the documents table and
// its indexes on startup if they do not exist.
func WithSchemaManagement() Option {
	return optionFunc(func(c *clientConfig) {
		c.ensureSchema = true
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
