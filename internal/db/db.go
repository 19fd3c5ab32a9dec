package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
type Store interface {
	Pinger
	DocStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
	EnsureSchema(ctx context.Context) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DocRecord is the persisted row shape of a document.
type DocRecord struct {
	ID        string
	Label     string
	Data      []byte
	Tags      []string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// DocUpdate is a partial row update. Nil Label/Data leave the column
// unchanged; Tags are replaced only when HasTags is set.
type DocUpdate struct {
	Label     *string
	Data      []byte
	Tags      []string
	HasTags   bool
	UpdatedAt time.Time
}

// DocStore provides row operations over the docs table.
type DocStore interface {
	Insert(ctx context.Context, rec DocRecord) error
	Get(ctx context.Context, id string) (DocRecord, error)
	Update(ctx context.Context, id string, upd DocUpdate) (DocRecord, error)
	Delete(ctx context.Context, id string) error
	// List returns records newest-created first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]DocRecord, error)
	// Search matches a case-insensitive substring against label, the JSON
	// text of data, or any tag. Label matches rank first, ties newest-first.
	Search(ctx context.Context, query string, limit int) ([]DocRecord, error)
	// FindByTag matches exact tag membership. The tag must be lowercase.
	FindByTag(ctx context.Context, tag string, limit int) ([]DocRecord, error)
}
