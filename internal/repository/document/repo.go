package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/docdex/internal/db"
	"github.com/kailas-cloud/docdex/internal/domain"
	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
	"github.com/kailas-cloud/docdex/internal/domain/document/patch"
)

// store is the consumer interface for documents (ISP).
type store interface {
	Insert(ctx context.Context, rec db.DocRecord) error
	Get(ctx context.Context, id string) (db.DocRecord, error)
	Update(ctx context.Context, id string, upd db.DocUpdate) (db.DocRecord, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int) ([]db.DocRecord, error)
	Search(ctx context.Context, query string, limit int) ([]db.DocRecord, error)
	FindByTag(ctx context.Context, tag string, limit int) ([]db.DocRecord, error)
}

// Repo implements usecase/document.Repository over a SQL doc store.
// Transient store failures are retried with bounded exponential backoff
// before surfacing as domain.ErrStoreUnavailable.
type Repo struct {
	store store
	retry db.RetryConfig
	now   func() time.Time
	newID func() string
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{
		store: s,
		retry: db.DefaultRetryConfig(),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// WithRetry overrides the retry budget for transient store failures.
func (r *Repo) WithRetry(cfg db.RetryConfig) *Repo {
	r.retry = cfg
	return r
}

// Create persists a new document, generating its id and creation timestamp.
func (r *Repo) Create(ctx context.Context, doc domdoc.Document) (domdoc.Document, error) {
	doc = doc.WithIdentity(r.newID(), r.now())

	err := db.WithRetry(ctx, r.retry, func(ctx context.Context) error {
		return r.store.Insert(ctx, toRecord(doc))
	})
	if err != nil {
		return domdoc.Document{}, translateErr(fmt.Errorf("insert document: %w", err))
	}
	return doc, nil
}

// Get returns a document by id.
func (r *Repo) Get(ctx context.Context, id string) (domdoc.Document, error) {
	var rec db.DocRecord
	err := db.WithRetry(ctx, r.retry, func(ctx context.Context) error {
		var err error
		rec, err = r.store.Get(ctx, id)
		return err
	})
	if err != nil {
		return domdoc.Document{}, translateErr(fmt.Errorf("get document %s: %w", id, err))
	}
	return toDocument(rec), nil
}

// Update applies a partial update and returns the resulting document.
// Concurrent updates follow last-write-wins.
func (r *Repo) Update(ctx context.Context, id string, p patch.Patch) (domdoc.Document, error) {
	upd := db.DocUpdate{
		Label:     p.Label(),
		Data:      p.Data(),
		Tags:      p.Tags(),
		HasTags:   p.HasTags(),
		UpdatedAt: r.now(),
	}

	var rec db.DocRecord
	err := db.WithRetry(ctx, r.retry, func(ctx context.Context) error {
		var err error
		rec, err = r.store.Update(ctx, id, upd)
		return err
	})
	if err != nil {
		return domdoc.Document{}, translateErr(fmt.Errorf("update document %s: %w", id, err))
	}
	return toDocument(rec), nil
}

// Delete removes a document.
func (r *Repo) Delete(ctx context.Context, id string) error {
	err := db.WithRetry(ctx, r.retry, func(ctx context.Context) error {
		return r.store.Delete(ctx, id)
	})
	if err != nil {
		return translateErr(fmt.Errorf("delete document %s: %w", id, err))
	}
	return nil
}

// List returns documents newest-created first. limit <= 0 returns all.
func (r *Repo) List(ctx context.Context, limit int) ([]domdoc.Document, error) {
	var recs []db.DocRecord
	err := db.WithRetry(ctx, r.retry, func(ctx context.Context) error {
		var err error
		recs, err = r.store.List(ctx, limit)
		return err
	})
	if err != nil {
		return nil, translateErr(fmt.Errorf("list documents: %w", err))
	}
	return toDocuments(recs), nil
}

// Search runs a case-insensitive substring match over label, data and tags.
func (r *Repo) Search(ctx context.Context, query string, limit int) ([]domdoc.Document, error) {
	var recs []db.DocRecord
	err := db.WithRetry(ctx, r.retry, func(ctx context.Context) error {
		var err error
		recs, err = r.store.Search(ctx, query, limit)
		return err
	})
	if err != nil {
		return nil, translateErr(fmt.Errorf("search %q: %w", query, err))
	}
	return toDocuments(recs), nil
}

// FindByTag returns documents carrying the tag (case-insensitive exact
// membership), newest first.
func (r *Repo) FindByTag(ctx context.Context, tag string, limit int) ([]domdoc.Document, error) {
	needle := strings.ToLower(strings.TrimSpace(tag))

	var recs []db.DocRecord
	err := db.WithRetry(ctx, r.retry, func(ctx context.Context) error {
		var err error
		recs, err = r.store.FindByTag(ctx, needle, limit)
		return err
	})
	if err != nil {
		return nil, translateErr(fmt.Errorf("find by tag %q: %w", needle, err))
	}
	return toDocuments(recs), nil
}

// translateErr maps db-layer sentinels onto domain sentinels while keeping
// the original chain for diagnostics.
func translateErr(err error) error {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return fmt.Errorf("%w: %w", domain.ErrDocumentNotFound, err)
	case db.IsTransient(err):
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	default:
		return err
	}
}

func toRecord(doc domdoc.Document) db.DocRecord {
	return db.DocRecord{
		ID:        doc.ID(),
		Label:     doc.Label(),
		Data:      doc.Data(),
		Tags:      doc.Tags(),
		CreatedAt: doc.CreatedAt(),
		UpdatedAt: doc.UpdatedAt(),
	}
}

func toDocument(rec db.DocRecord) domdoc.Document {
	return domdoc.Reconstruct(
		rec.ID, rec.Label, json.RawMessage(rec.Data), rec.Tags,
		rec.CreatedAt, rec.UpdatedAt,
	)
}

func toDocuments(recs []db.DocRecord) []domdoc.Document {
	out := make([]domdoc.Document, len(recs))
	for i, rec := range recs {
		out[i] = toDocument(rec)
	}
	return out
}
