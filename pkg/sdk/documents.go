package docdex

import (
	"context"
	"fmt"
	"time"

	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
	"github.com/kailas-cloud/docdex/internal/domain/document/patch"
)

// DocumentService manages documents.
type DocumentService struct {
	svc documentUseCase
	obs *observer
}

// Create stores a new document and returns it with its generated ID
// and creation timestamp.
func (s *DocumentService) Create(
	ctx context.Context, label string, data []byte, tags []string,
) (doc Document, err error) {
	start := time.Now()
	defer func() { s.obs.observe("create", start, err) }()

	d, err := s.svc.Create(ctx, label, data, tags)
	if err != nil {
		return Document{}, fmt.Errorf("create document: %w", err)
	}
	return fromInternalDocument(d), nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (doc Document, err error) {
	start := time.Now()
	defer func() { s.obs.observe("get", start, err) }()

	d, err := s.svc.Get(ctx, id)
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return fromInternalDocument(d), nil
}

// Update applies a partial update and returns the resulting document.
// An empty patch returns the current document unchanged.
func (s *DocumentService) Update(
	ctx context.Context, id string, p DocumentPatch,
) (doc Document, err error) {
	start := time.Now()
	defer func() { s.obs.observe("update", start, err) }()

	dp, err := toInternalPatch(p)
	if err != nil {
		return Document{}, fmt.Errorf("update document: %w", err)
	}
	d, err := s.svc.Update(ctx, id, dp)
	if err != nil {
		return Document{}, fmt.Errorf("update document: %w", err)
	}
	return fromInternalDocument(d), nil
}

// Delete removes a document by ID.
func (s *DocumentService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("delete", start, err) }()

	if err = s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// List returns documents newest-created first, capped at limit.
// limit <= 0 applies the configured default.
func (s *DocumentService) List(ctx context.Context, limit int) (docs []Document, err error) {
	start := time.Now()
	defer func() { s.obs.observe("list", start, err) }()

	out, err := s.svc.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return fromInternalDocuments(out), nil
}

// Search runs a case-insensitive substring match over labels, data and
// tags. Label matches sort first. An empty query matches everything.
func (s *DocumentService) Search(
	ctx context.Context, query string, limit int,
) (docs []Document, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search", start, err) }()

	out, err := s.svc.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	return fromInternalDocuments(out), nil
}

// FindByTag returns documents carrying the tag (case-insensitive exact
// membership), newest-created first.
func (s *DocumentService) FindByTag(
	ctx context.Context, tag string, limit int,
) (docs []Document, err error) {
	start := time.Now()
	defer func() { s.obs.observe("find_by_tag", start, err) }()

	out, err := s.svc.FindByTag(ctx, tag, limit)
	if err != nil {
		return nil, fmt.Errorf("find by tag: %w", err)
	}
	return fromInternalDocuments(out), nil
}

func fromInternalDocument(d domdoc.Document) Document {
	return Document{
		ID:        d.ID(),
		Label:     d.Label(),
		Data:      d.Data(),
		Tags:      d.Tags(),
		CreatedAt: d.CreatedAt(),
		UpdatedAt: d.UpdatedAt(),
	}
}

func fromInternalDocuments(docs []domdoc.Document) []Document {
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = fromInternalDocument(d)
	}
	return out
}

func toInternalPatch(p DocumentPatch) (patch.Patch, error) {
	var tags []string
	hasTags := p.Tags != nil
	if hasTags {
		tags = *p.Tags
	}
	pp, err := patch.New(p.Label, p.Data, tags, hasTags)
	if err != nil {
		return patch.Patch{}, fmt.Errorf("validate patch: %w", err)
	}
	return pp, nil
}
