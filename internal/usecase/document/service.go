package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/docdex/internal/domain"
	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
	"github.com/kailas-cloud/docdex/internal/domain/document/patch"
)

// Service handles document CRUD and search.
type Service struct {
	repo         Repository
	defaultLimit int
	maxLimit     int
}

// New creates a document service.
func New(repo Repository) *Service {
	return &Service{
		repo:         repo,
		defaultLimit: 50,
		maxLimit:     500,
	}
}

// WithLimits configures result-set size limits.
func (s *Service) WithLimits(defaultLimit, maxLimit int) *Service {
	if defaultLimit > 0 {
		s.defaultLimit = defaultLimit
	}
	if maxLimit > 0 {
		s.maxLimit = maxLimit
	}
	return s
}

// Create validates and persists a new document, returning it with its
// generated identity and creation timestamp.
func (s *Service) Create(
	ctx context.Context, label string, data []byte, tags []string,
) (domdoc.Document, error) {
	doc, err := domdoc.New(label, data, tags)
	if err != nil {
		return domdoc.Document{}, err
	}

	created, err := s.repo.Create(ctx, doc)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("create document: %w", err)
	}
	return created, nil
}

// Get retrieves a document by ID.
func (s *Service) Get(ctx context.Context, id string) (domdoc.Document, error) {
	if err := validateID(id); err != nil {
		return domdoc.Document{}, err
	}

	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Update applies a partial update. An empty patch changes nothing and
// returns the current document without touching updated_at.
func (s *Service) Update(ctx context.Context, id string, p patch.Patch) (domdoc.Document, error) {
	if err := validateID(id); err != nil {
		return domdoc.Document{}, err
	}

	if p.IsEmpty() {
		doc, err := s.repo.Get(ctx, id)
		if err != nil {
			return domdoc.Document{}, fmt.Errorf("get document: %w", err)
		}
		return doc, nil
	}

	doc, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("update document: %w", err)
	}
	return doc, nil
}

// Delete removes a document.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// List returns documents newest-created first, capped at limit.
func (s *Service) List(ctx context.Context, limit int) ([]domdoc.Document, error) {
	limit = s.clampLimit(limit)

	docs, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Search runs a case-insensitive substring match over label, data and tags.
// Label matches sort first, then newest-created first. An empty query is a
// match-all and degenerates into List.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]domdoc.Document, error) {
	limit = s.clampLimit(limit)

	query = strings.TrimSpace(query)
	if query == "" {
		docs, err := s.repo.List(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		return docs, nil
	}

	docs, err := s.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	return docs, nil
}

// FindByTag returns documents carrying the tag, newest-created first.
func (s *Service) FindByTag(ctx context.Context, tag string, limit int) ([]domdoc.Document, error) {
	if strings.TrimSpace(tag) == "" {
		return nil, fmt.Errorf("tag must not be empty: %w", domain.ErrValidation)
	}
	limit = s.clampLimit(limit)

	docs, err := s.repo.FindByTag(ctx, tag, limit)
	if err != nil {
		return nil, fmt.Errorf("find by tag: %w", err)
	}
	return docs, nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("document id must not be empty: %w", domain.ErrValidation)
	}
	return nil
}
