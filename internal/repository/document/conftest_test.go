package document

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/kailas-cloud/docdex/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	insertFn    func(ctx context.Context, rec db.DocRecord) error
	getFn       func(ctx context.Context, id string) (db.DocRecord, error)
	updateFn    func(ctx context.Context, id string, upd db.DocUpdate) (db.DocRecord, error)
	deleteFn    func(ctx context.Context, id string) error
	listFn      func(ctx context.Context, limit int) ([]db.DocRecord, error)
	searchFn    func(ctx context.Context, query string, limit int) ([]db.DocRecord, error)
	findByTagFn func(ctx context.Context, tag string, limit int) ([]db.DocRecord, error)
}

func (m *mockStore) Insert(ctx context.Context, rec db.DocRecord) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, rec)
	}
	return nil
}

func (m *mockStore) Get(ctx context.Context, id string) (db.DocRecord, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return db.DocRecord{}, nil
}

func (m *mockStore) Update(ctx context.Context, id string, upd db.DocUpdate) (db.DocRecord, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, upd)
	}
	return db.DocRecord{}, nil
}

func (m *mockStore) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockStore) List(ctx context.Context, limit int) ([]db.DocRecord, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockStore) Search(ctx context.Context, query string, limit int) ([]db.DocRecord, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return nil, nil
}

func (m *mockStore) FindByTag(ctx context.Context, tag string, limit int) ([]db.DocRecord, error) {
	if m.findByTagFn != nil {
		return m.findByTagFn(ctx, tag, limit)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms).WithRetry(db.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	})
	return repo, ms
}

func testRecord(t *testing.T) db.DocRecord {
	t.Helper()
	return db.DocRecord{
		ID:        "b2d9c6a0-0000-0000-0000-000000000001",
		Label:     "Invoice",
		Data:      json.RawMessage(`{"amount":42}`),
		Tags:      []string{"finance"},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}
