package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/domain"
	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
	"github.com/kailas-cloud/docdex/internal/domain/document/patch"
	documentuc "github.com/kailas-cloud/docdex/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docdex/internal/usecase/health"
)

// mockRepo implements documentuc.Repository with overridable functions.
type mockRepo struct {
	createFn    func(ctx context.Context, doc domdoc.Document) (domdoc.Document, error)
	getFn       func(ctx context.Context, id string) (domdoc.Document, error)
	updateFn    func(ctx context.Context, id string, p patch.Patch) (domdoc.Document, error)
	deleteFn    func(ctx context.Context, id string) error
	listFn      func(ctx context.Context, limit int) ([]domdoc.Document, error)
	searchFn    func(ctx context.Context, query string, limit int) ([]domdoc.Document, error)
	findByTagFn func(ctx context.Context, tag string, limit int) ([]domdoc.Document, error)
}

func (m *mockRepo) Create(ctx context.Context, doc domdoc.Document) (domdoc.Document, error) {
	if m.createFn != nil {
		return m.createFn(ctx, doc)
	}
	return doc, nil
}

func (m *mockRepo) Get(ctx context.Context, id string) (domdoc.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domdoc.Document{}, nil
}

func (m *mockRepo) Update(ctx context.Context, id string, p patch.Patch) (domdoc.Document, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, p)
	}
	return domdoc.Document{}, nil
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockRepo) List(ctx context.Context, limit int) ([]domdoc.Document, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockRepo) Search(ctx context.Context, query string, limit int) ([]domdoc.Document, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return nil, nil
}

func (m *mockRepo) FindByTag(ctx context.Context, tag string, limit int) ([]domdoc.Document, error) {
	if m.findByTagFn != nil {
		return m.findByTagFn(ctx, tag, limit)
	}
	return nil, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func newTestRouter(t *testing.T, repo *mockRepo, dbErr error) *chi.Mux {
	t.Helper()
	docs := documentuc.New(repo)
	health := healthuc.New(&mockPinger{err: dbErr}, nil)
	srv := NewServer(docs, health, zap.NewNop())

	r := chi.NewRouter()
	srv.Routes(r)
	return r
}

func storedDoc(t *testing.T) domdoc.Document {
	t.Helper()
	return domdoc.Reconstruct(
		"doc-1", "Invoice", json.RawMessage(`{"amount":42}`), []string{"finance"},
		time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), nil,
	)
}

func decodeDoc(t *testing.T, rr *httptest.ResponseRecorder) DocumentResponse {
	t.Helper()
	var resp DocumentResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

// --- Create ---

func TestCreateDocument_Created(t *testing.T) {
	repo := &mockRepo{}
	repo.createFn = func(_ context.Context, _ domdoc.Document) (domdoc.Document, error) {
		return storedDoc(t), nil
	}
	router := newTestRouter(t, repo, nil)

	body := `{"label":"Invoice","data":{"amount":42},"tags":["Finance"]}`
	req := httptest.NewRequest("POST", "/api/v1/documents", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != "/api/v1/documents/doc-1" {
		t.Errorf("unexpected Location header %q", loc)
	}
	resp := decodeDoc(t, rr)
	if resp.ID != "doc-1" || resp.Label != "Invoice" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestCreateDocument_EmptyLabel(t *testing.T) {
	router := newTestRouter(t, &mockRepo{}, nil)

	req := httptest.NewRequest("POST", "/api/v1/documents", strings.NewReader(`{"label":"  "}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodeValidationFailed {
		t.Errorf("expected code %q, got %q", CodeValidationFailed, resp.Code)
	}
}

func TestCreateDocument_MalformedBody(t *testing.T) {
	router := newTestRouter(t, &mockRepo{}, nil)

	req := httptest.NewRequest("POST", "/api/v1/documents", strings.NewReader(`{not json`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodeBadRequest {
		t.Errorf("expected code %q, got %q", CodeBadRequest, resp.Code)
	}
}

// --- Get ---

func TestGetDocument_OK(t *testing.T) {
	repo := &mockRepo{}
	repo.getFn = func(_ context.Context, id string) (domdoc.Document, error) {
		if id != "doc-1" {
			t.Errorf("unexpected id %q", id)
		}
		return storedDoc(t), nil
	}
	router := newTestRouter(t, repo, nil)

	req := httptest.NewRequest("GET", "/api/v1/documents/doc-1", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	resp := decodeDoc(t, rr)
	if resp.Label != "Invoice" {
		t.Errorf("unexpected label %q", resp.Label)
	}
	if len(resp.Tags) != 1 || resp.Tags[0] != "finance" {
		t.Errorf("unexpected tags %v", resp.Tags)
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	repo := &mockRepo{}
	repo.getFn = func(_ context.Context, _ string) (domdoc.Document, error) {
		return domdoc.Document{}, domain.ErrDocumentNotFound
	}
	router := newTestRouter(t, repo, nil)

	req := httptest.NewRequest("GET", "/api/v1/documents/missing", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodeDocumentNotFound {
		t.Errorf("expected code %q, got %q", CodeDocumentNotFound, resp.Code)
	}
}

func TestGetDocument_StoreUnavailable(t *testing.T) {
	repo := &mockRepo{}
	repo.getFn = func(_ context.Context, _ string) (domdoc.Document, error) {
		return domdoc.Document{}, domain.ErrStoreUnavailable
	}
	router := newTestRouter(t, repo, nil)

	req := httptest.NewRequest("GET", "/api/v1/documents/doc-1", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodeStoreUnavailable {
		t.Errorf("expected code %q, got %q", CodeStoreUnavailable, resp.Code)
	}
}

func TestGetDocument_UnknownErrorIsInternal(t *testing.T) {
	repo := &mockRepo{}
	repo.getFn = func(_ context.Context, _ string) (domdoc.Document, error) {
		return domdoc.Document{}, errors.New("kaboom")
	}
	router := newTestRouter(t, repo, nil)

	req := httptest.NewRequest("GET", "/api/v1/documents/doc-1", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	resp := decodeError(t, rr)
	if resp.Code != CodeInternalError {
		t.Errorf("expected code %q, got %q", CodeInternalError, resp.Code)
	}
	if strings.Contains(resp.Message, "kaboom") {
		t.Error("internal error details must not leak to the client")
	}
}

// --- Update ---

func TestUpdateDocument_OK(t *testing.T) {
	repo := &mockRepo{}
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	updated := domdoc.Reconstruct(
		"doc-1", "Renamed", json.RawMessage(`{"amount":42}`), []string{"finance"},
		time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), &now,
	)
	repo.updateFn = func(_ context.Context, id string, p patch.Patch) (domdoc.Document, error) {
		if !p.HasLabel() || *p.Label() != "Renamed" {
			t.Error("expected label in patch")
		}
		if p.HasData() || p.HasTags() {
			t.Error("expected only label set in patch")
		}
		return updated, nil
	}
	router := newTestRouter(t, repo, nil)

	req := httptest.NewRequest("PATCH", "/api/v1/documents/doc-1", strings.NewReader(`{"label":"Renamed"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeDoc(t, rr)
	if resp.Label != "Renamed" {
		t.Errorf("unexpected label %q", resp.Label)
	}
	if resp.UpdatedAt == nil {
		t.Error("expected updated_at in response")
	}
}

func TestUpdateDocument_ExplicitEmptyTagsClears(t *testing.T) {
	repo := &mockRepo{}
	repo.updateFn = func(_ context.Context, _ string, p patch.Patch) (domdoc.Document, error) {
		if !p.HasTags() {
			t.Error("expected tags marked as provided")
		}
		if len(p.Tags()) != 0 {
			t.Errorf("expected empty tag set, got %v", p.Tags())
		}
		return storedDoc(t), nil
	}
	router := newTestRouter(t, repo, nil)

	req := httptest.NewRequest("PATCH", "/api/v1/documents/doc-1", strings.NewReader(`{"tags":[]}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestUpdateDocument_EmptyPatchReturnsCurrent(t *testing.T) {
	repo := &mockRepo{}
	repo.getFn = func(_ context.Context, _ string) (domdoc.Document, error) {
		return storedDoc(t), nil
	}
	repo.updateFn = func(_ context.Context, _ string, _ patch.Patch) (domdoc.Document, error) {
		t.Fatal("empty patch must not reach the repository update")
		return domdoc.Document{}, nil
	}
	router := newTestRouter(t, repo, nil)

	req := httptest.NewRequest("PATCH", "/api/v1/documents/doc-1", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	resp := decodeDoc(t, rr)
	if resp.UpdatedAt != nil {
		t.Error("empty patch must not bump updated_at")
	}
}

func TestUpdateDocument_EmptyLabelRejected(t *testing.T) {
	router := newTestRouter(t, &mockRepo{}, nil)

	req := httptest.NewRequest("PATCH", "/api/v1/documents/doc-1", strings.NewReader(`{"label":""}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

// --- Delete ---

func TestDeleteDocument_NoContent(t *testing.T) {
	repo := &mockRepo{}
	deleted := ""
	repo.deleteFn = func(_ context.Context, id string) error {
		deleted = id
		return nil
	}
	router := newTestRouter(t, repo, nil)

	req := httptest.NewRequest("DELETE", "/api/v1/documents/doc-1", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if deleted != "doc-1" {
		t.Errorf("expected delete of doc-1, got %q", deleted)
	}
}

func TestDeleteDocument_NotFound(t *testing.T) {
	repo := &mockRepo{}
	repo.deleteFn = func(_ context.Context, _ string) error { return domain.ErrDocumentNotFound }
	router := newTestRouter(t, repo, nil)

	req := httptest.NewRequest("DELETE", "/api/v1/documents/missing", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

// --- List ---

func TestListDocuments_OK(t *testing.T) {
	repo := &mockRepo{}
	repo.listFn = func(_ context.Context, limit int) ([]domdoc.Document, error) {
		if limit != 50 {
			t.Errorf("expected default limit 50, got %d", limit)
		}
		return []domdoc.Document{storedDoc(t)}, nil
	}
	router := newTestRouter(t, repo, nil)

	req := httptest.NewRequest("GET", "/api/v1/documents", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp DocumentListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 {
		t.Errorf("unexpected list response: %+v", resp)
	}
}

func TestListDocuments_BadLimit(t *testing.T) {
	router := newTestRouter(t, &mockRepo{}, nil)

	req := httptest.NewRequest("GET", "/api/v1/documents?limit=abc", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

// --- Search ---

func TestSearchDocuments_PassesQuery(t *testing.T) {
	repo := &mockRepo{}
	repo.searchFn = func(_ context.Context, query string, limit int) ([]domdoc.Document, error) {
		if query != "invoice" {
			t.Errorf("unexpected query %q", query)
		}
		if limit != 10 {
			t.Errorf("unexpected limit %d", limit)
		}
		return []domdoc.Document{storedDoc(t)}, nil
	}
	router := newTestRouter(t, repo, nil)

	req := httptest.NewRequest("GET", "/api/v1/search?q=invoice&limit=10", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestSearchDocuments_EmptyQueryListsAll(t *testing.T) {
	repo := &mockRepo{}
	listed := false
	repo.listFn = func(_ context.Context, _ int) ([]domdoc.Document, error) {
		listed = true
		return nil, nil
	}
	router := newTestRouter(t, repo, nil)

	req := httptest.NewRequest("GET", "/api/v1/search", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !listed {
		t.Error("expected empty query to degenerate into a list")
	}
}

// --- Tags ---

func TestListDocumentsByTag_OK(t *testing.T) {
	repo := &mockRepo{}
	repo.findByTagFn = func(_ context.Context, tag string, _ int) ([]domdoc.Document, error) {
		if tag != "finance" {
			t.Errorf("unexpected tag %q", tag)
		}
		return []domdoc.Document{storedDoc(t)}, nil
	}
	router := newTestRouter(t, repo, nil)

	req := httptest.NewRequest("GET", "/api/v1/tags/finance/documents", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

// --- Health ---

func TestHealthCheck_OK(t *testing.T) {
	router := newTestRouter(t, &mockRepo{}, nil)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Checks["database"] != "ok" {
		t.Errorf("unexpected health response: %+v", resp)
	}
}

func TestHealthCheck_DBDown(t *testing.T) {
	router := newTestRouter(t, &mockRepo{}, errors.New("conn refused"))

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}
