package document

import (
	"context"

	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
	"github.com/kailas-cloud/docdex/internal/domain/document/patch"
)

// Repository defines the storage contract for documents.
type Repository interface {
	Create(ctx context.Context, doc domdoc.Document) (domdoc.Document, error)
	Get(ctx context.Context, id string) (domdoc.Document, error)
	Update(ctx context.Context, id string, p patch.Patch) (domdoc.Document, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int) ([]domdoc.Document, error)
	Search(ctx context.Context, query string, limit int) ([]domdoc.Document, error)
	FindByTag(ctx context.Context, tag string, limit int) ([]domdoc.Document, error)
}
