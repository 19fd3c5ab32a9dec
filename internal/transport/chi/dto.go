package chi

import (
	"encoding/json"
	"time"

	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
)

// ErrorResponseCode enumerates machine-readable error codes.
type ErrorResponseCode string

const (
	CodeBadRequest       ErrorResponseCode = "bad_request"
	CodeValidationFailed ErrorResponseCode = "validation_failed"
	CodeDocumentNotFound ErrorResponseCode = "document_not_found"
	CodeStoreUnavailable ErrorResponseCode = "store_unavailable"
	CodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the error payload returned by every failing endpoint.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// CreateDocumentRequest is the POST /documents payload.
type CreateDocumentRequest struct {
	Label string          `json:"label"`
	Data  json.RawMessage `json:"data,omitempty"`
	Tags  []string        `json:"tags,omitempty"`
}

// UpdateDocumentRequest is the PATCH /documents/{id} payload.
// Absent fields leave the stored values untouched; tags present but empty
// clears the tag set.
type UpdateDocumentRequest struct {
	Label *string         `json:"label"`
	Data  json.RawMessage `json:"data"`
	Tags  *[]string       `json:"tags"`
}

// DocumentResponse is the wire shape of a single document.
type DocumentResponse struct {
	ID        string          `json:"id"`
	Label     string          `json:"label"`
	Data      json.RawMessage `json:"data"`
	Tags      []string        `json:"tags"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

// DocumentListResponse is the wire shape of list, search and tag results.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Total int                `json:"total"`
}

// HealthResponse is the GET /health payload.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func documentToResponse(doc domdoc.Document) DocumentResponse {
	tags := doc.Tags()
	if tags == nil {
		tags = []string{}
	}
	return DocumentResponse{
		ID:        doc.ID(),
		Label:     doc.Label(),
		Data:      doc.Data(),
		Tags:      tags,
		CreatedAt: doc.CreatedAt(),
		UpdatedAt: doc.UpdatedAt(),
	}
}

func documentsToResponse(docs []domdoc.Document) DocumentListResponse {
	items := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		items[i] = documentToResponse(d)
	}
	return DocumentListResponse{Items: items, Total: len(items)}
}
