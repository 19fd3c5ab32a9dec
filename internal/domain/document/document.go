package document

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kailas-cloud/docdex/internal/domain"
)

// MaxLabelSize is the maximum label length in bytes.
const MaxLabelSize = 1024

// emptyObject is the default data payload.
var emptyObject = json.RawMessage(`{}`)

// Document is a labeled JSON record with tags (immutable value object).
type Document struct {
	id        string
	label     string
	data      json.RawMessage
	tags      []string
	createdAt time.Time
	updatedAt *time.Time
}

// New validates input and creates a Document without an identity.
// Label: non-empty, max 1KB. Data defaults to {} and is stored opaquely.
// Tags are lowercased, deduplicated and sorted.
func New(label string, data json.RawMessage, tags []string) (Document, error) {
	if strings.TrimSpace(label) == "" {
		return Document{}, fmt.Errorf("label is required: %w", domain.ErrValidation)
	}
	if len(label) > MaxLabelSize {
		return Document{}, fmt.Errorf("label too long (max %d bytes): %w", MaxLabelSize, domain.ErrValidation)
	}
	if len(data) == 0 {
		data = emptyObject
	}
	if !json.Valid(data) {
		return Document{}, fmt.Errorf("data is not valid JSON: %w", domain.ErrValidation)
	}

	return Document{
		label: label,
		data:  data,
		tags:  NormalizeTags(tags),
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(
	id, label string, data json.RawMessage, tags []string,
	createdAt time.Time, updatedAt *time.Time,
) Document {
	return Document{
		id:        id,
		label:     label,
		data:      data,
		tags:      tags,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// WithIdentity returns a copy with id and creation timestamp set.
func (d Document) WithIdentity(id string, createdAt time.Time) Document {
	d.id = id
	d.createdAt = createdAt
	return d
}

// ID returns the document identifier.
func (d Document) ID() string { return d.id }

// Label returns the document label.
func (d Document) Label() string { return d.label }

// Data returns the raw JSON payload.
func (d Document) Data() json.RawMessage { return d.data }

// Tags returns the normalized tag set.
func (d Document) Tags() []string { return d.tags }

// CreatedAt returns the creation timestamp.
func (d Document) CreatedAt() time.Time { return d.createdAt }

// UpdatedAt returns the last modification timestamp, or nil if never updated.
func (d Document) UpdatedAt() *time.Time { return d.updatedAt }

// HasTag reports case-insensitive tag membership.
func (d Document) HasTag(tag string) bool {
	needle := strings.ToLower(strings.TrimSpace(tag))
	for _, t := range d.tags {
		if t == needle {
			return true
		}
	}
	return false
}

// NormalizeTags lowercases, trims, deduplicates and sorts tags.
// Empty entries are dropped. Order of the input is not significant.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
