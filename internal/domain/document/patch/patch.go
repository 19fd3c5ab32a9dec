package patch

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/domain/document"
)

// Patch is a partial document update.
// Nil fields are unchanged. An empty patch is valid and acts as a read.
type Patch struct {
	label *string
	data  json.RawMessage
	tags  []string
	// distinguishes "tags: []" (clear) from "tags omitted"
	hasTags bool
}

// New validates and creates a Patch.
// A provided label must be non-empty; provided data must be valid JSON.
func New(label *string, data json.RawMessage, tags []string, hasTags bool) (Patch, error) {
	if label != nil {
		if strings.TrimSpace(*label) == "" {
			return Patch{}, fmt.Errorf("label must not be empty: %w", domain.ErrValidation)
		}
		if len(*label) > document.MaxLabelSize {
			return Patch{}, fmt.Errorf(
				"label too long (max %d bytes): %w", document.MaxLabelSize, domain.ErrValidation,
			)
		}
	}
	if data != nil && !json.Valid(data) {
		return Patch{}, fmt.Errorf("data is not valid JSON: %w", domain.ErrValidation)
	}

	p := Patch{label: label, data: data, hasTags: hasTags}
	if hasTags {
		p.tags = document.NormalizeTags(tags)
	}
	return p, nil
}

// Label returns the new label, or nil if unchanged.
func (p Patch) Label() *string { return p.label }

// Data returns the new payload, or nil if unchanged.
func (p Patch) Data() json.RawMessage { return p.data }

// Tags returns the normalized replacement tag set. Valid only if HasTags.
func (p Patch) Tags() []string { return p.tags }

// HasLabel reports whether the patch changes the label.
func (p Patch) HasLabel() bool { return p.label != nil }

// HasData reports whether the patch changes the payload.
func (p Patch) HasData() bool { return p.data != nil }

// HasTags reports whether the patch replaces the tag set.
func (p Patch) HasTags() bool { return p.hasTags }

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool { return p.label == nil && p.data == nil && !p.hasTags }
