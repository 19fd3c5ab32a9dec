package patch

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/docdex/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestNew_Empty(t *testing.T) {
	p, err := New(nil, nil, nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.IsEmpty() {
		t.Fatal("expected empty patch")
	}
}

func TestNew_EmptyLabelRejected(t *testing.T) {
	_, err := New(strPtr(""), nil, nil, false)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestNew_InvalidDataRejected(t *testing.T) {
	_, err := New(nil, json.RawMessage(`{`), nil, false)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestNew_TagsNormalized(t *testing.T) {
	p, err := New(nil, nil, []string{"B", "a", "b"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.HasTags() {
		t.Fatal("expected HasTags")
	}
	if got := p.Tags(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected normalized tags, got %v", got)
	}
}

func TestNew_ClearTags(t *testing.T) {
	// tags: [] replaces the set with nothing; omitted tags leave it alone
	p, err := New(nil, nil, nil, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.HasTags() {
		t.Fatal("expected HasTags for explicit empty set")
	}
	if len(p.Tags()) != 0 {
		t.Errorf("expected empty replacement set, got %v", p.Tags())
	}
	if p.IsEmpty() {
		t.Error("patch clearing tags is not empty")
	}
}

func TestFieldAccessors(t *testing.T) {
	p, err := New(strPtr("renamed"), json.RawMessage(`{"k":1}`), nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.HasLabel() || *p.Label() != "renamed" {
		t.Errorf("expected label change, got %v", p.Label())
	}
	if !p.HasData() || string(p.Data()) != `{"k":1}` {
		t.Errorf("expected data change, got %s", p.Data())
	}
	if p.HasTags() {
		t.Error("did not expect tag change")
	}
}
