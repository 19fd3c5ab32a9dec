package docdex

import (
	"encoding/json"
	"time"
)

// Document is a stored document.
type Document struct {
	ID        string
	Label     string
	Data      json.RawMessage
	Tags      []string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// DocumentPatch is a partial document update.
// Nil Label and Data are unchanged. Tags nil means unchanged; a non-nil
// empty slice clears the tag set.
type DocumentPatch struct {
	Label *string
	Data  json.RawMessage
	Tags  *[]string
}
