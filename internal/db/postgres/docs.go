package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/docdex/internal/db"
)

const docColumns = "id, label, data, tags, created_at, updated_at"

// Insert stores a new document row.
func (s *Store) Insert(ctx context.Context, rec db.DocRecord) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO docs (id, label, data, tags, created_at) VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.Label, rec.Data, rec.Tags, rec.CreatedAt,
	)
	if err != nil {
		return wrapErr(db.OpInsert, err)
	}
	return nil
}

// Get returns a document row by id.
func (s *Store) Get(ctx context.Context, id string) (db.DocRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.pool.QueryRow(ctx,
		`SELECT `+docColumns+` FROM docs WHERE id = $1`, id,
	)
	rec, err := scanDoc(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.DocRecord{}, db.ErrNotFound
		}
		return db.DocRecord{}, wrapErr(db.OpSelect, err)
	}
	return rec, nil
}

// Update applies a partial update and returns the resulting row.
// Last write wins; there is no version column.
func (s *Store) Update(ctx context.Context, id string, upd db.DocUpdate) (db.DocRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tags := upd.Tags
	if tags == nil {
		tags = []string{}
	}

	row := s.pool.QueryRow(ctx,
		`UPDATE docs SET
			label = COALESCE($2, label),
			data = COALESCE($3, data),
			tags = CASE WHEN $4 THEN $5::text[] ELSE tags END,
			updated_at = $6
		WHERE id = $1
		RETURNING `+docColumns,
		id, upd.Label, upd.Data, upd.HasTags, tags, upd.UpdatedAt,
	)
	rec, err := scanDoc(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.DocRecord{}, db.ErrNotFound
		}
		return db.DocRecord{}, wrapErr(db.OpUpdate, err)
	}
	return rec, nil
}

// Delete removes a document row.
func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `DELETE FROM docs WHERE id = $1`, id)
	if err != nil {
		return wrapErr(db.OpDelete, err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// List returns rows newest-created first. limit <= 0 returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]db.DocRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT `+docColumns+` FROM docs
		ORDER BY created_at DESC, id
		LIMIT NULLIF($1, 0)`,
		normalizeLimit(limit),
	)
	if err != nil {
		return nil, wrapErr(db.OpSelect, err)
	}
	return scanDocs(rows)
}

// Search runs a case-insensitive substring match over label, the JSON text
// of data, and tags. Label matches rank before data/tag-only matches; ties
// break newest-created first.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]db.DocRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	pattern := "%" + escapeLike(query) + "%"
	rows, err := s.pool.Query(ctx,
		`SELECT `+docColumns+` FROM docs
		WHERE label ILIKE $1
		   OR data::text ILIKE $1
		   OR EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE t ILIKE $1)
		ORDER BY (label ILIKE $1) DESC, created_at DESC, id
		LIMIT NULLIF($2, 0)`,
		pattern, normalizeLimit(limit),
	)
	if err != nil {
		return nil, wrapErr(db.OpSelect, err)
	}
	return scanDocs(rows)
}

// FindByTag returns rows whose tag set contains the given lowercase tag.
func (s *Store) FindByTag(ctx context.Context, tag string, limit int) ([]db.DocRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT `+docColumns+` FROM docs
		WHERE $1 = ANY(tags)
		ORDER BY created_at DESC, id
		LIMIT NULLIF($2, 0)`,
		tag, normalizeLimit(limit),
	)
	if err != nil {
		return nil, wrapErr(db.OpSelect, err)
	}
	return scanDocs(rows)
}

func normalizeLimit(limit int) int {
	if limit < 0 {
		return 0
	}
	return limit
}

// escapeLike escapes LIKE/ILIKE metacharacters so user input matches
// literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func scanDoc(row pgx.Row) (db.DocRecord, error) {
	var rec db.DocRecord
	err := row.Scan(&rec.ID, &rec.Label, &rec.Data, &rec.Tags, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return db.DocRecord{}, err
	}
	return rec, nil
}

func scanDocs(rows pgx.Rows) ([]db.DocRecord, error) {
	defer rows.Close()

	var out []db.DocRecord
	for rows.Next() {
		rec, err := scanDoc(rows)
		if err != nil {
			return nil, wrapErr(db.OpSelect, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(db.OpSelect, err)
	}
	return out, nil
}
