package documents

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docuvault/docuvault/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetDocument fetches a document by ID.
func (r *Repository) GetDocument(ctx context.Context, id int64) (Document, error) {
	var doc Document
	err := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, title, storage_key, is_public, access_group_ids, status, created_at, updated_at
		FROM documents WHERE id = $1`, id,
	).Scan(&doc.ID, &doc.OwnerID, &doc.Title, &doc.StorageKey, &doc.IsPublic, &doc.AccessGroupIDs, &doc.Status, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, httpx.ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// CreateDocument inserts a new document record.
func (r *Repository) CreateDocument(ctx context.Context, doc Document) (Document, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO documents (owner_id, title, storage_key, is_public, access_group_ids, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING id, created_at, updated_at`,
		doc.OwnerID, doc.Title, doc.StorageKey, doc.IsPublic, doc.AccessGroupIDs, doc.Status,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

// DeleteDocument removes a document record.
func (r *Repository) DeleteDocument(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// UserInAnyGroup reports whether the user belongs to one of the access groups.
func (r *Repository) UserInAnyGroup(ctx context.Context, userID int64, groupIDs []int64) (bool, error) {
	if len(groupIDs) == 0 {
		return false, nil
	}
	var member bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM access_group_members
			WHERE user_id = $1 AND group_id = ANY($2)
		)`, userID, groupIDs,
	).Scan(&member)
	if err != nil {
		return false, err
	}
	return member, nil
}
