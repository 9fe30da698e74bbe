package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mediagen/internal/domain"
)

// AttachmentRepositoryPG persists media-library records in PostgreSQL.
type AttachmentRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAttachmentRepository creates a new attachment repository.
func NewAttachmentRepository(pool *pgxpool.Pool) *AttachmentRepositoryPG {
	return &AttachmentRepositoryPG{pool: pool}
}

// Insert records a new attachment and returns its identifier.
func (r *AttachmentRepositoryPG) Insert(ctx context.Context, att *domain.Attachment) (int64, error) {
	query := `
INSERT INTO attachments (file_key, mime_type, title, alt_text)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at;
`
	row := r.pool.QueryRow(ctx, query, att.FileKey, att.MIMEType, att.Title, att.AltText)
	if err := row.Scan(&att.ID, &att.CreatedAt); err != nil {
		return 0, err
	}
	return att.ID, nil
}

// GetByID fetches an attachment by its identifier.
func (r *AttachmentRepositoryPG) GetByID(ctx context.Context, id int64) (*domain.Attachment, error) {
	query := `
SELECT id, file_key, mime_type, title, alt_text, created_at
FROM attachments
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, id)
	var att domain.Attachment
	if err := row.Scan(&att.ID, &att.FileKey, &att.MIMEType, &att.Title, &att.AltText, &att.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &att, nil
}

// ListMissingAltText returns image attachments with no alt text yet,
// oldest first, limited to batch-sized pages for the backfill CLI.
func (r *AttachmentRepositoryPG) ListMissingAltText(ctx context.Context, limit int) ([]domain.Attachment, error) {
	query := `
SELECT id, file_key, mime_type, title, alt_text, created_at
FROM attachments
WHERE alt_text = '' AND mime_type LIKE 'image/%'
ORDER BY created_at ASC
LIMIT $1;
`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Attachment
	for rows.Next() {
		var att domain.Attachment
		if err := rows.Scan(&att.ID, &att.FileKey, &att.MIMEType, &att.Title, &att.AltText, &att.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, att)
	}
	return items, rows.Err()
}

// UpdateAltText sets the alt text for an attachment.
func (r *AttachmentRepositoryPG) UpdateAltText(ctx context.Context, id int64, altText string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE attachments SET alt_text = $2 WHERE id = $1;`, id, altText)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
