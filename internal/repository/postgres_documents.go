package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

type PostgresDocumentsRepository struct {
	db *sql.DB
}

func NewPostgresDocumentsRepository(db *sql.DB) *PostgresDocumentsRepository {
	return &PostgresDocumentsRepository{db: db}
}

var _ DocumentsRepository = (*PostgresDocumentsRepository)(nil)

const documentColumns = `
	document_id::text,
	owner_id::text,
	name,
	original_name,
	file_path,
	mime_type,
	file_size,
	category,
	uploaded_at
`

func scanDocument(s interface {
	Scan(dest ...any) error
}) (*domain.Document, error) {
	var d domain.Document
	err := s.Scan(
		&d.DocumentID,
		&d.OwnerID,
		&d.Name,
		&d.OriginalName,
		&d.FilePath,
		&d.MimeType,
		&d.FileSize,
		&d.Category,
		&d.UploadedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}
	return &d, nil
}

func (r *PostgresDocumentsRepository) CreateDocument(ctx context.Context, d *domain.Document) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO documents (owner_id, name, original_name, file_path, mime_type, file_size, category)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)
		 RETURNING document_id::text`,
		d.OwnerID, d.Name, d.OriginalName, d.FilePath, d.MimeType, d.FileSize, d.Category,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create document: %w", err)
	}
	return id, nil
}

func (r *PostgresDocumentsRepository) GetDocument(ctx context.Context, ownerID, documentID string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents
		 WHERE document_id = $1::uuid AND owner_id = $2::uuid`,
		documentID, ownerID)
	return scanDocument(row)
}

func (r *PostgresDocumentsRepository) ListByOwner(ctx context.Context, ownerID string, category string) ([]*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE owner_id = $1::uuid`
	args := []any{ownerID}
	if category != "" {
		args = append(args, category)
		query += ` AND category = $2`
	}
	query += ` ORDER BY uploaded_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var items []*domain.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r *PostgresDocumentsRepository) Delete(ctx context.Context, ownerID, documentID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM documents WHERE document_id = $1::uuid AND owner_id = $2::uuid`,
		documentID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
