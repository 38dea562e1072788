package repository

import (
	"context"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

// DocumentsRepository holds the metadata rows for objects living in the
// storage backend. The object bytes themselves never pass through here.
type DocumentsRepository interface {
	CreateDocument(ctx context.Context, d *domain.Document) (string, error)
	GetDocument(ctx context.Context, ownerID, documentID string) (*domain.Document, error)
	ListByOwner(ctx context.Context, ownerID string, category string) ([]*domain.Document, error)
	Delete(ctx context.Context, ownerID, documentID string) error
}
