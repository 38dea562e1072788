package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

type MemoryDocumentsRepository struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
}

func NewMemoryDocumentsRepository() *MemoryDocumentsRepository {
	return &MemoryDocumentsRepository{documents: map[string]domain.Document{}}
}

var _ DocumentsRepository = (*MemoryDocumentsRepository)(nil)

func (r *MemoryDocumentsRepository) CreateDocument(_ context.Context, d *domain.Document) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *d
	stored.DocumentID = uuid.NewString()
	stored.UploadedAt = time.Now()
	r.documents[stored.DocumentID] = stored
	return stored.DocumentID, nil
}

func (r *MemoryDocumentsRepository) GetDocument(_ context.Context, ownerID, documentID string) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.documents[documentID]
	if !ok || d.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	copied := d
	return &copied, nil
}

func (r *MemoryDocumentsRepository) ListByOwner(_ context.Context, ownerID string, category string) ([]*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*domain.Document
	for _, d := range r.documents {
		if d.OwnerID != ownerID {
			continue
		}
		if category != "" && d.Category != category {
			continue
		}
		copied := d
		items = append(items, &copied)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].UploadedAt.After(items[j].UploadedAt)
	})
	return items, nil
}

func (r *MemoryDocumentsRepository) Delete(_ context.Context, ownerID, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.documents[documentID]
	if !ok || d.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.documents, documentID)
	return nil
}
