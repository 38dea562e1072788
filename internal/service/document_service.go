package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/repository"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/storage"
)

// ErrFileTooLarge rejects uploads over the configured ceiling before any
// storage call is made.
var ErrFileTooLarge = errors.New("file exceeds the upload size limit")

// DocumentService is the facade over object storage plus the metadata rows.
type DocumentService interface {
	Upload(ctx context.Context, req UploadDocumentRequest) (*domain.Document, error)
	List(ctx context.Context, ownerID, category string) ([]*domain.Document, error)
	// Delete removes the metadata row, then best-effort deletes the stored
	// object; an object-delete failure is logged, not surfaced.
	Delete(ctx context.Context, ownerID, documentID string) error
	// GetURL mints a time-limited download URL. A failure means "cannot
	// preview right now" and is never retried in a loop.
	GetURL(ctx context.Context, ownerID, documentID string) (string, error)
}

type UploadDocumentRequest struct {
	OwnerID  string
	Name     string
	MimeType string
	Category string
	Data     []byte
}

type documentService struct {
	documents repository.DocumentsRepository
	objects   storage.ObjectStore
	maxBytes  int64
	logger    *zap.Logger
}

func NewDocumentService(documents repository.DocumentsRepository, objects storage.ObjectStore, maxBytes int64, logger *zap.Logger) DocumentService {
	return &documentService{
		documents: documents,
		objects:   objects,
		maxBytes:  maxBytes,
		logger:    logger,
	}
}

func (s *documentService) Upload(ctx context.Context, req UploadDocumentRequest) (*domain.Document, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: file name is required", ErrValidation)
	}
	if !domain.ValidDocumentCategory(req.Category) {
		return nil, fmt.Errorf("%w: unknown document category %q", ErrValidation, req.Category)
	}
	if int64(len(req.Data)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrValidation)
	}

	// Stored under a fresh name; the original name survives in metadata.
	filePath := fmt.Sprintf("%s/%s%s", req.OwnerID, uuid.NewString(), path.Ext(name))

	if err := s.objects.Put(ctx, filePath, req.MimeType, req.Data); err != nil {
		s.logger.Error("object upload failed",
			zap.String("owner_id", req.OwnerID), zap.Error(err))
		return nil, err
	}

	d := &domain.Document{
		OwnerID:      req.OwnerID,
		Name:         name,
		OriginalName: name,
		FilePath:     filePath,
		MimeType:     req.MimeType,
		FileSize:     int64(len(req.Data)),
		Category:     req.Category,
	}
	id, err := s.documents.CreateDocument(ctx, d)
	if err != nil {
		// Metadata write failed after the object landed; remove the orphan
		// so storage does not leak.
		if delErr := s.objects.Delete(ctx, filePath); delErr != nil {
			s.logger.Warn("orphaned object cleanup failed",
				zap.String("file_path", filePath), zap.Error(delErr))
		}
		s.logger.Error("document metadata write failed",
			zap.String("owner_id", req.OwnerID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("document uploaded",
		zap.String("document_id", id),
		zap.String("category", req.Category),
		zap.Int64("file_size", d.FileSize),
	)
	return s.documents.GetDocument(ctx, req.OwnerID, id)
}

func (s *documentService) List(ctx context.Context, ownerID, category string) ([]*domain.Document, error) {
	if category != "" && !domain.ValidDocumentCategory(category) {
		return nil, fmt.Errorf("%w: unknown document category %q", ErrValidation, category)
	}
	return s.documents.ListByOwner(ctx, ownerID, category)
}

func (s *documentService) Delete(ctx context.Context, ownerID, documentID string) error {
	d, err := s.documents.GetDocument(ctx, ownerID, documentID)
	if err != nil {
		return err
	}
	if err := s.documents.Delete(ctx, ownerID, documentID); err != nil {
		return err
	}
	if err := s.objects.Delete(ctx, d.FilePath); err != nil {
		s.logger.Warn("stored object delete failed",
			zap.String("document_id", documentID),
			zap.String("file_path", d.FilePath),
			zap.Error(err))
	}
	return nil
}

func (s *documentService) GetURL(ctx context.Context, ownerID, documentID string) (string, error) {
	d, err := s.documents.GetDocument(ctx, ownerID, documentID)
	if err != nil {
		return "", err
	}
	url, err := s.objects.SignedURL(ctx, d.FilePath)
	if err != nil {
		s.logger.Warn("signed url mint failed",
			zap.String("document_id", documentID), zap.Error(err))
		return "", err
	}
	return url, nil
}
