package domain

import "time"

// Document categories.
const (
	DocumentCategoryLease      = "lease"
	DocumentCategoryReceipt    = "receipt"
	DocumentCategoryInspection = "inspection"
	DocumentCategoryOther      = "other"
)

// ValidDocumentCategory reports whether c is one of the known categories.
func ValidDocumentCategory(c string) bool {
	switch c {
	case DocumentCategoryLease, DocumentCategoryReceipt, DocumentCategoryInspection, DocumentCategoryOther:
		return true
	}
	return false
}

// Document maps the documents table: metadata for an object stored in the
// object-storage backend under FilePath.
type Document struct {
	DocumentID   string    `db:"document_id"`
	OwnerID      string    `db:"owner_id"`
	Name         string    `db:"name"`
	OriginalName string    `db:"original_name"`
	FilePath     string    `db:"file_path"`
	MimeType     string    `db:"mime_type"`
	FileSize     int64     `db:"file_size"`
	Category     string    `db:"category"`
	UploadedAt   time.Time `db:"uploaded_at"`
}
