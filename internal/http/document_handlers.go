package httpapi

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/service"
)

// DocumentsHandler covers multipart upload, listing, deletion and
// time-limited download links.
type DocumentsHandler struct {
	documents service.DocumentService
	maxBytes  int64
	logger    *zap.Logger
}

func NewDocumentsHandler(documents service.DocumentService, maxBytes int64, logger *zap.Logger) *DocumentsHandler {
	return &DocumentsHandler{documents: documents, maxBytes: maxBytes, logger: logger}
}

func (h *DocumentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFrom(r.Context())

	// One extra byte over the ceiling so oversize files are rejected with
	// the friendly error instead of a truncated read.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+(1<<20))
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("file field is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("failed to read file"))
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}
	d, err := h.documents.Upload(r.Context(), service.UploadDocumentRequest{
		OwnerID:  principal.UserID,
		Name:     name,
		MimeType: header.Header.Get("Content-Type"),
		Category: r.FormValue("category"),
		Data:     data,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(d))
}

func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFrom(r.Context())
	items, err := h.documents.List(r.Context(), principal.UserID, r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": len(items)}))
}

func (h *DocumentsHandler) Delete(w http.ResponseWriter, r *http.Request, documentID string) {
	principal, _ := PrincipalFrom(r.Context())
	if err := h.documents.Delete(r.Context(), principal.UserID, documentID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]bool{"deleted": true}))
}

func (h *DocumentsHandler) GetURL(w http.ResponseWriter, r *http.Request, documentID string) {
	principal, _ := PrincipalFrom(r.Context())
	url, err := h.documents.GetURL(r.Context(), principal.UserID, documentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"url": url}))
}
