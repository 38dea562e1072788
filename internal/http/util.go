package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/repository"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseInt64(s string, def int64) int64 {
	if s == "" {
		return def
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def
	}
	return i
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// writeError maps service/repository sentinels onto envelope + status.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrConsentRequired),
		errors.Is(err, service.ErrFileTooLarge):
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, Fail("invalid credentials"))
	case errors.Is(err, service.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, FailToken("invalid or expired token"))
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, Fail("forbidden"))
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Fail("not found"))
	case errors.Is(err, repository.ErrActiveLeaseExists):
		writeJSON(w, http.StatusConflict, Fail("property already has an active lease"))
	default:
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
	}
}
