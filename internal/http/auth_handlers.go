package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/service"
)

const maxBodyBytes = 1 << 20

// AuthHandler covers sign-up, sign-in, sign-out and account updates.
type AuthHandler struct {
	auth   service.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Phone     string `json:"phone"`
		Role      string `json:"role"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	session, err := h.auth.Register(r.Context(), service.RegisterRequest{
		Email:     body.Email,
		Password:  body.Password,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Phone:     body.Phone,
		Role:      body.Role,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(session))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	session, err := h.auth.Login(r.Context(), service.LoginRequest{Email: body.Email, Password: body.Password})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(session))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), bearerToken(r)); err != nil {
		h.logger.Warn("logout failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]bool{"loggedOut": true}))
}

func (h *AuthHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFrom(r.Context())
	var body struct {
		Email string `json:"email"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if err := h.auth.UpdateEmail(r.Context(), principal.UserID, body.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"email": body.Email}))
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFrom(r.Context())
	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if err := h.auth.UpdatePassword(r.Context(), principal.UserID, body.CurrentPassword, body.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]bool{"updated": true}))
}
