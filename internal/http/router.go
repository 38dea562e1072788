package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

// Router wraps the standard library mux; no third-party router needed.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func methodOnly(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}

// RegisterAuthRoutes: sign-up/sign-in are open, the rest require a token.
func (r *Router) RegisterAuthRoutes(h *AuthHandler, m *Middleware) {
	r.Handle("/auth/api/v1/register", methodOnly(http.MethodPost, h.Register))
	r.Handle("/auth/api/v1/login", methodOnly(http.MethodPost, h.Login))
	r.Handle("/auth/api/v1/logout", methodOnly(http.MethodPost, h.Logout))
	r.Handle("/auth/api/v1/account/email", m.Authenticate(methodOnly(http.MethodPost, h.UpdateEmail)))
	r.Handle("/auth/api/v1/account/password", m.Authenticate(methodOnly(http.MethodPost, h.UpdatePassword)))
}

// RegisterPropertyRoutes: CRUD is landlord-only, browse is any signed-in user.
func (r *Router) RegisterPropertyRoutes(h *PropertiesHandler, m *Middleware) {
	r.Handle("/api/v1/properties", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			m.RequireRole(domain.RoleLandlord, h.ListOwn)(w, req)
		case http.MethodPost:
			m.RequireRole(domain.RoleLandlord, h.Create)(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	r.Handle("/api/v1/properties/available", m.Authenticate(methodOnly(http.MethodGet, h.ListAvailable)))

	r.Handle("/api/v1/properties/", func(w http.ResponseWriter, req *http.Request) {
		id := strings.TrimPrefix(req.URL.Path, "/api/v1/properties/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch req.Method {
		case http.MethodGet:
			m.Authenticate(func(w http.ResponseWriter, req *http.Request) {
				h.Get(w, req, id)
			})(w, req)
		case http.MethodPut:
			m.RequireRole(domain.RoleLandlord, func(w http.ResponseWriter, req *http.Request) {
				h.Update(w, req, id)
			})(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

// RegisterLeaseRoutes: lease lifecycle, rent-roll export and the nested
// message thread all hang off /api/v1/leases.
func (r *Router) RegisterLeaseRoutes(h *LeasesHandler, msgs *MessagesHandler, m *Middleware) {
	r.Handle("/api/v1/leases", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			m.Authenticate(h.List)(w, req)
		case http.MethodPost:
			m.RequireRole(domain.RoleLandlord, h.Create)(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	r.Handle("/api/v1/leases/export", m.RequireRole(domain.RoleLandlord, methodOnly(http.MethodGet, h.Export)))

	r.Handle("/api/v1/leases/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/api/v1/leases/")
		parts := strings.Split(rest, "/")
		id := parts[0]
		if id == "" || id == "export" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		switch {
		case len(parts) == 1:
			if req.Method != http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			m.Authenticate(func(w http.ResponseWriter, req *http.Request) {
				h.Get(w, req, id)
			})(w, req)

		case len(parts) == 2 && parts[1] == "terminate":
			if req.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			m.RequireRole(domain.RoleLandlord, func(w http.ResponseWriter, req *http.Request) {
				h.Terminate(w, req, id)
			})(w, req)

		case len(parts) == 2 && parts[1] == "messages":
			switch req.Method {
			case http.MethodGet:
				m.Authenticate(func(w http.ResponseWriter, req *http.Request) {
					msgs.Fetch(w, req, id)
				})(w, req)
			case http.MethodPost:
				m.Authenticate(func(w http.ResponseWriter, req *http.Request) {
					msgs.Send(w, req, id)
				})(w, req)
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			}

		case len(parts) == 3 && parts[1] == "messages" && parts[2] == "read":
			if req.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			m.Authenticate(func(w http.ResponseWriter, req *http.Request) {
				msgs.MarkRead(w, req, id)
			})(w, req)

		case len(parts) == 3 && parts[1] == "messages" && parts[2] == "unread-count":
			if req.Method != http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			m.Authenticate(func(w http.ResponseWriter, req *http.Request) {
				msgs.UnreadCount(w, req, id)
			})(w, req)

		case len(parts) == 3 && parts[1] == "messages" && parts[2] == "live":
			if req.Method != http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			m.Authenticate(func(w http.ResponseWriter, req *http.Request) {
				msgs.Live(w, req, id)
			})(w, req)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

// RegisterApplicationRoutes: submit is tenant-only, decide is landlord-only.
func (r *Router) RegisterApplicationRoutes(h *ApplicationsHandler, m *Middleware) {
	r.Handle("/api/v1/applications", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			m.Authenticate(h.List)(w, req)
		case http.MethodPost:
			m.RequireRole(domain.RoleTenant, h.Submit)(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	r.Handle("/api/v1/applications/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/api/v1/applications/")
		parts := strings.Split(rest, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] != "decision" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		id := parts[0]
		m.RequireRole(domain.RoleLandlord, func(w http.ResponseWriter, req *http.Request) {
			h.Decide(w, req, id)
		})(w, req)
	})
}

func (r *Router) RegisterNotificationRoutes(h *NotificationsHandler, m *Middleware) {
	r.Handle("/api/v1/notifications", m.Authenticate(methodOnly(http.MethodGet, h.List)))

	r.Handle("/api/v1/notifications/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/api/v1/notifications/")
		parts := strings.Split(rest, "/")
		if parts[0] == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		id := parts[0]

		switch {
		case len(parts) == 2 && parts[1] == "read" && req.Method == http.MethodPost:
			m.Authenticate(func(w http.ResponseWriter, req *http.Request) {
				h.MarkRead(w, req, id)
			})(w, req)
		case len(parts) == 1 && req.Method == http.MethodDelete:
			m.Authenticate(func(w http.ResponseWriter, req *http.Request) {
				h.Delete(w, req, id)
			})(w, req)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func (r *Router) RegisterDocumentRoutes(h *DocumentsHandler, m *Middleware) {
	r.Handle("/api/v1/documents", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			m.Authenticate(h.List)(w, req)
		case http.MethodPost:
			m.Authenticate(h.Upload)(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	r.Handle("/api/v1/documents/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/api/v1/documents/")
		parts := strings.Split(rest, "/")
		if parts[0] == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		id := parts[0]

		switch {
		case len(parts) == 1 && req.Method == http.MethodDelete:
			m.Authenticate(func(w http.ResponseWriter, req *http.Request) {
				h.Delete(w, req, id)
			})(w, req)
		case len(parts) == 2 && parts[1] == "url" && req.Method == http.MethodGet:
			m.Authenticate(func(w http.ResponseWriter, req *http.Request) {
				h.GetURL(w, req, id)
			})(w, req)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}
