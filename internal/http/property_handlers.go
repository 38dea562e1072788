package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/service"
)

// PropertiesHandler covers landlord property CRUD plus the tenant-facing
// browse list.
type PropertiesHandler struct {
	properties service.PropertyService
	logger     *zap.Logger
}

func NewPropertiesHandler(properties service.PropertyService, logger *zap.Logger) *PropertiesHandler {
	return &PropertiesHandler{properties: properties, logger: logger}
}

type propertyBody struct {
	Title       string   `json:"title"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Province    string   `json:"province"`
	PostalCode  string   `json:"postalCode"`
	MonthlyRent float64  `json:"monthlyRent"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   float64  `json:"bathrooms"`
	SquareFeet  int      `json:"squareFeet"`
	Amenities   []string `json:"amenities"`
	Description string   `json:"description"`
}

func (b propertyBody) toRequest(landlordID string) service.PropertyRequest {
	return service.PropertyRequest{
		LandlordID:  landlordID,
		Title:       b.Title,
		Address:     b.Address,
		City:        b.City,
		Province:    b.Province,
		PostalCode:  b.PostalCode,
		MonthlyRent: b.MonthlyRent,
		Bedrooms:    b.Bedrooms,
		Bathrooms:   b.Bathrooms,
		SquareFeet:  b.SquareFeet,
		Amenities:   b.Amenities,
		Description: b.Description,
	}
}

func (h *PropertiesHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFrom(r.Context())
	var body propertyBody
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	p, err := h.properties.CreateProperty(r.Context(), body.toRequest(principal.UserID))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *PropertiesHandler) Update(w http.ResponseWriter, r *http.Request, propertyID string) {
	principal, _ := PrincipalFrom(r.Context())
	var body propertyBody
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	p, err := h.properties.UpdateProperty(r.Context(), propertyID, body.toRequest(principal.UserID))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *PropertiesHandler) Get(w http.ResponseWriter, r *http.Request, propertyID string) {
	p, err := h.properties.GetProperty(r.Context(), propertyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *PropertiesHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFrom(r.Context())
	items, err := h.properties.ListOwn(r.Context(), principal.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": len(items)}))
}

func (h *PropertiesHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := parseInt(q.Get("page"), 1)
	size := parseInt(q.Get("pageSize"), 20)
	items, total, err := h.properties.ListAvailable(r.Context(), q.Get("city"), page, size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"items":    items,
		"total":    total,
		"page":     page,
		"pageSize": size,
	}))
}
