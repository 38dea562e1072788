package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/service"
)

// ApplicationsHandler covers tenant application intake and the landlord
// decision path.
type ApplicationsHandler struct {
	applications service.ApplicationService
	logger       *zap.Logger
}

func NewApplicationsHandler(applications service.ApplicationService, logger *zap.Logger) *ApplicationsHandler {
	return &ApplicationsHandler{applications: applications, logger: logger}
}

func (h *ApplicationsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFrom(r.Context())
	var body struct {
		PropertyID     string  `json:"propertyId"`
		FullName       string  `json:"fullName"`
		Email          string  `json:"email"`
		Phone          string  `json:"phone"`
		CurrentAddress string  `json:"currentAddress"`
		Employer       string  `json:"employer"`
		JobTitle       string  `json:"jobTitle"`
		AnnualIncome   float64 `json:"annualIncome"`
		ReferenceName  string  `json:"referenceName"`
		ReferencePhone string  `json:"referencePhone"`
		MoveInDate     string  `json:"moveInDate"`
		Notes          string  `json:"notes"`
		Consent        bool    `json:"consent"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	a, err := h.applications.Submit(r.Context(), service.SubmitApplicationRequest{
		TenantID:       principal.UserID,
		PropertyID:     body.PropertyID,
		FullName:       body.FullName,
		Email:          body.Email,
		Phone:          body.Phone,
		CurrentAddress: body.CurrentAddress,
		Employer:       body.Employer,
		JobTitle:       body.JobTitle,
		AnnualIncome:   body.AnnualIncome,
		ReferenceName:  body.ReferenceName,
		ReferencePhone: body.ReferencePhone,
		MoveInDate:     parseDate(body.MoveInDate),
		Notes:          body.Notes,
		Consent:        body.Consent,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(a))
}

// List serves both sides: landlords see applications for their properties,
// tenants see their own submissions.
func (h *ApplicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFrom(r.Context())
	var (
		items []*domain.Application
		err   error
	)
	if principal.Role == domain.RoleLandlord {
		items, err = h.applications.ListForLandlord(r.Context(), principal.UserID, r.URL.Query().Get("propertyId"))
	} else {
		items, err = h.applications.ListOwn(r.Context(), principal.UserID)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": len(items)}))
}

func (h *ApplicationsHandler) Decide(w http.ResponseWriter, r *http.Request, applicationID string) {
	principal, _ := PrincipalFrom(r.Context())
	var body struct {
		Approve bool `json:"approve"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	err := h.applications.Decide(r.Context(), service.DecideApplicationRequest{
		LandlordID:    principal.UserID,
		ApplicationID: applicationID,
		Approve:       body.Approve,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]bool{"decided": true}))
}
