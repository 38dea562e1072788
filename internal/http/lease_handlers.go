package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/service"
)

// LeasesHandler covers the lease lifecycle and the rent-roll export.
type LeasesHandler struct {
	leases   service.LeaseService
	rentRoll service.RentRollExporter
	logger   *zap.Logger
}

func NewLeasesHandler(leases service.LeaseService, rentRoll service.RentRollExporter, logger *zap.Logger) *LeasesHandler {
	return &LeasesHandler{leases: leases, rentRoll: rentRoll, logger: logger}
}

// parseDate accepts the date-only form the lease form sends.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func (h *LeasesHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFrom(r.Context())
	var body struct {
		PropertyID        string                     `json:"propertyId"`
		TenantID          string                     `json:"tenantId"`
		Tenants           []service.LeaseTenantInput `json:"tenants"`
		MonthlyRent       float64                    `json:"monthlyRent"`
		SecurityDeposit   float64                    `json:"securityDeposit"`
		PetDeposit        float64                    `json:"petDeposit"`
		StartDate         string                     `json:"startDate"`
		EndDate           string                     `json:"endDate"`
		Status            string                     `json:"status"`
		UtilitiesIncluded []string                   `json:"utilitiesIncluded"`
		SpecialTerms      string                     `json:"specialTerms"`
		HasPets           bool                       `json:"hasPets"`
		ReminderSettings  json.RawMessage            `json:"reminderSettings"`
		SignatureName     string                     `json:"signatureName"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	detail, err := h.leases.CreateLease(r.Context(), service.CreateLeaseRequest{
		LandlordID:        principal.UserID,
		PropertyID:        body.PropertyID,
		TenantID:          body.TenantID,
		Tenants:           body.Tenants,
		MonthlyRent:       body.MonthlyRent,
		SecurityDeposit:   body.SecurityDeposit,
		PetDeposit:        body.PetDeposit,
		StartDate:         parseDate(body.StartDate),
		EndDate:           parseDate(body.EndDate),
		Status:            body.Status,
		UtilitiesIncluded: body.UtilitiesIncluded,
		SpecialTerms:      body.SpecialTerms,
		HasPets:           body.HasPets,
		ReminderSettings:  body.ReminderSettings,
		SignatureName:     body.SignatureName,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(detail))
}

func (h *LeasesHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFrom(r.Context())
	items, err := h.leases.ListLeases(r.Context(), principal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": len(items)}))
}

func (h *LeasesHandler) Get(w http.ResponseWriter, r *http.Request, leaseID string) {
	principal, _ := PrincipalFrom(r.Context())
	detail, err := h.leases.GetLease(r.Context(), principal, leaseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(detail))
}

func (h *LeasesHandler) Terminate(w http.ResponseWriter, r *http.Request, leaseID string) {
	principal, _ := PrincipalFrom(r.Context())
	if err := h.leases.TerminateLease(r.Context(), principal.UserID, leaseID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]bool{"terminated": true}))
}

// Export streams the landlord's rent roll as an .xlsx download.
func (h *LeasesHandler) Export(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFrom(r.Context())
	data, err := h.rentRoll.Export(r.Context(), principal.UserID)
	if err != nil {
		h.logger.Error("rent roll export failed",
			zap.String("landlord_id", principal.UserID), zap.Error(err))
		writeError(w, err)
		return
	}
	filename := fmt.Sprintf("rent-roll-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
