package clinicadmin

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/clinicore/clinic-admin/internal/authz"
	"github.com/clinicore/clinic-admin/pkg/rbac"
)

// Invoice is a billing record as exposed by the API. Amounts are in
// minor currency units.
type Invoice struct {
	ID          string    `json:"id"`
	ClinicID    string    `json:"clinicId"`
	PatientID   string    `json:"patientId"`
	AmountCents int64     `json:"amountCents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type createInvoiceRequest struct {
	PatientID   string `json:"patientId"`
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
}

// CreateInvoice creates a billing record. The route is audit-logged; the
// resource id is reported back to the audit wrapper once known.
func (h *Handlers) CreateInvoice(w http.ResponseWriter, r *http.Request, user *rbac.SessionUser, rctx *authz.RouteContext) {
	if rctx.ClinicID == "" {
		authz.WriteError(w, http.StatusBadRequest, "Clinic ID is required")
		return
	}

	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authz.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PatientID == "" || req.AmountCents <= 0 {
		authz.WriteError(w, http.StatusBadRequest, "Patient and a positive amount are required")
		return
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	invoice := Invoice{
		ID:          uuid.New().String(),
		ClinicID:    rctx.ClinicID,
		PatientID:   req.PatientID,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Status:      "draft",
		CreatedAt:   time.Now().UTC(),
	}

	_, err := h.db.ExecContext(r.Context(), `
		INSERT INTO invoices (id, clinic_id, patient_id, amount_cents, currency, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		invoice.ID, invoice.ClinicID, invoice.PatientID, invoice.AmountCents,
		invoice.Currency, invoice.Status, user.ID, invoice.CreatedAt,
	)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create invoice")
		authz.WriteError(w, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	rctx.ResourceID = invoice.ID
	authz.WriteJSON(w, http.StatusCreated, invoice)
}

type updateInvoiceRequest struct {
	Status string `json:"status"`
}

var invoiceStatuses = map[string]bool{
	"draft":     true,
	"issued":    true,
	"paid":      true,
	"cancelled": true,
}

// UpdateInvoice transitions an invoice's status.
func (h *Handlers) UpdateInvoice(w http.ResponseWriter, r *http.Request, _ *rbac.SessionUser, rctx *authz.RouteContext) {
	invoiceID := mux.Vars(r)["id"]

	var req updateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authz.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !invoiceStatuses[req.Status] {
		authz.WriteError(w, http.StatusBadRequest, "Invalid invoice status")
		return
	}

	result, err := h.db.ExecContext(r.Context(),
		`UPDATE invoices SET status = $1, updated_at = $2 WHERE id = $3`,
		req.Status, time.Now().UTC(), invoiceID,
	)
	if err != nil {
		h.logger.WithError(err).Error("Failed to update invoice")
		authz.WriteError(w, http.StatusInternalServerError, "Failed to update invoice")
		return
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		authz.WriteError(w, http.StatusNotFound, "Invoice not found")
		return
	}

	rctx.ResourceID = invoiceID
	authz.WriteJSON(w, http.StatusOK, map[string]string{"id": invoiceID, "status": req.Status})
}
