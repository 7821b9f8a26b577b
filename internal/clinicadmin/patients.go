package clinicadmin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/clinicore/clinic-admin/internal/authz"
	"github.com/clinicore/clinic-admin/pkg/rbac"
)

// Patient is a patient record as exposed by the API.
type Patient struct {
	ID          string    `json:"id"`
	ClinicID    string    `json:"clinicId"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	DateOfBirth string    `json:"dateOfBirth"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListPatients returns the patients visible to the session. Clinic-scoped
// roles only see patients of their assigned clinics.
func (h *Handlers) ListPatients(w http.ResponseWriter, r *http.Request, user *rbac.SessionUser, _ *authz.RouteContext) {
	filter := rbac.BuildClinicFilter(user)
	cond, args := filter.SQLCondition("clinic_id", "assigned_clinics", 1)

	query := fmt.Sprintf(`
		SELECT id, clinic_id, first_name, last_name, date_of_birth, created_at
		FROM patients
		WHERE %s
		ORDER BY created_at DESC
		LIMIT 100`, cond)

	rows, err := h.db.QueryContext(r.Context(), query, args...)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list patients")
		authz.WriteError(w, http.StatusInternalServerError, "Failed to list patients")
		return
	}
	defer rows.Close()

	patients := []Patient{}
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.ClinicID, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.CreatedAt); err != nil {
			h.logger.WithError(err).Error("Failed to scan patient row")
			authz.WriteError(w, http.StatusInternalServerError, "Failed to list patients")
			return
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		h.logger.WithError(err).Error("Failed to iterate patient rows")
		authz.WriteError(w, http.StatusInternalServerError, "Failed to list patients")
		return
	}

	authz.WriteJSON(w, http.StatusOK, map[string]interface{}{"patients": patients})
}

type createPatientRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
}

// CreatePatient registers a new patient in the target clinic. The clinic
// was already validated against the session by the route wrapper.
func (h *Handlers) CreatePatient(w http.ResponseWriter, r *http.Request, user *rbac.SessionUser, rctx *authz.RouteContext) {
	var req createPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authz.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		authz.WriteError(w, http.StatusBadRequest, "First and last name are required")
		return
	}

	patient := Patient{
		ID:          uuid.New().String(),
		ClinicID:    rctx.ClinicID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := h.db.ExecContext(r.Context(), `
		INSERT INTO patients (id, clinic_id, assigned_clinics, first_name, last_name, date_of_birth, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		patient.ID, patient.ClinicID, pq.Array([]string{patient.ClinicID}),
		patient.FirstName, patient.LastName, patient.DateOfBirth,
		user.ID, patient.CreatedAt,
	)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create patient")
		authz.WriteError(w, http.StatusInternalServerError, "Failed to create patient")
		return
	}

	rctx.ResourceID = patient.ID
	authz.WriteJSON(w, http.StatusCreated, patient)
}
