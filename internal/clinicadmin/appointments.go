package clinicadmin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-admin/internal/authz"
	"github.com/clinicore/clinic-admin/pkg/rbac"
)

// Appointment is a scheduled visit as exposed by the API.
type Appointment struct {
	ID          string    `json:"id"`
	ClinicID    string    `json:"clinicId"`
	PatientID   string    `json:"patientId"`
	DoctorID    string    `json:"doctorId"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Status      string    `json:"status"`
}

// ListAppointments returns the appointment book visible to the session.
func (h *Handlers) ListAppointments(w http.ResponseWriter, r *http.Request, user *rbac.SessionUser, _ *authz.RouteContext) {
	// Appointments belong to exactly one clinic, so both filter columns
	// point at clinic_id.
	filter := rbac.BuildClinicFilter(user)
	cond, args := filter.SQLCondition("clinic_id", "clinic_id", 1)

	query := fmt.Sprintf(`
		SELECT id, clinic_id, patient_id, doctor_id, scheduled_at, status
		FROM appointments
		WHERE %s
		ORDER BY scheduled_at
		LIMIT 200`, cond)

	rows, err := h.db.QueryContext(r.Context(), query, args...)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list appointments")
		authz.WriteError(w, http.StatusInternalServerError, "Failed to list appointments")
		return
	}
	defer rows.Close()

	appointments := []Appointment{}
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.ClinicID, &a.PatientID, &a.DoctorID, &a.ScheduledAt, &a.Status); err != nil {
			h.logger.WithError(err).Error("Failed to scan appointment row")
			authz.WriteError(w, http.StatusInternalServerError, "Failed to list appointments")
			return
		}
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		h.logger.WithError(err).Error("Failed to iterate appointment rows")
		authz.WriteError(w, http.StatusInternalServerError, "Failed to list appointments")
		return
	}

	authz.WriteJSON(w, http.StatusOK, map[string]interface{}{"appointments": appointments})
}

type createAppointmentRequest struct {
	PatientID   string    `json:"patientId"`
	DoctorID    string    `json:"doctorId"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

// CreateAppointment books a visit in the target clinic.
func (h *Handlers) CreateAppointment(w http.ResponseWriter, r *http.Request, user *rbac.SessionUser, rctx *authz.RouteContext) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authz.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PatientID == "" || req.DoctorID == "" || req.ScheduledAt.IsZero() {
		authz.WriteError(w, http.StatusBadRequest, "Patient, doctor and time are required")
		return
	}

	appointment := Appointment{
		ID:          uuid.New().String(),
		ClinicID:    rctx.ClinicID,
		PatientID:   req.PatientID,
		DoctorID:    req.DoctorID,
		ScheduledAt: req.ScheduledAt,
		Status:      "scheduled",
	}

	_, err := h.db.ExecContext(r.Context(), `
		INSERT INTO appointments (id, clinic_id, patient_id, doctor_id, scheduled_at, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		appointment.ID, appointment.ClinicID, appointment.PatientID,
		appointment.DoctorID, appointment.ScheduledAt, appointment.Status, user.ID,
	)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create appointment")
		authz.WriteError(w, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	rctx.ResourceID = appointment.ID
	authz.WriteJSON(w, http.StatusCreated, appointment)
}
