package clinicadmin

import (
	"net/http"

	"github.com/lib/pq"

	"github.com/clinicore/clinic-admin/internal/authz"
	"github.com/clinicore/clinic-admin/pkg/rbac"
)

// Clinic is a clinic as exposed by the API.
type Clinic struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

// ListClinics returns the clinics visible to the session. Global-access
// roles see all clinics; everyone else sees only their assignments.
func (h *Handlers) ListClinics(w http.ResponseWriter, r *http.Request, user *rbac.SessionUser, _ *authz.RouteContext) {
	query := `SELECT id, name, city FROM clinics ORDER BY name`
	args := []interface{}{}
	if !rbac.HasGlobalAccess(user.Role) {
		query = `SELECT id, name, city FROM clinics WHERE id = ANY($1) ORDER BY name`
		args = append(args, pq.Array(user.AssignedClinics))
	}

	rows, err := h.db.QueryContext(r.Context(), query, args...)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list clinics")
		authz.WriteError(w, http.StatusInternalServerError, "Failed to list clinics")
		return
	}
	defer rows.Close()

	clinics := []Clinic{}
	for rows.Next() {
		var c Clinic
		if err := rows.Scan(&c.ID, &c.Name, &c.City); err != nil {
			h.logger.WithError(err).Error("Failed to scan clinic row")
			authz.WriteError(w, http.StatusInternalServerError, "Failed to list clinics")
			return
		}
		clinics = append(clinics, c)
	}
	if err := rows.Err(); err != nil {
		h.logger.WithError(err).Error("Failed to iterate clinic rows")
		authz.WriteError(w, http.StatusInternalServerError, "Failed to list clinics")
		return
	}

	authz.WriteJSON(w, http.StatusOK, map[string]interface{}{"clinics": clinics})
}
