package clinicadmin

import (
	"database/sql"

	"github.com/gorilla/mux"

	"github.com/clinicore/clinic-admin/internal/authz"
	"github.com/clinicore/clinic-admin/pkg/encryption"
	"github.com/clinicore/clinic-admin/pkg/logger"
	"github.com/clinicore/clinic-admin/pkg/monitoring"
	"github.com/clinicore/clinic-admin/pkg/rbac"
)

// schedulingRoles may view and manage the appointment book.
var schedulingRoles = []rbac.Role{
	rbac.RoleAdmin,
	rbac.RoleDirector,
	rbac.RoleOperational,
	rbac.RoleReception,
	rbac.RoleDoctor,
	rbac.RoleNurse,
}

// Handlers serves the clinic administration API. Every route is guarded
// by the authorizer; handlers only run for requests that passed their
// configured checks.
type Handlers struct {
	db      *sql.DB
	authz   *authz.Authorizer
	audit   *authz.AuditRecorder
	crypto  *encryption.AESEncryption
	metrics *monitoring.MetricsCollector
	tracer  *monitoring.TracingManager
	logger  *logger.Logger
}

// NewHandlers creates the clinic administration handlers. A nil metrics
// collector disables sensitive-access counters; a nil tracer disables
// sensitive-access spans.
func NewHandlers(db *sql.DB, az *authz.Authorizer, audit *authz.AuditRecorder, crypto *encryption.AESEncryption, metrics *monitoring.MetricsCollector, tracer *monitoring.TracingManager, log *logger.Logger) *Handlers {
	return &Handlers{
		db:      db,
		authz:   az,
		audit:   audit,
		crypto:  crypto,
		metrics: metrics,
		tracer:  tracer,
		logger:  log,
	}
}

// RegisterRoutes mounts the protected API under /api/v1.
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/patients",
		h.authz.WithPermission(rbac.ResourcePatient, rbac.ActionRead, h.ListPatients)).Methods("GET")
	api.HandleFunc("/patients",
		h.authz.WithPermissionAndClinic(rbac.ResourcePatient, rbac.ActionCreate, authz.ClinicIDFromQuery, h.CreatePatient)).Methods("POST")

	api.HandleFunc("/patients/{id}/passport",
		h.authz.WithSensitiveDataAccess(h.GetPassportDocument)).Methods("GET")
	api.HandleFunc("/patients/{id}/passport",
		h.authz.WithSensitiveDataAccess(h.UploadPassportDocument)).Methods("PUT")

	api.HandleFunc("/appointments",
		h.authz.WithRole(schedulingRoles, h.ListAppointments)).Methods("GET")
	api.HandleFunc("/appointments",
		h.authz.WithPermissionAndClinic(rbac.ResourceAppointment, rbac.ActionCreate, authz.ClinicIDFromQuery, h.CreateAppointment)).Methods("POST")

	api.HandleFunc("/invoices",
		h.authz.WithPermissionAndAuditLog(h.audit, rbac.ResourceInvoice, rbac.ActionCreate, h.CreateInvoice)).Methods("POST")
	api.HandleFunc("/invoices/{id}",
		h.authz.WithPermissionAndAuditLog(h.audit, rbac.ResourceInvoice, rbac.ActionUpdate, h.UpdateInvoice)).Methods("PUT")

	api.HandleFunc("/clinics",
		h.authz.WithAuth(h.ListClinics)).Methods("GET")
}
