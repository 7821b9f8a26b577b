package authz

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/clinicore/clinic-admin/pkg/rbac"
)

// RouteContext carries resolved routing values into a handler. Wrappers
// fill in what they validate (the clinic id); handlers may set ResourceID
// before writing their response so the audit wrapper can record it.
type RouteContext struct {
	ClinicID   string
	ResourceID string
}

// Handler is a business-logic handler invoked only after every configured
// check has passed.
type Handler func(w http.ResponseWriter, r *http.Request, user *rbac.SessionUser, rctx *RouteContext)

// ClinicIDExtractor derives the target clinic id from a request. An empty
// result short-circuits with 400 before any authorization check runs.
type ClinicIDExtractor func(r *http.Request) string

// ClinicIDFromQuery extracts the clinic id from the clinicId query
// parameter.
func ClinicIDFromQuery(r *http.Request) string {
	return r.URL.Query().Get("clinicId")
}

// ClinicIDFromPath extracts the clinic id from the clinicId path variable.
func ClinicIDFromPath(r *http.Request) string {
	return mux.Vars(r)["clinicId"]
}

// WithAuth guards a handler with the authentication check only.
func (a *Authorizer) WithAuth(handler Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := a.RequireAuth(r)
		if !result.Authorized {
			WriteDenial(w, result.Denied)
			return
		}
		handler(w, r, result.User, &RouteContext{})
	}
}

// WithRole guards a handler with a role allow-list.
func (a *Authorizer) WithRole(allowedRoles []rbac.Role, handler Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := a.RequireRole(r, allowedRoles)
		if !result.Authorized {
			WriteDenial(w, result.Denied)
			return
		}
		handler(w, r, result.User, &RouteContext{})
	}
}

// WithPermission guards a handler with a matrix permission check.
func (a *Authorizer) WithPermission(resource rbac.Resource, action rbac.Action, handler Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := a.RequirePermission(r, resource, action)
		if !result.Authorized {
			WriteDenial(w, result.Denied)
			return
		}
		handler(w, r, result.User, &RouteContext{})
	}
}

// WithClinicAccess guards a handler with the clinic-access check. The
// extractor supplies the target clinic id; if it yields nothing the
// request fails with 400 before any authorization check.
func (a *Authorizer) WithClinicAccess(extract ClinicIDExtractor, handler Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinicID := extract(r)
		if clinicID == "" {
			WriteError(w, http.StatusBadRequest, "Clinic ID is required")
			return
		}

		result := a.RequireClinicAccess(r, clinicID)
		if !result.Authorized {
			WriteDenial(w, result.Denied)
			return
		}
		handler(w, r, result.User, &RouteContext{ClinicID: clinicID})
	}
}

// WithPermissionAndClinic guards a handler with the permission check
// followed by the clinic-access check.
func (a *Authorizer) WithPermissionAndClinic(resource rbac.Resource, action rbac.Action, extract ClinicIDExtractor, handler Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinicID := extract(r)
		if clinicID == "" {
			WriteError(w, http.StatusBadRequest, "Clinic ID is required")
			return
		}

		result := a.RequirePermissionAndClinicAccess(r, resource, action, clinicID)
		if !result.Authorized {
			WriteDenial(w, result.Denied)
			return
		}
		handler(w, r, result.User, &RouteContext{ClinicID: clinicID})
	}
}

// WithSensitiveDataAccess guards a handler with the sensitive-data
// allow-list check.
func (a *Authorizer) WithSensitiveDataAccess(handler Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := a.CanAccessSensitiveData(r)
		if !result.Authorized {
			WriteDenial(w, result.Denied)
			return
		}
		handler(w, r, result.User, &RouteContext{})
	}
}

// WithAuditLog guards a handler with authentication and records an audit
// entry after it returns, but only for 2xx responses. Recording is
// fire-and-forget: a failed write never affects the response.
func (a *Authorizer) WithAuditLog(recorder *AuditRecorder, resource rbac.Resource, action rbac.Action, handler Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.serveAudited(w, r, a.RequireAuth(r), recorder, resource, action, handler)
	}
}

// WithPermissionAndAuditLog guards a handler with the matrix permission
// check for the audited resource and action, then records the audit entry
// the way WithAuditLog does.
func (a *Authorizer) WithPermissionAndAuditLog(recorder *AuditRecorder, resource rbac.Resource, action rbac.Action, handler Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.serveAudited(w, r, a.RequirePermission(r, resource, action), recorder, resource, action, handler)
	}
}

func (a *Authorizer) serveAudited(w http.ResponseWriter, r *http.Request, result CheckResult, recorder *AuditRecorder, resource rbac.Resource, action rbac.Action, handler Handler) {
	if !result.Authorized {
		WriteDenial(w, result.Denied)
		return
	}
	user := result.User

	rctx := &RouteContext{
		ClinicID:   ClinicIDFromQuery(r),
		ResourceID: mux.Vars(r)["id"],
	}

	sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
	handler(sw, r, user, rctx)

	if sw.status >= 200 && sw.status < 300 {
		recorder.Record(rbac.AuditEntry{
			UserID:     user.ID,
			UserRole:   user.Role,
			Action:     action,
			Resource:   resource,
			ResourceID: rctx.ResourceID,
			ClinicID:   rctx.ClinicID,
			IPAddress:  ClientIP(r),
			UserAgent:  UserAgent(r),
		})
	}
}

// statusWriter captures the status code written by a handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// ClientIP returns the client IP from X-Forwarded-For (first hop) or
// X-Real-IP, falling back to "unknown".
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return "unknown"
}

// UserAgent returns the request's User-Agent, falling back to "unknown".
func UserAgent(r *http.Request) string {
	if ua := r.Header.Get("User-Agent"); ua != "" {
		return ua
	}
	return "unknown"
}
