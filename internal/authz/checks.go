package authz

import (
	"net/http"

	"github.com/clinicore/clinic-admin/pkg/logger"
	"github.com/clinicore/clinic-admin/pkg/rbac"
)

// SessionResolver resolves the authenticated principal for a request.
// Implementations talk to the session provider; a nil user or an error
// both mean "unauthenticated". The resolver is never retried.
type SessionResolver interface {
	Resolve(r *http.Request) (*rbac.SessionUser, error)
}

// DenialBody is the JSON body of a denial response. Optional fields are
// populated per denial scenario.
type DenialBody struct {
	Error         string        `json:"error"`
	RequiredRoles []rbac.Role   `json:"requiredRoles,omitempty"`
	UserRole      rbac.Role     `json:"userRole,omitempty"`
	Resource      rbac.Resource `json:"resource,omitempty"`
	Action        rbac.Action   `json:"action,omitempty"`
	ClinicID      string        `json:"clinicId,omitempty"`
}

// Denial is a pre-built denial response. Denials are terminal for the
// request and surfaced verbatim to the client.
type Denial struct {
	Status int
	Body   DenialBody
}

// CheckResult is the uniform outcome of every authorization check:
// either an authenticated user or a denial, never both.
type CheckResult struct {
	Authorized bool
	User       *rbac.SessionUser
	Denied     *Denial
}

func authorized(user *rbac.SessionUser) CheckResult {
	return CheckResult{Authorized: true, User: user}
}

func denied(status int, body DenialBody) CheckResult {
	return CheckResult{Denied: &Denial{Status: status, Body: body}}
}

// Authorizer combines the session provider with the RBAC engine to gate
// HTTP handlers. All checks are pure decisions over the request's session
// and the static matrix; none mutates state.
type Authorizer struct {
	sessions SessionResolver
	engine   *rbac.Engine
	logger   *logger.Logger
}

// NewAuthorizer creates an authorizer backed by the given collaborators.
func NewAuthorizer(sessions SessionResolver, engine *rbac.Engine, log *logger.Logger) *Authorizer {
	return &Authorizer{
		sessions: sessions,
		engine:   engine,
		logger:   log,
	}
}

// RequireAuth resolves the session from the request. A missing or invalid
// session denies with 401.
func (a *Authorizer) RequireAuth(r *http.Request) CheckResult {
	user, err := a.sessions.Resolve(r)
	if err != nil || user == nil {
		if err != nil {
			a.logger.WithError(err).Debug("Session resolution failed")
		}
		return denied(http.StatusUnauthorized, DenialBody{
			Error: "Unauthorized - Please login",
		})
	}
	return authorized(user)
}

// RequireRole checks that the session's role is one of the allowed roles.
func (a *Authorizer) RequireRole(r *http.Request, allowedRoles []rbac.Role) CheckResult {
	result := a.RequireAuth(r)
	if !result.Authorized {
		return result
	}
	user := result.User

	for _, role := range allowedRoles {
		if user.Role == role {
			return authorized(user)
		}
	}

	recordDecision(string(user.Role), "", "", false)
	return denied(http.StatusForbidden, DenialBody{
		Error:         "Forbidden - Insufficient permissions",
		RequiredRoles: allowedRoles,
		UserRole:      user.Role,
	})
}

// RequirePermission checks the session's role against the permission
// matrix for the given resource and action.
func (a *Authorizer) RequirePermission(r *http.Request, resource rbac.Resource, action rbac.Action) CheckResult {
	result := a.RequireAuth(r)
	if !result.Authorized {
		return result
	}
	user := result.User

	allowed := a.engine.HasPermission(user.Role, resource, action)
	a.logger.AccessDecision(user.ID, string(user.Role), string(resource), string(action), allowed)
	recordDecision(string(user.Role), string(resource), string(action), allowed)

	if !allowed {
		return denied(http.StatusForbidden, DenialBody{
			Error:    "Forbidden - You don't have permission for this action",
			Resource: resource,
			Action:   action,
			UserRole: user.Role,
		})
	}
	return authorized(user)
}

// RequireClinicAccess checks that the session may act on the target
// clinic. Global-access roles pass unconditionally; other roles must have
// the clinic in their assigned list.
func (a *Authorizer) RequireClinicAccess(r *http.Request, clinicID string) CheckResult {
	result := a.RequireAuth(r)
	if !result.Authorized {
		return result
	}
	user := result.User

	if rbac.HasGlobalAccess(user.Role) {
		return authorized(user)
	}

	if !user.HasClinic(clinicID) {
		a.logger.WithFields(map[string]interface{}{
			"user_id":   user.ID,
			"role":      user.Role,
			"clinic_id": clinicID,
		}).Warn("Clinic access denied")
		return denied(http.StatusForbidden, DenialBody{
			Error:    "Forbidden - You don't have access to this clinic",
			ClinicID: clinicID,
		})
	}
	return authorized(user)
}

// RequirePermissionAndClinicAccess runs the permission check first, then
// the clinic-access check, returning the first denial encountered.
func (a *Authorizer) RequirePermissionAndClinicAccess(r *http.Request, resource rbac.Resource, action rbac.Action, clinicID string) CheckResult {
	result := a.RequirePermission(r, resource, action)
	if !result.Authorized {
		return result
	}
	return a.RequireClinicAccess(r, clinicID)
}

// CanAccessSensitiveData checks the fixed sensitive-data allow-list
// (passport and ID scans). Independent of the permission matrix.
func (a *Authorizer) CanAccessSensitiveData(r *http.Request) CheckResult {
	result := a.RequireAuth(r)
	if !result.Authorized {
		return result
	}
	user := result.User

	if !rbac.CanAccessSensitiveData(user.Role) {
		return denied(http.StatusForbidden, DenialBody{
			Error:    "Forbidden - Access to sensitive data requires Admin, Director, or Finance role",
			UserRole: user.Role,
		})
	}
	return authorized(user)
}
