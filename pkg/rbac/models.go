package rbac

import "time"

// ConditionContext carries runtime facts a permission condition may inspect.
type ConditionContext struct {
	User       *SessionUser
	ResourceID string
	ClinicID   string
	Attributes map[string]string
}

// Condition is a boolean predicate evaluated against a request context.
// The default matrix defines no conditions; the model supports them for
// matrix extensions.
type Condition func(ctx *ConditionContext) bool

// Permission grants a set of actions on a resource within a data scope.
type Permission struct {
	Resource   Resource    `json:"resource"`
	Actions    []Action    `json:"actions"`
	Scope      Scope       `json:"scope"`
	Conditions []Condition `json:"-"`
}

// Allows reports whether the permission covers the given action.
func (p Permission) Allows(action Action) bool {
	for _, a := range p.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Matrix maps each role to its ordered list of permissions. It is built
// once at startup and never mutated afterwards.
type Matrix map[Role][]Permission

// UserPreferences holds locale and display settings carried on the session.
type UserPreferences struct {
	Language string `json:"language"`
	Theme    string `json:"theme"`
}

// SessionUser represents an authenticated principal for the duration of one
// request. It is produced by the session provider and read-only inside the
// authorization engine.
type SessionUser struct {
	ID              string          `json:"id"`
	Email           string          `json:"email"`
	Role            Role            `json:"role"`
	AssignedClinics []string        `json:"assignedClinics"`
	PrimaryClinic   string          `json:"primaryClinic,omitempty"`
	Preferences     UserPreferences `json:"preferences"`
}

// HasClinic reports whether the clinic is in the user's assigned list.
func (u *SessionUser) HasClinic(clinicID string) bool {
	for _, id := range u.AssignedClinics {
		if id == clinicID {
			return true
		}
	}
	return false
}

// AuditEntry records a successful mutating operation. Storage is delegated
// to the audit store collaborator.
type AuditEntry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	UserRole   Role      `json:"user_role"`
	Action     Action    `json:"action"`
	Resource   Resource  `json:"resource"`
	ResourceID string    `json:"resource_id,omitempty"`
	ClinicID   string    `json:"clinic_id,omitempty"`
	IPAddress  string    `json:"ip_address,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
