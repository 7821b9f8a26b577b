package rbac

// Engine answers access questions against an immutable permission matrix.
// The matrix is injected at construction so tests can swap it; there is no
// package-level singleton.
type Engine struct {
	matrix Matrix
}

// NewEngine creates an engine backed by the given matrix. The engine never
// mutates the matrix and callers must not either.
func NewEngine(matrix Matrix) *Engine {
	return &Engine{matrix: matrix}
}

// PermissionsForRole returns the matrix entry for the role, or an empty
// list if none is defined. It never fails.
func (e *Engine) PermissionsForRole(role Role) []Permission {
	return e.matrix[role]
}

// HasPermission reports whether any of the role's permissions covers the
// given resource and action. Linear scan; the matrix holds tens of entries
// per role at most.
func (e *Engine) HasPermission(role Role, resource Resource, action Action) bool {
	for _, perm := range e.matrix[role] {
		if perm.Resource == resource && perm.Allows(action) {
			return true
		}
	}
	return false
}

// PermissionScope returns the data scope of the role's permission on the
// resource. The second return value is false when the role has no
// permission entry for the resource at all.
//
// The matrix holds at most one entry per (role, resource) pair; if it were
// ever extended with duplicates, the first match wins.
func (e *Engine) PermissionScope(role Role, resource Resource) (Scope, bool) {
	for _, perm := range e.matrix[role] {
		if perm.Resource == resource {
			return perm.Scope, true
		}
	}
	return "", false
}
