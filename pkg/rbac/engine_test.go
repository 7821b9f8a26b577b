package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatrixCoversEveryRole(t *testing.T) {
	matrix := DefaultMatrix()

	for _, role := range AllRoles {
		perms, ok := matrix[role]
		assert.True(t, ok, "role %s missing from matrix", role)
		assert.NotEmpty(t, perms, "role %s has no permissions", role)
	}
}

func TestDefaultMatrixOneEntryPerResource(t *testing.T) {
	matrix := DefaultMatrix()

	for role, perms := range matrix {
		seen := make(map[Resource]bool)
		for _, perm := range perms {
			assert.False(t, seen[perm.Resource],
				"role %s has duplicate entry for resource %s", role, perm.Resource)
			seen[perm.Resource] = true
			assert.NotEmpty(t, perm.Scope, "role %s resource %s has no scope", role, perm.Resource)
		}
	}
}

func TestPermissionsForRoleUnknownRole(t *testing.T) {
	engine := NewEngine(DefaultMatrix())

	perms := engine.PermissionsForRole(Role("Janitor"))
	assert.Empty(t, perms)
}

func TestHasPermissionUnlistedResourceIsDenied(t *testing.T) {
	engine := NewEngine(DefaultMatrix())

	// Pharmacy has no entry for system settings; every action must be denied.
	for _, action := range AllActions {
		assert.False(t, engine.HasPermission(RolePharmacy, ResourceSystemSettings, action),
			"Pharmacy should not %s system settings", action)
	}
}

func TestHasPermissionExhaustiveOverActions(t *testing.T) {
	engine := NewEngine(DefaultMatrix())
	matrix := DefaultMatrix()

	// For every defined permission, HasPermission must be true exactly for
	// the listed actions and false for every other action in the enum.
	for role, perms := range matrix {
		for _, perm := range perms {
			for _, action := range AllActions {
				want := perm.Allows(action)
				got := engine.HasPermission(role, perm.Resource, action)
				assert.Equal(t, want, got,
					"role=%s resource=%s action=%s", role, perm.Resource, action)
			}
		}
	}
}

func TestPermissionScopeAgreesWithHasPermission(t *testing.T) {
	engine := NewEngine(DefaultMatrix())

	// Scope lookup fails exactly when no action on the resource is allowed.
	resources := []Resource{
		ResourcePatient, ResourceEHR, ResourceInvoice, ResourceSystemSettings,
		ResourceDispensing, ResourceLabResult, ResourceAuditLog,
	}
	for _, role := range AllRoles {
		for _, resource := range resources {
			_, hasEntry := engine.PermissionScope(role, resource)

			anyAllowed := false
			for _, action := range AllActions {
				if engine.HasPermission(role, resource, action) {
					anyAllowed = true
					break
				}
			}
			assert.Equal(t, anyAllowed, hasEntry,
				"scope presence must match permission presence for role=%s resource=%s", role, resource)
		}
	}
}

func TestReceptionPatientExample(t *testing.T) {
	engine := NewEngine(DefaultMatrix())

	assert.True(t, engine.HasPermission(RoleReception, ResourcePatient, ActionCreate))

	scope, ok := engine.PermissionScope(RoleReception, ResourcePatient)
	require.True(t, ok)
	assert.Equal(t, ScopeClinic, scope)

	assert.False(t, engine.HasPermission(RoleReception, ResourcePatient, ActionDelete))
}

func TestCustomMatrixInjection(t *testing.T) {
	matrix := Matrix{
		RoleNurse: {
			{Resource: ResourceEHR, Actions: []Action{ActionRead}, Scope: ScopeOwn},
		},
	}
	engine := NewEngine(matrix)

	assert.True(t, engine.HasPermission(RoleNurse, ResourceEHR, ActionRead))
	assert.False(t, engine.HasPermission(RoleNurse, ResourceEHR, ActionUpdate))

	scope, ok := engine.PermissionScope(RoleNurse, ResourceEHR)
	require.True(t, ok)
	assert.Equal(t, ScopeOwn, scope)

	_, ok = engine.PermissionScope(RoleDoctor, ResourceEHR)
	assert.False(t, ok)
}

func TestGlobalAccessRoles(t *testing.T) {
	assert.True(t, HasGlobalAccess(RoleAdmin))
	assert.True(t, HasGlobalAccess(RoleDirector))
	assert.True(t, HasGlobalAccess(RoleOperational))

	for _, role := range ClinicSpecificRoles {
		assert.False(t, HasGlobalAccess(role), "%s should not have global access", role)
		assert.True(t, RequiresClinicAssignment(role))
	}
}

func TestSensitiveDataRoles(t *testing.T) {
	allowed := map[Role]bool{RoleAdmin: true, RoleDirector: true, RoleFinance: true}

	for _, role := range AllRoles {
		assert.Equal(t, allowed[role], CanAccessSensitiveData(role),
			"sensitive-data access for role %s", role)
	}

	// Operational has global access but is not on the sensitive allow-list.
	assert.True(t, HasGlobalAccess(RoleOperational))
	assert.False(t, CanAccessSensitiveData(RoleOperational))
}
