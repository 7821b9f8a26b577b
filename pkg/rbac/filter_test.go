package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildClinicFilterGlobalRole(t *testing.T) {
	user := &SessionUser{
		ID:              "u1",
		Role:            RoleDirector,
		AssignedClinics: []string{"c1"},
	}

	filter := BuildClinicFilter(user)
	assert.True(t, filter.Unrestricted)

	cond, args := filter.SQLCondition("primary_clinic", "assigned_clinic", 1)
	assert.Equal(t, "TRUE", cond)
	assert.Empty(t, args)
}

func TestBuildClinicFilterClinicRole(t *testing.T) {
	user := &SessionUser{
		ID:              "u2",
		Role:            RoleDoctor,
		AssignedClinics: []string{"c1", "c2"},
	}

	filter := BuildClinicFilter(user)
	require.False(t, filter.Unrestricted)
	assert.Equal(t, []string{"c1", "c2"}, filter.ClinicIDs)

	cond, args := filter.SQLCondition("primary_clinic", "assigned_clinic", 3)
	assert.Equal(t, "(primary_clinic = ANY($3) OR assigned_clinic = ANY($3))", cond)
	assert.Len(t, args, 1)
}

func TestBuildClinicFilterCopiesAssignedClinics(t *testing.T) {
	user := &SessionUser{
		ID:              "u3",
		Role:            RoleNurse,
		AssignedClinics: []string{"c1"},
	}

	filter := BuildClinicFilter(user)
	filter.ClinicIDs[0] = "mutated"
	assert.Equal(t, "c1", user.AssignedClinics[0])
}

func TestBuildClinicFilterNoAssignedClinics(t *testing.T) {
	user := &SessionUser{ID: "u4", Role: RolePharmacy}

	filter := BuildClinicFilter(user)
	assert.False(t, filter.Unrestricted)
	assert.Empty(t, filter.ClinicIDs)
}
