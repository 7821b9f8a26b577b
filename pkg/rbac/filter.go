package rbac

import (
	"fmt"

	"github.com/lib/pq"
)

// ClinicFilter expresses "records this principal may see" as a query
// restriction. It is a pure function of the session; the persistence layer
// applies it.
type ClinicFilter struct {
	// Unrestricted is true for global-access roles: no clinic predicate
	// narrows the result set.
	Unrestricted bool
	// ClinicIDs are the principal's assigned clinics, matched against the
	// record's primary or assigned clinic.
	ClinicIDs []string
}

// BuildClinicFilter translates a session into a clinic filter.
// Global-access roles see everything; clinic-specific roles see records
// whose primary or assigned clinic is one of their assigned clinics.
func BuildClinicFilter(user *SessionUser) ClinicFilter {
	if HasGlobalAccess(user.Role) {
		return ClinicFilter{Unrestricted: true}
	}
	ids := make([]string, len(user.AssignedClinics))
	copy(ids, user.AssignedClinics)
	return ClinicFilter{ClinicIDs: ids}
}

// SQLCondition renders the filter as a WHERE fragment for the given
// primary/assigned clinic columns, with its bind argument. An unrestricted
// filter renders as an always-true condition and no arguments.
//
// Placeholder numbering starts at argIndex so the fragment composes with
// surrounding query conditions.
func (f ClinicFilter) SQLCondition(primaryCol, assignedCol string, argIndex int) (string, []interface{}) {
	if f.Unrestricted {
		return "TRUE", nil
	}
	cond := fmt.Sprintf("(%s = ANY($%d) OR %s = ANY($%d))", primaryCol, argIndex, assignedCol, argIndex)
	return cond, []interface{}{pq.Array(f.ClinicIDs)}
}
