package rbac

// DefaultMatrix builds the role permission matrix for the clinic admin
// system. Every role has exactly one entry per resource; the engine relies
// on that when resolving scopes.
func DefaultMatrix() Matrix {
	return Matrix{
		// Admin: full system access.
		RoleAdmin: {
			{Resource: ResourcePatient, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}, Scope: ScopeGlobal},
			{Resource: ResourcePatientPhoto, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}, Scope: ScopeGlobal},
			{Resource: ResourcePatientPassport, Actions: []Action{ActionCreate, ActionRead, ActionReadSensitive, ActionUpdate, ActionDelete}, Scope: ScopeGlobal},
			{Resource: ResourceEHR, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}, Scope: ScopeGlobal},
			{Resource: ResourceConsultation, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}, Scope: ScopeGlobal},
			{Resource: ResourcePrescription, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}, Scope: ScopeGlobal},
			{Resource: ResourceLabOrder, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}, Scope: ScopeGlobal},
			{Resource: ResourceRadiologyOrder, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}, Scope: ScopeGlobal},
			{Resource: ResourceAppointment, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}, Scope: ScopeGlobal},
			{Resource: ResourceUser, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}, Scope: ScopeGlobal},
			{Resource: ResourceClinic, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}, Scope: ScopeGlobal},
			{Resource: ResourceTemplate, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}, Scope: ScopeGlobal},
			{Resource: ResourceInvoice, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}, Scope: ScopeGlobal},
			{Resource: ResourcePayment, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}, Scope: ScopeGlobal},
			{Resource: ResourcePricelist, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}, Scope: ScopeGlobal},
			{Resource: ResourceInsuranceClaim, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}, Scope: ScopeGlobal},
			{Resource: ResourceFinancialReport, Actions: []Action{ActionRead, ActionExport}, Scope: ScopeGlobal},
			{Resource: ResourceAuditLog, Actions: []Action{ActionRead, ActionExport}, Scope: ScopeGlobal},
			{Resource: ResourceSystemSettings, Actions: []Action{ActionRead, ActionUpdate}, Scope: ScopeGlobal},
		},

		// Director: management and reporting, read-mostly.
		RoleDirector: {
			{Resource: ResourcePatient, Actions: []Action{ActionRead}, Scope: ScopeGlobal},
			{Resource: ResourcePatientPassport, Actions: []Action{ActionRead, ActionReadSensitive}, Scope: ScopeGlobal},
			{Resource: ResourceEHR, Actions: []Action{ActionRead}, Scope: ScopeGlobal},
			{Resource: ResourceConsultation, Actions: []Action{ActionRead}, Scope: ScopeGlobal},
			{Resource: ResourceAppointment, Actions: []Action{ActionRead}, Scope: ScopeGlobal},
			{Resource: ResourceUser, Actions: []Action{ActionRead}, Scope: ScopeGlobal},
			{Resource: ResourceClinic, Actions: []Action{ActionRead, ActionUpdate}, Scope: ScopeGlobal},
			{Resource: ResourceTemplate, Actions: []Action{ActionRead, ActionCreate, ActionUpdate}, Scope: ScopeGlobal},
			{Resource: ResourceInvoice, Actions: []Action{ActionRead}, Scope: ScopeGlobal},
			{Resource: ResourceFinancialReport, Actions: []Action{ActionRead, ActionExport}, Scope: ScopeGlobal},
			{Resource: ResourcePricelist, Actions: []Action{ActionRead, ActionUpdate}, Scope: ScopeGlobal},
			{Resource: ResourceAuditLog, Actions: []Action{ActionRead, ActionExport}, Scope: ScopeGlobal},
		},

		// Operational: cross-clinic scheduling and patient coordination.
		RoleOperational: {
			{Resource: ResourcePatient, Actions: []Action{ActionRead, ActionUpdate}, Scope: ScopeGlobal},
			{Resource: ResourceAppointment, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}, Scope: ScopeGlobal},
			{Resource: ResourceClinic, Actions: []Action{ActionRead}, Scope: ScopeGlobal},
			{Resource: ResourceTemplate, Actions: []Action{ActionRead}, Scope: ScopeGlobal},
			{Resource: ResourceUser, Actions: []Action{ActionRead}, Scope: ScopeGlobal},
		},

		// Doctor: clinical operations within assigned clinics.
		RoleDoctor: {
			{Resource: ResourcePatient, Actions: []Action{ActionCreate, ActionRead, ActionUpdate}, Scope: ScopeClinic},
			{Resource: ResourcePatientPhoto, Actions: []Action{ActionRead}, Scope: ScopeClinic},
			{Resource: ResourceEHR, Actions: []Action{ActionCreate, ActionRead, ActionUpdate}, Scope: ScopeClinic},
			{Resource: ResourceConsultation, Actions: []Action{ActionCreate, ActionRead, ActionUpdate}, Scope: ScopeClinic},
			{Resource: ResourcePrescription, Actions: []Action{ActionCreate, ActionRead, ActionUpdate}, Scope: ScopeClinic},
			{Resource: ResourceLabOrder, Actions: []Action{ActionCreate, ActionRead}, Scope: ScopeClinic},
			{Resource: ResourceRadiologyOrder, Actions: []Action{ActionCreate, ActionRead}, Scope: ScopeClinic},
			{Resource: ResourceLabResult, Actions: []Action{ActionRead}, Scope: ScopeClinic},
			{Resource: ResourceRadiologyResult, Actions: []Action{ActionRead}, Scope: ScopeClinic},
			{Resource: ResourceAppointment, Actions: []Action{ActionRead, ActionUpdate}, Scope: ScopeClinic},
			{Resource: ResourceTemplate, Actions: []Action{ActionRead}, Scope: ScopeClinic},
		},

		// Nurse: patient care and vitals.
		RoleNurse: {
			{Resource: ResourcePatient, Actions: []Action{ActionRead, ActionUpdate}, Scope: ScopeClinic},
			{Resource: ResourcePatientPhoto, Actions: []Action{ActionRead}, Scope: ScopeClinic},
			{Resource: ResourceEHR, Actions: []Action{ActionRead, ActionUpdate}, Scope: ScopeClinic},
			{Resource: ResourceConsultation, Actions: []Action{ActionRead}, Scope: ScopeClinic},
			{Resource: ResourcePrescription, Actions: []Action{ActionRead}, Scope: ScopeClinic},
			{Resource: ResourceLabOrder, Actions: []Action{ActionRead}, Scope: ScopeClinic},
			{Resource: ResourceRadiologyOrder, Actions: []Action{ActionRead}, Scope: ScopeClinic},
			{Resource: ResourceAppointment, Actions: []Action{ActionRead, ActionUpdate}, Scope: ScopeClinic},
		},

		// Reception: front desk operations.
		RoleReception: {
			{Resource: ResourcePatient, Actions: []Action{ActionCreate, ActionRead, ActionUpdate}, Scope: ScopeClinic},
			{Resource: ResourcePatientPhoto, Actions: []Action{ActionCreate, ActionRead, ActionUpdate}, Scope: ScopeClinic},
			{Resource: ResourceAppointment, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}, Scope: ScopeClinic},
			{Resource: ResourceInvoice, Actions: []Action{ActionCreate, ActionRead}, Scope: ScopeClinic},
			{Resource: ResourcePayment, Actions: []Action{ActionCreate, ActionRead}, Scope: ScopeClinic},
		},

		// Finance: billing and financial operations.
		RoleFinance: {
			{Resource: ResourcePatient, Actions: []Action{ActionRead}, Scope: ScopeClinic},
			{Resource: ResourcePatientPassport, Actions: []Action{ActionRead, ActionReadSensitive}, Scope: ScopeClinic},
			{Resource: ResourceInvoice, Actions: []Action{ActionCreate, ActionRead, ActionUpdate}, Scope: ScopeClinic},
			{Resource: ResourcePayment, Actions: []Action{ActionCreate, ActionRead, ActionUpdate}, Scope: ScopeClinic},
			{Resource: ResourcePricelist, Actions: []Action{ActionRead, ActionUpdate}, Scope: ScopeClinic},
			{Resource: ResourceInsuranceClaim, Actions: []Action{ActionCreate, ActionRead, ActionUpdate}, Scope: ScopeClinic},
			{Resource: ResourceFinancialReport, Actions: []Action{ActionRead, ActionExport}, Scope: ScopeClinic},
		},

		// Laboratory: lab orders and results.
		RoleLaboratory: {
			{Resource: ResourcePatient, Actions: []Action{ActionRead}, Scope: ScopeClinic},
			{Resource: ResourceLabOrder, Actions: []Action{ActionRead, ActionUpdate}, Scope: ScopeClinic},
			{Resource: ResourceLabResult, Actions: []Action{ActionCreate, ActionRead, ActionUpdate}, Scope: ScopeClinic},
			{Resource: ResourceLabInventory, Actions: []Action{ActionRead, ActionUpdate}, Scope: ScopeClinic},
		},

		// Radiology: imaging orders and results.
		RoleRadiology: {
			{Resource: ResourcePatient, Actions: []Action{ActionRead}, Scope: ScopeClinic},
			{Resource: ResourceRadiologyOrder, Actions: []Action{ActionRead, ActionUpdate}, Scope: ScopeClinic},
			{Resource: ResourceRadiologyResult, Actions: []Action{ActionCreate, ActionRead, ActionUpdate}, Scope: ScopeClinic},
			{Resource: ResourceRadiologyImage, Actions: []Action{ActionCreate, ActionRead, ActionUpdate}, Scope: ScopeClinic},
		},

		// Pharmacy: medication dispensing.
		RolePharmacy: {
			{Resource: ResourcePatient, Actions: []Action{ActionRead}, Scope: ScopeClinic},
			{Resource: ResourcePrescription, Actions: []Action{ActionRead}, Scope: ScopeClinic},
			{Resource: ResourceMedication, Actions: []Action{ActionRead, ActionUpdate}, Scope: ScopeClinic},
			{Resource: ResourcePharmacyInventory, Actions: []Action{ActionRead, ActionUpdate}, Scope: ScopeClinic},
			{Resource: ResourceDispensing, Actions: []Action{ActionCreate, ActionRead}, Scope: ScopeClinic},
		},
	}
}
