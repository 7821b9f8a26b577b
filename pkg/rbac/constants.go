package rbac

// Role identifies a principal category. The set is fixed at process start.
type Role string

const (
	RoleAdmin       Role = "Admin"
	RoleDirector    Role = "Director"
	RoleOperational Role = "Operational"
	RoleDoctor      Role = "Doctor"
	RoleNurse       Role = "Nurse"
	RoleReception   Role = "Reception"
	RoleFinance     Role = "Finance"
	RoleLaboratory  Role = "Laboratory"
	RoleRadiology   Role = "Radiology"
	RolePharmacy    Role = "Pharmacy"
)

// AllRoles lists every role defined in the system.
var AllRoles = []Role{
	RoleAdmin,
	RoleDirector,
	RoleOperational,
	RoleDoctor,
	RoleNurse,
	RoleReception,
	RoleFinance,
	RoleLaboratory,
	RoleRadiology,
	RolePharmacy,
}

// Resource identifies a protectable entity type.
type Resource string

const (
	// Patient management
	ResourcePatient         Resource = "patient"
	ResourcePatientPhoto    Resource = "patient_photo"
	ResourcePatientPassport Resource = "patient_passport"

	// Clinical
	ResourceEHR            Resource = "ehr"
	ResourceConsultation   Resource = "consultation"
	ResourcePrescription   Resource = "prescription"
	ResourceLabOrder       Resource = "lab_order"
	ResourceRadiologyOrder Resource = "radiology_order"

	// Administrative
	ResourceAppointment Resource = "appointment"
	ResourceUser        Resource = "user"
	ResourceClinic      Resource = "clinic"
	ResourceTemplate    Resource = "template"

	// Financial
	ResourceInvoice         Resource = "invoice"
	ResourcePayment         Resource = "payment"
	ResourcePricelist       Resource = "pricelist"
	ResourceInsuranceClaim  Resource = "insurance_claim"
	ResourceFinancialReport Resource = "financial_report"

	// Laboratory
	ResourceLabResult    Resource = "lab_result"
	ResourceLabInventory Resource = "lab_inventory"

	// Radiology
	ResourceRadiologyResult Resource = "radiology_result"
	ResourceRadiologyImage  Resource = "radiology_image"

	// Pharmacy
	ResourceMedication        Resource = "medication"
	ResourcePharmacyInventory Resource = "pharmacy_inventory"
	ResourceDispensing        Resource = "dispensing"

	// System
	ResourceAuditLog       Resource = "audit_log"
	ResourceSystemSettings Resource = "system_settings"
)

// Action identifies an operation performed on a resource.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"

	// Special actions
	ActionReadSensitive Action = "read_sensitive" // passport/ID scans
	ActionApprove       Action = "approve"
	ActionExport        Action = "export"
	ActionPrint         Action = "print"
)

// AllActions lists every action defined in the system.
var AllActions = []Action{
	ActionCreate,
	ActionRead,
	ActionUpdate,
	ActionDelete,
	ActionReadSensitive,
	ActionApprove,
	ActionExport,
	ActionPrint,
}

// Scope denotes the breadth of data a permission grants access to.
type Scope string

const (
	// ScopeOwn restricts access to records the principal owns. Defined in
	// the vocabulary but not assigned by the default matrix.
	ScopeOwn Scope = "own"
	// ScopeClinic restricts access to records belonging to clinics the
	// principal is assigned to.
	ScopeClinic Scope = "clinic"
	// ScopeGlobal grants unrestricted access across all clinics.
	ScopeGlobal Scope = "global"
)

// GlobalAccessRoles can access every clinic and bypass clinic-scope checks.
var GlobalAccessRoles = []Role{
	RoleAdmin,
	RoleDirector,
	RoleOperational,
}

// ClinicSpecificRoles are restricted to their assigned clinics.
var ClinicSpecificRoles = []Role{
	RoleDoctor,
	RoleNurse,
	RoleReception,
	RoleFinance,
	RoleLaboratory,
	RoleRadiology,
	RolePharmacy,
}

// SensitiveDataRoles may read sensitive patient documents such as passport
// and ID scans. This allow-list is independent of the permission matrix.
var SensitiveDataRoles = []Role{
	RoleAdmin,
	RoleDirector,
	RoleFinance,
}

// HasGlobalAccess reports whether the role can access all clinics.
func HasGlobalAccess(role Role) bool {
	for _, r := range GlobalAccessRoles {
		if r == role {
			return true
		}
	}
	return false
}

// RequiresClinicAssignment reports whether the role is restricted to its
// assigned clinics.
func RequiresClinicAssignment(role Role) bool {
	for _, r := range ClinicSpecificRoles {
		if r == role {
			return true
		}
	}
	return false
}

// CanAccessSensitiveData reports whether the role is on the sensitive-data
// allow-list.
func CanAccessSensitiveData(role Role) bool {
	for _, r := range SensitiveDataRoles {
		if r == role {
			return true
		}
	}
	return false
}
