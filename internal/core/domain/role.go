package domain

// Role identifies a capability-granting position a user holds, either church-wide
// or scoped to a single department.
type Role string

const (
	// RoleAdmin may act at any approval level and manage configuration.
	RoleAdmin Role = "ADMIN"
	// Church-wide approval roles.
	RoleFinanceElder     Role = "FINANCE_ELDER"
	RoleGeneralSecretary Role = "GENERAL_SECRETARY"
	RolePastor           Role = "PASTOR"
	// Department-scoped approval roles.
	RoleDepartmentTreasurer Role = "DEPARTMENT_TREASURER"
	RoleHeadOfDepartment    Role = "HEAD_OF_DEPARTMENT"
	// RoleMember has no approval authority.
	RoleMember Role = "MEMBER"
)

// IsDepartmentScoped reports whether assignments of this role are bound to a
// specific department.
func (r Role) IsDepartmentScoped() bool {
	return r == RoleDepartmentTreasurer || r == RoleHeadOfDepartment
}

// UserRole is one role assignment for a user. DepartmentID is nil for
// church-wide roles and required for department-scoped ones.
type UserRole struct {
	UserID       string  `json:"userID"`
	Role         Role    `json:"role"`
	DepartmentID *string `json:"departmentID,omitempty"`
}

// AppliesTo reports whether this assignment grants authority for the given
// department. Church-wide assignments apply everywhere.
func (ur UserRole) AppliesTo(departmentID string) bool {
	if !ur.Role.IsDepartmentScoped() {
		return true
	}
	return ur.DepartmentID != nil && *ur.DepartmentID == departmentID
}
