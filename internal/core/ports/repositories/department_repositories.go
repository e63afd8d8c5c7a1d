package repositories

import (
	"context"
	"time"

	"github.com/faithledger/church_admin_app/internal/core/domain"
)

// DepartmentReader defines read operations for department data
type DepartmentReader interface {
	// FindDepartmentByID retrieves a specific department by its ID.
	FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error)

	// ListDepartments retrieves all non-deleted departments.
	ListDepartments(ctx context.Context, includeInactive bool) ([]domain.Department, error)
}

// DepartmentWriter defines write operations for department data
type DepartmentWriter interface {
	// SaveDepartment persists a new department.
	SaveDepartment(ctx context.Context, department domain.Department) error

	// UpdateDepartment updates an existing department's details.
	UpdateDepartment(ctx context.Context, department domain.Department) error

	// MarkDepartmentDeleted marks a department as deleted (soft delete).
	MarkDepartmentDeleted(ctx context.Context, departmentID string, deletedAt time.Time, deletedBy string) error
}

// DepartmentRepositoryFacade combines all department-related repository interfaces
type DepartmentRepositoryFacade interface {
	DepartmentReader
	DepartmentWriter
}

// RoleReader defines read operations for role assignments.
type RoleReader interface {
	// ListRolesByUserID retrieves all role assignments held by a user.
	ListRolesByUserID(ctx context.Context, userID string) ([]domain.UserRole, error)

	// ListUsersByRole retrieves the user IDs holding a role, optionally scoped
	// to one department (nil matches church-wide assignments only).
	ListUsersByRole(ctx context.Context, role domain.Role, departmentID *string) ([]string, error)
}

// RoleWriter defines write operations for role assignments.
type RoleWriter interface {
	// AssignRole persists a role assignment.
	AssignRole(ctx context.Context, assignment domain.UserRole) error

	// RemoveRole deletes a role assignment.
	RemoveRole(ctx context.Context, assignment domain.UserRole) error
}

// RoleRepositoryFacade combines role assignment repository interfaces
type RoleRepositoryFacade interface {
	RoleReader
	RoleWriter
}
