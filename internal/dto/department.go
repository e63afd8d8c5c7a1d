package dto

import (
	"time"

	"github.com/faithledger/church_admin_app/internal/core/domain"
)

// CreateDepartmentRequest defines data for creating a new department.
type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateDepartmentRequest defines updatable department fields.
type UpdateDepartmentRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// AssignRoleRequest defines data for granting or revoking a role.
// DepartmentID is required for department-scoped roles.
type AssignRoleRequest struct {
	UserID       string  `json:"userID" binding:"required"`
	Role         string  `json:"role" binding:"required"`
	DepartmentID *string `json:"departmentID"`
}

// DepartmentResponse defines data returned for a department.
type DepartmentResponse struct {
	DepartmentID string    `json:"departmentID"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	CreatedBy    string    `json:"createdBy"`
}

// ToDepartmentResponse converts domain.Department to DTO.
func ToDepartmentResponse(d *domain.Department) DepartmentResponse {
	return DepartmentResponse{
		DepartmentID: d.DepartmentID,
		Name:         d.Name,
		Description:  d.Description,
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt,
		CreatedBy:    d.CreatedBy,
	}
}

// ListDepartmentsResponse wraps a list of departments.
type ListDepartmentsResponse struct {
	Departments []DepartmentResponse `json:"departments"`
}

// ToListDepartmentsResponse converts a slice of domain.Department to DTO.
func ToListDepartmentsResponse(ds []domain.Department) ListDepartmentsResponse {
	list := make([]DepartmentResponse, len(ds))
	for i, d := range ds {
		list[i] = ToDepartmentResponse(&d)
	}
	return ListDepartmentsResponse{Departments: list}
}
