package domain

import "time"

// Department represents a ministry or organizational unit that can raise money
// requests and hold scoped roles (treasurer, head of department).
type Department struct {
	DepartmentID string `json:"departmentID"` // Primary Key (UUID)
	Name         string `json:"name"`
	Description  string `json:"description"`
	IsActive     bool   `json:"isActive"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}
