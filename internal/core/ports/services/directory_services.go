package services

import (
	"context"

	"github.com/faithledger/church_admin_app/internal/core/domain"
	"github.com/faithledger/church_admin_app/internal/dto"
)

// DepartmentSvcFacade defines department management operations.
type DepartmentSvcFacade interface {
	// CreateDepartment creates a new department.
	CreateDepartment(ctx context.Context, req dto.CreateDepartmentRequest, creatorUserID string) (*domain.Department, error)

	// GetDepartmentByID retrieves a department by ID.
	GetDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error)

	// ListDepartments retrieves all departments.
	ListDepartments(ctx context.Context, includeInactive bool) ([]domain.Department, error)

	// UpdateDepartment updates a department's details.
	UpdateDepartment(ctx context.Context, departmentID string, req dto.UpdateDepartmentRequest, requestingUserID string) (*domain.Department, error)

	// DeleteDepartment soft-deletes a department.
	DeleteDepartment(ctx context.Context, departmentID string, requestingUserID string) error

	// AssignRole grants a role, validating department scope requirements.
	AssignRole(ctx context.Context, req dto.AssignRoleRequest, requestingUserID string) error

	// RemoveRole revokes a role assignment.
	RemoveRole(ctx context.Context, req dto.AssignRoleRequest, requestingUserID string) error
}

// FundSvcFacade defines fund management operations.
type FundSvcFacade interface {
	// CreateFund creates a new fund.
	CreateFund(ctx context.Context, req dto.CreateFundRequest, creatorUserID string) (*domain.Fund, error)

	// GetFundByID retrieves a fund by ID.
	GetFundByID(ctx context.Context, fundID string) (*domain.Fund, error)

	// ListFunds retrieves all funds.
	ListFunds(ctx context.Context, includeInactive bool) ([]domain.Fund, error)

	// UpdateFund updates a fund's details.
	UpdateFund(ctx context.Context, fundID string, req dto.UpdateFundRequest, requestingUserID string) (*domain.Fund, error)
}

// ContributorSvcFacade defines contributor management operations.
type ContributorSvcFacade interface {
	// CreateContributor creates a new contributor.
	CreateContributor(ctx context.Context, req dto.CreateContributorRequest, creatorUserID string) (*domain.Contributor, error)

	// GetContributorByID retrieves a contributor by ID.
	GetContributorByID(ctx context.Context, contributorID string) (*domain.Contributor, error)

	// ListContributors retrieves a paginated list of contributors.
	ListContributors(ctx context.Context, limit, offset int) ([]domain.Contributor, error)

	// UpdateContributor updates a contributor's details.
	UpdateContributor(ctx context.Context, contributorID string, req dto.UpdateContributorRequest, requestingUserID string) (*domain.Contributor, error)

	// DeleteContributor soft-deletes a contributor.
	DeleteContributor(ctx context.Context, contributorID string, requestingUserID string) error
}
