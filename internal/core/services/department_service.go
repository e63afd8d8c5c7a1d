package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/faithledger/church_admin_app/internal/apperrors"
	"github.com/faithledger/church_admin_app/internal/core/domain"
	"github.com/faithledger/church_admin_app/internal/dto"
	portsrepo "github.com/faithledger/church_admin_app/internal/core/ports/repositories"
	portssvc "github.com/faithledger/church_admin_app/internal/core/ports/services"
	"github.com/faithledger/church_admin_app/internal/middleware"
	"github.com/google/uuid"
)

// DepartmentService handles business logic for departments and the role
// assignments scoped to them.
type DepartmentService struct {
	departmentRepo portsrepo.DepartmentRepositoryFacade
	roleRepo       portsrepo.RoleRepositoryFacade
	userRepo       portsrepo.UserRepositoryFacade
	permissionSvc  portssvc.PermissionSvcFacade
}

// NewDepartmentService creates a new DepartmentService.
func NewDepartmentService(dr portsrepo.DepartmentRepositoryFacade, rr portsrepo.RoleRepositoryFacade, ur portsrepo.UserRepositoryFacade, ps portssvc.PermissionSvcFacade) *DepartmentService {
	return &DepartmentService{
		departmentRepo: dr,
		roleRepo:       rr,
		userRepo:       ur,
		permissionSvc:  ps,
	}
}

// Ensure DepartmentService implements the facade interface
var _ portssvc.DepartmentSvcFacade = (*DepartmentService)(nil)

// CreateDepartment creates a new department. Admin only.
func (s *DepartmentService) CreateDepartment(ctx context.Context, req dto.CreateDepartmentRequest, creatorUserID string) (*domain.Department, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, creatorUserID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	department := domain.Department{
		DepartmentID: uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.departmentRepo.SaveDepartment(ctx, department); err != nil {
		logger.Error("Failed to save department", slog.String("error", err.Error()), slog.String("department_name", req.Name))
		return nil, fmt.Errorf("failed to create department: %w", err)
	}

	logger.Info("Department created", slog.String("department_id", department.DepartmentID), slog.String("created_by", creatorUserID))
	return &department, nil
}

// GetDepartmentByID retrieves a department by ID.
func (s *DepartmentService) GetDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error) {
	department, err := s.departmentRepo.FindDepartmentByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find department %s: %w", departmentID, err)
	}
	return department, nil
}

// ListDepartments retrieves all departments.
func (s *DepartmentService) ListDepartments(ctx context.Context, includeInactive bool) ([]domain.Department, error) {
	departments, err := s.departmentRepo.ListDepartments(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

// UpdateDepartment updates a department's details. Admin only.
func (s *DepartmentService) UpdateDepartment(ctx context.Context, departmentID string, req dto.UpdateDepartmentRequest, requestingUserID string) (*domain.Department, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, requestingUserID); err != nil {
		return nil, err
	}

	department, err := s.departmentRepo.FindDepartmentByID(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		department.Name = *req.Name
	}
	if req.Description != nil {
		department.Description = *req.Description
	}
	if req.IsActive != nil {
		department.IsActive = *req.IsActive
	}
	now := time.Now().UTC()
	department.LastUpdatedAt = now
	department.LastUpdatedBy = requestingUserID

	if err := s.departmentRepo.UpdateDepartment(ctx, *department); err != nil {
		logger.Error("Failed to update department", slog.String("error", err.Error()), slog.String("department_id", departmentID))
		return nil, fmt.Errorf("failed to update department: %w", err)
	}
	return department, nil
}

// DeleteDepartment soft-deletes a department. Admin only.
func (s *DepartmentService) DeleteDepartment(ctx context.Context, departmentID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, requestingUserID); err != nil {
		return err
	}

	if _, err := s.departmentRepo.FindDepartmentByID(ctx, departmentID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.departmentRepo.MarkDepartmentDeleted(ctx, departmentID, now, requestingUserID); err != nil {
		logger.Error("Failed to mark department deleted", slog.String("error", err.Error()), slog.String("department_id", departmentID))
		return fmt.Errorf("failed to delete department: %w", err)
	}

	logger.Info("Department deleted", slog.String("department_id", departmentID), slog.String("deleted_by", requestingUserID))
	return nil
}

// AssignRole grants a role to a user. Department-scoped roles require a
// department; church-wide roles must not carry one. Admin only.
func (s *DepartmentService) AssignRole(ctx context.Context, req dto.AssignRoleRequest, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, requestingUserID); err != nil {
		return err
	}

	assignment, err := s.validateRoleAssignment(ctx, req)
	if err != nil {
		return err
	}

	if err := s.roleRepo.AssignRole(ctx, *assignment); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return fmt.Errorf("%w: role already assigned", apperrors.ErrDuplicate)
		}
		logger.Error("Failed to assign role", slog.String("error", err.Error()), slog.String("target_user_id", req.UserID), slog.String("role", req.Role))
		return fmt.Errorf("failed to assign role: %w", err)
	}

	logger.Info("Role assigned",
		slog.String("target_user_id", req.UserID),
		slog.String("role", req.Role),
		slog.String("assigned_by", requestingUserID))
	return nil
}

// RemoveRole revokes a role assignment. Admin only.
func (s *DepartmentService) RemoveRole(ctx context.Context, req dto.AssignRoleRequest, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, requestingUserID); err != nil {
		return err
	}

	assignment := domain.UserRole{
		UserID:       req.UserID,
		Role:         domain.Role(req.Role),
		DepartmentID: req.DepartmentID,
	}
	if err := s.roleRepo.RemoveRole(ctx, assignment); err != nil {
		logger.Error("Failed to remove role", slog.String("error", err.Error()), slog.String("target_user_id", req.UserID), slog.String("role", req.Role))
		return fmt.Errorf("failed to remove role: %w", err)
	}

	logger.Info("Role removed",
		slog.String("target_user_id", req.UserID),
		slog.String("role", req.Role),
		slog.String("removed_by", requestingUserID))
	return nil
}

func (s *DepartmentService) validateRoleAssignment(ctx context.Context, req dto.AssignRoleRequest) (*domain.UserRole, error) {
	role := domain.Role(req.Role)
	switch role {
	case domain.RoleAdmin, domain.RoleFinanceElder, domain.RoleGeneralSecretary, domain.RolePastor,
		domain.RoleDepartmentTreasurer, domain.RoleHeadOfDepartment, domain.RoleMember:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, req.Role)
	}

	if role.IsDepartmentScoped() {
		if req.DepartmentID == nil {
			return nil, fmt.Errorf("%w: role %s requires a department", apperrors.ErrValidation, role)
		}
		if _, err := s.departmentRepo.FindDepartmentByID(ctx, *req.DepartmentID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: department %s not found", apperrors.ErrValidation, *req.DepartmentID)
			}
			return nil, fmt.Errorf("failed to validate department: %w", err)
		}
	} else if req.DepartmentID != nil {
		return nil, fmt.Errorf("%w: role %s is church-wide and takes no department", apperrors.ErrValidation, role)
	}

	if _, err := s.userRepo.FindUserByID(ctx, req.UserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s not found", apperrors.ErrValidation, req.UserID)
		}
		return nil, fmt.Errorf("failed to validate user: %w", err)
	}

	return &domain.UserRole{
		UserID:       req.UserID,
		Role:         role,
		DepartmentID: req.DepartmentID,
	}, nil
}

func (s *DepartmentService) requireAdmin(ctx context.Context, userID string) error {
	isAdmin, err := s.permissionSvc.IsAdmin(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check admin permission: %w", err)
	}
	if !isAdmin {
		return fmt.Errorf("%w: only administrators manage departments and roles", apperrors.ErrForbidden)
	}
	return nil
}
