package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/faithledger/church_admin_app/internal/core/domain"
	portsrepo "github.com/faithledger/church_admin_app/internal/core/ports/repositories"
	portssvc "github.com/faithledger/church_admin_app/internal/core/ports/services"
	"github.com/faithledger/church_admin_app/internal/middleware"
)

// permissionService is the single capability oracle for the application.
// Every role check goes through it, so UI gating and chain authorization
// can never drift apart.
type permissionService struct {
	roleRepo portsrepo.RoleRepositoryFacade
}

// NewPermissionService creates a new PermissionService.
func NewPermissionService(roleRepo portsrepo.RoleRepositoryFacade) portssvc.PermissionSvcFacade {
	return &permissionService{roleRepo: roleRepo}
}

var _ portssvc.PermissionSvcFacade = (*permissionService)(nil)

// RolesOf returns every role assignment the user holds.
func (s *permissionService) RolesOf(ctx context.Context, userID string) ([]domain.UserRole, error) {
	roles, err := s.roleRepo.ListRolesByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles for user %s: %w", userID, err)
	}
	if roles == nil {
		return []domain.UserRole{}, nil
	}
	return roles, nil
}

// IsAdmin reports whether the user holds the admin role.
func (s *permissionService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	roles, err := s.RolesOf(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, r := range roles {
		if r.Role == domain.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

// HasOverride reports whether the user may act at any chain step regardless of
// level. Administrators carry blanket authority.
func (s *permissionService) HasOverride(ctx context.Context, userID string) (bool, error) {
	return s.IsAdmin(ctx, userID)
}

// CanCreateRequestForDepartment reports whether the user may raise requests for
// the department. Any role assignment touching the department qualifies, as
// does any church-wide role.
func (s *permissionService) CanCreateRequestForDepartment(ctx context.Context, userID string, departmentID string) (bool, error) {
	roles, err := s.RolesOf(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, r := range roles {
		if r.AppliesTo(departmentID) {
			return true, nil
		}
	}
	return false, nil
}

// CanApproveAtLevel reports whether the user may decide a step at the given
// level for a request belonging to the given department. Department-scoped
// roles only count when their scope matches the request's department.
func (s *permissionService) CanApproveAtLevel(ctx context.Context, userID string, level domain.ApprovalLevel, departmentID string) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	roles, err := s.RolesOf(ctx, userID)
	if err != nil {
		return false, err
	}

	required := domain.RoleForLevel(level)
	if required == "" {
		logger.Warn("Unknown approval level in capability check", slog.String("level", string(level)))
		return false, nil
	}

	for _, r := range roles {
		if r.Role == domain.RoleAdmin {
			return true, nil
		}
		if r.Role == required && r.AppliesTo(departmentID) {
			return true, nil
		}
	}
	return false, nil
}
