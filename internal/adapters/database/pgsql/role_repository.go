package pgsql

import (
	"context"
	"fmt"

	"github.com/faithledger/church_admin_app/internal/apperrors"
	"github.com/faithledger/church_admin_app/internal/core/domain"
	portsrepo "github.com/faithledger/church_admin_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRoleRepository struct {
	BaseRepository
}

func newPgxRoleRepository(db *pgxpool.Pool) portsrepo.RoleRepositoryFacade {
	return &PgxRoleRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxRoleRepository implements portsrepo.RoleRepositoryFacade
var _ portsrepo.RoleRepositoryFacade = (*PgxRoleRepository)(nil)

func (r *PgxRoleRepository) ListRolesByUserID(ctx context.Context, userID string) ([]domain.UserRole, error) {
	query := `
        SELECT user_id, role, department_id
        FROM user_roles
        WHERE user_id = $1;
    `
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles for user %s: %w", userID, err)
	}
	defer rows.Close()

	roles := []domain.UserRole{}
	for rows.Next() {
		var ur domain.UserRole
		if err := rows.Scan(&ur.UserID, &ur.Role, &ur.DepartmentID); err != nil {
			return nil, fmt.Errorf("failed to scan user role row: %w", err)
		}
		roles = append(roles, ur)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating user role rows: %w", rows.Err())
	}
	return roles, nil
}

func (r *PgxRoleRepository) ListUsersByRole(ctx context.Context, role domain.Role, departmentID *string) ([]string, error) {
	// Church-wide assignments carry a NULL department; a nil scope matches
	// those, while a department scope matches assignments bound to it.
	query := `
        SELECT user_id
        FROM user_roles
        WHERE role = $1
          AND (($2::text IS NULL AND department_id IS NULL) OR department_id = $2);
    `
	rows, err := r.Pool.Query(ctx, query, role, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by role %s: %w", role, err)
	}
	defer rows.Close()

	userIDs := []string{}
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan user ID row: %w", err)
		}
		userIDs = append(userIDs, userID)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating user ID rows: %w", rows.Err())
	}
	return userIDs, nil
}

func (r *PgxRoleRepository) AssignRole(ctx context.Context, assignment domain.UserRole) error {
	query := `
        INSERT INTO user_roles (user_id, role, department_id)
        VALUES ($1, $2, $3);
    `
	_, err := r.Pool.Exec(ctx, query, assignment.UserID, assignment.Role, assignment.DepartmentID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}

func (r *PgxRoleRepository) RemoveRole(ctx context.Context, assignment domain.UserRole) error {
	query := `
        DELETE FROM user_roles
        WHERE user_id = $1 AND role = $2
          AND (($3::text IS NULL AND department_id IS NULL) OR department_id = $3);
    `
	cmdTag, err := r.Pool.Exec(ctx, query, assignment.UserID, assignment.Role, assignment.DepartmentID)
	if err != nil {
		return fmt.Errorf("failed to remove role: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
