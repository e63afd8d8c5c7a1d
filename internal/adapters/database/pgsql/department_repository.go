package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/faithledger/church_admin_app/internal/apperrors"
	"github.com/faithledger/church_admin_app/internal/core/domain"
	portsrepo "github.com/faithledger/church_admin_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxDepartmentRepository struct {
	BaseRepository
}

func newPgxDepartmentRepository(db *pgxpool.Pool) portsrepo.DepartmentRepositoryFacade {
	return &PgxDepartmentRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxDepartmentRepository implements portsrepo.DepartmentRepositoryFacade
var _ portsrepo.DepartmentRepositoryFacade = (*PgxDepartmentRepository)(nil)

const departmentColumns = `department_id, name, description, is_active,
		created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanDepartment(row pgx.Row) (*domain.Department, error) {
	var d domain.Department
	err := row.Scan(
		&d.DepartmentID,
		&d.Name,
		&d.Description,
		&d.IsActive,
		&d.CreatedAt,
		&d.CreatedBy,
		&d.LastUpdatedAt,
		&d.LastUpdatedBy,
		&d.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PgxDepartmentRepository) SaveDepartment(ctx context.Context, department domain.Department) error {
	query := `
        INSERT INTO departments (department_id, name, description, is_active,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	_, err := r.Pool.Exec(ctx, query,
		department.DepartmentID,
		department.Name,
		department.Description,
		department.IsActive,
		department.CreatedAt,
		department.CreatedBy,
		department.LastUpdatedAt,
		department.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save department: %w", err)
	}
	return nil
}

func (r *PgxDepartmentRepository) FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE department_id = $1 AND deleted_at IS NULL;`
	department, err := scanDepartment(r.Pool.QueryRow(ctx, query, departmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find department by ID %s: %w", departmentID, err)
	}
	return department, nil
}

func (r *PgxDepartmentRepository) ListDepartments(ctx context.Context, includeInactive bool) ([]domain.Department, error) {
	query := `
        SELECT ` + departmentColumns + `
        FROM departments
        WHERE deleted_at IS NULL AND (is_active OR $1)
        ORDER BY name;
    `
	rows, err := r.Pool.Query(ctx, query, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to query departments: %w", err)
	}
	defer rows.Close()

	departments := []domain.Department{}
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department row: %w", err)
		}
		departments = append(departments, *d)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating department rows: %w", rows.Err())
	}
	return departments, nil
}

func (r *PgxDepartmentRepository) UpdateDepartment(ctx context.Context, department domain.Department) error {
	query := `
        UPDATE departments
        SET name = $1, description = $2, is_active = $3, last_updated_at = $4, last_updated_by = $5
        WHERE department_id = $6 AND deleted_at IS NULL;
    `
	cmdTag, err := r.Pool.Exec(ctx, query,
		department.Name,
		department.Description,
		department.IsActive,
		department.LastUpdatedAt,
		department.LastUpdatedBy,
		department.DepartmentID,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update department query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxDepartmentRepository) MarkDepartmentDeleted(ctx context.Context, departmentID string, deletedAt time.Time, deletedBy string) error {
	query := `
        UPDATE departments
        SET deleted_at = $1, last_updated_at = $1, last_updated_by = $2
        WHERE department_id = $3 AND deleted_at IS NULL;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, deletedAt, deletedBy, departmentID)
	if err != nil {
		return fmt.Errorf("failed to mark department deleted: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
