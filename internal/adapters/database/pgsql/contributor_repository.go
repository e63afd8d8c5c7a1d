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

type PgxContributorRepository struct {
	BaseRepository
}

func newPgxContributorRepository(db *pgxpool.Pool) portsrepo.ContributorRepositoryFacade {
	return &PgxContributorRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxContributorRepository implements portsrepo.ContributorRepositoryFacade
var _ portsrepo.ContributorRepositoryFacade = (*PgxContributorRepository)(nil)

const contributorColumns = `contributor_id, full_name, phone, email, is_active,
		created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanContributor(row pgx.Row) (*domain.Contributor, error) {
	var c domain.Contributor
	err := row.Scan(
		&c.ContributorID,
		&c.FullName,
		&c.Phone,
		&c.Email,
		&c.IsActive,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
		&c.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgxContributorRepository) SaveContributor(ctx context.Context, contributor domain.Contributor) error {
	query := `
        INSERT INTO contributors (contributor_id, full_name, phone, email, is_active,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := r.Pool.Exec(ctx, query,
		contributor.ContributorID,
		contributor.FullName,
		contributor.Phone,
		contributor.Email,
		contributor.IsActive,
		contributor.CreatedAt,
		contributor.CreatedBy,
		contributor.LastUpdatedAt,
		contributor.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save contributor: %w", err)
	}
	return nil
}

func (r *PgxContributorRepository) FindContributorByID(ctx context.Context, contributorID string) (*domain.Contributor, error) {
	query := `SELECT ` + contributorColumns + ` FROM contributors WHERE contributor_id = $1 AND deleted_at IS NULL;`
	contributor, err := scanContributor(r.Pool.QueryRow(ctx, query, contributorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find contributor by ID %s: %w", contributorID, err)
	}
	return contributor, nil
}

func (r *PgxContributorRepository) ListContributors(ctx context.Context, limit int, offset int) ([]domain.Contributor, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT ` + contributorColumns + `
        FROM contributors
        WHERE deleted_at IS NULL
        ORDER BY full_name
        LIMIT $1 OFFSET $2;
    `
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query contributors: %w", err)
	}
	defer rows.Close()

	contributors := []domain.Contributor{}
	for rows.Next() {
		c, err := scanContributor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contributor row: %w", err)
		}
		contributors = append(contributors, *c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating contributor rows: %w", rows.Err())
	}
	return contributors, nil
}

func (r *PgxContributorRepository) UpdateContributor(ctx context.Context, contributor domain.Contributor) error {
	query := `
        UPDATE contributors
        SET full_name = $1, phone = $2, email = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
        WHERE contributor_id = $7 AND deleted_at IS NULL;
    `
	cmdTag, err := r.Pool.Exec(ctx, query,
		contributor.FullName,
		contributor.Phone,
		contributor.Email,
		contributor.IsActive,
		contributor.LastUpdatedAt,
		contributor.LastUpdatedBy,
		contributor.ContributorID,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update contributor query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxContributorRepository) MarkContributorDeleted(ctx context.Context, contributorID string, deletedAt time.Time, deletedBy string) error {
	query := `
        UPDATE contributors
        SET deleted_at = $1, last_updated_at = $1, last_updated_by = $2
        WHERE contributor_id = $3 AND deleted_at IS NULL;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, deletedAt, deletedBy, contributorID)
	if err != nil {
		return fmt.Errorf("failed to mark contributor deleted: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
