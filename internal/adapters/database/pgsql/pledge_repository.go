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

type PgxPledgeRepository struct {
	BaseRepository
}

func newPgxPledgeRepository(db *pgxpool.Pool) portsrepo.PledgeRepositoryFacade {
	return &PgxPledgeRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxPledgeRepository implements portsrepo.PledgeRepositoryFacade
var _ portsrepo.PledgeRepositoryFacade = (*PgxPledgeRepository)(nil)

const pledgeColumns = `pledge_id, contributor_id, fund_id, total_amount, amount_applied,
		status, pledged_at, due_by,
		created_at, created_by, last_updated_at, last_updated_by`

func scanPledge(row pgx.Row) (*domain.Pledge, error) {
	var p domain.Pledge
	err := row.Scan(
		&p.PledgeID,
		&p.ContributorID,
		&p.FundID,
		&p.TotalAmount,
		&p.AmountApplied,
		&p.Status,
		&p.PledgedAt,
		&p.DueBy,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgxPledgeRepository) SavePledge(ctx context.Context, pledge domain.Pledge) error {
	query := `
        INSERT INTO pledges (pledge_id, contributor_id, fund_id, total_amount, amount_applied,
            status, pledged_at, due_by,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
    `
	_, err := r.Pool.Exec(ctx, query,
		pledge.PledgeID,
		pledge.ContributorID,
		pledge.FundID,
		pledge.TotalAmount,
		pledge.AmountApplied,
		pledge.Status,
		pledge.PledgedAt,
		pledge.DueBy,
		pledge.CreatedAt,
		pledge.CreatedBy,
		pledge.LastUpdatedAt,
		pledge.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save pledge: %w", err)
	}
	return nil
}

func (r *PgxPledgeRepository) FindPledgeByID(ctx context.Context, pledgeID string) (*domain.Pledge, error) {
	query := `SELECT ` + pledgeColumns + ` FROM pledges WHERE pledge_id = $1;`
	pledge, err := scanPledge(r.Pool.QueryRow(ctx, query, pledgeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find pledge by ID %s: %w", pledgeID, err)
	}
	return pledge, nil
}

func (r *PgxPledgeRepository) ListPledgesByContributor(ctx context.Context, contributorID string) ([]domain.Pledge, error) {
	query := `
        SELECT ` + pledgeColumns + `
        FROM pledges
        WHERE contributor_id = $1
        ORDER BY pledged_at DESC;
    `
	return r.queryPledges(ctx, query, contributorID)
}

func (r *PgxPledgeRepository) ListActivePledgesByContributor(ctx context.Context, contributorID string) ([]domain.Pledge, error) {
	// Oldest first: the order FIFO application consumes pledges in.
	query := `
        SELECT ` + pledgeColumns + `
        FROM pledges
        WHERE contributor_id = $1 AND status = 'ACTIVE'
        ORDER BY pledged_at ASC;
    `
	return r.queryPledges(ctx, query, contributorID)
}

func (r *PgxPledgeRepository) queryPledges(ctx context.Context, query string, args ...any) ([]domain.Pledge, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pledges: %w", err)
	}
	defer rows.Close()

	pledges := []domain.Pledge{}
	for rows.Next() {
		p, err := scanPledge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pledge row: %w", err)
		}
		pledges = append(pledges, *p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating pledge rows: %w", rows.Err())
	}
	return pledges, nil
}

func (r *PgxPledgeRepository) UpdatePledgeStatus(ctx context.Context, pledgeID string, status domain.PledgeStatus, updatedBy string) error {
	query := `
        UPDATE pledges
        SET status = $1, last_updated_at = $2, last_updated_by = $3
        WHERE pledge_id = $4;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, status, time.Now().UTC(), updatedBy, pledgeID)
	if err != nil {
		return fmt.Errorf("failed to update pledge status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
