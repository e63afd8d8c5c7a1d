package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/faithledger/church_admin_app/internal/apperrors"
	"github.com/faithledger/church_admin_app/internal/core/domain"
	portsrepo "github.com/faithledger/church_admin_app/internal/core/ports/repositories"
	"github.com/faithledger/church_admin_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxContributionRepository struct {
	BaseRepository
}

func newPgxContributionRepository(db *pgxpool.Pool) portsrepo.ContributionRepositoryFacade {
	return &PgxContributionRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxContributionRepository implements portsrepo.ContributionRepositoryFacade
var _ portsrepo.ContributionRepositoryFacade = (*PgxContributionRepository)(nil)

const contributionColumns = `contribution_id, fund_id, contributor_id, amount, method, reference, received_at,
		created_at, created_by, last_updated_at, last_updated_by`

func scanContribution(row pgx.Row) (*domain.Contribution, error) {
	var c domain.Contribution
	err := row.Scan(
		&c.ContributionID,
		&c.FundID,
		&c.ContributorID,
		&c.Amount,
		&c.Method,
		&c.Reference,
		&c.ReceivedAt,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveContributionWithApplications persists a contribution, applies its FIFO
// pledge splits, and credits the fund balance within a single transaction.
func (r *PgxContributionRepository) SaveContributionWithApplications(ctx context.Context, contribution domain.Contribution, applications []portsrepo.PledgeApplication) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	insertQuery := `
        INSERT INTO contributions (contribution_id, fund_id, contributor_id, amount, method, reference, received_at,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
    `
	_, err = tx.Exec(ctx, insertQuery,
		contribution.ContributionID,
		contribution.FundID,
		contribution.ContributorID,
		contribution.Amount,
		contribution.Method,
		contribution.Reference,
		contribution.ReceivedAt,
		contribution.CreatedAt,
		contribution.CreatedBy,
		contribution.LastUpdatedAt,
		contribution.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert contribution: %w", err)
	}

	applyQuery := `
        UPDATE pledges
        SET amount_applied = amount_applied + $1,
            status = $2,
            last_updated_at = $3,
            last_updated_by = $4
        WHERE pledge_id = $5 AND status = 'ACTIVE';
    `
	for _, app := range applications {
		cmdTag, err := tx.Exec(ctx, applyQuery,
			app.Amount,
			app.NewStatus,
			contribution.LastUpdatedAt,
			contribution.LastUpdatedBy,
			app.PledgeID,
		)
		if err != nil {
			return fmt.Errorf("failed to apply contribution to pledge %s: %w", app.PledgeID, err)
		}
		// A pledge cancelled or fulfilled since the split was computed means
		// the whole write is stale.
		if cmdTag.RowsAffected() == 0 {
			return fmt.Errorf("pledge %s is no longer active: %w", app.PledgeID, apperrors.ErrConflict)
		}
	}

	balanceQuery := `UPDATE funds SET balance = balance + $1 WHERE fund_id = $2;`
	cmdTag, err := tx.Exec(ctx, balanceQuery, contribution.Amount, contribution.FundID)
	if err != nil {
		return fmt.Errorf("failed to credit fund balance: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("fund %s not found: %w", contribution.FundID, apperrors.ErrNotFound)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxContributionRepository) FindContributionByID(ctx context.Context, contributionID string) (*domain.Contribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM contributions WHERE contribution_id = $1;`
	contribution, err := scanContribution(r.Pool.QueryRow(ctx, query, contributionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find contribution by ID %s: %w", contributionID, err)
	}
	return contribution, nil
}

// ListContributionsByFund uses keyset pagination on (received_at, contribution_id)
// so pages stay stable while new gifts arrive.
func (r *PgxContributionRepository) ListContributionsByFund(ctx context.Context, fundID string, limit int, nextToken *string) ([]domain.Contribution, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []any{fundID, limit + 1}
	query := `
        SELECT ` + contributionColumns + `
        FROM contributions
        WHERE fund_id = $1
    `
	if nextToken != nil {
		fields, err := pagination.DecodeMultiFieldToken(*nextToken)
		if err != nil || len(fields) != 2 {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		cursorTime, err := time.Parse(time.RFC3339Nano, fields[0])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		query += ` AND (received_at, contribution_id) < ($3, $4)`
		args = append(args, cursorTime, fields[1])
	}
	query += ` ORDER BY received_at DESC, contribution_id DESC LIMIT $2;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query contributions: %w", err)
	}
	defer rows.Close()

	contributions := []domain.Contribution{}
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan contribution row: %w", err)
		}
		contributions = append(contributions, *c)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating contribution rows: %w", rows.Err())
	}

	var token *string
	if len(contributions) > limit {
		contributions = contributions[:limit]
		last := contributions[len(contributions)-1]
		t := pagination.EncodeMultiFieldToken(last.ReceivedAt.Format(time.RFC3339Nano), last.ContributionID)
		token = &t
	}
	return contributions, token, nil
}

func (r *PgxContributionRepository) ListContributionsByContributor(ctx context.Context, contributorID string) ([]domain.Contribution, error) {
	query := `
        SELECT ` + contributionColumns + `
        FROM contributions
        WHERE contributor_id = $1
        ORDER BY received_at DESC;
    `
	rows, err := r.Pool.Query(ctx, query, contributorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contributions by contributor: %w", err)
	}
	defer rows.Close()

	contributions := []domain.Contribution{}
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contribution row: %w", err)
		}
		contributions = append(contributions, *c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating contribution rows: %w", rows.Err())
	}
	return contributions, nil
}

func (r *PgxContributionRepository) SaveQRToken(ctx context.Context, token domain.QRToken) error {
	query := `
        INSERT INTO qr_tokens (token, fund_id, contributor_id, expires_at, created_at, created_by)
        VALUES ($1, $2, $3, $4, $5, $6);
    `
	_, err := r.Pool.Exec(ctx, query,
		token.Token,
		token.FundID,
		token.ContributorID,
		token.ExpiresAt,
		token.CreatedAt,
		token.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save qr token: %w", err)
	}
	return nil
}

func (r *PgxContributionRepository) FindQRToken(ctx context.Context, token string) (*domain.QRToken, error) {
	query := `
        SELECT token, fund_id, contributor_id, expires_at, redeemed_at, created_at, created_by
        FROM qr_tokens
        WHERE token = $1;
    `
	var t domain.QRToken
	err := r.Pool.QueryRow(ctx, query, token).Scan(
		&t.Token,
		&t.FundID,
		&t.ContributorID,
		&t.ExpiresAt,
		&t.RedeemedAt,
		&t.CreatedAt,
		&t.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find qr token: %w", err)
	}
	return &t, nil
}

// RedeemQRToken marks a token redeemed with an optimistic single-use guard; a
// concurrent redeem loses with apperrors.ErrConflict.
func (r *PgxContributionRepository) RedeemQRToken(ctx context.Context, token string, redeemedAt time.Time) error {
	query := `
        UPDATE qr_tokens
        SET redeemed_at = $1
        WHERE token = $2 AND redeemed_at IS NULL;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, redeemedAt, token)
	if err != nil {
		return fmt.Errorf("failed to redeem qr token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}
