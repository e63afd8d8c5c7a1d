package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/faithledger/church_admin_app/internal/apperrors"
	"github.com/faithledger/church_admin_app/internal/core/domain"
	portsrepo "github.com/faithledger/church_admin_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxFundRepository struct {
	BaseRepository
}

func newPgxFundRepository(db *pgxpool.Pool) portsrepo.FundRepositoryFacade {
	return &PgxFundRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxFundRepository implements portsrepo.FundRepositoryFacade
var _ portsrepo.FundRepositoryFacade = (*PgxFundRepository)(nil)

const fundColumns = `fund_id, name, fund_type, description, balance, is_active,
		created_at, created_by, last_updated_at, last_updated_by`

func scanFund(row pgx.Row) (*domain.Fund, error) {
	var f domain.Fund
	err := row.Scan(
		&f.FundID,
		&f.Name,
		&f.FundType,
		&f.Description,
		&f.Balance,
		&f.IsActive,
		&f.CreatedAt,
		&f.CreatedBy,
		&f.LastUpdatedAt,
		&f.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PgxFundRepository) SaveFund(ctx context.Context, fund domain.Fund) error {
	query := `
        INSERT INTO funds (fund_id, name, fund_type, description, balance, is_active,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `
	_, err := r.Pool.Exec(ctx, query,
		fund.FundID,
		fund.Name,
		fund.FundType,
		fund.Description,
		fund.Balance,
		fund.IsActive,
		fund.CreatedAt,
		fund.CreatedBy,
		fund.LastUpdatedAt,
		fund.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save fund: %w", err)
	}
	return nil
}

func (r *PgxFundRepository) FindFundByID(ctx context.Context, fundID string) (*domain.Fund, error) {
	query := `SELECT ` + fundColumns + ` FROM funds WHERE fund_id = $1;`
	fund, err := scanFund(r.Pool.QueryRow(ctx, query, fundID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fund by ID %s: %w", fundID, err)
	}
	return fund, nil
}

func (r *PgxFundRepository) ListFunds(ctx context.Context, includeInactive bool) ([]domain.Fund, error) {
	query := `
        SELECT ` + fundColumns + `
        FROM funds
        WHERE is_active OR $1
        ORDER BY name;
    `
	rows, err := r.Pool.Query(ctx, query, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to query funds: %w", err)
	}
	defer rows.Close()

	funds := []domain.Fund{}
	for rows.Next() {
		f, err := scanFund(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund row: %w", err)
		}
		funds = append(funds, *f)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating fund rows: %w", rows.Err())
	}
	return funds, nil
}

func (r *PgxFundRepository) UpdateFund(ctx context.Context, fund domain.Fund) error {
	query := `
        UPDATE funds
        SET name = $1, description = $2, is_active = $3, last_updated_at = $4, last_updated_by = $5
        WHERE fund_id = $6;
    `
	cmdTag, err := r.Pool.Exec(ctx, query,
		fund.Name,
		fund.Description,
		fund.IsActive,
		fund.LastUpdatedAt,
		fund.LastUpdatedBy,
		fund.FundID,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update fund query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxFundRepository) AdjustFundBalance(ctx context.Context, fundID string, delta decimal.Decimal) error {
	query := `
        UPDATE funds
        SET balance = balance + $1
        WHERE fund_id = $2;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, delta, fundID)
	if err != nil {
		return fmt.Errorf("failed to adjust fund balance: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
