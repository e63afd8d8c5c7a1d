package repositories

import (
	"context"

	"github.com/faithledger/church_admin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FundReader defines read operations for fund data
type FundReader interface {
	// FindFundByID retrieves a specific fund by its ID.
	FindFundByID(ctx context.Context, fundID string) (*domain.Fund, error)

	// ListFunds retrieves all funds, optionally including inactive ones.
	ListFunds(ctx context.Context, includeInactive bool) ([]domain.Fund, error)
}

// FundWriter defines write operations for fund data
type FundWriter interface {
	// SaveFund persists a new fund.
	SaveFund(ctx context.Context, fund domain.Fund) error

	// UpdateFund updates an existing fund's details.
	UpdateFund(ctx context.Context, fund domain.Fund) error

	// AdjustFundBalance applies a signed delta to a fund's balance.
	AdjustFundBalance(ctx context.Context, fundID string, delta decimal.Decimal) error
}

// FundRepositoryFacade combines all fund-related repository interfaces
type FundRepositoryFacade interface {
	FundReader
	FundWriter
}
