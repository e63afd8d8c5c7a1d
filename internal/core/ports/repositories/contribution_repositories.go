package repositories

import (
	"context"
	"time"

	"github.com/faithledger/church_admin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PledgeApplication is the FIFO split of one contribution across pledges,
// computed by the service and persisted atomically with the contribution.
type PledgeApplication struct {
	PledgeID  string
	Amount    decimal.Decimal
	NewStatus domain.PledgeStatus
}

// ContributionReader defines read operations for contribution data
type ContributionReader interface {
	// FindContributionByID retrieves a specific contribution by its ID.
	FindContributionByID(ctx context.Context, contributionID string) (*domain.Contribution, error)

	// ListContributionsByFund retrieves a token-paginated list of contributions for a fund.
	ListContributionsByFund(ctx context.Context, fundID string, limit int, nextToken *string) ([]domain.Contribution, *string, error)

	// ListContributionsByContributor retrieves all contributions by one contributor.
	ListContributionsByContributor(ctx context.Context, contributorID string) ([]domain.Contribution, error)
}

// ContributionWriter defines write operations for contribution data
type ContributionWriter interface {
	// SaveContributionWithApplications persists a contribution, applies its FIFO
	// pledge splits, and adjusts the fund balance within a single transaction.
	SaveContributionWithApplications(ctx context.Context, contribution domain.Contribution, applications []PledgeApplication) error
}

// QRTokenManager defines operations for single-use QR capture tokens.
type QRTokenManager interface {
	// SaveQRToken persists an issued token.
	SaveQRToken(ctx context.Context, token domain.QRToken) error

	// FindQRToken retrieves a token by its value.
	FindQRToken(ctx context.Context, token string) (*domain.QRToken, error)

	// RedeemQRToken marks a token redeemed iff it is still unredeemed; it
	// returns apperrors.ErrConflict semantics via zero rows when already used.
	RedeemQRToken(ctx context.Context, token string, redeemedAt time.Time) error
}

// ContributionRepositoryFacade combines all contribution-related repository interfaces
type ContributionRepositoryFacade interface {
	ContributionReader
	ContributionWriter
	QRTokenManager
}
