package services

import (
	"context"

	"github.com/faithledger/church_admin_app/internal/core/domain"
	"github.com/faithledger/church_admin_app/internal/dto"
)

// ContributionSvcFacade defines contribution capture operations, including the
// QR token flow and FIFO pledge application.
type ContributionSvcFacade interface {
	// RecordContribution records a gift and applies it to the contributor's
	// oldest active pledges first.
	RecordContribution(ctx context.Context, req dto.RecordContributionRequest, recorderUserID string) (*domain.Contribution, error)

	// GetContributionByID retrieves a contribution by ID.
	GetContributionByID(ctx context.Context, contributionID string) (*domain.Contribution, error)

	// ListContributionsByFund retrieves a token-paginated list for a fund.
	ListContributionsByFund(ctx context.Context, fundID string, limit int, nextToken *string) ([]domain.Contribution, *string, error)

	// IssueQRToken creates a single-use capture token bound to a fund.
	IssueQRToken(ctx context.Context, req dto.IssueQRTokenRequest, issuerUserID string) (*domain.QRToken, error)

	// RedeemQRToken records a contribution against a previously issued token.
	// A token redeems exactly once; reuse fails.
	RedeemQRToken(ctx context.Context, req dto.RedeemQRTokenRequest) (*domain.Contribution, error)
}

// PledgeSvcFacade defines pledge management operations.
type PledgeSvcFacade interface {
	// CreatePledge records a contributor's pledge towards a fund.
	CreatePledge(ctx context.Context, req dto.CreatePledgeRequest, creatorUserID string) (*domain.Pledge, error)

	// GetPledgeByID retrieves a pledge by ID.
	GetPledgeByID(ctx context.Context, pledgeID string) (*domain.Pledge, error)

	// ListPledgesByContributor retrieves all pledges for a contributor.
	ListPledgesByContributor(ctx context.Context, contributorID string) ([]domain.Pledge, error)

	// CancelPledge cancels an active pledge.
	CancelPledge(ctx context.Context, pledgeID string, requestingUserID string) error
}
