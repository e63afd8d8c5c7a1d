package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/faithledger/church_admin_app/internal/apperrors"
	"github.com/faithledger/church_admin_app/internal/core/domain"
	"github.com/faithledger/church_admin_app/internal/dto"
	portsrepo "github.com/faithledger/church_admin_app/internal/core/ports/repositories"
	portssvc "github.com/faithledger/church_admin_app/internal/core/ports/services"
	"github.com/faithledger/church_admin_app/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PledgeService handles business logic for pledges. Fulfillment happens as a
// side effect of recording contributions, not through this service.
type PledgeService struct {
	pledgeRepo      portsrepo.PledgeRepositoryFacade
	contributorRepo portsrepo.ContributorRepositoryFacade
	fundRepo        portsrepo.FundRepositoryFacade
}

// NewPledgeService creates a new PledgeService.
func NewPledgeService(pr portsrepo.PledgeRepositoryFacade, cr portsrepo.ContributorRepositoryFacade, fr portsrepo.FundRepositoryFacade) *PledgeService {
	return &PledgeService{
		pledgeRepo:      pr,
		contributorRepo: cr,
		fundRepo:        fr,
	}
}

// Ensure PledgeService implements the facade interface
var _ portssvc.PledgeSvcFacade = (*PledgeService)(nil)

// CreatePledge records a contributor's pledge towards a fund.
func (s *PledgeService) CreatePledge(ctx context.Context, req dto.CreatePledgeRequest, creatorUserID string) (*domain.Pledge, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.TotalAmount.IsPositive() {
		return nil, fmt.Errorf("%w: pledge amount must be positive", apperrors.ErrValidation)
	}

	if _, err := s.contributorRepo.FindContributorByID(ctx, req.ContributorID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: contributor %s not found", apperrors.ErrValidation, req.ContributorID)
		}
		return nil, fmt.Errorf("failed to validate contributor: %w", err)
	}
	fund, err := s.fundRepo.FindFundByID(ctx, req.FundID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: fund %s not found", apperrors.ErrValidation, req.FundID)
		}
		return nil, fmt.Errorf("failed to validate fund: %w", err)
	}
	if !fund.IsActive {
		return nil, fmt.Errorf("%w: fund %s is inactive", apperrors.ErrValidation, req.FundID)
	}

	now := time.Now().UTC()
	pledge := domain.Pledge{
		PledgeID:      uuid.NewString(),
		ContributorID: req.ContributorID,
		FundID:        req.FundID,
		TotalAmount:   req.TotalAmount,
		AmountApplied: decimal.Zero,
		Status:        domain.PledgeActive,
		PledgedAt:     now,
		DueBy:         req.DueBy,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.pledgeRepo.SavePledge(ctx, pledge); err != nil {
		logger.Error("Failed to save pledge", slog.String("error", err.Error()), slog.String("contributor_id", req.ContributorID))
		return nil, fmt.Errorf("failed to create pledge: %w", err)
	}

	logger.Info("Pledge created",
		slog.String("pledge_id", pledge.PledgeID),
		slog.String("contributor_id", req.ContributorID),
		slog.String("amount", req.TotalAmount.String()))
	return &pledge, nil
}

// GetPledgeByID retrieves a pledge by ID.
func (s *PledgeService) GetPledgeByID(ctx context.Context, pledgeID string) (*domain.Pledge, error) {
	pledge, err := s.pledgeRepo.FindPledgeByID(ctx, pledgeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find pledge %s: %w", pledgeID, err)
	}
	return pledge, nil
}

// ListPledgesByContributor retrieves all pledges for a contributor.
func (s *PledgeService) ListPledgesByContributor(ctx context.Context, contributorID string) ([]domain.Pledge, error) {
	pledges, err := s.pledgeRepo.ListPledgesByContributor(ctx, contributorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pledges for contributor %s: %w", contributorID, err)
	}
	return pledges, nil
}

// CancelPledge cancels an active pledge. Amounts already applied stay applied.
func (s *PledgeService) CancelPledge(ctx context.Context, pledgeID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	pledge, err := s.pledgeRepo.FindPledgeByID(ctx, pledgeID)
	if err != nil {
		return err
	}
	if pledge.Status != domain.PledgeActive {
		return fmt.Errorf("%w: only active pledges can be cancelled (status %s)", apperrors.ErrValidation, pledge.Status)
	}

	if err := s.pledgeRepo.UpdatePledgeStatus(ctx, pledgeID, domain.PledgeCancelled, requestingUserID); err != nil {
		logger.Error("Failed to cancel pledge", slog.String("error", err.Error()), slog.String("pledge_id", pledgeID))
		return fmt.Errorf("failed to cancel pledge: %w", err)
	}

	logger.Info("Pledge cancelled", slog.String("pledge_id", pledgeID), slog.String("cancelled_by", requestingUserID))
	return nil
}
