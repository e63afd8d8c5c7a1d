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
	"github.com/faithledger/church_admin_app/internal/utils"
	"github.com/google/uuid"
)

// Sentinel errors surfaced by the QR capture flow.
var (
	// ErrQRTokenExpired indicates the token's redeem window has passed.
	ErrQRTokenExpired = errors.New("qr token has expired")

	// ErrQRTokenRedeemed indicates the token was already used once.
	ErrQRTokenRedeemed = errors.New("qr token has already been redeemed")
)

const defaultQRTokenTTL = 30 * time.Minute

// ContributionService records gifts into funds, applies them to the
// contributor's pledges oldest-first, and runs the single-use QR capture flow.
type ContributionService struct {
	contributionRepo portsrepo.ContributionRepositoryFacade
	contributorRepo  portsrepo.ContributorRepositoryFacade
	fundRepo         portsrepo.FundRepositoryFacade
	pledgeRepo       portsrepo.PledgeRepositoryFacade
}

// NewContributionService creates a new ContributionService.
func NewContributionService(
	cr portsrepo.ContributionRepositoryFacade,
	contributorRepo portsrepo.ContributorRepositoryFacade,
	fr portsrepo.FundRepositoryFacade,
	pr portsrepo.PledgeRepositoryFacade,
) *ContributionService {
	return &ContributionService{
		contributionRepo: cr,
		contributorRepo:  contributorRepo,
		fundRepo:         fr,
		pledgeRepo:       pr,
	}
}

// Ensure ContributionService implements the facade interface
var _ portssvc.ContributionSvcFacade = (*ContributionService)(nil)

// RecordContribution records a gift and applies it to the contributor's oldest
// active pledges first. The contribution, its pledge applications, and the
// fund balance adjustment commit in one transaction.
func (s *ContributionService) RecordContribution(ctx context.Context, req dto.RecordContributionRequest, recorderUserID string) (*domain.Contribution, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: contribution amount must be positive", apperrors.ErrValidation)
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

	if req.ContributorID != nil {
		if _, err := s.contributorRepo.FindContributorByID(ctx, *req.ContributorID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: contributor %s not found", apperrors.ErrValidation, *req.ContributorID)
			}
			return nil, fmt.Errorf("failed to validate contributor: %w", err)
		}
	}

	receivedAt := time.Now().UTC()
	if req.ReceivedAt != nil {
		receivedAt = req.ReceivedAt.UTC()
	}

	now := time.Now().UTC()
	contribution := domain.Contribution{
		ContributionID: uuid.NewString(),
		FundID:         req.FundID,
		ContributorID:  req.ContributorID,
		Amount:         req.Amount,
		Method:         domain.ContributionMethod(req.Method),
		Reference:      req.Reference,
		ReceivedAt:     receivedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     recorderUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: recorderUserID,
		},
	}

	applications, err := s.computePledgeApplications(ctx, contribution)
	if err != nil {
		return nil, err
	}

	if err := s.contributionRepo.SaveContributionWithApplications(ctx, contribution, applications); err != nil {
		logger.Error("Failed to save contribution", slog.String("error", err.Error()), slog.String("fund_id", req.FundID))
		return nil, fmt.Errorf("failed to record contribution: %w", err)
	}

	logger.Info("Contribution recorded",
		slog.String("contribution_id", contribution.ContributionID),
		slog.String("fund_id", contribution.FundID),
		slog.String("amount", contribution.Amount.String()),
		slog.Int("pledges_applied", len(applications)))
	return &contribution, nil
}

// computePledgeApplications splits the contribution amount over the
// contributor's active pledges oldest-first. At most the last pledge touched
// ends up partially filled, so the split is deterministic.
func (s *ContributionService) computePledgeApplications(ctx context.Context, contribution domain.Contribution) ([]portsrepo.PledgeApplication, error) {
	if contribution.ContributorID == nil {
		return nil, nil
	}

	pledges, err := s.pledgeRepo.ListActivePledgesByContributor(ctx, *contribution.ContributorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active pledges: %w", err)
	}

	remaining := contribution.Amount
	var applications []portsrepo.PledgeApplication
	for _, pledge := range pledges {
		if !remaining.IsPositive() {
			break
		}
		outstanding := pledge.Outstanding()
		if !outstanding.IsPositive() {
			continue
		}

		applied := remaining
		newStatus := domain.PledgeActive
		if applied.GreaterThanOrEqual(outstanding) {
			applied = outstanding
			newStatus = domain.PledgeFulfilled
		}

		applications = append(applications, portsrepo.PledgeApplication{
			PledgeID:  pledge.PledgeID,
			Amount:    applied,
			NewStatus: newStatus,
		})
		remaining = remaining.Sub(applied)
	}
	return applications, nil
}

// GetContributionByID retrieves a contribution by ID.
func (s *ContributionService) GetContributionByID(ctx context.Context, contributionID string) (*domain.Contribution, error) {
	contribution, err := s.contributionRepo.FindContributionByID(ctx, contributionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find contribution %s: %w", contributionID, err)
	}
	return contribution, nil
}

// ListContributionsByFund retrieves a token-paginated list for a fund.
func (s *ContributionService) ListContributionsByFund(ctx context.Context, fundID string, limit int, nextToken *string) ([]domain.Contribution, *string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	contributions, token, err := s.contributionRepo.ListContributionsByFund(ctx, fundID, limit, nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list contributions for fund %s: %w", fundID, err)
	}
	return contributions, token, nil
}

// IssueQRToken creates a single-use capture token bound to a fund and
// optionally a contributor. The token string is the QR payload; rendering it
// as an image is the client's concern.
func (s *ContributionService) IssueQRToken(ctx context.Context, req dto.IssueQRTokenRequest, issuerUserID string) (*domain.QRToken, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

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

	tokenValue, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate qr token: %w", err)
	}

	ttl := defaultQRTokenTTL
	if req.TTLMinutes > 0 {
		ttl = time.Duration(req.TTLMinutes) * time.Minute
	}

	now := time.Now().UTC()
	token := domain.QRToken{
		Token:         tokenValue,
		FundID:        req.FundID,
		ContributorID: req.ContributorID,
		ExpiresAt:     now.Add(ttl),
		CreatedAt:     now,
		CreatedBy:     issuerUserID,
	}

	if err := s.contributionRepo.SaveQRToken(ctx, token); err != nil {
		logger.Error("Failed to save qr token", slog.String("error", err.Error()), slog.String("fund_id", req.FundID))
		return nil, fmt.Errorf("failed to issue qr token: %w", err)
	}

	logger.Info("QR token issued", slog.String("fund_id", req.FundID), slog.String("issued_by", issuerUserID))
	return &token, nil
}

// RedeemQRToken records a contribution against a previously issued token. The
// token is consumed with an optimistic single-use update first, so two
// concurrent scans cannot both record a gift.
func (s *ContributionService) RedeemQRToken(ctx context.Context, req dto.RedeemQRTokenRequest) (*domain.Contribution, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: contribution amount must be positive", apperrors.ErrValidation)
	}

	token, err := s.contributionRepo.FindQRToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find qr token: %w", err)
	}
	if token.RedeemedAt != nil {
		return nil, ErrQRTokenRedeemed
	}
	now := time.Now().UTC()
	if now.After(token.ExpiresAt) {
		return nil, ErrQRTokenExpired
	}

	if err := s.contributionRepo.RedeemQRToken(ctx, req.Token, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrQRTokenRedeemed
		}
		logger.Error("Failed to redeem qr token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to redeem qr token: %w", err)
	}

	contribution := domain.Contribution{
		ContributionID: uuid.NewString(),
		FundID:         token.FundID,
		ContributorID:  token.ContributorID,
		Amount:         req.Amount,
		Method:         domain.MethodQR,
		Reference:      token.Token,
		ReceivedAt:     now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     token.CreatedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: token.CreatedBy,
		},
	}

	applications, err := s.computePledgeApplications(ctx, contribution)
	if err != nil {
		return nil, err
	}

	if err := s.contributionRepo.SaveContributionWithApplications(ctx, contribution, applications); err != nil {
		logger.Error("Failed to save qr contribution", slog.String("error", err.Error()), slog.String("fund_id", token.FundID))
		return nil, fmt.Errorf("failed to record qr contribution: %w", err)
	}

	logger.Info("QR contribution recorded",
		slog.String("contribution_id", contribution.ContributionID),
		slog.String("fund_id", contribution.FundID),
		slog.String("amount", contribution.Amount.String()))
	return &contribution, nil
}
