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

// FundService handles business logic for funds. Balances move only through
// contributions and paid requests, never by direct edit.
type FundService struct {
	fundRepo      portsrepo.FundRepositoryFacade
	permissionSvc portssvc.PermissionSvcFacade
}

// NewFundService creates a new FundService.
func NewFundService(fr portsrepo.FundRepositoryFacade, ps portssvc.PermissionSvcFacade) *FundService {
	return &FundService{fundRepo: fr, permissionSvc: ps}
}

// Ensure FundService implements the facade interface
var _ portssvc.FundSvcFacade = (*FundService)(nil)

// CreateFund creates a new fund with a zero balance. Admin only.
func (s *FundService) CreateFund(ctx context.Context, req dto.CreateFundRequest, creatorUserID string) (*domain.Fund, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, creatorUserID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fund := domain.Fund{
		FundID:      uuid.NewString(),
		Name:        req.Name,
		FundType:    domain.FundType(req.FundType),
		Description: req.Description,
		Balance:     decimal.Zero,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.fundRepo.SaveFund(ctx, fund); err != nil {
		logger.Error("Failed to save fund", slog.String("error", err.Error()), slog.String("fund_name", req.Name))
		return nil, fmt.Errorf("failed to create fund: %w", err)
	}

	logger.Info("Fund created", slog.String("fund_id", fund.FundID), slog.String("created_by", creatorUserID))
	return &fund, nil
}

// GetFundByID retrieves a fund by ID.
func (s *FundService) GetFundByID(ctx context.Context, fundID string) (*domain.Fund, error) {
	fund, err := s.fundRepo.FindFundByID(ctx, fundID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find fund %s: %w", fundID, err)
	}
	return fund, nil
}

// ListFunds retrieves all funds.
func (s *FundService) ListFunds(ctx context.Context, includeInactive bool) ([]domain.Fund, error) {
	funds, err := s.fundRepo.ListFunds(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list funds: %w", err)
	}
	return funds, nil
}

// UpdateFund updates a fund's details. The balance is not editable. Admin only.
func (s *FundService) UpdateFund(ctx context.Context, fundID string, req dto.UpdateFundRequest, requestingUserID string) (*domain.Fund, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, requestingUserID); err != nil {
		return nil, err
	}

	fund, err := s.fundRepo.FindFundByID(ctx, fundID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		fund.Name = *req.Name
	}
	if req.Description != nil {
		fund.Description = *req.Description
	}
	if req.IsActive != nil {
		fund.IsActive = *req.IsActive
	}
	now := time.Now().UTC()
	fund.LastUpdatedAt = now
	fund.LastUpdatedBy = requestingUserID

	if err := s.fundRepo.UpdateFund(ctx, *fund); err != nil {
		logger.Error("Failed to update fund", slog.String("error", err.Error()), slog.String("fund_id", fundID))
		return nil, fmt.Errorf("failed to update fund: %w", err)
	}
	return fund, nil
}

func (s *FundService) requireAdmin(ctx context.Context, userID string) error {
	isAdmin, err := s.permissionSvc.IsAdmin(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check admin permission: %w", err)
	}
	if !isAdmin {
		return fmt.Errorf("%w: only administrators manage funds", apperrors.ErrForbidden)
	}
	return nil
}
