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
)

// ContributorService handles business logic for contributor records.
type ContributorService struct {
	contributorRepo portsrepo.ContributorRepositoryFacade
}

// NewContributorService creates a new ContributorService.
func NewContributorService(cr portsrepo.ContributorRepositoryFacade) *ContributorService {
	return &ContributorService{contributorRepo: cr}
}

// Ensure ContributorService implements the facade interface
var _ portssvc.ContributorSvcFacade = (*ContributorService)(nil)

// CreateContributor registers a new contributor.
func (s *ContributorService) CreateContributor(ctx context.Context, req dto.CreateContributorRequest, creatorUserID string) (*domain.Contributor, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	contributor := domain.Contributor{
		ContributorID: uuid.NewString(),
		FullName:      req.FullName,
		Phone:         req.Phone,
		Email:         req.Email,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.contributorRepo.SaveContributor(ctx, contributor); err != nil {
		logger.Error("Failed to save contributor", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create contributor: %w", err)
	}

	logger.Info("Contributor created", slog.String("contributor_id", contributor.ContributorID), slog.String("created_by", creatorUserID))
	return &contributor, nil
}

// GetContributorByID retrieves a contributor by ID.
func (s *ContributorService) GetContributorByID(ctx context.Context, contributorID string) (*domain.Contributor, error) {
	contributor, err := s.contributorRepo.FindContributorByID(ctx, contributorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find contributor %s: %w", contributorID, err)
	}
	return contributor, nil
}

// ListContributors retrieves a paginated list of contributors.
func (s *ContributorService) ListContributors(ctx context.Context, limit, offset int) ([]domain.Contributor, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	contributors, err := s.contributorRepo.ListContributors(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributors: %w", err)
	}
	return contributors, nil
}

// UpdateContributor updates a contributor's details.
func (s *ContributorService) UpdateContributor(ctx context.Context, contributorID string, req dto.UpdateContributorRequest, requestingUserID string) (*domain.Contributor, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	contributor, err := s.contributorRepo.FindContributorByID(ctx, contributorID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		contributor.FullName = *req.FullName
	}
	if req.Phone != nil {
		contributor.Phone = *req.Phone
	}
	if req.Email != nil {
		contributor.Email = *req.Email
	}
	if req.IsActive != nil {
		contributor.IsActive = *req.IsActive
	}
	now := time.Now().UTC()
	contributor.LastUpdatedAt = now
	contributor.LastUpdatedBy = requestingUserID

	if err := s.contributorRepo.UpdateContributor(ctx, *contributor); err != nil {
		logger.Error("Failed to update contributor", slog.String("error", err.Error()), slog.String("contributor_id", contributorID))
		return nil, fmt.Errorf("failed to update contributor: %w", err)
	}
	return contributor, nil
}

// DeleteContributor soft-deletes a contributor. Their giving history remains.
func (s *ContributorService) DeleteContributor(ctx context.Context, contributorID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.contributorRepo.FindContributorByID(ctx, contributorID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.contributorRepo.MarkContributorDeleted(ctx, contributorID, now, requestingUserID); err != nil {
		logger.Error("Failed to mark contributor deleted", slog.String("error", err.Error()), slog.String("contributor_id", contributorID))
		return fmt.Errorf("failed to delete contributor: %w", err)
	}

	logger.Info("Contributor deleted", slog.String("contributor_id", contributorID), slog.String("deleted_by", requestingUserID))
	return nil
}
