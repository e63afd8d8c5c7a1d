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

// Sentinel errors surfaced by template resolution.
var (
	// ErrNoTemplateConfigured indicates no active template matched the request
	// and no default template exists.
	ErrNoTemplateConfigured = errors.New("no approval template configured for this request")

	// ErrAmbiguousTemplateMatch indicates two or more matching templates tied on
	// specificity, so routing cannot be decided.
	ErrAmbiguousTemplateMatch = errors.New("multiple approval templates match with equal specificity")
)

// ApprovalTemplateService manages the sign-off sequence definitions and picks
// the template that governs a given request.
type ApprovalTemplateService struct {
	templateRepo  portsrepo.ApprovalTemplateRepositoryFacade
	permissionSvc portssvc.PermissionSvcFacade
}

// NewApprovalTemplateService creates a new ApprovalTemplateService.
func NewApprovalTemplateService(tr portsrepo.ApprovalTemplateRepositoryFacade, ps portssvc.PermissionSvcFacade) *ApprovalTemplateService {
	return &ApprovalTemplateService{
		templateRepo:  tr,
		permissionSvc: ps,
	}
}

// Ensure ApprovalTemplateService implements the facade interface
var _ portssvc.ApprovalTemplateSvcFacade = (*ApprovalTemplateService)(nil)

// ResolveTemplate selects the template that governs a request for the given
// department and amount. Department-specific templates beat church-wide ones;
// among equally scoped candidates the tightest amount band (highest MinAmount)
// wins. A tie is an error, and when nothing matches the default template is
// used if one exists.
func (s *ApprovalTemplateService) ResolveTemplate(ctx context.Context, departmentID string, amount decimal.Decimal) (*domain.ApprovalTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	templates, err := s.templateRepo.ListActiveTemplates(ctx)
	if err != nil {
		logger.Error("Failed to list active templates for resolution", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list active templates: %w", err)
	}

	var candidates []domain.ApprovalTemplate
	for _, t := range templates {
		if t.Matches(departmentID, amount) {
			candidates = append(candidates, t)
		}
	}

	if len(candidates) == 0 {
		def, err := s.templateRepo.FindDefaultTemplate(ctx)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("No template matched and no default configured",
					slog.String("department_id", departmentID),
					slog.String("amount", amount.String()))
				return nil, ErrNoTemplateConfigured
			}
			return nil, fmt.Errorf("failed to load default template: %w", err)
		}
		if !def.IsActive {
			return nil, ErrNoTemplateConfigured
		}
		return def, nil
	}

	best := pickMostSpecific(candidates)
	if best == nil {
		logger.Warn("Ambiguous template match",
			slog.String("department_id", departmentID),
			slog.String("amount", amount.String()),
			slog.Int("candidates", len(candidates)))
		return nil, ErrAmbiguousTemplateMatch
	}
	return best, nil
}

// pickMostSpecific returns the single most specific template, or nil when the
// top specificity is shared. Department scope dominates; MinAmount breaks ties
// within a scope (a higher floor means a narrower band around the amount).
func pickMostSpecific(candidates []domain.ApprovalTemplate) *domain.ApprovalTemplate {
	if len(candidates) == 1 {
		return &candidates[0]
	}

	scoped := candidates[:0:0]
	for _, t := range candidates {
		if t.DepartmentID != nil {
			scoped = append(scoped, t)
		}
	}
	pool := candidates
	if len(scoped) > 0 {
		pool = scoped
	}
	if len(pool) == 1 {
		return &pool[0]
	}

	var best *domain.ApprovalTemplate
	tied := false
	for i := range pool {
		if best == nil {
			best = &pool[i]
			continue
		}
		cmp := compareMinAmount(pool[i].MinAmount, best.MinAmount)
		if cmp > 0 {
			best = &pool[i]
			tied = false
		} else if cmp == 0 {
			tied = true
		}
	}
	if tied {
		return nil
	}
	return best
}

// compareMinAmount orders nullable floors: nil sorts lowest.
func compareMinAmount(a, b *decimal.Decimal) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Cmp(*b)
	}
}

// CreateTemplate creates a new approval template. Admin only.
func (s *ApprovalTemplateService) CreateTemplate(ctx context.Context, req dto.CreateApprovalTemplateRequest, creatorUserID string) (*domain.ApprovalTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, creatorUserID); err != nil {
		return nil, err
	}

	steps := dto.ToDomainSteps(req.Steps)
	if err := validateTemplateSteps(steps); err != nil {
		return nil, err
	}
	if err := validateAmountBand(req.MinAmount, req.MaxAmount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	template := domain.ApprovalTemplate{
		TemplateID:   uuid.NewString(),
		Name:         req.Name,
		DepartmentID: req.DepartmentID,
		MinAmount:    req.MinAmount,
		MaxAmount:    req.MaxAmount,
		Steps:        steps,
		IsDefault:    false,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.templateRepo.SaveTemplate(ctx, template); err != nil {
		logger.Error("Failed to save approval template", slog.String("error", err.Error()), slog.String("template_name", req.Name))
		return nil, fmt.Errorf("failed to create approval template: %w", err)
	}

	// The default flag moves through the atomic repo swap so two defaults never
	// coexist, even when the new template is created as default.
	if req.IsDefault {
		if err := s.templateRepo.SetDefaultTemplate(ctx, template.TemplateID, creatorUserID); err != nil {
			logger.Error("Failed to flag new template as default", slog.String("error", err.Error()), slog.String("template_id", template.TemplateID))
			return nil, fmt.Errorf("failed to set default template: %w", err)
		}
		template.IsDefault = true
	}

	logger.Info("Approval template created", slog.String("template_id", template.TemplateID), slog.String("created_by", creatorUserID))
	return &template, nil
}

// GetTemplateByID retrieves a template by ID.
func (s *ApprovalTemplateService) GetTemplateByID(ctx context.Context, templateID string) (*domain.ApprovalTemplate, error) {
	template, err := s.templateRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find template %s: %w", templateID, err)
	}
	return template, nil
}

// ListTemplates retrieves every template, inactive ones included.
func (s *ApprovalTemplateService) ListTemplates(ctx context.Context) ([]domain.ApprovalTemplate, error) {
	templates, err := s.templateRepo.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// UpdateTemplate replaces a template's details and steps. Admin only. Requests
// already routed keep their materialized chains; the change affects future
// submissions only.
func (s *ApprovalTemplateService) UpdateTemplate(ctx context.Context, templateID string, req dto.UpdateApprovalTemplateRequest, requestingUserID string) (*domain.ApprovalTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, requestingUserID); err != nil {
		return nil, err
	}

	template, err := s.templateRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	steps := dto.ToDomainSteps(req.Steps)
	if err := validateTemplateSteps(steps); err != nil {
		return nil, err
	}
	if err := validateAmountBand(req.MinAmount, req.MaxAmount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	template.Name = req.Name
	template.DepartmentID = req.DepartmentID
	template.MinAmount = req.MinAmount
	template.MaxAmount = req.MaxAmount
	template.Steps = steps
	template.LastUpdatedAt = now
	template.LastUpdatedBy = requestingUserID

	if err := s.templateRepo.UpdateTemplate(ctx, *template); err != nil {
		logger.Error("Failed to update approval template", slog.String("error", err.Error()), slog.String("template_id", templateID))
		return nil, fmt.Errorf("failed to update approval template: %w", err)
	}

	logger.Info("Approval template updated", slog.String("template_id", templateID), slog.String("updated_by", requestingUserID))
	return template, nil
}

// SetDefaultTemplate atomically moves the default flag to the template. Admin only.
func (s *ApprovalTemplateService) SetDefaultTemplate(ctx context.Context, templateID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, requestingUserID); err != nil {
		return err
	}

	template, err := s.templateRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return err
	}
	if !template.IsActive {
		return fmt.Errorf("%w: inactive template cannot be the default", apperrors.ErrValidation)
	}

	if err := s.templateRepo.SetDefaultTemplate(ctx, templateID, requestingUserID); err != nil {
		logger.Error("Failed to set default template", slog.String("error", err.Error()), slog.String("template_id", templateID))
		return fmt.Errorf("failed to set default template: %w", err)
	}

	logger.Info("Default approval template changed", slog.String("template_id", templateID), slog.String("updated_by", requestingUserID))
	return nil
}

// DeactivateTemplate removes a template from resolution candidates. Admin only.
// In-flight chains built from it are untouched.
func (s *ApprovalTemplateService) DeactivateTemplate(ctx context.Context, templateID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, requestingUserID); err != nil {
		return err
	}

	template, err := s.templateRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return err
	}
	if template.IsDefault {
		return fmt.Errorf("%w: deactivating the default template would leave requests unroutable", apperrors.ErrValidation)
	}

	if err := s.templateRepo.SetTemplateActive(ctx, templateID, false, requestingUserID); err != nil {
		logger.Error("Failed to deactivate template", slog.String("error", err.Error()), slog.String("template_id", templateID))
		return fmt.Errorf("failed to deactivate template: %w", err)
	}

	logger.Info("Approval template deactivated", slog.String("template_id", templateID), slog.String("updated_by", requestingUserID))
	return nil
}

func (s *ApprovalTemplateService) requireAdmin(ctx context.Context, userID string) error {
	isAdmin, err := s.permissionSvc.IsAdmin(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check admin permission: %w", err)
	}
	if !isAdmin {
		return fmt.Errorf("%w: only administrators manage approval templates", apperrors.ErrForbidden)
	}
	return nil
}

// validateTemplateSteps enforces well-formed step sequences: at least one step,
// known levels, and order values unique and ascending from 1.
func validateTemplateSteps(steps []domain.ApprovalStepDef) error {
	if len(steps) == 0 {
		return fmt.Errorf("%w: template must define at least one step", apperrors.ErrValidation)
	}
	seen := make(map[int]bool, len(steps))
	for _, step := range steps {
		if domain.RoleForLevel(step.Level) == "" {
			return fmt.Errorf("%w: unknown approval level %q", apperrors.ErrValidation, step.Level)
		}
		if step.StepOrder < 1 {
			return fmt.Errorf("%w: step order must be positive", apperrors.ErrValidation)
		}
		if seen[step.StepOrder] {
			return fmt.Errorf("%w: duplicate step order %d", apperrors.ErrValidation, step.StepOrder)
		}
		seen[step.StepOrder] = true
	}
	return nil
}

func validateAmountBand(min, max *decimal.Decimal) error {
	if min != nil && min.IsNegative() {
		return fmt.Errorf("%w: minimum amount cannot be negative", apperrors.ErrValidation)
	}
	if min != nil && max != nil && max.LessThan(*min) {
		return fmt.Errorf("%w: maximum amount below minimum amount", apperrors.ErrValidation)
	}
	return nil
}
