package services

import (
	"context"

	"github.com/faithledger/church_admin_app/internal/core/domain"
	"github.com/faithledger/church_admin_app/internal/dto"
	"github.com/shopspring/decimal"
)

// ApprovalTemplateSvcFacade defines template configuration and resolution.
type ApprovalTemplateSvcFacade interface {
	// ResolveTemplate selects the most specific active template for a
	// department and amount, falling back to the default template.
	ResolveTemplate(ctx context.Context, departmentID string, amount decimal.Decimal) (*domain.ApprovalTemplate, error)

	// CreateTemplate creates a new approval template.
	CreateTemplate(ctx context.Context, req dto.CreateApprovalTemplateRequest, creatorUserID string) (*domain.ApprovalTemplate, error)

	// GetTemplateByID retrieves a template.
	GetTemplateByID(ctx context.Context, templateID string) (*domain.ApprovalTemplate, error)

	// ListTemplates retrieves all templates.
	ListTemplates(ctx context.Context) ([]domain.ApprovalTemplate, error)

	// UpdateTemplate replaces a template's details and steps.
	UpdateTemplate(ctx context.Context, templateID string, req dto.UpdateApprovalTemplateRequest, requestingUserID string) (*domain.ApprovalTemplate, error)

	// SetDefaultTemplate atomically moves the default flag to the template.
	SetDefaultTemplate(ctx context.Context, templateID string, requestingUserID string) error

	// DeactivateTemplate removes a template from resolution candidates.
	DeactivateTemplate(ctx context.Context, templateID string, requestingUserID string) error
}

// ApprovalChainSvcFacade is the approval chain engine: it materializes chains
// and drives the sequential, role-gated step state machine.
type ApprovalChainSvcFacade interface {
	// InitializeChain creates the request's step rows from the template.
	InitializeChain(ctx context.Context, request *domain.MoneyRequest, template *domain.ApprovalTemplate) ([]domain.RequestApproval, error)

	// CurrentStep returns the lowest-ordered pending step, or nil.
	CurrentStep(ctx context.Context, requestID string) (*domain.RequestApproval, error)

	// CanAct reports whether the user may decide the request's current step.
	CanAct(ctx context.Context, userID string, request *domain.MoneyRequest) (bool, error)

	// Advance validates authorization and ordering, records the decision, and
	// updates the request status atomically.
	Advance(ctx context.Context, requestID string, actorID string, decision domain.ApprovalDecision, comments string) (*domain.MoneyRequest, error)
}

// PermissionSvcFacade is the capability oracle consumed by the engine, the
// lifecycle controller, and the handlers. Role storage is external to it.
type PermissionSvcFacade interface {
	// RolesOf returns every role assignment the user holds.
	RolesOf(ctx context.Context, userID string) ([]domain.UserRole, error)

	// CanCreateRequestForDepartment reports create capability for a department.
	CanCreateRequestForDepartment(ctx context.Context, userID string, departmentID string) (bool, error)

	// CanApproveAtLevel reports approve capability at a level for a department.
	CanApproveAtLevel(ctx context.Context, userID string, level domain.ApprovalLevel, departmentID string) (bool, error)

	// HasOverride reports whether the user holds blanket approval authority.
	HasOverride(ctx context.Context, userID string) (bool, error)

	// IsAdmin reports whether the user holds the admin role.
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// Notifier delivers request status-change intents. Implementations are
// collaborators (SMTP, logging); failures must never fail the triggering call.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, event domain.RequestStatusEvent) error
}
