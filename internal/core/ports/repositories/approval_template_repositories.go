package repositories

import (
	"context"

	"github.com/faithledger/church_admin_app/internal/core/domain"
)

// ApprovalTemplateReader defines read operations for approval template data
type ApprovalTemplateReader interface {
	// FindTemplateByID retrieves a specific template by its ID.
	FindTemplateByID(ctx context.Context, templateID string) (*domain.ApprovalTemplate, error)

	// ListActiveTemplates retrieves every active template.
	ListActiveTemplates(ctx context.Context) ([]domain.ApprovalTemplate, error)

	// ListTemplates retrieves all templates including inactive ones.
	ListTemplates(ctx context.Context) ([]domain.ApprovalTemplate, error)

	// FindDefaultTemplate retrieves the template flagged as default, or
	// apperrors.ErrNotFound when none is flagged.
	FindDefaultTemplate(ctx context.Context) (*domain.ApprovalTemplate, error)
}

// ApprovalTemplateWriter defines write operations for approval template data
type ApprovalTemplateWriter interface {
	// SaveTemplate persists a new template with its step definitions.
	SaveTemplate(ctx context.Context, template domain.ApprovalTemplate) error

	// UpdateTemplate replaces a template's details and step definitions.
	UpdateTemplate(ctx context.Context, template domain.ApprovalTemplate) error

	// SetDefaultTemplate flags the given template as default, clearing the
	// previous default in the same transaction.
	SetDefaultTemplate(ctx context.Context, templateID string, updatedBy string) error

	// SetTemplateActive toggles a template's active flag.
	SetTemplateActive(ctx context.Context, templateID string, active bool, updatedBy string) error
}

// ApprovalTemplateRepositoryFacade combines all template-related repository interfaces
type ApprovalTemplateRepositoryFacade interface {
	ApprovalTemplateReader
	ApprovalTemplateWriter
}
