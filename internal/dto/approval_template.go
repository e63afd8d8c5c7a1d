package dto

import (
	"github.com/faithledger/church_admin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ApprovalStepDefDTO is one step definition inside a template payload.
type ApprovalStepDefDTO struct {
	Level        string `json:"level" binding:"required,approvallevel"`
	Required     bool   `json:"required"`
	StepOrder    int    `json:"stepOrder" binding:"required,min=1"`
	TimeoutHours int    `json:"timeoutHours" binding:"omitempty,min=1"`
}

// CreateApprovalTemplateRequest defines data for creating a template.
type CreateApprovalTemplateRequest struct {
	Name         string               `json:"name" binding:"required"`
	DepartmentID *string              `json:"departmentID"`
	MinAmount    *decimal.Decimal     `json:"minAmount"`
	MaxAmount    *decimal.Decimal     `json:"maxAmount"`
	Steps        []ApprovalStepDefDTO `json:"steps" binding:"required,min=1,dive"`
	IsDefault    bool                 `json:"isDefault"`
}

// UpdateApprovalTemplateRequest replaces a template's details and steps.
type UpdateApprovalTemplateRequest struct {
	Name         string               `json:"name" binding:"required"`
	DepartmentID *string              `json:"departmentID"`
	MinAmount    *decimal.Decimal     `json:"minAmount"`
	MaxAmount    *decimal.Decimal     `json:"maxAmount"`
	Steps        []ApprovalStepDefDTO `json:"steps" binding:"required,min=1,dive"`
}

// ToDomainSteps converts step definition DTOs into domain step definitions.
func ToDomainSteps(steps []ApprovalStepDefDTO) []domain.ApprovalStepDef {
	defs := make([]domain.ApprovalStepDef, len(steps))
	for i, s := range steps {
		defs[i] = domain.ApprovalStepDef{
			Level:        domain.ApprovalLevel(s.Level),
			Required:     s.Required,
			StepOrder:    s.StepOrder,
			TimeoutHours: s.TimeoutHours,
		}
	}
	return defs
}

// ApprovalTemplateResponse defines data returned for a template.
type ApprovalTemplateResponse struct {
	TemplateID   string               `json:"templateID"`
	Name         string               `json:"name"`
	DepartmentID *string              `json:"departmentID,omitempty"`
	MinAmount    *decimal.Decimal     `json:"minAmount,omitempty"`
	MaxAmount    *decimal.Decimal     `json:"maxAmount,omitempty"`
	Steps        []ApprovalStepDefDTO `json:"steps"`
	IsDefault    bool                 `json:"isDefault"`
	IsActive     bool                 `json:"isActive"`
}

// ToApprovalTemplateResponse converts domain.ApprovalTemplate to DTO.
func ToApprovalTemplateResponse(t *domain.ApprovalTemplate) ApprovalTemplateResponse {
	steps := make([]ApprovalStepDefDTO, len(t.Steps))
	for i, s := range t.Steps {
		steps[i] = ApprovalStepDefDTO{
			Level:        string(s.Level),
			Required:     s.Required,
			StepOrder:    s.StepOrder,
			TimeoutHours: s.TimeoutHours,
		}
	}
	return ApprovalTemplateResponse{
		TemplateID:   t.TemplateID,
		Name:         t.Name,
		DepartmentID: t.DepartmentID,
		MinAmount:    t.MinAmount,
		MaxAmount:    t.MaxAmount,
		Steps:        steps,
		IsDefault:    t.IsDefault,
		IsActive:     t.IsActive,
	}
}

// ListApprovalTemplatesResponse wraps a list of templates.
type ListApprovalTemplatesResponse struct {
	Templates []ApprovalTemplateResponse `json:"templates"`
}

// ToListApprovalTemplatesResponse converts templates to DTO.
func ToListApprovalTemplatesResponse(ts []domain.ApprovalTemplate) ListApprovalTemplatesResponse {
	list := make([]ApprovalTemplateResponse, len(ts))
	for i, t := range ts {
		list[i] = ToApprovalTemplateResponse(&t)
	}
	return ListApprovalTemplatesResponse{Templates: list}
}
