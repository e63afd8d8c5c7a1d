package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApprovalLevel names the role whose sign-off a chain step requires.
type ApprovalLevel string

const (
	LevelDepartmentTreasurer ApprovalLevel = "DEPARTMENT_TREASURER"
	LevelHeadOfDepartment    ApprovalLevel = "HEAD_OF_DEPARTMENT"
	LevelFinanceElder        ApprovalLevel = "FINANCE_ELDER"
	LevelGeneralSecretary    ApprovalLevel = "GENERAL_SECRETARY"
	LevelPastor              ApprovalLevel = "PASTOR"
)

// KnownApprovalLevels lists every level a template step may reference.
var KnownApprovalLevels = []ApprovalLevel{
	LevelDepartmentTreasurer,
	LevelHeadOfDepartment,
	LevelFinanceElder,
	LevelGeneralSecretary,
	LevelPastor,
}

// RoleForLevel maps an approval level to the role authorized to decide it.
func RoleForLevel(level ApprovalLevel) Role {
	switch level {
	case LevelDepartmentTreasurer:
		return RoleDepartmentTreasurer
	case LevelHeadOfDepartment:
		return RoleHeadOfDepartment
	case LevelFinanceElder:
		return RoleFinanceElder
	case LevelGeneralSecretary:
		return RoleGeneralSecretary
	case LevelPastor:
		return RolePastor
	}
	return ""
}

// ApprovalStepDef is one step in a template's ordered sign-off sequence.
type ApprovalStepDef struct {
	Level        ApprovalLevel `json:"level"`
	Required     bool          `json:"required"`
	StepOrder    int           `json:"stepOrder"` // Unique within the template, ascending from 1
	TimeoutHours int           `json:"timeoutHours"`
}

// ApprovalTemplate is a reusable definition of the sign-off sequence for a
// class of money requests, scoped by department and/or amount band.
type ApprovalTemplate struct {
	TemplateID   string            `json:"templateID"` // Primary Key (UUID)
	Name         string            `json:"name"`
	DepartmentID *string           `json:"departmentID,omitempty"` // Nil = any department
	MinAmount    *decimal.Decimal  `json:"minAmount,omitempty"`    // Nil = unbounded below
	MaxAmount    *decimal.Decimal  `json:"maxAmount,omitempty"`    // Nil = unbounded above
	Steps        []ApprovalStepDef `json:"steps"`
	IsDefault    bool              `json:"isDefault"`
	IsActive     bool              `json:"isActive"`
	AuditFields
}

// Matches reports whether this template's scope covers the given department and
// amount. Nil bounds are open.
func (t ApprovalTemplate) Matches(departmentID string, amount decimal.Decimal) bool {
	if !t.IsActive {
		return false
	}
	if t.DepartmentID != nil && *t.DepartmentID != departmentID {
		return false
	}
	if t.MinAmount != nil && amount.LessThan(*t.MinAmount) {
		return false
	}
	if t.MaxAmount != nil && amount.GreaterThan(*t.MaxAmount) {
		return false
	}
	return true
}

// ApprovalStatus is the decision state of one materialized chain step.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// ApprovalDecision is the action an approver takes on the current step.
type ApprovalDecision string

const (
	DecisionApproved ApprovalDecision = "APPROVED"
	DecisionRejected ApprovalDecision = "REJECTED"
)

// RequestApproval is one materialized step of a request's approval chain.
// Rows for one request carry unique, ascending order sequences copied from the
// template; exactly the lowest-ordered undecided row is actionable at a time.
type RequestApproval struct {
	ApprovalID    string         `json:"approvalID"` // Primary Key (UUID)
	RequestID     string         `json:"requestID"`
	Level         ApprovalLevel  `json:"level"`
	ApproverID    *string        `json:"approverID,omitempty"` // Nil until decided
	Status        ApprovalStatus `json:"status"`
	OrderSequence int            `json:"orderSequence"`
	DecidedAt     *time.Time     `json:"decidedAt,omitempty"`
	Comments      string         `json:"comments"`
	AuditFields
}

// CurrentStep returns the pending step with the lowest order sequence, or nil
// when the chain is absent or fully decided. Steps need not be pre-sorted.
func CurrentStep(steps []RequestApproval) *RequestApproval {
	var current *RequestApproval
	for i := range steps {
		if steps[i].Status != ApprovalPending {
			continue
		}
		if current == nil || steps[i].OrderSequence < current.OrderSequence {
			current = &steps[i]
		}
	}
	return current
}

// ChainRejected reports whether any step of the chain carries a rejection.
func ChainRejected(steps []RequestApproval) bool {
	for i := range steps {
		if steps[i].Status == ApprovalRejected {
			return true
		}
	}
	return false
}
