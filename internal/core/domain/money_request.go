package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestStatus is the lifecycle state of a money request. The PENDING_* values
// encode whose turn it is in the approval chain; they are always derived from
// chain state via DeriveRequestStatus, never written independently of it.
type RequestStatus string

const (
	StatusDraft                      RequestStatus = "DRAFT"
	StatusSubmitted                  RequestStatus = "SUBMITTED"
	StatusPendingDepartmentTreasurer RequestStatus = "PENDING_DEPARTMENT_TREASURER"
	StatusPendingHeadOfDepartment    RequestStatus = "PENDING_HEAD_OF_DEPARTMENT"
	StatusPendingFinanceElder        RequestStatus = "PENDING_FINANCE_ELDER"
	StatusPendingGeneralSecretary    RequestStatus = "PENDING_GENERAL_SECRETARY"
	StatusPendingPastor              RequestStatus = "PENDING_PASTOR"
	StatusApproved                   RequestStatus = "APPROVED"
	StatusRejected                   RequestStatus = "REJECTED"
	StatusPaid                       RequestStatus = "PAID"
)

// StatusForLevel returns the awaiting-approval status for a chain level.
func StatusForLevel(level ApprovalLevel) RequestStatus {
	return RequestStatus("PENDING_" + string(level))
}

// IsAwaitingApproval reports whether the status encodes an in-progress chain.
func (s RequestStatus) IsAwaitingApproval() bool {
	switch s {
	case StatusPendingDepartmentTreasurer, StatusPendingHeadOfDepartment,
		StatusPendingFinanceElder, StatusPendingGeneralSecretary, StatusPendingPastor:
		return true
	}
	return false
}

// IsTerminal reports whether no further chain action can change the status.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusPaid
}

// MoneyRequest is a department's funding request routed through its approval chain.
type MoneyRequest struct {
	RequestID       string          `json:"requestID"` // Primary Key (UUID)
	DepartmentID    string          `json:"departmentID"`
	RequesterID     string          `json:"requesterID"`
	FundID          string          `json:"fundID"`
	Amount          decimal.Decimal `json:"amount"` // Always > 0
	Purpose         string          `json:"purpose"`
	Description     string          `json:"description"`
	Vendor          string          `json:"vendor"`
	Status          RequestStatus   `json:"status"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	ApprovedAt      *time.Time      `json:"approvedAt,omitempty"`
	RejectedAt      *time.Time      `json:"rejectedAt,omitempty"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Soft delete; rows are never physically removed
}

// DeriveRequestStatus computes the request status implied by its chain.
// A rejected step dominates; otherwise the lowest pending step names whose turn
// it is; a fully approved chain means APPROVED. Without a chain the stored
// draft/submitted distinction stands, and PAID (set after approval) is sticky.
func DeriveRequestStatus(stored RequestStatus, steps []RequestApproval) RequestStatus {
	if stored == StatusPaid {
		return StatusPaid
	}
	if len(steps) == 0 {
		if stored == StatusSubmitted {
			return StatusSubmitted
		}
		return StatusDraft
	}
	if ChainRejected(steps) {
		return StatusRejected
	}
	if current := CurrentStep(steps); current != nil {
		return StatusForLevel(current.Level)
	}
	return StatusApproved
}
