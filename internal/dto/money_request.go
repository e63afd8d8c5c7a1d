package dto

import (
	"time"

	"github.com/faithledger/church_admin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateMoneyRequestRequest defines data for drafting a money request.
type CreateMoneyRequestRequest struct {
	DepartmentID string          `json:"departmentID" binding:"required"`
	FundID       string          `json:"fundID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Purpose      string          `json:"purpose" binding:"required"`
	Description  string          `json:"description"`
	Vendor       string          `json:"vendor"`
}

// UpdateMoneyRequestRequest defines fields editable while a request is a draft.
type UpdateMoneyRequestRequest struct {
	FundID      *string          `json:"fundID"`
	Amount      *decimal.Decimal `json:"amount"`
	Purpose     *string          `json:"purpose"`
	Description *string          `json:"description"`
	Vendor      *string          `json:"vendor"`
}

// AdvanceChainRequest defines an approver's decision on the current step.
type AdvanceChainRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
	Comments string `json:"comments"`
}

// ListRequestsParams defines query parameters for listing money requests.
type ListRequestsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// MoneyRequestResponse defines data returned for a money request.
type MoneyRequestResponse struct {
	RequestID       string          `json:"requestID"`
	DepartmentID    string          `json:"departmentID"`
	RequesterID     string          `json:"requesterID"`
	FundID          string          `json:"fundID"`
	Amount          decimal.Decimal `json:"amount"`
	Purpose         string          `json:"purpose"`
	Description     string          `json:"description,omitempty"`
	Vendor          string          `json:"vendor,omitempty"`
	Status          string          `json:"status"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	ApprovedAt      *time.Time      `json:"approvedAt,omitempty"`
	RejectedAt      *time.Time      `json:"rejectedAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ToMoneyRequestResponse converts domain.MoneyRequest to DTO.
func ToMoneyRequestResponse(r *domain.MoneyRequest) MoneyRequestResponse {
	return MoneyRequestResponse{
		RequestID:       r.RequestID,
		DepartmentID:    r.DepartmentID,
		RequesterID:     r.RequesterID,
		FundID:          r.FundID,
		Amount:          r.Amount,
		Purpose:         r.Purpose,
		Description:     r.Description,
		Vendor:          r.Vendor,
		Status:          string(r.Status),
		RejectionReason: r.RejectionReason,
		ApprovedAt:      r.ApprovedAt,
		RejectedAt:      r.RejectedAt,
		CreatedAt:       r.CreatedAt,
	}
}

// ListRequestsResponse wraps a token-paginated list of money requests.
type ListRequestsResponse struct {
	Requests  []MoneyRequestResponse `json:"requests"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// RequestApprovalResponse defines data returned for one chain step.
type RequestApprovalResponse struct {
	ApprovalID    string     `json:"approvalID"`
	Level         string     `json:"approvalLevel"`
	ApproverID    *string    `json:"approverID,omitempty"`
	Status        string     `json:"status"`
	OrderSequence int        `json:"orderSequence"`
	DecidedAt     *time.Time `json:"decidedAt,omitempty"`
	Comments      string     `json:"comments,omitempty"`
}

// ToRequestApprovalResponses converts chain rows to DTOs.
func ToRequestApprovalResponses(steps []domain.RequestApproval) []RequestApprovalResponse {
	responses := make([]RequestApprovalResponse, len(steps))
	for i, s := range steps {
		responses[i] = RequestApprovalResponse{
			ApprovalID:    s.ApprovalID,
			Level:         string(s.Level),
			ApproverID:    s.ApproverID,
			Status:        string(s.Status),
			OrderSequence: s.OrderSequence,
			DecidedAt:     s.DecidedAt,
			Comments:      s.Comments,
		}
	}
	return responses
}

// PendingApprovalResponse is one approver inbox item.
type PendingApprovalResponse struct {
	RequestID      string          `json:"requestID"`
	ApprovalID     string          `json:"approvalID"`
	Level          string          `json:"approvalLevel"`
	Amount         decimal.Decimal `json:"amount"`
	Purpose        string          `json:"purpose"`
	DepartmentName string          `json:"departmentName"`
	RequesterName  string          `json:"requesterName"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ToPendingApprovalResponses converts inbox items to DTOs.
func ToPendingApprovalResponses(items []domain.PendingApproval) []PendingApprovalResponse {
	responses := make([]PendingApprovalResponse, len(items))
	for i, p := range items {
		responses[i] = PendingApprovalResponse{
			RequestID:      p.RequestID,
			ApprovalID:     p.ApprovalID,
			Level:          string(p.Level),
			Amount:         p.Amount,
			Purpose:        p.Purpose,
			DepartmentName: p.DepartmentName,
			RequesterName:  p.RequesterName,
			CreatedAt:      p.CreatedAt,
		}
	}
	return responses
}
