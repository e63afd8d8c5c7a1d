package services

import (
	"context"

	"github.com/faithledger/church_admin_app/internal/core/domain"
	"github.com/faithledger/church_admin_app/internal/dto"
)

// MoneyRequestReaderSvc defines read operations on money requests.
type MoneyRequestReaderSvc interface {
	// GetRequestByID retrieves a request.
	GetRequestByID(ctx context.Context, requestID string, requestingUserID string) (*domain.MoneyRequest, error)

	// ListRequestsByDepartment retrieves a token-paginated list of a department's requests.
	ListRequestsByDepartment(ctx context.Context, departmentID string, requestingUserID string, params dto.ListRequestsParams) (*dto.ListRequestsResponse, error)

	// GetRequestApprovals retrieves a request's chain rows ordered by sequence.
	GetRequestApprovals(ctx context.Context, requestID string, requestingUserID string) ([]domain.RequestApproval, error)

	// GetPendingApprovalsFor returns the approver's inbox: every request whose
	// current step the user may act on.
	GetPendingApprovalsFor(ctx context.Context, userID string) ([]domain.PendingApproval, error)
}

// MoneyRequestWriterSvc defines lifecycle commands on money requests.
type MoneyRequestWriterSvc interface {
	// CreateDraft creates a request in DRAFT with no chain.
	CreateDraft(ctx context.Context, req dto.CreateMoneyRequestRequest, requesterID string) (*domain.MoneyRequest, error)

	// UpdateDraft edits a request; valid only while DRAFT.
	UpdateDraft(ctx context.Context, requestID string, req dto.UpdateMoneyRequestRequest, requestingUserID string) (*domain.MoneyRequest, error)

	// Submit resolves the template, materializes the chain, and moves the
	// request to the first awaiting status. Valid only from DRAFT.
	Submit(ctx context.Context, requestID string, requestingUserID string) (*domain.MoneyRequest, error)

	// Withdraw soft-deletes a DRAFT request.
	Withdraw(ctx context.Context, requestID string, requestingUserID string) error

	// Advance records the acting user's decision on the current chain step.
	Advance(ctx context.Context, requestID string, actorID string, decision domain.ApprovalDecision, comments string) (*domain.MoneyRequest, error)

	// MarkPaid moves an APPROVED request to PAID (admin only).
	MarkPaid(ctx context.Context, requestID string, requestingUserID string) (*domain.MoneyRequest, error)
}

// MoneyRequestSvcFacade combines money-request service interfaces.
type MoneyRequestSvcFacade interface {
	MoneyRequestReaderSvc
	MoneyRequestWriterSvc
}
