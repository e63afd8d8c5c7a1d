package repositories

import (
	"context"
	"time"

	"github.com/faithledger/church_admin_app/internal/core/domain"
)

// DecideStepParams carries one step decision together with the request status
// it implies. The repository applies both in a single transaction, guarded by
// an optimistic re-check that the step is still pending.
type DecideStepParams struct {
	RequestID       string
	ApprovalID      string
	Decision        domain.ApprovalDecision
	ApproverID      string
	Comments        string
	DecidedAt       time.Time
	NewStatus       domain.RequestStatus
	RejectionReason string // Only set when NewStatus is REJECTED
}

// MoneyRequestReader defines read operations for money request data
type MoneyRequestReader interface {
	// FindRequestByID retrieves a specific money request by its ID.
	FindRequestByID(ctx context.Context, requestID string) (*domain.MoneyRequest, error)

	// ListRequestsByDepartment retrieves a token-paginated list of a department's requests.
	ListRequestsByDepartment(ctx context.Context, departmentID string, limit int, nextToken *string) ([]domain.MoneyRequest, *string, error)

	// ListRequestsByRequester retrieves all requests created by one user.
	ListRequestsByRequester(ctx context.Context, requesterID string) ([]domain.MoneyRequest, error)

	// ListPendingByLevel retrieves inbox items for requests whose status awaits
	// the given level, optionally restricted to one department.
	ListPendingByLevel(ctx context.Context, level domain.ApprovalLevel, departmentID *string) ([]domain.PendingApproval, error)
}

// MoneyRequestWriter defines write operations for money request data
type MoneyRequestWriter interface {
	// SaveRequest persists a new money request.
	SaveRequest(ctx context.Context, request domain.MoneyRequest) error

	// UpdateRequest updates the mutable fields of a draft request.
	UpdateRequest(ctx context.Context, request domain.MoneyRequest) error

	// UpdateRequestStatus sets the stored status of a request. Used only for
	// transitions that carry no step write (mark paid).
	UpdateRequestStatus(ctx context.Context, requestID string, status domain.RequestStatus, updatedBy string, updatedAt time.Time) error

	// MarkRequestDeleted marks a request as deleted (soft delete; withdraw).
	MarkRequestDeleted(ctx context.Context, requestID string, deletedAt time.Time, deletedBy string) error
}

// ApprovalChainManager defines the chain-step persistence the engine drives.
type ApprovalChainManager interface {
	// SaveApprovalStepsAndSetStatus materializes the chain rows and moves the
	// request to the first awaiting status in one transaction. Returns
	// apperrors.ErrDuplicate if any step row already exists for the request.
	SaveApprovalStepsAndSetStatus(ctx context.Context, requestID string, steps []domain.RequestApproval, status domain.RequestStatus, updatedBy string, updatedAt time.Time) error

	// FindApprovalsByRequestID retrieves all chain rows for a request ordered
	// by order sequence.
	FindApprovalsByRequestID(ctx context.Context, requestID string) ([]domain.RequestApproval, error)

	// DecideStepAndSetStatus records a step decision and the derived request
	// status atomically. Returns apperrors.ErrConflict if the step was no
	// longer pending when the write was attempted.
	DecideStepAndSetStatus(ctx context.Context, params DecideStepParams) error
}

// MoneyRequestRepositoryFacade combines all money-request repository interfaces
type MoneyRequestRepositoryFacade interface {
	MoneyRequestReader
	MoneyRequestWriter
	ApprovalChainManager
}

// MoneyRequestRepositoryWithTx extends the facade with transaction capabilities
type MoneyRequestRepositoryWithTx interface {
	MoneyRequestRepositoryFacade
	TransactionManager
}
