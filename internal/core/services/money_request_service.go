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

// ErrInvalidTransition indicates a lifecycle command was issued against a
// request in a status that does not allow it.
var ErrInvalidTransition = errors.New("request status does not allow this operation")

// MoneyRequestService is the lifecycle controller for money requests. It owns
// the draft/submit/withdraw/paid transitions and delegates chain movement to
// the approval chain engine, template selection to the template service, and
// every capability question to the permission service.
type MoneyRequestService struct {
	requestRepo    portsrepo.MoneyRequestRepositoryFacade
	departmentRepo portsrepo.DepartmentRepositoryFacade
	fundRepo       portsrepo.FundRepositoryFacade
	templateSvc    portssvc.ApprovalTemplateSvcFacade
	chainSvc       portssvc.ApprovalChainSvcFacade
	permissionSvc  portssvc.PermissionSvcFacade
}

// NewMoneyRequestService creates a new MoneyRequestService.
func NewMoneyRequestService(
	rr portsrepo.MoneyRequestRepositoryFacade,
	dr portsrepo.DepartmentRepositoryFacade,
	fr portsrepo.FundRepositoryFacade,
	ts portssvc.ApprovalTemplateSvcFacade,
	cs portssvc.ApprovalChainSvcFacade,
	ps portssvc.PermissionSvcFacade,
) *MoneyRequestService {
	return &MoneyRequestService{
		requestRepo:    rr,
		departmentRepo: dr,
		fundRepo:       fr,
		templateSvc:    ts,
		chainSvc:       cs,
		permissionSvc:  ps,
	}
}

// Ensure MoneyRequestService implements the facade interface
var _ portssvc.MoneyRequestSvcFacade = (*MoneyRequestService)(nil)

// CreateDraft creates a request in DRAFT with no chain attached.
func (s *MoneyRequestService) CreateDraft(ctx context.Context, req dto.CreateMoneyRequestRequest, requesterID string) (*domain.MoneyRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	allowed, err := s.permissionSvc.CanCreateRequestForDepartment(ctx, requesterID, req.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check create permission: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("%w: user may not raise requests for department %s", apperrors.ErrForbidden, req.DepartmentID)
	}

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	department, err := s.departmentRepo.FindDepartmentByID(ctx, req.DepartmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: department %s not found", apperrors.ErrValidation, req.DepartmentID)
		}
		return nil, fmt.Errorf("failed to validate department: %w", err)
	}
	if !department.IsActive {
		return nil, fmt.Errorf("%w: department %s is inactive", apperrors.ErrValidation, req.DepartmentID)
	}

	if err := s.validateFund(ctx, req.FundID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	request := domain.MoneyRequest{
		RequestID:    uuid.NewString(),
		DepartmentID: req.DepartmentID,
		RequesterID:  requesterID,
		FundID:       req.FundID,
		Amount:       req.Amount,
		Purpose:      req.Purpose,
		Description:  req.Description,
		Vendor:       req.Vendor,
		Status:       domain.StatusDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requesterID,
			LastUpdatedAt: now,
			LastUpdatedBy: requesterID,
		},
	}

	if err := s.requestRepo.SaveRequest(ctx, request); err != nil {
		logger.Error("Failed to save money request draft", slog.String("error", err.Error()), slog.String("department_id", req.DepartmentID))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	logger.Info("Money request drafted",
		slog.String("request_id", request.RequestID),
		slog.String("department_id", request.DepartmentID),
		slog.String("amount", request.Amount.String()))
	return &request, nil
}

// UpdateDraft edits a request's details. Valid only while the request is DRAFT
// and only for its requester (or an admin).
func (s *MoneyRequestService) UpdateDraft(ctx context.Context, requestID string, req dto.UpdateMoneyRequestRequest, requestingUserID string) (*domain.MoneyRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.requireRequesterOrAdmin(ctx, request, requestingUserID); err != nil {
		return nil, err
	}
	if request.Status != domain.StatusDraft {
		return nil, fmt.Errorf("%w: only drafts can be edited (status %s)", ErrInvalidTransition, request.Status)
	}

	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
		}
		request.Amount = *req.Amount
	}
	if req.FundID != nil {
		if err := s.validateFund(ctx, *req.FundID); err != nil {
			return nil, err
		}
		request.FundID = *req.FundID
	}
	if req.Purpose != nil {
		if *req.Purpose == "" {
			return nil, fmt.Errorf("%w: purpose cannot be empty", apperrors.ErrValidation)
		}
		request.Purpose = *req.Purpose
	}
	if req.Description != nil {
		request.Description = *req.Description
	}
	if req.Vendor != nil {
		request.Vendor = *req.Vendor
	}

	now := time.Now().UTC()
	request.LastUpdatedAt = now
	request.LastUpdatedBy = requestingUserID

	if err := s.requestRepo.UpdateRequest(ctx, *request); err != nil {
		logger.Error("Failed to update money request draft", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return nil, fmt.Errorf("failed to update request: %w", err)
	}
	return request, nil
}

// Submit resolves the governing template, materializes the chain, and moves the
// request to its first awaiting status. Valid only from DRAFT.
func (s *MoneyRequestService) Submit(ctx context.Context, requestID string, requestingUserID string) (*domain.MoneyRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.requireRequesterOrAdmin(ctx, request, requestingUserID); err != nil {
		return nil, err
	}
	if request.Status != domain.StatusDraft {
		return nil, fmt.Errorf("%w: only drafts can be submitted (status %s)", ErrInvalidTransition, request.Status)
	}

	template, err := s.templateSvc.ResolveTemplate(ctx, request.DepartmentID, request.Amount)
	if err != nil {
		// ErrNoTemplateConfigured and ErrAmbiguousTemplateMatch pass through
		// unchanged; the request stays in DRAFT either way.
		return nil, err
	}

	if _, err := s.chainSvc.InitializeChain(ctx, request, template); err != nil {
		return nil, err
	}

	logger.Info("Money request submitted",
		slog.String("request_id", requestID),
		slog.String("template_id", template.TemplateID),
		slog.String("status", string(request.Status)))
	return request, nil
}

// Withdraw soft-deletes a DRAFT request. Submitted requests must be rejected or
// approved through the chain instead.
func (s *MoneyRequestService) Withdraw(ctx context.Context, requestID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if err := s.requireRequesterOrAdmin(ctx, request, requestingUserID); err != nil {
		return err
	}
	if request.Status != domain.StatusDraft {
		return fmt.Errorf("%w: only drafts can be withdrawn (status %s)", ErrInvalidTransition, request.Status)
	}

	now := time.Now().UTC()
	if err := s.requestRepo.MarkRequestDeleted(ctx, requestID, now, requestingUserID); err != nil {
		logger.Error("Failed to withdraw money request", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return fmt.Errorf("failed to withdraw request: %w", err)
	}

	logger.Info("Money request withdrawn", slog.String("request_id", requestID), slog.String("user_id", requestingUserID))
	return nil
}

// Advance records the actor's decision on the request's current chain step.
// Authorization, ordering, and atomicity are the chain engine's concern.
func (s *MoneyRequestService) Advance(ctx context.Context, requestID string, actorID string, decision domain.ApprovalDecision, comments string) (*domain.MoneyRequest, error) {
	return s.chainSvc.Advance(ctx, requestID, actorID, decision, comments)
}

// MarkPaid moves an APPROVED request to PAID and deducts the amount from the
// request's fund. Admin only.
func (s *MoneyRequestService) MarkPaid(ctx context.Context, requestID string, requestingUserID string) (*domain.MoneyRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	isAdmin, err := s.permissionSvc.IsAdmin(ctx, requestingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check admin permission: %w", err)
	}
	if !isAdmin {
		return nil, fmt.Errorf("%w: only administrators mark requests paid", apperrors.ErrForbidden)
	}

	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != domain.StatusApproved {
		return nil, fmt.Errorf("%w: only approved requests can be marked paid (status %s)", ErrInvalidTransition, request.Status)
	}

	now := time.Now().UTC()
	if err := s.requestRepo.UpdateRequestStatus(ctx, requestID, domain.StatusPaid, requestingUserID, now); err != nil {
		logger.Error("Failed to mark request paid", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return nil, fmt.Errorf("failed to mark request paid: %w", err)
	}

	if err := s.fundRepo.AdjustFundBalance(ctx, request.FundID, request.Amount.Neg()); err != nil {
		// The status change already committed; surface the balance failure loudly
		// so bookkeeping can reconcile it.
		logger.Error("Failed to deduct fund balance for paid request",
			slog.String("error", err.Error()),
			slog.String("request_id", requestID),
			slog.String("fund_id", request.FundID))
		return nil, fmt.Errorf("request marked paid but fund deduction failed: %w", err)
	}

	request.Status = domain.StatusPaid
	request.LastUpdatedAt = now
	request.LastUpdatedBy = requestingUserID

	logger.Info("Money request marked paid", slog.String("request_id", requestID), slog.String("fund_id", request.FundID))
	return request, nil
}

// GetRequestByID retrieves a request visible to the requesting user: the
// requester, anyone who holds a role in the request's department, any
// church-wide approver, or an admin.
func (s *MoneyRequestService) GetRequestByID(ctx context.Context, requestID string, requestingUserID string) (*domain.MoneyRequest, error) {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCanView(ctx, request, requestingUserID); err != nil {
		return nil, err
	}
	return request, nil
}

// ListRequestsByDepartment retrieves a token-paginated page of a department's requests.
func (s *MoneyRequestService) ListRequestsByDepartment(ctx context.Context, departmentID string, requestingUserID string, params dto.ListRequestsParams) (*dto.ListRequestsResponse, error) {
	allowed, err := s.permissionSvc.CanCreateRequestForDepartment(ctx, requestingUserID, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check list permission: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("%w: user may not view requests for department %s", apperrors.ErrForbidden, departmentID)
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	requests, nextToken, err := s.requestRepo.ListRequestsByDepartment(ctx, departmentID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests for department %s: %w", departmentID, err)
	}

	responses := make([]dto.MoneyRequestResponse, len(requests))
	for i := range requests {
		responses[i] = dto.ToMoneyRequestResponse(&requests[i])
	}
	return &dto.ListRequestsResponse{Requests: responses, NextToken: nextToken}, nil
}

// GetRequestApprovals retrieves the request's chain rows ordered by sequence.
func (s *MoneyRequestService) GetRequestApprovals(ctx context.Context, requestID string, requestingUserID string) ([]domain.RequestApproval, error) {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCanView(ctx, request, requestingUserID); err != nil {
		return nil, err
	}

	steps, err := s.requestRepo.FindApprovalsByRequestID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load approval chain for request %s: %w", requestID, err)
	}
	return steps, nil
}

// GetPendingApprovalsFor builds the approver's inbox by querying each awaiting
// status the user's roles map to. Department-scoped roles restrict their slice
// of the inbox to their department.
func (s *MoneyRequestService) GetPendingApprovalsFor(ctx context.Context, userID string) ([]domain.PendingApproval, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	roles, err := s.permissionSvc.RolesOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := []domain.PendingApproval{}
	seen := make(map[string]bool)
	for _, level := range domain.KnownApprovalLevels {
		scopes, ok := inboxScopesForLevel(roles, level)
		if !ok {
			continue
		}
		for _, scope := range scopes {
			pending, err := s.requestRepo.ListPendingByLevel(ctx, level, scope)
			if err != nil {
				logger.Error("Failed to load pending approvals",
					slog.String("error", err.Error()),
					slog.String("level", string(level)))
				return nil, fmt.Errorf("failed to load pending approvals: %w", err)
			}
			for _, p := range pending {
				if seen[p.ApprovalID] {
					continue
				}
				seen[p.ApprovalID] = true
				items = append(items, p)
			}
		}
	}
	return items, nil
}

// inboxScopesForLevel maps the user's role assignments to department scopes for
// one level. A nil scope means "all departments"; ok is false when the user
// holds no authority at the level. Admins see every level everywhere.
func inboxScopesForLevel(roles []domain.UserRole, level domain.ApprovalLevel) ([]*string, bool) {
	required := domain.RoleForLevel(level)
	var scopes []*string
	for _, r := range roles {
		if r.Role == domain.RoleAdmin {
			return []*string{nil}, true
		}
		if r.Role != required {
			continue
		}
		if !required.IsDepartmentScoped() {
			return []*string{nil}, true
		}
		if r.DepartmentID != nil {
			scopes = append(scopes, r.DepartmentID)
		}
	}
	return scopes, len(scopes) > 0
}

func (s *MoneyRequestService) validateFund(ctx context.Context, fundID string) error {
	fund, err := s.fundRepo.FindFundByID(ctx, fundID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: fund %s not found", apperrors.ErrValidation, fundID)
		}
		return fmt.Errorf("failed to validate fund: %w", err)
	}
	if !fund.IsActive {
		return fmt.Errorf("%w: fund %s is inactive", apperrors.ErrValidation, fundID)
	}
	return nil
}

func (s *MoneyRequestService) requireRequesterOrAdmin(ctx context.Context, request *domain.MoneyRequest, userID string) error {
	if request.RequesterID == userID {
		return nil
	}
	isAdmin, err := s.permissionSvc.IsAdmin(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check admin permission: %w", err)
	}
	if !isAdmin {
		return fmt.Errorf("%w: only the requester may modify this request", apperrors.ErrForbidden)
	}
	return nil
}

func (s *MoneyRequestService) requireCanView(ctx context.Context, request *domain.MoneyRequest, userID string) error {
	if request.RequesterID == userID {
		return nil
	}
	allowed, err := s.permissionSvc.CanCreateRequestForDepartment(ctx, userID, request.DepartmentID)
	if err != nil {
		return fmt.Errorf("failed to check view permission: %w", err)
	}
	if !allowed {
		return fmt.Errorf("%w: user may not view this request", apperrors.ErrForbidden)
	}
	return nil
}
