package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/faithledger/church_admin_app/internal/apperrors"
	"github.com/faithledger/church_admin_app/internal/core/domain"
	portsrepo "github.com/faithledger/church_admin_app/internal/core/ports/repositories"
	portssvc "github.com/faithledger/church_admin_app/internal/core/ports/services"
	"github.com/faithledger/church_admin_app/internal/middleware"
	"github.com/google/uuid"
)

// Sentinel errors surfaced by the approval chain engine.
var (
	// ErrChainAlreadyExists indicates step rows already exist for the request.
	ErrChainAlreadyExists = errors.New("approval chain already initialized for this request")

	// ErrNoPendingStep indicates the chain is terminal or absent; nothing to decide.
	ErrNoPendingStep = errors.New("request has no pending approval step")

	// ErrReasonRequired indicates a rejection arrived without a reason.
	ErrReasonRequired = errors.New("a reason is required when rejecting a request")

	// ErrStepAlreadyDecided indicates another approver decided the step first.
	ErrStepAlreadyDecided = errors.New("this approval step has already been decided")
)

// ApprovalChainService materializes template steps onto requests and drives the
// sequential sign-off state machine. All capability questions go through the
// permission service; all chain writes go through single atomic repo calls.
type ApprovalChainService struct {
	requestRepo   portsrepo.MoneyRequestRepositoryFacade
	permissionSvc portssvc.PermissionSvcFacade
	notifier      portssvc.Notifier
}

// NewApprovalChainService creates a new ApprovalChainService.
func NewApprovalChainService(rr portsrepo.MoneyRequestRepositoryFacade, ps portssvc.PermissionSvcFacade, n portssvc.Notifier) *ApprovalChainService {
	return &ApprovalChainService{
		requestRepo:   rr,
		permissionSvc: ps,
		notifier:      n,
	}
}

// Ensure ApprovalChainService implements the facade interface
var _ portssvc.ApprovalChainSvcFacade = (*ApprovalChainService)(nil)

// InitializeChain copies the template's required steps onto the request as
// pending rows and moves the request to the first awaiting status, all in one
// transaction. Initializing twice returns ErrChainAlreadyExists.
func (s *ApprovalChainService) InitializeChain(ctx context.Context, request *domain.MoneyRequest, template *domain.ApprovalTemplate) ([]domain.RequestApproval, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	steps := materializeSteps(request, template)
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: template %s has no required steps", apperrors.ErrValidation, template.TemplateID)
	}

	firstStatus := domain.StatusForLevel(steps[0].Level)
	now := time.Now().UTC()

	err := s.requestRepo.SaveApprovalStepsAndSetStatus(ctx, request.RequestID, steps, firstStatus, request.RequesterID, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Chain initialization raced a previous submit", slog.String("request_id", request.RequestID))
			return nil, ErrChainAlreadyExists
		}
		logger.Error("Failed to materialize approval chain", slog.String("error", err.Error()), slog.String("request_id", request.RequestID))
		return nil, fmt.Errorf("failed to initialize approval chain: %w", err)
	}

	request.Status = firstStatus
	logger.Info("Approval chain initialized",
		slog.String("request_id", request.RequestID),
		slog.String("template_id", template.TemplateID),
		slog.Int("steps", len(steps)))
	return steps, nil
}

// materializeSteps builds pending chain rows from the template's required
// steps, renumbered into a gapless ascending sequence.
func materializeSteps(request *domain.MoneyRequest, template *domain.ApprovalTemplate) []domain.RequestApproval {
	defs := make([]domain.ApprovalStepDef, 0, len(template.Steps))
	for _, def := range template.Steps {
		if def.Required {
			defs = append(defs, def)
		}
	}
	sortStepDefs(defs)

	now := time.Now().UTC()
	steps := make([]domain.RequestApproval, len(defs))
	for i, def := range defs {
		steps[i] = domain.RequestApproval{
			ApprovalID:    uuid.NewString(),
			RequestID:     request.RequestID,
			Level:         def.Level,
			Status:        domain.ApprovalPending,
			OrderSequence: i + 1,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     request.RequesterID,
				LastUpdatedAt: now,
				LastUpdatedBy: request.RequesterID,
			},
		}
	}
	return steps
}

func sortStepDefs(defs []domain.ApprovalStepDef) {
	for i := 1; i < len(defs); i++ {
		for j := i; j > 0 && defs[j].StepOrder < defs[j-1].StepOrder; j-- {
			defs[j], defs[j-1] = defs[j-1], defs[j]
		}
	}
}

// CurrentStep returns the lowest-ordered pending step of the request's chain,
// or nil when the chain is absent or fully decided.
func (s *ApprovalChainService) CurrentStep(ctx context.Context, requestID string) (*domain.RequestApproval, error) {
	steps, err := s.requestRepo.FindApprovalsByRequestID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load approval chain for request %s: %w", requestID, err)
	}
	return domain.CurrentStep(steps), nil
}

// CanAct reports whether the user may decide the request's current step. This
// is the same check Advance performs, exposed so handlers can gate UI affordances.
func (s *ApprovalChainService) CanAct(ctx context.Context, userID string, request *domain.MoneyRequest) (bool, error) {
	current, err := s.CurrentStep(ctx, request.RequestID)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, nil
	}
	return s.canDecideStep(ctx, userID, current, request.DepartmentID)
}

func (s *ApprovalChainService) canDecideStep(ctx context.Context, userID string, step *domain.RequestApproval, departmentID string) (bool, error) {
	override, err := s.permissionSvc.HasOverride(ctx, userID)
	if err != nil {
		return false, err
	}
	if override {
		return true, nil
	}
	return s.permissionSvc.CanApproveAtLevel(ctx, userID, step.Level, departmentID)
}

// Advance records the actor's decision on the request's current step and moves
// the request status accordingly. Approval hands the chain to the next step or
// finishes it; rejection short-circuits the chain and requires a reason. The
// decision and the status change commit atomically, and a concurrent decision
// on the same step surfaces as ErrStepAlreadyDecided for the loser.
func (s *ApprovalChainService) Advance(ctx context.Context, requestID string, actorID string, decision domain.ApprovalDecision, comments string) (*domain.MoneyRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	steps, err := s.requestRepo.FindApprovalsByRequestID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load approval chain for request %s: %w", requestID, err)
	}

	current := domain.CurrentStep(steps)
	if current == nil {
		return nil, ErrNoPendingStep
	}

	allowed, err := s.canDecideStep(ctx, actorID, current, request.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		logger.Warn("Unauthorized approval attempt",
			slog.String("request_id", requestID),
			slog.String("actor_id", actorID),
			slog.String("level", string(current.Level)))
		return nil, fmt.Errorf("%w: user lacks the role for level %s", apperrors.ErrForbidden, current.Level)
	}

	var newStatus domain.RequestStatus
	var rejectionReason string
	switch decision {
	case domain.DecisionApproved:
		newStatus = statusAfterApproval(steps, current)
	case domain.DecisionRejected:
		if strings.TrimSpace(comments) == "" {
			return nil, ErrReasonRequired
		}
		newStatus = domain.StatusRejected
		rejectionReason = comments
	default:
		return nil, fmt.Errorf("%w: unknown decision %q", apperrors.ErrValidation, decision)
	}

	now := time.Now().UTC()
	err = s.requestRepo.DecideStepAndSetStatus(ctx, portsrepo.DecideStepParams{
		RequestID:       requestID,
		ApprovalID:      current.ApprovalID,
		Decision:        decision,
		ApproverID:      actorID,
		Comments:        comments,
		DecidedAt:       now,
		NewStatus:       newStatus,
		RejectionReason: rejectionReason,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Info("Step decision lost a concurrent race",
				slog.String("request_id", requestID),
				slog.String("approval_id", current.ApprovalID),
				slog.String("actor_id", actorID))
			return nil, ErrStepAlreadyDecided
		}
		logger.Error("Failed to record step decision", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return nil, fmt.Errorf("failed to record decision: %w", err)
	}

	request.Status = newStatus
	if newStatus == domain.StatusRejected {
		request.RejectionReason = rejectionReason
		request.RejectedAt = &now
	}
	if newStatus == domain.StatusApproved {
		request.ApprovedAt = &now
	}
	request.LastUpdatedAt = now
	request.LastUpdatedBy = actorID

	logger.Info("Approval step decided",
		slog.String("request_id", requestID),
		slog.String("actor_id", actorID),
		slog.String("decision", string(decision)),
		slog.String("new_status", string(newStatus)))

	s.emitStatusEvent(ctx, request, actorID, rejectionReason)
	return request, nil
}

// statusAfterApproval computes where the chain lands once the current step is
// approved: the next pending step's awaiting status, or APPROVED when the
// current step was the last one.
func statusAfterApproval(steps []domain.RequestApproval, current *domain.RequestApproval) domain.RequestStatus {
	var next *domain.RequestApproval
	for i := range steps {
		if steps[i].Status != domain.ApprovalPending {
			continue
		}
		if steps[i].OrderSequence <= current.OrderSequence {
			continue
		}
		if next == nil || steps[i].OrderSequence < next.OrderSequence {
			next = &steps[i]
		}
	}
	if next == nil {
		return domain.StatusApproved
	}
	return domain.StatusForLevel(next.Level)
}

// emitStatusEvent hands the status change to the notifier. Delivery failures
// are logged and swallowed so they never fail the decision that triggered them.
func (s *ApprovalChainService) emitStatusEvent(ctx context.Context, request *domain.MoneyRequest, actorID string, reason string) {
	if s.notifier == nil {
		return
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	event := domain.RequestStatusEvent{
		RequestID:    request.RequestID,
		DepartmentID: request.DepartmentID,
		Purpose:      request.Purpose,
		Amount:       request.Amount,
		NewStatus:    request.Status,
		RequesterID:  request.RequesterID,
		ActorID:      actorID,
		Reason:       reason,
	}
	if request.Status.IsAwaitingApproval() {
		level := domain.ApprovalLevel(strings.TrimPrefix(string(request.Status), "PENDING_"))
		event.NextLevel = &level
	}

	if err := s.notifier.NotifyStatusChange(ctx, event); err != nil {
		logger.Warn("Status change notification failed",
			slog.String("error", err.Error()),
			slog.String("request_id", request.RequestID))
	}
}
