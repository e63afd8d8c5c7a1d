package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/faithledger/church_admin_app/internal/apperrors"
	"github.com/faithledger/church_admin_app/internal/core/domain"
	portsrepo "github.com/faithledger/church_admin_app/internal/core/ports/repositories"
	"github.com/faithledger/church_admin_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxMoneyRequestRepository struct {
	BaseRepository
}

func newPgxMoneyRequestRepository(db *pgxpool.Pool) portsrepo.MoneyRequestRepositoryWithTx {
	return &PgxMoneyRequestRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxMoneyRequestRepository implements portsrepo.MoneyRequestRepositoryWithTx
var _ portsrepo.MoneyRequestRepositoryWithTx = (*PgxMoneyRequestRepository)(nil)

const moneyRequestColumns = `request_id, department_id, requester_id, fund_id, amount,
		purpose, description, vendor, status, rejection_reason, approved_at, rejected_at,
		created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanMoneyRequest(row pgx.Row) (*domain.MoneyRequest, error) {
	var m domain.MoneyRequest
	err := row.Scan(
		&m.RequestID,
		&m.DepartmentID,
		&m.RequesterID,
		&m.FundID,
		&m.Amount,
		&m.Purpose,
		&m.Description,
		&m.Vendor,
		&m.Status,
		&m.RejectionReason,
		&m.ApprovedAt,
		&m.RejectedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxMoneyRequestRepository) SaveRequest(ctx context.Context, request domain.MoneyRequest) error {
	query := `
        INSERT INTO money_requests (request_id, department_id, requester_id, fund_id, amount,
            purpose, description, vendor, status, rejection_reason,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
    `
	_, err := r.Pool.Exec(ctx, query,
		request.RequestID,
		request.DepartmentID,
		request.RequesterID,
		request.FundID,
		request.Amount,
		request.Purpose,
		request.Description,
		request.Vendor,
		request.Status,
		request.RejectionReason,
		request.CreatedAt,
		request.CreatedBy,
		request.LastUpdatedAt,
		request.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save money request: %w", err)
	}
	return nil
}

func (r *PgxMoneyRequestRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.MoneyRequest, error) {
	query := `SELECT ` + moneyRequestColumns + ` FROM money_requests WHERE request_id = $1 AND deleted_at IS NULL;`
	request, err := scanMoneyRequest(r.Pool.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find money request by ID %s: %w", requestID, err)
	}
	return request, nil
}

// ListRequestsByDepartment uses keyset pagination on (created_at, request_id)
// so pages stay stable while new requests arrive.
func (r *PgxMoneyRequestRepository) ListRequestsByDepartment(ctx context.Context, departmentID string, limit int, nextToken *string) ([]domain.MoneyRequest, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []any{departmentID, limit + 1}
	query := `
        SELECT ` + moneyRequestColumns + `
        FROM money_requests
        WHERE department_id = $1 AND deleted_at IS NULL
    `
	if nextToken != nil {
		fields, err := pagination.DecodeMultiFieldToken(*nextToken)
		if err != nil || len(fields) != 2 {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		cursorTime, err := time.Parse(time.RFC3339Nano, fields[0])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		query += ` AND (created_at, request_id) < ($3, $4)`
		args = append(args, cursorTime, fields[1])
	}
	query += ` ORDER BY created_at DESC, request_id DESC LIMIT $2;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query money requests: %w", err)
	}
	defer rows.Close()

	requests := []domain.MoneyRequest{}
	for rows.Next() {
		m, err := scanMoneyRequest(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan money request row: %w", err)
		}
		requests = append(requests, *m)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating money request rows: %w", rows.Err())
	}

	var token *string
	if len(requests) > limit {
		requests = requests[:limit]
		last := requests[len(requests)-1]
		t := pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.RequestID)
		token = &t
	}
	return requests, token, nil
}

func (r *PgxMoneyRequestRepository) ListRequestsByRequester(ctx context.Context, requesterID string) ([]domain.MoneyRequest, error) {
	query := `
        SELECT ` + moneyRequestColumns + `
        FROM money_requests
        WHERE requester_id = $1 AND deleted_at IS NULL
        ORDER BY created_at DESC;
    `
	rows, err := r.Pool.Query(ctx, query, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query money requests by requester: %w", err)
	}
	defer rows.Close()

	requests := []domain.MoneyRequest{}
	for rows.Next() {
		m, err := scanMoneyRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan money request row: %w", err)
		}
		requests = append(requests, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating money request rows: %w", rows.Err())
	}
	return requests, nil
}

// ListPendingByLevel retrieves inbox items for requests whose status awaits the
// given level. The request status encodes the awaiting level, so the query
// filters by status directly and joins the pending step for its approval ID.
func (r *PgxMoneyRequestRepository) ListPendingByLevel(ctx context.Context, level domain.ApprovalLevel, departmentID *string) ([]domain.PendingApproval, error) {
	query := `
        SELECT mr.request_id, ra.approval_id, ra.level, ra.order_sequence,
               mr.amount, mr.purpose, mr.department_id, d.name,
               mr.requester_id, u.name, mr.created_at
        FROM money_requests mr
        JOIN request_approvals ra ON ra.request_id = mr.request_id
            AND ra.status = 'PENDING' AND ra.level = $1
        JOIN departments d ON d.department_id = mr.department_id
        JOIN users u ON u.user_id = mr.requester_id
        WHERE mr.status = $2
          AND mr.deleted_at IS NULL
          AND ($3::text IS NULL OR mr.department_id = $3)
        ORDER BY mr.created_at ASC;
    `
	rows, err := r.Pool.Query(ctx, query, level, domain.StatusForLevel(level), departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending approvals: %w", err)
	}
	defer rows.Close()

	items := []domain.PendingApproval{}
	for rows.Next() {
		var p domain.PendingApproval
		err := rows.Scan(
			&p.RequestID,
			&p.ApprovalID,
			&p.Level,
			&p.OrderSequence,
			&p.Amount,
			&p.Purpose,
			&p.DepartmentID,
			&p.DepartmentName,
			&p.RequesterID,
			&p.RequesterName,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending approval row: %w", err)
		}
		items = append(items, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating pending approval rows: %w", rows.Err())
	}
	return items, nil
}

func (r *PgxMoneyRequestRepository) UpdateRequest(ctx context.Context, request domain.MoneyRequest) error {
	query := `
        UPDATE money_requests
        SET fund_id = $1, amount = $2, purpose = $3, description = $4, vendor = $5,
            last_updated_at = $6, last_updated_by = $7
        WHERE request_id = $8 AND deleted_at IS NULL;
    `
	cmdTag, err := r.Pool.Exec(ctx, query,
		request.FundID,
		request.Amount,
		request.Purpose,
		request.Description,
		request.Vendor,
		request.LastUpdatedAt,
		request.LastUpdatedBy,
		request.RequestID,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update money request query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxMoneyRequestRepository) UpdateRequestStatus(ctx context.Context, requestID string, status domain.RequestStatus, updatedBy string, updatedAt time.Time) error {
	query := `
        UPDATE money_requests
        SET status = $1, last_updated_at = $2, last_updated_by = $3
        WHERE request_id = $4 AND deleted_at IS NULL;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, status, updatedAt, updatedBy, requestID)
	if err != nil {
		return fmt.Errorf("failed to update money request status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxMoneyRequestRepository) MarkRequestDeleted(ctx context.Context, requestID string, deletedAt time.Time, deletedBy string) error {
	query := `
        UPDATE money_requests
        SET deleted_at = $1, last_updated_at = $1, last_updated_by = $2
        WHERE request_id = $3 AND deleted_at IS NULL;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, deletedAt, deletedBy, requestID)
	if err != nil {
		return fmt.Errorf("failed to mark money request deleted: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveApprovalStepsAndSetStatus materializes the chain rows and moves the
// request to the first awaiting status in one transaction. The unique
// constraint on (request_id, order_sequence) turns a double submit into
// apperrors.ErrDuplicate.
func (r *PgxMoneyRequestRepository) SaveApprovalStepsAndSetStatus(ctx context.Context, requestID string, steps []domain.RequestApproval, status domain.RequestStatus, updatedBy string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	stepQuery := `
        INSERT INTO request_approvals (approval_id, request_id, level, status, order_sequence, comments,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `
	for _, step := range steps {
		_, err := tx.Exec(ctx, stepQuery,
			step.ApprovalID,
			step.RequestID,
			step.Level,
			step.Status,
			step.OrderSequence,
			step.Comments,
			step.CreatedAt,
			step.CreatedBy,
			step.LastUpdatedAt,
			step.LastUpdatedBy,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.ErrDuplicate
			}
			return fmt.Errorf("failed to insert approval step: %w", err)
		}
	}

	// Only a DRAFT request may move to its first awaiting status here; a losing
	// racer sees zero rows and reports the duplicate.
	statusQuery := `
        UPDATE money_requests
        SET status = $1, last_updated_at = $2, last_updated_by = $3
        WHERE request_id = $4 AND status = 'DRAFT' AND deleted_at IS NULL;
    `
	cmdTag, err := tx.Exec(ctx, statusQuery, status, updatedAt, updatedBy, requestID)
	if err != nil {
		return fmt.Errorf("failed to update request status after chain init: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDuplicate
	}

	return r.Commit(ctx, tx)
}

func (r *PgxMoneyRequestRepository) FindApprovalsByRequestID(ctx context.Context, requestID string) ([]domain.RequestApproval, error) {
	query := `
        SELECT approval_id, request_id, level, approver_id, status, order_sequence, decided_at, comments,
               created_at, created_by, last_updated_at, last_updated_by
        FROM request_approvals
        WHERE request_id = $1
        ORDER BY order_sequence ASC;
    `
	rows, err := r.Pool.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query approval steps: %w", err)
	}
	defer rows.Close()

	steps := []domain.RequestApproval{}
	for rows.Next() {
		var s domain.RequestApproval
		err := rows.Scan(
			&s.ApprovalID,
			&s.RequestID,
			&s.Level,
			&s.ApproverID,
			&s.Status,
			&s.OrderSequence,
			&s.DecidedAt,
			&s.Comments,
			&s.CreatedAt,
			&s.CreatedBy,
			&s.LastUpdatedAt,
			&s.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval step row: %w", err)
		}
		steps = append(steps, s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating approval step rows: %w", rows.Err())
	}
	return steps, nil
}

// DecideStepAndSetStatus records a step decision and the derived request
// status atomically. The step update re-checks that the row is still pending;
// the loser of a concurrent decision gets apperrors.ErrConflict and nothing is
// written.
func (r *PgxMoneyRequestRepository) DecideStepAndSetStatus(ctx context.Context, params portsrepo.DecideStepParams) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	stepQuery := `
        UPDATE request_approvals
        SET status = $1, approver_id = $2, decided_at = $3, comments = $4,
            last_updated_at = $3, last_updated_by = $2
        WHERE approval_id = $5 AND request_id = $6 AND status = 'PENDING';
    `
	stepStatus := domain.ApprovalApproved
	if params.Decision == domain.DecisionRejected {
		stepStatus = domain.ApprovalRejected
	}
	cmdTag, err := tx.Exec(ctx, stepQuery,
		stepStatus,
		params.ApproverID,
		params.DecidedAt,
		params.Comments,
		params.ApprovalID,
		params.RequestID,
	)
	if err != nil {
		return fmt.Errorf("failed to update approval step: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	var statusQuery string
	var args []any
	switch params.NewStatus {
	case domain.StatusRejected:
		statusQuery = `
            UPDATE money_requests
            SET status = $1, rejection_reason = $2, rejected_at = $3, last_updated_at = $3, last_updated_by = $4
            WHERE request_id = $5 AND deleted_at IS NULL;
        `
		args = []any{params.NewStatus, params.RejectionReason, params.DecidedAt, params.ApproverID, params.RequestID}
	case domain.StatusApproved:
		statusQuery = `
            UPDATE money_requests
            SET status = $1, approved_at = $2, last_updated_at = $2, last_updated_by = $3
            WHERE request_id = $4 AND deleted_at IS NULL;
        `
		args = []any{params.NewStatus, params.DecidedAt, params.ApproverID, params.RequestID}
	default:
		statusQuery = `
            UPDATE money_requests
            SET status = $1, last_updated_at = $2, last_updated_by = $3
            WHERE request_id = $4 AND deleted_at IS NULL;
        `
		args = []any{params.NewStatus, params.DecidedAt, params.ApproverID, params.RequestID}
	}

	cmdTag, err = tx.Exec(ctx, statusQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to update request status after decision: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}
