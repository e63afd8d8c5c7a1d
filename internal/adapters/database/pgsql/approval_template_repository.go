package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/faithledger/church_admin_app/internal/apperrors"
	"github.com/faithledger/church_admin_app/internal/core/domain"
	portsrepo "github.com/faithledger/church_admin_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxApprovalTemplateRepository struct {
	BaseRepository
}

func newPgxApprovalTemplateRepository(db *pgxpool.Pool) portsrepo.ApprovalTemplateRepositoryFacade {
	return &PgxApprovalTemplateRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxApprovalTemplateRepository implements portsrepo.ApprovalTemplateRepositoryFacade
var _ portsrepo.ApprovalTemplateRepositoryFacade = (*PgxApprovalTemplateRepository)(nil)

const approvalTemplateColumns = `template_id, name, department_id, min_amount, max_amount,
		is_default, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanApprovalTemplate(row pgx.Row) (*domain.ApprovalTemplate, error) {
	var t domain.ApprovalTemplate
	err := row.Scan(
		&t.TemplateID,
		&t.Name,
		&t.DepartmentID,
		&t.MinAmount,
		&t.MaxAmount,
		&t.IsDefault,
		&t.IsActive,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PgxApprovalTemplateRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.ApprovalTemplate, error) {
	query := `SELECT ` + approvalTemplateColumns + ` FROM approval_templates WHERE template_id = $1;`
	template, err := scanApprovalTemplate(r.Pool.QueryRow(ctx, query, templateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find approval template by ID %s: %w", templateID, err)
	}
	steps, err := r.loadSteps(ctx, []string{templateID})
	if err != nil {
		return nil, err
	}
	template.Steps = steps[templateID]
	return template, nil
}

func (r *PgxApprovalTemplateRepository) ListActiveTemplates(ctx context.Context) ([]domain.ApprovalTemplate, error) {
	return r.listTemplates(ctx, `WHERE is_active`)
}

func (r *PgxApprovalTemplateRepository) ListTemplates(ctx context.Context) ([]domain.ApprovalTemplate, error) {
	return r.listTemplates(ctx, ``)
}

func (r *PgxApprovalTemplateRepository) listTemplates(ctx context.Context, where string) ([]domain.ApprovalTemplate, error) {
	query := `SELECT ` + approvalTemplateColumns + ` FROM approval_templates ` + where + ` ORDER BY created_at ASC;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query approval templates: %w", err)
	}
	defer rows.Close()

	templates := []domain.ApprovalTemplate{}
	ids := []string{}
	for rows.Next() {
		t, err := scanApprovalTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval template row: %w", err)
		}
		templates = append(templates, *t)
		ids = append(ids, t.TemplateID)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating approval template rows: %w", rows.Err())
	}

	stepsByTemplate, err := r.loadSteps(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range templates {
		templates[i].Steps = stepsByTemplate[templates[i].TemplateID]
	}
	return templates, nil
}

func (r *PgxApprovalTemplateRepository) FindDefaultTemplate(ctx context.Context) (*domain.ApprovalTemplate, error) {
	query := `SELECT ` + approvalTemplateColumns + ` FROM approval_templates WHERE is_default;`
	template, err := scanApprovalTemplate(r.Pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find default approval template: %w", err)
	}
	steps, err := r.loadSteps(ctx, []string{template.TemplateID})
	if err != nil {
		return nil, err
	}
	template.Steps = steps[template.TemplateID]
	return template, nil
}

func (r *PgxApprovalTemplateRepository) loadSteps(ctx context.Context, templateIDs []string) (map[string][]domain.ApprovalStepDef, error) {
	result := map[string][]domain.ApprovalStepDef{}
	if len(templateIDs) == 0 {
		return result, nil
	}
	query := `
        SELECT template_id, level, required, step_order, timeout_hours
        FROM approval_template_steps
        WHERE template_id = ANY($1)
        ORDER BY template_id, step_order ASC;
    `
	rows, err := r.Pool.Query(ctx, query, templateIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query template steps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var templateID string
		var step domain.ApprovalStepDef
		if err := rows.Scan(&templateID, &step.Level, &step.Required, &step.StepOrder, &step.TimeoutHours); err != nil {
			return nil, fmt.Errorf("failed to scan template step row: %w", err)
		}
		result[templateID] = append(result[templateID], step)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating template step rows: %w", rows.Err())
	}
	return result, nil
}

func (r *PgxApprovalTemplateRepository) SaveTemplate(ctx context.Context, template domain.ApprovalTemplate) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
        INSERT INTO approval_templates (template_id, name, department_id, min_amount, max_amount,
            is_default, is_active, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
    `
	_, err = tx.Exec(ctx, query,
		template.TemplateID,
		template.Name,
		template.DepartmentID,
		template.MinAmount,
		template.MaxAmount,
		template.IsDefault,
		template.IsActive,
		template.CreatedAt,
		template.CreatedBy,
		template.LastUpdatedAt,
		template.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save approval template: %w", err)
	}

	if err := insertTemplateSteps(ctx, tx, template.TemplateID, template.Steps); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxApprovalTemplateRepository) UpdateTemplate(ctx context.Context, template domain.ApprovalTemplate) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
        UPDATE approval_templates
        SET name = $1, department_id = $2, min_amount = $3, max_amount = $4,
            last_updated_at = $5, last_updated_by = $6
        WHERE template_id = $7;
    `
	cmdTag, err := tx.Exec(ctx, query,
		template.Name,
		template.DepartmentID,
		template.MinAmount,
		template.MaxAmount,
		template.LastUpdatedAt,
		template.LastUpdatedBy,
		template.TemplateID,
	)
	if err != nil {
		return fmt.Errorf("failed to update approval template: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	// Step definitions are replaced wholesale; already-materialized chains keep
	// the rows they copied at submit time.
	if _, err := tx.Exec(ctx, `DELETE FROM approval_template_steps WHERE template_id = $1;`, template.TemplateID); err != nil {
		return fmt.Errorf("failed to clear template steps: %w", err)
	}
	if err := insertTemplateSteps(ctx, tx, template.TemplateID, template.Steps); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func insertTemplateSteps(ctx context.Context, tx pgx.Tx, templateID string, steps []domain.ApprovalStepDef) error {
	query := `
        INSERT INTO approval_template_steps (template_id, level, required, step_order, timeout_hours)
        VALUES ($1, $2, $3, $4, $5);
    `
	for _, step := range steps {
		_, err := tx.Exec(ctx, query, templateID, step.Level, step.Required, step.StepOrder, step.TimeoutHours)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: duplicate step order %d", apperrors.ErrValidation, step.StepOrder)
			}
			return fmt.Errorf("failed to insert template step: %w", err)
		}
	}
	return nil
}

// SetDefaultTemplate flags one template as default and clears the previous
// flag in the same transaction, so at most one default exists at any point.
func (r *PgxApprovalTemplateRepository) SetDefaultTemplate(ctx context.Context, templateID string, updatedBy string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := time.Now().UTC()
	clearQuery := `
        UPDATE approval_templates
        SET is_default = FALSE, last_updated_at = $1, last_updated_by = $2
        WHERE is_default AND template_id <> $3;
    `
	if _, err := tx.Exec(ctx, clearQuery, now, updatedBy, templateID); err != nil {
		return fmt.Errorf("failed to clear previous default template: %w", err)
	}

	setQuery := `
        UPDATE approval_templates
        SET is_default = TRUE, last_updated_at = $1, last_updated_by = $2
        WHERE template_id = $3;
    `
	cmdTag, err := tx.Exec(ctx, setQuery, now, updatedBy, templateID)
	if err != nil {
		return fmt.Errorf("failed to set default template: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return r.Commit(ctx, tx)
}

func (r *PgxApprovalTemplateRepository) SetTemplateActive(ctx context.Context, templateID string, active bool, updatedBy string) error {
	query := `
        UPDATE approval_templates
        SET is_active = $1, last_updated_at = $2, last_updated_by = $3
        WHERE template_id = $4;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, active, time.Now().UTC(), updatedBy, templateID)
	if err != nil {
		return fmt.Errorf("failed to toggle template active flag: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
