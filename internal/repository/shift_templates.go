package repository

import (
	"context"
	"time"

	"github.com/schedulehub/backend/internal/domain"
)

func (r *Repository) GetShiftTemplate(id int64, orgID int64) (*domain.ShiftTemplate, error) {
	query := `
		SELECT name, to_char(start_time, 'HH24:MI:SS'), to_char(end_time, 'HH24:MI:SS'), break_duration_minutes, is_overnight, required_workers, is_active, created_at
		FROM shift_templates
		WHERE id = $1 AND organization_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	template := &domain.ShiftTemplate{ID: id, OrganizationID: orgID}
	dst := []any{
		&template.Name,
		&template.StartTime,
		&template.EndTime,
		&template.BreakDurationMinutes,
		&template.IsOvernight,
		&template.RequiredWorkers,
		&template.IsActive,
		&template.CreatedAt,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id, orgID).Scan(dst...); err != nil {
		return nil, err
	}

	query = `
		SELECT day FROM shift_template_days WHERE shift_template_id = $1 ORDER BY day
	`
	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	template.DaysOfWeek = []int32{}
	for rows.Next() {
		var day int32
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		template.DaysOfWeek = append(template.DaysOfWeek, day)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return template, nil
}

func (r *Repository) GetAllShiftTemplates(orgID int64) ([]*domain.ShiftTemplate, error) {
	query := `
		SELECT
			st.id, st.name, to_char(st.start_time, 'HH24:MI:SS'), to_char(st.end_time, 'HH24:MI:SS'),
			st.break_duration_minutes, st.is_overnight, st.required_workers, st.is_active, st.created_at, std.day
		FROM shift_templates st
		LEFT JOIN shift_template_days std ON std.shift_template_id = st.id
		WHERE st.organization_id = $1
		ORDER BY st.id, std.day
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []*domain.ShiftTemplate{}
	var current *domain.ShiftTemplate
	for rows.Next() {
		var (
			template domain.ShiftTemplate
			day      *int32
		)
		dst := []any{
			&template.ID,
			&template.Name,
			&template.StartTime,
			&template.EndTime,
			&template.BreakDurationMinutes,
			&template.IsOvernight,
			&template.RequiredWorkers,
			&template.IsActive,
			&template.CreatedAt,
			&day,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if current == nil || current.ID != template.ID {
			template.OrganizationID = orgID
			template.DaysOfWeek = []int32{}
			templates = append(templates, &template)
			current = templates[len(templates)-1]
		}
		if day != nil {
			current.DaysOfWeek = append(current.DaysOfWeek, *day)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *Repository) CreateShiftTemplate(template *domain.ShiftTemplate) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO shift_templates (organization_id, name, start_time, end_time, break_duration_minutes, is_overnight, required_workers, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	params := []any{
		template.OrganizationID,
		template.Name,
		template.StartTime,
		template.EndTime,
		template.BreakDurationMinutes,
		template.IsOvernight,
		template.RequiredWorkers,
		template.IsActive,
	}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&template.ID, &template.CreatedAt); err != nil {
		return err
	}

	query = `
		INSERT INTO shift_template_days (shift_template_id, day) VALUES ($1, $2)
	`
	for _, day := range template.DaysOfWeek {
		if _, err := tx.ExecContext(ctx, query, template.ID, day); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
