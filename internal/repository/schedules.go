package repository

import (
	"context"
	"time"

	"github.com/schedulehub/backend/internal/domain"
)

func (r *Repository) CreateSchedule(schedule *domain.Schedule) error {
	query := `
		INSERT INTO schedules (organization_id, name, description, start_date, end_date, status, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{
		schedule.OrganizationID,
		schedule.Name,
		schedule.Description,
		schedule.StartDate,
		schedule.EndDate,
		schedule.Status,
		schedule.CreatedBy,
		schedule.UpdatedBy,
	}
	dst := []any{&schedule.ID, &schedule.CreatedAt, &schedule.UpdatedAt, &schedule.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

// CreateScheduleWithShifts 在一个事务中插入排班表和它生成的所有班次。
// 任何一步失败都会整体回滚，包括已经插入的班次；
// 重叠约束冲突会被翻译成领域错误
func (r *Repository) CreateScheduleWithShifts(schedule *domain.Schedule, shifts []*domain.Shift) error {
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
		INSERT INTO schedules (organization_id, name, description, start_date, end_date, status, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at, version
	`
	params := []any{
		schedule.OrganizationID,
		schedule.Name,
		schedule.Description,
		schedule.StartDate,
		schedule.EndDate,
		schedule.Status,
		schedule.CreatedBy,
		schedule.UpdatedBy,
	}
	dst := []any{&schedule.ID, &schedule.CreatedAt, &schedule.UpdatedAt, &schedule.Version}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	query = `
		INSERT INTO shifts (organization_id, schedule_id, station_id, role_id, employee_id, shift_date, start_time, end_time, break_minutes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, version
	`
	for _, shift := range shifts {
		shift.ScheduleID = schedule.ID
		params := []any{
			shift.OrganizationID,
			shift.ScheduleID,
			shift.StationID,
			shift.RoleID,
			shift.EmployeeID,
			shift.ShiftDate,
			shift.StartTime,
			shift.EndTime,
			shift.BreakMinutes,
			shift.Status,
		}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&shift.ID, &shift.CreatedAt, &shift.Version); err != nil {
			return translateShiftConflict(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetScheduleByID(id int64, orgID int64) (*domain.Schedule, error) {
	query := `
		SELECT name, description, to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'), status, created_by, updated_by, created_at, updated_at, version
		FROM schedules
		WHERE id = $1 AND organization_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	schedule := &domain.Schedule{ID: id, OrganizationID: orgID}
	dst := []any{
		&schedule.Name,
		&schedule.Description,
		&schedule.StartDate,
		&schedule.EndDate,
		&schedule.Status,
		&schedule.CreatedBy,
		&schedule.UpdatedBy,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
		&schedule.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id, orgID).Scan(dst...); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (r *Repository) GetAllSchedules(orgID int64) ([]*domain.Schedule, error) {
	query := `
		SELECT id, name, description, to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'), status, created_by, updated_by, created_at, updated_at, version
		FROM schedules
		WHERE organization_id = $1
		ORDER BY start_date DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := []*domain.Schedule{}
	for rows.Next() {
		schedule := domain.Schedule{OrganizationID: orgID}
		dst := []any{
			&schedule.ID,
			&schedule.Name,
			&schedule.Description,
			&schedule.StartDate,
			&schedule.EndDate,
			&schedule.Status,
			&schedule.CreatedBy,
			&schedule.UpdatedBy,
			&schedule.CreatedAt,
			&schedule.UpdatedAt,
			&schedule.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		schedules = append(schedules, &schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

func (r *Repository) UpdateSchedule(schedule *domain.Schedule) error {
	query := `
		UPDATE schedules
		SET
			name = $1,
			description = $2,
			status = $3,
			updated_by = $4,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $5 AND organization_id = $6 AND version = $7
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{
		schedule.Name,
		schedule.Description,
		schedule.Status,
		schedule.UpdatedBy,
		schedule.ID,
		schedule.OrganizationID,
		schedule.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&schedule.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteSchedule(id int64, orgID int64) error {
	query := `
		DELETE FROM schedules WHERE id = $1 AND organization_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id, orgID); err != nil {
		return err
	}

	return nil
}
