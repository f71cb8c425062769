package repository

import (
	"context"
	"time"

	"github.com/schedulehub/backend/internal/domain"
)

const shiftColumns = `
	id, organization_id, schedule_id, station_id, role_id, employee_id,
	to_char(shift_date, 'YYYY-MM-DD'), to_char(start_time, 'HH24:MI:SS'), to_char(end_time, 'HH24:MI:SS'),
	break_minutes, actual_break_minutes, clock_in_time, clock_out_time, status, actual_hours, created_at, version
`

func scanShift(row interface{ Scan(...any) error }) (*domain.Shift, error) {
	var shift domain.Shift
	dst := []any{
		&shift.ID,
		&shift.OrganizationID,
		&shift.ScheduleID,
		&shift.StationID,
		&shift.RoleID,
		&shift.EmployeeID,
		&shift.ShiftDate,
		&shift.StartTime,
		&shift.EndTime,
		&shift.BreakMinutes,
		&shift.ActualBreakMinutes,
		&shift.ClockInTime,
		&shift.ClockOutTime,
		&shift.Status,
		&shift.ActualHours,
		&shift.CreatedAt,
		&shift.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *Repository) CreateShift(shift *domain.Shift) error {
	query := `
		INSERT INTO shifts (organization_id, schedule_id, station_id, role_id, employee_id, shift_date, start_time, end_time, break_minutes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

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
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&shift.ID, &shift.CreatedAt, &shift.Version); err != nil {
		return translateShiftConflict(err)
	}

	return nil
}

func (r *Repository) GetShiftByID(id int64, orgID int64) (*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1 AND organization_id = $2`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanShift(r.dbpool.QueryRowContext(ctx, query, id, orgID))
}

func (r *Repository) GetShiftsByScheduleID(scheduleID int64, orgID int64) ([]*domain.Shift, error) {
	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE schedule_id = $1 AND organization_id = $2
		ORDER BY shift_date, start_time, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, scheduleID, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := []*domain.Shift{}
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) GetShiftsByDate(orgID int64, date string) ([]*domain.Shift, error) {
	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE organization_id = $1 AND shift_date = $2
		ORDER BY start_time, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, orgID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := []*domain.Shift{}
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) GetShiftsByEmployee(orgID int64, employeeID int64) ([]*domain.Shift, error) {
	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE organization_id = $1 AND employee_id = $2 AND status <> 'cancelled'
		ORDER BY shift_date, start_time, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, orgID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := []*domain.Shift{}
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

// WorkerInterval 是某个员工一条已提交班次的时间区间，用于生成前预置冲突追踪器
type WorkerInterval struct {
	EmployeeID int64
	ShiftDate  string
	StartTime  string
	EndTime    string
}

func (r *Repository) GetAssignedIntervals(orgID int64, startDate string, endDate string) ([]*WorkerInterval, error) {
	query := `
		SELECT employee_id, to_char(shift_date, 'YYYY-MM-DD'), to_char(start_time, 'HH24:MI:SS'), to_char(end_time, 'HH24:MI:SS')
		FROM shifts
		WHERE organization_id = $1
			AND employee_id IS NOT NULL
			AND status <> 'cancelled'
			AND shift_date BETWEEN $2 AND $3
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, orgID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	intervals := []*WorkerInterval{}
	for rows.Next() {
		var iv WorkerInterval
		if err := rows.Scan(&iv.EmployeeID, &iv.ShiftDate, &iv.StartTime, &iv.EndTime); err != nil {
			return nil, err
		}
		intervals = append(intervals, &iv)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return intervals, nil
}

// ClockInShift 写入上班打卡时间并推进状态。以乐观版本号作并发保护，
// 版本不匹配时返回 sql.ErrNoRows
func (r *Repository) ClockInShift(shift *domain.Shift, at time.Time) error {
	query := `
		UPDATE shifts
		SET clock_in_time = $1, status = $2, version = version + 1
		WHERE id = $3 AND organization_id = $4 AND version = $5
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{at, domain.ShiftStatusInProgress, shift.ID, shift.OrganizationID, shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&shift.Version); err != nil {
		return err
	}

	shift.ClockInTime = &at
	shift.Status = domain.ShiftStatusInProgress
	return nil
}

// ClockOutShift 写入下班打卡时间、实际休息时间和实际工时并完成班次
func (r *Repository) ClockOutShift(shift *domain.Shift, at time.Time, actualBreakMinutes int32, actualHours float64) error {
	query := `
		UPDATE shifts
		SET clock_out_time = $1, actual_break_minutes = $2, actual_hours = $3, status = $4, version = version + 1
		WHERE id = $5 AND organization_id = $6 AND version = $7
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{at, actualBreakMinutes, actualHours, domain.ShiftStatusCompleted, shift.ID, shift.OrganizationID, shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&shift.Version); err != nil {
		return err
	}

	shift.ClockOutTime = &at
	shift.ActualBreakMinutes = &actualBreakMinutes
	shift.ActualHours = &actualHours
	shift.Status = domain.ShiftStatusCompleted
	return nil
}

func (r *Repository) CancelShift(shift *domain.Shift) error {
	query := `
		UPDATE shifts
		SET status = $1, version = version + 1
		WHERE id = $2 AND organization_id = $3 AND version = $4
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{domain.ShiftStatusCancelled, shift.ID, shift.OrganizationID, shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&shift.Version); err != nil {
		return err
	}

	shift.Status = domain.ShiftStatusCancelled
	return nil
}

// CoverageShiftRow 是覆盖率分析所需的最小班次投影
type CoverageShiftRow struct {
	StationID int64
	StartTime string
	EndTime   string
}

func (r *Repository) GetCoverageShifts(orgID int64, date string) ([]*CoverageShiftRow, error) {
	query := `
		SELECT station_id, to_char(start_time, 'HH24:MI:SS'), to_char(end_time, 'HH24:MI:SS')
		FROM shifts
		WHERE organization_id = $1
			AND shift_date = $2
			AND employee_id IS NOT NULL
			AND status <> 'cancelled'
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, orgID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*CoverageShiftRow{}
	for rows.Next() {
		var row CoverageShiftRow
		if err := rows.Scan(&row.StationID, &row.StartTime, &row.EndTime); err != nil {
			return nil, err
		}
		result = append(result, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
