package repository

import (
	"context"
	"time"

	"github.com/schedulehub/backend/internal/domain"
)

const shiftTradeColumns = `
	id, organization_id, from_shift_id, to_shift_id, requesting_worker_id, responding_worker_id,
	status, requested_at, responded_at, approved_by, approved_at, expires_at, notes, manager_notes, version
`

func scanShiftTrade(row interface{ Scan(...any) error }) (*domain.ShiftTrade, error) {
	var trade domain.ShiftTrade
	dst := []any{
		&trade.ID,
		&trade.OrganizationID,
		&trade.FromShiftID,
		&trade.ToShiftID,
		&trade.RequestingWorkerID,
		&trade.RespondingWorkerID,
		&trade.Status,
		&trade.RequestedAt,
		&trade.RespondedAt,
		&trade.ApprovedBy,
		&trade.ApprovedAt,
		&trade.ExpiresAt,
		&trade.Notes,
		&trade.ManagerNotes,
		&trade.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return &trade, nil
}

func (r *Repository) CreateShiftTrade(trade *domain.ShiftTrade) error {
	query := `
		INSERT INTO shift_trades (organization_id, from_shift_id, to_shift_id, requesting_worker_id, responding_worker_id, status, expires_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, requested_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{
		trade.OrganizationID,
		trade.FromShiftID,
		trade.ToShiftID,
		trade.RequestingWorkerID,
		trade.RespondingWorkerID,
		trade.Status,
		trade.ExpiresAt,
		trade.Notes,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&trade.ID, &trade.RequestedAt, &trade.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetShiftTradeByID(id int64, orgID int64) (*domain.ShiftTrade, error) {
	query := `SELECT ` + shiftTradeColumns + ` FROM shift_trades WHERE id = $1 AND organization_id = $2`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanShiftTrade(r.dbpool.QueryRowContext(ctx, query, id, orgID))
}

func (r *Repository) GetTradesByParticipant(orgID int64, workerID int64) ([]*domain.ShiftTrade, error) {
	query := `
		SELECT ` + shiftTradeColumns + `
		FROM shift_trades
		WHERE organization_id = $1 AND (requesting_worker_id = $2 OR responding_worker_id = $2)
		ORDER BY requested_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, orgID, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trades := []*domain.ShiftTrade{}
	for rows.Next() {
		trade, err := scanShiftTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return trades, nil
}

// CountActiveTrades 统计发起人当前未过期且仍在流转中的换班申请数，
// 用于限制同时发起的申请数量
func (r *Repository) CountActiveTrades(orgID int64, requesterID int64, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM shift_trades
		WHERE organization_id = $1
			AND requesting_worker_id = $2
			AND status IN ('pending', 'accepted')
			AND expires_at > $3
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var count int
	if err := r.dbpool.QueryRowContext(ctx, query, orgID, requesterID, now).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *Repository) UpdateShiftTrade(trade *domain.ShiftTrade) error {
	query := `
		UPDATE shift_trades
		SET
			status = $1,
			responded_at = $2,
			approved_by = $3,
			approved_at = $4,
			manager_notes = $5,
			version = version + 1
		WHERE id = $6 AND organization_id = $7 AND version = $8
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{
		trade.Status,
		trade.RespondedAt,
		trade.ApprovedBy,
		trade.ApprovedAt,
		trade.ManagerNotes,
		trade.ID,
		trade.OrganizationID,
		trade.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&trade.Version); err != nil {
		return err
	}

	return nil
}

// ApproveTradeAndSwapShifts 在一个事务中落批准结果并交换两个班次的员工。
// 先把其中一个班次置空再交换，避免交换过程中触发重叠排他约束
func (r *Repository) ApproveTradeAndSwapShifts(trade *domain.ShiftTrade, fromShift *domain.Shift, toShift *domain.Shift) error {
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
		UPDATE shift_trades
		SET status = $1, approved_by = $2, approved_at = $3, manager_notes = $4, version = version + 1
		WHERE id = $5 AND organization_id = $6 AND version = $7
		RETURNING version
	`
	params := []any{
		trade.Status,
		trade.ApprovedBy,
		trade.ApprovedAt,
		trade.ManagerNotes,
		trade.ID,
		trade.OrganizationID,
		trade.Version,
	}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&trade.Version); err != nil {
		return err
	}

	emptyQuery := `
		UPDATE shifts SET employee_id = NULL, version = version + 1
		WHERE id = $1 AND organization_id = $2 AND version = $3
		RETURNING version
	`
	if err := tx.QueryRowContext(ctx, emptyQuery, fromShift.ID, fromShift.OrganizationID, fromShift.Version).Scan(&fromShift.Version); err != nil {
		return err
	}

	assignQuery := `
		UPDATE shifts SET employee_id = $1, version = version + 1
		WHERE id = $2 AND organization_id = $3 AND version = $4
		RETURNING version
	`
	if err := tx.QueryRowContext(ctx, assignQuery, trade.RequestingWorkerID, toShift.ID, toShift.OrganizationID, toShift.Version).Scan(&toShift.Version); err != nil {
		return translateShiftConflict(err)
	}
	if err := tx.QueryRowContext(ctx, assignQuery, trade.RespondingWorkerID, fromShift.ID, fromShift.OrganizationID, fromShift.Version).Scan(&fromShift.Version); err != nil {
		return translateShiftConflict(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	fromShift.EmployeeID = &trade.RespondingWorkerID
	toShift.EmployeeID = &trade.RequestingWorkerID
	return nil
}
