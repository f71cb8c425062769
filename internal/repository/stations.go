package repository

import (
	"context"
	"time"

	"github.com/schedulehub/backend/internal/domain"
)

func (r *Repository) GetAllStations(orgID int64) ([]*domain.Station, error) {
	query := `
		SELECT id, name, created_at FROM stations WHERE organization_id = $1 ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stations := []*domain.Station{}
	for rows.Next() {
		station := domain.Station{OrganizationID: orgID}
		if err := rows.Scan(&station.ID, &station.Name, &station.CreatedAt); err != nil {
			return nil, err
		}
		stations = append(stations, &station)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stations, nil
}

func (r *Repository) CreateStation(station *domain.Station) error {
	query := `
		INSERT INTO stations (organization_id, name) VALUES ($1, $2)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, station.OrganizationID, station.Name).Scan(&station.ID, &station.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateWorkRole(role *domain.WorkRole) error {
	query := `
		INSERT INTO work_roles (organization_id, name) VALUES ($1, $2)
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, role.OrganizationID, role.Name).Scan(&role.ID); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateRoleRequirement(req *domain.RoleRequirement) error {
	query := `
		INSERT INTO role_requirements (station_id, role_id, min_workers, max_workers, priority)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{req.StationID, req.RoleID, req.MinWorkers, req.MaxWorkers, req.Priority}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&req.ID); err != nil {
		return err
	}

	return nil
}

// StationRequirement 是某个岗位的人员需求汇总（各角色 min/max 之和）
type StationRequirement struct {
	StationID   int64
	StationName string
	RequiredMin int32
	RequiredMax int32
}

func (r *Repository) GetStationRequirements(orgID int64) ([]*StationRequirement, error) {
	query := `
		SELECT s.id, s.name, COALESCE(SUM(rr.min_workers), 0), COALESCE(SUM(rr.max_workers), 0)
		FROM stations s
		LEFT JOIN role_requirements rr ON rr.station_id = s.id
		WHERE s.organization_id = $1
		GROUP BY s.id, s.name
		ORDER BY s.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requirements := []*StationRequirement{}
	for rows.Next() {
		var req StationRequirement
		if err := rows.Scan(&req.StationID, &req.StationName, &req.RequiredMin, &req.RequiredMax); err != nil {
			return nil, err
		}
		requirements = append(requirements, &req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requirements, nil
}
