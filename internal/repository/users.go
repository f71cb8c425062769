package repository

import (
	"context"
	"time"

	"github.com/schedulehub/backend/internal/domain"
)

func (r *Repository) CreateOrganization(org *domain.Organization) error {
	query := `
		INSERT INTO organizations (name) VALUES ($1)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, org.Name).Scan(&org.ID, &org.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetOrganizationByName(name string) (*domain.Organization, error) {
	query := `
		SELECT id, name, created_at FROM organizations WHERE name = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	org := &domain.Organization{}
	if err := r.dbpool.QueryRowContext(ctx, query, name).Scan(&org.ID, &org.Name, &org.CreatedAt); err != nil {
		return nil, err
	}

	return org, nil
}

func (r *Repository) CreateUser(user *domain.User) error {
	query := `
		INSERT INTO users (organization_id, username, password_hash, full_name, email, role, employment_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_active, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{
		user.OrganizationID,
		user.Username,
		user.PasswordHash,
		user.FullName,
		user.Email,
		user.Role,
		user.EmploymentType,
	}
	dst := []any{&user.ID, &user.IsActive, &user.CreatedAt, &user.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetUserByID(id int64) (*domain.User, error) {
	query := `
		SELECT organization_id, username, password_hash, full_name, email, role, employment_type, is_active, created_at, version
		FROM users
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	user := &domain.User{ID: id}
	dst := []any{
		&user.OrganizationID,
		&user.Username,
		&user.PasswordHash,
		&user.FullName,
		&user.Email,
		&user.Role,
		&user.EmploymentType,
		&user.IsActive,
		&user.CreatedAt,
		&user.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetUserByUsername(username string) (*domain.User, error) {
	query := `
		SELECT id, organization_id, password_hash, full_name, email, role, employment_type, is_active, created_at, version
		FROM users
		WHERE username = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	user := &domain.User{Username: username}
	dst := []any{
		&user.ID,
		&user.OrganizationID,
		&user.PasswordHash,
		&user.FullName,
		&user.Email,
		&user.Role,
		&user.EmploymentType,
		&user.IsActive,
		&user.CreatedAt,
		&user.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetActiveWorkers(orgID int64) ([]*domain.User, error) {
	query := `
		SELECT id, organization_id, username, password_hash, full_name, email, role, employment_type, is_active, created_at, version
		FROM users
		WHERE organization_id = $1 AND role = $2 AND is_active = TRUE
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, orgID, domain.RoleWorker)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		var user domain.User
		dst := []any{
			&user.ID,
			&user.OrganizationID,
			&user.Username,
			&user.PasswordHash,
			&user.FullName,
			&user.Email,
			&user.Role,
			&user.EmploymentType,
			&user.IsActive,
			&user.CreatedAt,
			&user.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
