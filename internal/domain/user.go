package domain

import (
	"time"
)

type Role string

const (
	RoleWorker  Role = "worker"
	RoleManager Role = "manager"
)

type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "full_time"
	EmploymentPartTime EmploymentType = "part_time"
)

type User struct {
	ID             int64          `json:"id"`
	OrganizationID int64          `json:"organizationID"`
	Username       string         `json:"username"`
	PasswordHash   string         `json:"-"`
	FullName       string         `json:"fullName"`
	Email          string         `json:"email"`
	Role           Role           `json:"role"`
	EmploymentType EmploymentType `json:"employmentType"`
	IsActive       bool           `json:"isActive"`
	CreatedAt      time.Time      `json:"createdAt"`
	Version        int32          `json:"-"`
}

type Organization struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
