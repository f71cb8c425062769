package domain

import "time"

type Station struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organizationID"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"createdAt"`
}

type WorkRole struct {
	ID             int64  `json:"id"`
	OrganizationID int64  `json:"organizationID"`
	Name           string `json:"name"`
}

// RoleRequirement 描述某个岗位 (station) 对某个角色的人数要求，
// 覆盖率分析只读这份数据
type RoleRequirement struct {
	ID         int64 `json:"id"`
	StationID  int64 `json:"stationID"`
	RoleID     int64 `json:"roleID"`
	MinWorkers int32 `json:"minWorkers"`
	MaxWorkers int32 `json:"maxWorkers"`
	Priority   int32 `json:"priority"`
}
