package domain

import "time"

type ScheduleStatus string

const (
	ScheduleStatusDraft     ScheduleStatus = "draft"
	ScheduleStatusPublished ScheduleStatus = "published"
)

// Schedule 是一段命名的日期区间，作为生成班次的容器。
// StartDate 和 EndDate 均为日历日期（YYYY-MM-DD），不带时间部分，
// 避免时区漂移
type Schedule struct {
	ID             int64          `json:"id"`
	OrganizationID int64          `json:"organizationID"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	StartDate      string         `json:"startDate"`
	EndDate        string         `json:"endDate"`
	Status         ScheduleStatus `json:"status"`
	CreatedBy      int64          `json:"createdBy"`
	UpdatedBy      int64          `json:"updatedBy"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Version        int32          `json:"-"`
}
