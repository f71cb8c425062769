package domain

import "time"

// ShiftTemplate 是可复用的班次定义，生成引擎按模板批量生成班次。
// 本核心只读，由模板目录维护
type ShiftTemplate struct {
	ID                   int64     `json:"id"`
	OrganizationID       int64     `json:"organizationID"`
	Name                 string    `json:"name"`
	StartTime            string    `json:"startTime"` // HH:MM:SS
	EndTime              string    `json:"endTime"`   // HH:MM:SS
	BreakDurationMinutes int32     `json:"breakDurationMinutes"`
	IsOvernight          bool      `json:"isOvernight"`
	RequiredWorkers      int32     `json:"requiredWorkers"`
	DaysOfWeek           []int32   `json:"daysOfWeek"` // ISO 星期，1-7
	IsActive             bool      `json:"isActive"`
	CreatedAt            time.Time `json:"createdAt"`
}
