package scheduler

import (
	"github.com/schedulehub/backend/internal/domain"
)

// Catalog 是模板目录的读取契约，由 repository 实现。
// 模板不存在时返回 sql.ErrNoRows
type Catalog interface {
	GetShiftTemplate(templateID int64, orgID int64) (*domain.ShiftTemplate, error)
}

// Request 是一次生成调用的全部输入。Workers 和 ExistingIntervals
// 由调用方在生成前一次性读出，生成过程本身不访问数据库
type Request struct {
	OrganizationID     int64
	StationID          int64
	RoleID             int64
	StartDate          string
	EndDate            string
	TemplateIDs        []int64
	TemplateDayMapping map[int32][]int64
	Workers            []*domain.User
	ExistingIntervals  []Interval
}

// Interval 是某个员工已被占用的一段时间，用于预置冲突追踪器
type Interval struct {
	EmployeeID int64
	Date       string
	StartTime  string
	EndTime    string
}

// Summary 汇总一次生成的结果。
// 恒有 TotalShiftsRequested == ShiftsGenerated + PartialCoverage + NoCoverage
type Summary struct {
	TotalShiftsRequested int      `json:"totalShiftsRequested"`
	ShiftsGenerated      int      `json:"shiftsGenerated"`
	PartialCoverage      int      `json:"partialCoverage"`
	NoCoverage           int      `json:"noCoverage"`
	Warnings             []string `json:"warnings"`
}

type Result struct {
	Shifts  []*domain.Shift `json:"shifts"`
	Summary *Summary        `json:"summary"`
}
