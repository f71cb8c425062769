package timeclock

import (
	"time"

	"github.com/schedulehub/backend/internal/domain"
	"github.com/schedulehub/backend/internal/utils"
)

// Result 是一次下班打卡的工时拆分。
// 恒有 RegularHours + OvertimeHours == WorkedHours，且三者均非负
type Result struct {
	WorkedHours   float64 `json:"workedHours"`
	RegularHours  float64 `json:"regularHours"`
	OvertimeHours float64 `json:"overtimeHours"`
}

// ScheduledHours 计算班次的计划工作时长（小时）：
// 计划时间窗减去计划休息时间，跨天班次顺延 24 小时
func ScheduledHours(shift *domain.Shift) (float64, error) {
	startClock, err := utils.ParseClock(shift.StartTime)
	if err != nil {
		return 0, err
	}
	endClock, err := utils.ParseClock(shift.EndTime)
	if err != nil {
		return 0, err
	}

	window := endClock.Sub(startClock)
	if window <= 0 {
		window += 24 * time.Hour
	}
	hours := window.Hours() - float64(shift.BreakMinutes)/60
	if hours < 0 {
		hours = 0
	}
	return hours, nil
}

// Compute 根据打卡时间和实际休息时间拆分正常工时与加班工时。
// 计件基准因聘用类型而异：兼职以班次计划时长为基准，
// 全职以固定的每日工时（fullTimeDailyHours）为基准
func Compute(clockIn, clockOut time.Time, actualBreakMinutes int32, scheduledHours float64, employment domain.EmploymentType, fullTimeDailyHours float64) (*Result, error) {
	if clockOut.Before(clockIn) {
		return nil, domain.NewValidationError("打卡", "下班时间不能早于上班时间")
	}
	if actualBreakMinutes < 0 {
		return nil, domain.NewValidationError("打卡", "实际休息时间不能为负数")
	}

	worked := clockOut.Sub(clockIn).Hours() - float64(actualBreakMinutes)/60
	if worked < 0 {
		return nil, domain.NewValidationError("打卡", "实际休息时间超过了工作时长")
	}

	baseline := scheduledHours
	if employment == domain.EmploymentFullTime {
		baseline = fullTimeDailyHours
	}

	regular := worked
	if regular > baseline {
		regular = baseline
	}

	return &Result{
		WorkedHours:   worked,
		RegularHours:  regular,
		OvertimeHours: worked - regular,
	}, nil
}
