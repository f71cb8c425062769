package domain

import "time"

type ShiftStatus string

const (
	ShiftStatusScheduled  ShiftStatus = "scheduled"
	ShiftStatusInProgress ShiftStatus = "in_progress"
	ShiftStatusCompleted  ShiftStatus = "completed"
	ShiftStatusCancelled  ShiftStatus = "cancelled"
)

// shiftTransitions 定义班次状态机的合法转移：
// scheduled -> in_progress -> completed，cancelled 可从前两者到达
var shiftTransitions = map[ShiftStatus][]ShiftStatus{
	ShiftStatusScheduled:  {ShiftStatusInProgress, ShiftStatusCancelled},
	ShiftStatusInProgress: {ShiftStatusCompleted, ShiftStatusCancelled},
	ShiftStatusCompleted:  {},
	ShiftStatusCancelled:  {},
}

func (s ShiftStatus) CanTransitionTo(target ShiftStatus) bool {
	for _, next := range shiftTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s ShiftStatus) IsTerminal() bool {
	return len(shiftTransitions[s]) == 0
}

type Shift struct {
	ID                 int64       `json:"id"`
	OrganizationID     int64       `json:"organizationID"`
	ScheduleID         int64       `json:"scheduleID"`
	StationID          int64       `json:"stationID"`
	RoleID             int64       `json:"roleID"`
	EmployeeID         *int64      `json:"employeeID"`
	ShiftDate          string      `json:"shiftDate"` // YYYY-MM-DD
	StartTime          string      `json:"startTime"` // HH:MM:SS
	EndTime            string      `json:"endTime"`   // HH:MM:SS
	BreakMinutes       int32       `json:"breakMinutes"`
	ActualBreakMinutes *int32      `json:"actualBreakMinutes"`
	ClockInTime        *time.Time  `json:"clockInTime"`
	ClockOutTime       *time.Time  `json:"clockOutTime"`
	Status             ShiftStatus `json:"status"`
	ActualHours        *float64    `json:"actualHours"`
	CreatedAt          time.Time   `json:"createdAt"`
	Version            int32       `json:"-"`
}

// AssignedTo 判断班次是否分配给指定员工
func (s *Shift) AssignedTo(workerID int64) bool {
	return s.EmployeeID != nil && *s.EmployeeID == workerID
}

// ValidateClockIn 检查班次当前状态是否允许打卡上班
func (s *Shift) ValidateClockIn() error {
	switch {
	case s.Status == ShiftStatusCompleted:
		return NewValidationError("班次", "已完成的班次不能打卡上班")
	case s.Status == ShiftStatusCancelled:
		return NewValidationError("班次", "已取消的班次不能打卡上班")
	case s.ClockInTime != nil:
		return NewValidationError("班次", "不能重复打卡上班")
	}
	return nil
}

// ValidateClockOut 检查班次当前状态是否允许打卡下班
func (s *Shift) ValidateClockOut() error {
	switch {
	case s.Status == ShiftStatusCompleted:
		return NewValidationError("班次", "已完成的班次不能打卡下班")
	case s.Status == ShiftStatusCancelled:
		return NewValidationError("班次", "已取消的班次不能打卡下班")
	case s.ClockInTime == nil:
		return NewValidationError("班次", "尚未打卡上班")
	case s.ClockOutTime != nil:
		return NewValidationError("班次", "不能重复打卡下班")
	}
	return nil
}
