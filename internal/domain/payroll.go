package domain

import "time"

// TimeEntry 是打卡下班后交给外部薪资系统的工时记录
type TimeEntry struct {
	EmployeeID     int64     `json:"employeeID"`
	ShiftID        int64     `json:"shiftID"`
	OrganizationID int64     `json:"organizationID"`
	WorkDate       string    `json:"workDate"` // YYYY-MM-DD
	RegularHours   float64   `json:"regularHours"`
	OvertimeHours  float64   `json:"overtimeHours"`
	ClockIn        time.Time `json:"clockIn"`
	ClockOut       time.Time `json:"clockOut"`
}

type TimeEntryReceipt struct {
	TimeEntryID string `json:"timeEntryID"`
	Success     bool   `json:"success"`
}
