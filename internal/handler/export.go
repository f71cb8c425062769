package handler

import (
	"fmt"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/schedulehub/backend/internal/domain"
	"github.com/schedulehub/backend/internal/utils"
	"github.com/xuri/excelize/v2"
)

// ExportSchedule 把排班表导出为 Excel，按日期行 × 列（岗位、时间、员工）呈现
func (h *Handler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	shifts, err := h.repository.GetShiftsByScheduleID(schedule.ID, schedule.OrganizationID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	stations, err := h.repository.GetAllStations(schedule.OrganizationID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	stationNames := make(map[int64]string, len(stations))
	for _, station := range stations {
		stationNames[station.ID] = station.Name
	}

	// 员工姓名按需查一次并缓存，导出量不大不需要批量查询
	employeeNames := map[int64]string{}
	lookupEmployee := func(id int64) string {
		if name, ok := employeeNames[id]; ok {
			return name
		}
		name := "未知员工"
		if user, err := h.repository.GetUserByID(id); err == nil {
			name = user.FullName
		}
		employeeNames[id] = name
		return name
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := "排班表"
	file.SetSheetName("Sheet1", sheet)

	headers := []string{"日期", "岗位", "开始时间", "结束时间", "休息(分钟)", "员工", "状态"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, header)
	}

	for i, shift := range shifts {
		row := i + 2

		employeeName := "未分配"
		if shift.EmployeeID != nil {
			employeeName = lookupEmployee(*shift.EmployeeID)
		}

		values := []any{
			shift.ShiftDate,
			stationNames[shift.StationID],
			shift.StartTime,
			shift.EndTime,
			shift.BreakMinutes,
			employeeName,
			string(shift.Status),
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			file.SetCellValue(sheet, cell, value)
		}
	}

	filename := fmt.Sprintf("%s_%s_%s.xlsx", schedule.Name, schedule.StartDate, schedule.EndDate)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := file.Write(w); err != nil {
		h.logInternalServerError(r, err)
	}
}

// ExportMyShiftsICS 把当前用户的班次导出为 iCalendar (RFC 5545)，
// 方便导入到日历应用
func (h *Handler) ExportMyShiftsICS(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	shifts, err := h.repository.GetShiftsByEmployee(myInfo.OrganizationID, myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	stations, err := h.repository.GetAllStations(myInfo.OrganizationID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	stationNames := make(map[int64]string, len(stations))
	for _, station := range stations {
		stationNames[station.ID] = station.Name
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//ScheduleHub//排班日历//ZH")

	now := time.Now()
	for _, shift := range shifts {
		if shift.Status == domain.ShiftStatusCancelled {
			continue
		}

		date, err := utils.ParseDate(shift.ShiftDate)
		if err != nil {
			continue
		}
		startClock, err := utils.ParseClock(shift.StartTime)
		if err != nil {
			continue
		}
		endClock, err := utils.ParseClock(shift.EndTime)
		if err != nil {
			continue
		}

		start := date.Add(time.Duration(startClock.Hour())*time.Hour + time.Duration(startClock.Minute())*time.Minute)
		end := date.Add(time.Duration(endClock.Hour())*time.Hour + time.Duration(endClock.Minute())*time.Minute)
		if !end.After(start) {
			// 跨夜班次结束时间落在次日
			end = end.Add(24 * time.Hour)
		}

		event := cal.AddEvent(uuid.NewString())
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("班次：%s", stationNames[shift.StationID]))
		event.SetDescription(fmt.Sprintf("休息 %d 分钟", shift.BreakMinutes))
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="my-shifts.ics"`)

	if _, err := w.Write([]byte(cal.Serialize())); err != nil {
		h.logInternalServerError(r, err)
	}
}
