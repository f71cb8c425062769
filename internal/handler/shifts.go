package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/schedulehub/backend/internal/domain"
	"github.com/schedulehub/backend/internal/timeclock"
	"github.com/schedulehub/backend/internal/utils"
)

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScheduleID   int64  `json:"scheduleID" validate:"required"`
		StationID    int64  `json:"stationID" validate:"required"`
		RoleID       int64  `json:"roleID" validate:"required"`
		EmployeeID   *int64 `json:"employeeID"`
		ShiftDate    string `json:"shiftDate" validate:"required"`
		StartTime    string `json:"startTime" validate:"required"`
		EndTime      string `json:"endTime" validate:"required"`
		BreakMinutes int32  `json:"breakMinutes" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if _, err := utils.ParseDate(req.ShiftDate); err != nil {
		h.domainError(w, r, err)
		return
	}
	if _, err := utils.ParseClock(req.StartTime); err != nil {
		h.domainError(w, r, err)
		return
	}
	if _, err := utils.ParseClock(req.EndTime); err != nil {
		h.domainError(w, r, err)
		return
	}

	orgID := h.orgID(r)

	schedule, err := h.repository.GetScheduleByID(req.ScheduleID, orgID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}
	if schedule.Status == domain.ScheduleStatusPublished {
		h.errorResponse(w, r, "已发布的排班表不能直接添加班次")
		return
	}

	shift := &domain.Shift{
		OrganizationID: orgID,
		ScheduleID:     req.ScheduleID,
		StationID:      req.StationID,
		RoleID:         req.RoleID,
		EmployeeID:     req.EmployeeID,
		ShiftDate:      req.ShiftDate,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		BreakMinutes:   req.BreakMinutes,
		Status:         domain.ShiftStatusScheduled,
	}

	if err := h.repository.CreateShift(shift); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建班次成功", shift)
}

func (h *Handler) GetShiftsByDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if _, err := utils.ParseDate(date); err != nil {
		h.domainError(w, r, err)
		return
	}

	shifts, err := h.repository.GetShiftsByDate(h.orgID(r), date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次列表成功", shifts)
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)
	h.successResponse(w, r, "获取班次成功", shift)
}

// canOperateShift 检查当前用户是否能对班次打卡：
// 班次的受派员工本人或经理
func (h *Handler) canOperateShift(r *http.Request, shift *domain.Shift) (bool, error) {
	role, _ := r.Context().Value(RoleCtxKey).(string)
	if domain.Role(role) == domain.RoleManager {
		return true, nil
	}

	sub, err := h.actorID(r)
	if err != nil {
		return false, err
	}

	return shift.EmployeeID != nil && *shift.EmployeeID == sub, nil
}

func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	allowed, err := h.canOperateShift(r, shift)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !allowed {
		h.domainError(w, r, domain.NewForbiddenError("班次", "只能为自己的班次打卡"))
		return
	}

	if shift.EmployeeID == nil {
		h.errorResponse(w, r, "未分配员工的班次不能打卡")
		return
	}

	if err := shift.ValidateClockIn(); err != nil {
		h.domainError(w, r, err)
		return
	}

	// 不传时间则按服务器当前时间打卡
	var req struct {
		ClockInTime *time.Time `json:"clockInTime"`
	}
	if err := h.readJSON(r, &req); err != nil && r.ContentLength > 0 {
		h.badRequest(w, r, err)
		return
	}

	at := time.Now()
	if req.ClockInTime != nil {
		at = *req.ClockInTime
	}

	if err := h.repository.ClockInShift(shift, at); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "打卡上班成功", shift)
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	allowed, err := h.canOperateShift(r, shift)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !allowed {
		h.domainError(w, r, domain.NewForbiddenError("班次", "只能为自己的班次打卡"))
		return
	}

	if err := shift.ValidateClockOut(); err != nil {
		h.domainError(w, r, err)
		return
	}

	var req struct {
		ClockOutTime       *time.Time `json:"clockOutTime"`
		ActualBreakMinutes *int32     `json:"actualBreakMinutes" validate:"omitempty,gte=0"`
	}
	if err := h.readJSON(r, &req); err != nil && r.ContentLength > 0 {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	at := time.Now()
	if req.ClockOutTime != nil {
		at = *req.ClockOutTime
	}

	// 未上报实际休息时间时按排班休息时间计
	actualBreakMinutes := shift.BreakMinutes
	if req.ActualBreakMinutes != nil {
		actualBreakMinutes = *req.ActualBreakMinutes
	}

	employee, err := h.repository.GetUserByID(*shift.EmployeeID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	scheduledHours, err := timeclock.ScheduledHours(shift)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	result, err := timeclock.Compute(*shift.ClockInTime, at, actualBreakMinutes, scheduledHours, employee.EmploymentType, h.config.Scheduling.FullTimeDailyHours)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.repository.ClockOutShift(shift, at, actualBreakMinutes, result.WorkedHours); err != nil {
		h.domainError(w, r, err)
		return
	}

	// 工时记录交给薪资系统，失败只记日志不影响下班打卡
	sub, _ := h.actorID(r)
	receipt, err := h.payroll.RecordTimeEntry(&domain.TimeEntry{
		EmployeeID:     *shift.EmployeeID,
		ShiftID:        shift.ID,
		OrganizationID: shift.OrganizationID,
		WorkDate:       shift.ShiftDate,
		RegularHours:   result.RegularHours,
		OvertimeHours:  result.OvertimeHours,
		ClockIn:        *shift.ClockInTime,
		ClockOut:       at,
	}, sub)
	if err != nil {
		slog.Error("推送工时记录到薪资系统失败", "shiftID", shift.ID, "error", err)
		receipt = nil
	}

	h.successResponse(w, r, "打卡下班成功", map[string]any{
		"shift":              shift,
		"timeTracking":       result,
		"payrollIntegration": receipt,
	})
}

func (h *Handler) CancelShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	if !shift.Status.CanTransitionTo(domain.ShiftStatusCancelled) {
		h.errorResponse(w, r, "当前状态的班次不能取消")
		return
	}

	if err := h.repository.CancelShift(shift); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "取消班次成功", shift)
}
