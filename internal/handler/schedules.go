package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/schedulehub/backend/internal/domain"
	"github.com/schedulehub/backend/internal/scheduler"
	"github.com/schedulehub/backend/internal/utils"
)

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name" validate:"required,max=64"`
		Description string `json:"description"`
		StartDate   string `json:"startDate" validate:"required"`
		EndDate     string `json:"endDate" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateDateRange(req.StartDate, req.EndDate); err != nil {
		h.domainError(w, r, err)
		return
	}

	sub, err := h.actorID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	schedule := &domain.Schedule{
		OrganizationID: h.orgID(r),
		Name:           req.Name,
		Description:    req.Description,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Status:         domain.ScheduleStatusDraft,
		CreatedBy:      sub,
		UpdatedBy:      sub,
	}

	if err := h.repository.CreateSchedule(schedule); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建排班表成功", schedule)
}

// AutoGenerateSchedule 按模板自动生成一个排班周期内的所有班次。
// 员工名单和已提交班次在生成前一次性读出，生成引擎本身不访问数据库，
// 生成结果和排班表在同一个事务中落库，失败时不会留下半成品
func (h *Handler) AutoGenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name               string            `json:"name" validate:"required,max=64"`
		Description        string            `json:"description"`
		StartDate          string            `json:"startDate" validate:"required"`
		EndDate            string            `json:"endDate" validate:"required"`
		StationID          int64             `json:"stationID" validate:"required"`
		RoleID             int64             `json:"roleID" validate:"required"`
		TemplateIDs        []int64           `json:"templateIDs"`
		TemplateDayMapping map[int32][]int64 `json:"templateDayMapping"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	sub, err := h.actorID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	orgID := h.orgID(r)

	// 一次性读出生成所需的全部数据
	workers, err := h.repository.GetActiveWorkers(orgID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	assigned, err := h.repository.GetAssignedIntervals(orgID, req.StartDate, req.EndDate)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	intervals := make([]scheduler.Interval, 0, len(assigned))
	for _, iv := range assigned {
		intervals = append(intervals, scheduler.Interval{
			EmployeeID: iv.EmployeeID,
			Date:       iv.ShiftDate,
			StartTime:  iv.StartTime,
			EndTime:    iv.EndTime,
		})
	}

	generator := scheduler.New(h.repository)
	result, err := generator.Generate(&scheduler.Request{
		OrganizationID:     orgID,
		StationID:          req.StationID,
		RoleID:             req.RoleID,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		TemplateIDs:        req.TemplateIDs,
		TemplateDayMapping: req.TemplateDayMapping,
		Workers:            workers,
		ExistingIntervals:  intervals,
	})
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	schedule := &domain.Schedule{
		OrganizationID: orgID,
		Name:           req.Name,
		Description:    req.Description,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Status:         domain.ScheduleStatusDraft,
		CreatedBy:      sub,
		UpdatedBy:      sub,
	}

	if err := h.repository.CreateScheduleWithShifts(schedule, result.Shifts); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "生成排班表成功", map[string]any{
		"schedule":          schedule,
		"shifts":            result.Shifts,
		"generationSummary": result.Summary,
	})
}

func (h *Handler) GetAllSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.repository.GetAllSchedules(h.orgID(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班表列表成功", schedules)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)
	h.successResponse(w, r, "获取排班表成功", schedule)
}

func (h *Handler) GetScheduleShifts(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	shifts, err := h.repository.GetShiftsByScheduleID(schedule.ID, schedule.OrganizationID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班表班次成功", shifts)
}

func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	var req struct {
		Name        *string `json:"name" validate:"omitempty,max=64"`
		Description *string `json:"description"`
		Status      *string `json:"status" validate:"omitempty,oneof=draft published"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		schedule.Name = *req.Name
	}
	if req.Description != nil {
		schedule.Description = *req.Description
	}
	if req.Status != nil {
		schedule.Status = domain.ScheduleStatus(*req.Status)
	}

	sub, err := h.actorID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	schedule.UpdatedBy = sub

	if err := h.repository.UpdateSchedule(schedule); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "排班表已被其他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新排班表成功", schedule)
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	if schedule.Status == domain.ScheduleStatusPublished {
		h.errorResponse(w, r, "已发布的排班表不能删除，请先取消发布")
		return
	}

	if err := h.repository.DeleteSchedule(schedule.ID, schedule.OrganizationID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "排班表不存在或已被删除")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除排班表成功", nil)
}
