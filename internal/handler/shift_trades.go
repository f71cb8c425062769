package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/schedulehub/backend/internal/domain"
)

func (h *Handler) RequestTrade(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromShiftID int64  `json:"fromShiftID" validate:"required"`
		ToShiftID   int64  `json:"toShiftID" validate:"required"`
		Notes       string `json:"notes" validate:"max=512"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.FromShiftID == req.ToShiftID {
		h.errorResponse(w, r, "不能和自己的班次交换")
		return
	}

	sub, err := h.actorID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	orgID := h.orgID(r)

	fromShift, err := h.repository.GetShiftByID(req.FromShiftID, orgID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}
	toShift, err := h.repository.GetShiftByID(req.ToShiftID, orgID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := domain.ValidateTradeRequest(fromShift, toShift, sub); err != nil {
		h.domainError(w, r, err)
		return
	}

	// 限制同时进行中的换班申请数量
	now := time.Now()
	activeCount, err := h.repository.CountActiveTrades(orgID, sub, now)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if activeCount >= h.config.Scheduling.MaxActiveTrades {
		h.errorResponse(w, r, "进行中的换班申请数量已达上限")
		return
	}

	trade := &domain.ShiftTrade{
		OrganizationID:     orgID,
		FromShiftID:        fromShift.ID,
		ToShiftID:          toShift.ID,
		RequestingWorkerID: sub,
		RespondingWorkerID: *toShift.EmployeeID,
		Status:             domain.TradeStatusPending,
		ExpiresAt:          now.Add(time.Duration(h.config.Scheduling.TradeExpiration) * time.Hour),
		Notes:              req.Notes,
	}

	if err := h.repository.CreateShiftTrade(trade); err != nil {
		h.domainError(w, r, err)
		return
	}

	// 通知对方，失败只记日志
	requester, err := h.repository.GetUserByID(sub)
	if err == nil {
		responder, err := h.repository.GetUserByID(trade.RespondingWorkerID)
		if err == nil {
			if err := h.publishNotification(domain.NotificationMessage{
				Type: "trade_requested",
				To:   responder.Email,
				Data: domain.TradeRequestedMailData{
					FullName:      responder.FullName,
					RequesterName: requester.FullName,
					ShiftDate:     fromShift.ShiftDate,
					StartTime:     fromShift.StartTime,
					EndTime:       fromShift.EndTime,
					ExpiresAt:     trade.ExpiresAt.Format("2006-01-02 15:04"),
				},
			}); err != nil {
				slog.Error("推送换班申请通知失败", "tradeID", trade.ID, "error", err)
			}
		}
	}

	h.successResponse(w, r, "发起换班申请成功", trade)
}

func (h *Handler) RespondToTrade(w http.ResponseWriter, r *http.Request) {
	trade := r.Context().Value(ShiftTradeCtx).(*domain.ShiftTrade)

	var req struct {
		Decision string `json:"decision" validate:"required,oneof=accept reject"`
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
	if err := trade.AuthorizeResponse(sub); err != nil {
		h.domainError(w, r, err)
		return
	}

	now := time.Now()
	if trade.IsExpired(now) {
		h.errorResponse(w, r, "换班申请已过期")
		return
	}

	target := domain.TradeStatusAccepted
	if req.Decision == "reject" {
		target = domain.TradeStatusRejected
	}
	if !trade.Status.CanTransitionTo(target) {
		h.errorResponse(w, r, "换班申请当前状态不允许响应")
		return
	}

	trade.Status = target
	trade.RespondedAt = &now

	if err := h.repository.UpdateShiftTrade(trade); err != nil {
		h.domainError(w, r, err)
		return
	}

	// 通知发起方
	requester, err := h.repository.GetUserByID(trade.RequestingWorkerID)
	if err == nil {
		responder, err := h.repository.GetUserByID(trade.RespondingWorkerID)
		if err == nil {
			fromShift, err := h.repository.GetShiftByID(trade.FromShiftID, trade.OrganizationID)
			if err == nil {
				if err := h.publishNotification(domain.NotificationMessage{
					Type: "trade_responded",
					To:   requester.Email,
					Data: domain.TradeRespondedMailData{
						FullName:      requester.FullName,
						ResponderName: responder.FullName,
						Decision:      req.Decision,
						ShiftDate:     fromShift.ShiftDate,
					},
				}); err != nil {
					slog.Error("推送换班响应通知失败", "tradeID", trade.ID, "error", err)
				}
			}
		}
	}

	h.successResponse(w, r, "响应换班申请成功", trade)
}

// DecideTrade 是经理对已被接受的换班申请做最终裁决。
// 批准时在同一个事务里完成换班，任何一步失败整个交换回滚
func (h *Handler) DecideTrade(w http.ResponseWriter, r *http.Request) {
	trade := r.Context().Value(ShiftTradeCtx).(*domain.ShiftTrade)

	var req struct {
		Decision     string `json:"decision" validate:"required,oneof=approve reject"`
		ManagerNotes string `json:"managerNotes" validate:"max=512"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	now := time.Now()
	if trade.IsExpired(now) {
		h.errorResponse(w, r, "换班申请已过期")
		return
	}

	target := domain.TradeStatusApproved
	if req.Decision == "reject" {
		target = domain.TradeStatusManagerRejected
	}
	if err := trade.ValidateDecision(target); err != nil {
		h.domainError(w, r, err)
		return
	}

	sub, err := h.actorID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	trade.Decide(target, sub, req.ManagerNotes, now)

	if target == domain.TradeStatusManagerRejected {
		if err := h.repository.UpdateShiftTrade(trade); err != nil {
			h.domainError(w, r, err)
			return
		}
	} else {
		fromShift, err := h.repository.GetShiftByID(trade.FromShiftID, trade.OrganizationID)
		if err != nil {
			h.domainError(w, r, err)
			return
		}
		toShift, err := h.repository.GetShiftByID(trade.ToShiftID, trade.OrganizationID)
		if err != nil {
			h.domainError(w, r, err)
			return
		}

		// 审核期间班次可能已经变动，批准前再校验一次归属和状态
		if fromShift.EmployeeID == nil || *fromShift.EmployeeID != trade.RequestingWorkerID ||
			toShift.EmployeeID == nil || *toShift.EmployeeID != trade.RespondingWorkerID {
			h.errorResponse(w, r, "班次归属已变动，换班申请无法批准")
			return
		}
		if fromShift.Status != domain.ShiftStatusScheduled || toShift.Status != domain.ShiftStatusScheduled {
			h.errorResponse(w, r, "班次状态已变动，换班申请无法批准")
			return
		}

		if err := h.repository.ApproveTradeAndSwapShifts(trade, fromShift, toShift); err != nil {
			h.domainError(w, r, err)
			return
		}
	}

	// 通知双方
	fromShift, shiftErr := h.repository.GetShiftByID(trade.FromShiftID, trade.OrganizationID)
	if shiftErr == nil {
		for _, workerID := range []int64{trade.RequestingWorkerID, trade.RespondingWorkerID} {
			worker, err := h.repository.GetUserByID(workerID)
			if err != nil {
				continue
			}
			if err := h.publishNotification(domain.NotificationMessage{
				Type: "trade_decided",
				To:   worker.Email,
				Data: domain.TradeDecidedMailData{
					FullName:     worker.FullName,
					Decision:     req.Decision,
					ShiftDate:    fromShift.ShiftDate,
					ManagerNotes: trade.ManagerNotes,
				},
			}); err != nil {
				slog.Error("推送换班裁决通知失败", "tradeID", trade.ID, "error", err)
			}
		}
	}

	h.successResponse(w, r, "裁决换班申请成功", trade)
}

func (h *Handler) CancelTrade(w http.ResponseWriter, r *http.Request) {
	trade := r.Context().Value(ShiftTradeCtx).(*domain.ShiftTrade)

	sub, err := h.actorID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := trade.AuthorizeCancel(sub); err != nil {
		h.domainError(w, r, err)
		return
	}

	if trade.IsExpired(time.Now()) {
		h.errorResponse(w, r, "换班申请已过期")
		return
	}
	if !trade.Status.CanTransitionTo(domain.TradeStatusCancelled) {
		h.errorResponse(w, r, "换班申请当前状态不允许取消")
		return
	}

	trade.Status = domain.TradeStatusCancelled

	if err := h.repository.UpdateShiftTrade(trade); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "取消换班申请成功", trade)
}

func (h *Handler) GetMyTrades(w http.ResponseWriter, r *http.Request) {
	sub, err := h.actorID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	trades, err := h.repository.GetTradesByParticipant(h.orgID(r), sub)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 对外状态需要把过期考虑进去
	now := time.Now()
	for _, trade := range trades {
		trade.Status = trade.EffectiveStatus(now)
	}

	h.successResponse(w, r, "获取换班申请列表成功", trades)
}

func (h *Handler) GetTrade(w http.ResponseWriter, r *http.Request) {
	trade := r.Context().Value(ShiftTradeCtx).(*domain.ShiftTrade)
	trade.Status = trade.EffectiveStatus(time.Now())
	h.successResponse(w, r, "获取换班申请成功", trade)
}
