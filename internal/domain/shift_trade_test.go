package domain

import (
	"testing"
	"time"
)

func TestTradeStatusTransitions(t *testing.T) {
	tests := []struct {
		from   TradeStatus
		to     TradeStatus
		wantOK bool
	}{
		{TradeStatusPending, TradeStatusAccepted, true},
		{TradeStatusPending, TradeStatusRejected, true},
		{TradeStatusPending, TradeStatusCancelled, true},
		{TradeStatusPending, TradeStatusApproved, false},
		{TradeStatusAccepted, TradeStatusApproved, true},
		{TradeStatusAccepted, TradeStatusManagerRejected, true},
		{TradeStatusAccepted, TradeStatusCancelled, false},
		{TradeStatusRejected, TradeStatusAccepted, false},
		{TradeStatusApproved, TradeStatusManagerRejected, false},
		{TradeStatusCancelled, TradeStatusPending, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.wantOK {
			t.Errorf("%s -> %s：期望 %v，实际 %v", tt.from, tt.to, tt.wantOK, got)
		}
	}
}

func TestTradeExpiry(t *testing.T) {
	now := time.Now()

	pending := &ShiftTrade{Status: TradeStatusPending, ExpiresAt: now.Add(-time.Hour)}
	if !pending.IsExpired(now) {
		t.Error("超过截止时间的 pending 申请应判定为过期")
	}
	if pending.EffectiveStatus(now) != TradeStatusExpired {
		t.Errorf("对外状态应为 expired，实际 %s", pending.EffectiveStatus(now))
	}

	accepted := &ShiftTrade{Status: TradeStatusAccepted, ExpiresAt: now.Add(-time.Minute)}
	if !accepted.IsExpired(now) {
		t.Error("超过截止时间的 accepted 申请应判定为过期")
	}

	active := &ShiftTrade{Status: TradeStatusPending, ExpiresAt: now.Add(time.Hour)}
	if active.IsExpired(now) {
		t.Error("未到截止时间的申请不应判定为过期")
	}
	if active.EffectiveStatus(now) != TradeStatusPending {
		t.Errorf("对外状态应保持 pending，实际 %s", active.EffectiveStatus(now))
	}

	// 终态不受截止时间影响
	approved := &ShiftTrade{Status: TradeStatusApproved, ExpiresAt: now.Add(-time.Hour)}
	if approved.IsExpired(now) {
		t.Error("已批准的申请不应因截止时间变为过期")
	}
	if approved.EffectiveStatus(now) != TradeStatusApproved {
		t.Errorf("对外状态应保持 approved，实际 %s", approved.EffectiveStatus(now))
	}
}

func workerPtr(id int64) *int64 { return &id }

func TestTradeRequestGuards(t *testing.T) {
	fromShift := &Shift{ID: 1, EmployeeID: workerPtr(100), Status: ShiftStatusScheduled}
	toShift := &Shift{ID: 2, EmployeeID: workerPtr(200), Status: ShiftStatusScheduled}

	if err := ValidateTradeRequest(fromShift, toShift, 100); err != nil {
		t.Fatalf("用自己的班次发起申请应通过，实际 %v", err)
	}

	// 发起方不是 fromShift 的受派员工
	err := ValidateTradeRequest(fromShift, toShift, 300)
	if kind, ok := KindOf(err); !ok || kind != KindForbidden {
		t.Errorf("用别人的班次发起申请应返回 forbidden，实际 %v", err)
	}

	err = ValidateTradeRequest(fromShift, &Shift{ID: 2, Status: ShiftStatusScheduled}, 100)
	if kind, ok := KindOf(err); !ok || kind != KindValidation {
		t.Errorf("目标班次未分配员工应返回 validation，实际 %v", err)
	}

	err = ValidateTradeRequest(fromShift, &Shift{ID: 2, EmployeeID: workerPtr(100), Status: ShiftStatusScheduled}, 100)
	if kind, ok := KindOf(err); !ok || kind != KindValidation {
		t.Errorf("和自己的另一个班次交换应返回 validation，实际 %v", err)
	}

	started := &Shift{ID: 1, EmployeeID: workerPtr(100), Status: ShiftStatusInProgress}
	err = ValidateTradeRequest(started, toShift, 100)
	if kind, ok := KindOf(err); !ok || kind != KindValidation {
		t.Errorf("已开始的班次发起交换应返回 validation，实际 %v", err)
	}
}

func TestTradeActorAuthorization(t *testing.T) {
	trade := &ShiftTrade{RequestingWorkerID: 100, RespondingWorkerID: 200}

	if err := trade.AuthorizeResponse(200); err != nil {
		t.Errorf("被请求方响应应通过，实际 %v", err)
	}
	if kind, ok := KindOf(trade.AuthorizeResponse(100)); !ok || kind != KindForbidden {
		t.Error("非被请求方响应应返回 forbidden")
	}

	if err := trade.AuthorizeCancel(100); err != nil {
		t.Errorf("发起方取消应通过，实际 %v", err)
	}
	if kind, ok := KindOf(trade.AuthorizeCancel(200)); !ok || kind != KindForbidden {
		t.Error("非发起方取消应返回 forbidden")
	}
}

func TestTradeDecisionRequiresAccepted(t *testing.T) {
	pending := &ShiftTrade{Status: TradeStatusPending}
	if kind, ok := KindOf(pending.ValidateDecision(TradeStatusApproved)); !ok || kind != KindValidation {
		t.Error("pending 申请直接批准应返回 validation")
	}
	if kind, ok := KindOf(pending.ValidateDecision(TradeStatusManagerRejected)); !ok || kind != KindValidation {
		t.Error("pending 申请直接驳回应返回 validation")
	}

	accepted := &ShiftTrade{Status: TradeStatusAccepted}
	if err := accepted.ValidateDecision(TradeStatusApproved); err != nil {
		t.Errorf("accepted 申请批准应通过，实际 %v", err)
	}
}

func TestTradeDecideRecordsApproverOnlyOnApproval(t *testing.T) {
	now := time.Now()

	approved := &ShiftTrade{Status: TradeStatusAccepted}
	approved.Decide(TradeStatusApproved, 9, "同意", now)
	if approved.Status != TradeStatusApproved || approved.ManagerNotes != "同意" {
		t.Errorf("批准后状态或备注不正确: %+v", approved)
	}
	if approved.ApprovedBy == nil || *approved.ApprovedBy != 9 || approved.ApprovedAt == nil {
		t.Error("批准时应记录审批人和审批时间")
	}

	rejected := &ShiftTrade{Status: TradeStatusAccepted}
	rejected.Decide(TradeStatusManagerRejected, 9, "人手不够", now)
	if rejected.Status != TradeStatusManagerRejected {
		t.Errorf("驳回后状态应为 manager_rejected，实际 %s", rejected.Status)
	}
	if rejected.ApprovedBy != nil || rejected.ApprovedAt != nil {
		t.Error("经理驳回不应记录审批人和审批时间")
	}
}
