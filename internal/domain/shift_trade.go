package domain

import "time"

type TradeStatus string

const (
	TradeStatusPending         TradeStatus = "pending"
	TradeStatusAccepted        TradeStatus = "accepted"
	TradeStatusRejected        TradeStatus = "rejected"
	TradeStatusApproved        TradeStatus = "approved"
	TradeStatusManagerRejected TradeStatus = "manager_rejected"
	TradeStatusCancelled       TradeStatus = "cancelled"
	TradeStatusExpired         TradeStatus = "expired"
)

// tradeTransitions 定义换班申请的状态机：
// pending -> {accepted, rejected, cancelled}，accepted -> {approved, manager_rejected}
var tradeTransitions = map[TradeStatus][]TradeStatus{
	TradeStatusPending:  {TradeStatusAccepted, TradeStatusRejected, TradeStatusCancelled},
	TradeStatusAccepted: {TradeStatusApproved, TradeStatusManagerRejected},
}

func (s TradeStatus) CanTransitionTo(target TradeStatus) bool {
	for _, next := range tradeTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s TradeStatus) IsTerminal() bool {
	return len(tradeTransitions[s]) == 0
}

type ShiftTrade struct {
	ID                 int64       `json:"id"`
	OrganizationID     int64       `json:"organizationID"`
	FromShiftID        int64       `json:"fromShiftID"`
	ToShiftID          int64       `json:"toShiftID"`
	RequestingWorkerID int64       `json:"requestingWorkerID"`
	RespondingWorkerID int64       `json:"respondingWorkerID"`
	Status             TradeStatus `json:"status"`
	RequestedAt        time.Time   `json:"requestedAt"`
	RespondedAt        *time.Time  `json:"respondedAt"`
	ApprovedBy         *int64      `json:"approvedBy"`
	ApprovedAt         *time.Time  `json:"approvedAt"`
	ExpiresAt          time.Time   `json:"expiresAt"`
	Notes              string      `json:"notes"`
	ManagerNotes       string      `json:"managerNotes"`
	Version            int32       `json:"-"`
}

// ValidateTradeRequest 校验发起换班申请的前置条件：
// 发起方必须是 fromShift 的受派员工，目标班次已分配给他人，双方班次都未开始
func ValidateTradeRequest(fromShift, toShift *Shift, requesterID int64) error {
	if !fromShift.AssignedTo(requesterID) {
		return NewForbiddenError("换班申请", "只能用自己的班次发起换班申请")
	}
	if toShift.EmployeeID == nil {
		return NewValidationError("换班申请", "目标班次未分配员工，不能发起换班申请")
	}
	if toShift.AssignedTo(requesterID) {
		return NewValidationError("换班申请", "不能和自己交换班次")
	}
	if fromShift.Status != ShiftStatusScheduled || toShift.Status != ShiftStatusScheduled {
		return NewValidationError("换班申请", "只有未开始的班次才能交换")
	}
	return nil
}

// AuthorizeResponse 只有被请求方才能响应申请
func (t *ShiftTrade) AuthorizeResponse(workerID int64) error {
	if t.RespondingWorkerID != workerID {
		return NewForbiddenError("换班申请", "只有被请求方才能响应换班申请")
	}
	return nil
}

// AuthorizeCancel 只有发起方才能取消申请
func (t *ShiftTrade) AuthorizeCancel(workerID int64) error {
	if t.RequestingWorkerID != workerID {
		return NewForbiddenError("换班申请", "只有发起方才能取消换班申请")
	}
	return nil
}

// ValidateDecision 经理裁决前的状态校验，未被对方接受的申请不能裁决
func (t *ShiftTrade) ValidateDecision(target TradeStatus) error {
	if !t.Status.CanTransitionTo(target) {
		return NewValidationError("换班申请", "只有已被对方接受的换班申请才能裁决")
	}
	return nil
}

// Decide 落经理裁决结果。审批人和审批时间只在批准时记录
func (t *ShiftTrade) Decide(target TradeStatus, managerID int64, notes string, now time.Time) {
	t.Status = target
	t.ManagerNotes = notes
	if target == TradeStatusApproved {
		t.ApprovedBy = &managerID
		t.ApprovedAt = &now
	}
}

// IsExpired 判断申请在 now 时刻是否已过期。过期是读取时判定的，
// 没有后台定时器主动改写状态
func (t *ShiftTrade) IsExpired(now time.Time) bool {
	if t.Status != TradeStatusPending && t.Status != TradeStatusAccepted {
		return false
	}
	return now.After(t.ExpiresAt)
}

// EffectiveStatus 返回考虑过期后的对外状态
func (t *ShiftTrade) EffectiveStatus(now time.Time) TradeStatus {
	if t.IsExpired(now) {
		return TradeStatusExpired
	}
	return t.Status
}
