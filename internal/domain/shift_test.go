package domain

import (
	"testing"
	"time"
)

func TestShiftStatusTransitions(t *testing.T) {
	tests := []struct {
		from   ShiftStatus
		to     ShiftStatus
		wantOK bool
	}{
		{ShiftStatusScheduled, ShiftStatusInProgress, true},
		{ShiftStatusScheduled, ShiftStatusCancelled, true},
		{ShiftStatusScheduled, ShiftStatusCompleted, false},
		{ShiftStatusInProgress, ShiftStatusCompleted, true},
		{ShiftStatusInProgress, ShiftStatusCancelled, true},
		{ShiftStatusInProgress, ShiftStatusScheduled, false},
		{ShiftStatusCompleted, ShiftStatusCancelled, false},
		{ShiftStatusCancelled, ShiftStatusScheduled, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.wantOK {
			t.Errorf("%s -> %s：期望 %v，实际 %v", tt.from, tt.to, tt.wantOK, got)
		}
	}
}

func TestShiftStatusIsTerminal(t *testing.T) {
	if ShiftStatusScheduled.IsTerminal() || ShiftStatusInProgress.IsTerminal() {
		t.Error("scheduled 和 in_progress 不是终态")
	}
	if !ShiftStatusCompleted.IsTerminal() || !ShiftStatusCancelled.IsTerminal() {
		t.Error("completed 和 cancelled 是终态")
	}
}

func TestValidateClockIn(t *testing.T) {
	now := time.Now()

	if err := (&Shift{Status: ShiftStatusScheduled}).ValidateClockIn(); err != nil {
		t.Errorf("scheduled 班次应允许打卡上班: %v", err)
	}
	if err := (&Shift{Status: ShiftStatusCompleted}).ValidateClockIn(); err == nil {
		t.Error("已完成的班次不应允许打卡上班")
	}
	if err := (&Shift{Status: ShiftStatusCancelled}).ValidateClockIn(); err == nil {
		t.Error("已取消的班次不应允许打卡上班")
	}
	if err := (&Shift{Status: ShiftStatusInProgress, ClockInTime: &now}).ValidateClockIn(); err == nil {
		t.Error("已打过卡的班次不应允许重复打卡上班")
	}
}

func TestValidateClockOut(t *testing.T) {
	now := time.Now()

	if err := (&Shift{Status: ShiftStatusInProgress, ClockInTime: &now}).ValidateClockOut(); err != nil {
		t.Errorf("已上班的班次应允许打卡下班: %v", err)
	}
	if err := (&Shift{Status: ShiftStatusScheduled}).ValidateClockOut(); err == nil {
		t.Error("尚未打卡上班的班次不应允许打卡下班")
	}
	if err := (&Shift{Status: ShiftStatusCompleted, ClockInTime: &now, ClockOutTime: &now}).ValidateClockOut(); err == nil {
		t.Error("已完成的班次不应允许打卡下班")
	}
	if err := (&Shift{Status: ShiftStatusCancelled}).ValidateClockOut(); err == nil {
		t.Error("已取消的班次不应允许打卡下班")
	}
}
