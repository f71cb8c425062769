package timeclock

import (
	"math"
	"testing"
	"time"

	"github.com/schedulehub/backend/internal/domain"
)

func clock(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("无法解析测试时间 %s: %v", value, err)
	}
	return parsed
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScheduledHours(t *testing.T) {
	tests := []struct {
		name  string
		shift *domain.Shift
		want  float64
	}{
		{
			name:  "普通班次扣除休息时间",
			shift: &domain.Shift{StartTime: "09:00:00", EndTime: "18:00:00", BreakMinutes: 60},
			want:  8,
		},
		{
			name:  "无休息时间",
			shift: &domain.Shift{StartTime: "09:00:00", EndTime: "13:00:00"},
			want:  4,
		},
		{
			name:  "跨天班次顺延到次日",
			shift: &domain.Shift{StartTime: "22:00:00", EndTime: "06:00:00", BreakMinutes: 30},
			want:  7.5,
		},
		{
			name:  "休息时间超过时间窗时取零",
			shift: &domain.Shift{StartTime: "09:00:00", EndTime: "10:00:00", BreakMinutes: 90},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScheduledHours(tt.shift)
			if err != nil {
				t.Fatalf("ScheduledHours 应成功: %v", err)
			}
			if !almostEqual(got, tt.want) {
				t.Errorf("期望 %.2f 小时，实际 %.2f", tt.want, got)
			}
		})
	}
}

func TestCompute_FullTimeOvertime(t *testing.T) {
	// 全职以固定每日工时为基准：工作 8.5 小时 = 正常 8 + 加班 0.5
	result, err := Compute(
		clock(t, "2025-01-20 09:00"),
		clock(t, "2025-01-20 18:00"),
		30, 8.5, domain.EmploymentFullTime, 8,
	)
	if err != nil {
		t.Fatalf("Compute 应成功: %v", err)
	}

	if !almostEqual(result.WorkedHours, 8.5) {
		t.Errorf("期望工作 8.5 小时，实际 %.2f", result.WorkedHours)
	}
	if !almostEqual(result.RegularHours, 8) {
		t.Errorf("期望正常工时 8 小时，实际 %.2f", result.RegularHours)
	}
	if !almostEqual(result.OvertimeHours, 0.5) {
		t.Errorf("期望加班 0.5 小时，实际 %.2f", result.OvertimeHours)
	}
}

func TestCompute_PartTimeBaseline(t *testing.T) {
	// 兼职以班次计划时长为基准
	result, err := Compute(
		clock(t, "2025-01-20 09:00"),
		clock(t, "2025-01-20 15:00"),
		0, 4, domain.EmploymentPartTime, 8,
	)
	if err != nil {
		t.Fatalf("Compute 应成功: %v", err)
	}

	if !almostEqual(result.RegularHours, 4) {
		t.Errorf("期望正常工时 4 小时，实际 %.2f", result.RegularHours)
	}
	if !almostEqual(result.OvertimeHours, 2) {
		t.Errorf("期望加班 2 小时，实际 %.2f", result.OvertimeHours)
	}
}

func TestCompute_NoOvertime(t *testing.T) {
	result, err := Compute(
		clock(t, "2025-01-20 09:00"),
		clock(t, "2025-01-20 13:00"),
		0, 8, domain.EmploymentFullTime, 8,
	)
	if err != nil {
		t.Fatalf("Compute 应成功: %v", err)
	}

	if !almostEqual(result.OvertimeHours, 0) {
		t.Errorf("未超过基准时不应有加班工时，实际 %.2f", result.OvertimeHours)
	}
}

func TestCompute_Identity(t *testing.T) {
	result, err := Compute(
		clock(t, "2025-01-20 08:00"),
		clock(t, "2025-01-20 19:45"),
		45, 6, domain.EmploymentPartTime, 8,
	)
	if err != nil {
		t.Fatalf("Compute 应成功: %v", err)
	}

	if !almostEqual(result.RegularHours+result.OvertimeHours, result.WorkedHours) {
		t.Errorf("正常工时 + 加班工时应等于总工时：%.2f + %.2f != %.2f",
			result.RegularHours, result.OvertimeHours, result.WorkedHours)
	}
}

func TestCompute_Errors(t *testing.T) {
	tests := []struct {
		name         string
		clockIn      string
		clockOut     string
		breakMinutes int32
	}{
		{name: "下班早于上班", clockIn: "2025-01-20 18:00", clockOut: "2025-01-20 09:00", breakMinutes: 0},
		{name: "负的休息时间", clockIn: "2025-01-20 09:00", clockOut: "2025-01-20 18:00", breakMinutes: -10},
		{name: "休息时间超过工作时长", clockIn: "2025-01-20 09:00", clockOut: "2025-01-20 10:00", breakMinutes: 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(clock(t, tt.clockIn), clock(t, tt.clockOut), tt.breakMinutes, 8, domain.EmploymentFullTime, 8)
			if kind, ok := domain.KindOf(err); !ok || kind != domain.KindValidation {
				t.Errorf("期望校验错误，实际: %v", err)
			}
		})
	}
}
