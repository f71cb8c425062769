package coverage

import (
	"testing"
)

var testThresholds = Thresholds{Optimal: 90, Warning: 50, CriticalStations: 2}

func station(id int64, name string, min, max int32) *StationInput {
	return &StationInput{ID: id, Name: name, RequiredMin: min, RequiredMax: max}
}

func window(stationID int64, start, end string) *ShiftWindow {
	return &ShiftWindow{StationID: stationID, StartTime: start, EndTime: end}
}

func TestAnalyze_StationPercentages(t *testing.T) {
	stations := []*StationInput{
		station(1, "前台", 4, 6),
		station(2, "后厨", 2, 4),
	}
	shifts := []*ShiftWindow{
		window(1, "09:00:00", "17:00:00"),
		window(1, "09:00:00", "17:00:00"),
		window(1, "13:00:00", "21:00:00"),
		window(2, "09:00:00", "17:00:00"),
		window(2, "13:00:00", "21:00:00"),
	}

	report, err := Analyze("2025-01-20", stations, shifts, testThresholds)
	if err != nil {
		t.Fatalf("Analyze 应成功: %v", err)
	}

	if len(report.Stations) != 2 {
		t.Fatalf("期望 2 个岗位，实际 %d", len(report.Stations))
	}

	front := report.Stations[0]
	if front.CoveragePercentage != 75 {
		t.Errorf("前台 3/4 期望 75%%，实际 %d%%", front.CoveragePercentage)
	}
	if front.Status != BandWarning {
		t.Errorf("75%% 应为 warning，实际 %s", front.Status)
	}

	kitchen := report.Stations[1]
	if kitchen.CoveragePercentage != 100 {
		t.Errorf("后厨 2/2 期望 100%%，实际 %d%%", kitchen.CoveragePercentage)
	}
	if kitchen.Status != BandOptimal {
		t.Errorf("100%% 应为 optimal，实际 %s", kitchen.Status)
	}
}

func TestAnalyze_ZeroRequirementIsFullyCovered(t *testing.T) {
	report, err := Analyze("2025-01-20", []*StationInput{station(1, "仓库", 0, 0)}, nil, testThresholds)
	if err != nil {
		t.Fatalf("Analyze 应成功: %v", err)
	}

	if report.Stations[0].CoveragePercentage != 0 {
		t.Errorf("无需求的岗位覆盖百分比应为 0，实际 %d%%", report.Stations[0].CoveragePercentage)
	}
	if report.Stations[0].Status != BandOptimal {
		t.Errorf("无需求的岗位应为 optimal，实际 %s", report.Stations[0].Status)
	}
	if report.Summary.OptimalCount != 1 || report.Summary.CriticalCount != 0 {
		t.Errorf("无需求的岗位应计入 optimal 档，汇总为 %+v", report.Summary)
	}
}

func TestAnalyze_SummaryRollup(t *testing.T) {
	stations := []*StationInput{
		station(1, "前台", 2, 4),
		station(2, "后厨", 2, 4),
		station(3, "收银", 2, 4),
	}
	shifts := []*ShiftWindow{
		window(1, "09:00:00", "17:00:00"),
		window(1, "09:00:00", "17:00:00"),
		window(2, "09:00:00", "17:00:00"),
	}

	report, err := Analyze("2025-01-20", stations, shifts, testThresholds)
	if err != nil {
		t.Fatalf("Analyze 应成功: %v", err)
	}

	s := report.Summary
	if s.OptimalCount != 1 || s.WarningCount != 1 || s.CriticalCount != 1 {
		t.Errorf("期望 optimal=1 warning=1 critical=1，实际 %d/%d/%d",
			s.OptimalCount, s.WarningCount, s.CriticalCount)
	}
	if s.TotalRequiredStaff != 6 || s.TotalCurrentStaff != 3 {
		t.Errorf("期望需求 6 实到 3，实际 %d/%d", s.TotalRequiredStaff, s.TotalCurrentStaff)
	}
	// (100 + 50 + 0) / 3 = 50
	if s.OverallCoverage != 50 {
		t.Errorf("期望整体覆盖率 50%%，实际 %d%%", s.OverallCoverage)
	}
	if s.TotalStations != 3 {
		t.Errorf("期望 3 个岗位，实际 %d", s.TotalStations)
	}
}

func TestAnalyze_CriticalPeriods(t *testing.T) {
	stations := []*StationInput{
		station(1, "前台", 2, 4),
		station(2, "后厨", 2, 4),
	}
	// 两个岗位早上都完全没人，下午各有足够的人
	shifts := []*ShiftWindow{
		window(1, "12:00:00", "18:00:00"),
		window(1, "12:00:00", "18:00:00"),
		window(2, "12:00:00", "18:00:00"),
		window(2, "12:00:00", "18:00:00"),
	}

	report, err := Analyze("2025-01-20", stations, shifts, testThresholds)
	if err != nil {
		t.Fatalf("Analyze 应成功: %v", err)
	}

	if len(report.CriticalPeriods) == 0 {
		t.Fatal("两个岗位同时缺人的时段应被报告")
	}

	var morning *CriticalPeriod
	for _, period := range report.CriticalPeriods {
		if period.StartTime == "06:00:00" {
			morning = period
		}
		if period.StartTime == "12:00:00" {
			t.Error("午班时段人手充足，不应被报告")
		}
	}
	if morning == nil {
		t.Fatal("早班时段应被报告")
	}
	if len(morning.Stations) != 2 {
		t.Errorf("期望早班时段影响 2 个岗位，实际 %d", len(morning.Stations))
	}
	if morning.Severity != BandCritical {
		t.Errorf("两个岗位同时 critical 时严重级别应为 critical，实际 %s", morning.Severity)
	}
}

func TestAnalyze_SingleAffectedStationNotReported(t *testing.T) {
	stations := []*StationInput{
		station(1, "前台", 2, 4),
		station(2, "后厨", 1, 2),
	}
	// 只有前台早上缺人
	shifts := []*ShiftWindow{
		window(2, "06:00:00", "14:00:00"),
	}

	report, err := Analyze("2025-01-20", stations, shifts, testThresholds)
	if err != nil {
		t.Fatalf("Analyze 应成功: %v", err)
	}

	for _, period := range report.CriticalPeriods {
		if period.StartTime == "06:00:00" {
			t.Error("只有一个岗位缺人时不应报告关键时段")
		}
	}
}

func TestAnalyze_InvalidDate(t *testing.T) {
	if _, err := Analyze("01/20/2025", nil, nil, testThresholds); err == nil {
		t.Error("非法日期应返回错误")
	}
}

func TestWindowsOverlap(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     string
		want                           bool
	}{
		{name: "部分重叠", aStart: "09:00:00", aEnd: "13:00:00", bStart: "12:00:00", bEnd: "18:00:00", want: true},
		{name: "边界相接不算重叠", aStart: "06:00:00", aEnd: "12:00:00", bStart: "12:00:00", bEnd: "18:00:00", want: false},
		{name: "完全分离", aStart: "06:00:00", aEnd: "08:00:00", bStart: "12:00:00", bEnd: "18:00:00", want: false},
		{name: "跨天班次覆盖晚间时段", aStart: "22:00:00", aEnd: "06:00:00", bStart: "18:00:00", bEnd: "24:00:00", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := windowsOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("期望 %v，实际 %v", tt.want, got)
			}
		})
	}
}
