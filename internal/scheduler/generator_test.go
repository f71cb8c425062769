package scheduler

import (
	"database/sql"
	"testing"

	"github.com/schedulehub/backend/internal/domain"
)

// ── 测试辅助 ──

type fakeCatalog struct {
	templates map[int64]*domain.ShiftTemplate
}

func (c *fakeCatalog) GetShiftTemplate(templateID int64, orgID int64) (*domain.ShiftTemplate, error) {
	template, ok := c.templates[templateID]
	if !ok || template.OrganizationID != orgID {
		return nil, sql.ErrNoRows
	}
	return template, nil
}

func newTestWorkers(ids ...int64) []*domain.User {
	workers := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		workers = append(workers, &domain.User{
			ID:             id,
			OrganizationID: 1,
			Role:           domain.RoleWorker,
			EmploymentType: domain.EmploymentFullTime,
			IsActive:       true,
		})
	}
	return workers
}

func dayTemplate(id int64, name string, required int32) *domain.ShiftTemplate {
	return &domain.ShiftTemplate{
		ID:              id,
		OrganizationID:  1,
		Name:            name,
		StartTime:       "09:00:00",
		EndTime:         "17:00:00",
		RequiredWorkers: required,
		IsActive:        true,
	}
}

func checkSummaryIdentity(t *testing.T, s *Summary) {
	t.Helper()
	if s.TotalShiftsRequested != s.ShiftsGenerated+s.PartialCoverage+s.NoCoverage {
		t.Errorf("汇总数字不自洽：total=%d generated=%d partial=%d none=%d",
			s.TotalShiftsRequested, s.ShiftsGenerated, s.PartialCoverage, s.NoCoverage)
	}
}

// ── 生成测试 ──

func TestGenerate_WeekdayMapping(t *testing.T) {
	catalog := &fakeCatalog{templates: map[int64]*domain.ShiftTemplate{
		1: dayTemplate(1, "白班", 2),
	}}
	g := New(catalog)

	// 2025-01-20 是周一，区间恰好覆盖一整周
	result, err := g.Generate(&Request{
		OrganizationID:     1,
		StationID:          1,
		RoleID:             1,
		StartDate:          "2025-01-20",
		EndDate:            "2025-01-26",
		TemplateDayMapping: map[int32][]int64{1: {1}},
		Workers:            newTestWorkers(1, 2, 3),
	})
	if err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}

	if len(result.Shifts) != 2 {
		t.Fatalf("期望生成 2 个班次，实际 %d", len(result.Shifts))
	}
	for _, shift := range result.Shifts {
		if shift.ShiftDate != "2025-01-20" {
			t.Errorf("班次只应落在周一 2025-01-20，实际 %s", shift.ShiftDate)
		}
		if shift.Status != domain.ShiftStatusScheduled {
			t.Errorf("生成的班次状态应为 scheduled，实际 %s", shift.Status)
		}
	}
	if result.Summary.TotalShiftsRequested != 2 || result.Summary.ShiftsGenerated != 2 {
		t.Errorf("期望 total=2 generated=2，实际 total=%d generated=%d",
			result.Summary.TotalShiftsRequested, result.Summary.ShiftsGenerated)
	}
	checkSummaryIdentity(t, result.Summary)
}

func TestGenerate_RoundRobinAssignment(t *testing.T) {
	catalog := &fakeCatalog{templates: map[int64]*domain.ShiftTemplate{
		1: dayTemplate(1, "白班", 2),
	}}
	g := New(catalog)

	result, err := g.Generate(&Request{
		OrganizationID:     1,
		StationID:          1,
		RoleID:             1,
		StartDate:          "2025-01-20",
		EndDate:            "2025-01-26",
		TemplateDayMapping: map[int32][]int64{1: {1}},
		Workers:            newTestWorkers(30, 10, 20),
	})
	if err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}

	if len(result.Shifts) != 2 {
		t.Fatalf("期望生成 2 个班次，实际 %d", len(result.Shifts))
	}
	// 员工按 ID 升序轮转
	if *result.Shifts[0].EmployeeID != 10 || *result.Shifts[1].EmployeeID != 20 {
		t.Errorf("期望按 ID 升序分配 (10, 20)，实际 (%d, %d)",
			*result.Shifts[0].EmployeeID, *result.Shifts[1].EmployeeID)
	}
}

func TestGenerate_NoDoubleBooking(t *testing.T) {
	// 两个模板时间完全相同，只有一个员工：第二个模板应完全没人可用
	catalog := &fakeCatalog{templates: map[int64]*domain.ShiftTemplate{
		1: dayTemplate(1, "白班A", 1),
		2: dayTemplate(2, "白班B", 1),
	}}
	g := New(catalog)

	result, err := g.Generate(&Request{
		OrganizationID:     1,
		StationID:          1,
		RoleID:             1,
		StartDate:          "2025-01-20",
		EndDate:            "2025-01-26",
		TemplateDayMapping: map[int32][]int64{1: {1, 2}},
		Workers:            newTestWorkers(1),
	})
	if err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}

	if len(result.Shifts) != 1 {
		t.Fatalf("期望只生成 1 个班次，实际 %d", len(result.Shifts))
	}
	if result.Summary.NoCoverage != 1 {
		t.Errorf("期望 1 个班次无人可排，实际 %d", result.Summary.NoCoverage)
	}
	if len(result.Summary.Warnings) == 0 {
		t.Error("无人可排时应产生警告")
	}
	checkSummaryIdentity(t, result.Summary)
}

func TestGenerate_PartialCoverage(t *testing.T) {
	catalog := &fakeCatalog{templates: map[int64]*domain.ShiftTemplate{
		1: dayTemplate(1, "白班", 3),
	}}
	g := New(catalog)

	result, err := g.Generate(&Request{
		OrganizationID:     1,
		StationID:          1,
		RoleID:             1,
		StartDate:          "2025-01-20",
		EndDate:            "2025-01-26",
		TemplateDayMapping: map[int32][]int64{1: {1}},
		Workers:            newTestWorkers(1, 2),
	})
	if err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}

	if result.Summary.ShiftsGenerated != 2 || result.Summary.PartialCoverage != 1 {
		t.Errorf("期望 generated=2 partial=1，实际 generated=%d partial=%d",
			result.Summary.ShiftsGenerated, result.Summary.PartialCoverage)
	}
	checkSummaryIdentity(t, result.Summary)
}

func TestGenerate_ExistingIntervalsBlockAssignment(t *testing.T) {
	catalog := &fakeCatalog{templates: map[int64]*domain.ShiftTemplate{
		1: dayTemplate(1, "白班", 1),
	}}
	g := New(catalog)

	// 唯一的员工在周一已有排班，时间与模板重叠
	result, err := g.Generate(&Request{
		OrganizationID:     1,
		StationID:          1,
		RoleID:             1,
		StartDate:          "2025-01-20",
		EndDate:            "2025-01-26",
		TemplateDayMapping: map[int32][]int64{1: {1}},
		Workers:            newTestWorkers(1),
		ExistingIntervals: []Interval{
			{EmployeeID: 1, Date: "2025-01-20", StartTime: "08:00:00", EndTime: "12:00:00"},
		},
	})
	if err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}

	if len(result.Shifts) != 0 {
		t.Fatalf("已有排班的员工不应被重复分配，实际生成 %d 个班次", len(result.Shifts))
	}
	if result.Summary.NoCoverage != 1 {
		t.Errorf("期望 NoCoverage=1，实际 %d", result.Summary.NoCoverage)
	}
}

func TestGenerate_EmptyMappingUsesAllDays(t *testing.T) {
	catalog := &fakeCatalog{templates: map[int64]*domain.ShiftTemplate{
		1: dayTemplate(1, "白班", 1),
	}}
	g := New(catalog)

	result, err := g.Generate(&Request{
		OrganizationID: 1,
		StationID:      1,
		RoleID:         1,
		StartDate:      "2025-01-20",
		EndDate:        "2025-01-26",
		TemplateIDs:    []int64{1},
		Workers:        newTestWorkers(1, 2, 3, 4, 5, 6, 7),
	})
	if err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}

	if len(result.Shifts) != 7 {
		t.Errorf("未提供映射时模板应应用到整周，期望 7 个班次，实际 %d", len(result.Shifts))
	}
}

func TestGenerate_TemplateDaysOfWeekIntersection(t *testing.T) {
	// 模板自身只适用于周一，即使映射把它放到周二也不应生成
	template := dayTemplate(1, "白班", 1)
	template.DaysOfWeek = []int32{1}
	catalog := &fakeCatalog{templates: map[int64]*domain.ShiftTemplate{1: template}}
	g := New(catalog)

	result, err := g.Generate(&Request{
		OrganizationID:     1,
		StationID:          1,
		RoleID:             1,
		StartDate:          "2025-01-20",
		EndDate:            "2025-01-26",
		TemplateDayMapping: map[int32][]int64{1: {1}, 2: {1}},
		Workers:            newTestWorkers(1, 2),
	})
	if err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}

	if len(result.Shifts) != 1 {
		t.Fatalf("期望只在周一生成 1 个班次，实际 %d", len(result.Shifts))
	}
	if result.Shifts[0].ShiftDate != "2025-01-20" {
		t.Errorf("班次应落在周一，实际 %s", result.Shifts[0].ShiftDate)
	}
}

func TestGenerate_InvalidWeekdayKey(t *testing.T) {
	catalog := &fakeCatalog{templates: map[int64]*domain.ShiftTemplate{
		1: dayTemplate(1, "白班", 1),
	}}
	g := New(catalog)

	_, err := g.Generate(&Request{
		OrganizationID:     1,
		StartDate:          "2025-01-20",
		EndDate:            "2025-01-26",
		TemplateDayMapping: map[int32][]int64{8: {1}},
		Workers:            newTestWorkers(1),
	})
	if kind, ok := domain.KindOf(err); !ok || kind != domain.KindValidation {
		t.Errorf("期望校验错误，实际: %v", err)
	}
}

func TestGenerate_InvalidDateRange(t *testing.T) {
	g := New(&fakeCatalog{templates: map[int64]*domain.ShiftTemplate{}})

	_, err := g.Generate(&Request{
		OrganizationID:     1,
		StartDate:          "2025-01-26",
		EndDate:            "2025-01-20",
		TemplateDayMapping: map[int32][]int64{1: {1}},
	})
	if kind, ok := domain.KindOf(err); !ok || kind != domain.KindValidation {
		t.Errorf("期望校验错误，实际: %v", err)
	}
}

func TestGenerate_NoUsableTemplates(t *testing.T) {
	// 模板不存在时整体失败而不是静默生成空班表
	g := New(&fakeCatalog{templates: map[int64]*domain.ShiftTemplate{}})

	_, err := g.Generate(&Request{
		OrganizationID:     1,
		StartDate:          "2025-01-20",
		EndDate:            "2025-01-26",
		TemplateDayMapping: map[int32][]int64{1: {99}},
		Workers:            newTestWorkers(1),
	})
	if kind, ok := domain.KindOf(err); !ok || kind != domain.KindValidation {
		t.Errorf("期望校验错误，实际: %v", err)
	}
}

func TestGenerate_InactiveTemplateSkippedWithWarning(t *testing.T) {
	inactive := dayTemplate(2, "停用班", 1)
	inactive.IsActive = false
	catalog := &fakeCatalog{templates: map[int64]*domain.ShiftTemplate{
		1: dayTemplate(1, "白班", 1),
		2: inactive,
	}}
	g := New(catalog)

	result, err := g.Generate(&Request{
		OrganizationID:     1,
		StationID:          1,
		RoleID:             1,
		StartDate:          "2025-01-20",
		EndDate:            "2025-01-26",
		TemplateDayMapping: map[int32][]int64{1: {1, 2}},
		Workers:            newTestWorkers(1, 2),
	})
	if err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}

	if len(result.Shifts) != 1 {
		t.Errorf("停用模板不应生成班次，期望 1 个班次，实际 %d", len(result.Shifts))
	}
	if len(result.Summary.Warnings) == 0 {
		t.Error("跳过停用模板时应产生警告")
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	catalog := &fakeCatalog{templates: map[int64]*domain.ShiftTemplate{
		1: dayTemplate(1, "白班", 2),
		2: dayTemplate(2, "晚班", 1),
	}}
	catalog.templates[2].StartTime = "17:00:00"
	catalog.templates[2].EndTime = "23:00:00"
	g := New(catalog)

	request := func() *Request {
		return &Request{
			OrganizationID:     1,
			StationID:          1,
			RoleID:             1,
			StartDate:          "2025-01-20",
			EndDate:            "2025-02-02",
			TemplateDayMapping: map[int32][]int64{1: {2, 1}, 3: {1}, 5: {1, 2}},
			Workers:            newTestWorkers(5, 3, 1, 4, 2),
		}
	}

	first, err := g.Generate(request())
	if err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}
	second, err := g.Generate(request())
	if err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}

	if len(first.Shifts) != len(second.Shifts) {
		t.Fatalf("两次生成的班次数量不同：%d 和 %d", len(first.Shifts), len(second.Shifts))
	}
	for i := range first.Shifts {
		a, b := first.Shifts[i], second.Shifts[i]
		if a.ShiftDate != b.ShiftDate || a.StartTime != b.StartTime || *a.EmployeeID != *b.EmployeeID {
			t.Errorf("第 %d 个班次不一致：(%s %s %d) 和 (%s %s %d)",
				i, a.ShiftDate, a.StartTime, *a.EmployeeID, b.ShiftDate, b.StartTime, *b.EmployeeID)
		}
	}
	checkSummaryIdentity(t, first.Summary)
}

func TestGenerate_OvernightTemplate(t *testing.T) {
	overnight := &domain.ShiftTemplate{
		ID:              1,
		OrganizationID:  1,
		Name:            "夜班",
		StartTime:       "22:00:00",
		EndTime:         "06:00:00",
		IsOvernight:     true,
		RequiredWorkers: 1,
		IsActive:        true,
	}
	catalog := &fakeCatalog{templates: map[int64]*domain.ShiftTemplate{1: overnight}}
	g := New(catalog)

	result, err := g.Generate(&Request{
		OrganizationID:     1,
		StationID:          1,
		RoleID:             1,
		StartDate:          "2025-01-20",
		EndDate:            "2025-01-26",
		TemplateDayMapping: map[int32][]int64{1: {1}},
		Workers:            newTestWorkers(1),
	})
	if err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}

	if len(result.Shifts) != 1 {
		t.Fatalf("期望生成 1 个夜班，实际 %d", len(result.Shifts))
	}
	if result.Shifts[0].EndTime != "06:00:00" {
		t.Errorf("夜班结束时间应保持 06:00:00，实际 %s", result.Shifts[0].EndTime)
	}
}
