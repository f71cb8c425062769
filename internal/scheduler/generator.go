package scheduler

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/schedulehub/backend/internal/domain"
	"github.com/schedulehub/backend/internal/utils"
)

type Generator struct {
	catalog Catalog
}

func New(catalog Catalog) *Generator {
	return &Generator{
		catalog: catalog,
	}
}

// Generate 按模板把日期区间内的班次具体化。整个过程是纯计算：
// 不落库，生成的班次由调用方在一个事务中写入。
// 生成顺序固定为星期升序、模板 ID 升序、日期升序，
// 保证冲突追踪器的行为与 templateDayMapping 的键序无关
func (g *Generator) Generate(req *Request) (*Result, error) {
	if err := utils.ValidateDateRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	startDate, _ := utils.ParseDate(req.StartDate)
	endDate, _ := utils.ParseDate(req.EndDate)

	dayMapping, err := normalizeDayMapping(req)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Warnings: []string{}}

	// 解析所有被引用的模板；找不到或未启用的跳过并记录警告
	templates, warnings, err := g.resolveTemplates(req, dayMapping)
	if err != nil {
		return nil, err
	}
	summary.Warnings = append(summary.Warnings, warnings...)
	if len(templates) == 0 {
		return nil, domain.NewValidationError("排班生成", "没有任何可用的班次模板")
	}

	// 冲突追踪器先用已提交的班次预置，
	// 再在本次调用内逐个记录新生成的班次
	tracker := newConflictTracker()
	if err := seedTracker(tracker, req.ExistingIntervals); err != nil {
		return nil, err
	}

	workers := make([]*domain.User, len(req.Workers))
	copy(workers, req.Workers)
	sort.Slice(workers, func(i, j int) bool { return workers[i].ID < workers[j].ID })

	shifts := []*domain.Shift{}
	cursor := 0

	for day := int32(1); day <= 7; day++ {
		dayTemplates := dayMapping[day]
		sort.Slice(dayTemplates, func(i, j int) bool { return dayTemplates[i] < dayTemplates[j] })

		for _, templateID := range dayTemplates {
			template, ok := templates[templateID]
			if !ok {
				continue
			}
			if !templateAppliesOn(template, day) {
				continue
			}

			startClock, err := utils.ParseClock(template.StartTime)
			if err != nil {
				return nil, err
			}
			endClock, err := utils.ParseClock(template.EndTime)
			if err != nil {
				return nil, err
			}

			for _, date := range datesMatchingWeekday(startDate, endDate, day) {
				filled := 0
				required := int(template.RequiredWorkers)
				summary.TotalShiftsRequested += required

				spanStart, spanEnd := absoluteSpan(date, startClock, endClock, template.IsOvernight)

				for slot := 0; slot < required; slot++ {
					worker := pickWorker(workers, &cursor, tracker, spanStart, spanEnd)
					if worker == nil {
						continue
					}

					tracker.add(worker.ID, spanStart, spanEnd)
					employeeID := worker.ID
					shifts = append(shifts, &domain.Shift{
						OrganizationID: req.OrganizationID,
						StationID:      req.StationID,
						RoleID:         req.RoleID,
						EmployeeID:     &employeeID,
						ShiftDate:      formatDate(date),
						StartTime:      template.StartTime,
						EndTime:        template.EndTime,
						BreakMinutes:   template.BreakDurationMinutes,
						Status:         domain.ShiftStatusScheduled,
					})
					filled++
				}

				summary.ShiftsGenerated += filled
				switch {
				case filled == 0:
					summary.NoCoverage += required
					summary.Warnings = append(summary.Warnings,
						fmt.Sprintf("%s 的模板「%s」没有可用员工，未生成任何班次", formatDate(date), template.Name))
				case filled < required:
					summary.PartialCoverage += required - filled
					summary.Warnings = append(summary.Warnings,
						fmt.Sprintf("%s 的模板「%s」有 %d 个班次缺少可用员工", formatDate(date), template.Name, required-filled))
				}
			}
		}
	}

	return &Result{Shifts: shifts, Summary: summary}, nil
}

// normalizeDayMapping 校验 templateDayMapping 并在未提供时
// 退化为把所有模板应用到全部七个星期
func normalizeDayMapping(req *Request) (map[int32][]int64, error) {
	for _, id := range req.TemplateIDs {
		if id <= 0 {
			return nil, domain.NewValidationError("排班生成", "无效的模板 ID：%d", id)
		}
	}

	if len(req.TemplateDayMapping) == 0 {
		mapping := make(map[int32][]int64, 7)
		for day := int32(1); day <= 7; day++ {
			mapping[day] = append([]int64{}, req.TemplateIDs...)
		}
		return mapping, nil
	}

	mapping := make(map[int32][]int64, len(req.TemplateDayMapping))
	for day, ids := range req.TemplateDayMapping {
		if day < 1 || day > 7 {
			return nil, domain.NewValidationError("排班生成", "无效的星期：%d，必须在 1-7 之间", day)
		}
		for _, id := range ids {
			if id <= 0 {
				return nil, domain.NewValidationError("排班生成", "无效的模板 ID：%d", id)
			}
		}
		mapping[day] = append([]int64{}, ids...)
	}
	return mapping, nil
}

// resolveTemplates 逐个解析映射中引用的模板。
// 不存在或未启用只产生警告；全部失败时由调用方整体失败
func (g *Generator) resolveTemplates(req *Request, dayMapping map[int32][]int64) (map[int64]*domain.ShiftTemplate, []string, error) {
	ids := map[int64]struct{}{}
	for _, templateIDs := range dayMapping {
		for _, id := range templateIDs {
			ids[id] = struct{}{}
		}
	}

	sorted := make([]int64, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	templates := map[int64]*domain.ShiftTemplate{}
	warnings := []string{}
	for _, id := range sorted {
		template, err := g.catalog.GetShiftTemplate(id, req.OrganizationID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			warnings = append(warnings, fmt.Sprintf("班次模板 %d 不存在，已跳过", id))
			continue
		case err != nil:
			return nil, nil, err
		case !template.IsActive:
			warnings = append(warnings, fmt.Sprintf("班次模板「%s」未启用，已跳过", template.Name))
			continue
		}
		templates[id] = template
	}

	return templates, warnings, nil
}

// templateAppliesOn 判断模板在该 ISO 星期是否适用；
// 模板未限定适用星期时视为每天适用
func templateAppliesOn(template *domain.ShiftTemplate, day int32) bool {
	if len(template.DaysOfWeek) == 0 {
		return true
	}
	for _, d := range template.DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

func seedTracker(tracker *conflictTracker, intervals []Interval) error {
	for _, iv := range intervals {
		date, err := utils.ParseDate(iv.Date)
		if err != nil {
			return err
		}
		startClock, err := utils.ParseClock(iv.StartTime)
		if err != nil {
			return err
		}
		endClock, err := utils.ParseClock(iv.EndTime)
		if err != nil {
			return err
		}
		start, end := absoluteSpan(date, startClock, endClock, false)
		tracker.add(iv.EmployeeID, start, end)
	}
	return nil
}

// pickWorker 从游标位置开始轮转，返回第一个在该时间段没有冲突的员工。
// 游标跨槽位保留，让排班在员工之间大致均摊
func pickWorker(workers []*domain.User, cursor *int, tracker *conflictTracker, start, end time.Time) *domain.User {
	if len(workers) == 0 {
		return nil
	}
	for i := 0; i < len(workers); i++ {
		worker := workers[(*cursor+i)%len(workers)]
		if tracker.conflicts(worker.ID, start, end) {
			continue
		}
		*cursor = (*cursor + i + 1) % len(workers)
		return worker
	}
	return nil
}
