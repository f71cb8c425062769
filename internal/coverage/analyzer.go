package coverage

import (
	"math"

	"github.com/schedulehub/backend/internal/utils"
)

// 固定的关键时段划分，用于判断一天内哪些时间窗出现多岗位同时缺人
var dayPeriods = []struct {
	name      string
	startTime string
	endTime   string
}{
	{name: "早班时段", startTime: "06:00:00", endTime: "12:00:00"},
	{name: "午班时段", startTime: "12:00:00", endTime: "18:00:00"},
	{name: "晚班时段", startTime: "18:00:00", endTime: "24:00:00"},
}

// Analyze 计算指定日期的逐岗位与组织级人员覆盖报告。
// 只读已提交的班次状态，不做任何写入
func Analyze(date string, stations []*StationInput, shifts []*ShiftWindow, th Thresholds) (*Report, error) {
	if _, err := utils.ParseDate(date); err != nil {
		return nil, err
	}

	byStation := make(map[int64][]*ShiftWindow)
	for _, shift := range shifts {
		byStation[shift.StationID] = append(byStation[shift.StationID], shift)
	}

	report := &Report{
		Date:            date,
		Stations:        make([]*StationCoverage, 0, len(stations)),
		Summary:         &OrganizationSummary{TotalStations: len(stations)},
		CriticalPeriods: []*CriticalPeriod{},
	}

	percentageSum := 0
	for _, station := range stations {
		current := len(byStation[station.ID])
		pct := percentage(current, int(station.RequiredMin))
		band := classify(pct, th)
		if station.RequiredMin == 0 {
			band = BandOptimal
		}

		report.Stations = append(report.Stations, &StationCoverage{
			StationID:          station.ID,
			StationName:        station.Name,
			RequiredStaffing:   int(station.RequiredMin),
			MaxStaffing:        int(station.RequiredMax),
			CurrentStaffing:    current,
			CoveragePercentage: pct,
			Status:             band,
		})

		percentageSum += pct
		report.Summary.TotalRequiredStaff += int(station.RequiredMin)
		report.Summary.TotalCurrentStaff += current
		switch band {
		case BandOptimal:
			report.Summary.OptimalCount++
		case BandWarning:
			report.Summary.WarningCount++
		case BandCritical:
			report.Summary.CriticalCount++
		}
	}

	if len(stations) > 0 {
		report.Summary.OverallCoverage = int(math.Round(float64(percentageSum) / float64(len(stations))))
	}

	report.CriticalPeriods = criticalPeriods(stations, byStation, th)

	return report, nil
}

// percentage 计算覆盖百分比，需求为 0 时记 0，档位上视为完全覆盖
func percentage(current, required int) int {
	if required == 0 {
		return 0
	}
	return int(math.Round(float64(current) / float64(required) * 100))
}

func classify(pct int, th Thresholds) Band {
	switch {
	case pct >= th.Optimal:
		return BandOptimal
	case pct >= th.Warning:
		return BandWarning
	default:
		return BandCritical
	}
}

// criticalPeriods 找出有两个以上岗位同时缺人的固定时间窗。
// 岗位在时间窗内的人数按与该窗重叠的班次数统计，
// 关键岗位数达到阈值时时段严重级别为 critical
func criticalPeriods(stations []*StationInput, byStation map[int64][]*ShiftWindow, th Thresholds) []*CriticalPeriod {
	periods := []*CriticalPeriod{}

	for _, period := range dayPeriods {
		affected := []string{}
		criticalCount := 0

		for _, station := range stations {
			if station.RequiredMin == 0 {
				continue
			}

			inWindow := 0
			for _, shift := range byStation[station.ID] {
				if windowsOverlap(shift.StartTime, shift.EndTime, period.startTime, period.endTime) {
					inWindow++
				}
			}

			band := classify(percentage(inWindow, int(station.RequiredMin)), th)
			if band == BandOptimal {
				continue
			}
			affected = append(affected, station.Name)
			if band == BandCritical {
				criticalCount++
			}
		}

		if len(affected) < 2 {
			continue
		}

		severity := BandWarning
		if criticalCount >= th.CriticalStations {
			severity = BandCritical
		}

		periods = append(periods, &CriticalPeriod{
			Name:      period.name,
			StartTime: period.startTime,
			EndTime:   period.endTime,
			Stations:  affected,
			Severity:  severity,
		})
	}

	return periods
}

// windowsOverlap 按字典序比较 HH:MM:SS，边界相接不算重叠。
// 跨天班次按两段处理的收益有限，这里只比较当天部分
func windowsOverlap(aStart, aEnd, bStart, bEnd string) bool {
	if aEnd <= aStart {
		// 跨天班次：当天部分是 [aStart, 24:00)
		aEnd = "24:00:00"
	}
	return aStart < bEnd && bStart < aEnd
}
