package scheduler

import (
	"time"

	"github.com/schedulehub/backend/internal/utils"
)

// isoWeekday 返回 ISO 星期（1=周一，7=周日）
func isoWeekday(t time.Time) int32 {
	return int32((int(t.Weekday())+6)%7) + 1
}

// absoluteSpan 把某个日期上的班次时间段换算成绝对时间区间。
// 跨天班次（overnight 或结束时刻不晚于开始时刻）的结束时间顺延到次日
func absoluteSpan(date time.Time, startClock, endClock time.Time, overnight bool) (time.Time, time.Time) {
	start := date.Add(clockDuration(startClock))
	end := date.Add(clockDuration(endClock))
	if overnight || !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end
}

func clockDuration(clock time.Time) time.Duration {
	return time.Duration(clock.Hour())*time.Hour +
		time.Duration(clock.Minute())*time.Minute +
		time.Duration(clock.Second())*time.Second
}

// datesMatchingWeekday 返回 [startDate, endDate] 内所有落在指定 ISO 星期的日期，
// 按升序排列
func datesMatchingWeekday(startDate, endDate time.Time, day int32) []time.Time {
	dates := []time.Time{}
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		if isoWeekday(d) == day {
			dates = append(dates, d)
		}
	}
	return dates
}

func formatDate(t time.Time) string {
	return t.Format(utils.DateLayout)
}
