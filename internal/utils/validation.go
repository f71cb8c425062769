package utils

import (
	"time"

	"github.com/schedulehub/backend/internal/domain"
)

const DateLayout = "2006-01-02"
const TimeLayout = "15:04:05"

// ParseDate 解析日历日期（YYYY-MM-DD），并限制年份在 1900-2100 之间，
// 避免异常输入和时区漂移
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError("日期", "格式必须为 YYYY-MM-DD：%s", value)
	}
	if d.Year() < 1900 || d.Year() > 2100 {
		return time.Time{}, domain.NewValidationError("日期", "年份必须在 1900-2100 之间：%s", value)
	}
	return d, nil
}

// ValidateDateRange 检查结束日期严格晚于开始日期
func ValidateDateRange(startDate, endDate string) error {
	start, err := ParseDate(startDate)
	if err != nil {
		return err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return err
	}
	if !end.After(start) {
		return domain.NewValidationError("日期", "结束日期必须晚于开始日期")
	}
	return nil
}

// ParseClock 解析一天内的时刻（HH:MM:SS）
func ParseClock(value string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError("时间", "格式必须为 HH:MM:SS：%s", value)
	}
	return t, nil
}

// ClockOverlap 判断同一天内两个时间段是否重叠（边界相接不算重叠）
func ClockOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
