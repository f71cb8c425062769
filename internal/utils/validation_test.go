package utils

import (
	"testing"

	"github.com/schedulehub/backend/internal/domain"
)

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2025-01-20"); err != nil {
		t.Errorf("合法日期应解析成功: %v", err)
	}

	bad := []string{"01/20/2025", "2025-1-20", "2025-13-01", "1899-12-31", "2101-01-01", ""}
	for _, value := range bad {
		_, err := ParseDate(value)
		if kind, ok := domain.KindOf(err); !ok || kind != domain.KindValidation {
			t.Errorf("%q 应返回校验错误，实际: %v", value, err)
		}
	}
}

func TestValidateDateRange(t *testing.T) {
	if err := ValidateDateRange("2025-01-20", "2025-01-26"); err != nil {
		t.Errorf("合法区间应通过校验: %v", err)
	}
	if err := ValidateDateRange("2025-01-20", "2025-01-20"); err == nil {
		t.Error("结束日期等于开始日期应返回错误")
	}
	if err := ValidateDateRange("2025-01-26", "2025-01-20"); err == nil {
		t.Error("结束日期早于开始日期应返回错误")
	}
}

func TestParseClock(t *testing.T) {
	if _, err := ParseClock("09:30:00"); err != nil {
		t.Errorf("合法时刻应解析成功: %v", err)
	}
	if _, err := ParseClock("9:30"); err == nil {
		t.Error("不完整的时刻格式应返回错误")
	}
	if _, err := ParseClock("25:00:00"); err == nil {
		t.Error("非法小时应返回错误")
	}
}

func TestClockOverlap(t *testing.T) {
	a1, _ := ParseClock("09:00:00")
	a2, _ := ParseClock("13:00:00")
	b1, _ := ParseClock("12:00:00")
	b2, _ := ParseClock("18:00:00")
	c1, _ := ParseClock("13:00:00")
	c2, _ := ParseClock("15:00:00")

	if !ClockOverlap(a1, a2, b1, b2) {
		t.Error("部分重叠的时间段应判定为重叠")
	}
	if ClockOverlap(a1, a2, c1, c2) {
		t.Error("边界相接的时间段不应判定为重叠")
	}
}
