package service

import (
	"math"
	"stareduca_backend/internal/util"
	"time"
)

// DefaultTimezone 客户端未上报时区时的兜底
const DefaultTimezone = "America/Lima"

// TodayInTimezone 返回该时区的当前日期（YYYY-MM-DD）
// 时区名无效时退回 DefaultTimezone，再不行用 UTC
func TodayInTimezone(timezone string) string {
	loc, err := time.LoadLocation(timezone)
	if timezone == "" || err != nil {
		loc, err = time.LoadLocation(DefaultTimezone)
		if err != nil {
			loc = time.UTC
		}
	}
	return time.Now().In(loc).Format(util.DateFormat)
}

// NextStreak 连续学习天数推进规则：
// 同一天保持不变，隔一天加一，断档重置为 1
func NextStreak(lastActivityDate, today string, currentStreak int) int {
	if lastActivityDate == "" {
		return 1
	}

	last, err := time.Parse(util.DateFormat, lastActivityDate)
	if err != nil {
		return 1
	}
	now, err := time.Parse(util.DateFormat, today)
	if err != nil {
		return 1
	}

	diffDays := int(math.Round(now.Sub(last).Hours() / 24))
	switch diffDays {
	case 0:
		return currentStreak
	case 1:
		return currentStreak + 1
	default:
		return 1
	}
}
