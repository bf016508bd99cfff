package metrics

import (
	"strings"
	"time"
)

// 已知的時間區間標籤，核心只轉送、不解讀。
const (
	RangeWeek  = "Week"
	RangeMonth = "Month"
	RangeYear  = "Year"
	RangeAll   = "All"

	DefaultRange = RangeMonth
)

// NormalizeRange 去除空白，空字串回傳預設區間。
func NormalizeRange(r string) string {
	r = strings.TrimSpace(r)
	if r == "" {
		return DefaultRange
	}
	return r
}

// Lookback 回傳區間對應的回溯長度；未知或 All 回傳 false（不過濾）。
func Lookback(r string) (time.Duration, bool) {
	switch r {
	case RangeWeek:
		return 7 * 24 * time.Hour, true
	case RangeMonth:
		return 30 * 24 * time.Hour, true
	case RangeYear:
		return 365 * 24 * time.Hour, true
	default:
		return 0, false
	}
}
