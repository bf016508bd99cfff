package dashboard

import (
	"sort"

	domain "bearcart-analytics/internal/domain/dashboard"
	"bearcart-analytics/internal/domain/metrics"
)

// ChannelAttributor 結合渠道營收與轉換率，估算訂單數並依營收排序。
type ChannelAttributor struct {
	AssumedAOV float64
}

// Attribute 以營收表的鍵順序為準，轉換率表獨有的鍵接在後面（營收為 0）。
// 轉換率以完全相同的鍵查詢，缺值視為 0；同營收者維持輸入順序。
func (a ChannelAttributor) Attribute(revenueByChannel, conversionByChannel metrics.Breakdown) []domain.ChannelMetric {
	out := make([]domain.ChannelMetric, 0, revenueByChannel.Len()+conversionByChannel.Len())
	for _, e := range revenueByChannel.Entries() {
		out = append(out, a.metric(e.Key, e.Value, conversionByChannel))
	}
	for _, e := range conversionByChannel.Entries() {
		if _, ok := revenueByChannel.Get(e.Key); ok {
			continue
		}
		out = append(out, a.metric(e.Key, 0, conversionByChannel))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue > out[j].Revenue
	})
	return out
}

func (a ChannelAttributor) metric(name string, revenue float64, conversion metrics.Breakdown) domain.ChannelMetric {
	revenue = metrics.Finite(revenue)
	rate, _ := conversion.Get(name)
	m := domain.ChannelMetric{
		Name:          name,
		Revenue:       revenue,
		ConversionPct: metrics.Finite(rate) * 100,
		Color:         ChannelColor(name),
	}
	if a.AssumedAOV > 0 {
		m.Orders = floorNonNegative(revenue / a.AssumedAOV)
	}
	return m
}
