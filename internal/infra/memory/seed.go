package memory

import "bearcart-analytics/internal/domain/metrics"

// demoScale 各區間相對於 Month 的量級。
var demoScale = []struct {
	timeRange string
	factor    float64
}{
	{metrics.RangeWeek, 0.25},
	{metrics.RangeMonth, 1},
	{metrics.RangeYear, 11.5},
	{metrics.RangeAll, 34},
}

// SeedDemo 寫入四個區間的示範快照與一份稽核報告，供未設定上游或資料庫時使用。
func (s *Store) SeedDemo() {
	for _, d := range demoScale {
		s.Put(d.timeRange, demoMetrics(d.factor))
	}
	s.PutQuality(&metrics.QualityReport{
		SessionsDuplicates:  9457,
		SessionsRemovedBots: 31,
		OrdersRemovedDate:   4,
	})
}

func demoMetrics(f float64) metrics.AggregateMetrics {
	n := func(v float64) int { return int(v * f) }
	sessions := n(30870)
	conversions := n(1050)
	revenue := float64(conversions) * 59.99

	return metrics.AggregateMetrics{
		Traffic: metrics.Traffic{
			TotalSessions:  sessions,
			UniqueUsers:    n(26540),
			TotalPageviews: n(118300),
			SessionsByChannel: metrics.NewBreakdown(
				metrics.Entry{Key: "paid_search_nonbrand", Value: float64(n(21600))},
				metrics.Entry{Key: "paid_search_brand", Value: float64(n(2800))},
				metrics.Entry{Key: "organic_search", Value: float64(n(2650))},
				metrics.Entry{Key: "direct_type_in", Value: float64(n(2330))},
				metrics.Entry{Key: "paid_social", Value: float64(n(1490))},
			),
		},
		Conversion: metrics.Conversion{
			OverallConversionRate: metrics.Float(float64(conversions) / float64(max(sessions, 1))),
			TotalConversions:      conversions,
			ConversionByChannel: metrics.NewBreakdown(
				metrics.Entry{Key: "paid_search_nonbrand", Value: 0.031},
				metrics.Entry{Key: "paid_search_brand", Value: 0.042},
				metrics.Entry{Key: "organic_search", Value: 0.044},
				metrics.Entry{Key: "direct_type_in", Value: 0.040},
				metrics.Entry{Key: "paid_social", Value: 0.012},
			),
			ConversionByDevice: metrics.NewBreakdown(
				metrics.Entry{Key: "desktop", Value: 0.041},
				metrics.Entry{Key: "mobile", Value: 0.019},
			),
			FunnelSteps: metrics.FunnelSteps{
				Sessions: sessions,
				Products: n(14200),
				Cart:     n(4650),
				Shipping: n(3100),
				Billing:  n(2480),
				Purchase: conversions,
			},
		},
		Revenue: metrics.Revenue{
			TotalRevenue:      revenue,
			AverageOrderValue: metrics.Float(59.99),
			RevenuePerSession: revenue / float64(max(sessions, 1)),
			RevenueByChannel: metrics.NewBreakdown(
				metrics.Entry{Key: "paid_search_nonbrand", Value: revenue * 0.66},
				metrics.Entry{Key: "paid_search_brand", Value: revenue * 0.12},
				metrics.Entry{Key: "organic_search", Value: revenue * 0.11},
				metrics.Entry{Key: "direct_type_in", Value: revenue * 0.09},
				metrics.Entry{Key: "paid_social", Value: revenue * 0.02},
			),
		},
		Quality: metrics.Quality{
			TotalRefunds:       n(52),
			OverallRefundRate:  0.0495,
			RepeatCustomerRate: 0.14,
			AtRiskSegments: metrics.NewBreakdown(
				metrics.Entry{Key: "paid_search_nonbrand", Value: float64(n(34))},
				metrics.Entry{Key: "organic_search", Value: float64(n(7))},
				metrics.Entry{Key: "paid_search_brand", Value: float64(n(6))},
				metrics.Entry{Key: "direct_type_in", Value: float64(n(5))},
			),
		},
		Products: []metrics.Product{
			{ProductName: "The Original Mr. Fuzzy", SalesCount: n(720), TotalRevenue: float64(n(720)) * 49.99, TotalMargin: float64(n(720)) * 30.49, RefundRate: metrics.Float(0.061)},
			{ProductName: "The Forever Love Bear", SalesCount: n(190), TotalRevenue: float64(n(190)) * 59.99, TotalMargin: float64(n(190)) * 37.49, RefundRate: metrics.Float(0.021)},
			{ProductName: "The Birthday Sugar Panda", SalesCount: n(160), TotalRevenue: float64(n(160)) * 45.99, TotalMargin: float64(n(160)) * 28.49, RefundRate: metrics.Float(0.059)},
			{ProductName: "The Hudson River Mini bear", SalesCount: n(280), TotalRevenue: float64(n(280)) * 29.99, TotalMargin: float64(n(280)) * 19.49, RefundRate: metrics.Float(0.013)},
		},
	}
}
