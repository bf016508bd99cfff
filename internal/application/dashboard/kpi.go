package dashboard

import (
	domain "bearcart-analytics/internal/domain/dashboard"
	"bearcart-analytics/internal/domain/metrics"
)

// KpiCalculator 由彙總快照推導頂層指標。
type KpiCalculator struct{}

// Compute 缺值或非有限數一律收斂為 0；客單價以上游為準，不自行重算。
func (KpiCalculator) Compute(m metrics.AggregateMetrics) domain.Kpis {
	orders := nonNegative(m.Conversion.TotalConversions)
	refunds := nonNegative(m.Quality.TotalRefunds)
	k := domain.Kpis{
		TotalRevenue:      metrics.Finite(m.Revenue.TotalRevenue),
		TotalOrders:       orders,
		ConversionRatePct: metrics.Value(m.Conversion.OverallConversionRate) * 100,
		AvgOrderValue:     metrics.Value(m.Revenue.AverageOrderValue),
		TotalRefunds:      refunds,
	}
	if refunds > 0 && orders > 0 {
		k.RefundRatePct = float64(refunds) / float64(orders) * 100
	}
	return k
}

func nonNegative(v int) int64 {
	if v < 0 {
		return 0
	}
	return int64(v)
}
