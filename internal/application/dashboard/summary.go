package dashboard

import (
	domain "bearcart-analytics/internal/domain/dashboard"
	"bearcart-analytics/internal/domain/metrics"
)

const (
	refundReasonUnknown = "General / Unknown"
	defaultCategory     = "Plush"
)

// Refunds 上游只有退款總數，全部歸入單一未知原因。
func Refunds(q metrics.Quality) []domain.RefundReason {
	total := nonNegative(q.TotalRefunds)
	pct := 0.0
	if total > 0 {
		pct = 100
	}
	return []domain.RefundReason{
		{Reason: refundReasonUnknown, Count: total, Percentage: pct, Color: colorDanger},
	}
}

// Leaderboard 取前 limit 個商品，沿用上游排序；limit <= 0 表示不限制。
func Leaderboard(products []metrics.Product, limit int) []domain.ProductRow {
	n := len(products)
	if limit > 0 && n > limit {
		n = limit
	}
	out := make([]domain.ProductRow, 0, n)
	for i, p := range products[:n] {
		out = append(out, domain.ProductRow{
			ID:            i + 1,
			Name:          p.ProductName,
			Category:      defaultCategory,
			Sales:         nonNegative(p.SalesCount),
			Revenue:       metrics.Finite(p.TotalRevenue),
			RefundRatePct: metrics.Value(p.RefundRate) * 100,
		})
	}
	return out
}

// Quality 彙整資料清洗稽核與退款健康度；report 為 nil 時稽核計數為 0。
func Quality(q metrics.Quality, report *metrics.QualityReport) domain.QualitySummary {
	s := domain.QualitySummary{
		TotalRefunds:         nonNegative(q.TotalRefunds),
		OverallRefundRatePct: metrics.Finite(q.OverallRefundRate) * 100,
		RepeatCustomerPct:    metrics.Finite(q.RepeatCustomerRate) * 100,
		AtRiskSegments:       make([]domain.SegmentCount, 0, q.AtRiskSegments.Len()),
		FunnelAnomalies:      []string{},
	}
	if report != nil {
		s.DuplicateSessions = nonNegative(report.SessionsDuplicates)
		s.BotSessionsRemoved = nonNegative(report.SessionsRemovedBots)
		s.InvalidOrdersRemoved = nonNegative(report.OrdersRemovedDate)
	}
	for _, e := range q.AtRiskSegments.Entries() {
		s.AtRiskSegments = append(s.AtRiskSegments, domain.SegmentCount{
			Segment: e.Key,
			Count:   floorNonNegative(e.Value),
		})
	}
	return s
}
