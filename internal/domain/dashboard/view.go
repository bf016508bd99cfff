package dashboard

import "time"

// RevenuePoint 為合成的單日營收點。
type RevenuePoint struct {
	Name    string `json:"name"`
	Revenue int64  `json:"revenue"`
	Orders  int64  `json:"orders"`
}

// ChannelMetric 單一流量渠道的表現。
type ChannelMetric struct {
	Name          string  `json:"name"`
	Revenue       float64 `json:"revenue"`
	Orders        int64   `json:"orders"` // 以假設客單價估算
	ConversionPct float64 `json:"conversion"`
	Color         string  `json:"color"`
}

// DeviceMetric 單一裝置類別的表現。
type DeviceMetric struct {
	Name          string  `json:"name"`
	SharePct      float64 `json:"value"`
	Sessions      int64   `json:"sessions"`
	ConversionPct float64 `json:"conversion"`
	Color         string  `json:"color"`
}

// FunnelStage 漏斗節點；DropoffPct 對第一個節點為 nil。
type FunnelStage struct {
	Label      string   `json:"stage"`
	Value      int64    `json:"value"`
	PctOfTop   float64  `json:"pct_of_top"`
	DropoffPct *float64 `json:"dropoff_pct"`
	Color      string   `json:"color"`
}

// RefundReason 退款原因分佈。
type RefundReason struct {
	Reason     string  `json:"reason"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// ProductRow 商品排行榜列。
type ProductRow struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Sales         int64   `json:"sales"`
	Revenue       float64 `json:"revenue"`
	RefundRatePct float64 `json:"refund_rate"`
}

// SegmentCount 高風險區隔的退款次數。
type SegmentCount struct {
	Segment string `json:"segment"`
	Count   int64  `json:"count"`
}

// QualitySummary 資料品質稽核摘要。
type QualitySummary struct {
	DuplicateSessions    int64          `json:"duplicate_sessions"`
	BotSessionsRemoved   int64          `json:"bot_sessions_removed"`
	InvalidOrdersRemoved int64          `json:"invalid_orders_removed"`
	TotalRefunds         int64          `json:"total_refunds"`
	OverallRefundRatePct float64        `json:"overall_refund_rate"`
	RepeatCustomerPct    float64        `json:"repeat_customer_rate"`
	AtRiskSegments       []SegmentCount `json:"at_risk_segments"`
	FunnelAnomalies      []string       `json:"funnel_anomalies"`
}

// Kpis 頂層指標，所有欄位必為有限數值。
type Kpis struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalOrders       int64   `json:"total_orders"`
	ConversionRatePct float64 `json:"conversion_rate"`
	AvgOrderValue     float64 `json:"avg_order_value"`
	TotalRefunds      int64   `json:"total_refunds"`
	RefundRatePct     float64 `json:"refund_rate"`
}

// View 組裝完成的儀表板；每次由快照重新產生，不會被保存。
type View struct {
	Range       string          `json:"range"`
	GeneratedAt time.Time       `json:"generated_at"`
	FetchedAt   time.Time       `json:"fetched_at"`
	Kpis        Kpis            `json:"kpis"`
	Revenue     []RevenuePoint  `json:"revenue"`
	Channels    []ChannelMetric `json:"channels"`
	Devices     []DeviceMetric  `json:"devices"`
	Funnel      []FunnelStage   `json:"funnel"`
	Refunds     []RefundReason  `json:"refunds"`
	Products    []ProductRow    `json:"products"`
	Quality     QualitySummary  `json:"quality"`
}
