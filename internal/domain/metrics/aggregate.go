package metrics

import (
	"math"
	"time"
)

// AggregateMetrics 為上游指標服務回傳的彙總快照，只有總量與比率，沒有明細列。
type AggregateMetrics struct {
	Traffic    Traffic    `json:"traffic"`
	Conversion Conversion `json:"conversion"`
	Revenue    Revenue    `json:"revenue"`
	Quality    Quality    `json:"quality"`
	Products   []Product  `json:"products"`
}

// Traffic 流量與參與度。
type Traffic struct {
	TotalSessions     int       `json:"total_sessions"`
	UniqueUsers       int       `json:"unique_users"`
	TotalPageviews    int       `json:"total_pageviews"`
	SessionsByChannel Breakdown `json:"sessions_by_channel"`
}

// Conversion 轉換率與漏斗計數。
type Conversion struct {
	OverallConversionRate *float64    `json:"overall_conversion_rate,omitempty"` // 0~1
	TotalConversions      int         `json:"total_conversions"`
	ConversionByChannel   Breakdown   `json:"conversion_by_channel"`
	ConversionByDevice    Breakdown   `json:"conversion_by_device"`
	FunnelSteps           FunnelSteps `json:"funnel_steps"`
}

// FunnelSteps 六個漏斗節點的 session 數，理論上依序非遞增。
type FunnelSteps struct {
	Sessions int `json:"sessions"`
	Products int `json:"products"`
	Cart     int `json:"cart"`
	Shipping int `json:"shipping"`
	Billing  int `json:"billing"`
	Purchase int `json:"purchase"`
}

// Revenue 營收與客單價。
type Revenue struct {
	TotalRevenue      float64   `json:"total_revenue"`
	AverageOrderValue *float64  `json:"average_order_value,omitempty"`
	RevenuePerSession float64   `json:"revenue_per_session"`
	RevenueByChannel  Breakdown `json:"revenue_by_channel"`
}

// Quality 退款與顧客健康度。
type Quality struct {
	TotalRefunds       int       `json:"total_refunds"`
	OverallRefundRate  float64   `json:"overall_refund_rate"`
	RepeatCustomerRate float64   `json:"repeat_customer_rate"`
	AtRiskSegments     Breakdown `json:"at_risk_segments"`
}

// Product 單一商品的銷售彙總，上游已依營收排序。
type Product struct {
	ProductName  string   `json:"product_name"`
	SalesCount   int      `json:"sales_count"`
	TotalRevenue float64  `json:"total_revenue"`
	TotalMargin  float64  `json:"total_margin"`
	RefundRate   *float64 `json:"refund_rate,omitempty"` // 0~1
}

// QualityReport 資料清洗稽核結果。
type QualityReport struct {
	SessionsDuplicates  int `json:"sessions_duplicates"`
	SessionsRemovedBots int `json:"sessions_removed_bots"`
	OrdersRemovedDate   int `json:"orders_removed_date"`
}

// Snapshot 為單次查詢取得的不可變快照。
type Snapshot struct {
	Range     string
	Metrics   AggregateMetrics
	Quality   *QualityReport
	FetchedAt time.Time
}

// Finite 將 NaN / ±Inf 收斂為 0。
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Value 取出可選欄位，缺值或非有限數回傳 0。
func Value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return Finite(*p)
}

// Float 建立可選欄位。
func Float(v float64) *float64 { return &v }
