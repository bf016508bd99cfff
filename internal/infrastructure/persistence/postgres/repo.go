package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bearcart-analytics/internal/domain/metrics"
)

// ErrNoQualityReport 資料庫中尚無清洗稽核紀錄。
var ErrNoQualityReport = errors.New("no quality report stored")

const atRiskSegmentLimit = 5

// Repo 以 SQL 在 sessions / order_items / refunds 上計算儀表板彙總指標。
type Repo struct {
	db *sql.DB
}

// NewRepo 建立 Postgres 資料存取實例。
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// FetchMetrics 依區間計算彙總；區間起點相對於各表最新一筆資料，而非現在時間。
func (r *Repo) FetchMetrics(ctx context.Context, timeRange string) (metrics.AggregateMetrics, error) {
	var m metrics.AggregateMetrics

	sessionsSince, err := r.since(ctx, `SELECT MAX(session_date) FROM sessions;`, timeRange)
	if err != nil {
		return m, fmt.Errorf("session window: %w", err)
	}
	if err := r.sessionTotals(ctx, sessionsSince, &m); err != nil {
		return m, fmt.Errorf("session totals: %w", err)
	}
	if err := r.channelBreakdowns(ctx, sessionsSince, &m); err != nil {
		return m, fmt.Errorf("channel breakdowns: %w", err)
	}
	if m.Quality.AtRiskSegments, err = r.atRiskSegments(ctx, sessionsSince); err != nil {
		return m, fmt.Errorf("at-risk segments: %w", err)
	}
	if m.Conversion.ConversionByDevice, err = r.deviceConversion(ctx, sessionsSince); err != nil {
		return m, fmt.Errorf("device conversion: %w", err)
	}

	itemsSince, err := r.since(ctx, `SELECT MAX(created_at) FROM order_items;`, timeRange)
	if err != nil {
		return m, fmt.Errorf("item window: %w", err)
	}
	if m.Products, err = r.products(ctx, itemsSince); err != nil {
		return m, fmt.Errorf("products: %w", err)
	}
	return m, nil
}

// FetchQuality 取最新一筆清洗稽核。
func (r *Repo) FetchQuality(ctx context.Context) (*metrics.QualityReport, error) {
	const q = `
SELECT sessions_duplicates, sessions_removed_bots, orders_removed_date
FROM quality_reports
ORDER BY created_at DESC
LIMIT 1;
`
	var rep metrics.QualityReport
	err := r.db.QueryRowContext(ctx, q).Scan(&rep.SessionsDuplicates, &rep.SessionsRemovedBots, &rep.OrdersRemovedDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoQualityReport
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// since 回傳區間起點；All 或表內無資料時為 NULL，代表不過濾。
func (r *Repo) since(ctx context.Context, maxQuery, timeRange string) (sql.NullTime, error) {
	lookback, ok := metrics.Lookback(metrics.NormalizeRange(timeRange))
	if !ok {
		return sql.NullTime{}, nil
	}
	var maxDate sql.NullTime
	if err := r.db.QueryRowContext(ctx, maxQuery).Scan(&maxDate); err != nil {
		return sql.NullTime{}, err
	}
	if !maxDate.Valid {
		return sql.NullTime{}, nil
	}
	return sql.NullTime{Time: maxDate.Time.Add(-lookback), Valid: true}, nil
}

func (r *Repo) sessionTotals(ctx context.Context, since sql.NullTime, m *metrics.AggregateMetrics) error {
	const q = `
SELECT COUNT(*),
       COUNT(DISTINCT user_id),
       COALESCE(SUM(pageviews), 0),
       COUNT(*) FILTER (WHERE converted),
       COALESCE(SUM(order_value), 0),
       AVG(order_value) FILTER (WHERE converted),
       COUNT(*) FILTER (WHERE was_refunded),
       COUNT(*) FILTER (WHERE customer_segment = 'Returning'),
       COUNT(*) FILTER (WHERE step_home),
       COUNT(*) FILTER (WHERE step_product),
       COUNT(*) FILTER (WHERE step_cart),
       COUNT(*) FILTER (WHERE step_shipping),
       COUNT(*) FILTER (WHERE step_billing),
       COUNT(*) FILTER (WHERE step_thankyou)
FROM sessions
WHERE ($1::timestamptz IS NULL OR session_date >= $1);
`
	var (
		sessions, refunded, returning int
		aov                           sql.NullFloat64
		funnel                        = &m.Conversion.FunnelSteps
	)
	err := r.db.QueryRowContext(ctx, q, since).Scan(
		&sessions,
		&m.Traffic.UniqueUsers,
		&m.Traffic.TotalPageviews,
		&m.Conversion.TotalConversions,
		&m.Revenue.TotalRevenue,
		&aov,
		&refunded,
		&returning,
		&funnel.Sessions,
		&funnel.Products,
		&funnel.Cart,
		&funnel.Shipping,
		&funnel.Billing,
		&funnel.Purchase,
	)
	if err != nil {
		return err
	}

	m.Traffic.TotalSessions = sessions
	m.Quality.TotalRefunds = refunded
	if aov.Valid {
		m.Revenue.AverageOrderValue = metrics.Float(aov.Float64)
	}
	if sessions > 0 {
		m.Conversion.OverallConversionRate = metrics.Float(float64(m.Conversion.TotalConversions) / float64(sessions))
		m.Revenue.RevenuePerSession = m.Revenue.TotalRevenue / float64(sessions)
		m.Quality.RepeatCustomerRate = float64(returning) / float64(sessions)
	}
	if m.Conversion.TotalConversions > 0 {
		m.Quality.OverallRefundRate = float64(refunded) / float64(m.Conversion.TotalConversions)
	}
	return nil
}

func (r *Repo) channelBreakdowns(ctx context.Context, since sql.NullTime, m *metrics.AggregateMetrics) error {
	const q = `
SELECT traffic_channel,
       COUNT(*),
       AVG(CASE WHEN converted THEN 1.0 ELSE 0.0 END),
       COALESCE(SUM(order_value), 0)
FROM sessions
WHERE ($1::timestamptz IS NULL OR session_date >= $1)
GROUP BY traffic_channel
ORDER BY COUNT(*) DESC, traffic_channel;
`
	rows, err := r.db.QueryContext(ctx, q, since)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			channel  string
			sessions int
			rate     float64
			revenue  float64
		)
		if err := rows.Scan(&channel, &sessions, &rate, &revenue); err != nil {
			return err
		}
		m.Traffic.SessionsByChannel.Set(channel, float64(sessions))
		m.Conversion.ConversionByChannel.Set(channel, rate)
		m.Revenue.RevenueByChannel.Set(channel, revenue)
	}
	return rows.Err()
}

func (r *Repo) atRiskSegments(ctx context.Context, since sql.NullTime) (metrics.Breakdown, error) {
	const q = `
SELECT traffic_channel, COUNT(*)
FROM sessions
WHERE was_refunded
AND ($1::timestamptz IS NULL OR session_date >= $1)
GROUP BY traffic_channel
ORDER BY COUNT(*) DESC, traffic_channel
LIMIT $2;
`
	var out metrics.Breakdown
	rows, err := r.db.QueryContext(ctx, q, since, atRiskSegmentLimit)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		var channel string
		var count int
		if err := rows.Scan(&channel, &count); err != nil {
			return out, err
		}
		out.Set(channel, float64(count))
	}
	return out, rows.Err()
}

func (r *Repo) deviceConversion(ctx context.Context, since sql.NullTime) (metrics.Breakdown, error) {
	const q = `
SELECT device_type, AVG(CASE WHEN converted THEN 1.0 ELSE 0.0 END)
FROM sessions
WHERE ($1::timestamptz IS NULL OR session_date >= $1)
GROUP BY device_type
ORDER BY device_type;
`
	var out metrics.Breakdown
	rows, err := r.db.QueryContext(ctx, q, since)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		var device string
		var rate float64
		if err := rows.Scan(&device, &rate); err != nil {
			return out, err
		}
		out.Set(device, rate)
	}
	return out, rows.Err()
}

// products 依營收排序；退款以 order_item 為單位，不受區間影響。
func (r *Repo) products(ctx context.Context, since sql.NullTime) ([]metrics.Product, error) {
	const q = `
SELECT oi.product_name,
       COUNT(*),
       COALESCE(SUM(oi.price_usd), 0),
       COALESCE(SUM(oi.margin_usd), 0),
       COUNT(DISTINCT r.order_item_id)
FROM order_items oi
LEFT JOIN refunds r ON r.order_item_id = oi.order_item_id
WHERE ($1::timestamptz IS NULL OR oi.created_at >= $1)
GROUP BY oi.product_name
ORDER BY SUM(oi.price_usd) DESC, oi.product_name;
`
	rows, err := r.db.QueryContext(ctx, q, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []metrics.Product{}
	for rows.Next() {
		var p metrics.Product
		var refunded int
		if err := rows.Scan(&p.ProductName, &p.SalesCount, &p.TotalRevenue, &p.TotalMargin, &refunded); err != nil {
			return nil, err
		}
		if p.SalesCount > 0 {
			p.RefundRate = metrics.Float(float64(refunded) / float64(p.SalesCount))
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
