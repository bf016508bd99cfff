package dashboard

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	domain "bearcart-analytics/internal/domain/dashboard"
	"bearcart-analytics/internal/domain/metrics"

	"github.com/sirupsen/logrus"
)

// Source 取得上游彙總指標。
type Source interface {
	FetchMetrics(ctx context.Context, timeRange string) (metrics.AggregateMetrics, error)
	FetchQuality(ctx context.Context) (*metrics.QualityReport, error)
}

// Settings 推導層共用設定。
type Settings struct {
	AssumedAOV   float64
	ProductLimit int
}

// DefaultSettings 回傳預設值。
func DefaultSettings() Settings {
	return Settings{AssumedAOV: DefaultAssumedAOV, ProductLimit: 5}
}

// UseCase 由快照組裝儀表板。
type UseCase struct {
	source   Source
	settings Settings
	rng      RandSource
	traffic  DeviceTrafficProvider
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewUseCase 建立儀表板用例；rng 為 nil 時使用時間種子，traffic 為 nil 時使用寫死的分佈。
func NewUseCase(source Source, settings Settings, rng RandSource, traffic DeviceTrafficProvider, log logrus.FieldLogger) *UseCase {
	if settings.AssumedAOV <= 0 {
		settings.AssumedAOV = DefaultAssumedAOV
	}
	if rng == nil {
		rng = NewLockedSource(0)
	}
	if traffic == nil {
		traffic = PlaceholderTraffic{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &UseCase{
		source:   source,
		settings: settings,
		rng:      rng,
		traffic:  traffic,
		log:      log,
		now:      time.Now,
	}
}

// Fetch 取得某區間的快照；稽核報告失敗不影響主要指標。
func (u *UseCase) Fetch(ctx context.Context, timeRange string) (metrics.Snapshot, error) {
	timeRange = metrics.NormalizeRange(timeRange)
	snap := metrics.Snapshot{Range: timeRange}
	m, err := u.source.FetchMetrics(ctx, timeRange)
	if err != nil {
		return snap, fmt.Errorf("fetch metrics range=%s: %w", timeRange, err)
	}
	snap.Metrics = m
	report, err := u.source.FetchQuality(ctx)
	if err != nil {
		u.log.WithError(err).Warn("quality report unavailable")
	} else {
		snap.Quality = report
	}
	snap.FetchedAt = u.now()
	return snap, nil
}

// Dashboard 取得快照並組裝。
func (u *UseCase) Dashboard(ctx context.Context, timeRange string) (domain.View, error) {
	snap, err := u.Fetch(ctx, timeRange)
	if err != nil {
		return domain.View{}, err
	}
	return u.Build(snap), nil
}

// Build 由單一快照推導所有片段，各片段彼此獨立且每次重新配置。
func (u *UseCase) Build(snap metrics.Snapshot) domain.View {
	m := snap.Metrics
	funnel := FunnelBuilder{}.Build(m.Conversion.FunnelSteps)
	quality := Quality(m.Quality, snap.Quality)
	quality.FunnelAnomalies = Anomalies(funnel)
	if len(quality.FunnelAnomalies) > 0 {
		u.log.WithFields(logrus.Fields{
			"range":  snap.Range,
			"stages": quality.FunnelAnomalies,
		}).Warn("funnel counts increase between stages")
	}

	return domain.View{
		Range:       snap.Range,
		GeneratedAt: u.now(),
		FetchedAt:   snap.FetchedAt,
		Kpis:        KpiCalculator{}.Compute(m),
		Revenue:     RevenueSynthesizer{AssumedAOV: u.settings.AssumedAOV}.Synthesize(m.Revenue.TotalRevenue, u.rng),
		Channels:    ChannelAttributor{AssumedAOV: u.settings.AssumedAOV}.Attribute(m.Revenue.RevenueByChannel, m.Conversion.ConversionByChannel),
		Devices:     DeviceAttributor{Traffic: u.traffic}.Attribute(m.Conversion.ConversionByDevice),
		Funnel:      funnel,
		Refunds:     Refunds(m.Quality),
		Products:    Leaderboard(m.Products, u.settings.ProductLimit),
		Quality:     quality,
	}
}

// ExportCSV 將儀表板逐段輸出為 CSV。
func (u *UseCase) ExportCSV(view domain.View) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	records := [][]string{
		{"section", "name", "value", "extra", "extra2"},
		{"kpi", "total_revenue", formatFloat(view.Kpis.TotalRevenue), "", ""},
		{"kpi", "total_orders", strconv.FormatInt(view.Kpis.TotalOrders, 10), "", ""},
		{"kpi", "conversion_rate_pct", formatFloat(view.Kpis.ConversionRatePct), "", ""},
		{"kpi", "avg_order_value", formatFloat(view.Kpis.AvgOrderValue), "", ""},
		{"kpi", "total_refunds", strconv.FormatInt(view.Kpis.TotalRefunds, 10), "", ""},
		{"kpi", "refund_rate_pct", formatFloat(view.Kpis.RefundRatePct), "", ""},
	}
	for _, p := range view.Revenue {
		records = append(records, []string{"revenue", p.Name, strconv.FormatInt(p.Revenue, 10), strconv.FormatInt(p.Orders, 10), ""})
	}
	for _, c := range view.Channels {
		records = append(records, []string{"channel", c.Name, formatFloat(c.Revenue), strconv.FormatInt(c.Orders, 10), formatFloat(c.ConversionPct)})
	}
	for _, d := range view.Devices {
		records = append(records, []string{"device", d.Name, formatFloat(d.SharePct), strconv.FormatInt(d.Sessions, 10), formatFloat(d.ConversionPct)})
	}
	for _, s := range view.Funnel {
		records = append(records, []string{"funnel", s.Label, strconv.FormatInt(s.Value, 10), formatFloat(s.PctOfTop), formatPtr(s.DropoffPct)})
	}
	for _, p := range view.Products {
		records = append(records, []string{"product", p.Name, formatFloat(p.Revenue), strconv.FormatInt(p.Sales, 10), formatFloat(p.RefundRatePct)})
	}
	if err := w.WriteAll(records); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
