package dashboard

import (
	"strings"

	domain "bearcart-analytics/internal/domain/dashboard"
	"bearcart-analytics/internal/domain/metrics"
)

// DeviceShare 為單一裝置的流量估計。
type DeviceShare struct {
	SharePct float64
	Sessions int64
}

// DeviceTrafficProvider 提供各裝置的 session 佔比；key 為小寫裝置名。
type DeviceTrafficProvider interface {
	DeviceTraffic() map[string]DeviceShare
}

// PlaceholderTraffic 為寫死的 55/35/10 分佈。
// 上游目前沒有裝置層級的流量，這些數字是合成的，待上游提供後替換。
type PlaceholderTraffic struct{}

func (PlaceholderTraffic) DeviceTraffic() map[string]DeviceShare {
	return map[string]DeviceShare{
		"desktop": {SharePct: 55, Sessions: 12500},
		"mobile":  {SharePct: 35, Sessions: 8500},
		"tablet":  {SharePct: 10, Sessions: 2500},
	}
}

type deviceBucket struct {
	key   string
	name  string
	color string
}

var deviceBuckets = [3]deviceBucket{
	{key: "desktop", name: "Desktop", color: ColorDesktop},
	{key: "mobile", name: "Mobile", color: ColorMobile},
	{key: "tablet", name: "Tablet", color: ColorTablet},
}

// DeviceAttributor 產出固定三個裝置桶的分佈。
type DeviceAttributor struct {
	Traffic DeviceTrafficProvider
}

// Attribute 回傳 Desktop、Mobile、Tablet 三筆，佔比正規化為總和 100。
// 轉換率取自上游，佔比與 session 數來自 Traffic，與轉換率無關。
func (a DeviceAttributor) Attribute(conversionByDevice metrics.Breakdown) []domain.DeviceMetric {
	shares := a.shares()
	total := 0.0
	for _, b := range deviceBuckets {
		total += shares[b.key].SharePct
	}

	out := make([]domain.DeviceMetric, 0, len(deviceBuckets))
	for _, b := range deviceBuckets {
		s := shares[b.key]
		out = append(out, domain.DeviceMetric{
			Name:          b.name,
			SharePct:      s.SharePct * 100 / total,
			Sessions:      s.Sessions,
			ConversionPct: deviceRate(conversionByDevice, b.key) * 100,
			Color:         b.color,
		})
	}
	return out
}

func (a DeviceAttributor) shares() map[string]DeviceShare {
	if a.Traffic != nil {
		if s := sanitizeShares(a.Traffic.DeviceTraffic()); s != nil {
			return s
		}
	}
	return PlaceholderTraffic{}.DeviceTraffic()
}

// sanitizeShares 丟棄負值與非有限數；沒有可用佔比時回傳 nil。
func sanitizeShares(in map[string]DeviceShare) map[string]DeviceShare {
	out := make(map[string]DeviceShare, len(deviceBuckets))
	total := 0.0
	for _, b := range deviceBuckets {
		s := in[b.key]
		s.SharePct = metrics.Finite(s.SharePct)
		if s.SharePct < 0 {
			s.SharePct = 0
		}
		if s.Sessions < 0 {
			s.Sessions = 0
		}
		total += s.SharePct
		out[b.key] = s
	}
	if total <= 0 {
		return nil
	}
	return out
}

func deviceRate(rates metrics.Breakdown, key string) float64 {
	if v, ok := rates.Get(key); ok {
		return metrics.Finite(v)
	}
	for _, e := range rates.Entries() {
		if strings.EqualFold(e.Key, key) {
			return metrics.Finite(e.Value)
		}
	}
	return 0
}
