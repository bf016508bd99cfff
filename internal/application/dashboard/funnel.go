package dashboard

import (
	domain "bearcart-analytics/internal/domain/dashboard"
	"bearcart-analytics/internal/domain/metrics"
)

type funnelSpec struct {
	label string
	value func(metrics.FunnelSteps) int
	color string
}

var funnelStages = [6]funnelSpec{
	{label: "Visits", value: func(s metrics.FunnelSteps) int { return s.Sessions }, color: colorPurple},
	{label: "Product", value: func(s metrics.FunnelSteps) int { return s.Products }, color: colorIndigo},
	{label: "Cart", value: func(s metrics.FunnelSteps) int { return s.Cart }, color: colorBlue},
	{label: "Shipping", value: func(s metrics.FunnelSteps) int { return s.Shipping }, color: colorTeal},
	{label: "Billing", value: func(s metrics.FunnelSteps) int { return s.Billing }, color: colorSuccess},
	{label: "Purchase", value: func(s metrics.FunnelSteps) int { return s.Purchase }, color: colorText},
}

// FunnelBuilder 將六個漏斗計數轉為有序節點。
type FunnelBuilder struct{}

// Build 計算各節點佔頂端比例與相對前一節點的流失率。
// 分母為 0 時結果定義為 0；計數不遞減時流失率為負並原樣保留。
func (FunnelBuilder) Build(steps metrics.FunnelSteps) []domain.FunnelStage {
	out := make([]domain.FunnelStage, 0, len(funnelStages))
	top := int64(funnelStages[0].value(steps))
	var prev int64
	for i, def := range funnelStages {
		v := int64(def.value(steps))
		stage := domain.FunnelStage{
			Label: def.label,
			Value: v,
			Color: def.color,
		}
		if top != 0 {
			stage.PctOfTop = float64(v) / float64(top) * 100
		}
		if i > 0 {
			drop := 0.0
			if prev != 0 {
				drop = float64(prev-v) / float64(prev) * 100
			}
			stage.DropoffPct = &drop
		}
		out = append(out, stage)
		prev = v
	}
	return out
}

// Anomalies 回傳流失率為負（計數比前一節點大）的節點名稱。
func Anomalies(stages []domain.FunnelStage) []string {
	out := []string{}
	for _, s := range stages {
		if s.DropoffPct != nil && *s.DropoffPct < 0 {
			out = append(out, s.Label)
		}
	}
	return out
}
