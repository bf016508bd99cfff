package dashboard

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	domain "bearcart-analytics/internal/domain/dashboard"
	"bearcart-analytics/internal/domain/metrics"
)

// DefaultAssumedAOV 為估算訂單數時共用的假設客單價。
const DefaultAssumedAOV = 150.0

const dailyVariance = 0.2

var weekDays = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// RandSource 提供 [0,1) 的亂數；*rand.Rand 即滿足此介面。
type RandSource interface {
	Float64() float64
}

// RevenueSynthesizer 將總營收展開為 7 日序列。
type RevenueSynthesizer struct {
	AssumedAOV float64
}

// Synthesize 以 total/7 為基準，每日獨立抽取 ±20% 變異。
// 各日加總只是近似 total，並非精確切分。total 為負數或非有限數時視為 0。
func (s RevenueSynthesizer) Synthesize(total float64, src RandSource) []domain.RevenuePoint {
	total = metrics.Finite(total)
	if total < 0 {
		total = 0
	}
	avg := total / float64(len(weekDays))
	out := make([]domain.RevenuePoint, 0, len(weekDays))
	for _, day := range weekDays {
		factor := 1 + variance(src)
		p := domain.RevenuePoint{
			Name:    day,
			Revenue: floorNonNegative(avg * factor),
		}
		if s.AssumedAOV > 0 {
			p.Orders = floorNonNegative((avg / s.AssumedAOV) * factor)
		}
		out = append(out, p)
	}
	return out
}

func variance(src RandSource) float64 {
	if src == nil {
		return 0
	}
	v := src.Float64()*2*dailyVariance - dailyVariance
	if math.IsNaN(v) || v < -dailyVariance {
		return -dailyVariance
	}
	if v > dailyVariance {
		return dailyVariance
	}
	return v
}

func floorNonNegative(v float64) int64 {
	v = metrics.Finite(v)
	if v <= 0 {
		return 0
	}
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Floor(v))
}

// LockedSource 為可跨 goroutine 共用的亂數來源。
type LockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewLockedSource 建立亂數來源；seed 為 0 時以目前時間為種子。
func NewLockedSource(seed uint64) *LockedSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &LockedSource{rnd: NewSeededSource(seed)}
}

// NewSeededSource 建立固定種子的亂數來源，測試用。
func NewSeededSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (l *LockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Float64()
}
