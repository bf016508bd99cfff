package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bearcart-analytics/internal/domain/metrics"
)

// ErrRangeNotFound 表示該區間沒有快照。
var ErrRangeNotFound = errors.New("range not found")

// Store 為示範與測試用的記憶體資料來源，每個區間一份彙總快照，可併發讀寫。
type Store struct {
	mu      sync.RWMutex
	byRange map[string]metrics.AggregateMetrics
	quality *metrics.QualityReport
}

// NewStore 建立新的記憶體 Store 實例。
func NewStore() *Store {
	return &Store{byRange: make(map[string]metrics.AggregateMetrics)}
}

// Put 設定某區間的快照。
func (s *Store) Put(timeRange string, m metrics.AggregateMetrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byRange[metrics.NormalizeRange(timeRange)] = cloneMetrics(m)
}

// PutQuality 設定清洗稽核報告；nil 代表報告不存在。
func (s *Store) PutQuality(rep *metrics.QualityReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rep == nil {
		s.quality = nil
		return
	}
	cp := *rep
	s.quality = &cp
}

// FetchMetrics 回傳區間快照的複本。
func (s *Store) FetchMetrics(_ context.Context, timeRange string) (metrics.AggregateMetrics, error) {
	timeRange = metrics.NormalizeRange(timeRange)
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byRange[timeRange]
	if !ok {
		return metrics.AggregateMetrics{}, fmt.Errorf("%w: %s", ErrRangeNotFound, timeRange)
	}
	return cloneMetrics(m), nil
}

// FetchQuality 回傳清洗稽核報告。
func (s *Store) FetchQuality(_ context.Context) (*metrics.QualityReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.quality == nil {
		return nil, errors.New("quality report not seeded")
	}
	cp := *s.quality
	return &cp, nil
}

// Ranges 回傳已有資料的區間數。
func (s *Store) Ranges() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byRange)
}

func cloneMetrics(m metrics.AggregateMetrics) metrics.AggregateMetrics {
	out := m
	out.Traffic.SessionsByChannel = cloneBreakdown(m.Traffic.SessionsByChannel)
	out.Conversion.ConversionByChannel = cloneBreakdown(m.Conversion.ConversionByChannel)
	out.Conversion.ConversionByDevice = cloneBreakdown(m.Conversion.ConversionByDevice)
	out.Revenue.RevenueByChannel = cloneBreakdown(m.Revenue.RevenueByChannel)
	out.Quality.AtRiskSegments = cloneBreakdown(m.Quality.AtRiskSegments)
	out.Conversion.OverallConversionRate = clonePtr(m.Conversion.OverallConversionRate)
	out.Revenue.AverageOrderValue = clonePtr(m.Revenue.AverageOrderValue)
	if m.Products != nil {
		out.Products = make([]metrics.Product, len(m.Products))
		for i, p := range m.Products {
			p.RefundRate = clonePtr(p.RefundRate)
			out.Products[i] = p
		}
	}
	return out
}

func cloneBreakdown(b metrics.Breakdown) metrics.Breakdown {
	return metrics.NewBreakdown(b.Entries()...)
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
