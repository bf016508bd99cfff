package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	domain "bearcart-analytics/internal/domain/dashboard"
	"bearcart-analytics/internal/domain/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrStaleSnapshot 表示回應抵達前已有更新的請求發出，結果已被丟棄。
	ErrStaleSnapshot = errors.New("snapshot superseded by a newer request")
	// ErrNoSnapshot 表示尚未有任何快照成功載入。
	ErrNoSnapshot = errors.New("no snapshot loaded yet")
)

const selectTimeout = 15 * time.Second

// SnapshotFetcher 取得單一區間的快照。
type SnapshotFetcher interface {
	Fetch(ctx context.Context, timeRange string) (metrics.Snapshot, error)
}

// ViewBuilder 由快照組裝儀表板；fetcher 實作此介面時，採用快照的同時組裝一次並保存。
type ViewBuilder interface {
	Build(snap metrics.Snapshot) domain.View
}

// Loader 以「最後發出的請求為準」維護目前快照。
// 每次載入取得遞增序號，回應抵達時若已有更新的序號發出，結果即被丟棄。
type Loader struct {
	fetcher SnapshotFetcher
	log     logrus.FieldLogger

	mu       sync.Mutex
	issued   uint64
	current  *metrics.Snapshot
	view     *domain.View
	selected string
	lastErr  error
	inflight sync.WaitGroup
}

// NewLoader 建立快照載入器。
func NewLoader(fetcher SnapshotFetcher, defaultRange string, log logrus.FieldLogger) *Loader {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loader{
		fetcher:  fetcher,
		log:      log,
		selected: metrics.NormalizeRange(defaultRange),
	}
}

// Load 載入指定區間；被更新請求取代時回傳 ErrStaleSnapshot 且不更新目前快照。
func (l *Loader) Load(ctx context.Context, timeRange string) (metrics.Snapshot, error) {
	timeRange = metrics.NormalizeRange(timeRange)
	l.mu.Lock()
	ticket := l.issueLocked()
	l.mu.Unlock()
	return l.finish(ctx, ticket, timeRange)
}

// issueLocked 發出下一個序號，呼叫端須持有 l.mu。
func (l *Loader) issueLocked() uint64 {
	l.issued++
	return l.issued
}

// finish 取得快照，僅在 ticket 仍是最新序號時採用。
func (l *Loader) finish(ctx context.Context, ticket uint64, timeRange string) (metrics.Snapshot, error) {
	entry := l.log.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"range":      timeRange,
		"ticket":     ticket,
	})
	snap, err := l.fetcher.Fetch(ctx, timeRange)

	l.mu.Lock()
	defer l.mu.Unlock()
	if ticket != l.issued {
		entry.WithField("latest", l.issued).Info("discarding stale snapshot")
		return snap, ErrStaleSnapshot
	}
	if err != nil {
		l.lastErr = err
		entry.WithError(err).Warn("snapshot load failed")
		return snap, err
	}
	l.current = &snap
	l.view = nil
	if b, ok := l.fetcher.(ViewBuilder); ok {
		view := b.Build(snap)
		l.view = &view
	}
	l.lastErr = nil
	entry.Debug("snapshot committed")
	return snap, nil
}

// Current 回傳目前快照；false 代表仍在載入、尚無資料。
func (l *Loader) Current() (metrics.Snapshot, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return metrics.Snapshot{}, false
	}
	return *l.current, true
}

// CurrentView 回傳採用快照時組裝的儀表板，同一快照每次回傳相同內容。
func (l *Loader) CurrentView() (domain.View, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.view == nil {
		return domain.View{}, false
	}
	return *l.view, true
}

// LastError 回傳最近一次有效載入的錯誤。
func (l *Loader) LastError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// Selected 回傳操作者目前選擇的區間。
func (l *Loader) Selected() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selected
}

// Select 記錄選擇的區間並於背景載入；序號在回傳前發出，後呼叫者必定勝出。
func (l *Loader) Select(timeRange string) string {
	timeRange = metrics.NormalizeRange(timeRange)
	l.mu.Lock()
	l.selected = timeRange
	ticket := l.issueLocked()
	l.mu.Unlock()

	l.inflight.Add(1)
	go func() {
		defer l.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), selectTimeout)
		defer cancel()
		_, _ = l.finish(ctx, ticket, timeRange)
	}()
	return timeRange
}

// Refresh 重新載入目前選擇的區間。
func (l *Loader) Refresh(ctx context.Context) error {
	l.mu.Lock()
	timeRange := l.selected
	ticket := l.issueLocked()
	l.mu.Unlock()
	_, err := l.finish(ctx, ticket, timeRange)
	if errors.Is(err, ErrStaleSnapshot) {
		return nil
	}
	return err
}

// Wait 等待所有背景載入結束。
func (l *Loader) Wait() {
	l.inflight.Wait()
}
