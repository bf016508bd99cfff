package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const refreshTimeout = 30 * time.Second

// Refresher 定期重新載入目前選擇的區間。
type Refresher struct {
	loader   *Loader
	interval time.Duration
	log      logrus.FieldLogger
	stopChan chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
	done     chan struct{}
}

// NewRefresher 建立背景刷新器；interval <= 0 時預設一小時。
func NewRefresher(loader *Loader, interval time.Duration, log logrus.FieldLogger) *Refresher {
	if interval <= 0 {
		interval = time.Hour
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Refresher{
		loader:   loader,
		interval: interval,
		log:      log,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start 啟動迴圈，啟動後立即執行一次。
func (r *Refresher) Start() {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	r.log.WithField("interval", r.interval).Info("starting dashboard refresher")
	ticker := time.NewTicker(r.interval)
	go func() {
		defer close(r.done)
		defer ticker.Stop()
		r.runOnce()
		for {
			select {
			case <-ticker.C:
				r.runOnce()
			case <-r.stopChan:
				return
			}
		}
	}()
}

// Stop 停止迴圈並等待進行中的刷新結束。
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopChan)
	})
	if r.started.Load() {
		<-r.done
	}
}

func (r *Refresher) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	if err := r.loader.Refresh(ctx); err != nil {
		r.log.WithError(err).Warn("dashboard refresh failed")
	}
}
