package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	domain "bearcart-analytics/internal/domain/dashboard"
	"bearcart-analytics/internal/domain/metrics"
)

type gatedFetcher struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	errs  map[string]error
}

func newGatedFetcher(ranges ...string) *gatedFetcher {
	f := &gatedFetcher{gates: make(map[string]chan struct{}), errs: make(map[string]error)}
	for _, r := range ranges {
		f.gates[r] = make(chan struct{})
	}
	return f
}

func (f *gatedFetcher) Fetch(ctx context.Context, timeRange string) (metrics.Snapshot, error) {
	f.mu.Lock()
	gate := f.gates[timeRange]
	err := f.errs[timeRange]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return metrics.Snapshot{}, ctx.Err()
		}
	}
	if err != nil {
		return metrics.Snapshot{}, err
	}
	return metrics.Snapshot{Range: timeRange, FetchedAt: time.Now()}, nil
}

func (f *gatedFetcher) release(r string) { close(f.gates[r]) }

func TestLoader_NoSnapshotYet(t *testing.T) {
	l := NewLoader(newGatedFetcher(), "", quietLogger())
	if _, ok := l.Current(); ok {
		t.Fatalf("expected loading state before first load")
	}
	if l.Selected() != metrics.DefaultRange {
		t.Fatalf("unexpected default range: %s", l.Selected())
	}
}

func TestLoader_LateOlderResponseIsDiscarded(t *testing.T) {
	f := newGatedFetcher("Year", "Week")
	l := NewLoader(f, "Month", quietLogger())
	ctx := context.Background()

	yearDone := make(chan error, 1)
	go func() {
		_, err := l.Load(ctx, "Year")
		yearDone <- err
	}()
	waitIssued(t, l, 1)

	weekDone := make(chan error, 1)
	go func() {
		_, err := l.Load(ctx, "Week")
		weekDone <- err
	}()
	waitIssued(t, l, 2)

	f.release("Week")
	if err := <-weekDone; err != nil {
		t.Fatalf("newest request should commit: %v", err)
	}
	f.release("Year")
	if err := <-yearDone; !errors.Is(err, ErrStaleSnapshot) {
		t.Fatalf("expected stale error, got %v", err)
	}
	snap, ok := l.Current()
	if !ok || snap.Range != "Week" {
		t.Fatalf("older response overwrote newer snapshot: %+v", snap)
	}
}

func TestLoader_EarlyOlderResponseIsDiscarded(t *testing.T) {
	f := newGatedFetcher("Year", "Week")
	l := NewLoader(f, "Month", quietLogger())
	ctx := context.Background()

	yearDone := make(chan error, 1)
	go func() {
		_, err := l.Load(ctx, "Year")
		yearDone <- err
	}()
	waitIssued(t, l, 1)
	weekDone := make(chan error, 1)
	go func() {
		_, err := l.Load(ctx, "Week")
		weekDone <- err
	}()
	waitIssued(t, l, 2)

	f.release("Year")
	if err := <-yearDone; !errors.Is(err, ErrStaleSnapshot) {
		t.Fatalf("expected stale error, got %v", err)
	}
	if _, ok := l.Current(); ok {
		t.Fatalf("stale response must not be committed")
	}
	f.release("Week")
	if err := <-weekDone; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap, _ := l.Current(); snap.Range != "Week" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestLoader_FailureKeepsPreviousSnapshot(t *testing.T) {
	f := newGatedFetcher()
	l := NewLoader(f, "Month", quietLogger())
	if _, err := l.Load(context.Background(), "Month"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	boom := errors.New("boom")
	f.errs["Year"] = boom
	if _, err := l.Load(context.Background(), "Year"); !errors.Is(err, boom) {
		t.Fatalf("expected failure, got %v", err)
	}
	if snap, ok := l.Current(); !ok || snap.Range != "Month" {
		t.Fatalf("previous snapshot should survive a failed load: %+v", snap)
	}
	if !errors.Is(l.LastError(), boom) {
		t.Fatalf("expected last error to be recorded")
	}
}

func TestLoader_SelectLoadsInBackground(t *testing.T) {
	l := NewLoader(newGatedFetcher(), "Month", quietLogger())
	if got := l.Select(" Year "); got != "Year" {
		t.Fatalf("unexpected normalized range: %s", got)
	}
	l.Wait()
	snap, ok := l.Current()
	if !ok || snap.Range != "Year" || l.Selected() != "Year" {
		t.Fatalf("unexpected state after select: %+v", snap)
	}
	if err := l.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected refresh error: %v", err)
	}
}

func waitIssued(t *testing.T, l *Loader, n uint64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		l.mu.Lock()
		issued := l.issued
		l.mu.Unlock()
		if issued >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for ticket %d", n)
}

func TestLoader_BackToBackSelectCommitsLatest(t *testing.T) {
	for i := 0; i < 200; i++ {
		l := NewLoader(newGatedFetcher(), "Month", quietLogger())
		l.Select("Year")
		l.Select("Week")
		l.Wait()
		snap, ok := l.Current()
		if !ok || snap.Range != l.Selected() || snap.Range != "Week" {
			t.Fatalf("iteration %d: committed %q, selected %q", i, snap.Range, l.Selected())
		}
	}
}

func TestLoader_SelectSupersedesRunningRefresh(t *testing.T) {
	f := newGatedFetcher("Month")
	l := NewLoader(f, "Month", quietLogger())

	refreshDone := make(chan error, 1)
	go func() { refreshDone <- l.Refresh(context.Background()) }()
	waitIssued(t, l, 1)

	l.Select("Week")
	l.Wait()
	f.release("Month")
	if err := <-refreshDone; err != nil {
		t.Fatalf("superseded refresh should not report an error: %v", err)
	}
	if snap, _ := l.Current(); snap.Range != "Week" {
		t.Fatalf("refresh overwrote newer selection: %+v", snap)
	}
}

type buildingFetcher struct {
	*gatedFetcher
	builds atomic.Int32
}

func (f *buildingFetcher) Build(snap metrics.Snapshot) domain.View {
	n := f.builds.Add(1)
	return domain.View{Range: snap.Range, Kpis: domain.Kpis{TotalOrders: int64(n)}}
}

func TestLoader_ViewBuiltOncePerCommit(t *testing.T) {
	f := &buildingFetcher{gatedFetcher: newGatedFetcher()}
	l := NewLoader(f, "Month", quietLogger())
	if _, ok := l.CurrentView(); ok {
		t.Fatalf("expected no view before first load")
	}
	if _, err := l.Load(context.Background(), "Year"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, ok := l.CurrentView()
	second, _ := l.CurrentView()
	if !ok || first.Range != "Year" || first.Kpis.TotalOrders != 1 || second.Kpis.TotalOrders != 1 {
		t.Fatalf("view should be built once per commit: %+v %+v", first, second)
	}
	if _, err := l.Load(context.Background(), "Week"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := l.CurrentView(); v.Range != "Week" || v.Kpis.TotalOrders != 2 {
		t.Fatalf("new commit should rebuild the view: %+v", v)
	}
}
