package dashboard

import (
	"testing"
	"time"
)

func TestRefresher_RunsImmediatelyAndStops(t *testing.T) {
	l := NewLoader(newGatedFetcher(), "Week", quietLogger())
	r := NewRefresher(l, time.Hour, quietLogger())
	r.Start()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if snap, ok := l.Current(); ok {
			if snap.Range != "Week" {
				t.Fatalf("unexpected range: %s", snap.Range)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("refresher did not load on start")
		}
		time.Sleep(time.Millisecond)
	}
	r.Stop()
	r.Stop()
}

func TestRefresher_StopWithoutStart(t *testing.T) {
	r := NewRefresher(NewLoader(newGatedFetcher(), "", quietLogger()), 0, nil)
	if r.interval != time.Hour {
		t.Fatalf("expected default interval, got %v", r.interval)
	}
	r.Stop()
}
