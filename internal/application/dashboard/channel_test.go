package dashboard

import (
	"testing"

	"bearcart-analytics/internal/domain/metrics"
)

func TestChannelAttributor_Empty(t *testing.T) {
	out := ChannelAttributor{AssumedAOV: 150}.Attribute(metrics.Breakdown{}, metrics.Breakdown{})
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", out)
	}
}

func TestChannelAttributor_SortedAndEstimated(t *testing.T) {
	revenue := metrics.NewBreakdown(
		metrics.Entry{Key: "organic_search", Value: 3000},
		metrics.Entry{Key: "paid_search", Value: 9000},
		metrics.Entry{Key: "direct_type_in", Value: 1499},
	)
	conversion := metrics.NewBreakdown(
		metrics.Entry{Key: "paid_search", Value: 0.05},
		metrics.Entry{Key: "organic_search", Value: 0.02},
	)
	out := ChannelAttributor{AssumedAOV: 150}.Attribute(revenue, conversion)
	if len(out) != 3 {
		t.Fatalf("unexpected length: %d", len(out))
	}
	if out[0].Name != "paid_search" || out[1].Name != "organic_search" || out[2].Name != "direct_type_in" {
		t.Fatalf("unexpected order: %+v", out)
	}
	if out[0].Orders != 60 || out[2].Orders != 9 {
		t.Fatalf("unexpected order estimates: %+v", out)
	}
	if !approx(out[0].ConversionPct, 5) || out[2].ConversionPct != 0 {
		t.Fatalf("unexpected conversion: %+v", out)
	}
	if out[0].Color != ColorPaid || out[1].Color != ColorOrganic || out[2].Color != ColorDirect {
		t.Fatalf("unexpected colors: %+v", out)
	}
}

func TestChannelAttributor_StableTies(t *testing.T) {
	revenue := metrics.NewBreakdown(
		metrics.Entry{Key: "c", Value: 100},
		metrics.Entry{Key: "a", Value: 500},
		metrics.Entry{Key: "b", Value: 100},
		metrics.Entry{Key: "d", Value: 100},
	)
	out := ChannelAttributor{AssumedAOV: 150}.Attribute(revenue, metrics.Breakdown{})
	got := []string{out[0].Name, out[1].Name, out[2].Name, out[3].Name}
	want := []string{"a", "c", "b", "d"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want %v got %v", want, got)
		}
	}
}

func TestChannelAttributor_ConversionOnlyKeysAppended(t *testing.T) {
	revenue := metrics.NewBreakdown(metrics.Entry{Key: "paid", Value: 10})
	conversion := metrics.NewBreakdown(
		metrics.Entry{Key: "social", Value: 0.1},
		metrics.Entry{Key: "paid", Value: 0.2},
	)
	out := ChannelAttributor{AssumedAOV: 150}.Attribute(revenue, conversion)
	if len(out) != 2 || out[0].Name != "paid" || out[1].Name != "social" {
		t.Fatalf("unexpected channels: %+v", out)
	}
	if out[1].Revenue != 0 || out[1].Orders != 0 || !approx(out[1].ConversionPct, 10) {
		t.Fatalf("unexpected conversion-only channel: %+v", out[1])
	}
}

func TestChannelColor_Priority(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Organic Search", ColorOrganic},
		{"paid_social", ColorPaid},
		{"SOCIAL_direct", ColorSocial},
		{"direct", ColorDirect},
		{"organic_paid", ColorOrganic},
		{"newsletter", ColorReferral},
		{"", ColorReferral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChannelColor(tt.name); got != tt.want {
				t.Fatalf("ChannelColor(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}
