package admin

import (
	"testing"
	"time"
)

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0s"},
		{5, "5s"},
		{60, "1m 0s"},
		{61, "1m 1s"},
		{3600, "1h 0s"},
		{3661, "1h 1m 1s"},
		{86400, "1d 0s"},
		{90061, "1d 1h 1m 1s"},
		{172925, "2d 2m 5s"},
	}
	for _, tc := range tests {
		if got := formatUptime(tc.seconds); got != tc.want {
			t.Errorf("formatUptime(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFormatUptimeRoundTrips(t *testing.T) {
	// Re-decomposing the rendered segments must reconstruct the input.
	units := map[byte]int{'d': 86400, 'h': 3600, 'm': 60, 's': 1}
	for _, seconds := range []int{0, 1, 59, 60, 3599, 3600, 86399, 86400, 90061, 987654} {
		out := formatUptime(seconds)
		total := 0
		num := 0
		for i := 0; i < len(out); i++ {
			c := out[i]
			switch {
			case c >= '0' && c <= '9':
				num = num*10 + int(c-'0')
			case c == ' ':
			default:
				total += num * units[c]
				num = 0
			}
		}
		if total != seconds {
			t.Errorf("formatUptime(%d) = %q, re-decomposes to %d", seconds, out, total)
		}
	}
}

func TestElapsedSecondsClampsNegative(t *testing.T) {
	now := time.Now()
	if got := elapsedSeconds(now, now.Add(time.Hour)); got != 0 {
		t.Errorf("elapsedSeconds with future start = %d, want 0", got)
	}
	if got := elapsedSeconds(now, now.Add(-90*time.Second)); got != 90 {
		t.Errorf("elapsedSeconds = %d, want 90", got)
	}
}

func TestAggregateDegradesToDefaults(t *testing.T) {
	s := NewServer(Options{})

	view := s.aggregate(time.Now())
	if view.Model != "unknown" {
		t.Errorf("model = %q, want unknown", view.Model)
	}
	if view.Cron == nil || len(view.Cron) != 0 {
		t.Errorf("cron = %v, want empty map", view.Cron)
	}
	if view.Channels == nil || len(view.Channels) != 0 {
		t.Errorf("channels = %v, want empty slice", view.Channels)
	}
	if view.UptimeSeconds < 0 {
		t.Errorf("uptime_seconds = %d, want >= 0", view.UptimeSeconds)
	}
}

type staticModel string

func (m staticModel) Model() string { return string(m) }

type staticCron map[string]any

func (c staticCron) Status() map[string]any { return c }

func TestAggregateReadsCollaborators(t *testing.T) {
	s := NewServer(Options{
		Agent:    staticModel("anthropic/claude-sonnet-4-5"),
		Cron:     staticCron{"jobs": 2, "running": true},
		Channels: []string{"slack", "scheduler"},
	})

	view := s.aggregate(time.Now())
	if view.Model != "anthropic/claude-sonnet-4-5" {
		t.Errorf("model = %q", view.Model)
	}
	if view.Cron["jobs"] != 2 {
		t.Errorf("cron jobs = %v, want 2", view.Cron["jobs"])
	}
	if len(view.Channels) != 2 || view.Channels[0] != "slack" {
		t.Errorf("channels = %v", view.Channels)
	}
}
