package admin

import (
	"fmt"
	"strings"
	"time"
)

// StatusView is the /api/status response.
type StatusView struct {
	Model         string         `json:"model"`
	UptimeSeconds int            `json:"uptime_seconds"`
	UptimeHuman   string         `json:"uptime_human"`
	Channels      []string       `json:"channels"`
	Cron          map[string]any `json:"cron"`
}

// aggregate composes the status view. Missing collaborators degrade to
// defaults; this never fails.
func (s *Server) aggregate(now time.Time) StatusView {
	model := "unknown"
	if s.opts.Agent != nil {
		if m := s.opts.Agent.Model(); m != "" {
			model = m
		}
	}

	cron := map[string]any{}
	if s.opts.Cron != nil {
		if status := s.opts.Cron.Status(); status != nil {
			cron = status
		}
	}

	channels := s.opts.Channels
	if channels == nil {
		channels = []string{}
	}

	uptime := elapsedSeconds(now, s.startedAt)
	return StatusView{
		Model:         model,
		UptimeSeconds: uptime,
		UptimeHuman:   formatUptime(uptime),
		Channels:      channels,
		Cron:          cron,
	}
}

// elapsedSeconds returns whole seconds between startedAt and now, clamped
// to zero for clock skew.
func elapsedSeconds(now, startedAt time.Time) int {
	secs := int(now.Sub(startedAt) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// formatUptime renders seconds as "1d 2h 3m 4s". Zero-valued units are
// dropped except seconds, so zero renders as "0s".
func formatUptime(seconds int) string {
	d := seconds / 86400
	rem := seconds % 86400
	h := rem / 3600
	rem %= 3600
	m := rem / 60
	sec := rem % 60

	var parts []string
	if d > 0 {
		parts = append(parts, fmt.Sprintf("%dd", d))
	}
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	parts = append(parts, fmt.Sprintf("%ds", sec))
	return strings.Join(parts, " ")
}
