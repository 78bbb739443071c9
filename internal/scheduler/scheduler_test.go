package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clawmon/clawmon/internal/bus"
)

func TestSchedulerDispatch(t *testing.T) {
	b := bus.NewMessageBus()
	s := New(Config{Enabled: true, TickInterval: 50 * time.Millisecond}, b, nil)

	cron, _ := ParseCron("* * * * *")
	s.Register(&Job{Name: "test-job", Cron: cron, Content: "scheduled test message"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var received atomic.Int32
	go func() {
		for {
			msg, err := b.ConsumeInbound(ctx)
			if err != nil {
				return
			}
			if msg.Channel == "scheduler" {
				received.Add(1)
			}
		}
	}()

	// Manually tick to trigger dispatch.
	s.tick(ctx, time.Now())

	// Wait for the async dispatch.
	time.Sleep(100 * time.Millisecond)

	if received.Load() != 1 {
		t.Errorf("expected 1 dispatched message, got %d", received.Load())
	}
}

func TestSchedulerTickSkipsNonMatchingJobs(t *testing.T) {
	b := bus.NewMessageBus()
	s := New(Config{Enabled: true, TickInterval: 50 * time.Millisecond}, b, nil)

	cron, _ := ParseCron("30 4 * * *")
	s.Register(&Job{Name: "dawn-job", Cron: cron, Content: "msg"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	noMatch := time.Date(2026, 2, 15, 10, 13, 0, 0, time.UTC)
	s.tick(ctx, noMatch)
	time.Sleep(50 * time.Millisecond)

	if b.InboundSize() != 0 {
		t.Errorf("expected no dispatched messages, got %d", b.InboundSize())
	}
}

func TestSchedulerStatus(t *testing.T) {
	b := bus.NewMessageBus()
	s := New(Config{Enabled: true, TickInterval: 50 * time.Millisecond}, b, nil)

	status := s.Status()
	if status["jobs"] != 0 {
		t.Errorf("expected 0 jobs, got %v", status["jobs"])
	}
	if status["running"] != false {
		t.Errorf("expected running=false, got %v", status["running"])
	}
	if _, ok := status["last_tick"]; ok {
		t.Error("expected no last_tick before first tick")
	}

	cron, _ := ParseCron("* * * * *")
	s.Register(&Job{Name: "job-a", Cron: cron, Content: "a"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		for {
			if _, err := b.ConsumeInbound(ctx); err != nil {
				return
			}
		}
	}()

	s.tick(ctx, time.Now())
	time.Sleep(50 * time.Millisecond)

	status = s.Status()
	if status["jobs"] != 1 {
		t.Errorf("expected 1 job, got %v", status["jobs"])
	}
	if _, ok := status["last_tick"]; !ok {
		t.Error("expected last_tick after a tick")
	}
	if _, ok := status["next_run"]; !ok {
		t.Error("expected next_run with a registered job")
	}
}

func TestSchedulerUnregister(t *testing.T) {
	b := bus.NewMessageBus()
	s := New(Config{TickInterval: time.Second}, b, nil)

	cron, _ := ParseCron("* * * * *")
	s.Register(&Job{Name: "gone", Cron: cron, Content: "x"})
	s.Unregister("gone")

	if len(s.Jobs()) != 0 {
		t.Errorf("expected no jobs after unregister, got %d", len(s.Jobs()))
	}
}
