// Package agent implements the core agent loop.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/clawmon/clawmon/internal/bus"
	"github.com/clawmon/clawmon/internal/session"
)

// Responder produces an assistant reply for an inbound message given the
// session history. Implementations wrap an LLM provider; tests use stubs.
type Responder interface {
	Respond(ctx context.Context, history []session.Message, content string) (reply string, toolsUsed []string, err error)
}

// LoopOptions contains configuration for the agent loop.
type LoopOptions struct {
	Bus        *bus.MessageBus
	Sessions   *session.Manager
	Responder  Responder
	Model      string
	MaxHistory int
}

// Loop consumes inbound messages, maintains session history, and publishes
// replies back onto the bus.
type Loop struct {
	bus        *bus.MessageBus
	sessions   *session.Manager
	responder  Responder
	model      string
	maxHistory int
	running    atomic.Bool
}

// NewLoop creates an agent loop.
func NewLoop(opts LoopOptions) *Loop {
	if opts.MaxHistory <= 0 {
		opts.MaxHistory = 50
	}
	return &Loop{
		bus:        opts.Bus,
		sessions:   opts.Sessions,
		responder:  opts.Responder,
		model:      opts.Model,
		maxHistory: opts.MaxHistory,
	}
}

// Model returns the configured model identifier.
func (l *Loop) Model() string {
	return l.model
}

// Run consumes inbound messages until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	l.running.Store(true)
	slog.Info("Agent loop started", "model", l.model)

	for l.running.Load() {
		msg, err := l.bus.ConsumeInbound(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil // Context cancelled, normal shutdown
			}
			slog.Error("Failed to consume message", "error", err)
			continue
		}

		response, err := l.processMessage(ctx, msg)
		if err != nil {
			slog.Error("Failed to process message", "trace_id", msg.TraceID, "error", err)
			response = fmt.Sprintf("Error: %v", err)
		}

		l.bus.PublishOutbound(&bus.OutboundMessage{
			Channel: msg.Channel,
			ChatID:  msg.ChatID,
			TraceID: msg.TraceID,
			Content: response,
		})
	}
	return nil
}

// Stop signals the loop to exit after the current message.
func (l *Loop) Stop() {
	l.running.Store(false)
}

func (l *Loop) processMessage(ctx context.Context, msg *bus.InboundMessage) (string, error) {
	key := fmt.Sprintf("%s:%s", msg.Channel, msg.ChatID)
	sess := l.sessions.GetOrCreate(key)

	history := sess.History(l.maxHistory)
	sess.AddMessage("user", msg.Content)

	reply, toolsUsed, err := l.responder.Respond(ctx, history, msg.Content)
	if err != nil {
		return "", fmt.Errorf("respond: %w", err)
	}

	sess.AddMessage("assistant", reply, toolsUsed...)
	if err := l.sessions.Save(sess); err != nil {
		slog.Warn("Failed to persist session", "key", key, "error", err)
	}
	return reply, nil
}
