package channels

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"

	"github.com/clawmon/clawmon/internal/bus"
	"github.com/clawmon/clawmon/internal/config"
)

// slackPoster is the subset of the Slack client used for outbound delivery.
type slackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackChannel delivers outbound messages to Slack via the Web API.
type SlackChannel struct {
	BaseChannel
	config config.SlackConfig
	client slackPoster
}

// NewSlackChannel creates a Slack channel from config.
func NewSlackChannel(cfg config.SlackConfig, messageBus *bus.MessageBus) *SlackChannel {
	var client slackPoster
	if cfg.BotToken != "" {
		client = slack.New(cfg.BotToken)
	}
	return &SlackChannel{
		BaseChannel: BaseChannel{Bus: messageBus},
		config:      cfg,
		client:      client,
	}
}

// Name returns the channel name.
func (c *SlackChannel) Name() string { return "slack" }

// Start subscribes to outbound messages addressed to this channel.
func (c *SlackChannel) Start(ctx context.Context) error {
	if !c.config.Enabled {
		return nil
	}
	c.Bus.Subscribe(c.Name(), func(msg *bus.OutboundMessage) {
		if err := c.Send(ctx, msg); err != nil {
			slog.Warn("Slack delivery failed", "chat_id", msg.ChatID, "trace_id", msg.TraceID, "error", err)
		}
	})
	return nil
}

// Stop stops the channel.
func (c *SlackChannel) Stop() error { return nil }

// Send posts a message to the Slack channel identified by msg.ChatID.
func (c *SlackChannel) Send(ctx context.Context, msg *bus.OutboundMessage) error {
	if c.client == nil {
		return fmt.Errorf("slack: no bot token configured")
	}
	_, _, err := c.client.PostMessageContext(ctx, msg.ChatID,
		slack.MsgOptionText(msg.Content, false))
	if err != nil {
		return fmt.Errorf("slack post: %w", err)
	}
	return nil
}
