package agent

import (
	"context"

	"github.com/clawmon/clawmon/internal/session"
)

// EchoResponder is the fallback Responder used when no LLM provider is
// configured. It echoes the inbound content so the rest of the pipeline
// (sessions, channels, console) stays exercisable.
type EchoResponder struct{}

// Respond implements Responder.
func (EchoResponder) Respond(ctx context.Context, history []session.Message, content string) (string, []string, error) {
	return content, nil, nil
}
