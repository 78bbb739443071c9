package admin

import (
	"errors"
	"time"
)

// maxDetailMessages bounds the transcript view to the most recent messages.
const maxDetailMessages = 100

// maxContentRunes caps projected message content.
const maxContentRunes = 500

// SessionSummary is one row of the /api/sessions response.
type SessionSummary struct {
	Key       string     `json:"key"`
	Messages  int        `json:"messages"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// SessionDetail is the /api/sessions/{key} response.
type SessionDetail struct {
	Key      string        `json:"key"`
	Messages []MessageView `json:"messages"`
}

// MessageView is a bounded projection of one stored message.
type MessageView struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp"`
	ToolsUsed []string   `json:"tools_used"`
}

var errNoSessionStore = errors.New("no session manager")

// listSummaries projects the session index. Each session is re-fetched
// through GetOrCreate so the message count reflects live state rather than
// the on-disk index. Without a store the list is empty, not an error.
func (s *Server) listSummaries() []SessionSummary {
	result := []SessionSummary{}
	if s.opts.Sessions == nil {
		return result
	}

	for _, info := range s.opts.Sessions.List() {
		sess := s.opts.Sessions.GetOrCreate(info.Key)
		result = append(result, SessionSummary{
			Key:       info.Key,
			Messages:  sess.Len(),
			CreatedAt: timePtr(info.CreatedAt),
			UpdatedAt: timePtr(info.UpdatedAt),
		})
	}
	return result
}

// detail projects one session transcript: the most recent messages in
// original order, content truncated. A missing store is an error here
// because the request targets a specific key.
func (s *Server) detail(key string) (SessionDetail, error) {
	if s.opts.Sessions == nil {
		return SessionDetail{}, errNoSessionStore
	}

	sess := s.opts.Sessions.GetOrCreate(key)
	messages := sess.History(maxDetailMessages)

	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, MessageView{
			Role:      m.Role,
			Content:   truncateRunes(m.Content, maxContentRunes),
			Timestamp: timePtr(m.Timestamp),
			ToolsUsed: m.ToolsUsed,
		})
	}
	return SessionDetail{Key: key, Messages: views}, nil
}

// truncateRunes caps s at max runes without erroring on any input.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
