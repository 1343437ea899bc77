package assistant

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies who produced a conversation message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is a single conversation turn.
type Message struct {
	ID   string    `json:"id"`
	From Role      `json:"from"`
	Text string    `json:"text"`
	Time time.Time `json:"time"`
	// Placeholder marks the transient "contacting server" bot turn that is
	// appended immediately on submit.
	Placeholder bool `json:"placeholder,omitempty"`
	// Superseded is set once the real reply arrives. The placeholder stays
	// in the log as visible history; it is never removed.
	Superseded bool `json:"superseded,omitempty"`
}

// ConversationLog is the append-only chat history. Each submission appends
// exactly one user turn and eventually exactly one bot turn, in arrival
// order.
type ConversationLog struct {
	mu       sync.Mutex
	messages []Message
}

// NewConversationLog seeds the log with the greeting bot message shown
// before any interaction. An empty greeting starts the log empty.
func NewConversationLog(greeting string) *ConversationLog {
	l := &ConversationLog{}
	if greeting != "" {
		l.append(RoleBot, greeting, false)
	}
	return l
}

// AppendUser adds a user turn.
func (l *ConversationLog) AppendUser(text string) Message {
	return l.append(RoleUser, text, false)
}

// AppendPlaceholder adds the transient bot turn shown while a reply is
// pending.
func (l *ConversationLog) AppendPlaceholder(text string) Message {
	return l.append(RoleBot, text, true)
}

// AppendBot adds the real bot reply and marks the most recent pending
// placeholder as superseded.
func (l *ConversationLog) AppendBot(text string) Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := len(l.messages) - 1; i >= 0; i-- {
		if l.messages[i].Placeholder && !l.messages[i].Superseded {
			l.messages[i].Superseded = true
			break
		}
	}
	return l.appendLocked(RoleBot, text, false)
}

// Messages returns a copy of the conversation history in arrival order.
func (l *ConversationLog) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.messages)
}

// Len returns the number of messages in the log.
func (l *ConversationLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}

func (l *ConversationLog) append(from Role, text string, placeholder bool) Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendLocked(from, text, placeholder)
}

func (l *ConversationLog) appendLocked(from Role, text string, placeholder bool) Message {
	msg := Message{
		ID:          uuid.NewString(),
		From:        from,
		Text:        text,
		Time:        time.Now(),
		Placeholder: placeholder,
	}
	l.messages = append(l.messages, msg)
	return msg
}
