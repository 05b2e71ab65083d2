package session

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/m4xw311/nexus/errors"
	"github.com/m4xw311/nexus/store"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// timestampLayout matches JavaScript's Date.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

var now = time.Now

// Message is one entry of the chat history. Formatted marks bot responses
// that are rendered through the formatter rather than shown as plain text.
type Message struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	Sender    Sender `json:"sender"`
	Timestamp string `json:"timestamp"`
	Formatted bool   `json:"formatted"`
}

// Time parses the message timestamp. The zero time is returned for
// malformed values.
func (m Message) Time() time.Time {
	t, err := time.Parse(time.RFC3339Nano, m.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

type Session struct {
	Name     string
	Messages []Message
	kv       store.KV
}

// Key returns the store key holding the history of the named session. The
// unnamed session uses the bare "chatHistory" key.
func Key(name string) string {
	if name == "" {
		return store.KeyChatHistory
	}
	return store.KeyChatHistory + ":" + name
}

// New creates an empty session backed by kv.
func New(kv store.KV, name string) *Session {
	return &Session{
		Name:     name,
		Messages: []Message{},
		kv:       kv,
	}
}

// Load reads a session's history. A missing history yields an empty session.
// Unparseable history returns the empty session together with the error so
// the caller can warn and start fresh.
func Load(kv store.KV, name string) (*Session, error) {
	s := New(kv, name)
	data, ok, err := kv.Get(Key(name))
	if err != nil {
		return s, errors.Wrapf(err, "could not read chat history '%s'", name)
	}
	if !ok {
		return s, nil
	}
	var msgs []Message
	if err := json.Unmarshal([]byte(data), &msgs); err != nil {
		return s, errors.Wrapf(err, "could not parse chat history '%s'", name)
	}
	if msgs != nil {
		s.Messages = msgs
	}
	return s, nil
}

// Save writes the current history to the store.
func (s *Session) Save() error {
	data, err := json.Marshal(s.Messages)
	if err != nil {
		return errors.Wrapf(err, "failed to serialize chat history")
	}
	return s.kv.Set(Key(s.Name), string(data))
}

func (s *Session) add(text string, sender Sender, formatted bool) Message {
	msg := Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Timestamp: now().UTC().Format(timestampLayout),
		Formatted: formatted,
	}
	s.Messages = append(s.Messages, msg)
	return msg
}

// AddMessage appends a plain message, shown as escaped text.
func (s *Session) AddMessage(text string, sender Sender) Message {
	return s.add(text, sender, false)
}

// AddFormattedMessage appends a message whose text is rendered through the
// formatter when displayed.
func (s *Session) AddFormattedMessage(text string, sender Sender) Message {
	return s.add(text, sender, true)
}

// Clear starts a new chat: the in-memory history is emptied and the stored
// one removed.
func (s *Session) Clear() error {
	s.Messages = []Message{}
	return s.kv.Delete(Key(s.Name))
}

// List returns the names of stored sessions matching a doublestar pattern
// ("" matches everything). The unnamed session is listed as "".
func List(kv store.KV, pattern string) ([]string, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, errors.New("invalid session pattern '%s'", pattern)
	}
	keys, err := kv.Keys()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, k := range keys {
		var name string
		switch {
		case k == store.KeyChatHistory:
			name = ""
		case strings.HasPrefix(k, store.KeyChatHistory+":"):
			name = strings.TrimPrefix(k, store.KeyChatHistory+":")
		default:
			continue
		}
		if pattern != "" {
			ok, err := doublestar.Match(pattern, name)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid session pattern '%s'", pattern)
			}
			if !ok {
				continue
			}
		}
		names = append(names, name)
	}
	return names, nil
}
