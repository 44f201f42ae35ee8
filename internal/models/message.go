// Package models defines the core data types for the portfolio assistant.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry in a chat transcript. Content is mutable: an
// in-flight assistant message starts empty and is appended to as stream
// chunks arrive. ID and Timestamp are set once at creation.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUserMessage creates a user message with the given content.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{
		ID:        uuid.New().String(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewPendingAssistantMessage creates an empty assistant message. It is
// appended to the transcript before any network I/O so the UI can show a
// pending state immediately.
func NewPendingAssistantMessage() ChatMessage {
	return ChatMessage{
		ID:        uuid.New().String(),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
	}
}

// Transcript is the in-memory, insertion-ordered message list for one chat
// session. It is owned by the UI layer; only one turn streams at a time, so
// a single goroutine mutates the in-flight message.
type Transcript struct {
	messages []ChatMessage
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(msg ChatMessage) {
	t.messages = append(t.messages, msg)
}

// SetContent replaces the content of the message with the given ID.
// Unknown IDs are ignored.
func (t *Transcript) SetContent(id, content string) {
	for i := range t.messages {
		if t.messages[i].ID == id {
			t.messages[i].Content = content
			return
		}
	}
}

// Get returns the message with the given ID, or false if absent.
func (t *Transcript) Get(id string) (ChatMessage, bool) {
	for _, msg := range t.messages {
		if msg.ID == id {
			return msg, true
		}
	}
	return ChatMessage{}, false
}

// Messages returns the transcript in insertion order.
func (t *Transcript) Messages() []ChatMessage {
	return t.messages
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}
