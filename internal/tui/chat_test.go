package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aayud22/ayushi.dev/internal/client"
	"github.com/aayud22/ayushi.dev/internal/models"
)

func TestStartTurnAppendsPendingMessage(t *testing.T) {
	m := New(client.New("http://localhost:0"))

	updated, cmd := m.startTurn("What projects have you built?")
	model := updated.(Model)

	require.NotNil(t, cmd)
	assert.True(t, model.streaming)

	msgs := model.transcript.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, "What projects have you built?", msgs[0].Content)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
	assert.Empty(t, msgs[1].Content)
	assert.Equal(t, msgs[1].ID, model.pendingID)
}

func TestStreamUpdatesFillPendingMessage(t *testing.T) {
	m := New(client.New("http://localhost:0"))
	updated, _ := m.startTurn("hello")
	model := updated.(Model)
	if model.cancel != nil {
		model.cancel()
	}

	next, cmd := model.Update(streamMsg{content: "partial", done: false})
	model = next.(Model)
	require.NotNil(t, cmd, "should keep waiting for updates")
	assert.True(t, model.streaming)

	next, _ = model.Update(streamMsg{content: "full answer", done: true})
	model = next.(Model)
	assert.False(t, model.streaming)

	msg, ok := model.transcript.Get(model.pendingID)
	require.True(t, ok)
	assert.Equal(t, "full answer", msg.Content)
}

func TestTerminalUpdateReleasesTurnContext(t *testing.T) {
	m := New(client.New("http://localhost:0"))
	updated, _ := m.startTurn("hello")
	model := updated.(Model)

	released := false
	prev := model.cancel
	model.cancel = func() {
		released = true
		prev()
	}

	next, _ := model.Update(streamMsg{content: "answer", done: true})
	model = next.(Model)

	assert.True(t, released, "finished turn must cancel its context")
	assert.Nil(t, model.cancel)
	assert.False(t, model.streaming)
}

func TestTerminalUpdateArrivesOnAbort(t *testing.T) {
	m := New(client.New("http://localhost:0"))
	updated, cmd := m.startTurn("hello")
	model := updated.(Model)

	// The unreachable server fails the stream; the reader still delivers
	// exactly one terminal update.
	var got streamMsg
	done := make(chan struct{})
	go func() {
		got = cmd().(streamMsg)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("no terminal update delivered")
	}

	assert.True(t, got.done)
	assert.Equal(t, client.ErrorMessage, got.content)
	_ = model
}
