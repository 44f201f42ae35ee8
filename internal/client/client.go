// Package client consumes the chat endpoint as a streaming reader,
// decoding the plain-text chunk stream into incremental UI updates.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// StoppedMessage is shown when the user aborts before any content arrived.
const StoppedMessage = "Response stopped."

// ErrorMessage is the only failure text shown to the user.
const ErrorMessage = "Sorry, there was an error processing your request. Please try again."

// flushInterval throttles intermediate UI updates. The final update is
// always delivered regardless of timing.
const flushInterval = 50 * time.Millisecond

// readBufferSize is the per-read buffer for the response body.
const readBufferSize = 512

// UpdateFunc receives the accumulated answer so far. It is called at most
// every flushInterval with done=false, and exactly once with done=true.
type UpdateFunc func(content string, done bool)

// Client streams answers from a running chat server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the server at baseURL (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Stream posts message to the chat endpoint and feeds the growing answer
// to onUpdate. Chunks are decoded as UTF-8 across chunk boundaries, so a
// rune split between two reads is never surfaced half-way.
//
// Cancelling ctx stops the stream: the partial answer is kept if any
// content arrived, otherwise the terminal update carries StoppedMessage.
// Any other failure replaces the answer with ErrorMessage. Every path
// delivers exactly one terminal update.
func (c *Client) Stream(ctx context.Context, message string, onUpdate UpdateFunc) (string, error) {
	payload, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		onUpdate(ErrorMessage, true)
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		onUpdate(ErrorMessage, true)
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if canceled(ctx, err) {
			onUpdate(StoppedMessage, true)
			return StoppedMessage, nil
		}
		onUpdate(ErrorMessage, true)
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		onUpdate(ErrorMessage, true)
		return "", fmt.Errorf("chat request: unexpected status %d", resp.StatusCode)
	}

	var content strings.Builder
	var held []byte
	buf := make([]byte, readBufferSize)
	lastFlush := time.Now()

	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			held = append(held, buf[:n]...)
			complete, rest := splitRuneBoundary(held)
			if len(complete) > 0 {
				content.Write(complete)
				// rest aliases the tail of held, so shift it down in place.
				copy(held, rest)
				held = held[:len(rest)]

				if time.Since(lastFlush) >= flushInterval {
					onUpdate(content.String(), false)
					lastFlush = time.Now()
				}
			}
		}
		if err == nil {
			continue
		}
		if err == io.EOF {
			break
		}
		if canceled(ctx, err) {
			if content.Len() == 0 {
				onUpdate(StoppedMessage, true)
				return StoppedMessage, nil
			}
			final := content.String()
			onUpdate(final, true)
			return final, nil
		}
		onUpdate(ErrorMessage, true)
		return "", fmt.Errorf("read stream: %w", err)
	}

	// A stream ending mid-rune is malformed input; surface the bytes
	// rather than dropping them silently.
	content.Write(held)

	final := content.String()
	onUpdate(final, true)
	return final, nil
}

// canceled reports whether err (or the request context) is a user abort.
func canceled(ctx context.Context, err error) bool {
	return errors.Is(err, context.Canceled) || ctx.Err() != nil
}

// splitRuneBoundary splits b into its longest prefix of complete UTF-8
// runes and a remainder holding the leading bytes of an unfinished rune.
func splitRuneBoundary(b []byte) (complete, rest []byte) {
	for i := len(b) - 1; i >= 0 && len(b)-i < utf8.UTFMax; i-- {
		c := b[i]
		if c < utf8.RuneSelf {
			// ASCII tail, nothing can be pending.
			return b, nil
		}
		if c&0xC0 == 0xC0 {
			// Start byte of a multi-byte rune.
			if utf8.FullRune(b[i:]) {
				return b, nil
			}
			return b[:i], b[i:]
		}
	}
	// No start byte within reach: either complete runes or garbage that
	// the decoder will render as replacement characters either way.
	return b, nil
}
