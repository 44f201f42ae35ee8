package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aayud22/ayushi.dev/internal/chat"
	"github.com/aayud22/ayushi.dev/internal/mailer"
)

// genericErrorMessage is the only failure detail the chat endpoint leaks.
// Upstream error text stays in the server logs.
const genericErrorMessage = "An error occurred while processing your request"

// chatRequest is the /api/chat payload.
type chatRequest struct {
	Message string `json:"message"`
}

// handleChat runs the chat pipeline and streams the answer as plain text
// chunks, flushed as they arrive. Once the first chunk is written the
// status is committed, so a mid-stream failure truncates the body instead
// of changing the response code.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": chat.ErrEmptyMessage.Message})
		return
	}

	wroteAny := false
	flusher, _ := c.Writer.(http.Flusher)

	err := s.chat.Ask(c.Request.Context(), req.Message, func(chunk []byte) error {
		if !wroteAny {
			c.Header("Content-Type", "text/plain; charset=utf-8")
			c.Header("X-Accel-Buffering", "no")
			c.Status(http.StatusOK)
			wroteAny = true
		}
		if _, err := c.Writer.Write(chunk); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if err == nil {
		return
	}

	var ve *chat.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
		return
	}

	s.logger.Error("chat request failed", "error", err)
	if wroteAny {
		// Status already committed; the client sees a truncated stream.
		c.Error(err) //nolint:errcheck
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": genericErrorMessage})
}

// handleContact validates a contact-form submission and relays it via the
// mailer. Field problems come back as a 400 with per-field messages.
func (s *Server) handleContact(c *gin.Context) {
	if s.mailer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Contact form is not available"})
		return
	}

	var req mailer.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if problems := req.Validate(); problems != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": problems})
		return
	}

	if err := s.mailer.Send(c.Request.Context(), req); err != nil {
		s.logger.Error("contact mail failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message. Please try again later."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
