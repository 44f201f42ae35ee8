package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     ContactRequest
		wantKey string
	}{
		{"valid", ContactRequest{Name: "Jo", Email: "jo@example.com", Subject: "Hi", Message: "Hello"}, ""},
		{"missing name", ContactRequest{Email: "jo@example.com", Subject: "Hi", Message: "Hello"}, "name"},
		{"blank message", ContactRequest{Name: "Jo", Email: "jo@example.com", Subject: "Hi", Message: "   "}, "message"},
		{"bad email", ContactRequest{Name: "Jo", Email: "not-an-email", Subject: "Hi", Message: "Hello"}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := tt.req.Validate()
			if tt.wantKey == "" {
				assert.Nil(t, problems)
				return
			}
			assert.Contains(t, problems, tt.wantKey)
		})
	}
}

func TestSanitizedEscapesMarkup(t *testing.T) {
	req := ContactRequest{
		Name:    "  <script>alert(1)</script>  ",
		Email:   "JO@Example.COM",
		Subject: "Hi & bye",
		Message: "a < b",
	}
	clean := req.Sanitized()
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", clean.Name)
	assert.Equal(t, "jo@example.com", clean.Email)
	assert.Equal(t, "Hi &amp; bye", clean.Subject)
	assert.Equal(t, "a &lt; b", clean.Message)
}

func TestResendSend(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"email-1"}`))
	}))
	defer srv.Close()

	mailer, err := NewResend("re-key", "owner@example.com", nil)
	require.NoError(t, err)
	mailer = mailer.WithBaseURL(srv.URL)

	err = mailer.Send(context.Background(), ContactRequest{
		Name:    "Jo",
		Email:   "jo@example.com",
		Subject: "Project inquiry",
		Message: "Love the portfolio",
	})
	require.NoError(t, err)

	assert.Equal(t, "owner@example.com", got.To)
	assert.Equal(t, "New Contact: Project inquiry", got.Subject)
	assert.Equal(t, "jo@example.com", got.ReplyTo)
	assert.Contains(t, got.HTML, "Love the portfolio")
}

func TestResendSendUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	mailer, err := NewResend("bad-key", "owner@example.com", nil)
	require.NoError(t, err)
	mailer = mailer.WithBaseURL(srv.URL)

	err = mailer.Send(context.Background(), ContactRequest{
		Name: "Jo", Email: "jo@example.com", Subject: "Hi", Message: "Hello",
	})
	assert.Error(t, err)
}
