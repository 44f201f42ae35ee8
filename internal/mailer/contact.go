// Package mailer relays validated contact-form submissions via the Resend
// API.
package mailer

import (
	"fmt"
	"html"
	"net/mail"
	"strings"
)

// ContactRequest is a contact-form submission.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// sanitize trims and HTML-escapes a field so submissions cannot inject
// markup into the notification mail.
func sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// Validate checks required fields and e-mail format, returning per-field
// messages for the client.
func (r *ContactRequest) Validate() map[string]string {
	missing := map[string]string{}
	for field, value := range map[string]string{
		"name":    r.Name,
		"email":   r.Email,
		"subject": r.Subject,
		"message": r.Message,
	} {
		if strings.TrimSpace(value) == "" {
			missing[field] = fmt.Sprintf("%s%s is required", strings.ToUpper(field[:1]), field[1:])
		}
	}
	if len(missing) > 0 {
		return missing
	}

	if _, err := mail.ParseAddress(strings.TrimSpace(r.Email)); err != nil {
		return map[string]string{"email": "Please enter a valid email address"}
	}
	return nil
}

// Sanitized returns a copy safe for templating, with the e-mail lowercased.
func (r *ContactRequest) Sanitized() ContactRequest {
	return ContactRequest{
		Name:    sanitize(r.Name),
		Email:   strings.ToLower(sanitize(r.Email)),
		Subject: sanitize(r.Subject),
		Message: sanitize(r.Message),
	}
}
