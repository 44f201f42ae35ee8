// Package prompt assembles the system prompt for the portfolio assistant.
// Everything here is pure: no I/O, no clock, no randomness.
package prompt

import (
	"fmt"
	"strings"

	"github.com/aayud22/ayushi.dev/internal/models"
)

// systemTemplate instructs the model to answer only from the supplied
// context and to decline when the answer is not contained in it.
const systemTemplate = `You are a helpful AI assistant for a portfolio website.
Use the following context to answer the user's question. If you don't know the answer, say that you don't know, don't try to make up an answer.

Context: %s`

// BuildContext joins retrieved document contents with a blank line.
// Zero documents yield the empty string; that is not an error.
func BuildContext(docs []models.RetrievedDocument) string {
	if len(docs) == 0 {
		return ""
	}
	parts := make([]string, len(docs))
	for i, doc := range docs {
		parts[i] = doc.Content
	}
	return strings.Join(parts, "\n\n")
}

// Render substitutes the context block into the system prompt template.
func Render(contextBlock string) string {
	return fmt.Sprintf(systemTemplate, contextBlock)
}

// ForDocuments is the full assembler: context built from docs, rendered
// into the template.
func ForDocuments(docs []models.RetrievedDocument) string {
	return Render(BuildContext(docs))
}
