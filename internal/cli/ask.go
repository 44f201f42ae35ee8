package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aayud22/ayushi.dev/internal/client"
)

var askServerURL string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the portfolio assistant a single question",
	Long: `Ask the portfolio assistant a single question against a running server
and stream the answer to stdout.

Ctrl+C stops the stream; any partial answer already printed is kept.

Example:
  portfolio ask "What projects have you built?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askServerURL, "server", "s", "http://localhost:8080", "server base URL")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Updates carry the whole answer so far; print only the unseen tail.
	var shown string
	_, err := client.New(askServerURL).Stream(ctx, args[0], func(content string, done bool) {
		if strings.HasPrefix(content, shown) {
			fmt.Print(content[len(shown):])
		} else {
			// Terminal update replaced the answer (stop or error text).
			fmt.Printf("\n%s", content)
		}
		shown = content
		if done {
			fmt.Println()
		}
	})
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}
	return nil
}
