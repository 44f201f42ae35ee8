package cli

import (
	"github.com/spf13/cobra"

	"github.com/aayud22/ayushi.dev/internal/client"
	"github.com/aayud22/ayushi.dev/internal/tui"
)

var chatServerURL string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat interactively with the portfolio assistant",
	Long: `Open an interactive terminal chat against a running server.

Answers stream into the transcript as they are generated. Press Esc to
stop an in-flight answer, Ctrl+C to quit.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatServerURL, "server", "s", "http://localhost:8080", "server base URL")
}

func runChat(cmd *cobra.Command, args []string) error {
	return tui.Run(client.New(chatServerURL))
}
