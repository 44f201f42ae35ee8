package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

var statsServerURL string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show operation timings from a running server",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVarP(&statsServerURL, "server", "s", "http://localhost:8080", "server base URL")
}

func runStats(cmd *cobra.Command, args []string) error {
	url := strings.TrimRight(statsServerURL, "/") + "/api/stats"
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("fetch stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch stats: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read stats: %w", err)
	}

	var pretty map[string]any
	if err := json.Unmarshal(body, &pretty); err != nil {
		return fmt.Errorf("parse stats: %w", err)
	}

	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return fmt.Errorf("format stats: %w", err)
	}

	fmt.Println(string(out))
	return nil
}
