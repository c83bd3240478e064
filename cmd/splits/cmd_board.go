package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/blaine-t/splits/internal/split"
)

var showSlowest bool

// boardCmd renders the leaderboards in the terminal
var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the world records board",
	Long: `Fetches the per-category records from the splits server and renders
them as a table. --slowest flips the board to the hall of shame.`,
	RunE: runBoard,
}

func init() {
	boardCmd.Flags().BoolVar(&showSlowest, "slowest", false, "Show the slowest times instead of the records")
}

func runBoard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The client endpoint points at .../split/new; the boards live next to it.
	base := strings.TrimSuffix(cfg.Client.Endpoint, "/new")
	path, title := "/records", "World Records"
	if showSlowest {
		path, title = "/slowest", "Slowest Times"
	}

	entries, err := fetchBoard(base + path)
	if err != nil {
		return err
	}

	out, err := renderBoard(title, entries)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func fetchBoard(url string) ([]split.BoardEntry, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, body)
	}

	var entries []split.BoardEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode board: %w", err)
	}
	return entries, nil
}

// renderBoard formats the entries as a markdown table and runs it through
// glamour for terminal styling.
func renderBoard(title string, entries []split.BoardEntry) (string, error) {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", title)
	if len(entries) == 0 {
		md.WriteString("No splits recorded yet.\n")
	} else {
		md.WriteString("| Category | Holder | Time | When |\n")
		md.WriteString("|----------|--------|------|------|\n")
		for _, e := range entries {
			fmt.Fprintf(&md, "| %s | %s | %s | %s |\n",
				e.Category, e.Split.User, split.FormatDuration(e.Split.DurationMs), e.Split.Timestamp)
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md.String())
}
