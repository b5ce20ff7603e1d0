package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vcaparica/gridforge/internal/storage"
)

var (
	flagSessionsLayout string
	flagSessionsLimit  int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Show recorded session history",
	Long: `Display recently recorded sessions, most recent first.

With --layout, only that layout's sessions are shown, together with its
aggregate statistics.

Examples:
  gridforge sessions
  gridforge sessions --limit 25
  gridforge sessions --layout cardtable`,
	Run: runSessions,
}

func init() {
	sessionsCmd.Flags().StringVar(&flagSessionsLayout, "layout", "", "Only show sessions of this layout")
	sessionsCmd.Flags().IntVar(&flagSessionsLimit, "limit", 10, "Maximum number of sessions to show")
}

func runSessions(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var records []storage.SessionRecord
	if flagSessionsLayout != "" {
		records, err = store.LayoutSessions(flagSessionsLayout, flagSessionsLimit)
	} else {
		records, err = store.RecentSessions(flagSessionsLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		os.Exit(1)
	}

	if len(records) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Play 'gridforge play' to record the first one.")
		return
	}

	fmt.Println("Recent sessions:")
	fmt.Println()

	// Print header
	fmt.Printf("  %-19s  %-12s  %-8s  %5s  %7s  %s\n", "Date", "Layout", "Strategy", "Moves", "Blocked", "Duration")
	fmt.Printf("  %-19s  %-12s  %-8s  %5s  %7s  %s\n", "----", "------", "--------", "-----", "-------", "--------")

	// Print sessions
	for _, rec := range records {
		dateStr := rec.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-19s  %-12s  %-8s  %5d  %7d  %ds\n",
			dateStr, rec.Layout, rec.Strategy, rec.Moves, rec.Blocked, rec.DurationSecs)
	}

	if flagSessionsLayout != "" {
		stats, err := store.GetLayoutStats(flagSessionsLayout)
		if err == nil && stats != nil && stats.SessionsCount > 0 {
			fmt.Println()
			fmt.Printf("Layout %q: %d sessions, %d moves total, %.0fs average duration\n",
				stats.Layout, stats.SessionsCount, stats.TotalMoves, stats.AvgDuration)
		}
	}
}
