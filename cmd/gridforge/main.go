// gridforge is an accessible spatial-grid toolkit for the terminal.
//
// Usage:
//
//	gridforge layouts            - List available layouts
//	gridforge play <layout>      - Open a layout interactively
//	gridforge serve              - Start SSH server for remote sessions
//	gridforge sessions           - Show recorded session history
//
// Global flags:
//
//	--db <path>        - Session database path (default: ~/.gridforge/sessions.db)
//	--messages <path>  - Custom announcement messages YAML
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagDBPath   string
	flagMessages string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gridforge",
	Short: "Gridforge - keyboard-first spatial grids in your terminal",
	Long: `Gridforge runs fully keyboard-operable spatial grids: card tables,
inventories, and anything else laid out as cells holding movable items.
Every action is announced in plain language, so sessions work with a
screen reader as well as on screen.

Available commands:
  layouts  - Show all available layouts
  play     - Open a layout interactively
  serve    - Start SSH server for remote sessions
  sessions - View recorded session history

Examples:
  gridforge layouts
  gridforge play cardtable
  gridforge play inventory --strategy push
  gridforge serve --ssh :2222
  gridforge sessions --layout cardtable`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.gridforge/sessions.db", "Path to session database")
	rootCmd.PersistentFlags().StringVar(&flagMessages, "messages", "", "Path to custom announcement messages YAML")

	// Add subcommands
	rootCmd.AddCommand(layoutsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sessionsCmd)
}
