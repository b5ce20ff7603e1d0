package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vcaparica/gridforge/internal/announce"
	"github.com/vcaparica/gridforge/internal/config"
	"github.com/vcaparica/gridforge/internal/grid"
	"github.com/vcaparica/gridforge/internal/layouts"
	"github.com/vcaparica/gridforge/internal/platform/tui"
	"github.com/vcaparica/gridforge/internal/storage"
)

var (
	flagStrategy   string
	flagLayoutFile string
)

var playCmd = &cobra.Command{
	Use:   "play [layout]",
	Short: "Open a layout interactively",
	Long: `Open the named layout and operate it with the keyboard.

Controls:
  Arrows/hjkl    - Move focus (or the grabbed item)
  Enter/Space    - Grab or drop the focused item
  Esc            - Cancel a grab
  t / T          - Tap the focused item clockwise / counterclockwise
  f              - Flip the focused item face up or down
  Tab            - Switch to the next grid
  [ / ]          - Cycle through a stack under the cursor
  ?              - Toggle help
  Q/Ctrl+C       - Quit

Conflict strategies:
  block   - Refuse moves onto occupied cells
  swap    - Exchange places with the occupant
  push    - Shove the occupant one cell onward
  stack   - Pile items on the same cell
  replace - Remove the occupants and take the cell

Examples:
  gridforge play cardtable
  gridforge play inventory --strategy push
  gridforge play --layout-file ./my-table.yaml
  gridforge play cardtable --messages ./my-messages.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagStrategy, "strategy", "", "Override the layout's conflict strategy: block, swap, push, stack, replace")
	playCmd.Flags().StringVar(&flagLayoutFile, "layout-file", "", "Path to a custom layout YAML")
}

func runPlay(cmd *cobra.Command, args []string) {
	layoutName := "cardtable"
	if len(args) > 0 {
		layoutName = args[0]
	}

	if flagLayoutFile == "" && !layouts.Exists(layoutName) {
		fmt.Fprintf(os.Stderr, "Error: unknown layout %q\n", layoutName)
		fmt.Fprintln(os.Stderr, "Run 'gridforge layouts' to see available layouts.")
		os.Exit(1)
	}

	// Refuse terminals too small to draw even one grid.
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		if w < 40 || h < 12 {
			fmt.Fprintf(os.Stderr, "Error: terminal %dx%d is too small (need at least 40x12)\n", w, h)
			os.Exit(1)
		}
	}

	var strategy grid.ConflictStrategy
	if flagStrategy != "" {
		strategy = grid.StrategyByName(flagStrategy)
		if strategy == nil {
			fmt.Fprintf(os.Stderr, "Error: unknown strategy %q\n", flagStrategy)
			fmt.Fprintln(os.Stderr, "Valid strategies: block, swap, push, stack, replace")
			os.Exit(1)
		}
	}

	var (
		session *layouts.Session
		err     error
	)
	if flagLayoutFile != "" {
		var l config.Layout
		l, err = config.LoadLayout("", flagLayoutFile)
		if err == nil {
			session, err = layouts.BuildFrom(l, layouts.BuildOptions{Strategy: strategy})
		}
	} else {
		session, err = layouts.Build(layoutName, layouts.BuildOptions{Strategy: strategy})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building layout: %v\n", err)
		os.Exit(1)
	}

	catalog, err := announce.Load(flagMessages)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load messages: %v\n", err)
		catalog = announce.DefaultCatalog()
	}

	// Open session storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open session database: %v\n", err)
		// Continue without storage - the session still works
		store = nil
	}

	runErr := tui.Run(session, catalog, store)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running session: %v\n", runErr)
		os.Exit(1)
	}
}
