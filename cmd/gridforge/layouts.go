package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vcaparica/gridforge/internal/layouts"
)

var layoutsCmd = &cobra.Command{
	Use:   "layouts",
	Short: "List all available layouts",
	Long:  `Shows every layout that can be opened with 'gridforge play'.`,
	Run:   runLayouts,
}

func runLayouts(cmd *cobra.Command, args []string) {
	infos := layouts.List()

	if len(infos) == 0 {
		fmt.Println("No layouts available.")
		return
	}

	fmt.Println("Available layouts:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, info := range infos {
		if len(info.Name) > maxNameLen {
			maxNameLen = len(info.Name)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----------")

	// Print layouts
	for _, info := range infos {
		fmt.Printf("  %-*s  %s\n", maxNameLen, info.Name, info.Description)
	}

	fmt.Println()
	fmt.Println("Run 'gridforge play <name>' to open a layout.")
}
