package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		lib := resolveLibrary(cmd)
		gateway, err := resolveGateway(cmd)
		if err != nil {
			return fmt.Errorf("open progress directory: %w", err)
		}

		infos, listErr := lib.List()
		if len(infos) == 0 {
			if listErr != nil {
				return fmt.Errorf("scan content: %w", listErr)
			}
			fmt.Println("No exercises found.")
			return nil
		}

		fmt.Printf("%-24s  %-32s  %-10s  %6s  %9s  %s\n",
			"ID", "Title", "Kind", "Blocks", "Questions", "Progress")
		fmt.Println(strings.Repeat("─", 100))

		for _, info := range infos {
			prog := "-"
			if gateway.Exists(info.ID) {
				prog = "saved"
			}
			src := ""
			if !info.BuiltIn {
				src = " *"
			}
			fmt.Printf("%-24s  %-32s  %-10s  %6d  %9d  %s%s\n",
				info.ID, truncate(info.Title, 32), info.Kind, info.Blocks, info.Questions, prog, src)
		}

		if listErr != nil {
			fmt.Printf("\nSome content files were skipped: %v\n", listErr)
		}
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
