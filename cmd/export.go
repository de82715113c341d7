package cmd

import (
	"fmt"
	"os"

	"github.com/glossa-app/glossa/internal/progress"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <exercise-id>",
	Short: "Write saved progress for an exercise to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gateway, err := resolveGateway(cmd)
		if err != nil {
			return fmt.Errorf("open progress directory: %w", err)
		}

		state, err := gateway.Load(args[0])
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		if state == nil {
			return fmt.Errorf("no saved progress for %q", args[0])
		}

		return progress.Export(os.Stdout, state)
	},
}
