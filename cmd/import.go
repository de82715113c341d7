package cmd

import (
	"fmt"
	"os"

	"github.com/glossa-app/glossa/internal/exercise"
	"github.com/glossa-app/glossa/internal/progress"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <exercise-id>",
	Short: "Read progress for an exercise from stdin and save it",
	Long:  "Reads a progress JSON document from stdin, validates it against the exercise's question bank, and saves it as the current progress.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		lib := resolveLibrary(cmd)
		_, bank, err := lib.Load(id)
		if err != nil {
			return fmt.Errorf("load exercise %q: %w", id, err)
		}

		state, err := progress.Import(os.Stdin)
		if err != nil {
			return fmt.Errorf("parse progress: %w", err)
		}
		if err := exercise.Validate(state, bank); err != nil {
			return fmt.Errorf("progress does not match exercise %q: %w", id, err)
		}

		gateway, err := resolveGateway(cmd)
		if err != nil {
			return fmt.Errorf("open progress directory: %w", err)
		}
		if err := gateway.Save(id, state); err != nil {
			return fmt.Errorf("save progress: %w", err)
		}

		fmt.Printf("Imported progress for %s\n", id)
		return nil
	},
}
