package cmd

import (
	"context"
	"fmt"

	"github.com/glossa-app/glossa/internal/store"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset <exercise-id>",
	Short: "Discard saved progress for an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		gateway, err := resolveGateway(cmd)
		if err != nil {
			return fmt.Errorf("open progress directory: %w", err)
		}

		if !gateway.Exists(id) {
			fmt.Printf("No saved progress for %s\n", id)
			return nil
		}
		if err := gateway.Delete(id); err != nil {
			return fmt.Errorf("delete progress: %w", err)
		}

		// Record the reset in history; failures here are not fatal.
		if dbPath, err := resolveDBPath(cmd); err == nil {
			if st, err := store.Open(dbPath); err == nil {
				defer st.Close()
				_ = st.Events().Append(context.Background(), store.Event{
					Kind:       store.KindReset,
					ExerciseID: id,
				})
			}
		}

		fmt.Printf("Progress for %s discarded\n", id)
		return nil
	},
}
