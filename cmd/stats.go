package cmd

import (
	"context"
	"fmt"

	"github.com/glossa-app/glossa/internal/store"
	"github.com/spf13/cobra"
)

var statsRecentLimit int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show answer history and accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()

		ctx := context.Background()
		events := st.Events()

		byCategory, err := events.AccuracyByCategory(ctx)
		if err != nil {
			return err
		}
		byExercise, err := events.ActivityByExercise(ctx)
		if err != nil {
			return err
		}
		recent, err := events.Recent(ctx, statsRecentLimit)
		if err != nil {
			return err
		}

		if len(byExercise) == 0 {
			fmt.Println("No history yet. Submit a block to start tracking accuracy.")
			return nil
		}

		fmt.Println("Accuracy by category")
		fmt.Println("--------------------")
		fmt.Printf("%-24s %10s %10s %9s\n", "CATEGORY", "ANSWERED", "CORRECT", "ACCURACY")
		for _, ca := range byCategory {
			fmt.Printf("%-24s %10d %10d %8.0f%%\n",
				truncate(ca.Category, 24), ca.Answered, ca.Correct, percent(ca.Correct, ca.Answered))
		}

		fmt.Println()
		fmt.Println("Activity by exercise")
		fmt.Println("--------------------")
		fmt.Printf("%-24s %10s %10s %8s  %s\n", "EXERCISE", "ANSWERED", "CORRECT", "SUBMITS", "LAST SEEN")
		for _, ea := range byExercise {
			fmt.Printf("%-24s %10d %10d %8d  %s\n",
				truncate(ea.ExerciseID, 24), ea.Answered, ea.Correct, ea.Submits,
				ea.LastSeen.Local().Format("2006-01-02 15:04"))
		}

		if len(recent) > 0 {
			fmt.Println()
			fmt.Printf("Last %d events\n", len(recent))
			fmt.Println("--------------------")
			for _, e := range recent {
				fmt.Printf("%s  %-6s %-20s %s\n",
					e.Timestamp.Local().Format("2006-01-02 15:04"),
					e.Kind, truncate(e.ExerciseID, 20), describeEvent(e))
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsRecentLimit, "recent", 10, "number of recent events to list")
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func describeEvent(e store.Event) string {
	switch e.Kind {
	case store.KindAnswer:
		mark := "?"
		if e.Correct != nil {
			if *e.Correct {
				mark = "correct"
			} else {
				mark = "wrong"
			}
		}
		return fmt.Sprintf("block %d %s (%s)", e.Block, e.QuestionID, mark)
	case store.KindSubmit, store.KindReopen:
		return fmt.Sprintf("block %d", e.Block)
	default:
		return ""
	}
}
