package cmd

import (
	"context"
	"fmt"

	"github.com/glossa-app/glossa/internal/grading"
	"github.com/glossa-app/glossa/internal/questionbank"
	"github.com/glossa-app/glossa/internal/store"
	"github.com/glossa-app/glossa/internal/tutor"
	"github.com/spf13/cobra"
)

var tutorAnswer string

var tutorCmd = &cobra.Command{
	Use:   "tutor <exercise-id> <question-id>",
	Short: "Ask the tutor to explain a question",
	Long: `Asks the configured tutor provider for a short explanation of a question.
Uses your recorded answer when the exercise has saved progress, or the
answer given with --answer.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		exerciseID, questionID := args[0], args[1]

		lib := resolveLibrary(cmd)
		_, bank, err := lib.Load(exerciseID)
		if err != nil {
			return fmt.Errorf("load exercise %s: %w", exerciseID, err)
		}
		q, ok := bank.Question(questionID)
		if !ok {
			return fmt.Errorf("no question %q in %s", questionID, exerciseID)
		}

		answer := tutorAnswer
		correct := false
		if answer == "" {
			gateway, err := resolveGateway(cmd)
			if err == nil {
				if state, err := gateway.Load(exerciseID); err == nil && state != nil {
					if rec := state.Record(q.Block, q.DisplayID); rec != nil {
						if rec.UserAnswer != nil {
							answer = flattenAnswer(q, rec.UserAnswer)
						}
						if rec.Verdict != nil {
							correct = rec.Verdict.Correct
						}
					}
				}
			}
		}

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
		provider, err := tutor.NewProviderFromEnv(ctx, st.Events())
		if err != nil {
			return err
		}
		explainer := tutor.NewExplainer(provider, tutor.DefaultExplainerConfig())

		exp, err := explainer.Explain(ctx, tutor.ExplainInput{
			Question:      q,
			LearnerAnswer: answer,
			Correct:       correct,
		})
		if err != nil {
			return fmt.Errorf("explain: %w", err)
		}

		fmt.Println(exp.Summary)
		if exp.Correction != "" {
			fmt.Println()
			fmt.Println(exp.Correction)
		}
		if exp.Tip != "" {
			fmt.Println()
			fmt.Printf("Tip: %s\n", exp.Tip)
		}
		return nil
	},
}

func init() {
	tutorCmd.Flags().StringVar(&tutorAnswer, "answer", "", "answer to explain instead of the saved one")
}

func flattenAnswer(q *questionbank.Question, resp *grading.Response) string {
	if resp.Blanks == nil {
		return resp.Text
	}
	out := ""
	for _, id := range q.BlankIDs() {
		if out != "" {
			out += "; "
		}
		out += id + ": " + resp.Blanks[id]
	}
	return out
}
