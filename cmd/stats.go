package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deimos993/qprep/internal/grading"
	"github.com/deimos993/qprep/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats [quiz-id]",
	Short: "Show attempt history and per-objective statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx := cmd.Context()
		results := st.Results()

		quizID := ""
		if len(args) == 1 {
			quizID = args[0]
		}

		summaries, err := results.Summaries(ctx)
		if err != nil {
			return fmt.Errorf("load summaries: %w", err)
		}
		if len(summaries) == 0 {
			fmt.Println("No attempts recorded yet.")
			return nil
		}

		fmt.Printf("%-30s %8s %7s %6s %10s\n", "QUIZ", "ATTEMPTS", "PASSES", "BEST", "LAST")
		for _, s := range summaries {
			if quizID != "" && s.QuizID != quizID {
				continue
			}
			fmt.Printf("%-30s %8d %7d %6d %7d/%d\n",
				s.QuizID, s.Attempts, s.Passes, s.BestScore, s.LastScore, s.LastTotal)
		}

		totals, err := results.ObjectiveTotals(ctx, quizID)
		if err != nil {
			return fmt.Errorf("load objective totals: %w", err)
		}
		if len(totals) == 0 {
			return nil
		}

		fmt.Println("\nBy learning objective (all attempts):")
		chapters := grading.RollupChapters(totals)
		for _, ch := range grading.SortedCodes(chapters) {
			stat := chapters[ch]
			fmt.Printf("  %-12s %d/%d\n", ch, stat.Correct, stat.Total)
			for _, code := range grading.SortedCodes(totals) {
				obj, err := grading.ParseObjective(code)
				if err != nil || obj.ChapterCode() != ch {
					continue
				}
				stat := totals[code]
				fmt.Printf("    %-12s %d/%d\n", code, stat.Correct, stat.Total)
			}
		}
		return nil
	},
}
